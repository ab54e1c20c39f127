package ledger

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol is appended to every formatted amount.
const CurrencySymbol = "€"

// RoundCents rounds v half away from zero to two decimals. NaN and
// infinities are returned unchanged.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// FormatMoney renders v the way the shop prints amounts: "1.234,56 €".
// NaN is printed as "NaN €" so a broken total stays visible.
func FormatMoney(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN " + CurrencySymbol
	case math.IsInf(v, 1):
		return "∞ " + CurrencySymbol
	case math.IsInf(v, -1):
		return "-∞ " + CurrencySymbol
	}

	s := decimal.NewFromFloat(v).StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + frac + " " + CurrencySymbol
	if neg && strings.Trim(intPart+frac, "0") != "" {
		out = "-" + out
	}
	return out
}

// FormatPercent renders a rate as "21 %" or "10,5 %".
func FormatPercent(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN %"
	case math.IsInf(v, 1):
		return "∞ %"
	case math.IsInf(v, -1):
		return "-∞ %"
	}
	s := decimal.NewFromFloat(v).Round(2).String()
	return strings.Replace(s, ".", ",", 1) + " %"
}
