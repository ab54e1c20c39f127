package ledger

import (
	"math"
	"sort"
)

// Aggregates are the derived invoice totals.
type Aggregates struct {
	Subtotal  float64 `json:"subtotal"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// ComputeAggregates sums quantity × unit price over items and applies
// globalTaxRate (a percentage) to the subtotal. It has no side effects.
func ComputeAggregates(items []LineItem, globalTaxRate float64) Aggregates {
	var subtotal float64
	for _, it := range items {
		subtotal += it.Amount()
	}
	tax := subtotal * globalTaxRate / 100
	return Aggregates{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal + tax,
	}
}

// Anomalous reports whether any figure is NaN or infinite.
func (a Aggregates) Anomalous() bool {
	for _, v := range []float64{a.Subtotal, a.TaxAmount, a.Total} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// TaxBand is the part of an invoice taxed at one rate.
type TaxBand struct {
	Rate      float64 `json:"rate"`
	Base      float64 `json:"base"`
	TaxAmount float64 `json:"tax_amount"`
}

// MixedAggregates is the per-line-rate variant of Aggregates.
type MixedAggregates struct {
	Aggregates
	Bands []TaxBand `json:"bands"`
}

// ComputeMixedAggregates taxes every row at its own TaxRate and groups the
// result by rate, ascending. Rows whose rate is NaN land in a NaN band.
func ComputeMixedAggregates(items []LineItem) MixedAggregates {
	byRate := make(map[float64]*TaxBand)
	var nanBand *TaxBand
	var out MixedAggregates

	for _, it := range items {
		base := it.Amount()
		tax := base * it.TaxRate / 100
		out.Subtotal += base
		out.TaxAmount += tax

		if math.IsNaN(it.TaxRate) {
			if nanBand == nil {
				nanBand = &TaxBand{Rate: math.NaN()}
			}
			nanBand.Base += base
			nanBand.TaxAmount += tax
			continue
		}
		b, ok := byRate[it.TaxRate]
		if !ok {
			b = &TaxBand{Rate: it.TaxRate}
			byRate[it.TaxRate] = b
		}
		b.Base += base
		b.TaxAmount += tax
	}
	out.Total = out.Subtotal + out.TaxAmount

	for _, b := range byRate {
		out.Bands = append(out.Bands, *b)
	}
	sort.Slice(out.Bands, func(i, j int) bool { return out.Bands[i].Rate < out.Bands[j].Rate })
	if nanBand != nil {
		out.Bands = append(out.Bands, *nanBand)
	}
	return out
}
