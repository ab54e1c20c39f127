package ledger

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Defaults applied to a freshly added row.
const (
	DefaultQuantity  = 1.0
	DefaultUnitPrice = 0.0
	DefaultTaxRate   = 21.0
)

// Field names accepted by Ledger.Update.
const (
	FieldDescription = "description"
	FieldQuantity    = "quantity"
	FieldUnitPrice   = "unit_price"
	FieldTaxRate     = "tax_rate"
)

var (
	ErrLastItem        = errors.New("the last line item cannot be removed")
	ErrIndexOutOfRange = errors.New("line item index out of range")
	ErrUnknownField    = errors.New("unknown line item field")
)

// LineItem is one billable row of an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	// TaxRate is a percentage (0-100). It is shown per row; the default
	// aggregation uses the invoice-wide rate instead.
	TaxRate float64 `json:"tax_rate"`
}

// NewLineItem returns a row with the default values.
func NewLineItem() LineItem {
	return LineItem{
		Quantity:  DefaultQuantity,
		UnitPrice: DefaultUnitPrice,
		TaxRate:   DefaultTaxRate,
	}
}

// Amount is quantity × unit price. NaN operands give NaN.
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

// ParseNumber converts user input to a float64. Both "." and "," are
// accepted as decimal separator. Anything else yields NaN, never an error:
// the value is meant to propagate into the aggregates.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
