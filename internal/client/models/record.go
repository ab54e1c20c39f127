package models

import (
	"strconv"
	"time"

	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

// InvoiceRecord is the local trace of an exported invoice.
type InvoiceRecord struct {
	ID         string
	Number     string
	ClientName string
	IssuedAt   time.Time
	Subtotal   float64
	TaxAmount  float64
	Total      float64
	FilePath   string
	Synced     bool
}

// RecordFromSnapshot derives the record from an exported snapshot. Totals
// are the snapshot's own aggregates rounded to cents.
func RecordFromSnapshot(s *invoice.Snapshot, path string) InvoiceRecord {
	h := s.Header()
	agg := s.Aggregates()
	return InvoiceRecord{
		ID:         s.ID().String(),
		Number:     h.Number,
		ClientName: h.ClientName,
		IssuedAt:   s.CapturedAt(),
		Subtotal:   ledger.RoundCents(agg.Subtotal),
		TaxAmount:  ledger.RoundCents(agg.TaxAmount),
		Total:      ledger.RoundCents(agg.Total),
		FilePath:   path,
	}
}

// Anomalous reports whether any total is not a finite number.
func (r InvoiceRecord) Anomalous() bool {
	return ledger.Aggregates{Subtotal: r.Subtotal, TaxAmount: r.TaxAmount, Total: r.Total}.Anomalous()
}

// Draft is the invoice being edited, kept across client restarts.
type Draft struct {
	Header invoice.Header `json:"header"`
	// GlobalTaxRate is the header rate as text; Header.GlobalTaxRate is
	// left zero because JSON cannot carry NaN.
	GlobalTaxRate string      `json:"global_tax_rate"`
	Items         []DraftItem `json:"items"`
}

// DraftItem stores numbers as text so NaN survives the JSON round trip.
type DraftItem struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
}

// NewDraft captures a header and ledger rows.
func NewDraft(h invoice.Header, items []ledger.LineItem) Draft {
	rate := formatFloat(h.GlobalTaxRate)
	h.GlobalTaxRate = 0
	d := Draft{Header: h, GlobalTaxRate: rate, Items: make([]DraftItem, 0, len(items))}
	for _, it := range items {
		d.Items = append(d.Items, DraftItem{
			Description: it.Description,
			Quantity:    formatFloat(it.Quantity),
			UnitPrice:   formatFloat(it.UnitPrice),
			TaxRate:     formatFloat(it.TaxRate),
		})
	}
	return d
}

// InvoiceHeader returns the stored header with its tax rate restored.
// Drafts saved before the rate was kept as text fall back to the header's
// own number.
func (d Draft) InvoiceHeader() invoice.Header {
	h := d.Header
	if d.GlobalTaxRate != "" {
		h.GlobalTaxRate = ledger.ParseNumber(d.GlobalTaxRate)
	}
	return h
}

// LineItems turns the stored rows back into ledger items.
func (d Draft) LineItems() []ledger.LineItem {
	out := make([]ledger.LineItem, 0, len(d.Items))
	for _, it := range d.Items {
		out = append(out, ledger.LineItem{
			Description: it.Description,
			Quantity:    ledger.ParseNumber(it.Quantity),
			UnitPrice:   ledger.ParseNumber(it.UnitPrice),
			TaxRate:     ledger.ParseNumber(it.TaxRate),
		})
	}
	return out
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
