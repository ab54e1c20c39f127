// Package invoice holds the invoice header, its validation rules and the
// immutable snapshot handed to the export pipeline.
package invoice

import (
	"time"

	"github.com/dmitrijs2005/autobody/internal/ledger"
)

// DefaultNotes is the footer printed when the user leaves notes untouched.
const DefaultNotes = "Gracias por confiar en nuestro taller."

// DefaultTaxRate is the invoice-wide rate applied to the subtotal.
const DefaultTaxRate = ledger.DefaultTaxRate

// Header carries the client block and invoice metadata.
type Header struct {
	ClientName    string    `json:"client_name"`
	ClientTaxID   string    `json:"client_tax_id"`
	ClientEmail   string    `json:"client_email"`
	ClientAddress string    `json:"client_address"`
	Number        string    `json:"number"`
	Date          time.Time `json:"date"`
	Notes         string    `json:"notes"`
	GlobalTaxRate float64   `json:"global_tax_rate"`
}

// NewHeader returns a header dated now with the default notes and rate.
func NewHeader(now time.Time) Header {
	return Header{
		Date:          now,
		Notes:         DefaultNotes,
		GlobalTaxRate: DefaultTaxRate,
	}
}

// DateLayout is the printed form of Header.Date.
const DateLayout = "02/01/2006"
