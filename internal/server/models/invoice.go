// Package models defines the archive server's persisted records.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an issued invoice kept in the archive. Amounts are NULL when
// the client exported totals that were not numbers.
type Invoice struct {
	ID         string
	Number     string
	ClientName string
	IssuedAt   time.Time
	Subtotal   decimal.NullDecimal
	TaxAmount  decimal.NullDecimal
	Total      decimal.NullDecimal
	ObjectKey  string
	Uploaded   bool
	CreatedAt  time.Time
}
