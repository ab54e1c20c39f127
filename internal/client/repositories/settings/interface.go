// Package settings stores small client preferences (invoice numbering,
// default notes, the current draft) as key/value pairs.
package settings

import "context"

// Well-known keys.
const (
	KeyNextInvoiceSeq = "next_invoice_seq"
	KeySequenceYear   = "sequence_year"
	KeyDefaultNotes   = "default_notes"
	KeyDraft          = "draft"
	KeyArchiveToken   = "archive_token"
)

type Repository interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string]string, error)
}
