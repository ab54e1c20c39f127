// Package invoices keeps the local record of every exported invoice.
package invoices

import (
	"context"

	"github.com/dmitrijs2005/autobody/internal/client/models"
)

type Repository interface {
	// Insert stores the record together with the PDF that was delivered.
	Insert(ctx context.Context, r *models.InvoiceRecord, pdf []byte) error
	// PDF returns the stored document of a record.
	PDF(ctx context.Context, id string) ([]byte, error)
	// List returns all records, newest first.
	List(ctx context.Context) ([]models.InvoiceRecord, error)
	// ListUnsynced returns records not yet stored in the archive, oldest first.
	ListUnsynced(ctx context.Context) ([]models.InvoiceRecord, error)
	MarkSynced(ctx context.Context, id string) error
}
