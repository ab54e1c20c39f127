package invoices

import (
	"context"

	"github.com/dmitrijs2005/autobody/internal/server/models"
)

// Repository persists archived invoice records.
type Repository interface {
	Upsert(ctx context.Context, inv *models.Invoice) error
	GetByID(ctx context.Context, id string) (*models.Invoice, error)
	List(ctx context.Context, limit, offset int) ([]*models.Invoice, error)
	MarkUploaded(ctx context.Context, id string) error
}
