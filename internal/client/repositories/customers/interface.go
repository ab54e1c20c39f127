// Package customers persists the shop's customers in the local database.
package customers

import (
	"context"

	"github.com/dmitrijs2005/autobody/internal/client/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	// List returns customers ordered by name.
	List(ctx context.Context) ([]models.Customer, error)
	// DeleteByID returns common.ErrorNotFound when nothing was deleted.
	DeleteByID(ctx context.Context, id string) error
}
