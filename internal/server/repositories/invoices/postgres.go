// Package invoices stores archived invoice records in PostgreSQL.
package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/dbx"
	"github.com/dmitrijs2005/autobody/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Upsert inserts the invoice or refreshes its header fields when the ID is
// already archived. The stored object key and upload flag win over the
// caller's, so a retried put keeps pointing at the same object.
func (r *PostgresRepository) Upsert(ctx context.Context, inv *models.Invoice) error {
	query :=
		`INSERT INTO invoices (id, number, client_name, issued_at, subtotal, tax_amount, total, object_key)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		   number = EXCLUDED.number,
		   client_name = EXCLUDED.client_name,
		   issued_at = EXCLUDED.issued_at,
		   subtotal = EXCLUDED.subtotal,
		   tax_amount = EXCLUDED.tax_amount,
		   total = EXCLUDED.total
		 RETURNING object_key, uploaded, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		inv.ID, inv.Number, inv.ClientName, inv.IssuedAt,
		inv.Subtotal, inv.TaxAmount, inv.Total, inv.ObjectKey,
	).Scan(&inv.ObjectKey, &inv.Uploaded, &inv.CreatedAt)

	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

const selectColumns = `id, number, client_name, issued_at, subtotal, tax_amount, total, object_key, uploaded, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanInvoice(s scanner) (*models.Invoice, error) {
	inv := &models.Invoice{}
	err := s.Scan(&inv.ID, &inv.Number, &inv.ClientName, &inv.IssuedAt,
		&inv.Subtotal, &inv.TaxAmount, &inv.Total,
		&inv.ObjectKey, &inv.Uploaded, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Invoice, error) {
	query := `SELECT ` + selectColumns + ` FROM invoices
		 WHERE id = $1
		 `

	inv, err := scanInvoice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return inv, nil
}

// List returns invoices newest first.
func (r *PostgresRepository) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	query := `SELECT ` + selectColumns + ` FROM invoices
		 ORDER BY issued_at DESC, number DESC
		 LIMIT $1 OFFSET $2
		 `

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) MarkUploaded(ctx context.Context, id string) error {
	query :=
		`UPDATE invoices SET uploaded = TRUE
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
