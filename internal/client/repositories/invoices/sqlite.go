package invoices

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `id, number, client_name, issued_at, subtotal, tax_amount, total, file_path, synced`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.InvoiceRecord, pdf []byte) error {
	query := `INSERT INTO invoices (` + selectColumns + `, pdf) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Number, rec.ClientName, rec.IssuedAt.UTC().Format(time.RFC3339Nano),
		finite(rec.Subtotal), finite(rec.TaxAmount), finite(rec.Total),
		rec.FilePath, rec.Synced, pdf,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PDF(ctx context.Context, id string) ([]byte, error) {
	var pdf []byte
	err := r.db.QueryRowContext(ctx, `SELECT pdf FROM invoices WHERE id = ?`, id).Scan(&pdf)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice pdf: %w", err)
	}
	return pdf, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]models.InvoiceRecord, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM invoices ORDER BY issued_at DESC`)
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context) ([]models.InvoiceRecord, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM invoices WHERE synced = 0 ORDER BY issued_at`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE invoices SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark invoice synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) query(ctx context.Context, q string) ([]models.InvoiceRecord, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to select invoice records: %w", err)
	}
	defer rows.Close()

	var out []models.InvoiceRecord
	for rows.Next() {
		var (
			rec                  models.InvoiceRecord
			issued               string
			subtotal, tax, total sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Number, &rec.ClientName, &issued,
			&subtotal, &tax, &total, &rec.FilePath, &rec.Synced); err != nil {
			return nil, fmt.Errorf("failed to scan invoice record: %w", err)
		}
		if rec.IssuedAt, err = time.Parse(time.RFC3339Nano, issued); err != nil {
			return nil, fmt.Errorf("parse issued_at: %w", err)
		}
		rec.Subtotal, rec.TaxAmount, rec.Total = orNaN(subtotal), orNaN(tax), orNaN(total)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// finite maps NaN and infinities to NULL; SQLite has no representation for
// them.
func finite(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
