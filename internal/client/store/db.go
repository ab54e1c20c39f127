// Package store opens the client's local SQLite database, applies the
// embedded migrations and wires the repositories on top of it.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/autobody/internal/client/migrations"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/customers"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/invoices"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/settings"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	DB        *sql.DB
	Customers customers.Repository
	Invoices  invoices.Repository
	Settings  settings.Repository
}

func (r *Repositories) Close() error { return r.DB.Close() }

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// InitDatabase opens (creating if needed) the database at dsn and migrates it.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY on the file
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		DB:        db,
		Customers: customers.NewSQLiteRepository(db),
		Invoices:  invoices.NewSQLiteRepository(db),
		Settings:  settings.NewSQLiteRepository(db),
	}, nil
}
