package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/autobody/internal/dbx"
	"github.com/dmitrijs2005/autobody/internal/server/repositories/invoices"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Invoices(db dbx.DBTX) invoices.Repository
}
