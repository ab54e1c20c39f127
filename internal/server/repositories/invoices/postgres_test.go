package invoices

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/server/models"
	"github.com/shopspring/decimal"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var (
	issued  = time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	created = time.Date(2026, 5, 4, 10, 30, 0, 0, time.UTC)
	columns = []string{"id", "number", "client_name", "issued_at", "subtotal", "tax_amount", "total", "object_key", "uploaded", "created_at"}
)

func money(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestUpsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+invoices\s*\(id,.*object_key\)\s*VALUES\s*\(\$1,.*\$8\)\s*ON\s+CONFLICT\s*\(id\)\s*DO\s+UPDATE.*RETURNING\s+object_key,\s*uploaded,\s*created_at\s*$`

	rows := sqlmock.NewRows([]string{"object_key", "uploaded", "created_at"}).
		AddRow("invoices/2026/05/04/old.pdf", true, created)
	mock.ExpectQuery(q).
		WithArgs("inv-1", "F-2026-0001", "Taller Ruiz", issued,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "invoices/2026/05/04/new.pdf").
		WillReturnRows(rows)

	inv := &models.Invoice{
		ID: "inv-1", Number: "F-2026-0001", ClientName: "Taller Ruiz", IssuedAt: issued,
		Subtotal: money("100"), TaxAmount: money("21"), Total: money("121"),
		ObjectKey: "invoices/2026/05/04/new.pdf",
	}
	if err := repo.Upsert(context.Background(), inv); err != nil {
		t.Fatalf("Upsert error: %v", err)
	}
	if inv.ObjectKey != "invoices/2026/05/04/old.pdf" || !inv.Uploaded || !inv.CreatedAt.Equal(created) {
		t.Fatalf("stored values not read back: %+v", inv)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+invoices`).WillReturnError(errors.New("db down"))

	err := repo.Upsert(context.Background(), &models.Invoice{ID: "inv-1"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*created_at\s+FROM\s+invoices\s+WHERE\s+id\s*=\s*\$1\s*$`

	rows := sqlmock.NewRows(columns).
		AddRow("inv-1", "F-2026-0001", "Taller Ruiz", issued, "100.00", "21.00", "121.00", "k", false, created)
	mock.ExpectQuery(q).WithArgs("inv-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Number != "F-2026-0001" || !got.Total.Valid || got.Total.Decimal.String() != "121" {
		t.Fatalf("unexpected invoice: %+v", got)
	}
}

func TestGetByID_NullAmounts(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("inv-1", "F-2026-0001", "Taller Ruiz", issued, nil, nil, nil, "k", false, created)
	mock.ExpectQuery(`FROM\s+invoices`).WithArgs("inv-1").WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.Subtotal.Valid || got.TaxAmount.Valid || got.Total.Valid {
		t.Fatalf("expected NULL amounts, got %+v", got)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+invoices`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestList_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,.*FROM\s+invoices\s+ORDER\s+BY\s+issued_at\s+DESC,\s*number\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2\s*$`

	rows := sqlmock.NewRows(columns).
		AddRow("inv-2", "F-2026-0002", "B", issued, "10", "2.1", "12.1", "k2", true, created).
		AddRow("inv-1", "F-2026-0001", "A", issued, "100", "21", "121", "k1", false, created)
	mock.ExpectQuery(q).WithArgs(20, 40).WillReturnRows(rows)

	got, err := repo.List(context.Background(), 20, 40)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "inv-2" || !got[0].Uploaded || got[1].Uploaded {
		t.Fatalf("unexpected list: %+v", got)
	}
}

func TestList_ScanError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("inv-1", "F", "A", "not-a-time", "1", "1", "1", "k", false, created)
	mock.ExpectQuery(`FROM\s+invoices`).WillReturnRows(rows)

	if _, err := repo.List(context.Background(), 10, 0); err == nil {
		t.Fatal("expected scan error")
	}
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+invoices`).WillReturnError(errors.New("boom"))

	if _, err := repo.List(context.Background(), 10, 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestMarkUploaded(t *testing.T) {
	q := `(?s)^UPDATE\s+invoices\s+SET\s+uploaded\s*=\s*TRUE\s+WHERE\s+id\s*=\s*\$1\s*$`

	t.Run("ok", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("inv-1").WillReturnResult(sqlmock.NewResult(0, 1))
		if err := repo.MarkUploaded(context.Background(), "inv-1"); err != nil {
			t.Fatalf("MarkUploaded error: %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("x").WillReturnResult(sqlmock.NewResult(0, 0))
		if err := repo.MarkUploaded(context.Background(), "x"); !errors.Is(err, common.ErrorNotFound) {
			t.Fatalf("expected ErrorNotFound, got %v", err)
		}
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs("x").WillReturnError(errors.New("db down"))
		if err := repo.MarkUploaded(context.Background(), "x"); err == nil {
			t.Fatal("expected error")
		}
	})
}
