package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/autobody/internal/dbx"
	"github.com/dmitrijs2005/autobody/internal/server/models"
	"github.com/dmitrijs2005/autobody/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/autobody/internal/server/storage"
	"github.com/dmitrijs2005/autobody/internal/shared"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Presigner hands out time-limited object storage URLs.
type Presigner interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// ArchiveService keeps the invoice index and issues the URLs the client
// uses to move PDFs in and out of object storage.
type ArchiveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       Presigner
	now         func() time.Time
}

func NewArchiveService(db *sql.DB, m repomanager.RepositoryManager, store Presigner) *ArchiveService {
	return &ArchiveService{db: db, repomanager: m, store: store, now: time.Now}
}

func validateInvoice(inv *models.Invoice) error {
	if _, err := uuid.Parse(inv.ID); err != nil {
		return fmt.Errorf("%w: id must be a uuid", shared.ErrorValidation)
	}
	if strings.TrimSpace(inv.Number) == "" {
		return fmt.Errorf("%w: number is required", shared.ErrorValidation)
	}
	if inv.IssuedAt.IsZero() {
		return fmt.Errorf("%w: issue date is required", shared.ErrorValidation)
	}
	return nil
}

// PutInvoice records the invoice and returns its object key and a presigned
// upload URL. The record is rolled back when no URL can be issued.
func (s *ArchiveService) PutInvoice(ctx context.Context, inv *models.Invoice) (string, string, error) {
	if err := validateInvoice(inv); err != nil {
		return "", "", err
	}

	inv.ObjectKey = storage.ObjectKey(s.now())

	var uploadURL string
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Invoices(tx).Upsert(ctx, inv); err != nil {
			return fmt.Errorf("error saving invoice: %w", err)
		}
		url, err := s.store.PresignPut(ctx, inv.ObjectKey)
		if err != nil {
			return fmt.Errorf("error presigning upload: %w", err)
		}
		uploadURL = url
		return nil
	})
	if err != nil {
		return "", "", err
	}

	return inv.ObjectKey, uploadURL, nil
}

// List pages through the archive, newest first. Out-of-range paging
// arguments are clamped.
func (s *ArchiveService) List(ctx context.Context, limit, offset int) ([]*models.Invoice, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, err := s.repomanager.Invoices(s.db).List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}
	return items, nil
}

// DownloadURL presigns a GET for an uploaded invoice PDF.
func (s *ArchiveService) DownloadURL(ctx context.Context, id string) (string, error) {
	inv, err := s.repomanager.Invoices(s.db).GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("error getting invoice: %w", err)
	}
	if !inv.Uploaded {
		return "", shared.ErrorNotUploaded
	}

	url, err := s.store.PresignGet(ctx, inv.ObjectKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %w", err)
	}
	return url, nil
}

func (s *ArchiveService) MarkUploaded(ctx context.Context, id string) error {
	if err := s.repomanager.Invoices(s.db).MarkUploaded(ctx, id); err != nil {
		return fmt.Errorf("error updating invoice: %w", err)
	}
	return nil
}
