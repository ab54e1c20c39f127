package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autobody/internal/archiveapi"
	"github.com/dmitrijs2005/autobody/internal/client/archive"
	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/invoices"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/settings"
	"github.com/dmitrijs2005/autobody/internal/logging"
)

// ArchiveClient is the part of *archive.Client the sync service needs.
type ArchiveClient interface {
	Ping(ctx context.Context) error
	Login(ctx context.Context, username string, password []byte) (string, error)
	SetToken(tok string)
	Upload(ctx context.Context, rec models.InvoiceRecord, pdf []byte) error
	List(ctx context.Context, limit, offset int) ([]archiveapi.Invoice, error)
	DownloadURL(ctx context.Context, id string) (string, error)
}

// SyncReport summarizes one Sync run.
type SyncReport struct {
	Uploaded int
	Failed   int
	// Pending is what is still unsynced afterwards.
	Pending int
}

// SyncService pushes locally issued invoices to the archive server.
type SyncService interface {
	Ping(ctx context.Context) error
	// Login authenticates and remembers the token for later sessions.
	Login(ctx context.Context, username string, password []byte) error
	// RestoreSession reuses a remembered token, reporting whether one existed.
	RestoreSession(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
	// Sync uploads every unsynced record, oldest first. It stops at the first
	// connectivity or authorization failure; other failures are counted and
	// the remaining records are still tried.
	Sync(ctx context.Context) (SyncReport, error)
	Remote(ctx context.Context, limit, offset int) ([]archiveapi.Invoice, error)
	DownloadURL(ctx context.Context, id string) (string, error)
}

type syncService struct {
	client   ArchiveClient
	invoices invoices.Repository
	settings settings.Repository
	log      logging.Logger
}

func NewSyncService(client ArchiveClient, inv invoices.Repository, st settings.Repository, log logging.Logger) SyncService {
	if log == nil {
		log = logging.Nop{}
	}
	return &syncService{client: client, invoices: inv, settings: st, log: log}
}

func (s *syncService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

func (s *syncService) Login(ctx context.Context, username string, password []byte) error {
	tok, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.settings.Set(ctx, settings.KeyArchiveToken, tok); err != nil {
		return fmt.Errorf("error saving token: %w", err)
	}
	return nil
}

func (s *syncService) RestoreSession(ctx context.Context) (bool, error) {
	tok, ok, err := s.settings.Get(ctx, settings.KeyArchiveToken)
	if err != nil {
		return false, fmt.Errorf("error reading token: %w", err)
	}
	if !ok || tok == "" {
		return false, nil
	}
	s.client.SetToken(tok)
	return true, nil
}

func (s *syncService) Logout(ctx context.Context) error {
	s.client.SetToken("")
	if err := s.settings.Delete(ctx, settings.KeyArchiveToken); err != nil {
		return fmt.Errorf("error removing token: %w", err)
	}
	return nil
}

func fatalSyncError(err error) bool {
	return errors.Is(err, archive.ErrUnavailable) ||
		errors.Is(err, archive.ErrUnauthorized) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (s *syncService) Sync(ctx context.Context) (rep SyncReport, err error) {
	pending, err := s.invoices.ListUnsynced(ctx)
	if err != nil {
		return rep, fmt.Errorf("error retrieving invoices: %w", err)
	}
	defer func() { rep.Pending = len(pending) - rep.Uploaded }()

	for _, rec := range pending {
		pdf, err := s.invoices.PDF(ctx, rec.ID)
		if err != nil {
			s.log.Warn(ctx, "pdf not available", "number", rec.Number, "error", err)
			rep.Failed++
			continue
		}

		if err := s.client.Upload(ctx, rec, pdf); err != nil {
			if fatalSyncError(err) {
				return rep, err
			}
			s.log.Warn(ctx, "upload failed", "number", rec.Number, "error", err)
			rep.Failed++
			continue
		}

		if err := s.invoices.MarkSynced(ctx, rec.ID); err != nil {
			return rep, fmt.Errorf("error marking %s synced: %w", rec.Number, err)
		}
		rep.Uploaded++
		s.log.Info(ctx, "invoice archived", "number", rec.Number)
	}

	return rep, nil
}

func (s *syncService) Remote(ctx context.Context, limit, offset int) ([]archiveapi.Invoice, error) {
	return s.client.List(ctx, limit, offset)
}

func (s *syncService) DownloadURL(ctx context.Context, id string) (string, error) {
	return s.client.DownloadURL(ctx, id)
}
