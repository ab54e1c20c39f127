package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/invoices"
	"github.com/dmitrijs2005/autobody/internal/client/repositories/settings"
	"github.com/dmitrijs2005/autobody/internal/dbx"
	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

// Exporter turns an invoice into a delivered PDF. *export.Pipeline
// implements it.
type Exporter interface {
	Export(ctx context.Context, h invoice.Header, items []ledger.LineItem) (*export.Result, error)
}

// InvoiceService backs the invoice builder: numbering, the persisted draft,
// export and the local record of issued invoices.
type InvoiceService interface {
	// NextNumber returns the number the next exported invoice will take,
	// F-YYYY-NNNN. The sequence restarts every year.
	NextNumber(ctx context.Context, now time.Time) (string, error)
	// NewHeader returns a fresh header with the next number and the default notes.
	NewHeader(ctx context.Context, now time.Time) (invoice.Header, error)

	SaveDraft(ctx context.Context, h invoice.Header, items []ledger.LineItem) error
	// LoadDraft returns nil when no draft is stored.
	LoadDraft(ctx context.Context) (*models.Draft, error)
	DiscardDraft(ctx context.Context) error

	DefaultNotes(ctx context.Context) (string, error)
	SetDefaultNotes(ctx context.Context, notes string) error

	// Export runs the export pipeline and, once the PDF is delivered, stores
	// the record, advances the numbering and clears the draft.
	Export(ctx context.Context, h invoice.Header, items []ledger.LineItem) (*models.InvoiceRecord, *export.Result, error)
	Records(ctx context.Context) ([]models.InvoiceRecord, error)
}

type invoiceService struct {
	db       *sql.DB
	exporter Exporter
	taxRate  float64
	now      func() time.Time
}

// NewInvoiceService builds the service over the client database. taxRate
// is the global rate new headers start with.
func NewInvoiceService(db *sql.DB, exporter Exporter, taxRate float64) InvoiceService {
	return &invoiceService{db: db, exporter: exporter, taxRate: taxRate, now: time.Now}
}

func (s *invoiceService) settingsRepo(db dbx.DBTX) settings.Repository {
	return settings.NewSQLiteRepository(db)
}

func (s *invoiceService) invoiceRepo(db dbx.DBTX) invoices.Repository {
	return invoices.NewSQLiteRepository(db)
}

func FormatInvoiceNumber(year, seq int) string {
	return fmt.Sprintf("F-%04d-%04d", year, seq)
}

// sequence returns the next sequence value for the year of now.
func sequence(ctx context.Context, repo settings.Repository, now time.Time) (int, error) {
	year, ok, err := repo.Get(ctx, settings.KeySequenceYear)
	if err != nil {
		return 0, err
	}
	if !ok || year != strconv.Itoa(now.Year()) {
		return 1, nil
	}

	v, ok, err := repo.Get(ctx, settings.KeyNextInvoiceSeq)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	seq, err := strconv.Atoi(v)
	if err != nil || seq < 1 {
		return 1, nil
	}
	return seq, nil
}

func (s *invoiceService) NextNumber(ctx context.Context, now time.Time) (string, error) {
	seq, err := sequence(ctx, s.settingsRepo(s.db), now)
	if err != nil {
		return "", fmt.Errorf("error reading invoice sequence: %w", err)
	}
	return FormatInvoiceNumber(now.Year(), seq), nil
}

func (s *invoiceService) NewHeader(ctx context.Context, now time.Time) (invoice.Header, error) {
	h := invoice.NewHeader(now)
	if s.taxRate > 0 {
		h.GlobalTaxRate = s.taxRate
	}

	num, err := s.NextNumber(ctx, now)
	if err != nil {
		return h, err
	}
	h.Number = num

	notes, err := s.DefaultNotes(ctx)
	if err != nil {
		return h, err
	}
	h.Notes = notes
	return h, nil
}

func (s *invoiceService) SaveDraft(ctx context.Context, h invoice.Header, items []ledger.LineItem) error {
	data, err := json.Marshal(models.NewDraft(h, items))
	if err != nil {
		return fmt.Errorf("error encoding draft: %w", err)
	}
	if err := s.settingsRepo(s.db).Set(ctx, settings.KeyDraft, string(data)); err != nil {
		return fmt.Errorf("error saving draft: %w", err)
	}
	return nil
}

func (s *invoiceService) LoadDraft(ctx context.Context) (*models.Draft, error) {
	v, ok, err := s.settingsRepo(s.db).Get(ctx, settings.KeyDraft)
	if err != nil {
		return nil, fmt.Errorf("error loading draft: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var d models.Draft
	if err := json.Unmarshal([]byte(v), &d); err != nil {
		return nil, fmt.Errorf("error decoding draft: %w", err)
	}
	return &d, nil
}

func (s *invoiceService) DiscardDraft(ctx context.Context) error {
	if err := s.settingsRepo(s.db).Delete(ctx, settings.KeyDraft); err != nil {
		return fmt.Errorf("error discarding draft: %w", err)
	}
	return nil
}

func (s *invoiceService) DefaultNotes(ctx context.Context) (string, error) {
	v, ok, err := s.settingsRepo(s.db).Get(ctx, settings.KeyDefaultNotes)
	if err != nil {
		return "", fmt.Errorf("error reading default notes: %w", err)
	}
	if !ok {
		return invoice.DefaultNotes, nil
	}
	return v, nil
}

func (s *invoiceService) SetDefaultNotes(ctx context.Context, notes string) error {
	if err := s.settingsRepo(s.db).Set(ctx, settings.KeyDefaultNotes, notes); err != nil {
		return fmt.Errorf("error saving default notes: %w", err)
	}
	return nil
}

func (s *invoiceService) Export(ctx context.Context, h invoice.Header, items []ledger.LineItem) (*models.InvoiceRecord, *export.Result, error) {
	res, err := s.exporter.Export(ctx, h, items)
	if err != nil {
		return nil, nil, err
	}

	rec := models.RecordFromSnapshot(res.Snapshot, res.Location)
	// the sequence that advances is the one of the invoice's own year
	now := h.Date
	if now.IsZero() {
		now = s.now()
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.invoiceRepo(tx).Insert(ctx, &rec, res.PDF); err != nil {
			return err
		}

		sr := s.settingsRepo(tx)
		seq, err := sequence(ctx, sr, now)
		if err != nil {
			return err
		}
		if err := sr.Set(ctx, settings.KeySequenceYear, strconv.Itoa(now.Year())); err != nil {
			return err
		}
		if err := sr.Set(ctx, settings.KeyNextInvoiceSeq, strconv.Itoa(seq+1)); err != nil {
			return err
		}
		return sr.Delete(ctx, settings.KeyDraft)
	})
	if err != nil {
		// the PDF is already delivered; report the bookkeeping failure with it
		return nil, res, fmt.Errorf("error recording invoice %s: %w", rec.Number, err)
	}
	return &rec, res, nil
}

func (s *invoiceService) Records(ctx context.Context) ([]models.InvoiceRecord, error) {
	list, err := s.invoiceRepo(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing invoices: %w", err)
	}
	return list, nil
}
