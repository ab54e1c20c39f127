package invoice

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/autobody/internal/ledger"
)

var (
	ErrComputationAnomaly = errors.New("invoice totals are not finite numbers")
	ErrNoItems            = errors.New("invoice has no line items")
)

// Snapshot is a frozen copy of an invoice taken at export time. It has no
// exported fields and no setters; edits made to the ledger after capture do
// not reach it.
type Snapshot struct {
	id         uuid.UUID
	capturedAt time.Time
	header     Header
	items      []ledger.LineItem
	aggregates ledger.Aggregates
}

type snapshotOptions struct {
	strictNumbers bool
}

// SnapshotOption tweaks NewSnapshot.
type SnapshotOption func(*snapshotOptions)

// StrictNumbers rejects snapshots whose totals are NaN or infinite with
// ErrComputationAnomaly. Without it such totals are captured and reported by
// Snapshot.Anomalous.
func StrictNumbers() SnapshotOption {
	return func(o *snapshotOptions) { o.strictNumbers = true }
}

// NewSnapshot validates h and items and, if they pass, captures them.
// Validation failures are returned as ValidationErrors.
func NewSnapshot(h Header, items []ledger.LineItem, now time.Time, opts ...SnapshotOption) (*Snapshot, error) {
	var o snapshotOptions
	for _, fn := range opts {
		fn(&o)
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if errs := Validate(h, items); !errs.Valid() {
		return nil, errs
	}

	cp := make([]ledger.LineItem, len(items))
	copy(cp, items)

	agg := ledger.ComputeAggregates(cp, h.GlobalTaxRate)
	if o.strictNumbers && (agg.Anomalous() || math.IsNaN(h.GlobalTaxRate)) {
		return nil, ErrComputationAnomaly
	}

	return &Snapshot{
		id:         uuid.New(),
		capturedAt: now,
		header:     h,
		items:      cp,
		aggregates: agg,
	}, nil
}

func (s *Snapshot) ID() uuid.UUID                 { return s.id }
func (s *Snapshot) CapturedAt() time.Time         { return s.capturedAt }
func (s *Snapshot) Header() Header                { return s.header }
func (s *Snapshot) Aggregates() ledger.Aggregates { return s.aggregates }
func (s *Snapshot) Anomalous() bool               { return s.aggregates.Anomalous() }

// Items returns a copy of the captured rows.
func (s *Snapshot) Items() []ledger.LineItem {
	cp := make([]ledger.LineItem, len(s.items))
	copy(cp, s.items)
	return cp
}
