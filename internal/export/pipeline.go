package export

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/autobody/internal/common"
	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
	"github.com/dmitrijs2005/autobody/internal/logging"
)

// Config tunes a Pipeline.
type Config struct {
	Filename      string
	Scale         float64
	RenderTimeout time.Duration
	Page          PageSize
	Issuer        Issuer
	// StrictNumbers rejects invoices whose totals are not finite instead of
	// exporting them with the anomaly printed.
	StrictNumbers bool
}

func DefaultConfig() Config {
	return Config{
		Filename:      common.ExportFilename,
		Scale:         DefaultScale,
		RenderTimeout: 10 * time.Second,
		Page:          A4,
	}
}

// Result describes a delivered export.
type Result struct {
	Snapshot *invoice.Snapshot
	Filename string
	Location string
	PDF      []byte
	Pages    int
}

// Pipeline runs exports one at a time. It is safe for concurrent use.
type Pipeline struct {
	cfg       Config
	mounter   Mounter
	raster    Rasterizer
	assembler Assembler
	deliverer Deliverer
	log       logging.Logger
	now       func() time.Time
	hook      func(from, to State)

	busy  atomic.Bool
	mu    sync.Mutex
	state State
}

type Option func(*Pipeline)

func WithMounter(m Mounter) Option       { return func(p *Pipeline) { p.mounter = m } }
func WithRasterizer(r Rasterizer) Option { return func(p *Pipeline) { p.raster = r } }
func WithAssembler(a Assembler) Option   { return func(p *Pipeline) { p.assembler = a } }
func WithLogger(l logging.Logger) Option { return func(p *Pipeline) { p.log = l } }
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// OnTransition registers fn to be called after every state change.
func OnTransition(fn func(from, to State)) Option {
	return func(p *Pipeline) { p.hook = fn }
}

// New builds a pipeline delivering through d. Zero config fields take the
// DefaultConfig values.
func New(cfg Config, d Deliverer, opts ...Option) *Pipeline {
	def := DefaultConfig()
	if cfg.Filename == "" {
		cfg.Filename = def.Filename
	}
	if cfg.Scale <= 0 {
		cfg.Scale = def.Scale
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = def.RenderTimeout
	}
	if cfg.Page.WidthMM <= 0 || cfg.Page.HeightMM <= 0 {
		cfg.Page = def.Page
	}

	p := &Pipeline{
		cfg:       cfg,
		mounter:   &LayoutMounter{Issuer: cfg.Issuer, Page: cfg.Page},
		raster:    BitmapRasterizer{},
		assembler: &PDFAssembler{Page: cfg.Page},
		deliverer: d,
		log:       logging.Nop{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// State returns the current stage.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Busy reports whether an export is running. The HTTP server reports it on
// its status endpoint.
func (p *Pipeline) Busy() bool { return p.busy.Load() }

func (p *Pipeline) transition(to State) {
	p.mu.Lock()
	from := p.state
	p.state = to
	p.mu.Unlock()

	if p.hook != nil && from != to {
		p.hook(from, to)
	}
}

// Export snapshots the invoice and runs it through every stage.
//
// Validation failures come back as invoice.ValidationErrors, a concurrent
// call gets ErrExportInProgress, and anything that breaks after the snapshot
// is a *RenderingError. The pipeline is Idle again when Export returns.
func (p *Pipeline) Export(ctx context.Context, h invoice.Header, items []ledger.LineItem) (*Result, error) {
	if !p.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}
	defer p.busy.Store(false)
	defer p.transition(StateIdle)

	p.transition(StateSnapshotting)
	var sopts []invoice.SnapshotOption
	if p.cfg.StrictNumbers {
		sopts = append(sopts, invoice.StrictNumbers())
	}
	snap, err := invoice.NewSnapshot(h, items, p.now(), sopts...)
	if err != nil {
		p.log.Info(ctx, "export rejected", "number", h.Number, "error", err)
		return nil, err
	}

	log := p.log.With("snapshot", snap.ID().String(), "number", h.Number)
	if snap.Anomalous() {
		log.Warn(ctx, "invoice totals are not finite numbers", "total", snap.Aggregates().Total)
	}

	res, err := p.run(ctx, snap)
	if err != nil {
		log.Error(ctx, "export failed", "error", err)
		return nil, err
	}
	log.Info(ctx, "invoice exported", "location", res.Location, "pages", res.Pages, "bytes", len(res.PDF))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, snap *invoice.Snapshot) (*Result, error) {
	var mounted Mounted
	defer func() {
		if mounted != nil {
			mounted.Unmount()
		}
	}()

	layout, err := runStage(p, StateRendering, func() (*Layout, error) {
		m, err := p.mounter.Mount(ctx, snap)
		if err != nil {
			return nil, err
		}
		mounted = m
		return p.awaitLayout(ctx, m)
	})
	if err != nil {
		return nil, err
	}

	img, err := runStage(p, StateRasterizing, func() (*image.RGBA, error) {
		return p.raster.Rasterize(ctx, layout, p.cfg.Scale)
	})
	if err != nil {
		return nil, err
	}

	h := snap.Header()
	doc, err := runStage(p, StateAssembling, func() (*Document, error) {
		return p.assembler.Assemble(ctx, img, DocumentInfo{
			Title:   "Factura " + h.Number,
			Author:  p.cfg.Issuer.Name,
			Subject: h.ClientName,
		})
	})
	if err != nil {
		return nil, err
	}

	// delivery belongs to the assembling stage; Delivered is only entered
	// once the user has the file
	loc, err := runStage(p, StateAssembling, func() (string, error) {
		loc, err := p.deliverer.Deliver(ctx, p.cfg.Filename, doc.Bytes)
		if err != nil {
			return "", fmt.Errorf("deliver: %w", err)
		}
		return loc, nil
	})
	if err != nil {
		return nil, err
	}
	p.transition(StateDelivered)

	return &Result{
		Snapshot: snap,
		Filename: p.cfg.Filename,
		Location: loc,
		PDF:      doc.Bytes,
		Pages:    doc.Pages,
	}, nil
}

// awaitLayout blocks until the mount signals ready, ctx ends or the render
// timeout expires.
func (p *Pipeline) awaitLayout(ctx context.Context, m Mounted) (*Layout, error) {
	wctx, cancel := context.WithTimeout(ctx, p.cfg.RenderTimeout)
	defer cancel()

	select {
	case <-m.Ready():
		return m.Layout()
	case <-wctx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, ErrRenderTimeout
	}
}

// runStage enters s, runs fn and wraps any failure, panics included, in a
// RenderingError for s.
func runStage[T any](p *Pipeline, s State, fn func() (T, error)) (out T, err error) {
	p.transition(s)
	defer func() {
		if r := recover(); r != nil {
			err = &RenderingError{Stage: s, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err = fn()
	if err != nil {
		return out, &RenderingError{Stage: s, Err: err}
	}
	return out, nil
}
