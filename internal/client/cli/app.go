package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/autobody/internal/client/config"
	"github.com/dmitrijs2005/autobody/internal/client/services"
	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
	"github.com/dmitrijs2005/autobody/internal/logging"
)

// App is the interactive admin client. It owns the invoice being edited:
// the header and the ledger are only touched from the REPL goroutine.
type App struct {
	config    *config.Config
	customers services.CustomerService
	invoices  services.InvoiceService
	archive   services.SyncService
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
	now       func() time.Time

	header   invoice.Header
	ledger   *ledger.Ledger
	loggedIn bool
}

// Services groups the application services the App drives.
type Services struct {
	Customers services.CustomerService
	Invoices  services.InvoiceService
	Archive   services.SyncService
}

func NewApp(c *config.Config, s Services, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop{}
	}
	return &App{
		config:    c,
		customers: s.Customers,
		invoices:  s.Invoices,
		archive:   s.Archive,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
		ledger:    ledger.New(),
	}
}

// Run restores the saved draft and archive session, then blocks in the
// REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	printlnFn("Autobody admin (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
	return nil
}

func (a *App) restore(ctx context.Context) error {
	d, err := a.invoices.LoadDraft(ctx)
	if err != nil {
		a.log.Warn(ctx, "draft not restored", "error", err)
	}
	if d != nil {
		a.header = d.InvoiceHeader()
		a.ledger = ledger.FromItems(d.LineItems())
		a.log.Info(ctx, "draft restored", "number", a.header.Number)
	} else if err := a.resetInvoice(ctx); err != nil {
		return err
	}

	if a.archive != nil {
		ok, err := a.archive.RestoreSession(ctx)
		if err != nil {
			a.log.Warn(ctx, "archive session not restored", "error", err)
		}
		a.loggedIn = ok
	}
	return nil
}

// resetInvoice starts a blank invoice with the next number.
func (a *App) resetInvoice(ctx context.Context) error {
	h, err := a.invoices.NewHeader(ctx, a.now())
	if err != nil {
		return err
	}
	a.header = h
	a.ledger = ledger.New()
	return nil
}

// saveDraft persists the current invoice. Failures are logged only.
func (a *App) saveDraft(ctx context.Context) {
	if err := a.invoices.SaveDraft(ctx, a.header, a.ledger.Items()); err != nil {
		a.log.Error(ctx, "draft not saved", "error", err)
	}
}

func (a *App) isLoggedIn() bool { return a.loggedIn }

func (a *App) status() string {
	s := a.header.Number
	if a.loggedIn {
		s += ", archive"
	}
	return s
}
