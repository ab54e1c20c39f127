package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autobody/internal/export"
	"github.com/dmitrijs2005/autobody/internal/invoice"
)

// Export renders the current invoice to PDF. On success the record is kept
// and a blank invoice with the next number takes its place; on failure the
// invoice stays as it was.
func (a *App) Export(ctx context.Context) error {
	rec, res, err := a.invoices.Export(ctx, a.header, a.ledger.Items())

	var verrs invoice.ValidationErrors
	var rerr *export.RenderingError
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		renderValidation(a.out, verrs)
		return err
	case errors.Is(err, export.ErrExportInProgress):
		fmt.Fprintln(a.out, "An export is already running, try again when it finishes")
		return err
	case errors.Is(err, invoice.ErrComputationAnomaly):
		fmt.Fprintln(a.out, anomalyWarning)
		return err
	case errors.As(err, &rerr):
		a.log.Error(ctx, "export failed", "stage", rerr.Stage.String(), "error", rerr.Err)
		fmt.Fprintf(a.out, "Could not generate the PDF (%s): %v\n", rerr.Stage, rerr.Err)
		return err
	case res != nil:
		// delivered but not recorded
		a.log.Error(ctx, "invoice not recorded", "error", err)
		fmt.Fprintf(a.out, "PDF saved to %s but the invoice was not recorded: %v\n", res.Location, err)
		return err
	default:
		a.log.Error(ctx, "export failed", "error", err)
		fmt.Fprintln(a.out, "Export failed:", err)
		return err
	}

	fmt.Fprintf(a.out, "Invoice %s exported to %s (%d page(s))\n", rec.Number, res.Location, res.Pages)
	if res.Snapshot.Anomalous() {
		fmt.Fprintln(a.out, anomalyWarning)
	}
	a.log.Info(ctx, "invoice exported", "number", rec.Number, "bytes", len(res.PDF))

	if err := a.resetInvoice(ctx); err != nil {
		a.log.Error(ctx, "new invoice", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Next invoice", a.header.Number)
	return nil
}

func (a *App) Invoices(ctx context.Context) error {
	recs, err := a.invoices.Records(ctx)
	if err != nil {
		a.log.Error(ctx, "list invoices", "error", err)
		return err
	}
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "No invoices exported yet")
		return nil
	}
	renderRecords(a.out, recs)
	return nil
}
