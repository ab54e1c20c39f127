package cli

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

const anomalyWarning = "Warning: some figures are not numbers; check quantities, prices and the tax rate."

func formatQuantity(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

func formatDate(h invoice.Header) string {
	if h.Date.IsZero() {
		return "-"
	}
	return h.Date.Format(invoice.DateLayout)
}

// renderInvoice prints the header, the lines and the live totals.
func renderInvoice(w io.Writer, h invoice.Header, items []ledger.LineItem) {
	fmt.Fprintf(w, "Invoice %s  date %s  rate %s\n", h.Number, formatDate(h), ledger.FormatPercent(h.GlobalTaxRate))
	fmt.Fprintf(w, "Bill to: %s", h.ClientName)
	if h.ClientTaxID != "" {
		fmt.Fprintf(w, " (%s)", h.ClientTaxID)
	}
	fmt.Fprintln(w)
	if h.ClientAddress != "" {
		fmt.Fprintln(w, "         "+h.ClientAddress)
	}
	if h.ClientEmail != "" {
		fmt.Fprintln(w, "         "+h.ClientEmail)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDescription\tQty\tPrice\tTax\tAmount\t")
	for i, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			i+1, it.Description, formatQuantity(it.Quantity),
			ledger.FormatMoney(it.UnitPrice), ledger.FormatPercent(it.TaxRate),
			ledger.FormatMoney(it.Amount()))
	}
	_ = tw.Flush()

	agg := ledger.ComputeAggregates(items, h.GlobalTaxRate)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Subtotal:  %s\n", ledger.FormatMoney(agg.Subtotal))
	fmt.Fprintf(w, "Tax (%s): %s\n", ledger.FormatPercent(h.GlobalTaxRate), ledger.FormatMoney(agg.TaxAmount))
	fmt.Fprintf(w, "Total:     %s\n", ledger.FormatMoney(agg.Total))

	if mixed := ledger.ComputeMixedAggregates(items); len(mixed.Bands) > 1 {
		fmt.Fprintln(w, "Line rates differ; per-rate breakdown:")
		for _, b := range mixed.Bands {
			fmt.Fprintf(w, "  %s on %s = %s\n",
				ledger.FormatPercent(b.Rate), ledger.FormatMoney(b.Base), ledger.FormatMoney(b.TaxAmount))
		}
	}
	if agg.Anomalous() {
		fmt.Fprintln(w, anomalyWarning)
	}
	if h.Notes != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, h.Notes)
	}
}

func renderValidation(w io.Writer, verrs invoice.ValidationErrors) {
	keys := make([]string, 0, len(verrs))
	for k := range verrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "The invoice is not complete:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, verrs[k])
	}
}

func renderRecords(w io.Writer, recs []models.InvoiceRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Number\tDate\tClient\tTotal\tArchived\tFile")
	for _, r := range recs {
		archived := "no"
		if r.Synced {
			archived = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Number, r.IssuedAt.Local().Format(invoice.DateLayout), r.ClientName,
			ledger.FormatMoney(r.Total), archived, r.FilePath)
	}
	_ = tw.Flush()
}
