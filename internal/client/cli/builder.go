package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

var errUsage = errors.New("usage")

// itemFields maps the short names typed in the REPL to ledger fields.
var itemFields = map[string]string{
	"desc":        ledger.FieldDescription,
	"description": ledger.FieldDescription,
	"qty":         ledger.FieldQuantity,
	"quantity":    ledger.FieldQuantity,
	"price":       ledger.FieldUnitPrice,
	"unit_price":  ledger.FieldUnitPrice,
	"tax":         ledger.FieldTaxRate,
	"tax_rate":    ledger.FieldTaxRate,
}

// New discards the current invoice and starts a blank one.
func (a *App) New(ctx context.Context) error {
	ok, err := GetConfirm(a.reader, "Discard invoice "+a.header.Number+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.invoices.DiscardDraft(ctx); err != nil {
		a.log.Error(ctx, "discard draft", "error", err)
		return err
	}
	if err := a.resetInvoice(ctx); err != nil {
		a.log.Error(ctx, "new invoice", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "New invoice", a.header.Number)
	return nil
}

func (a *App) Show(ctx context.Context) error {
	renderInvoice(a.out, a.header, a.ledger.Items())
	return nil
}

// Set changes a header field. Without a value on the command line the
// value is prompted for.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: set <field> [value]")
		return errUsage
	}
	field := args[0]
	value := strings.Join(args[1:], " ")

	var err error
	if len(args) == 1 {
		if field == "notes" || field == "defaultnotes" {
			value, err = GetMultiline(a.reader, "-"+field, a.out)
		} else {
			value, err = GetSimpleText(a.reader, "-"+field, a.out)
		}
		if err != nil {
			return err
		}
	}

	switch field {
	case "client":
		a.header.ClientName = value
	case "taxid":
		a.header.ClientTaxID = value
	case "email":
		if value != "" && !invoice.ValidateEmail(value) {
			fmt.Fprintln(a.out, "Warning: email does not look like local@domain.tld")
		}
		a.header.ClientEmail = value
	case "address":
		a.header.ClientAddress = value
	case "number":
		a.header.Number = value
	case "date":
		if value == "" {
			a.header.Date = time.Time{}
			break
		}
		d, err := time.ParseInLocation(invoice.DateLayout, value, time.Local)
		if err != nil {
			fmt.Fprintf(a.out, "Date must be dd/mm/yyyy, got %q\n", value)
			return err
		}
		a.header.Date = d
	case "notes":
		a.header.Notes = value
	case "rate":
		a.header.GlobalTaxRate = ledger.ParseNumber(value)
	case "defaultnotes":
		if err := a.invoices.SetDefaultNotes(ctx, value); err != nil {
			a.log.Error(ctx, "set default notes", "error", err)
			return err
		}
		fmt.Fprintln(a.out, "Default notes saved")
		return nil
	default:
		fmt.Fprintln(a.out, "Unknown field:", field)
		return errUsage
	}

	a.saveDraft(ctx)
	return nil
}

func (a *App) AddItem(ctx context.Context) error {
	n := a.ledger.Add()
	a.saveDraft(ctx)
	fmt.Fprintf(a.out, "Line %d added\n", n+1)
	return nil
}

// parseRow reads a 1-based row number.
func parseRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad line number %q", s)
	}
	return n - 1, nil
}

func (a *App) SetItem(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: setitem <n> <desc|qty|price|tax> <value>")
		return errUsage
	}
	idx, err := parseRow(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	field, ok := itemFields[args[1]]
	if !ok {
		field = args[1]
	}

	if err := a.ledger.Update(idx, field, strings.Join(args[2:], " ")); err != nil {
		switch {
		case errors.Is(err, ledger.ErrIndexOutOfRange):
			fmt.Fprintf(a.out, "No line %s (the invoice has %d)\n", args[0], a.ledger.Len())
		case errors.Is(err, ledger.ErrUnknownField):
			fmt.Fprintln(a.out, "Unknown item field:", args[1])
		default:
			a.log.Error(ctx, "update line item", "error", err)
		}
		return err
	}

	a.saveDraft(ctx)
	return nil
}

func (a *App) RemoveItem(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: rmitem <n>")
		return errUsage
	}
	idx, err := parseRow(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}

	if err := a.ledger.Remove(idx); err != nil {
		switch {
		case errors.Is(err, ledger.ErrLastItem):
			fmt.Fprintln(a.out, "An invoice keeps at least one line")
		case errors.Is(err, ledger.ErrIndexOutOfRange):
			fmt.Fprintf(a.out, "No line %s (the invoice has %d)\n", args[0], a.ledger.Len())
		}
		return err
	}

	a.saveDraft(ctx)
	fmt.Fprintf(a.out, "Line %s removed\n", args[0])
	return nil
}

func (a *App) Validate(ctx context.Context) error {
	verrs := invoice.Validate(a.header, a.ledger.Items())
	if verrs.Valid() {
		fmt.Fprintln(a.out, "Invoice is ready to export")
		return nil
	}
	renderValidation(a.out, verrs)
	return verrs
}
