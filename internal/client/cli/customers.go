package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autobody/internal/client/models"
	"github.com/dmitrijs2005/autobody/internal/client/services"
	"github.com/dmitrijs2005/autobody/internal/common"
)

func (a *App) Customers(ctx context.Context) error {
	list, err := a.customers.List(ctx)
	if err != nil {
		a.log.Error(ctx, "list customers", "error", err)
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No customers yet. Use 'addcustomer'.")
		return nil
	}
	for _, c := range list {
		fmt.Fprintf(a.out, "%s  %-28s %-24s %s\n", c.ID, c.Name, c.Email, c.Vehicle)
	}
	return nil
}

// AddCustomer runs the intake wizard. The name is asked again until it is
// given and a bad email is asked again until it is valid or left empty.
func (a *App) AddCustomer(ctx context.Context) error {
	var c models.Customer
	var err error

	for c.Name == "" {
		if c.Name, err = GetSimpleText(a.reader, "-Customer name", a.out); err != nil {
			return err
		}
		if c.Name == "" {
			fmt.Fprintln(a.out, services.ErrCustomerNameRequired)
		}
	}
	if c.TaxID, err = GetSimpleText(a.reader, "-Tax ID (NIF/CIF, optional)", a.out); err != nil {
		return err
	}
	for {
		if c.Email, err = GetSimpleText(a.reader, "-Email (optional)", a.out); err != nil {
			return err
		}
		if services.ValidateCustomer(c) == nil {
			break
		}
		fmt.Fprintln(a.out, services.ErrInvalidEmail)
	}
	if c.Phone, err = GetSimpleText(a.reader, "-Phone (optional)", a.out); err != nil {
		return err
	}
	if c.Address, err = GetSimpleText(a.reader, "-Billing address", a.out); err != nil {
		return err
	}
	if c.Vehicle.Make, err = GetSimpleText(a.reader, "-Vehicle make", a.out); err != nil {
		return err
	}
	if c.Vehicle.Model, err = GetSimpleText(a.reader, "-Vehicle model", a.out); err != nil {
		return err
	}
	if c.Vehicle.Plate, err = GetSimpleText(a.reader, "-Plate", a.out); err != nil {
		return err
	}

	saved, err := a.customers.Add(ctx, c)
	if err != nil {
		a.log.Error(ctx, "add customer", "error", err)
		fmt.Fprintln(a.out, "Customer not saved:", err)
		return err
	}
	fmt.Fprintf(a.out, "Customer %s saved (id %s)\n", saved.Name, saved.ID)
	return nil
}

// UseCustomer copies a saved customer's billing fields into the invoice.
func (a *App) UseCustomer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: usecustomer <id>")
		return nil
	}
	c, err := a.customers.Get(ctx, args[0])
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintln(a.out, "No customer with id", args[0])
			return err
		}
		a.log.Error(ctx, "get customer", "error", err)
		return err
	}
	c.ApplyTo(&a.header)
	a.saveDraft(ctx)
	fmt.Fprintf(a.out, "Invoice %s billed to %s\n", a.header.Number, c.Name)
	return nil
}

func (a *App) DeleteCustomer(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delcustomer <id>")
		return nil
	}
	ok, err := GetConfirm(a.reader, "Delete customer "+args[0]+"?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.customers.Delete(ctx, args[0]); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			fmt.Fprintln(a.out, "No customer with id", args[0])
			return err
		}
		a.log.Error(ctx, "delete customer", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}
