// Package models defines the records the admin client keeps locally.
package models

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/autobody/internal/invoice"
)

// Vehicle is the car a customer brought into the shop.
type Vehicle struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Plate string `json:"plate"`
}

func (v Vehicle) String() string {
	s := strings.TrimSpace(v.Make + " " + v.Model)
	if v.Plate != "" {
		if s != "" {
			s += " "
		}
		s += "(" + v.Plate + ")"
	}
	return s
}

// NormalizePlate upper-cases a plate and strips spaces and dashes.
func NormalizePlate(p string) string {
	p = strings.ToUpper(p)
	return strings.NewReplacer(" ", "", "-", "").Replace(p)
}

// Customer is a client registered through the intake wizard.
type Customer struct {
	ID        string
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	Vehicle   Vehicle
	CreatedAt time.Time
}

// ApplyTo copies the billing fields into an invoice header.
func (c Customer) ApplyTo(h *invoice.Header) {
	h.ClientName = c.Name
	h.ClientTaxID = c.TaxID
	h.ClientEmail = c.Email
	h.ClientAddress = c.Address
}
