package httpapi

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

// dateLayout is what an HTML date input posts.
const dateLayout = "2006-01-02"

// number accepts a JSON number or a string typed by the user ("12,50").
// Strings that do not parse become NaN, the same as in the builder.
type number float64

func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = number(ledger.ParseNumber(s))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*n = number(f)
	return nil
}

type headerRequest struct {
	ClientName    string  `json:"client_name"`
	ClientTaxID   string  `json:"client_tax_id"`
	ClientEmail   string  `json:"client_email"`
	ClientAddress string  `json:"client_address"`
	Number        string  `json:"number"`
	Date          string  `json:"date"`
	Notes         *string `json:"notes"`
	GlobalTaxRate *number `json:"global_tax_rate"`
}

type itemRequest struct {
	Description string  `json:"description"`
	Quantity    *number `json:"quantity"`
	UnitPrice   *number `json:"unit_price"`
	TaxRate     *number `json:"tax_rate"`
}

type exportRequest struct {
	Header headerRequest `json:"header"`
	Items  []itemRequest `json:"items"`
}

// toInvoice fills omitted fields with the builder's defaults; a missing
// date means today. A date that does not parse is reported under the date
// key.
func (r exportRequest) toInvoice(now time.Time) (invoice.Header, []ledger.LineItem, invoice.ValidationErrors) {
	errs := invoice.ValidationErrors{}
	year, month, day := now.In(time.Local).Date()
	h := invoice.NewHeader(time.Date(year, month, day, 0, 0, 0, 0, time.Local))
	h.ClientName = r.Header.ClientName
	h.ClientTaxID = r.Header.ClientTaxID
	h.ClientEmail = r.Header.ClientEmail
	h.ClientAddress = r.Header.ClientAddress
	h.Number = r.Header.Number
	if r.Header.Notes != nil {
		h.Notes = *r.Header.Notes
	}
	if r.Header.GlobalTaxRate != nil {
		h.GlobalTaxRate = float64(*r.Header.GlobalTaxRate)
	}
	if s := strings.TrimSpace(r.Header.Date); s != "" {
		d, err := time.ParseInLocation(dateLayout, s, time.Local)
		if err != nil {
			errs[invoice.KeyDate] = "invoice date must be YYYY-MM-DD"
		} else {
			h.Date = d
		}
	}

	if len(r.Items) == 0 {
		return h, []ledger.LineItem{ledger.NewLineItem()}, errs
	}

	items := make([]ledger.LineItem, 0, len(r.Items))
	for _, in := range r.Items {
		it := ledger.NewLineItem()
		it.Description = in.Description
		if in.Quantity != nil {
			it.Quantity = float64(*in.Quantity)
		}
		if in.UnitPrice != nil {
			it.UnitPrice = float64(*in.UnitPrice)
		}
		if in.TaxRate != nil {
			it.TaxRate = float64(*in.TaxRate)
		}
		items = append(items, it)
	}
	return h, items, errs
}
