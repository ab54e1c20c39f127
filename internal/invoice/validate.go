package invoice

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/autobody/internal/ledger"
)

// Field keys used in ValidationErrors.
const (
	KeyClientName    = "client_name"
	KeyClientEmail   = "client_email"
	KeyClientAddress = "client_address"
	KeyNumber        = "number"
	KeyDate          = "date"
)

// ItemDescriptionKey is the ValidationErrors key for row i's description.
func ItemDescriptionKey(i int) string {
	return fmt.Sprintf("items[%d].description", i)
}

// ItemQuantityKey is the ValidationErrors key for row i's quantity.
func ItemQuantityKey(i int) string {
	return fmt.Sprintf("items[%d].quantity", i)
}

// ItemUnitPriceKey is the ValidationErrors key for row i's unit price.
func ItemUnitPriceKey(i int) string {
	return fmt.Sprintf("items[%d].unit_price", i)
}

// ValidationErrors maps a field key to a human readable message.
// An empty map means the invoice is valid.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return "invalid invoice: " + strings.Join(parts, "; ")
}

// Valid reports whether no field failed.
func (v ValidationErrors) Valid() bool { return len(v) == 0 }

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the loose local@domain.tld shape.
func ValidateEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Validate checks every required field and reports all failures at once.
func Validate(h Header, items []ledger.LineItem) ValidationErrors {
	errs := ValidationErrors{}

	if blank(h.ClientName) {
		errs[KeyClientName] = "client name is required"
	}
	if blank(h.ClientAddress) {
		errs[KeyClientAddress] = "client address is required"
	}
	if h.ClientEmail != "" && !ValidateEmail(strings.TrimSpace(h.ClientEmail)) {
		errs[KeyClientEmail] = "client email is not a valid address"
	}
	if blank(h.Number) {
		errs[KeyNumber] = "invoice number is required"
	}
	if h.Date.IsZero() {
		errs[KeyDate] = "invoice date is required"
	}
	for i, it := range items {
		if blank(it.Description) {
			errs[ItemDescriptionKey(i)] = "description is required"
		}
		// NaN fails neither comparison and is left to the anomaly flag.
		if it.Quantity <= 0 {
			errs[ItemQuantityKey(i)] = "quantity must be positive"
		}
		if it.UnitPrice < 0 {
			errs[ItemUnitPriceKey(i)] = "unit price cannot be negative"
		}
	}
	return errs
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
