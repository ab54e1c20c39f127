package ledger

import "fmt"

// Ledger is an ordered, never-empty list of line items.
//
// A Ledger belongs to a single editing session and is not safe for
// concurrent use.
type Ledger struct {
	items []LineItem
}

// New returns a ledger holding one default row.
func New() *Ledger {
	return &Ledger{items: []LineItem{NewLineItem()}}
}

// FromItems builds a ledger from existing rows. An empty input still yields
// one default row.
func FromItems(items []LineItem) *Ledger {
	if len(items) == 0 {
		return New()
	}
	cp := make([]LineItem, len(items))
	copy(cp, items)
	return &Ledger{items: cp}
}

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.items) }

// Items returns a copy of the rows in order.
func (l *Ledger) Items() []LineItem {
	cp := make([]LineItem, len(l.items))
	copy(cp, l.items)
	return cp
}

// Item returns the row at index.
func (l *Ledger) Item(index int) (LineItem, error) {
	if err := l.checkIndex(index); err != nil {
		return LineItem{}, err
	}
	return l.items[index], nil
}

// Add appends a default row and returns its index.
func (l *Ledger) Add() int {
	l.items = append(l.items, NewLineItem())
	return len(l.items) - 1
}

// CanRemove reports whether Remove would delete a row. Front ends use it to
// disable the remove control.
func (l *Ledger) CanRemove() bool { return len(l.items) > 1 }

// Remove deletes the row at index, keeping the order of the others.
// Removing the only remaining row leaves the ledger untouched and returns
// ErrLastItem.
func (l *Ledger) Remove(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	if !l.CanRemove() {
		return ErrLastItem
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
	return nil
}

// Update replaces one field of the row at index. Numeric fields go through
// ParseNumber, so malformed input is stored as NaN.
func (l *Ledger) Update(index int, field, value string) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	it := &l.items[index]
	switch field {
	case FieldDescription:
		it.Description = value
	case FieldQuantity:
		it.Quantity = ParseNumber(value)
	case FieldUnitPrice:
		it.UnitPrice = ParseNumber(value)
	case FieldTaxRate:
		it.TaxRate = ParseNumber(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// Aggregates recomputes the totals for the current rows.
func (l *Ledger) Aggregates(globalTaxRate float64) Aggregates {
	return ComputeAggregates(l.items, globalTaxRate)
}

func (l *Ledger) checkIndex(index int) error {
	if index < 0 || index >= len(l.items) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(l.items))
	}
	return nil
}
