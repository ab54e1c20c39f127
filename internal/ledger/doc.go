// Package ledger keeps the ordered list of invoice line items and derives
// the invoice aggregates from it.
//
// Aggregates are never stored: every call to Ledger.Aggregates or
// ComputeAggregates recomputes them from the current items, so a total can
// not drift from its line items.
//
// Numeric fields entered by the user are parsed with ParseNumber. Input that
// is not a number becomes NaN and flows through the sums unchanged; callers
// detect it with Aggregates.Anomalous and decide how to surface it.
package ledger
