package ledger

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StartsWithOneDefaultRow(t *testing.T) {
	l := New()
	require.Equal(t, 1, l.Len())
	assert.Equal(t, NewLineItem(), l.Items()[0])
	assert.False(t, l.CanRemove())
}

func TestLedger_AddThenRemoveRestoresList(t *testing.T) {
	l := New()
	require.NoError(t, l.Update(0, FieldDescription, "Pintura"))
	before := l.Items()

	idx := l.Add()
	assert.Equal(t, 1, idx)
	assert.True(t, l.CanRemove())

	require.NoError(t, l.Remove(idx))
	assert.Equal(t, before, l.Items())
}

func TestLedger_RemoveLastRowIsNoop(t *testing.T) {
	l := New()
	require.NoError(t, l.Update(0, FieldDescription, "Chapa"))

	err := l.Remove(0)
	require.ErrorIs(t, err, ErrLastItem)
	require.Equal(t, 1, l.Len())
	assert.Equal(t, "Chapa", l.Items()[0].Description)
}

func TestLedger_RemoveKeepsOrder(t *testing.T) {
	l := New()
	l.Add()
	l.Add()
	for i, d := range []string{"a", "b", "c"} {
		require.NoError(t, l.Update(i, FieldDescription, d))
	}

	require.NoError(t, l.Remove(1))
	items := l.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Description)
	assert.Equal(t, "c", items[1].Description)
}

func TestLedger_IndexOutOfRange(t *testing.T) {
	l := New()
	l.Add()

	assert.ErrorIs(t, l.Remove(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Remove(-1), ErrIndexOutOfRange)
	assert.ErrorIs(t, l.Update(2, FieldQuantity, "1"), ErrIndexOutOfRange)
	_, err := l.Item(3)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestLedger_UpdateUnknownField(t *testing.T) {
	l := New()
	err := l.Update(0, "discount", "10")
	require.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, NewLineItem(), l.Items()[0])
}

func TestLedger_ItemsReturnsCopy(t *testing.T) {
	l := New()
	items := l.Items()
	items[0].Description = "mutated"
	assert.Empty(t, l.Items()[0].Description)
}

func TestFromItems(t *testing.T) {
	assert.Equal(t, 1, FromItems(nil).Len())

	src := []LineItem{{Description: "x", Quantity: 2, UnitPrice: 3, TaxRate: 21}}
	l := FromItems(src)
	src[0].Description = "changed"
	assert.Equal(t, "x", l.Items()[0].Description)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
		nan  bool
	}{
		{name: "integer", in: "2", want: 2},
		{name: "dot decimal", in: "12.5", want: 12.5},
		{name: "comma decimal", in: "12,5", want: 12.5},
		{name: "surrounding spaces", in: " 3 ", want: 3},
		{name: "negative", in: "-4", want: -4},
		{name: "letters", in: "abc", nan: true},
		{name: "empty", in: "", nan: true},
		{name: "mixed separators", in: "1.234,56", nan: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.in)
			if tt.nan {
				assert.True(t, math.IsNaN(got), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeAggregates(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		rate  float64
		want  Aggregates
	}{
		{
			name:  "single line",
			items: []LineItem{{Description: "Pintura", Quantity: 2, UnitPrice: 100, TaxRate: 21}},
			rate:  21,
			want:  Aggregates{Subtotal: 200, TaxAmount: 42, Total: 242},
		},
		{
			name: "two lines",
			items: []LineItem{
				{Description: "Revisión", Quantity: 1, UnitPrice: 35, TaxRate: 21},
				{Description: "Neumáticos", Quantity: 3, UnitPrice: 150, TaxRate: 21},
			},
			rate: 21,
			want: Aggregates{Subtotal: 485, TaxAmount: 101.85, Total: 586.85},
		},
		{
			name:  "zero rate",
			items: []LineItem{{Quantity: 4, UnitPrice: 25}},
			rate:  0,
			want:  Aggregates{Subtotal: 100, TaxAmount: 0, Total: 100},
		},
		{
			name:  "default row",
			items: []LineItem{NewLineItem()},
			rate:  21,
			want:  Aggregates{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAggregates(tt.items, tt.rate)
			assert.InDelta(t, tt.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.want.TaxAmount, got.TaxAmount, 1e-9)
			assert.InDelta(t, tt.want.Total, got.Total, 1e-9)
			assert.InDelta(t, got.Subtotal+got.TaxAmount, got.Total, 1e-9)
			assert.False(t, got.Anomalous())
		})
	}
}

func TestLedger_NonNumericQuantityPropagatesNaN(t *testing.T) {
	l := New()
	require.NoError(t, l.Update(0, FieldUnitPrice, "100"))
	require.NotPanics(t, func() {
		require.NoError(t, l.Update(0, FieldQuantity, "abc"))
	})

	agg := l.Aggregates(21)
	assert.True(t, math.IsNaN(agg.Subtotal))
	assert.True(t, math.IsNaN(agg.TaxAmount))
	assert.True(t, math.IsNaN(agg.Total))
	assert.True(t, agg.Anomalous())
	assert.Equal(t, "NaN €", FormatMoney(agg.Total))
}

func TestLedger_AggregatesTrackEdits(t *testing.T) {
	l := New()
	require.NoError(t, l.Update(0, FieldQuantity, "2"))
	require.NoError(t, l.Update(0, FieldUnitPrice, "100"))
	assert.InDelta(t, 242.0, l.Aggregates(21).Total, 1e-9)

	require.NoError(t, l.Update(0, FieldQuantity, "3"))
	assert.InDelta(t, 363.0, l.Aggregates(21).Total, 1e-9)

	assert.InDelta(t, 330.0, l.Aggregates(10).Total, 1e-9)
}

func TestComputeMixedAggregates(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: 100, TaxRate: 21},
		{Quantity: 1, UnitPrice: 50, TaxRate: 10},
		{Quantity: 2, UnitPrice: 50, TaxRate: 21},
	}
	got := ComputeMixedAggregates(items)

	assert.InDelta(t, 250.0, got.Subtotal, 1e-9)
	assert.InDelta(t, 47.0, got.TaxAmount, 1e-9)
	assert.InDelta(t, 297.0, got.Total, 1e-9)
	require.Len(t, got.Bands, 2)
	assert.Equal(t, 10.0, got.Bands[0].Rate)
	assert.InDelta(t, 50.0, got.Bands[0].Base, 1e-9)
	assert.Equal(t, 21.0, got.Bands[1].Rate)
	assert.InDelta(t, 42.0, got.Bands[1].TaxAmount, 1e-9)
}

func TestComputeMixedAggregates_NaNRateBand(t *testing.T) {
	items := []LineItem{
		{Quantity: 1, UnitPrice: 100, TaxRate: 21},
		{Quantity: 1, UnitPrice: 10, TaxRate: math.NaN()},
	}
	got := ComputeMixedAggregates(items)
	require.Len(t, got.Bands, 2)
	assert.True(t, math.IsNaN(got.Bands[1].Rate))
	assert.True(t, got.Anomalous())
}
