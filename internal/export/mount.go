package export

import (
	"context"
	"errors"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dmitrijs2005/autobody/internal/invoice"
	"github.com/dmitrijs2005/autobody/internal/ledger"
)

var ErrNotReady = errors.New("layout is not ready")

// Issuer is the shop printed in the invoice heading.
type Issuer struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// Mounted is an off-screen layout in progress. Ready is closed once Layout
// has a result. Unmount releases it and is safe to call more than once.
type Mounted interface {
	Ready() <-chan struct{}
	Layout() (*Layout, error)
	Unmount()
}

// Mounter starts laying out a snapshot off-screen.
type Mounter interface {
	Mount(ctx context.Context, snap *invoice.Snapshot) (Mounted, error)
}

// LayoutMounter lays invoices out in a background goroutine with the Go
// fonts, at the width of Page.
type LayoutMounter struct {
	Issuer Issuer
	Page   PageSize
}

func (m *LayoutMounter) Mount(ctx context.Context, snap *invoice.Snapshot) (Mounted, error) {
	page := m.Page
	if page.WidthMM <= 0 || page.HeightMM <= 0 {
		page = A4
	}

	ctx, cancel := context.WithCancel(ctx)
	mt := &mount{ready: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(mt.ready)
		l, err := buildLayout(ctx, m.Issuer, page, snap)
		mt.mu.Lock()
		mt.layout, mt.err = l, err
		mt.mu.Unlock()
	}()
	return mt, nil
}

type mount struct {
	ready  chan struct{}
	cancel context.CancelFunc
	once   sync.Once

	mu     sync.Mutex
	layout *Layout
	err    error
	gone   bool
}

func (m *mount) Ready() <-chan struct{} { return m.ready }

func (m *mount) Layout() (*Layout, error) {
	select {
	case <-m.ready:
	default:
		return nil, ErrNotReady
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gone {
		return nil, ErrNotReady
	}
	return m.layout, m.err
}

func (m *mount) Unmount() {
	m.once.Do(func() {
		m.cancel()
		m.mu.Lock()
		m.layout = nil
		m.gone = true
		m.mu.Unlock()
	})
}

const (
	pageMargin = 48.0
	cellPad    = 8.0
)

type column struct {
	title string
	frac  float64
	align Align
}

var tableColumns = []column{
	{"Descripción", 0.46, AlignLeft},
	{"Cant.", 0.10, AlignRight},
	{"Precio", 0.16, AlignRight},
	{"IVA", 0.10, AlignRight},
	{"Importe", 0.18, AlignRight},
}

type layoutBuilder struct {
	fc    *faceCache
	l     *Layout
	y     float64
	left  float64
	width float64
}

func buildLayout(ctx context.Context, iss Issuer, page PageSize, snap *invoice.Snapshot) (*Layout, error) {
	fc, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer fc.Close()

	b := &layoutBuilder{
		fc:    fc,
		l:     &Layout{Width: page.WidthPx(), PageHeight: page.HeightPx()},
		y:     pageMargin,
		left:  pageMargin,
		width: page.WidthPx() - 2*pageMargin,
	}
	h := snap.Header()

	if err := b.heading(iss); err != nil {
		return nil, err
	}
	b.y += 24
	b.meta(h)
	b.y += 20
	if err := b.client(h); err != nil {
		return nil, err
	}
	b.y += 24
	if err := b.table(ctx, snap.Items()); err != nil {
		return nil, err
	}
	b.y += 16
	b.totals(h.GlobalTaxRate, snap.Aggregates())
	if snap.Anomalous() {
		b.y += 8
		if err := b.paragraph(b.left, b.width, "Hay importes no numéricos en la factura. Revise cantidades y precios.",
			TextStyle{Size: 11, Bold: true, Color: colorAccent}); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(h.Notes) != "" {
		b.y += 24
		b.text(b.left, b.y, b.width, "NOTAS", TextStyle{Size: 10, Bold: true, Color: colorMuted})
		b.y += lineHeight(10)
		if err := b.paragraph(b.left, b.width, h.Notes, TextStyle{Size: 10, Color: colorMuted}); err != nil {
			return nil, err
		}
	}

	b.l.Height = math.Max(b.y+pageMargin, b.l.PageHeight)
	return b.l, ctx.Err()
}

func (b *layoutBuilder) text(x, y, w float64, s string, st TextStyle) {
	b.l.Blocks = append(b.l.Blocks, Block{
		Kind: BlockText, X: x, Y: y, W: w, H: lineHeight(st.Size), Text: s, Style: st,
	})
}

func (b *layoutBuilder) rect(x, y, w, h float64, fill color.RGBA) {
	b.l.Blocks = append(b.l.Blocks, Block{Kind: BlockRect, X: x, Y: y, W: w, H: h, Fill: fill})
}

// paragraph wraps s into width starting at the current y and advances y.
func (b *layoutBuilder) paragraph(x, w float64, s string, st TextStyle) error {
	lines, err := wrapText(b.fc, st.Bold, st.Size, w, s)
	if err != nil {
		return err
	}
	for _, ln := range lines {
		b.text(x, b.y, w, ln, st)
		b.y += lineHeight(st.Size)
	}
	return nil
}

func (b *layoutBuilder) heading(iss Issuer) error {
	top := b.y
	b.text(b.left, top, b.width/2, "FACTURA", TextStyle{Size: 28, Bold: true, Color: colorAccent})
	leftBottom := top + lineHeight(28)

	half := b.width / 2
	x := b.left + half
	if iss.Name != "" {
		b.text(x, b.y, half, iss.Name, TextStyle{Size: 14, Bold: true, Color: colorInk, Align: AlignRight})
		b.y += lineHeight(14)
	}
	muted := TextStyle{Size: 10, Color: colorMuted, Align: AlignRight}
	if iss.TaxID != "" {
		b.text(x, b.y, half, "NIF: "+iss.TaxID, muted)
		b.y += lineHeight(10)
	}
	if iss.Address != "" {
		if err := b.paragraph(x, half, iss.Address, muted); err != nil {
			return err
		}
	}
	for _, s := range []string{iss.Phone, iss.Email} {
		if s != "" {
			b.text(x, b.y, half, s, muted)
			b.y += lineHeight(10)
		}
	}
	b.y = math.Max(b.y, leftBottom)
	return nil
}

func (b *layoutBuilder) meta(h invoice.Header) {
	label := TextStyle{Size: 10, Color: colorMuted}
	value := TextStyle{Size: 12, Bold: true, Color: colorInk}

	b.text(b.left, b.y, 200, "Nº de factura", label)
	b.text(b.left+220, b.y, 200, "Fecha", label)
	b.y += lineHeight(10)
	b.text(b.left, b.y, 200, h.Number, value)
	b.text(b.left+220, b.y, 200, h.Date.Format(invoice.DateLayout), value)
	b.y += lineHeight(12)
}

func (b *layoutBuilder) client(h invoice.Header) error {
	w := b.width * 0.6
	b.text(b.left, b.y, w, "FACTURAR A", TextStyle{Size: 10, Bold: true, Color: colorMuted})
	b.y += lineHeight(10)
	if err := b.paragraph(b.left, w, h.ClientName, TextStyle{Size: 12, Bold: true, Color: colorInk}); err != nil {
		return err
	}
	body := TextStyle{Size: 11, Color: colorInk}
	if h.ClientTaxID != "" {
		b.text(b.left, b.y, w, "NIF: "+h.ClientTaxID, body)
		b.y += lineHeight(11)
	}
	if err := b.paragraph(b.left, w, h.ClientAddress, body); err != nil {
		return err
	}
	if h.ClientEmail != "" {
		b.text(b.left, b.y, w, h.ClientEmail, body)
		b.y += lineHeight(11)
	}
	return nil
}

func (b *layoutBuilder) columns() (xs, ws []float64) {
	x := b.left
	for _, c := range tableColumns {
		w := b.width * c.frac
		xs = append(xs, x)
		ws = append(ws, w)
		x += w
	}
	return xs, ws
}

func (b *layoutBuilder) table(ctx context.Context, items []ledger.LineItem) error {
	xs, ws := b.columns()

	const headH = 28.0
	b.rect(b.left, b.y, b.width, headH, colorHead)
	headStyle := TextStyle{Size: 10, Bold: true, Color: colorInk}
	for i, c := range tableColumns {
		st := headStyle
		st.Align = c.align
		b.text(xs[i]+cellPad, b.y+(headH-lineHeight(10))/2, ws[i]-2*cellPad, c.title, st)
	}
	b.y += headH

	body := TextStyle{Size: 11, Color: colorInk}
	for _, it := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		lines, err := wrapText(b.fc, false, body.Size, ws[0]-2*cellPad, it.Description)
		if err != nil {
			return err
		}
		top := b.y + cellPad
		for i, ln := range lines {
			b.text(xs[0]+cellPad, top+float64(i)*lineHeight(body.Size), ws[0]-2*cellPad, ln, body)
		}
		cells := []string{
			formatQuantity(it.Quantity),
			ledger.FormatMoney(it.UnitPrice),
			ledger.FormatPercent(it.TaxRate),
			ledger.FormatMoney(it.Amount()),
		}
		for i, s := range cells {
			st := body
			st.Align = AlignRight
			b.text(xs[i+1]+cellPad, top, ws[i+1]-2*cellPad, s, st)
		}
		b.y += float64(len(lines))*lineHeight(body.Size) + 2*cellPad
		b.rect(b.left, b.y, b.width, 1, colorRule)
		b.y++
	}
	return nil
}

func (b *layoutBuilder) totals(rate float64, agg ledger.Aggregates) {
	const valueW = 130.0
	const labelW = 160.0
	valueX := b.left + b.width - valueW
	labelX := valueX - labelW

	row := func(label, value string, st TextStyle) {
		lst := st
		lst.Align = AlignLeft
		b.text(labelX, b.y, labelW, label, lst)
		vst := st
		vst.Align = AlignRight
		b.text(valueX, b.y, valueW-cellPad, value, vst)
		b.y += lineHeight(st.Size) + 4
	}

	body := TextStyle{Size: 11, Color: colorInk}
	row("Base imponible", ledger.FormatMoney(agg.Subtotal), body)
	row("IVA ("+ledger.FormatPercent(rate)+")", ledger.FormatMoney(agg.TaxAmount), body)
	b.rect(labelX, b.y, labelW+valueW, 1, colorInk)
	b.y += 6
	row("TOTAL", ledger.FormatMoney(agg.Total), TextStyle{Size: 14, Bold: true, Color: colorInk})
}

func formatQuantity(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}
