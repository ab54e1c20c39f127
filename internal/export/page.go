package export

const (
	mmPerInch = 25.4
	// CSSPixelsPerInch is the density the layout is expressed in.
	CSSPixelsPerInch = 96.0
)

// PageSize is a physical page in millimetres.
type PageSize struct {
	Name     string  `json:"name"`
	WidthMM  float64 `json:"width_mm"`
	HeightMM float64 `json:"height_mm"`
}

var (
	A4     = PageSize{Name: "A4", WidthMM: 210, HeightMM: 297}
	Letter = PageSize{Name: "Letter", WidthMM: 215.9, HeightMM: 279.4}
)

// PageSizeByName returns the named size; unknown names fall back to A4.
func PageSizeByName(name string) PageSize {
	switch name {
	case Letter.Name, "letter":
		return Letter
	default:
		return A4
	}
}

// WidthPx is the page width in layout pixels.
func (p PageSize) WidthPx() float64 { return mmToPx(p.WidthMM) }

// HeightPx is the page height in layout pixels.
func (p PageSize) HeightPx() float64 { return mmToPx(p.HeightMM) }

func mmToPx(mm float64) float64 { return mm / mmPerInch * CSSPixelsPerInch }
