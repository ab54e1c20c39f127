package export

import (
	"image/color"
	"strings"
	"unicode/utf8"
)

// BlockKind says how a Block is painted.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockRect
)

// Align is the horizontal alignment of a text block inside its width.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// TextStyle describes one run of text. Size is in layout pixels.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color color.RGBA
	Align Align
}

// Block is a positioned element of a Layout. Coordinates are layout pixels
// from the top-left corner; for text Y is the top of the line box.
type Block struct {
	Kind  BlockKind
	X, Y  float64
	W, H  float64
	Text  string
	Style TextStyle
	Fill  color.RGBA
}

// Layout is the off-screen rendition of an invoice at a fixed physical page
// width. Height grows with the content and may exceed one page.
type Layout struct {
	Width      float64
	Height     float64
	PageHeight float64
	Blocks     []Block
}

var (
	colorInk    = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
	colorMuted  = color.RGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	colorAccent = color.RGBA{R: 0xb9, G: 0x1c, B: 0x1c, A: 0xff}
	colorRule   = color.RGBA{R: 0xe5, G: 0xe7, B: 0xeb, A: 0xff}
	colorHead   = color.RGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
)

// lineHeight is the line box height for a font size.
func lineHeight(size float64) float64 { return size * 1.4 }

// wrapText splits s into lines no wider than width. Words longer than a line
// are broken between runes. Explicit newlines are kept.
func wrapText(fc *faceCache, bold bool, size, width float64, s string) ([]string, error) {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, w := range words {
			cand := w
			if line != "" {
				cand = line + " " + w
			}
			cw, err := fc.measure(bold, size, cand)
			if err != nil {
				return nil, err
			}
			if cw <= width {
				line = cand
				continue
			}
			if line != "" {
				out = append(out, line)
				line = ""
			}
			ww, err := fc.measure(bold, size, w)
			if err != nil {
				return nil, err
			}
			if ww <= width {
				line = w
				continue
			}
			pieces, err := breakWord(fc, bold, size, width, w)
			if err != nil {
				return nil, err
			}
			out = append(out, pieces[:len(pieces)-1]...)
			line = pieces[len(pieces)-1]
		}
		out = append(out, line)
	}
	return out, nil
}

func breakWord(fc *faceCache, bold bool, size, width float64, w string) ([]string, error) {
	var out []string
	cur := ""
	for len(w) > 0 {
		r, n := utf8.DecodeRuneInString(w)
		w = w[n:]
		cand := cur + string(r)
		cw, err := fc.measure(bold, size, cand)
		if err != nil {
			return nil, err
		}
		if cw > width && cur != "" {
			out = append(out, cur)
			cur = string(r)
			continue
		}
		cur = cand
	}
	return append(out, cur), nil
}
