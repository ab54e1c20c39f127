package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// DefaultScale is the raster density multiplier applied to the layout.
const DefaultScale = 2.0

// MaxPixels caps the bitmap size a single export may allocate.
const MaxPixels = 64 << 20

// Rasterizer paints a layout into a bitmap.
type Rasterizer interface {
	Rasterize(ctx context.Context, l *Layout, scale float64) (*image.RGBA, error)
}

// BitmapRasterizer paints layouts with the Go fonts on a white background.
type BitmapRasterizer struct{}

func (BitmapRasterizer) Rasterize(ctx context.Context, l *Layout, scale float64) (*image.RGBA, error) {
	if l == nil {
		return nil, ErrNotReady
	}
	if scale <= 0 || math.IsNaN(scale) {
		scale = DefaultScale
	}

	w := int(math.Ceil(l.Width * scale))
	h := int(math.Ceil(l.Height * scale))
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyBitmap
	}
	if w*h > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrBitmapTooLarge, w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	fc, err := newFaceCache()
	if err != nil {
		return nil, err
	}
	defer fc.Close()

	for i, blk := range l.Blocks {
		if i%64 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		switch blk.Kind {
		case BlockRect:
			r := image.Rect(
				int(math.Round(blk.X*scale)), int(math.Round(blk.Y*scale)),
				int(math.Round((blk.X+blk.W)*scale)), int(math.Round((blk.Y+blk.H)*scale)),
			)
			draw.Draw(img, r, image.NewUniform(blk.Fill), image.Point{}, draw.Over)
		case BlockText:
			if err := drawText(img, fc, blk, scale); err != nil {
				return nil, err
			}
		}
	}
	return img, nil
}

func drawText(dst *image.RGBA, fc *faceCache, blk Block, scale float64) error {
	if blk.Text == "" {
		return nil
	}
	size := blk.Style.Size * scale
	face, err := fc.face(blk.Style.Bold, size)
	if err != nil {
		return err
	}

	x := blk.X * scale
	if blk.Style.Align != AlignLeft {
		tw := fixedToFloat(font.MeasureString(face, blk.Text))
		room := blk.W*scale - tw
		if blk.Style.Align == AlignCenter {
			room /= 2
		}
		x += room
	}

	// baseline sits so the glyphs are vertically centred in the line box
	m := face.Metrics()
	glyphH := fixedToFloat(m.Ascent + m.Descent)
	lineH := lineHeight(blk.Style.Size) * scale
	baseline := blk.Y*scale + (lineH-glyphH)/2 + fixedToFloat(m.Ascent)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(blk.Style.Color),
		Face: face,
		Dot:  fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)},
	}
	d.DrawString(blk.Text)
	return nil
}
