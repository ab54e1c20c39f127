package export

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontsOnce   sync.Once
	fontRegular *opentype.Font
	fontBold    *opentype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		if fontRegular, fontsErr = opentype.Parse(goregular.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", fontsErr)
			return
		}
		if fontBold, fontsErr = opentype.Parse(gobold.TTF); fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
		}
	})
	return fontsErr
}

type faceKey struct {
	bold bool
	size float64
}

// faceCache hands out font faces by style and closes them together.
// Not safe for concurrent use; each layout or raster pass owns one.
type faceCache struct {
	faces map[faceKey]font.Face
}

func newFaceCache() (*faceCache, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	return &faceCache{faces: make(map[faceKey]font.Face)}, nil
}

func (c *faceCache) face(bold bool, size float64) (font.Face, error) {
	k := faceKey{bold: bold, size: size}
	if f, ok := c.faces[k]; ok {
		return f, nil
	}
	src := fontRegular
	if bold {
		src = fontBold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %.1fpt: %w", size, err)
	}
	c.faces[k] = f
	return f, nil
}

func (c *faceCache) measure(bold bool, size float64, s string) (float64, error) {
	f, err := c.face(bold, size)
	if err != nil {
		return 0, err
	}
	return fixedToFloat(font.MeasureString(f, s)), nil
}

func (c *faceCache) Close() {
	for k, f := range c.faces {
		_ = f.Close()
		delete(c.faces, k)
	}
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(v * 64) }
