package export

import (
	"bytes"
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFAssembler_Pages(t *testing.T) {
	tests := []struct {
		name  string
		w, h  int
		pages int
	}{
		{name: "shorter than a page", w: 100, h: 100, pages: 1},
		{name: "exactly one page", w: 210, h: 297, pages: 1},
		{name: "three pages tall", w: 100, h: 300, pages: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &PDFAssembler{Page: A4}
			doc, err := a.Assemble(context.Background(), image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), DocumentInfo{Title: "Factura F-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.pages, doc.Pages)
			assert.Equal(t, tt.pages, PageCount(A4, tt.w, tt.h))
			assert.True(t, bytes.HasPrefix(doc.Bytes, []byte("%PDF-")))
		})
	}
}

func TestPDFAssembler_EmptyImage(t *testing.T) {
	_, err := (&PDFAssembler{}).Assemble(context.Background(), image.NewRGBA(image.Rectangle{}), DocumentInfo{})
	assert.ErrorIs(t, err, ErrEmptyBitmap)
	assert.Zero(t, PageCount(A4, 0, 10))
}
