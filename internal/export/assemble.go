package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// DocumentInfo is the PDF metadata written by the assembler.
type DocumentInfo struct {
	Title   string
	Author  string
	Subject string
}

// Document is an assembled PDF.
type Document struct {
	Bytes []byte
	Pages int
}

// Assembler turns a bitmap into a paginated document.
type Assembler interface {
	Assemble(ctx context.Context, img image.Image, info DocumentInfo) (*Document, error)
}

// PDFAssembler embeds the bitmap into a gofpdf document. The image spans the
// page width and keeps its aspect ratio; when it is taller than one page the
// same image is placed again on each following page, shifted up by one page
// height, until all of it has been shown.
type PDFAssembler struct {
	Page PageSize
}

const imageName = "invoice"

func (a *PDFAssembler) Assemble(ctx context.Context, img image.Image, info DocumentInfo) (*Document, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyBitmap
	}
	page := a.Page
	if page.WidthMM <= 0 || page.HeightMM <= 0 {
		page = A4
	}

	var encoded bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&encoded, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: page.WidthMM, Ht: page.HeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("autobody", true)
	if info.Title != "" {
		pdf.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		pdf.SetAuthor(info.Author, true)
	}
	if info.Subject != "" {
		pdf.SetSubject(info.Subject, true)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imageName, opts, &encoded)
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("register image: %w", err)
	}

	imgW := page.WidthMM
	imgH := imgW * float64(b.Dy()) / float64(b.Dx())

	pages := PageCount(page, b.Dx(), b.Dy())
	for i := 0; i < pages; i++ {
		pdf.AddPage()
		pdf.ImageOptions(imageName, 0, -float64(i)*page.HeightMM, imgW, imgH, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &Document{Bytes: out.Bytes(), Pages: pages}, nil
}

// pageEpsilonMM absorbs rounding so a bitmap of exactly one page height does
// not spill an empty second page.
const pageEpsilonMM = 0.5

// PageCount is the number of pages a bitmap of the given size fills.
func PageCount(page PageSize, bmpW, bmpH int) int {
	if bmpW <= 0 || bmpH <= 0 {
		return 0
	}
	imgH := page.WidthMM * float64(bmpH) / float64(bmpW)
	n := 1
	for left := imgH - page.HeightMM; left > pageEpsilonMM; left -= page.HeightMM {
		n++
	}
	return n
}
