package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMarginSide   = 3.0
	pdfMarginTop    = 5.0
	pdfMarginBottom = 3.0
	pdfSlotWidth    = 15.0
	pdfLineHeight   = 2.6
	pdfPadding      = 0.7
	pdfHeaderHeight = 6.0

	headerColor = "2f5496"
	slotColor   = "d0cece"
)

// PDFExporter renders timetable tables on landscape A4 pages.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a one-table PDF document.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	return e.RenderBook([]Table{table})
}

// RenderBook puts every table on its own page run, in order.
func (e *PDFExporter) RenderBook(tables []Table) ([]byte, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("pdf requires at least one table")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMarginSide, pdfMarginTop, pdfMarginSide)
	pdf.SetAutoPageBreak(false, pdfMarginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, table := range tables {
		if table.Columns() == 0 {
			return nil, fmt.Errorf("pdf table %q has no columns", table.Title)
		}
		pdf.AddPage()
		writeTitle(pdf, tr(table.Title))
		drawTable(pdf, tr, table)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTitle(pdf *gofpdf.Fpdf, title string) {
	r, g, b := hexRGB(headerColor)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(r, g, b)
	pdf.CellFormat(0, 8, title, "", 1, "C", false, 0, "")
	pdf.Ln(2)
}

func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, table Table) {
	pageWidth, pageHeight := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMarginSide - pdfSlotWidth) / float64(table.Columns())

	drawHeader(pdf, tr, table, colWidth)
	pdf.SetFont("Times", "", 6)
	for _, row := range table.Rows {
		height := rowHeight(pdf, tr, row, colWidth)
		if pdf.GetY()+height > pageHeight-pdfMarginBottom {
			pdf.AddPage()
			drawHeader(pdf, tr, table, colWidth)
			pdf.SetFont("Times", "", 6)
		}
		y := pdf.GetY()
		x := pdfMarginSide

		pdf.SetFont("Times", "B", 6)
		drawCell(pdf, x, y, pdfSlotWidth, height, tr(row.Slot), slotColor)
		x += pdfSlotWidth

		pdf.SetFont("Times", "", 6)
		for _, cell := range row.Cells {
			fill := "ffffff"
			if cell.Subject != "" {
				fill = PastelColor(cell.Subject)
			}
			drawCell(pdf, x, y, colWidth, height, tr(cell.Text), fill)
			x += colWidth
		}
		pdf.SetXY(pdfMarginSide, y+height)
	}
}

func drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, table Table, colWidth float64) {
	r, g, b := hexRGB(headerColor)
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetDrawColor(128, 128, 128)
	pdf.SetFont("Times", "B", 7)
	pdf.SetX(pdfMarginSide)
	pdf.CellFormat(pdfSlotWidth, pdfHeaderHeight, SlotHeader, "1", 0, "C", true, 0, "")
	for _, header := range table.Header {
		pdf.CellFormat(colWidth*float64(header.Span), pdfHeaderHeight, tr(header.Label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

func rowHeight(pdf *gofpdf.Fpdf, tr func(string) string, row Row, colWidth float64) float64 {
	lines := 1
	for _, cell := range row.Cells {
		if cell.Text == "" {
			continue
		}
		if n := len(pdf.SplitLines([]byte(tr(cell.Text)), colWidth-2*pdfPadding)); n > lines {
			lines = n
		}
	}
	return float64(lines)*pdfLineHeight + 2*pdfPadding
}

func drawCell(pdf *gofpdf.Fpdf, x, y, w, h float64, text, fill string) {
	r, g, b := hexRGB(fill)
	pdf.SetFillColor(r, g, b)
	pdf.Rect(x, y, w, h, "FD")
	if text == "" {
		return
	}
	pdf.SetXY(x+pdfPadding, y+pdfPadding)
	pdf.MultiCell(w-2*pdfPadding, pdfLineHeight, text, "", "C", false)
}
