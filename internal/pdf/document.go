// Package pdf renders the shop documents (quotes, material orders and site
// checklists) as A4 PDFs.
package pdf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	margin       = 15.0
	bottomMargin = 20.0
)

type rgb struct{ r, g, b int }

var (
	primaryBlue   = rgb{13, 71, 161}
	primaryOrange = rgb{245, 124, 0}
	darkText      = rgb{31, 41, 55}
	mutedText     = rgb{100, 100, 100}
	white         = rgb{255, 255, 255}
)

// document wraps fpdf with the few drawing primitives the layouts share.
// Strings go through a cp1252 translator so € and accented letters survive
// the core Helvetica font.
type document struct {
	*fpdf.Fpdf
	tr           func(string) string
	pageW, pageH float64
}

func newDocument(title string) *document {
	f := fpdf.New("P", "mm", "A4", "")
	f.SetMargins(margin, margin, margin)
	f.SetAutoPageBreak(false, bottomMargin)
	f.SetTitle(title, true)
	f.SetCreator("gestionale", true)
	f.AddPage()
	w, h := f.GetPageSize()
	return &document{
		Fpdf:  f,
		tr:    f.UnicodeTranslatorFromDescriptor(""),
		pageW: w,
		pageH: h,
	}
}

func (d *document) font(style string, size float64) {
	d.SetFont("Helvetica", style, size)
}

func (d *document) color(c rgb) {
	d.SetTextColor(c.r, c.g, c.b)
}

func (d *document) text(x, y float64, s string) {
	d.Text(x, y, d.tr(s))
}

// textRight draws s so that it ends at x.
func (d *document) textRight(x, y float64, s string) {
	s = d.tr(s)
	d.Text(x-d.GetStringWidth(s), y, s)
}

func (d *document) rule(y, width float64) {
	d.SetLineWidth(width)
	d.Line(margin, y, d.pageW-margin, y)
}

// paragraph wraps s within the page margins starting at y. Lines that would
// pass limit continue on a new page. It returns the y below the last line.
func (d *document) paragraph(y, lineHeight, limit float64, s string) float64 {
	width := d.pageW - 2*margin
	for _, line := range d.SplitLines([]byte(d.tr(s)), width) {
		if y+lineHeight > limit {
			d.AddPage()
			y = margin
		}
		d.SetXY(margin, y)
		d.CellFormat(width, lineHeight, string(line), "", 0, "L", false, 0, "")
		y += lineHeight
	}
	return y
}

func (d *document) finish(w io.Writer) error {
	if err := d.Error(); err != nil {
		return fmt.Errorf("pdf layout: %w", err)
	}
	return d.Output(w)
}

type column struct {
	header string
	width  float64 // 0 takes the remaining width
	align  string
}

type cell struct {
	text  string
	style string
	align string
	span  int
}

type tableStyle struct {
	fontSize   float64
	padding    float64
	centerHead bool
	firstSize  float64 // font size of the first column, 0 to inherit
}

// table draws a grid with a blue header row and returns the y below it.
// Rows grow to fit wrapped text and the header is repeated after a page
// break.
func (d *document) table(startY float64, cols []column, rows [][]cell, st tableStyle) float64 {
	widths := d.columnWidths(cols)
	lineH := st.fontSize * 0.45
	y := startY

	drawHeader := func() {
		d.SetFillColor(primaryBlue.r, primaryBlue.g, primaryBlue.b)
		d.SetDrawColor(200, 200, 200)
		d.SetLineWidth(0.1)
		d.color(white)
		d.font("B", st.fontSize)
		x := margin
		h := lineH + 2*st.padding
		for i, c := range cols {
			align := "L"
			if st.centerHead {
				align = "C"
			}
			d.SetXY(x, y)
			d.CellFormat(widths[i], h, d.tr(c.header), "1", 0, align+"M", true, 0, "")
			x += widths[i]
		}
		y += h
	}
	drawHeader()

	for _, row := range rows {
		spans := expandSpans(row, widths)
		height := 0.0
		for i, c := range row {
			size := st.fontSize
			if i == 0 && st.firstSize > 0 && c.span <= 1 {
				size = st.firstSize
			}
			d.font(c.style, size)
			lines := d.SplitLines([]byte(d.tr(c.text)), spans[i]-2*st.padding)
			if h := float64(max(len(lines), 1))*lineH + 2*st.padding; h > height {
				height = h
			}
		}
		if y+height > d.pageH-bottomMargin {
			d.AddPage()
			y = margin
			drawHeader()
		}

		x := margin
		d.color(darkText)
		for i, c := range row {
			size := st.fontSize
			if i == 0 && st.firstSize > 0 && c.span <= 1 {
				size = st.firstSize
			}
			d.font(c.style, size)
			d.Rect(x, y, spans[i], height, "D")
			d.SetXY(x+st.padding, y+st.padding)
			align := c.align
			if align == "" && i < len(cols) {
				align = cols[i].align
			}
			if align == "" {
				align = "L"
			}
			d.MultiCell(spans[i]-2*st.padding, lineH, d.tr(c.text), "", align, false)
			x += spans[i]
		}
		y += height
	}
	return y
}

func (d *document) columnWidths(cols []column) []float64 {
	avail := d.pageW - 2*margin
	fixed, auto := 0.0, 0
	for _, c := range cols {
		if c.width == 0 {
			auto++
		}
		fixed += c.width
	}
	widths := make([]float64, len(cols))
	for i, c := range cols {
		widths[i] = c.width
		if c.width == 0 && auto > 0 {
			widths[i] = (avail - fixed) / float64(auto)
		}
	}
	return widths
}

// expandSpans returns the width of every cell in row, merging columns for
// cells with span > 1.
func expandSpans(row []cell, widths []float64) []float64 {
	out := make([]float64, len(row))
	col := 0
	for i, c := range row {
		span := max(c.span, 1)
		for j := 0; j < span && col < len(widths); j++ {
			out[i] += widths[col]
			col++
		}
	}
	return out
}

func money(v float64) string {
	return fmt.Sprintf("€%.2f", v)
}

func quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// italianDate turns YYYY-MM-DD into DD/MM/YYYY, leaving other input alone.
func italianDate(s string) string {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format("02/01/2006")
}
