// Package pdf renders the results table and the text reports as A4 PDFs
// measured in points.
package pdf

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const (
	PageWidth  = 595.28
	PageHeight = 841.89
	Margin     = 40.0

	headerBandHeight  = 56.0
	accentStripHeight = 6.0
	fontFamily        = "Helvetica"
)

type rgb struct{ r, g, b int }

var (
	colorBand   = rgb{30, 58, 95}
	colorAccent = rgb{242, 153, 74}
	colorText   = rgb{33, 33, 33}
	colorMuted  = rgb{110, 110, 110}
	colorStripe = rgb{240, 243, 247}
	colorGrid   = rgb{190, 198, 208}
	colorWhite  = rgb{255, 255, 255}
)

// ContentWidth is the printable width between the side margins.
func ContentWidth() float64 {
	return PageWidth - 2*Margin
}

type writer struct {
	f  *fpdf.Fpdf
	tr func(string) string
}

func newWriter(title string) *writer {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetMargins(Margin, Margin, Margin)
	f.SetAutoPageBreak(false, Margin)
	f.SetTitle(title, true)
	f.SetCreator("school_exam_backend", true)
	return &writer{f: f, tr: f.UnicodeTranslatorFromDescriptor("")}
}

func (w *writer) fill(c rgb) { w.f.SetFillColor(c.r, c.g, c.b) }
func (w *writer) text(c rgb) { w.f.SetTextColor(c.r, c.g, c.b) }
func (w *writer) draw(c rgb) { w.f.SetDrawColor(c.r, c.g, c.b) }

// headerBand paints the dark band with its accent strip and title and
// returns the first free y below it.
func (w *writer) headerBand(title, subtitle string) float64 {
	w.fill(colorBand)
	w.f.Rect(0, 0, PageWidth, headerBandHeight, "F")
	w.fill(colorAccent)
	w.f.Rect(0, headerBandHeight, PageWidth, accentStripHeight, "F")

	w.text(colorWhite)
	w.f.SetFont(fontFamily, "B", 18)
	w.f.SetXY(Margin, 14)
	w.f.CellFormat(ContentWidth(), 20, w.tr(title), "", 0, "L", false, 0, "")
	if subtitle != "" {
		w.f.SetFont(fontFamily, "", 10)
		w.f.SetXY(Margin, 34)
		w.f.CellFormat(ContentWidth(), 14, w.tr(subtitle), "", 0, "L", false, 0, "")
	}
	return headerBandHeight + accentStripHeight + 18
}

// infoBlock prints label/value pairs two per line starting at y.
func (w *writer) infoBlock(y float64, pairs [][2]string) float64 {
	const lineHeight = 16.0
	colWidth := ContentWidth() / 2
	for i, p := range pairs {
		x := Margin + float64(i%2)*colWidth
		if i%2 == 0 && i > 0 {
			y += lineHeight
		}
		w.f.SetXY(x, y)
		w.text(colorMuted)
		w.f.SetFont(fontFamily, "B", 10)
		label := w.tr(p[0] + ": ")
		lw := w.f.GetStringWidth(label)
		w.f.CellFormat(lw, lineHeight, label, "", 0, "L", false, 0, "")
		w.text(colorText)
		w.f.SetFont(fontFamily, "", 10)
		w.f.CellFormat(colWidth-lw-6, lineHeight, w.fit(p[1], colWidth-lw-6), "", 0, "L", false, 0, "")
	}
	if len(pairs) > 0 {
		y += lineHeight
	}
	return y
}

// fit shortens s with an ellipsis until it fits width in the current font.
// The result is already translated for the core fonts.
func (w *writer) fit(s string, width float64) string {
	if out := w.tr(s); w.f.GetStringWidth(out) <= width {
		return out
	}
	const ellipsis = "..."
	runes := []rune(s)
	for len(runes) > 0 && w.f.GetStringWidth(w.tr(string(runes)+ellipsis)) > width {
		runes = runes[:len(runes)-1]
	}
	return w.tr(string(runes) + ellipsis)
}

func (w *writer) footer(page int) {
	w.f.SetFont(fontFamily, "", 8)
	w.text(colorMuted)
	w.f.SetXY(Margin, PageHeight-Margin+12)
	w.f.CellFormat(ContentWidth(), 10, "Page "+strconv.Itoa(page), "", 0, "R", false, 0, "")
}

func (w *writer) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.f.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
