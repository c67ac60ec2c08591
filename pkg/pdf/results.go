package pdf

import "fmt"

type ResultRow struct {
	Name    string
	Marks   string
	Remarks string
}

type ResultsDocument struct {
	ExamName   string
	Subject    string
	Topic      string
	SubTopic   string
	ClassName  string
	Date       string
	TotalMarks string
	Rows       []ResultRow
}

// Column shares of the content width: Name, Marks, Remarks.
var resultColumns = []float64{0.4, 0.2, 0.4}

const (
	tableHeaderHeight = 24.0
	tableRowHeight    = 22.0
	cellPadding       = 6.0
)

// TableGeometry describes where a paginated table may be drawn.
type TableGeometry struct {
	FirstTop     float64 // y of the header on the first page
	PageTop      float64 // y of the header on continuation pages
	Bottom       float64 // rows may not extend below this
	HeaderHeight float64
	RowHeight    float64
}

// Segment is the part of a table drawn on one page. Rows [FirstRow, EndRow)
// sit between Top (header included) and Bottom.
type Segment struct {
	Page     int
	Top      float64
	Bottom   float64
	FirstRow int
	EndRow   int
}

// PlanTable splits rows over pages so that no row crosses g.Bottom. Every
// segment starts with a header row. At least one segment is returned.
func PlanTable(g TableGeometry, rows int) []Segment {
	page := 0
	top := g.FirstTop
	if top+g.HeaderHeight+g.RowHeight > g.Bottom {
		page, top = 1, g.PageTop
	}

	var segments []Segment
	seg := Segment{Page: page, Top: top, FirstRow: 0}
	y := top + g.HeaderHeight
	for i := 0; i < rows; i++ {
		if y+g.RowHeight > g.Bottom && i > seg.FirstRow {
			seg.EndRow, seg.Bottom = i, y
			segments = append(segments, seg)
			page++
			seg = Segment{Page: page, Top: g.PageTop, FirstRow: i}
			y = g.PageTop + g.HeaderHeight
		}
		y += g.RowHeight
	}
	seg.EndRow, seg.Bottom = rows, y
	return append(segments, seg)
}

func columnWidths(total float64) []float64 {
	out := make([]float64, len(resultColumns))
	for i, share := range resultColumns {
		out[i] = total * share
	}
	return out
}

// RenderResults draws the results report: header band, exam details and a
// table that repeats its header on every page.
func RenderResults(doc ResultsDocument) ([]byte, error) {
	w := newWriter(fmt.Sprintf("%s results", doc.ExamName))
	w.f.AddPage()

	y := w.headerBand("Exam Results", doc.ExamName)
	topic := doc.Topic
	if doc.SubTopic != "" {
		topic += " / " + doc.SubTopic
	}
	y = w.infoBlock(y, [][2]string{
		{"Exam", doc.ExamName},
		{"Subject", doc.Subject},
		{"Topic", topic},
		{"Class", doc.ClassName},
		{"Date", doc.Date},
		{"Total Marks", doc.TotalMarks},
	})

	geom := TableGeometry{
		FirstTop:     y + 14,
		PageTop:      Margin,
		Bottom:       PageHeight - Margin,
		HeaderHeight: tableHeaderHeight,
		RowHeight:    tableRowHeight,
	}
	widths := columnWidths(ContentWidth())
	segments := PlanTable(geom, len(doc.Rows))

	page := 0
	for _, seg := range segments {
		for page < seg.Page {
			w.footer(page + 1)
			w.f.AddPage()
			page++
		}
		w.tableHeader(seg.Top, widths)
		rowY := seg.Top + tableHeaderHeight
		for i := seg.FirstRow; i < seg.EndRow; i++ {
			w.tableRow(rowY, widths, doc.Rows[i], i%2 == 1)
			rowY += tableRowHeight
		}
		w.columnSeparators(seg, widths)
	}
	w.footer(page + 1)

	return w.bytes()
}

func (w *writer) tableHeader(y float64, widths []float64) {
	w.fill(colorBand)
	w.text(colorWhite)
	w.f.SetFont(fontFamily, "B", 11)
	x := Margin
	for i, title := range []string{"Name", "Marks", "Remarks"} {
		w.f.Rect(x, y, widths[i], tableHeaderHeight, "F")
		w.f.SetXY(x+cellPadding, y)
		w.f.CellFormat(widths[i]-2*cellPadding, tableHeaderHeight, title, "", 0, "L", false, 0, "")
		x += widths[i]
	}
}

func (w *writer) tableRow(y float64, widths []float64, row ResultRow, shaded bool) {
	if shaded {
		w.fill(colorStripe)
		w.f.Rect(Margin, y, ContentWidth(), tableRowHeight, "F")
	}
	w.draw(colorGrid)
	w.f.SetLineWidth(0.5)
	w.f.Line(Margin, y+tableRowHeight, Margin+ContentWidth(), y+tableRowHeight)

	w.text(colorText)
	w.f.SetFont(fontFamily, "", 10)
	x := Margin
	for i, cell := range []string{row.Name, row.Marks, row.Remarks} {
		inner := widths[i] - 2*cellPadding
		w.f.SetXY(x+cellPadding, y)
		w.f.CellFormat(inner, tableRowHeight, w.fit(cell, inner), "", 0, "L", false, 0, "")
		x += widths[i]
	}
}

// columnSeparators draws the outer box and the vertical rules of one segment.
func (w *writer) columnSeparators(seg Segment, widths []float64) {
	w.draw(colorGrid)
	w.f.SetLineWidth(0.5)
	x := Margin
	w.f.Line(x, seg.Top, x, seg.Bottom)
	for _, width := range widths {
		x += width
		w.f.Line(x, seg.Top, x, seg.Bottom)
	}
	w.f.Line(Margin, seg.Top, Margin+ContentWidth(), seg.Top)
}
