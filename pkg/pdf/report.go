package pdf

import "fmt"

// ReportField is one labelled paragraph inside a section.
type ReportField struct {
	Label string
	Text  string
}

type ReportSection struct {
	Heading string
	Fields  []ReportField
}

// ReportDocument is the content of a speech or personality report.
type ReportDocument struct {
	Title          string
	Info           [][2]string
	Overview       string
	Sections       []ReportSection
	Conclusion     string
	BulletsHeading string
	Bullets        []string
	ChartTitle     string
	Chart          []ChartPoint
}

const (
	bodyLineHeight = 13.0
	barChartSpace  = 260.0
)

// RenderReport lays out the narrative with automatic page breaks, then the
// bar chart and, on a page of its own, the pie chart.
func RenderReport(doc ReportDocument) ([]byte, error) {
	w := newWriter(doc.Title)
	w.f.AddPage()
	w.f.SetAutoPageBreak(true, Margin)

	y := w.headerBand(doc.Title, "")
	y = w.infoBlock(y, doc.Info)
	w.f.SetY(y + 8)

	if doc.Overview != "" {
		w.heading("Overview")
		w.paragraph(doc.Overview)
	}
	for _, sec := range doc.Sections {
		w.heading(sec.Heading)
		for _, f := range sec.Fields {
			if f.Text == "" {
				continue
			}
			w.field(f.Label, f.Text)
		}
	}
	if doc.Conclusion != "" {
		w.heading("Overall Conclusion")
		w.paragraph(doc.Conclusion)
	}
	if len(doc.Bullets) > 0 {
		w.heading(doc.BulletsHeading)
		for _, b := range doc.Bullets {
			w.bullet(b)
		}
	}

	w.f.SetAutoPageBreak(false, Margin)
	chartTop := w.f.GetY() + 12
	if chartTop+barChartSpace > PageHeight-Margin {
		w.f.AddPage()
		chartTop = Margin
	}
	w.barChart(fmt.Sprintf("%s: Bar Chart", doc.ChartTitle), doc.Chart, chartTop)

	w.f.AddPage()
	w.pieChart(fmt.Sprintf("%s: Pie Chart", doc.ChartTitle), doc.Chart, Margin)

	for page := 1; page <= w.f.PageCount(); page++ {
		w.f.SetPage(page)
		w.footer(page)
	}
	return w.bytes()
}

func (w *writer) heading(title string) {
	w.f.Ln(6)
	w.text(colorBand)
	w.f.SetFont(fontFamily, "B", 13)
	w.f.SetX(Margin)
	w.f.CellFormat(ContentWidth(), 18, w.tr(title), "", 1, "L", false, 0, "")
	w.draw(colorAccent)
	w.f.SetLineWidth(1)
	y := w.f.GetY()
	w.f.Line(Margin, y, Margin+60, y)
	w.f.Ln(4)
}

func (w *writer) paragraph(text string) {
	w.text(colorText)
	w.f.SetFont(fontFamily, "", 10)
	w.f.SetX(Margin)
	w.f.MultiCell(ContentWidth(), bodyLineHeight, w.tr(text), "", "L", false)
	w.f.Ln(2)
}

func (w *writer) field(label, text string) {
	w.text(colorMuted)
	w.f.SetFont(fontFamily, "B", 10)
	w.f.SetX(Margin)
	w.f.CellFormat(ContentWidth(), bodyLineHeight, w.tr(label), "", 1, "L", false, 0, "")
	w.paragraph(text)
}

func (w *writer) bullet(text string) {
	w.text(colorText)
	w.f.SetFont(fontFamily, "", 10)
	w.f.SetX(Margin + 8)
	w.f.MultiCell(ContentWidth()-8, bodyLineHeight, w.tr("- "+text), "", "L", false)
}
