package pdf

import (
	"math"
	"strconv"

	"github.com/go-pdf/fpdf"
)

// ChartPoint is one labelled value on a 0..100 scale.
type ChartPoint struct {
	Label string
	Value float64
}

// Bar is the rectangle of one bar in page coordinates.
type Bar struct {
	X, Y, W, H float64
}

// LayoutBars places one bar per point inside the box (x, y, width, height),
// with bar height proportional to Value/100. Values are clamped to 0..100.
func LayoutBars(points []ChartPoint, x, y, width, height float64) []Bar {
	if len(points) == 0 {
		return nil
	}
	slot := width / float64(len(points))
	barW := slot * 0.6
	bars := make([]Bar, len(points))
	for i, p := range points {
		v := math.Max(0, math.Min(100, p.Value))
		h := height * v / 100
		bars[i] = Bar{
			X: x + float64(i)*slot + (slot-barW)/2,
			Y: y + height - h,
			W: barW,
			H: h,
		}
	}
	return bars
}

// Slice is a pie wedge in degrees, measured clockwise from 12 o'clock.
type Slice struct {
	Start, End float64
	Share      float64
}

// LayoutPie returns one wedge per point. Non-positive values get an empty
// wedge; when nothing is positive it returns nil.
func LayoutPie(points []ChartPoint) []Slice {
	total := 0.0
	for _, p := range points {
		if p.Value > 0 {
			total += p.Value
		}
	}
	if total == 0 {
		return nil
	}

	slices := make([]Slice, len(points))
	angle := 0.0
	for i, p := range points {
		share := 0.0
		if p.Value > 0 {
			share = p.Value / total
		}
		slices[i] = Slice{Start: angle, End: angle + share*360, Share: share}
		angle += share * 360
	}
	// absorb rounding so the last non-empty wedge closes the circle
	for i := len(slices) - 1; i >= 0; i-- {
		if slices[i].Share > 0 {
			slices[i].End = 360
			break
		}
	}
	return slices
}

var chartPalette = []rgb{
	{52, 101, 164}, {242, 153, 74}, {87, 166, 74}, {200, 64, 64}, {142, 94, 174},
	{68, 170, 170}, {214, 196, 60}, {120, 120, 120}, {230, 120, 170}, {92, 64, 51},
	{40, 40, 120},
}

func paletteColor(i int) rgb {
	return chartPalette[i%len(chartPalette)]
}

// barChart draws the bars with value labels above and axis labels below.
func (w *writer) barChart(title string, points []ChartPoint, y float64) float64 {
	const plotHeight = 170.0
	w.text(colorText)
	w.f.SetFont(fontFamily, "B", 12)
	w.f.SetXY(Margin, y)
	w.f.CellFormat(ContentWidth(), 16, w.tr(title), "", 0, "L", false, 0, "")
	y += 24

	if len(points) == 0 {
		w.f.SetFont(fontFamily, "", 10)
		w.f.SetXY(Margin, y)
		w.f.CellFormat(ContentWidth(), 14, "No data to display.", "", 0, "L", false, 0, "")
		return y + 20
	}

	w.draw(colorGrid)
	w.f.SetLineWidth(0.5)
	w.f.Line(Margin, y+plotHeight, Margin+ContentWidth(), y+plotHeight)

	slot := ContentWidth() / float64(len(points))
	for i, bar := range LayoutBars(points, Margin, y, ContentWidth(), plotHeight) {
		w.fill(paletteColor(i))
		if bar.H > 0 {
			w.f.Rect(bar.X, bar.Y, bar.W, bar.H, "F")
		}
		w.text(colorText)
		w.f.SetFont(fontFamily, "", 7)
		w.f.SetXY(bar.X-4, bar.Y-10)
		w.f.CellFormat(bar.W+8, 9, formatValue(points[i].Value), "", 0, "C", false, 0, "")

		w.f.SetXY(Margin+float64(i)*slot, y+plotHeight+3)
		w.f.MultiCell(slot, 8, w.tr(points[i].Label), "", "C", false)
	}
	return y + plotHeight + 40
}

// pieChart draws the wedges as polygons with a legend on the right.
func (w *writer) pieChart(title string, points []ChartPoint, y float64) float64 {
	const radius = 110.0
	w.text(colorText)
	w.f.SetFont(fontFamily, "B", 12)
	w.f.SetXY(Margin, y)
	w.f.CellFormat(ContentWidth(), 16, w.tr(title), "", 0, "L", false, 0, "")
	y += 24

	slices := LayoutPie(points)
	if slices == nil {
		w.f.SetFont(fontFamily, "", 10)
		w.f.SetXY(Margin, y)
		w.f.CellFormat(ContentWidth(), 14, "No data to display.", "", 0, "L", false, 0, "")
		return y + 20
	}

	cx, cy := Margin+radius+10, y+radius
	for i, s := range slices {
		if s.End-s.Start <= 0 {
			continue
		}
		w.fill(paletteColor(i))
		w.f.Polygon(wedge(cx, cy, radius, s.Start, s.End), "F")
	}

	legendX := cx + radius + 40
	legendY := y + 10
	w.f.SetFont(fontFamily, "", 9)
	for i, s := range slices {
		w.fill(paletteColor(i))
		w.f.Rect(legendX, legendY+2, 9, 9, "F")
		w.text(colorText)
		w.f.SetXY(legendX+14, legendY)
		label := points[i].Label + " (" + formatValue(s.Share*100) + "%)"
		w.f.CellFormat(PageWidth-Margin-legendX-14, 13, w.fit(label, PageWidth-Margin-legendX-14), "", 0, "L", false, 0, "")
		legendY += 16
	}
	return math.Max(cy+radius, legendY) + 20
}

// wedge approximates a pie slice by its centre and points along the arc.
func wedge(cx, cy, r, startDeg, endDeg float64) []fpdf.PointType {
	const step = 3.0
	pts := []fpdf.PointType{{X: cx, Y: cy}}
	for a := startDeg; ; a += step {
		if a > endDeg {
			a = endDeg
		}
		rad := a * math.Pi / 180
		pts = append(pts, fpdf.PointType{X: cx + r*math.Sin(rad), Y: cy - r*math.Cos(rad)})
		if a >= endDeg {
			break
		}
	}
	return pts
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}
