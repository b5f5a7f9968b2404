// Provides routines to render a session's prediction history as a one-page PDF report
package fpdf

import(
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	geo "github.com/paulmach/go.geo"
	"github.com/skypies/util/date"
	"github.com/wcharczuk/go-chart/v2/drawing"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
	"github.com/skypies/flightdash/viz"
)

// https://godoc.org/github.com/jung-kurt/gofpdf

// {{{ var()

// Page is landscape letter, 279x216mm. Boxes are (u,v,w,h) in mm.
var(
	TrendBox    = [4]float64{ 30.0,  25.0, 150.0, 70.0}
	SeverityBox = [4]float64{200.0,  20.0,  70.0, 70.0}
	RiskBox     = [4]float64{200.0, 125.0,  70.0, 70.0}
	RadarBox    = [4]float64{ 20.0, 110.0,  75.0, 75.0}
	TableOffset = [2]float64{105.0, 112.0}

	TableRows = 14 // Most recent predictions only
)

const kArcSteps = 64 // polygon vertices per full circle

// }}}

// {{{ setFill, setDraw

func rgb(hex string) (int, int, int) {
	c := drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
	return int(c.R), int(c.G), int(c.B)
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	r,g,b := rgb(hex)
	pdf.SetFillColor(r,g,b)
}

func setDraw(pdf *gofpdf.Fpdf, hex string) {
	r,g,b := rgb(hex)
	pdf.SetDrawColor(r,g,b)
}

// }}}

// {{{ NewReportPdf

func NewReportPdf() *gofpdf.Fpdf {
	pdf := gofpdf.New("L", "mm", "Letter", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 10)
	return pdf
}

// }}}
// {{{ DrawTitle

func DrawTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	pdf.MoveTo(10, 6)
	pdf.Cell(200, 8, title)
	pdf.SetFont("Arial", "", 10)
}

// }}}
// {{{ DrawTrend

// DrawTrend plots total delay per prediction as bars, with the trend line through their tops.
func DrawTrend(pdf *gofpdf.Fpdf, pts []charts.TrendPoint) {
	n := len(pts)
	maxY := 1.0
	for _,p := range pts { maxY = math.Max(maxY, p.TotalDelayMinutes) }
	maxY = math.Ceil(maxY/10.0) * 10.0

	grid := BaseGrid{
		Fpdf: pdf,
		OffsetU: TrendBox[0], OffsetV: TrendBox[1], W: TrendBox[2], H: TrendBox[3],
		MinX: 0, MaxX: float64(n) + 1, // bars are centred on whole numbers
		MinY: 0, MaxY: maxY,
		XGridlineEvery: 1, XTickFmt: "%.0f", XTickSkipMin: true,
		YGridlineEvery: maxY / 5, YTickFmt: "%.0f min",
		LineColor: []int{0x40, 0x40, 0x40},
	}
	grid.DrawGridlines()

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	pdf.MoveTo(TrendBox[0], TrendBox[1]-6)
	pdf.Cell(TrendBox[2], 5, "Predicted Total Delay by Prediction")

	if n == 0 { return }

	setFill(pdf, "#3498db")
	for i,p := range pts {
		x := float64(i + 1)
		grid.Rect(x-0.4, 0, x+0.4, math.Max(0, p.TotalDelayMinutes), "F")
	}

	setDraw(pdf, "#ff6384")
	pdf.SetLineWidth(0.5)
	for i,p := range pts {
		if i == 0 {
			grid.MoveTo(float64(i+1), p.TotalDelayMinutes)
		} else {
			grid.LineTo(float64(i+1), p.TotalDelayMinutes)
		}
	}
	pdf.DrawPath("D")
}

// }}}
// {{{ DrawDoughnut

func arcPoints(cx, cy, r, from, to float64) []gofpdf.PointType {
	steps := int(math.Ceil((to - from) / (2 * math.Pi) * kArcSteps))
	if steps < 1 { steps = 1 }
	pts := []gofpdf.PointType{}
	for i := 0; i <= steps; i++ {
		a := from + (to-from)*float64(i)/float64(steps)
		pts = append(pts, gofpdf.PointType{X: cx + math.Sin(a)*r, Y: cy - math.Cos(a)*r})
	}
	return pts
}

// DrawDoughnut fills each laid-out arc as a polygon. The doughnut must have been laid out in mm,
// relative to box's top-left corner.
func DrawDoughnut(pdf *gofpdf.Fpdf, d *viz.Doughnut, box [4]float64, title string) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	pdf.MoveTo(box[0], box[1]-6)
	pdf.Cell(box[2], 5, title)

	cx, cy := box[0] + d.Center.X(), box[1] + d.Center.Y()
	for i,a := range d.Arcs {
		if a.EndAngle <= a.StartAngle { continue }
		outer := arcPoints(cx, cy, d.OuterRadius(i), a.StartAngle, a.EndAngle)
		var inner []gofpdf.PointType
		if d.InnerRadius > 0 {
			inner = arcPoints(cx, cy, d.InnerRadius, a.StartAngle, a.EndAngle)
		} else {
			inner = []gofpdf.PointType{{X:cx, Y:cy}}
		}
		for j := len(inner)-1; j >= 0; j-- {
			outer = append(outer, inner[j])
		}
		setFill(pdf, a.Color)
		pdf.Polygon(outer, "F")

		if a.PercentLabel != "" {
			pdf.SetTextColor(0xff, 0xff, 0xff)
			pdf.MoveTo(box[0]+a.Centroid.X()-6, box[1]+a.Centroid.Y()-2)
			pdf.CellFormat(12, 4, a.PercentLabel, "", 0, "C", false, 0, "")
		}
	}

	// Legend, under the chart
	pdf.SetTextColor(0x00, 0x00, 0x00)
	v := box[1] + box[3] + 1
	for _,a := range d.Arcs {
		setFill(pdf, a.Color)
		pdf.Rect(box[0], v+1, 3, 3, "F")
		pdf.MoveTo(box[0]+4, v)
		pdf.Cell(box[2]-4, 5, fmt.Sprintf("%s (%s)", a.Label, fmt.Sprintf(d.ValueFormat, a.Value)))
		v += 5
	}
}

// }}}
// {{{ DrawRadar

func DrawRadar(pdf *gofpdf.Fpdf, rc *viz.RadarChart, box [4]float64) {
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	pdf.MoveTo(box[0], box[1]-6)
	pdf.Cell(box[2], 5, fmt.Sprintf("Carrier Comparison: %s vs %s", rc.Vector.BaselineName,
		rc.Vector.AlternativeName))

	off := func(pts []*geo.Point) []gofpdf.PointType {
		out := []gofpdf.PointType{}
		for _,p := range pts { out = append(out, gofpdf.PointType{X:box[0]+p.X(), Y:box[1]+p.Y()}) }
		return out
	}

	cx, cy := box[0]+rc.Center.X(), box[1]+rc.Center.Y()
	pdf.SetLineWidth(0.1)
	pdf.SetDrawColor(0xc0, 0xc0, 0xc0)
	pdf.Polygon(off(rc.Spokes), "D")
	axes := rc.Vector.Axes()
	for k,s := range off(rc.Spokes) {
		pdf.Line(cx, cy, s.X, s.Y)
		pdf.SetTextColor(0x40, 0x40, 0x40)
		pdf.MoveTo(s.X-15, s.Y-5)
		if k > 0 { pdf.MoveTo(s.X-15, s.Y+1) }
		pdf.SetFont("Arial", "", 7)
		pdf.CellFormat(30, 4, strings.SplitN(axes[k].Subject, " (", 2)[0], "", 0, "C", false, 0, "")
	}

	pdf.SetLineWidth(0.5)
	setDraw(pdf, "#3498db")
	pdf.Polygon(off(rc.Baseline), "D")
	setDraw(pdf, "#ff6384")
	pdf.SetDashPattern([]float64{1.5, 1.0}, 0)
	pdf.Polygon(off(rc.Alternative), "D")
	pdf.SetDashPattern([]float64{}, 0)
	pdf.SetFont("Arial", "", 10)
}

// }}}
// {{{ DrawTable

func DrawTable(pdf *gofpdf.Fpdf, h fdash.History) {
	widths := []float64{10, 14, 14, 12, 16, 22}
	heads := []string{"#", "Carrier", "Airport", "Month", "Delay", "Category"}

	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(0x00, 0x00, 0x00)
	pdf.SetFillColor(0xe8, 0xe8, 0xe8)
	pdf.MoveTo(TableOffset[0], TableOffset[1])
	for i,s := range heads {
		pdf.CellFormat(widths[i], 5, s, "1", 0, "C", true, 0, "")
	}

	pdf.SetFont("Arial", "", 8)
	start := 0
	if len(h) > TableRows { start = len(h) - TableRows }
	for i := start; i < len(h); i++ {
		r := h[i]
		pdf.MoveTo(TableOffset[0], TableOffset[1] + 5*float64(i-start+1))
		row := []string{
			fmt.Sprintf("%d", i+1), r.Input.Carrier, r.Input.Airport, fmt.Sprintf("%d", r.Input.Month),
			fmt.Sprintf("%.0f min", r.TotalDelayMinutes), r.DelayCategory.String(),
		}
		for j,s := range row {
			pdf.CellFormat(widths[j], 5, s, "1", 0, "C", false, 0, "")
		}
	}
}

// }}}

// {{{ WriteReport

// WriteReport renders the whole history; alt names the carrier to compare against in the radar
// (blank for the latest prediction's first alternative, and no radar if there is none).
func WriteReport(output io.Writer, h fdash.History, alt string, t time.Time) error {
	if len(h) == 0 { return viz.ErrNoData }

	pdf := NewReportPdf()
	DrawTitle(pdf, fmt.Sprintf("Flight delay predictions, %s  [%s]",
		date.InPdt(t).Format("Mon Jan 2, 15:04 MST"), charts.Summarize(h)))

	DrawTrend(pdf, charts.TrendSeries(h))

	sev := viz.NewSeverityDoughnut(charts.SeverityShares(h), SeverityBox[2], SeverityBox[3])
	DrawDoughnut(pdf, sev, SeverityBox, "Delay Severity")

	risk := viz.NewRiskPie(charts.RiskDistribution(h), RiskBox[2], RiskBox[3])
	DrawDoughnut(pdf, risk, RiskBox, charts.RiskDistribution(h).Title())

	if latest := h.Latest(); latest != nil && len(latest.Alternatives) > 0 {
		a := latest.Alternatives[0]
		if alt != "" {
			if found,ok := charts.FindAlternative(*latest, alt); ok { a = found }
		}
		rc := viz.NewRadarChart(charts.ComparisonVector(*latest, a), RadarBox[2], RadarBox[3])
		DrawRadar(pdf, rc, RadarBox)
	}

	DrawTable(pdf, h)

	if err := pdf.Output(output); err != nil {
		return fmt.Errorf("WriteReport: %v", err)
	}
	return nil
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
