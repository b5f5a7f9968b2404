package viz

import(
	"fmt"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/skypies/flightdash/charts"
)

var ErrNoData = fmt.Errorf("nothing to draw")

type Format int
const(
	SVG Format = iota
	PNG
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "svg": return SVG, nil
	case "png": return PNG, nil
	}
	return SVG, fmt.Errorf("unknown image format %q", s)
}

func (f Format)ContentType() string {
	if f == PNG { return "image/png" }
	return "image/svg+xml"
}

func (f Format)provider() chart.RendererProvider {
	if f == PNG { return chart.PNG }
	return chart.SVG
}

var(
	barColor  = drawing.Color{R:52, G:152, B:219, A:191}
	lineColor = drawing.Color{R:255, G:99, B:132, A:255}
)

func hexColor(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(hex, "#"))
}

// {{{ RenderTrend

// RenderTrend draws the per-prediction bars with the trend line over them.
func RenderTrend(w io.Writer, pts []charts.TrendPoint, width, height int, f Format) error {
	n := len(pts)
	if n == 0 { return ErrNoData }

	xs := make([]float64, n)
	ys := charts.TrendValues(pts)
	ticks := make([]chart.Tick, 0, n+1)
	maxY := 1.0
	for i := range pts {
		xs[i] = float64(i + 1)
		ticks = append(ticks, chart.Tick{Value: xs[i], Label: fmt.Sprintf("%d", i+1)})
		maxY = math.Max(maxY, ys[i])
	}

	// go-chart wants at least two X values, and a range with non-zero width
	minR, maxR := 0.5, float64(n)+0.5
	if n == 1 {
		xs = []float64{xs[0], xs[0] + 1}
		ys = []float64{ys[0], ys[0]}
		maxR = 2.0
		ticks = append(ticks, chart.Tick{Value: 2, Label: ""})
	}

	line := chart.ContinuousSeries{
		Name: "Trend Line",
		XValues: xs,
		YValues: ys,
		Style: chart.Style{StrokeColor: lineColor, StrokeWidth: 2, DotWidth: 3, DotColor: lineColor},
	}
	bars := chart.HistogramSeries{
		Name: "Predicted Total Delay (minutes)",
		Style: chart.Style{StrokeColor: barColor, FillColor: barColor},
		InnerSeries: chart.ContinuousSeries{XValues: xs, YValues: ys},
	}

	ch := chart.Chart{
		Title: "Predicted Total Delay by Prediction",
		Width: width,
		Height: height,
		Background: chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 28}},
		XAxis: chart.XAxis{Name: "Prediction", Ticks: ticks, Range: &chart.ContinuousRange{Min: minR, Max: maxR}},
		YAxis: chart.YAxis{Name: "Minutes", Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1}},
		Series: []chart.Series{bars, line},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	return ch.Render(f.provider(), w)
}

// }}}
// {{{ RenderRiskPie, RenderSeverityDonut

func nonZero(vals []chart.Value) []chart.Value {
	out := []chart.Value{}
	for _,v := range vals {
		if v.Value > 0 { out = append(out, v) }
	}
	return out
}

func RenderRiskPie(w io.Writer, rc charts.RiskCounts, width, height int, f Format) error {
	vals := nonZero([]chart.Value{
		{Value: float64(rc.High), Label: "High risk", Style: chart.Style{FillColor: hexColor(RiskHighColor)}},
		{Value: float64(rc.Low),  Label: "Low risk",  Style: chart.Style{FillColor: hexColor(RiskLowColor)}},
	})
	if len(vals) == 0 { return ErrNoData }

	pie := chart.PieChart{
		Title: rc.Title(),
		Width: width,
		Height: height,
		Values: vals,
	}
	return pie.Render(f.provider(), w)
}

func RenderSeverityDonut(w io.Writer, shares []charts.CategoryShare, width, height int, f Format) error {
	vals := []chart.Value{}
	for _,s := range shares {
		vals = append(vals, chart.Value{
			Value: s.Percent,
			Label: fmt.Sprintf("%s %.0f%%", s.Category, s.Percent),
			Style: chart.Style{FillColor: hexColor(s.Category.Color())},
		})
	}
	vals = nonZero(vals)
	if len(vals) == 0 { return ErrNoData }

	donut := chart.DonutChart{
		Title: "Delay Severity",
		Width: width,
		Height: height,
		Values: vals,
	}
	return donut.Render(f.provider(), w)
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
