package viz

import(
	"math"

	geo "github.com/paulmach/go.geo"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
)

const(
	kPadLeft, kPadRight, kPadTop, kPadBottom = 40.0, 10.0, 10.0, 30.0
	kBarFill      = 0.8 // fraction of each slot taken by its bar
	kLineHitRadius = 6.0
)

// TrendChart is the bar chart of total delay per prediction, with the trend line drawn through
// the tops of the bars. Elements 0..n-1 are bars, n..2n-1 are line vertices.
type TrendChart struct {
	Points     []charts.TrendPoint
	BarTips  [][]string
	LineTips [][]string

	Width,Height float64
	YMax         float64
	Plot        *geo.Bound
	Bars      []*geo.Bound
	Line      []*geo.Point

	highlighted  int
}

func NewTrendChart(h fdash.History, width, height float64) *TrendChart {
	tc := TrendChart{Points:charts.TrendSeries(h), highlighted:-1}
	for i := range h {
		tc.BarTips = append(tc.BarTips, charts.TooltipLines(h, i, charts.BarSeries))
		tc.LineTips = append(tc.LineTips, charts.TooltipLines(h, i, charts.LineSeries))
	}
	tc.Resize(width, height)
	return &tc
}

func (tc *TrendChart)Resize(width, height float64) {
	tc.Width, tc.Height = width, height
	left, right := kPadLeft, math.Max(kPadLeft, width-kPadRight)
	top, bottom := kPadTop, math.Max(kPadTop, height-kPadBottom)
	tc.Plot = geo.NewBound(left, right, top, bottom)

	tc.YMax = 1.0
	for _,p := range tc.Points { tc.YMax = math.Max(tc.YMax, p.TotalDelayMinutes) }

	tc.Bars = []*geo.Bound{}
	tc.Line = []*geo.Point{}
	n := len(tc.Points)
	if n == 0 { return }

	slot := (right - left) / float64(n)
	plotH := bottom - top
	for i,p := range tc.Points {
		x0 := left + float64(i)*slot + slot*(1-kBarFill)/2
		x1 := x0 + slot*kBarFill
		y := bottom - math.Max(0, p.TotalDelayMinutes)/tc.YMax*plotH
		tc.Bars = append(tc.Bars, geo.NewBound(x0, x1, y, bottom))
		tc.Line = append(tc.Line, geo.NewPoint((x0+x1)/2, y))
	}
}

func (tc *TrendChart)Highlight(i int) { tc.highlighted = i }
func (tc *TrendChart)Highlighted() int { return tc.highlighted }

// HitTest prefers line vertices, which sit on top of the bars.
func (tc *TrendChart)HitTest(x, y float64) (int, bool) {
	p := geo.NewPoint(x, y)
	for i,v := range tc.Line {
		if v.DistanceFrom(p) <= kLineHitRadius { return len(tc.Points)+i, true }
	}
	for i,b := range tc.Bars {
		if b.Contains(p) { return i, true }
	}
	return -1, false
}

func (tc *TrendChart)Tooltip(i int) Tooltip {
	n := len(tc.Points)
	if i < 0 || i >= 2*n { return Tooltip{} }

	lines := tc.BarTips
	if i >= n {
		i -= n
		lines = tc.LineTips
	}
	return Tooltip{
		Label: tc.Points[i].Label,
		Value: lines[i][0],
		Lines: lines[i][1:],
	}
}
