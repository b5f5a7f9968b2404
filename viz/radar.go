package viz

import(
	"fmt"
	"math"

	geo "github.com/paulmach/go.geo"

	"github.com/skypies/flightdash/charts"
)

// RadarChart lays out the carrier comparison. All three spokes share one scale, the largest
// value present. Elements 0..2 are baseline vertices, 3..5 alternative vertices.
type RadarChart struct {
	Vector        charts.RadarVector

	Width,Height  float64
	Center       *geo.Point
	Radius        float64
	Scale         float64
	Spokes      []*geo.Point // outer end of each axis
	Baseline    []*geo.Point
	Alternative []*geo.Point

	highlighted   int
}

func NewRadarChart(rv charts.RadarVector, width, height float64) *RadarChart {
	rc := RadarChart{Vector:rv, highlighted:-1}
	rc.Resize(width, height)
	return &rc
}

// spoke k points straight up, then every 120 degrees clockwise.
func (rc *RadarChart)at(k int, frac float64) *geo.Point {
	a := float64(k) * 2 * math.Pi / 3
	r := rc.Radius * frac
	return geo.NewPoint(rc.Center.X() + math.Sin(a)*r, rc.Center.Y() - math.Cos(a)*r)
}

func (rc *RadarChart)Resize(width, height float64) {
	rc.Width, rc.Height = width, height
	rc.Center = geo.NewPoint(width/2, height/2)
	rc.Radius = math.Min(width, height) / 2 * kRadiusRatio

	axes := rc.Vector.Axes()
	rc.Scale = 1.0
	for _,ax := range axes {
		rc.Scale = math.Max(rc.Scale, math.Max(ax.Baseline, ax.Alternative))
	}

	rc.Spokes, rc.Baseline, rc.Alternative = []*geo.Point{}, []*geo.Point{}, []*geo.Point{}
	for k,ax := range axes {
		rc.Spokes = append(rc.Spokes, rc.at(k, 1.0))
		rc.Baseline = append(rc.Baseline, rc.at(k, math.Max(0, ax.Baseline)/rc.Scale))
		rc.Alternative = append(rc.Alternative, rc.at(k, math.Max(0, ax.Alternative)/rc.Scale))
	}
}

func (rc *RadarChart)Highlight(i int) { rc.highlighted = i }

func (rc *RadarChart)vertices() []*geo.Point {
	return append(append([]*geo.Point{}, rc.Baseline...), rc.Alternative...)
}

func (rc *RadarChart)HitTest(x, y float64) (int, bool) {
	p := geo.NewPoint(x, y)
	best, bestDist := -1, kLineHitRadius
	for i,v := range rc.vertices() {
		if d := v.DistanceFrom(p); d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}

func (rc *RadarChart)Tooltip(i int) Tooltip {
	if i < 0 || i >= 6 { return Tooltip{} }
	ax := rc.Vector.Axes()[i%3]
	return Tooltip{
		Label: ax.Subject,
		Value: fmt.Sprintf("%s: %.1f, %s: %.1f", rc.Vector.BaselineName, ax.Baseline,
			rc.Vector.AlternativeName, ax.Alternative),
		Definition: fmt.Sprintf("full mark %.0f", ax.FullMark),
	}
}
