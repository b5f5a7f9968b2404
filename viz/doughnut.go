package viz

import(
	"fmt"
	"math"

	geo "github.com/paulmach/go.geo"

	"github.com/skypies/flightdash/charts"
)

const(
	kRadiusRatio = 0.8   // of half the smaller dimension
	kInnerRatio  = 0.6   // of the radius
	kHoverRatio  = 1.08  // of the radius, for the highlighted segment
	kMinFontSize = 12.0

	ProbabilityFormat = "Probability: %.1f%%"
	ShareFormat       = "%.1f%% of predictions"

	RiskHighColor = "#ff7b9c"
	RiskLowColor  = "#58d0c9"
)

type Segment struct {
	Label      string
	Value      float64
	Definition string
	Color      string
}

// Arc is a laid-out segment. Angles are radians, clockwise from twelve o'clock.
type Arc struct {
	Segment
	StartAngle   float64
	EndAngle     float64
	Centroid    *geo.Point
	PercentLabel string // blank for zero-valued segments
}

// {{{ Doughnut{}

// Doughnut is a ring chart; with InnerRatio 0 it is a pie.
type Doughnut struct {
	Segments     []Segment
	InnerRatio     float64
	ValueFormat    string // for the tooltip value, applied to Segment.Value

	Width,Height   float64
	Center        *geo.Point
	Radius         float64
	InnerRadius    float64
	HoverRadius    float64
	FontSize       float64
	Arcs         []Arc

	highlighted    int
}

func NewDoughnut(segs []Segment, width, height float64) *Doughnut {
	d := Doughnut{
		Segments: segs,
		InnerRatio: kInnerRatio,
		ValueFormat: ShareFormat,
		highlighted: -1,
	}
	d.Resize(width, height)
	return &d
}

// NewSeverityDoughnut lays out the delay-category shares, in category order. Tooltips call them
// probabilities only if they came from the model.
func NewSeverityDoughnut(shares []charts.CategoryShare, width, height float64) *Doughnut {
	segs := []Segment{}
	format := ShareFormat
	for _,s := range shares {
		if s.Probability { format = ProbabilityFormat }
		segs = append(segs, Segment{
			Label: s.Category.String(),
			Value: s.Percent,
			Definition: s.Category.Definition(),
			Color: s.Category.Color(),
		})
	}
	d := NewDoughnut(segs, width, height)
	d.ValueFormat = format
	return d
}

// NewRiskPie lays out the high/low weather risk counts.
func NewRiskPie(rc charts.RiskCounts, width, height float64) *Doughnut {
	segs := []Segment{
		{Label:"High risk", Value:float64(rc.High), Color:RiskHighColor},
		{Label:"Low risk",  Value:float64(rc.Low),  Color:RiskLowColor},
	}
	d := NewDoughnut(segs, width, height)
	d.InnerRatio = 0
	d.ValueFormat = "%.0f predictions"
	d.Resize(width, height)
	return d
}

func (d *Doughnut)Total() float64 {
	t := 0.0
	for _,s := range d.Segments { t += s.Value }
	return t
}

// }}}
// {{{ d.Resize

func (d *Doughnut)Resize(width, height float64) {
	d.Width, d.Height = width, height
	d.Center = geo.NewPoint(width/2, height/2)
	d.Radius = math.Min(width, height) / 2 * kRadiusRatio
	d.InnerRadius = d.Radius * d.InnerRatio
	d.HoverRadius = d.Radius * kHoverRatio
	d.FontSize = math.Max(kMinFontSize, d.Radius/8)

	d.Arcs = []Arc{}
	total := d.Total()
	angle := 0.0
	for _,s := range d.Segments {
		sweep := 0.0
		if total > 0 { sweep = s.Value / total * 2 * math.Pi }
		a := Arc{Segment:s, StartAngle:angle, EndAngle:angle+sweep}

		mid := (a.StartAngle + a.EndAngle) / 2
		r := (d.InnerRadius + d.Radius) / 2
		a.Centroid = geo.NewPoint(d.Center.X() + math.Sin(mid)*r, d.Center.Y() - math.Cos(mid)*r)
		if s.Value > 0 {
			a.PercentLabel = fmt.Sprintf("%.0f%%", 100.0 * s.Value / total)
		}

		d.Arcs = append(d.Arcs, a)
		angle += sweep
	}
}

// }}}
// {{{ d.HitTest, d.Tooltip, d.Highlight

// OuterRadius is the radius segment i is currently drawn at.
func (d *Doughnut)OuterRadius(i int) float64 {
	if i == d.highlighted { return d.HoverRadius }
	return d.Radius
}

func (d *Doughnut)Highlighted() int { return d.highlighted }
func (d *Doughnut)Highlight(i int)  { d.highlighted = i }

func (d *Doughnut)HitTest(x, y float64) (int, bool) {
	p := geo.NewPoint(x, y)
	dist := d.Center.DistanceFrom(p)
	if dist < d.InnerRadius { return -1, false }

	angle := math.Atan2(x - d.Center.X(), d.Center.Y() - y)
	if angle < 0 { angle += 2 * math.Pi }

	for i,a := range d.Arcs {
		if a.EndAngle <= a.StartAngle { continue }
		if angle >= a.StartAngle && angle < a.EndAngle && dist <= d.OuterRadius(i) {
			return i, true
		}
	}
	return -1, false
}

func (d *Doughnut)Tooltip(i int) Tooltip {
	if i < 0 || i >= len(d.Arcs) { return Tooltip{} }
	a := d.Arcs[i]
	return Tooltip{
		Label: a.Label,
		Value: fmt.Sprintf(d.ValueFormat, a.Value),
		Definition: a.Definition,
	}
}

// }}}

// SegmentsFor is a convenience for callers holding a plain category distribution.
func SegmentsFor(counts []charts.CategoryCount) []Segment {
	segs := []Segment{}
	for _,cc := range counts {
		segs = append(segs, Segment{cc.Category.String(), float64(cc.Count), cc.Category.Definition(),
			cc.Category.Color()})
	}
	return segs
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
