// Package viz lays out the dashboard charts, tracks what the pointer is hovering over, and renders
// them to SVG/PNG. It only ever reads the derived series it is given.
package viz

import(
	"fmt"
	"time"
)

const(
	// Tooltips sit just to the right of, and above, the pointer.
	TooltipOffsetX = 15.0
	TooltipOffsetY = -28.0

	// How long the highlight takes to grow or shrink back.
	HoverTransition = 200 * time.Millisecond
)

// Chart is anything with hit-testable elements. Element indices are chart-specific.
type Chart interface {
	Resize(width, height float64)
	HitTest(x, y float64) (int, bool)
	Tooltip(i int) Tooltip
	Highlight(i int) // -1 for none
}

type Tooltip struct {
	Label      string   `json:"label"`
	Value      string   `json:"value"`
	Definition string   `json:"definition,omitempty"`
	Lines    []string   `json:"lines,omitempty"`
	X,Y        float64  `json:"-"`
}

func (t Tooltip)String() string {
	return fmt.Sprintf("%s: %s (%.0f,%.0f)", t.Label, t.Value, t.X, t.Y)
}

type Hover struct {
	Active     bool
	Index      int
	Tooltip    Tooltip
	Transition time.Duration // for animating into this state
}

// Interactive is the hover state machine for a single chart on a single screen.
type Interactive struct {
	Chart Chart
	Hover Hover
}

func NewInteractive(c Chart) *Interactive {
	c.Highlight(-1)
	return &Interactive{Chart:c, Hover:Hover{Index:-1}}
}

// HoverAt is a pointer entering (or touching) the chart. It returns true if something is now
// highlighted.
func (iv *Interactive)HoverAt(x, y float64) bool {
	i,ok := iv.Chart.HitTest(x, y)
	if !ok {
		iv.HoverEnd()
		return false
	}
	if !iv.Hover.Active || iv.Hover.Index != i {
		iv.Chart.Highlight(i)
		iv.Hover = Hover{Active:true, Index:i, Tooltip:iv.Chart.Tooltip(i), Transition:HoverTransition}
	}
	iv.place(x, y)
	return true
}

// MoveTo follows the pointer; moving off every element ends the hover, moving onto a different
// one switches to it.
func (iv *Interactive)MoveTo(x, y float64) bool {
	return iv.HoverAt(x, y)
}

// HoverEnd reverts the highlight and hides the tooltip.
func (iv *Interactive)HoverEnd() {
	if iv.Hover.Active { iv.Chart.Highlight(-1) }
	iv.Hover = Hover{Index:-1, Transition:HoverTransition}
}

// Resize recomputes geometry; what is hovered is unchanged.
func (iv *Interactive)Resize(width, height float64) {
	iv.Chart.Resize(width, height)
	if iv.Hover.Active { iv.Chart.Highlight(iv.Hover.Index) }
}

func (iv *Interactive)place(x, y float64) {
	iv.Hover.Tooltip.X = x + TooltipOffsetX
	iv.Hover.Tooltip.Y = y + TooltipOffsetY
}
