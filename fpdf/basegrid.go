package fpdf

import (
	"fmt"
	"github.com/jung-kurt/gofpdf"
)

// Describes a grid we're going to plot over, and the location of its top-left corner in PDF space
type BaseGrid struct {
	*gofpdf.Fpdf        // Embed the thing we're writing to

	// Describe the portion of PDF page space the grid will be drawn over (labels go outside of this)
	OffsetU     float64 // where the top-left corner should be, in PDF coords
	OffsetV     float64
	W,H         float64 // width and height of the grid, in PDF units (should be mm)

	// Control how (x,y) vals are mapped into (u,v) vals; origin is bottom-left
	MinX,MinY,MaxX,MaxY float64 // the range of values that should be scaled onto the grid.

	// How to draw gridlines
	XGridlineEvery, YGridlineEvery float64 // From Min[XY] to Max[XY]
	XTickFmt,       YTickFmt       string  // Will be passed a float64 via fmt.Sprintf; blank==none
	XTickSkipMin                   bool    // No tick at MinX (e.g. bars are centred on integers)

	LineColor []int // rgb, each [0,255] - axis labels
}

// {{{ bg.U, V, UV

func (bg BaseGrid)U(x float64) float64 {
	xRatio := (x - bg.MinX) / (bg.MaxX - bg.MinX)
	return bg.OffsetU + (xRatio * bg.W)
}

func (bg BaseGrid)V(y float64) float64 {
	yRatio := (y - bg.MinY) / (bg.MaxY - bg.MinY)
	return bg.OffsetV + (bg.H - (yRatio * bg.H)) // In PDF, the Y scale goes down the page
}

func (bg BaseGrid)UV(x,y float64) (float64, float64) { return bg.U(x), bg.V(y) }

// }}}
// {{{ bg.MoveTo, LineTo, Rect

// We submit coords in gridspace (e.g. x,y), and the grid transforms them into PDFspace.
func (bg BaseGrid)MoveTo(x,y float64) {
	u,v := bg.UV(x,y)
	bg.Fpdf.MoveTo(u,v)
}

func (bg BaseGrid)LineTo(x,y float64) {
	u,v := bg.UV(x,y)
	bg.Fpdf.LineTo(u,v)
}

// Rect fills the gridspace box from (x1,y1) to (x2,y2).
func (bg BaseGrid)Rect(x1,y1,x2,y2 float64, style string) {
	u1,v1 := bg.UV(x1,y2) // top-left in PDF space
	u2,v2 := bg.UV(x2,y1)
	bg.Fpdf.Rect(u1, v1, u2-u1, v2-v1, style)
}

// }}}
// {{{ bg.MaybeSetTextColor

func (bg BaseGrid)MaybeSetTextColor() {
	if len(bg.LineColor) == 3 {
		bg.SetTextColor(bg.LineColor[0], bg.LineColor[1], bg.LineColor[2])
	}
}

// }}}
// {{{ bg.DrawGridlines

func (bg BaseGrid)DrawGridlines() {
	bg.SetFont("Arial", "", 8)
	bg.SetLineWidth(0.03)
	bg.SetDrawColor(0xe0, 0xe0, 0xe0)

	if bg.XGridlineEvery > 0 {
		for x := bg.MinX; x <= bg.MaxX; x += bg.XGridlineEvery {
			if x == bg.MinX && bg.XTickSkipMin { continue }
			bg.MoveTo(x, bg.MinY)
			bg.LineTo(x, bg.MaxY)
			bg.DrawPath("D")

			if bg.XTickFmt != "" {
				u,v := bg.UV(x, bg.MinY)
				bg.Fpdf.MoveTo(u-4, v+1)
				bg.MaybeSetTextColor()
				bg.CellFormat(8, 4, fmt.Sprintf(bg.XTickFmt, x), "", 0, "C", false, 0, "")
			}
		}
	}

	if bg.YGridlineEvery > 0 {
		for y := bg.MinY; y <= bg.MaxY; y += bg.YGridlineEvery {
			bg.MoveTo(bg.MinX, y)
			bg.LineTo(bg.MaxX, y)
			bg.DrawPath("D")

			if bg.YTickFmt != "" {
				u,v := bg.UV(bg.MinX, y)
				bg.Fpdf.MoveTo(u-19, v-2)
				bg.MaybeSetTextColor()
				bg.CellFormat(18, 4, fmt.Sprintf(bg.YTickFmt, y), "", 0, "R", false, 0, "")
			}
		}
	}

	// The frame
	bg.SetDrawColor(0x00, 0x00, 0x00)
	bg.SetLineWidth(0.2)
	bg.MoveTo(bg.MinX, bg.MinY)
	bg.LineTo(bg.MaxX, bg.MinY)
	bg.MoveTo(bg.MinX, bg.MinY)
	bg.LineTo(bg.MinX, bg.MaxY)
	bg.DrawPath("D")
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
