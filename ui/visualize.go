package ui

import(
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/skypies/util/widget"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
	"github.com/skypies/flightdash/fpdf"
	"github.com/skypies/flightdash/viz"
)

const(
	kDefaultWidth  = 600
	kDefaultHeight = 400
)

// ?w=600&h=400
func formValueSize(r *http.Request) (int, int) {
	w := int(widget.FormValueIntWithDefault(r, "w", kDefaultWidth))
	h := int(widget.FormValueIntWithDefault(r, "h", kDefaultHeight))
	if w <= 0 { w = kDefaultWidth }
	if h <= 0 { h = kDefaultHeight }
	return w, h
}

// The format comes from the path extension, e.g. /charts/trend.png
func formatFromPath(r *http.Request) viz.Format {
	f,err := viz.ParseFormat(strings.TrimPrefix(path.Ext(r.URL.Path), "."))
	if err != nil { return viz.SVG }
	return f
}

type renderFunc func(buf *bytes.Buffer, h fdash.History, w, ht int, f viz.Format) error

func renderImage(d *Dashboard, w http.ResponseWriter, r *http.Request, rf renderFunc) {
	f := formatFromPath(r)
	width,height := formValueSize(r)

	buf := bytes.Buffer{}
	if err := rf(&buf, d.Store.History(), width, height, f); errors.Is(err, viz.ErrNoData) {
		http.Error(w, "no predictions yet", http.StatusNotFound)
		return
	} else if err != nil {
		d.Errorf("render %s: %v", r.URL.Path, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", f.ContentType())
	w.Write(buf.Bytes())
}

// {{{ TrendImageHandler, RiskImageHandler, CategoryImageHandler

func TrendImageHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	renderImage(d, w, r, func(buf *bytes.Buffer, h fdash.History, wd, ht int, f viz.Format) error {
		return viz.RenderTrend(buf, charts.TrendSeries(h), wd, ht, f)
	})
}

func RiskImageHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	renderImage(d, w, r, func(buf *bytes.Buffer, h fdash.History, wd, ht int, f viz.Format) error {
		return viz.RenderRiskPie(buf, charts.RiskDistribution(h), wd, ht, f)
	})
}

func CategoryImageHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	renderImage(d, w, r, func(buf *bytes.Buffer, h fdash.History, wd, ht int, f viz.Format) error {
		return viz.RenderSeverityDonut(buf, charts.SeverityShares(h), wd, ht, f)
	})
}

// }}}
// {{{ HoverHandler

type hoverResponse struct {
	Active   bool         `json:"active"`
	Index    int          `json:"index"`
	Tooltip *viz.Tooltip  `json:"tooltip,omitempty"`
	X        float64      `json:"x,omitempty"` // where to place the tooltip
	Y        float64      `json:"y,omitempty"`
	TransitionMs int64    `json:"transition_ms"`
}

// NewChart lays out the named chart for the given history, at the given size.
//  trend     bars+line of total delay
//  risk      high/low weather risk pie
//  severity  delay-severity doughnut (model probabilities, if present)
//  category  doughnut of prediction counts per category
//  radar     latest prediction vs. alternative carrier alt (default: its first alternative)
func NewChart(name string, h fdash.History, alt string, w, ht float64) (viz.Chart, error) {
	switch name {
	case "trend":
		return viz.NewTrendChart(h, w, ht), nil
	case "risk":
		return viz.NewRiskPie(charts.RiskDistribution(h), w, ht), nil
	case "severity":
		return viz.NewSeverityDoughnut(charts.SeverityShares(h), w, ht), nil
	case "category":
		d := viz.NewDoughnut(viz.SegmentsFor(charts.CategoryDistribution(h)), w, ht)
		d.ValueFormat = "%.0f predictions"
		return d, nil
	case "radar":
		latest := h.Latest()
		if latest == nil || len(latest.Alternatives) == 0 { return nil, viz.ErrNoData }
		a := latest.Alternatives[0]
		if alt != "" {
			found,ok := charts.FindAlternative(*latest, strings.ToUpper(alt))
			if !ok { return nil, fmt.Errorf("no alternative carrier %q", alt) }
			a = found
		}
		return viz.NewRadarChart(charts.ComparisonVector(*latest, a), w, ht), nil
	}
	return nil, fmt.Errorf("unknown chart %q", name)
}

// GET /charts/hover?chart=severity&x=120&y=80&w=400&h=400[&alt=DL]
func HoverHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	width,height := formValueSize(r)
	ch,err := NewChart(r.FormValue("chart"), d.Store.History(), r.FormValue("alt"),
		float64(width), float64(height))
	if errors.Is(err, viz.ErrNoData) {
		writeError(w, http.StatusNotFound, err.Error(), "chart")
		return
	} else if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "chart")
		return
	}

	iv := viz.NewInteractive(ch)
	x,y := widget.FormValueFloat64EatErrs(r, "x"), widget.FormValueFloat64EatErrs(r, "y")
	resp := hoverResponse{Index:-1}
	if iv.HoverAt(x, y) {
		tt := iv.Hover.Tooltip
		resp = hoverResponse{Active:true, Index:iv.Hover.Index, Tooltip:&tt, X:tt.X, Y:tt.Y}
	}
	resp.TransitionMs = iv.Hover.Transition.Milliseconds()
	writeJSON(w, http.StatusOK, resp)
}

// }}}
// {{{ ReportPDFHandler

// GET /charts/report.pdf[?alt=DL]
func ReportPDFHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	buf := bytes.Buffer{}
	err := fpdf.WriteReport(&buf, d.Store.History(), strings.ToUpper(r.FormValue("alt")), d.Store.Now())
	if errors.Is(err, viz.ErrNoData) {
		http.Error(w, "no predictions yet", http.StatusNotFound)
		return
	} else if err != nil {
		d.Errorf("report: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=\"flightdash-report.pdf\"")
	w.Write(buf.Bytes())
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
