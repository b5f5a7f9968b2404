package ui

import(
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/skypies/util/widget"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
	"github.com/skypies/flightdash/session"
)

// {{{ FormValuePredictionInput

// Accepts either a JSON body, or regular form fields named as per the JSON.
func FormValuePredictionInput(r *http.Request) (fdash.PredictionInput, error) {
	in := fdash.PredictionInput{}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			return in, fmt.Errorf("bad JSON body: %v", err)
		}
		return in, nil
	}

	in.Carrier = r.FormValue("carrier")
	in.Airport = r.FormValue("airport")
	in.Month = int(widget.FormValueInt64(r, "month"))
	in.WeatherDelayCount = int(widget.FormValueInt64(r, "weather_delay_count"))
	in.CarrierDelayCount = int(widget.FormValueInt64(r, "carrier_delay_count"))
	in.LateAircraftCount = int(widget.FormValueInt64(r, "late_aircraft_count"))
	in.CancelledFlights = int(widget.FormValueInt64(r, "cancelled_flights"))
	return in, nil
}

// }}}

// {{{ stateResponse

type stateResponse struct {
	View           string                 `json:"view"`
	History        fdash.History          `json:"history"`
	LatestResult  *fdash.PredictionRecord `json:"latest_result"`
	RestoreOffered bool                   `json:"restore_offered"`
	RestoreBanner  string                 `json:"restore_banner,omitempty"`
	Summary        charts.Summary         `json:"summary"`
}

func newStateResponse(s *session.Store) stateResponse {
	st := s.State()
	offered,banner := s.RestoreBanner()
	h := st.History
	if h == nil { h = fdash.History{} }
	return stateResponse{
		View: st.View.String(),
		History: h,
		LatestResult: st.LatestResult,
		RestoreOffered: offered,
		RestoreBanner: banner,
		Summary: charts.Summarize(h),
	}
}

// }}}

// {{{ PredictHandler

// POST /api/predict   (JSON body, or carrier=AA&airport=SFO&month=4&...)
func PredictHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	in,err := FormValuePredictionInput(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	rec,err := d.Store.Submit(ctx, in)
	var ve *session.ValidationError
	var ne *session.NetworkError
	if errors.As(err, &ve) {
		writeError(w, http.StatusBadRequest, ve.Error(), ve.Field)
		return
	} else if errors.As(err, &ne) {
		writeError(w, http.StatusBadGateway, ne.Message, "")
		return
	} else if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// }}}
// {{{ NavigateHandler, RestoreHandler

// POST /api/navigate?view=home
func NavigateHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	v,err := session.ParseView(r.FormValue("view"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "view")
		return
	}
	d.Store.Navigate(v)
	writeJSON(w, http.StatusOK, newStateResponse(d.Store))
}

// POST /api/restore
func RestoreHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	if !d.Store.Restore(ctx) {
		writeError(w, http.StatusConflict, "nothing to restore", "")
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(d.Store))
}

// }}}
// {{{ StateHandler, HealthHandler

func StateHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newStateResponse(d.Store))
}

func HealthHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	status,err := d.Store.HealthCheck(ctx)
	if err != nil {
		d.Errorf("HealthCheck: %v", err)
		writeError(w, http.StatusBadGateway, err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// }}}
// {{{ ChartsHandler

type chartsResponse struct {
	Trend        []charts.TrendPoint    `json:"trend"`
	Risk           charts.RiskCounts    `json:"risk"`
	RiskTitle      string               `json:"risk_title"`
	Categories   []charts.CategoryCount `json:"categories"`
	Severity     []charts.CategoryShare `json:"severity"`
	Comparisons  []charts.RadarVector   `json:"comparisons"`
	Tooltips     [][]string             `json:"tooltips"`
}

// All the derived series for the live history, in one go.
func ChartsHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	h := d.Store.History()
	resp := chartsResponse{
		Trend: charts.TrendSeries(h),
		Risk: charts.RiskDistribution(h),
		RiskTitle: charts.RiskDistribution(h).Title(),
		Categories: charts.CategoryDistribution(h),
		Severity: charts.SeverityShares(h),
		Comparisons: []charts.RadarVector{},
		Tooltips: [][]string{},
	}
	if latest := h.Latest(); latest != nil {
		resp.Comparisons = charts.ComparisonVectors(*latest)
	}
	for i := range h {
		resp.Tooltips = append(resp.Tooltips, charts.TooltipLines(h, i, charts.BarSeries))
	}
	writeJSON(w, http.StatusOK, resp)
}

// }}}
// {{{ SessionEndHandler

type sessionEndResponse struct {
	Published int    `json:"published"`
	Error     string `json:"error,omitempty"`
}

// POST /api/session/end; saves what the next session should be offered, and publishes the live
// history. Publishing failures are reported, but do not undo the save.
func SessionEndHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	d.Store.OnSessionEnd(ctx)

	resp := sessionEndResponse{}
	n,err := d.Publisher.Publish(ctx, d.SessionId, d.Store.History())
	if err != nil {
		d.Errorf("SessionEnd: %v", err)
		resp.Error = err.Error()
	}
	resp.Published = n
	writeJSON(w, http.StatusOK, resp)
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
