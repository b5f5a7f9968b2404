package ui

import(
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"

	hw "github.com/skypies/util/handlerware"

	"github.com/skypies/flightdash/backend"
	"github.com/skypies/flightdash/session"
)

// Dashboard is everything the handlers need: one session, plus somewhere to publish it when it
// ends.
type Dashboard struct {
	Store     *session.Store
	Publisher *backend.Publisher // may be nil
	SessionId  string
	Logger    *log.Logger
}

func (d *Dashboard)Errorf(format string, args ...interface{}) {
	if d.Logger != nil { d.Logger.Printf("[ui] "+format, args...) }
}

// Close releases the durable store's client. Call it after the session has ended.
func (d *Dashboard)Close() error {
	if c,ok := d.Store.Persistence.(io.Closer); ok { return c.Close() }
	return nil
}

// Rather than stash/retrieve the dashboard from the context, we'll just pass it directly to a new
// handler type, that we'll use throughout ui/.
type DashHandler func(context.Context, *Dashboard, http.ResponseWriter, *http.Request)

func WithDash(d *Dashboard, dh DashHandler) hw.ContextHandler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) {
		dh(ctx, d, w, r)
	}
}

// Some convenience combos. The context comes from hw.CtxMakerCallback, which the binary sets up.
func WithDashCtx(d *Dashboard, dh DashHandler) hw.BaseHandler {
	return hw.WithCtx(WithDash(d, dh))
}

// PostOnly rejects anything but a POST.
func PostOnly(bh hw.BaseHandler) hw.BaseHandler {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "POST only", http.StatusMethodNotAllowed)
			return
		}
		bh(w, r)
	}
}

// {{{ Register

func Register(mux *http.ServeMux, d *Dashboard) {
	// ui/api.go
	mux.HandleFunc("/api/predict",     PostOnly(WithDashCtx(d, PredictHandler)))
	mux.HandleFunc("/api/navigate",    PostOnly(WithDashCtx(d, NavigateHandler)))
	mux.HandleFunc("/api/restore",     PostOnly(WithDashCtx(d, RestoreHandler)))
	mux.HandleFunc("/api/session/end", PostOnly(WithDashCtx(d, SessionEndHandler)))
	mux.HandleFunc("/api/state",       WithDashCtx(d, StateHandler))
	mux.HandleFunc("/api/health",      WithDashCtx(d, HealthHandler))
	mux.HandleFunc("/api/charts",      WithDashCtx(d, ChartsHandler))

	// ui/csv.go
	mux.HandleFunc("/api/history.csv", WithDashCtx(d, HistoryCSVHandler))

	// ui/visualize.go
	mux.HandleFunc("/charts/trend.svg",    WithDashCtx(d, TrendImageHandler))
	mux.HandleFunc("/charts/trend.png",    WithDashCtx(d, TrendImageHandler))
	mux.HandleFunc("/charts/risk.svg",     WithDashCtx(d, RiskImageHandler))
	mux.HandleFunc("/charts/risk.png",     WithDashCtx(d, RiskImageHandler))
	mux.HandleFunc("/charts/category.svg", WithDashCtx(d, CategoryImageHandler))
	mux.HandleFunc("/charts/category.png", WithDashCtx(d, CategoryImageHandler))
	mux.HandleFunc("/charts/hover",        WithDashCtx(d, HoverHandler))
	mux.HandleFunc("/charts/report.pdf",   WithDashCtx(d, ReportPDFHandler))
}

// }}}
// {{{ writeJSON, writeError

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	jsonBytes,err := json.MarshalIndent(v, "", " ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(jsonBytes)
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, field string) {
	writeJSON(w, status, errorResponse{Error:msg, Field:field})
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
