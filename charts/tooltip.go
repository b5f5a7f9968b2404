package charts

import(
	"fmt"
	"strconv"

	fdash "github.com/skypies/flightdash"
)

type SeriesKind int
const(
	BarSeries SeriesKind = iota
	LineSeries
)

func orNA(s string) string {
	if s == "" { return "n/a" }
	return s
}

func fmtMinutes(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// TooltipLines returns the text shown when hovering over point i of the trend chart. An out of
// range index yields nil.
func TooltipLines(h fdash.History, i int, kind SeriesKind) []string {
	if i < 0 || i >= len(h) { return nil }
	r := h[i]
	in := r.Input

	lines := []string{}
	if kind == BarSeries {
		lines = append(lines, fmt.Sprintf("Total delay: %s minutes", fmtMinutes(r.TotalDelayMinutes)))
	} else {
		lines = append(lines, fmt.Sprintf("Trend value: %s minutes", fmtMinutes(r.TotalDelayMinutes)))
	}

	month := "n/a"
	if in.Month != 0 { month = fmt.Sprintf("%d", in.Month) }

	lines = append(lines,
		fmt.Sprintf("Carrier: %s", orNA(in.Carrier)),
		fmt.Sprintf("Airport: %s", orNA(in.Airport)),
		fmt.Sprintf("Month: %s", month),
		fmt.Sprintf("Weather delays: %d flights", in.WeatherDelayCount),
		fmt.Sprintf("Carrier delays: %d flights", in.CarrierDelayCount),
		fmt.Sprintf("Late aircraft: %d flights", in.LateAircraftCount),
		fmt.Sprintf("Cancelled flights: %d flights", in.CancelledFlights),
	)
	return lines
}
