package ui

import(
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"

	fdash "github.com/skypies/flightdash"
)

var csvHeaders = []string{
	"seq", "carrier", "airport", "month",
	"weather_delay_count", "carrier_delay_count", "late_aircraft_count", "cancelled_flights",
	"total_delay_minutes", "high_weather_risk", "delay_category", "risk_score", "flight_volume",
	"alternatives",
}

func historyCSVRows(h fdash.History) [][]string {
	rows := [][]string{}
	for i,r := range h {
		alts := []string{}
		for _,a := range r.Alternatives {
			alts = append(alts, fmt.Sprintf("%s:%.3f:%d", a.Carrier, a.RiskScore, a.FlightVolume))
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1), r.Input.Carrier, r.Input.Airport, fmt.Sprintf("%d", r.Input.Month),
			fmt.Sprintf("%d", r.Input.WeatherDelayCount), fmt.Sprintf("%d", r.Input.CarrierDelayCount),
			fmt.Sprintf("%d", r.Input.LateAircraftCount), fmt.Sprintf("%d", r.Input.CancelledFlights),
			fmt.Sprintf("%g", r.TotalDelayMinutes), fmt.Sprintf("%v", r.HighWeatherRisk),
			r.DelayCategory.String(), fmt.Sprintf("%g", r.RiskScore), fmt.Sprintf("%d", r.FlightVolume),
			strings.Join(alts, " "),
		})
	}
	return rows
}

func WriteHistoryCSV(w io.Writer, h fdash.History) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Write(csvHeaders)
	for _,row := range historyCSVRows(h) {
		csvWriter.Write(row)
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// GET /api/history.csv
func HistoryCSVHandler(ctx context.Context, d *Dashboard, w http.ResponseWriter, r *http.Request) {
	filename := fmt.Sprintf("flightdash-%s.csv", d.Store.Now().Format("20060102-150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	if err := WriteHistoryCSV(w, d.Store.History()); err != nil {
		d.Errorf("csv: %v", err)
	}
}
