package flightdash

import (
	"fmt"
	"sort"
	"time"

	"github.com/skypies/util/date"
)

// PredictionForBigQuery is a represenation of a PredictionRecord that is slightly denormalized,
// with the session and position attached. It is designed for import into BigQuery, for analysis.
type PredictionForBigQuery struct {
	SessionId       string // ID of the dashboard session that made the prediction
	Seq             int    // 1-based position in the session's history

	PublishedAt     time.Time
	DatePST         string // Same format as BQ's DATE() function

	Carrier         string
	Airport         string
	Month           int
	WeatherDelays   int
	CarrierDelays   int
	LateAircraft    int
	Cancelled       int

	TotalDelayMinutes float64
	HighWeatherRisk   bool
	DelayCategory     string

	// These fields only defined if the service variant reported them
	RiskScore       float64
	FlightVolume    int
	Alternative   []AlternativeForBigQuery // Not 'Alternatives', so that the SQL reads more naturally
}

type AlternativeForBigQuery struct {
	Carrier      string
	RiskScore    float64
	FlightVolume int
}

func (pbq PredictionForBigQuery)String() string {
	return fmt.Sprintf("%s#%02d %s %s@%s m%02d %.1fmin %s", pbq.SessionId, pbq.Seq, pbq.DatePST,
		pbq.Carrier, pbq.Airport, pbq.Month, pbq.TotalDelayMinutes, pbq.DelayCategory)
}

func (r PredictionRecord)ForBigQuery(sessionId string, seq int, t time.Time) *PredictionForBigQuery {
	pbq := PredictionForBigQuery{
		SessionId: sessionId,
		Seq: seq,
		PublishedAt: t,
		DatePST: date.InPdt(t).Format("2006-01-02"),

		Carrier: r.Input.Carrier,
		Airport: r.Input.Airport,
		Month: r.Input.Month,
		WeatherDelays: r.Input.WeatherDelayCount,
		CarrierDelays: r.Input.CarrierDelayCount,
		LateAircraft: r.Input.LateAircraftCount,
		Cancelled: r.Input.CancelledFlights,

		TotalDelayMinutes: r.TotalDelayMinutes,
		HighWeatherRisk: r.HighWeatherRisk,
		DelayCategory: r.DelayCategory.String(),

		RiskScore: r.RiskScore,
		FlightVolume: r.FlightVolume,
		Alternative: []AlternativeForBigQuery{},
	}

	alts := append([]Alternative{}, r.Alternatives...)
	sort.Slice(alts, func(i,j int) bool { return alts[i].Carrier < alts[j].Carrier })
	for _,a := range alts {
		pbq.Alternative = append(pbq.Alternative, AlternativeForBigQuery{a.Carrier, a.RiskScore, a.FlightVolume})
	}

	return &pbq
}

// ForBigQuery flattens a whole history into rows, in order.
func (h History)ForBigQuery(sessionId string, t time.Time) []*PredictionForBigQuery {
	rows := []*PredictionForBigQuery{}
	for i,r := range h {
		rows = append(rows, r.ForBigQuery(sessionId, i+1, t))
	}
	return rows
}
