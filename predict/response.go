package predict

import(
	"fmt"

	fdash "github.com/skypies/flightdash"
)

// wireResponse is the union of the response shapes the prediction service has had. The basic
// model reports minutes, risk and category; the seasonal model reports a risk class, a
// historical proportion and alternative carriers; the severity model reports just a category.
type wireResponse struct {
	Message               string             `json:"message"`
	HighWeatherRisk      *bool               `json:"high_weather_risk"`
	TotalDelayMinutes    *float64            `json:"total_delay_minutes"`
	DelayCategory         string             `json:"delay_category"`

	RiskClass            *int                `json:"risk_class"`
	RiskLevel             string             `json:"risk_level"`
	HistoricalWeatherProp *float64           `json:"historical_weather_prop"`
	Competitors         []fdash.Alternative  `json:"competitors"`
	TrendData           []trendDatum         `json:"trend_data"`

	Prediction            string             `json:"prediction"`
	Probabilities         map[string]float64 `json:"probabilities"`
}

type trendDatum struct {
	Month        int     `json:"month"`
	RiskScore    float64 `json:"risk_score"`
	FlightVolume int     `json:"flight_volume"`
}

func (wr wireResponse)recognized() bool {
	return wr.HighWeatherRisk != nil || wr.TotalDelayMinutes != nil || wr.DelayCategory != "" ||
		wr.RiskClass != nil || wr.HistoricalWeatherProp != nil || wr.Prediction != ""
}

func (wr wireResponse)toRecord(in fdash.PredictionInput) (fdash.PredictionRecord, error) {
	if !wr.recognized() {
		return fdash.PredictionRecord{}, ErrBadResponse
	}

	r := fdash.PredictionRecord{Input:in, Message:wr.Message}

	if wr.TotalDelayMinutes != nil {
		r.TotalDelayMinutes = *wr.TotalDelayMinutes
	}

	if wr.HighWeatherRisk != nil {
		r.HighWeatherRisk = *wr.HighWeatherRisk
	} else if wr.RiskClass != nil {
		r.HighWeatherRisk = (*wr.RiskClass == 1)
	}

	catStr := wr.DelayCategory
	if catStr == "" { catStr = wr.Prediction }
	if catStr != "" {
		dc,err := fdash.ParseDelayCategory(catStr)
		if err != nil { return fdash.PredictionRecord{}, fmt.Errorf("%w: %v", ErrBadResponse, err) }
		r.DelayCategory = dc
	} else {
		r.DelayCategory = fdash.CategorizeDelay(r.TotalDelayMinutes)
	}

	if wr.HistoricalWeatherProp != nil {
		r.RiskScore = *wr.HistoricalWeatherProp
	}
	for _,td := range wr.TrendData {
		if td.Month == in.Month { r.FlightVolume = td.FlightVolume }
	}
	if len(wr.Probabilities) > 0 {
		r.Probabilities = map[string]float64{}
		for k,v := range wr.Probabilities {
			dc,err := fdash.ParseDelayCategory(k)
			if err != nil { return fdash.PredictionRecord{}, fmt.Errorf("%w: %v", ErrBadResponse, err) }
			r.Probabilities[dc.String()] = v
		}
	}
	if len(wr.Competitors) > 0 {
		r.Alternatives = append([]fdash.Alternative{}, wr.Competitors...)
	}

	return r, nil
}
