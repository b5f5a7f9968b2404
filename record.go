package flightdash

import(
	"encoding/json"
	"fmt"
)

// {{{ DelayCategory

type DelayCategory int
const(
	NoDelay DelayCategory = iota
	Minor
	Major
)

var ErrUnknownCategory = fmt.Errorf("unknown delay category")

// DelayCategories lists the categories in display order.
var DelayCategories = []DelayCategory{NoDelay, Minor, Major}

func (dc DelayCategory)String() string {
	switch dc {
	case NoDelay: return "No Delay"
	case Minor:   return "Minor"
	case Major:   return "Major"
	}
	return fmt.Sprintf("DelayCategory(%d)", int(dc))
}

// Definition is the one-line explanation shown when hovering over a category.
func (dc DelayCategory)Definition() string {
	switch dc {
	case NoDelay: return "On time (0 min delay)."
	case Minor:   return "Small delay (1-30 min)."
	case Major:   return "Significant delay (> 30 min)."
	}
	return ""
}

// Color is the hex colour used for the category in every chart.
func (dc DelayCategory)Color() string {
	switch dc {
	case NoDelay: return "#4CAF50"
	case Minor:   return "#FFC107"
	case Major:   return "#F44336"
	}
	return "#999999"
}

func ParseDelayCategory(s string) (DelayCategory, error) {
	switch s {
	case "No Delay", "NoDelay", "no_delay": return NoDelay, nil
	case "Minor", "minor":                  return Minor, nil
	case "Major", "major":                  return Major, nil
	}
	return NoDelay, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// CategorizeDelay buckets a total delay in minutes the same way the severity model does.
func CategorizeDelay(minutes float64) DelayCategory {
	if minutes <= 0 {
		return NoDelay
	} else if minutes <= 30 {
		return Minor
	}
	return Major
}

func (dc DelayCategory)MarshalJSON() ([]byte, error) { return json.Marshal(dc.String()) }

func (dc *DelayCategory)UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil { return err }
	c,err := ParseDelayCategory(s)
	if err != nil { return err }
	*dc = c
	return nil
}

// }}}
// {{{ PredictionRecord

// Alternative is another carrier flying the same route, as reported by the seasonal model.
type Alternative struct {
	Carrier      string  `json:"carrier"`
	RiskScore    float64 `json:"risk_score"`
	FlightVolume int     `json:"flight_volume"`
}

// PredictionRecord is one successful answer from the prediction service, paired with the input
// that produced it.
type PredictionRecord struct {
	Input              PredictionInput `json:"input"`
	TotalDelayMinutes  float64         `json:"total_delay_minutes"`
	HighWeatherRisk    bool            `json:"high_weather_risk"`
	DelayCategory      DelayCategory   `json:"delay_category"`

	// These fields only defined if the service variant reports them
	Message            string          `json:"message,omitempty"`
	RiskScore          float64         `json:"risk_score,omitempty"`    // historical weather-delay proportion, [0,1]
	FlightVolume       int             `json:"flight_volume,omitempty"`
	Alternatives     []Alternative     `json:"alternatives,omitempty"`
	Probabilities      map[string]float64 `json:"probabilities,omitempty"` // by category name, [0,1]
}

func (r PredictionRecord)String() string {
	risk := "low"
	if r.HighWeatherRisk { risk = "HIGH" }
	return fmt.Sprintf("%s: %.1f min, %s, %s risk", r.Input, r.TotalDelayMinutes, r.DelayCategory, risk)
}

// Clone returns a deep copy, so that callers can't reach back into a history.
func (r PredictionRecord)Clone() PredictionRecord {
	out := r
	if r.Alternatives != nil {
		out.Alternatives = append([]Alternative{}, r.Alternatives...)
	}
	if r.Probabilities != nil {
		out.Probabilities = map[string]float64{}
		for k,v := range r.Probabilities { out.Probabilities[k] = v }
	}
	return out
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
