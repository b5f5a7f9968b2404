package flightdash

import(
	"fmt"
	"strings"
)

// PredictionInput is what the user submits from the prediction form. Once it has been sent to
// the prediction service it is never modified.
type PredictionInput struct {
	Carrier            string `json:"carrier"`
	Airport            string `json:"airport"`
	Month              int    `json:"month"`

	WeatherDelayCount  int    `json:"weather_delay_count"`
	CarrierDelayCount  int    `json:"carrier_delay_count"`
	LateAircraftCount  int    `json:"late_aircraft_count"`
	CancelledFlights   int    `json:"cancelled_flights"`
}

// InputError describes the first field of a PredictionInput that failed validation.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError)Error() string { return fmt.Sprintf("%s: %s", e.Field, e.Reason) }

func (in PredictionInput)String() string {
	return fmt.Sprintf("%s@%s m%02d [wx:%d carr:%d late:%d canc:%d]", in.Carrier, in.Airport,
		in.Month, in.WeatherDelayCount, in.CarrierDelayCount, in.LateAircraftCount, in.CancelledFlights)
}

// Normalized returns a copy with the carrier and airport codes trimmed and upper-cased, which
// is how the prediction service expects them.
func (in PredictionInput)Normalized() PredictionInput {
	out := in
	out.Carrier = strings.ToUpper(strings.TrimSpace(in.Carrier))
	out.Airport = strings.ToUpper(strings.TrimSpace(in.Airport))
	return out
}

// Validate checks the input locally; a nil return means it is fit to send to the service.
func (in PredictionInput)Validate() error {
	n := in.Normalized()
	if n.Carrier == "" { return &InputError{"carrier", "must not be empty"} }
	if n.Airport == "" { return &InputError{"airport", "must not be empty"} }
	if in.Month < 1 || in.Month > 12 {
		return &InputError{"month", fmt.Sprintf("must be 1-12, was %d", in.Month)}
	}

	counts := []struct{ name string; v int }{
		{"weather_delay_count", in.WeatherDelayCount},
		{"carrier_delay_count", in.CarrierDelayCount},
		{"late_aircraft_count", in.LateAircraftCount},
		{"cancelled_flights",   in.CancelledFlights},
	}
	for _,c := range counts {
		if c.v < 0 { return &InputError{c.name, fmt.Sprintf("must be >= 0, was %d", c.v)} }
	}

	return nil
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
