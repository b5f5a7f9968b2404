package charts

import(
	fdash "github.com/skypies/flightdash"
)

const(
	RiskFullMark        = 10.0
	ReliabilityFullMark = 100.0
	VolumeFullMark      = 150.0
)

// Axis is one spoke of the comparison radar.
type Axis struct {
	Subject     string  `json:"subject"`
	Baseline    float64 `json:"baseline"`
	Alternative float64 `json:"alternative"`
	FullMark    float64 `json:"full_mark"`
}

// RadarVector compares the user's chosen carrier against one alternative on the same route.
type RadarVector struct {
	BaselineName    string `json:"baseline_name"`
	AlternativeName string `json:"alternative_name"`
	Risk            Axis   `json:"risk"`
	Reliability     Axis   `json:"reliability"`
	Volume          Axis   `json:"volume"`
}

func (rv RadarVector)Axes() []Axis { return []Axis{rv.Risk, rv.Reliability, rv.Volume} }

// ComparisonVector builds the three radar axes. Risk scores are proportions in [0,1]; they are
// presented as percentages, with reliability as the complement.
func ComparisonVector(baseline fdash.PredictionRecord, alt fdash.Alternative) RadarVector {
	bRisk, aRisk := baseline.RiskScore * 100.0, alt.RiskScore * 100.0
	return RadarVector{
		BaselineName: baseline.Input.Carrier,
		AlternativeName: alt.Carrier,
		Risk: Axis{"Risk Score (Lower is Better)", bRisk, aRisk, RiskFullMark},
		Reliability: Axis{"Reliability (Higher is Better)", 100.0-bRisk, 100.0-aRisk, ReliabilityFullMark},
		Volume: Axis{"Volume Factor",
			float64(baseline.FlightVolume) / 100.0, float64(alt.FlightVolume) / 100.0, VolumeFullMark},
	}
}

// ComparisonVectors compares the record against every alternative it carries.
func ComparisonVectors(baseline fdash.PredictionRecord) []RadarVector {
	out := []RadarVector{}
	for _,alt := range baseline.Alternatives {
		out = append(out, ComparisonVector(baseline, alt))
	}
	return out
}

// FindAlternative looks up an alternative by carrier code.
func FindAlternative(r fdash.PredictionRecord, carrier string) (fdash.Alternative, bool) {
	for _,alt := range r.Alternatives {
		if alt.Carrier == carrier { return alt, true }
	}
	return fdash.Alternative{}, false
}
