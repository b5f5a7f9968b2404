package charts

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fdash "github.com/skypies/flightdash"
)

func rec(carrier string, mins float64, high bool) fdash.PredictionRecord {
	return fdash.PredictionRecord{
		Input: fdash.PredictionInput{Carrier:carrier, Airport:"JFK", Month:6, WeatherDelayCount:3},
		TotalDelayMinutes: mins,
		HighWeatherRisk: high,
		DelayCategory: fdash.CategorizeDelay(mins),
	}
}

func TestEmptyHistory(t *testing.T) {
	assert.Empty(t, TrendSeries(nil))
	assert.Equal(t, RiskCounts{}, RiskDistribution(nil))
	assert.Equal(t, 0, RiskDistribution(fdash.History{}).Total())

	hi,lo := RiskDistribution(nil).Percentages()
	assert.Zero(t, hi)
	assert.Zero(t, lo)

	cats := CategoryDistribution(nil)
	require.Len(t, cats, 3)
	for _,c := range cats { assert.Zero(t, c.Count) }

	assert.False(t, Summarize(nil).Valid)
}

func TestTrendSeries(t *testing.T) {
	h := fdash.History{rec("AA", 12, true), rec("UA", 45, false), rec("DL", 0, false)}
	pts := TrendSeries(h)

	require.Len(t, pts, len(h))
	for i,p := range pts {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, h[i].TotalDelayMinutes, p.TotalDelayMinutes)
	}
	assert.Equal(t, "Prediction 2", pts[1].Label)
	assert.Equal(t, []float64{12, 45, 0}, TrendValues(pts))
}

func TestRiskDistribution(t *testing.T) {
	tests := []struct{
		H    fdash.History
		High int
		Low  int
	}{
		{fdash.History{rec("AA", 5, true)}, 1, 0},
		{fdash.History{rec("AA", 5, false)}, 0, 1},
		{fdash.History{rec("AA", 5, true), rec("UA", 1, false), rec("DL", 2, true)}, 2, 1},
	}
	for _,test := range tests {
		rc := RiskDistribution(test.H)
		assert.Equal(t, test.High, rc.High)
		assert.Equal(t, test.Low, rc.Low)
		assert.Equal(t, len(test.H), rc.Total())
	}

	rc := RiskDistribution(tests[2].H)
	hi,lo := rc.Percentages()
	assert.InDelta(t, 66.67, hi, 0.01)
	assert.InDelta(t, 33.33, lo, 0.01)
	assert.Equal(t, "Distribution of Weather Risk Predictions (n = 3)", rc.Title())
}

func TestCategoryDistribution(t *testing.T) {
	h := fdash.History{rec("AA", 0, false), rec("UA", 12, false), rec("DL", 90, true), rec("WN", 31, true)}
	cats := CategoryDistribution(h)
	require.Len(t, cats, 3)
	assert.Equal(t, CategoryCount{fdash.NoDelay, 1}, cats[0])
	assert.Equal(t, CategoryCount{fdash.Minor, 1}, cats[1])
	assert.Equal(t, CategoryCount{fdash.Major, 2}, cats[2])
}

func TestSeverityShares(t *testing.T) {
	for _,cs := range SeverityShares(nil) { assert.Zero(t, cs.Percent) }

	h := fdash.History{rec("AA", 0, false), rec("UA", 12, false), rec("DL", 90, true), rec("WN", 31, true)}
	shares := SeverityShares(h)
	require.Len(t, shares, 3)
	assert.Equal(t, 25.0, shares[0].Percent)
	assert.Equal(t, 50.0, shares[2].Percent)
	assert.False(t, shares[0].Probability)

	last := rec("B6", 10, false)
	last.Probabilities = map[string]float64{"No Delay":0.2, "Minor":0.7, "Major":0.1}
	h = append(h, last)
	shares = SeverityShares(h)
	assert.InDelta(t, 20.0, shares[0].Percent, 1e-9)
	assert.InDelta(t, 70.0, shares[1].Percent, 1e-9)
	assert.InDelta(t, 10.0, shares[2].Percent, 1e-9)
	assert.True(t, shares[0].Probability)
}

func TestComparisonVector(t *testing.T) {
	base := rec("AA", 10, false)
	base.RiskScore = 0.08
	base.FlightVolume = 1200
	alt := fdash.Alternative{Carrier:"DL", RiskScore:0.03, FlightVolume:900}

	rv := ComparisonVector(base, alt)
	assert.Equal(t, "AA", rv.BaselineName)
	assert.Equal(t, "DL", rv.AlternativeName)

	assert.InDelta(t, 8.0, rv.Risk.Baseline, 1e-9)
	assert.InDelta(t, 3.0, rv.Risk.Alternative, 1e-9)
	assert.Equal(t, 10.0, rv.Risk.FullMark)

	assert.InDelta(t, 92.0, rv.Reliability.Baseline, 1e-9)
	assert.InDelta(t, 97.0, rv.Reliability.Alternative, 1e-9)
	assert.Equal(t, 100.0, rv.Reliability.FullMark)

	assert.InDelta(t, 12.0, rv.Volume.Baseline, 1e-9)
	assert.InDelta(t, 9.0, rv.Volume.Alternative, 1e-9)
	assert.Equal(t, 150.0, rv.Volume.FullMark)

	assert.Len(t, rv.Axes(), 3)
}

func TestComparisonVectors(t *testing.T) {
	base := rec("AA", 10, false)
	assert.Empty(t, ComparisonVectors(base))

	base.Alternatives = []fdash.Alternative{{Carrier: "DL", RiskScore: 0.1, FlightVolume: 10}, {Carrier: "UA", RiskScore: 0.2, FlightVolume: 20}}
	vecs := ComparisonVectors(base)
	require.Len(t, vecs, 2)
	assert.Equal(t, "UA", vecs[1].AlternativeName)

	alt,ok := FindAlternative(base, "UA")
	assert.True(t, ok)
	assert.Equal(t, 20, alt.FlightVolume)
	_,ok = FindAlternative(base, "ZZ")
	assert.False(t, ok)
}

func TestTooltipLines(t *testing.T) {
	h := fdash.History{rec("AA", 12.5, true)}

	lines := TooltipLines(h, 0, BarSeries)
	require.Len(t, lines, 8)
	assert.Equal(t, "Total delay: 12.5 minutes", lines[0])
	assert.Equal(t, "Carrier: AA", lines[1])
	assert.Equal(t, "Month: 6", lines[3])
	assert.Equal(t, "Weather delays: 3 flights", lines[4])

	assert.Equal(t, "Trend value: 12.5 minutes", TooltipLines(h, 0, LineSeries)[0])
	assert.Nil(t, TooltipLines(h, 1, BarSeries))
	assert.Nil(t, TooltipLines(h, -1, BarSeries))

	blank := fdash.History{{}}
	lines = TooltipLines(blank, 0, BarSeries)
	assert.Equal(t, "Carrier: n/a", lines[1])
	assert.Equal(t, "Month: n/a", lines[3])
}

func TestSummarize(t *testing.T) {
	h := fdash.History{rec("AA", 10, false), rec("UA", 20, false), rec("DL", 30, false)}
	s := Summarize(h)
	require.True(t, s.Valid)
	assert.Equal(t, 3, s.N)
	assert.Equal(t, 10.0, s.Min)
	assert.Equal(t, 30.0, s.Max)
	assert.InDelta(t, 20.0, s.Mean, 5.0)
}
