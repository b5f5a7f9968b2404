// Package charts derives chart-ready series from a prediction history. Everything here is a
// pure function of its input; nothing is cached, so recomputing on every render is always correct.
package charts

import(
	"fmt"

	fdash "github.com/skypies/flightdash"
)

// {{{ TrendSeries

type TrendPoint struct {
	Index              int     `json:"index"`  // 1-based
	Label              string  `json:"label"`
	TotalDelayMinutes  float64 `json:"total_delay_minutes"`
}

// TrendSeries has one point per record, in history order. The bar and the trend line are both
// drawn from it.
func TrendSeries(h fdash.History) []TrendPoint {
	pts := make([]TrendPoint, 0, len(h))
	for i,r := range h {
		pts = append(pts, TrendPoint{
			Index: i+1,
			Label: fmt.Sprintf("Prediction %d", i+1),
			TotalDelayMinutes: r.TotalDelayMinutes,
		})
	}
	return pts
}

// TrendValues is just the y values of the series.
func TrendValues(pts []TrendPoint) []float64 {
	vals := make([]float64, len(pts))
	for i,p := range pts { vals[i] = p.TotalDelayMinutes }
	return vals
}

// }}}
// {{{ RiskDistribution

type RiskCounts struct {
	High int `json:"high"`
	Low  int `json:"low"`
}

func RiskDistribution(h fdash.History) RiskCounts {
	rc := RiskCounts{}
	for _,r := range h {
		if r.HighWeatherRisk {
			rc.High++
		} else {
			rc.Low++
		}
	}
	return rc
}

func (rc RiskCounts)Total() int { return rc.High + rc.Low }

// Percentages returns (high,low) as percentages; both zero for an empty history.
func (rc RiskCounts)Percentages() (float64, float64) {
	if rc.Total() == 0 { return 0, 0 }
	n := float64(rc.Total())
	return 100.0 * float64(rc.High) / n, 100.0 * float64(rc.Low) / n
}

func (rc RiskCounts)Title() string {
	return fmt.Sprintf("Distribution of Weather Risk Predictions (n = %d)", rc.Total())
}

// }}}
// {{{ CategoryDistribution

type CategoryCount struct {
	Category fdash.DelayCategory `json:"category"`
	Count    int                 `json:"count"`
}

// CategoryDistribution counts records per delay category, always listing all three categories in
// display order (zero counts included).
func CategoryDistribution(h fdash.History) []CategoryCount {
	counts := map[fdash.DelayCategory]int{}
	for _,r := range h {
		counts[r.DelayCategory]++
	}
	out := []CategoryCount{}
	for _,dc := range fdash.DelayCategories {
		out = append(out, CategoryCount{dc, counts[dc]})
	}
	return out
}

type CategoryShare struct {
	Category    fdash.DelayCategory `json:"category"`
	Percent     float64             `json:"percent"`
	Probability bool                `json:"probability"` // from the model, rather than counted from the history
}

// SeverityShares feeds the delay-severity doughnut. If the latest record carries the model's
// class probabilities, those are used; otherwise it is the share of the history in each category.
func SeverityShares(h fdash.History) []CategoryShare {
	out := []CategoryShare{}
	if latest := h.Latest(); latest != nil && len(latest.Probabilities) > 0 {
		for _,dc := range fdash.DelayCategories {
			out = append(out, CategoryShare{dc, 100.0 * latest.Probabilities[dc.String()], true})
		}
		return out
	}

	for _,cc := range CategoryDistribution(h) {
		pct := 0.0
		if len(h) > 0 { pct = 100.0 * float64(cc.Count) / float64(len(h)) }
		out = append(out, CategoryShare{cc.Category, pct, false})
	}
	return out
}

// }}}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
