package charts

import(
	"fmt"
	"math"

	"github.com/skypies/util/histogram"

	fdash "github.com/skypies/flightdash"
)

// Summary holds descriptive stats for the delay minutes in a history. Valid is false if there
// was nothing to summarize.
type Summary struct {
	Valid        bool    `json:"valid"`
	N            int     `json:"n"`
	Min,Max      float64 `json:"-"`
	Mean         float64 `json:"mean"`
	Stddev       float64 `json:"stddev"`
	Percentile50 int     `json:"p50"`
	Percentile90 int     `json:"p90"`
}

func (s Summary)String() string {
	if !s.Valid { return "no predictions" }
	return fmt.Sprintf("n=%d, mean=%.1f, stddev=%.1f, 50%%ile=%d, 90%%ile=%d, range=[%.1f,%.1f]",
		s.N, s.Mean, s.Stddev, s.Percentile50, s.Percentile90, s.Min, s.Max)
}

// Delays beyond kMaxDelayMinutes land in the histogram's overflow bucket.
const kMaxDelayMinutes = 600

// Summarize buckets the (whole-minute) delays into five-minute histogram buckets, and reports its
// stats.
func Summarize(h fdash.History) Summary {
	if len(h) == 0 { return Summary{} }

	s := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	for _,r := range h {
		s.Min = math.Min(s.Min, r.TotalDelayMinutes)
		s.Max = math.Max(s.Max, r.TotalDelayMinutes)
	}

	hist := histogram.Histogram{ValMin:0, ValMax:kMaxDelayMinutes, NumBuckets:kMaxDelayMinutes/5}
	for _,r := range h {
		hist.Add(histogram.ScalarVal(int(math.Max(0, math.Round(r.TotalDelayMinutes)))))
	}

	if stats,valid := hist.Stats(); valid {
		s.Valid = true
		s.N = int(stats.N)
		s.Mean = float64(stats.Mean)
		s.Stddev = float64(stats.Stddev)
		s.Percentile50 = int(stats.Percentile50)
		s.Percentile90 = int(stats.Percentile90)
	}
	return s
}
