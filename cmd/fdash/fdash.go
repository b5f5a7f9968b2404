package main

import(
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/skypies/util/date"

	fdash "github.com/skypies/flightdash"
	"github.com/skypies/flightdash/charts"
	"github.com/skypies/flightdash/config"
	"github.com/skypies/flightdash/fpdf"
	"github.com/skypies/flightdash/ui"
	"github.com/skypies/flightdash/viz"
)

var(
	ctx = context.Background()
	fVerbosity int
	fConfigFile string
	fHealth bool
	fRestore bool
	fInput fdash.PredictionInput
	fPdfFile string
	fSvgFile string
	fCsvFile string
	fAlt string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "verbosity level")
	flag.StringVar(&fConfigFile, "config", "", "JSON file of config key/values")
	flag.BoolVar(&fHealth, "health", false, "check the prediction service's health")
	flag.BoolVar(&fRestore, "restore", false, "carry on from the history saved by the previous run")
	flag.StringVar(&fInput.Carrier, "carrier", "", "carrier code, e.g. AA")
	flag.StringVar(&fInput.Airport, "airport", "", "airport code, e.g. SFO")
	flag.IntVar(&fInput.Month, "month", int(time.Now().Month()), "month, 1-12")
	flag.IntVar(&fInput.WeatherDelayCount, "wx", 0, "weather delay count")
	flag.IntVar(&fInput.CarrierDelayCount, "carrierdelays", 0, "carrier delay count")
	flag.IntVar(&fInput.LateAircraftCount, "late", 0, "late aircraft count")
	flag.IntVar(&fInput.CancelledFlights, "cancelled", 0, "cancelled flights")
	flag.StringVar(&fPdfFile, "pdf", "", "write a PDF report of the history to this file")
	flag.StringVar(&fSvgFile, "svg", "", "write the trend chart as SVG to this file")
	flag.StringVar(&fCsvFile, "csv", "", "write the history as CSV to this file")
	flag.StringVar(&fAlt, "alt", "", "alternative carrier for the comparison radar")
	flag.Parse()
}

func writeFile(filename string, f func(*os.File) error) {
	if filename == "" { return }
	file,err := os.Create(filename)
	if err != nil { log.Fatal(err) }
	defer file.Close()
	if err := f(file); err != nil {
		log.Printf("%s: %v", filename, err)
		return
	}
	fmt.Printf("wrote %s\n", filename)
}

func main() {
	if fConfigFile != "" {
		if err := config.Load(fConfigFile); err != nil { log.Fatal(err) }
	}

	logger := log.New(os.Stderr, "[fdash] ", log.LstdFlags)
	if fVerbosity == 0 { logger.SetOutput(io.Discard) }

	s,err := ui.NewStoreFromConfig(ctx, logger)
	if err != nil { log.Fatal(err) }

	if s.OnSessionStart(ctx) {
		_,banner := s.RestoreBanner()
		if fRestore {
			s.Restore(ctx)
			fmt.Printf("Restored %d predictions (%s)\n", len(s.History()), banner)
		} else {
			fmt.Printf("A previous history is available; use -restore to continue it (%s)\n", banner)
		}
	}

	if fHealth {
		if status,err := s.HealthCheck(ctx); err != nil {
			fmt.Printf("health: %v\n", err)
		} else {
			fmt.Printf("health: %s\n", status)
		}
	}

	if fInput.Carrier != "" {
		rec,err := s.Submit(ctx, fInput)
		if err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Printf("%s\n", rec.Message)
		h := s.History()
		for _,line := range charts.TooltipLines(h, len(h)-1, charts.BarSeries) {
			fmt.Printf("  %s\n", line)
		}
		for _,rv := range charts.ComparisonVectors(rec) {
			fmt.Printf("  vs %-4s", rv.AlternativeName)
			for _,ax := range rv.Axes() {
				fmt.Printf("  %s: %.1f/%.1f", ax.Subject, ax.Baseline, ax.Alternative)
			}
			fmt.Printf("\n")
		}
	}

	h := s.History()
	fmt.Printf("%d predictions at %s: %s\n", len(h), date.InPdt(time.Now()).Format("15:04 MST"),
		charts.Summarize(h))
	if fVerbosity > 0 {
		fmt.Printf("%s\n", charts.RiskDistribution(h).Title())
		for _,cs := range charts.SeverityShares(h) {
			fmt.Printf("  %-8s %5.1f%%\n", cs.Category, cs.Percent)
		}
	}

	writeFile(fPdfFile, func(f *os.File) error { return fpdf.WriteReport(f, h, fAlt, time.Now()) })
	writeFile(fSvgFile, func(f *os.File) error {
		return viz.RenderTrend(f, charts.TrendSeries(h), 800, 400, viz.SVG)
	})
	writeFile(fCsvFile, func(f *os.File) error { return ui.WriteHistoryCSV(f, h) })

	// The next run gets offered whatever we have now
	s.OnSessionEnd(ctx)
	if c,ok := s.Persistence.(io.Closer); ok {
		if err := c.Close(); err != nil { log.Printf("close: %v", err) }
	}
}

// {{{ -------------------------={ E N D }=----------------------------------

// Local variables:
// folded-file: t
// end:

// }}}
