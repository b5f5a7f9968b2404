package main

import(
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	hw "github.com/skypies/util/handlerware"

	"github.com/skypies/flightdash/config"
	"github.com/skypies/flightdash/ui"
)

var(
	fConfigFile string
	dash *ui.Dashboard
	logger = log.New(os.Stderr, "[flightdash] ", log.LstdFlags)
)

func init() {
	flag.StringVar(&fConfigFile, "config", "", "JSON file of config key/values")
	flag.Parse()

	if fConfigFile != "" {
		if err := config.Load(fConfigFile); err != nil {
			log.Fatal(err)
		}
	}

	d,err := ui.NewDashboard(context.Background(), logger)
	if err != nil {
		log.Fatalf("NewDashboard: %v", err)
	}
	dash = d

	hw.RequireTls = false

	// This is the routine that creates new contexts for the handlers.
	hw.CtxMakerCallback = func(r *http.Request) context.Context {
		ctx,_ := context.WithTimeout(r.Context(), 55 * time.Second)
		return ctx
	}

	ui.Register(http.DefaultServeMux, dash)
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = config.Get("http.port")
	}
	if port == "" {
		port = "8080"
	}

	if dash.Store.OnSessionStart(context.Background()) {
		_,banner := dash.Store.RestoreBanner()
		logger.Printf("previous session available to restore: %s", banner)
	}

	srv := &http.Server{Addr: fmt.Sprintf(":%s", port)}

	// On the way down, save the session (so the next run can offer it) and publish it.
	done := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer close(done)
		<-sigs
		ctx,cancel := context.WithTimeout(context.Background(), 30 * time.Second)
		defer cancel()

		srv.Shutdown(ctx)
		dash.Store.OnSessionEnd(ctx)
		if n,err := dash.Publisher.Publish(ctx, dash.SessionId, dash.Store.History()); err != nil {
			logger.Printf("publish: %v", err)
		} else if n > 0 {
			logger.Printf("published %d predictions", n)
		}
		if err := dash.Close(); err != nil {
			logger.Printf("close: %v", err)
		}
	}()

	log.Printf("Listening on port %s [flightdash/dashboard]", port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal(err)
	}
	<-done
}
