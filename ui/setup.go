package ui

import(
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/skypies/flightdash/backend"
	"github.com/skypies/flightdash/config"
	"github.com/skypies/flightdash/persist"
	"github.com/skypies/flightdash/predict"
	"github.com/skypies/flightdash/session"
)

// NewClientFromConfig builds the prediction client, with the gRPC health probe if one is
// configured (predict.grpc_health=host:port; predict.grpc_tls=true to dial with TLS).
func NewClientFromConfig() (*predict.Client, error) {
	timeout := config.GetDuration("predict.timeout")
	if timeout <= 0 { timeout = 30 * time.Second }
	c := predict.NewClient(config.Get("predict.url"), &http.Client{Timeout: timeout})

	if target := config.Get("predict.grpc_health"); target != "" {
		opts := []grpc.DialOption{}
		if config.GetBool("predict.grpc_tls") {
			opts = append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))
		}
		probe,err := predict.NewGRPCHealth(target, config.Get("predict.grpc_service"), opts...)
		if err != nil { return nil, err }
		c.HealthProbe = probe
	}
	return c, nil
}

// NewStoreFromConfig wires a session store to the configured client and durable store.
func NewStoreFromConfig(ctx context.Context, logger *log.Logger) (*session.Store, error) {
	client,err := NewClientFromConfig()
	if err != nil { return nil, err }

	kv,err := persist.Open(ctx, persist.Options{
		Backend: config.Get("persist.backend"),
		Dir: config.Get("persist.dir"),
		Memcache: config.Get("persist.memcache"),
		Project: config.Get("persist.project"),
		Bucket: config.Get("persist.bucket"),
		Prefix: config.Get("persist.prefix"),
		Credentials: config.Get("persist.credentials"),
	})
	if err != nil { return nil, err }
	adapter := persist.NewAdapter(kv)
	adapter.Logger = logger

	stale,err := session.ParseStalePolicy(config.Get("session.stale"))
	if err != nil { return nil, fmt.Errorf("session.stale: %v", err) }

	s := session.NewStore(client, adapter)
	s.Logger = logger
	s.Stale = stale
	return s, nil
}

// NewPublisherFromConfig returns nil (publish nothing) unless bigquery.project is set.
func NewPublisherFromConfig(ctx context.Context, logger *log.Logger) (*backend.Publisher, error) {
	opt := backend.Options{
		Project: config.Get("bigquery.project"),
		Dataset: config.Get("bigquery.dataset"),
		Table: config.Get("bigquery.table"),
		Bucket: config.Get("bigquery.bucket"),
		Credentials: config.Get("bigquery.credentials"),
	}
	if opt.Project == "" { return nil, nil }

	sink,err := backend.NewSink(ctx, opt)
	if err != nil { return nil, err }
	p := backend.NewPublisher(sink)
	p.Logger = logger
	logger.Printf("publishing sessions to %s", opt)
	return p, nil
}

// NewDashboard builds everything from config.
func NewDashboard(ctx context.Context, logger *log.Logger) (*Dashboard, error) {
	store,err := NewStoreFromConfig(ctx, logger)
	if err != nil { return nil, err }
	pub,err := NewPublisherFromConfig(ctx, logger)
	if err != nil { return nil, err }

	host,_ := os.Hostname()
	return &Dashboard{
		Store: store,
		Publisher: pub,
		SessionId: fmt.Sprintf("%s-%s", host, time.Now().UTC().Format("20060102-150405")),
		Logger: logger,
	}, nil
}
