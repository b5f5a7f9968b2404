package predict

import(
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/prototext"
)

// GRPCHealth probes a prediction service deployment that exposes the standard gRPC health
// service (e.g. behind a sidecar).
type GRPCHealth struct {
	Conn    *grpc.ClientConn
	Service string // blank means the server as a whole
}

func NewGRPCHealth(target, service string, opts ...grpc.DialOption) (*GRPCHealth, error) {
	if len(opts) == 0 {
		opts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	conn,err := grpc.NewClient(target, opts...)
	if err != nil { return nil, fmt.Errorf("NewGRPCHealth(%s): %v", target, err) }
	return &GRPCHealth{Conn:conn, Service:service}, nil
}

func (g *GRPCHealth)Check(ctx context.Context) (Status, error) {
	resp,err := healthpb.NewHealthClient(g.Conn).Check(ctx, &healthpb.HealthCheckRequest{Service:g.Service})
	if err != nil {
		return Status{}, &APIError{Op:"grpc.health.v1.Health/Check", Err:err}
	}

	s := Status{Detail: prototext.Format(resp)}
	if resp.GetStatus() == healthpb.HealthCheckResponse_SERVING {
		s.Status = "ok"
	} else {
		s.Status = resp.GetStatus().String()
	}
	return s, nil
}

func (g *GRPCHealth)Close() error { return g.Conn.Close() }
