package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
)

// FreezerService is the health service name that tracks the contact level:
// SERVING while LOW, NOT_SERVING while HIGH.
const FreezerService = "freezer"

// Server exposes the monitor state through the standard gRPC health protocol.
type Server struct {
	// health holds the serving status per service name.
	health *grpchealth.Server
}

// NewServer creates a server reporting the process as serving and the freezer
// status as unknown until the first level is observed.
func NewServer() *Server {
	h := grpchealth.NewServer()
	h.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.SetServingStatus(FreezerService, healthpb.HealthCheckResponse_UNKNOWN)

	return &Server{
		health: h,
	}
}

// ObserveLevel records the latest sampled level.
func (s *Server) ObserveLevel(level freezer.Level) {
	status := healthpb.HealthCheckResponse_SERVING
	if level == freezer.High {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	s.health.SetServingStatus(FreezerService, status)
}

// Check answers a health request in-process.
func (s *Server) Check(ctx context.Context, service string) (*healthpb.HealthCheckResponse, error) {
	return s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
}

// Serve listens on address and blocks until ctx is canceled or serving fails.
func (s *Server) Serve(ctx context.Context, address string) error {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, s.health)

	logger.InfoKV(ctx, "Status endpoint listening", "listen_address", lis.Addr().String())

	// Done channel is closed after GracefulStop finishes to ensure we block
	// until the server fully stops before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		s.health.Shutdown()
		grpcServer.GracefulStop()
		close(done)
	}()

	if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	<-done
	logger.Info(ctx, "Status endpoint stopped")

	return nil
}
