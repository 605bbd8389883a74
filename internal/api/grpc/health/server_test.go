package health

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/service/common"
)

// TestServer_ObserveLevel maps levels onto serving statuses.
func TestServer_ObserveLevel(t *testing.T) {
	t.Parallel()

	s := NewServer()
	ctx := context.Background()

	resp, err := s.Check(ctx, "")
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	resp, err = s.Check(ctx, FreezerService)
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_UNKNOWN, resp.GetStatus())

	s.ObserveLevel(freezer.High)

	resp, err = s.Check(ctx, FreezerService)
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	s.ObserveLevel(freezer.Low)

	resp, err = s.Check(ctx, FreezerService)
	require.NoError(t, err)
	require.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

// TestServer_Serve answers a real client and stops on cancel.
func TestServer_Serve(t *testing.T) {
	t.Parallel()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	addr := l.Addr().String()
	_ = l.Close()

	s := NewServer()
	s.ObserveLevel(freezer.High)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Serve(ctx, addr)
	}()

	client, err := common.Dial(ctx, addr, common.WithCallTimeout(time.Second))
	require.NoError(t, err)

	defer func() {
		_ = client.Close()
	}()

	require.Eventually(t, func() bool {
		status, err := client.Status(context.Background(), FreezerService)

		return err == nil && status == healthpb.HealthCheckResponse_NOT_SERVING
	}, 3*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
