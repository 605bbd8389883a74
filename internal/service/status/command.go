package status

import (
	"context"
	"errors"
	"fmt"
	"io"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/oshokin/freezer-monitor/internal/api/grpc/health"
	"github.com/oshokin/freezer-monitor/internal/config"
	"github.com/oshokin/freezer-monitor/internal/service/common"
)

// Options configures a status query.
type Options struct {
	// ConfigPath to YAML settings file; empty means compiled defaults.
	ConfigPath string
	// Address overrides status_addr from the settings file.
	Address string
	// Out receives the report.
	Out io.Writer
}

// errNoStatusAddress is returned when neither the settings nor the caller name an endpoint.
var errNoStatusAddress = errors.New("no status address configured")

// Run queries a running monitor and prints its process and freezer status.
func Run(ctx context.Context, opts *Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	// Use address from options if provided, otherwise use config.
	address := cfg.StatusAddress
	if opts.Address != "" {
		address = opts.Address
	}

	if address == "" {
		return errNoStatusAddress
	}

	client, err := common.Dial(ctx, address, common.WithCallTimeout(cfg.Timeout))
	if err != nil {
		return err
	}

	// Close connection on function exit.
	defer func() {
		_ = client.Close()
	}()

	process, err := client.Status(ctx, "")
	if err != nil {
		return err
	}

	freezerStatus, err := client.Status(ctx, health.FreezerService)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(opts.Out, "monitor: %s\nfreezer: %s\n", describeProcess(process), describeFreezer(freezerStatus))

	return err
}

// describeProcess renders the overall serving status.
func describeProcess(s healthpb.HealthCheckResponse_ServingStatus) string {
	if s == healthpb.HealthCheckResponse_SERVING {
		return "running"
	}

	return "stopping"
}

// describeFreezer renders the contact level behind a serving status.
func describeFreezer(s healthpb.HealthCheckResponse_ServingStatus) string {
	switch s {
	case healthpb.HealthCheckResponse_SERVING:
		return "ok (contact closed)"
	case healthpb.HealthCheckResponse_NOT_SERVING:
		return "ALERT (contact open)"
	default:
		return "unknown"
	}
}
