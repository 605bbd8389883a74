package monitor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/oshokin/freezer-monitor/internal/api/grpc/health"
	"github.com/oshokin/freezer-monitor/internal/config"
	"github.com/oshokin/freezer-monitor/internal/logger"
	"github.com/oshokin/freezer-monitor/internal/metrics"
	"github.com/oshokin/freezer-monitor/internal/repository/directory"
	"github.com/oshokin/freezer-monitor/internal/sensor"
	"github.com/oshokin/freezer-monitor/internal/service/common"
	"github.com/oshokin/freezer-monitor/internal/service/handler"
	"github.com/oshokin/freezer-monitor/internal/service/notifier"
	"github.com/oshokin/freezer-monitor/internal/transport/mail"
)

// errUnknownLogLevel is returned for log levels zap does not know.
var errUnknownLogLevel = errors.New("unknown log level")

// Options controls the freezer-monitor process.
type Options struct {
	// ConfigPath specifies the settings YAML file; empty means compiled defaults.
	ConfigPath string
	// Reader replaces the GPIO reader when set.
	Reader sensor.Reader
	// Transport replaces the SMTP transport when set.
	Transport mail.Transport
	// DeviceKey replaces interface based key detection when set.
	DeviceKey handler.DeviceKeyFunc
	// AllowMultipleInstances skips the single-instance guard.
	AllowMultipleInstances bool
}

// Run wires the pipeline together and blocks until ctx is canceled.
//
//nolint:funlen // Wiring reads best top to bottom.
func Run(ctx context.Context, opts *Options) error {
	// Load configuration first to get logging and transport settings.
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownLogLevel, cfg.LogLevel)
	}

	ctx = logger.WithName(logger.ToContext(ctx, logger.New(level)), "freezer-monitor")
	log := logger.FromContext(ctx)

	defer func() {
		_ = log.Sync()
	}()

	if !opts.AllowMultipleInstances {
		if err = common.EnsureSingleInstance(); err != nil {
			return err
		}
	}

	reader := opts.Reader
	if reader == nil {
		gpioReader, err := sensor.OpenGPIO(sensor.DefaultPin)
		if err != nil {
			return fmt.Errorf("open sensor: %w", err)
		}

		logger.InfoKV(ctx, "Sensor ready", "pin", gpioReader.Name())

		reader = gpioReader
	}

	transport := opts.Transport
	if transport == nil {
		smtpTransport, err := mail.NewSMTPTransport(cfg.SMTPHost, cfg.SMTPPort, cfg.Timeout)
		if err != nil {
			return fmt.Errorf("create mail transport: %w", err)
		}

		transport = smtpTransport
	}

	deviceKey := opts.DeviceKey
	if deviceKey == nil {
		deviceKey = func(ctx context.Context) (string, error) {
			return common.DetectDeviceKey(ctx, cfg.Interface)
		}
	}

	m := metrics.New()
	repo := directory.NewSourceRepository(cfg.DirectorySource, cfg.Timeout)

	eventHandler := handler.New(&handler.Options{
		Directory: repo,
		Notifier:  notifier.New(transport, log, m),
		Transport: transport,
		DeviceKey: deviceKey,
		Fallback:  cfg.Fallback,
		Logger:    log,
		Metrics:   m,
	})

	var observers []LevelObserver

	// Side endpoints only log their failures: they must never stop the
	// sampling loop. A monitor error cancels groupCtx and takes them down.
	group, groupCtx := errgroup.WithContext(ctx)

	if cfg.StatusAddress != "" {
		status := health.NewServer()
		observers = append(observers, status)

		statusCtx := logger.WithKV(groupCtx, "endpoint", "status")

		group.Go(func() error {
			if err := status.Serve(statusCtx, cfg.StatusAddress); err != nil {
				logger.ErrorKV(statusCtx, "Status endpoint failed", "error", err)
			}

			return nil
		})
	}

	if cfg.MetricsAddress != "" {
		metricsCtx := logger.WithKV(groupCtx, "endpoint", "metrics")

		group.Go(func() error {
			if err := m.Serve(metricsCtx, cfg.MetricsAddress); err != nil {
				logger.ErrorKV(metricsCtx, "Metrics endpoint failed", "error", err)
			}

			return nil
		})
	}

	logger.InfoKV(ctx, "Starting freezer monitor",
		"directory_source", repo.Source(),
		"smtp_host", cfg.SMTPHost,
		"interface", cfg.Interface,
		"fallback_recipients", cfg.Fallback.Recipients,
	)

	mon := New(reader, eventHandler, log, m, observers...)

	group.Go(func() error {
		return mon.Run(groupCtx)
	})

	return group.Wait()
}
