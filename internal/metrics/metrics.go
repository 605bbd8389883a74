package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
)

const (
	namespace         = "freezer_monitor"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Metrics holds the monitor's counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	transitions       *prometheus.CounterVec
	deliveryAttempts  *prometheus.CounterVec
	directoryFailures prometheus.Counter
}

// New creates the counters on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Level transitions dispatched to an event handler.",
		}, []string{"status"}),
		deliveryAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delivery_attempts_total",
			Help:      "Notification delivery attempts by escalation tier and outcome.",
		}, []string{"tier", "outcome"}),
		directoryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directory_failures_total",
			Help:      "Directory loads that failed and triggered the operational fallback.",
		}),
	}

	m.registry.MustRegister(m.transitions, m.deliveryAttempts, m.directoryFailures)

	return m
}

// Transition counts a dispatched transition.
func (m *Metrics) Transition(status freezer.Status) {
	if m == nil {
		return
	}

	m.transitions.WithLabelValues(status.String()).Inc()
}

// Attempt counts a delivery attempt.
func (m *Metrics) Attempt(attempt freezer.Attempt) {
	if m == nil {
		return
	}

	m.deliveryAttempts.WithLabelValues(attempt.Tier.String(), attempt.Outcome()).Inc()
}

// DirectoryFailure counts a failed directory load.
func (m *Metrics) DirectoryFailure() {
	if m == nil {
		return
	}

	m.directoryFailures.Inc()
}

// Serve exposes /metrics on address until ctx is canceled.
func (m *Metrics) Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", address, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.InfoKV(ctx, "Metrics endpoint listening", "listen_address", lis.Addr().String())

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}

	return nil
}
