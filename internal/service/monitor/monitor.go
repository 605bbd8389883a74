package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
	"github.com/oshokin/freezer-monitor/internal/metrics"
	"github.com/oshokin/freezer-monitor/internal/sensor"
)

// SampleInterval is the fixed delay between two samples of the contact.
const SampleInterval = 100 * time.Millisecond

// Handler processes one transition. It may block for a long time.
type Handler interface {
	Handle(ctx context.Context, status freezer.Status)
}

// LevelObserver is told about every level the monitor settles on.
type LevelObserver interface {
	ObserveLevel(level freezer.Level)
}

// Monitor samples the contact and hands each transition to a handler running
// in its own goroutine, so a slow handler never delays sampling.
// Handlers are not ordered against each other: a CLEAR handler may finish
// before the ALERT handler that preceded it.
type Monitor struct {
	reader    sensor.Reader
	handler   Handler
	observers []LevelObserver
	log       *zap.SugaredLogger
	metrics   *metrics.Metrics

	// interval is the sampling period.
	interval time.Duration
	// tasks tracks running handlers.
	tasks sync.WaitGroup
}

// New creates a monitor reading from reader and dispatching to handler.
func New(
	reader sensor.Reader,
	handler Handler,
	log *zap.SugaredLogger,
	m *metrics.Metrics,
	observers ...LevelObserver,
) *Monitor {
	if log == nil {
		log = logger.Nop()
	}

	return &Monitor{
		reader:    reader,
		handler:   handler,
		observers: observers,
		log:       log.Named("monitor"),
		metrics:   m,
		interval:  SampleInterval,
	}
}

// Run samples until ctx is canceled, then waits for running handlers to
// notice the cancellation and return. Only a failed initial read is an error.
func (m *Monitor) Run(ctx context.Context) error {
	previous, err := m.reader.ReadLevel()
	if err != nil {
		return fmt.Errorf("read initial level: %w", err)
	}

	m.log.Infow("Monitoring started", "level", previous.String(), "interval", m.interval.String())
	m.observe(previous)

	// A HIGH level at startup predates the process, e.g. after a power outage.
	if previous == freezer.High {
		m.log.Infow("Level is high at startup, handling event")
		m.dispatch(ctx, previous)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("Context canceled, waiting for running handlers")
			m.tasks.Wait()
			m.log.Info("Monitoring stopped")

			return nil
		case <-ticker.C:
			current, err := m.reader.ReadLevel()
			if err != nil {
				m.log.Warnw("Failed to read level", "error", err)

				continue
			}

			if current == previous {
				continue
			}

			m.log.Infow("Level changed, handling event", "from", previous.String(), "to", current.String())
			m.observe(current)
			m.dispatch(ctx, current)

			previous = current
		}
	}
}

// dispatch starts a handler for the transition to level without waiting for it.
func (m *Monitor) dispatch(ctx context.Context, level freezer.Level) {
	status := level.Status()
	m.metrics.Transition(status)

	m.tasks.Add(1)

	go func() {
		defer m.tasks.Done()

		m.handler.Handle(ctx, status)
	}()
}

// observe forwards level to every observer.
func (m *Monitor) observe(level freezer.Level) {
	for _, o := range m.observers {
		o.ObserveLevel(level)
	}
}
