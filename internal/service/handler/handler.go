package handler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/oshokin/freezer-monitor/internal/config"
	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
	"github.com/oshokin/freezer-monitor/internal/metrics"
	"github.com/oshokin/freezer-monitor/internal/repository/directory"
	"github.com/oshokin/freezer-monitor/internal/service/common"
	"github.com/oshokin/freezer-monitor/internal/transport/mail"
)

// DefaultRetryDelay is the wait between a directory failure notice and the
// next attempt to handle the same event.
const DefaultRetryDelay = 15 * time.Minute

// Notifier delivers one notification; it returns once delivered or abandoned.
type Notifier interface {
	Send(ctx context.Context, intent freezer.Intent, entry *freezer.Entry)
}

// DeviceKeyFunc resolves the identifying key of this host.
type DeviceKeyFunc func(ctx context.Context) (string, error)

// Options carries the collaborators of a Handler.
type Options struct {
	// Directory is read on every event.
	Directory directory.Repository
	// Notifier delivers notifications to matching entries.
	Notifier Notifier
	// Transport sends directory failure notices directly.
	Transport mail.Transport
	// DeviceKey resolves this host's key.
	DeviceKey DeviceKeyFunc
	// Fallback is the operational contact used when the directory is broken.
	Fallback config.Fallback
	// Logger receives handler records.
	Logger *zap.SugaredLogger
	// Metrics counts directory failures; may be nil.
	Metrics *metrics.Metrics
}

// Handler turns a status into notifications. A single Handler may serve any
// number of concurrent events; it shares no mutable state between them.
type Handler struct {
	directory directory.Repository
	notifier  Notifier
	transport mail.Transport
	deviceKey DeviceKeyFunc
	fallback  config.Fallback
	log       *zap.SugaredLogger
	metrics   *metrics.Metrics

	// retryDelay separates attempts after a directory failure.
	retryDelay time.Duration
	// now is the wall clock.
	now func() time.Time
}

// New creates a handler from opts.
func New(opts *Options) *Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Handler{
		directory:  opts.Directory,
		notifier:   opts.Notifier,
		transport:  opts.Transport,
		deviceKey:  opts.DeviceKey,
		fallback:   opts.Fallback,
		log:        log.Named("handler"),
		metrics:    opts.Metrics,
		retryDelay: DefaultRetryDelay,
		now:        time.Now,
	}
}

// Handle processes one transition to status. It blocks until every matching
// recipient has been notified, the event is dropped, or ctx is canceled.
// While the directory cannot be loaded it keeps retrying with a fixed delay.
func (h *Handler) Handle(ctx context.Context, status freezer.Status) {
	for attempt := 1; ; attempt++ {
		if h.handleOnce(ctx, status) {
			return
		}

		h.log.Infow("Retrying event after directory failure",
			"status", status.String(),
			"attempt", attempt,
			"retry_in", h.retryDelay.String(),
		)

		if !common.Sleep(ctx, h.retryDelay) {
			h.log.Warnw("Shutting down, abandoning event", "status", status.String(), "attempt", attempt)

			return
		}
	}
}

// handleOnce runs the pipeline a single time. It returns false only when the
// directory could not be loaded and the event must be handled again.
func (h *Handler) handleOnce(ctx context.Context, status freezer.Status) bool {
	intent := freezer.Intent{
		Status:    status,
		Timestamp: h.now(),
	}

	log := h.log.With("status", status.String(), "event_time", intent.FormattedTime())
	log.Info("Freezer event detected")

	key, err := h.deviceKey(ctx)
	if err != nil {
		log.Errorw("Cannot determine device key, dropping event", "error", err)

		return true
	}

	intent.DeviceKey = key
	log = log.With("device_key", key)
	log.Debug("Detected device key")

	entries, err := h.directory.Load(ctx)
	if err != nil {
		h.metrics.DirectoryFailure()
		h.reportDirectoryFailure(ctx, log, intent, err)

		return false
	}

	log.Debugw("Loaded directory", "entries", len(entries))

	matches := directory.Match(entries, key)
	if len(matches) == 0 {
		log.Debug("No matching entry")

		return true
	}

	// Entries are notified in parallel so that one stuck retry chain does not
	// hold back the others.
	var wg sync.WaitGroup

	for _, match := range matches {
		entry := match.Clone()

		wg.Add(1)

		go func() {
			defer wg.Done()

			h.notifier.Send(ctx, intent, entry)
		}()
	}

	wg.Wait()

	return true
}
