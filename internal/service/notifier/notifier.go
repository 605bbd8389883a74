package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
	"github.com/oshokin/freezer-monitor/internal/metrics"
	"github.com/oshokin/freezer-monitor/internal/service/common"
	"github.com/oshokin/freezer-monitor/internal/transport/mail"
)

// DefaultRetryDelay is the wait after both primary and backup delivery failed.
const DefaultRetryDelay = 5 * time.Minute

// Notifier delivers notifications along the PRIMARY, BACKUP, RETRY ladder.
// It holds no per-send state and is safe for concurrent use.
type Notifier struct {
	// transport submits composed messages.
	transport mail.Transport
	// log receives one record per tier transition.
	log *zap.SugaredLogger
	// metrics counts attempts; may be nil.
	metrics *metrics.Metrics
	// retryDelay separates full ladder rounds.
	retryDelay time.Duration
}

// New creates a notifier using the provided transport.
func New(transport mail.Transport, log *zap.SugaredLogger, m *metrics.Metrics) *Notifier {
	if log == nil {
		log = logger.Nop()
	}

	return &Notifier{
		transport:  transport,
		log:        log.Named("notifier"),
		metrics:    m,
		retryDelay: DefaultRetryDelay,
	}
}

// Send delivers the notification for intent to the entry's recipients.
// It never gives up: after a double failure it waits and replays the
// primary attempt with identical arguments, until delivery succeeds or ctx
// is canceled.
func (n *Notifier) Send(ctx context.Context, intent freezer.Intent, entry *freezer.Entry) {
	log := n.log.With(
		"status", intent.Status.String(),
		"location", entry.Location,
		"event_time", intent.FormattedTime(),
	)

	primary := PrimaryMessage(intent, entry)
	backup := BackupMessage(intent, entry)

	for round := 1; ; round++ {
		if n.attempt(ctx, log, freezer.TierPrimary, primary) {
			return
		}

		if n.attempt(ctx, log, freezer.TierBackup, backup) {
			return
		}

		log.Errorw("Failed to notify backup recipients that the "+intent.Status.Noun()+
			" message failed to send, retrying original message",
			"recipients", entry.Recipients,
			"backup", entry.Backup,
			"round", round,
			"retry_in", n.retryDelay.String(),
			"tier", freezer.TierRetry.String(),
			logger.CriticalKey, true,
		)

		if !common.Sleep(ctx, n.retryDelay) {
			log.Warnw("Shutting down, abandoning undelivered notification",
				"recipients", entry.Recipients,
				"round", round,
			)

			return
		}
	}
}

// attempt submits one message and logs the outcome. It reports success.
func (n *Notifier) attempt(ctx context.Context, log *zap.SugaredLogger, tier freezer.Tier, msg *mail.Message) bool {
	log.Debugw("Sending notification", "tier", tier.String(), "recipients", msg.Recipients)

	result := freezer.Attempt{
		Tier:       tier,
		Recipients: msg.Recipients,
		Err:        n.transport.Send(ctx, msg),
	}

	n.metrics.Attempt(result)

	if result.Succeeded() {
		log.Infow("Sent notification", "tier", tier.String(), "recipients", result.Recipients)

		return true
	}

	if tier == freezer.TierPrimary {
		log.Warnw("Failed to send notification", "tier", tier.String(), "recipients", result.Recipients, "error", result.Err)
	} else {
		log.Errorw("Failed to send notification", "tier", tier.String(), "recipients", result.Recipients, "error", result.Err)
	}

	return false
}
