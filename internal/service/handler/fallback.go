package handler

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/logger"
	"github.com/oshokin/freezer-monitor/internal/transport/mail"
)

// DirectoryFailureMessage composes the notice sent to the operational
// fallback recipients when the directory cannot be loaded.
func DirectoryFailureMessage(intent freezer.Intent, sender, replyTo string, recipients []string) *mail.Message {
	var body strings.Builder

	fmt.Fprintf(&body, "Failure to read the freezer directory on the monitor at: %s\n", intent.DeviceKey)
	fmt.Fprintf(&body, "Event Time: %s\n\n", intent.FormattedTime())
	body.WriteString("Please verify the contents and structure of the directory file ASAP. " +
		"Alert messages for freezer events cannot be sent until this error is resolved.\n\n")

	if intent.Status == freezer.StatusAlert {
		body.WriteString("Also note that this message indicates a potential problem with the freezer " +
			"connected to this monitor. Please check the freezer or notify the appropriate lab members immediately.\n")
	} else {
		body.WriteString("Note that this message indicates the resolution of a potential problem with the freezer " +
			"connected to this monitor. Please notify the appropriate lab members to confirm that the freezer " +
			"is now working properly.\n")
	}

	return &mail.Message{
		Sender:     sender,
		Recipients: recipients,
		ReplyTo:    replyTo,
		Subject:    "Freezer directory error for monitor at " + intent.DeviceKey,
		Body:       body.String(),
	}
}

// reportDirectoryFailure tells the operational contact that the directory is
// broken. The outcome is only logged: the caller retries either way.
func (h *Handler) reportDirectoryFailure(
	ctx context.Context,
	log *zap.SugaredLogger,
	intent freezer.Intent,
	loadErr error,
) {
	log.Errorw("Failed to load directory", "error", loadErr)

	msg := DirectoryFailureMessage(intent, h.fallback.Sender, h.fallback.ReplyTo, h.fallback.Recipients)

	if err := h.transport.Send(ctx, msg); err != nil {
		log.Errorw("Failed to load directory and failed to alert fallback recipients",
			"recipients", msg.Recipients,
			"error", err,
			logger.CriticalKey, true,
		)

		return
	}

	log.Infow("Sent directory failure notice", "recipients", msg.Recipients)
}
