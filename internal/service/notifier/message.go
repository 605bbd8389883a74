package notifier

import (
	"fmt"
	"strings"

	"github.com/oshokin/freezer-monitor/internal/domain/freezer"
	"github.com/oshokin/freezer-monitor/internal/transport/mail"
)

// PrimaryMessage composes the alert or all-clear message for the primary recipients.
func PrimaryMessage(intent freezer.Intent, entry *freezer.Entry) *mail.Message {
	var subject, body string

	if intent.Status == freezer.StatusAlert {
		subject = "ALERT: Problem with freezer in " + entry.Location
		body = fmt.Sprintf(
			"A potential problem has been detected with the freezer located in: %s\n"+
				"This event was detected at: %s\n",
			entry.Location, intent.FormattedTime())
	} else {
		subject = "Re: ALERT: Problem with freezer in " + entry.Location
		body = fmt.Sprintf(
			"The problem detected with the freezer located in: %s appears to have been resolved.\n"+
				"This resolution was detected at: %s\n"+
				"Please check this freezer to confirm that it is now working properly.\n",
			entry.Location, intent.FormattedTime())
	}

	return &mail.Message{
		Sender:     entry.Sender,
		Recipients: entry.Recipients,
		ReplyTo:    entry.ReplyTo,
		Subject:    subject,
		Body:       body,
	}
}

// BackupMessage composes the notice telling the backup recipients that the
// primary message could not be delivered.
func BackupMessage(intent freezer.Intent, entry *freezer.Entry) *mail.Message {
	var opening string

	if intent.Status == freezer.StatusAlert {
		opening = "A problem has been detected with a freezer, but the alert message failed to send."
	} else {
		opening = "A problem with a freezer has been resolved, but the all-clear message failed to send."
	}

	body := fmt.Sprintf(
		"%s\n\nFreezer Location: %s\nIntended Recipient(s): %s\nTime of Event: %s\n",
		opening, entry.Location, strings.Join(entry.Recipients, ", "), intent.FormattedTime())

	return &mail.Message{
		Sender:     entry.Sender,
		Recipients: entry.Backup,
		ReplyTo:    entry.ReplyTo,
		Subject:    "ALERT: Failed to send notification about the status of freezer in " + entry.Location,
		Body:       body,
	}
}
