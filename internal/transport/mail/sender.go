package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Message is a composed plain-text notification.
type Message struct {
	// Sender is the From address.
	Sender string
	// Recipients are the To addresses.
	Recipients []string
	// ReplyTo is the Reply-To address.
	ReplyTo string
	// Subject is the subject line.
	Subject string
	// Body is the plain-text body.
	Body string
}

// Transport delivers a message. Any transport-level fault (refused connection,
// rejected recipient, timeout) is returned as an error.
type Transport interface {
	Send(ctx context.Context, msg *Message) error
}

var (
	// errHostRequired is returned when no relay host is configured.
	errHostRequired = errors.New("smtp host must be provided")
	// errNoRecipients is returned for messages without recipients.
	errNoRecipients = errors.New("message has no recipients")
)

// SMTPTransport submits messages to an unauthenticated SMTP relay,
// upgrading to TLS when the relay offers it.
type SMTPTransport struct {
	// host is the relay hostname.
	host string
	// port is the relay port.
	port int
	// timeout bounds one submission.
	timeout time.Duration
}

// NewSMTPTransport creates a transport for the provided relay.
func NewSMTPTransport(host string, port int, timeout time.Duration) (*SMTPTransport, error) {
	if host == "" {
		return nil, errHostRequired
	}

	return &SMTPTransport{
		host:    host,
		port:    port,
		timeout: timeout,
	}, nil
}

// Send opens a connection to the relay, submits the message and disconnects.
// A fresh connection per message keeps concurrent handlers independent.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	composed, err := Compose(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(t.host,
		gomail.WithPort(t.port),
		gomail.WithTimeout(t.timeout),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err = client.DialAndSendWithContext(ctx, composed); err != nil {
		return fmt.Errorf("send via %s: %w", t.host, err)
	}

	return nil
}

// Compose converts a Message into a go-mail message, validating every address.
func Compose(msg *Message) (*gomail.Msg, error) {
	if len(msg.Recipients) == 0 {
		return nil, errNoRecipients
	}

	composed := gomail.NewMsg()

	if err := composed.From(msg.Sender); err != nil {
		return nil, fmt.Errorf("set sender %q: %w", msg.Sender, err)
	}

	if err := composed.To(msg.Recipients...); err != nil {
		return nil, fmt.Errorf("set recipients %v: %w", msg.Recipients, err)
	}

	if msg.ReplyTo != "" {
		if err := composed.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("set reply-to %q: %w", msg.ReplyTo, err)
		}
	}

	composed.Subject(msg.Subject)
	composed.SetBodyString(gomail.TypeTextPlain, msg.Body)

	return composed, nil
}
