// Package notifier delivers budget alert emails. The Notifier formats the
// message and retries transient transport failures a bounded number of
// times; the Sender interface keeps the transport swappable.
package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender defines the interface for sending a single message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	host string
	port string
	from string
	auth smtp.Auth
}

// NewSMTPSender creates an SMTPSender. Auth is skipped when user is empty,
// which is the common case for a local relay.
func NewSMTPSender(host, port, user, password, from string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &SMTPSender{host: host, port: port, from: from, auth: auth}
}

// Send delivers one message. The context is not plumbed into net/smtp,
// which has no context support; the worker bounds delivery time through
// its retry budget instead.
func (s *SMTPSender) Send(_ context.Context, to, subject, body string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	addr := s.host + ":" + s.port
	if err := smtp.SendMail(addr, s.auth, s.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
