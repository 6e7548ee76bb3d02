package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer"
)

// Sender delivers mail through an SMTP relay.
type Sender struct {
	addr string
	from string
	auth smtp.Auth
}

// New creates an SMTP-backed sender. Auth is skipped when user is empty.
func New(host string, port int, user, password, from string) *Sender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}
	return &Sender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

// Name returns the sender name.
func (s *Sender) Name() string {
	return "smtp"
}

// Send delivers the message through the relay.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.Body)

	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{msg.To}, []byte(b.String())); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}

	return nil
}
