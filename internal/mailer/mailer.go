// Package mailer is the boundary for outgoing transactional mail.
package mailer

import (
	"context"
)

// Message is a single outgoing email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender defines the interface for delivering mail through a channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}
