package mock

import (
	"context"
	"log/slog"
	"sync"

	"github.com/AshmeetSingh123/Qziners-EcommerceApp/internal/mailer"
)

// Sender logs outgoing mail and records it for inspection. It always
// succeeds unless Err is set.
type Sender struct {
	logger *slog.Logger

	mu   sync.Mutex
	sent []mailer.Message

	// Err, when non-nil, is returned from every Send.
	Err error
}

// New creates a new mock sender.
func New(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

// Name returns the sender name.
func (s *Sender) Name() string {
	return "mock"
}

// Send records the message.
func (s *Sender) Send(ctx context.Context, msg *mailer.Message) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	s.sent = append(s.sent, *msg)
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "mock mailer: message sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}

// Sent returns a copy of every recorded message.
func (s *Sender) Sent() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mailer.Message, len(s.sent))
	copy(out, s.sent)
	return out
}
