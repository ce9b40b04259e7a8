package mailer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Console logs messages instead of sending them. It keeps a copy of every message for
// inspection in development and tests.
type Console struct {
	logger *zap.Logger

	mu   sync.Mutex
	sent []Message
}

// NewConsole builds a logging mailer.
func NewConsole(logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{logger: logger}
}

// Send records the message.
func (c *Console) Send(ctx context.Context, msg Message) error {
	if err := validate(msg); err != nil {
		return err
	}
	c.mu.Lock()
	c.sent = append(c.sent, msg)
	c.mu.Unlock()

	c.logger.Info("email sent to console",
		zap.String("subject", msg.Subject),
		zap.Int("to", len(msg.To)),
		zap.Int("bcc", len(msg.Bcc)),
	)
	return nil
}

// Sent returns a snapshot of delivered messages.
func (c *Console) Sent() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.sent))
	copy(out, c.sent)
	return out
}
