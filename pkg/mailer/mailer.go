package mailer

import (
	"context"
	"errors"
	"strings"
)

// ErrNoRecipients is returned when a message has no addressee.
var ErrNoRecipients = errors.New("mailer: message has no recipients")

// Address is a named mailbox.
type Address struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Message is a single outbound email. Bcc recipients never see each other.
type Message struct {
	To      []Address `json:"to,omitempty"`
	Bcc     []Address `json:"bcc,omitempty"`
	Subject string    `json:"subject"`
	Text    string    `json:"text,omitempty"`
	HTML    string    `json:"html,omitempty"`
}

// Recipients counts every addressee of the message.
func (m Message) Recipients() int {
	return len(m.To) + len(m.Bcc)
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func validate(msg Message) error {
	if msg.Recipients() == 0 {
		return ErrNoRecipients
	}
	return nil
}

func withPrefix(prefix, subject string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return subject
	}
	return "[" + prefix + "] " + subject
}
