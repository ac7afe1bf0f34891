// Package email sends transactional mail, currently just the daily hot-niche
// digest. Production uses Postmark; development writes messages to disk so no
// real mail leaves a laptop.
package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrSendFailed     = errors.New("email.errors.send_failed")
	ErrInvalidConfig  = errors.New("email.errors.invalid_config")
	ErrInvalidMessage = errors.New("email.errors.invalid_message")
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Config holds sender identity and the Postmark credentials. Tokens are
// optional so development environments can run with the file-based sender.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"SENDER_EMAIL" envDefault:"noreply@lumigen.app"`
	SupportEmail         string `env:"SUPPORT_EMAIL" envDefault:"support@lumigen.app"`
}

// Message is one outbound email.
type Message struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"bodyHtml"`
	Tag      string `json:"tag,omitempty"`
}

// Validate checks the fields every transport needs.
func (m Message) Validate() error {
	if !emailRegex.MatchString(m.To) {
		return fmt.Errorf("%w: recipient %q is not a valid address", ErrInvalidMessage, m.To)
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: empty subject", ErrInvalidMessage)
	}
	if m.BodyHTML == "" {
		return fmt.Errorf("%w: empty body", ErrInvalidMessage)
	}
	return nil
}

// Sender delivers a message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
