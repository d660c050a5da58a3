package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

var (
	// ErrUnsupportedChannel indicates the sender cannot deliver to the
	// message's channel kind.
	ErrUnsupportedChannel = errors.New("delivery.unsupported_channel")

	// ErrSendFailed indicates the provider rejected or failed the delivery.
	ErrSendFailed = errors.New("delivery.send_failed")

	// ErrInvalidMessage indicates a message with missing recipient or code.
	ErrInvalidMessage = errors.New("delivery.invalid_message")
)

// CodeMessage describes one out-of-band secret delivery.
type CodeMessage struct {
	Channel   identity.Kind // email or phone
	To        string        // channel value
	Code      string        // plaintext secret or link token
	Purpose   string        // verify, restore, or login
	LinkBase  string        // optional; when set, Code is appended as a link
	ExpiresIn time.Duration // shown to the recipient
}

// Validate checks the message has a recipient and a secret.
func (m CodeMessage) Validate() error {
	if m.To == "" || m.Code == "" {
		return ErrInvalidMessage
	}
	return nil
}

// Sender delivers one-time codes out of band.
type Sender interface {
	SendCode(ctx context.Context, msg CodeMessage) error
}
