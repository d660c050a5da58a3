package onetime

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

// Purpose discriminates what a secret authorizes.
type Purpose string

const (
	// PurposeVerify is a channel ownership verification code.
	PurposeVerify Purpose = "verify"
	// PurposeRestore is a password restoration code.
	PurposeRestore Purpose = "restore"
	// PurposeLogin is a passwordless magic-link token.
	PurposeLogin Purpose = "login"
)

// Secret is a stored one-time secret. The secret value is never stored;
// SecretHash is the one-way hash of the plaintext handed to delivery.
type Secret struct {
	ID           uuid.UUID
	UserID       *uuid.UUID // nil until a user is bound (e.g. pre-provisioning)
	Channel      identity.Kind
	ChannelValue string
	SecretHash   string
	Purpose      Purpose
	ExpiresAt    time.Time
	CreatedAt    time.Time

	// FailedAttempts only increases; reaching the configured maximum is
	// terminal for the secret.
	FailedAttempts int

	InvalidatedAt *time.Time

	// SessionBindingHash is the hash of the same-browser binding secret for
	// magic links; empty when binding is not required.
	SessionBindingHash string
}

// Expired reports whether the secret is past its expiry.
func (s *Secret) Expired(now time.Time) bool {
	return s != nil && now.After(s.ExpiresAt)
}

// Active reports whether the secret can still be presented: not invalidated.
// Expiry and attempts are checked separately so callers can report the
// precise failure.
func (s *Secret) Active() bool {
	return s != nil && s.InvalidatedAt == nil
}
