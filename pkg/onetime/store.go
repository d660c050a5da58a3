package onetime

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the one-time-secret persistence contract. The invalidate-then-
// create sequence during Issue must serialize per channel value; that
// consistency is the store's responsibility (unique partial index, WATCH,
// or a single mutex), not the engine's.
type Store interface {
	// Create persists a new secret row.
	Create(ctx context.Context, secret *Secret) error

	// ActiveSecret returns the newest non-invalidated secret for the channel
	// value and purpose. Returns ErrSecretNotFound when none exists.
	ActiveSecret(ctx context.Context, channelValue string, purpose Purpose) (*Secret, error)

	// SecretByHash returns the non-invalidated secret matching the hash and
	// purpose. Magic links are looked up this way, by hash alone.
	SecretByHash(ctx context.Context, hash string, purpose Purpose) (*Secret, error)

	// InvalidateAllForChannel invalidates every active secret for the
	// channel value and purpose.
	InvalidateAllForChannel(ctx context.Context, channelValue string, purpose Purpose, at time.Time) error

	// IncrementFailedAttempts adds one failed attempt and returns the new
	// count. The counter never decreases.
	IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error)
}
