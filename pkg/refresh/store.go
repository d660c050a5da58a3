package refresh

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the refresh-token persistence contract. Lookups are by hash or
// id, never by plaintext secret.
type Store interface {
	// Create persists a new token row.
	Create(ctx context.Context, token *Token) error

	// TokenByHash retrieves a token by its secret hash. Returns
	// ErrTokenNotFound when nothing matches.
	TokenByHash(ctx context.Context, hash string) (*Token, error)

	// TokenByID retrieves a token by its row id.
	TokenByID(ctx context.Context, id uuid.UUID) (*Token, error)

	// MarkReplaced sets ReplacedBy on a token if and only if it is not
	// already set. Returns ErrTokenReplaced when another rotation already
	// claimed it — this conditional write is what makes rotation
	// exactly-once under concurrency.
	MarkReplaced(ctx context.Context, id, replacedBy uuid.UUID) error

	// Revoke sets RevokedAt on a single token. Idempotent: revoking an
	// already-revoked token keeps the earlier timestamp.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error

	// RevokeAllForUser revokes every unrevoked token owned by the user.
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) error
}
