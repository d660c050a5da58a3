package refresh

import (
	"time"

	"github.com/google/uuid"
)

// Token is a stored refresh credential. The secret itself is never stored;
// TokenHash is the one-way hash of the secret handed to the client.
type Token struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenHash  string
	ExpiresAt  time.Time
	CreatedAt  time.Time
	RevokedAt  *time.Time
	ReplacedBy *uuid.UUID
}

// Valid reports whether the token can still be presented: not revoked and
// not expired. Being replaced does not invalidate a token by itself.
func (t *Token) Valid(now time.Time) bool {
	return t != nil && t.RevokedAt == nil && now.Before(t.ExpiresAt)
}

// Revoked reports whether the token has been revoked.
func (t *Token) Revoked() bool {
	return t != nil && t.RevokedAt != nil
}

// Credentials is the pair handed to a client on issue or rotation.
// RefreshSecret is plaintext and appears nowhere else.
type Credentials struct {
	UserID           uuid.UUID
	RefreshSecret    string
	RefreshExpiresAt time.Time
	AccessToken      string
	AccessExpiresAt  time.Time
}
