package refresh

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time interface assertion.
var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on pgx/v5.
//
// Expected schema:
//
//	CREATE TABLE refresh_tokens (
//	    id          UUID PRIMARY KEY,
//	    user_id     UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
//	    token_hash  TEXT NOT NULL UNIQUE,
//	    expires_at  TIMESTAMPTZ NOT NULL,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    revoked_at  TIMESTAMPTZ,
//	    replaced_by UUID
//	);
//	CREATE INDEX refresh_tokens_user_idx ON refresh_tokens (user_id);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a refresh-token store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const tokenColumns = "id, user_id, token_hash, expires_at, created_at, revoked_at, replaced_by"

func scanToken(row pgx.Row) (*Token, error) {
	var token Token
	err := row.Scan(
		&token.ID,
		&token.UserID,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.CreatedAt,
		&token.RevokedAt,
		&token.ReplacedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("scan refresh token: %w", err)
	}
	return &token, nil
}

// Create persists a new token row.
func (s *PostgresStore) Create(ctx context.Context, token *Token) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, created_at) VALUES ($1, $2, $3, $4, $5)",
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt, token.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// TokenByHash retrieves a token by its secret hash.
func (s *PostgresStore) TokenByHash(ctx context.Context, hash string) (*Token, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+tokenColumns+" FROM refresh_tokens WHERE token_hash = $1", hash)
	return scanToken(row)
}

// TokenByID retrieves a token by its row id.
func (s *PostgresStore) TokenByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+tokenColumns+" FROM refresh_tokens WHERE id = $1", id)
	return scanToken(row)
}

// MarkReplaced claims the rotation with a conditional update: the WHERE
// clause on replaced_by IS NULL makes concurrent rotations of the same
// secret serialize to exactly one winner.
func (s *PostgresStore) MarkReplaced(ctx context.Context, id, replacedBy uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE refresh_tokens SET replaced_by = $2 WHERE id = $1 AND replaced_by IS NULL",
		id, replacedBy,
	)
	if err != nil {
		return fmt.Errorf("mark token replaced: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := s.pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM refresh_tokens WHERE id = $1)", id).Scan(&exists); err != nil {
			return fmt.Errorf("check token existence: %w", err)
		}
		if !exists {
			return ErrTokenNotFound
		}
		return ErrTokenReplaced
	}
	return nil
}

// Revoke sets revoked_at on a single token, keeping an earlier timestamp.
func (s *PostgresStore) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = COALESCE(revoked_at, $2) WHERE id = $1",
		id, at,
	)
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// RevokeAllForUser revokes every unrevoked token owned by the user.
func (s *PostgresStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE refresh_tokens SET revoked_at = $2 WHERE user_id = $1 AND revoked_at IS NULL",
		userID, at,
	)
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}
