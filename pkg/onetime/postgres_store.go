package onetime

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
//	CREATE TABLE one_time_secrets (
//	    id                   UUID PRIMARY KEY,
//	    user_id              UUID REFERENCES users (id) ON DELETE CASCADE,
//	    channel              TEXT NOT NULL,
//	    channel_value        TEXT NOT NULL,
//	    secret_hash          TEXT NOT NULL,
//	    purpose              TEXT NOT NULL,
//	    expires_at           TIMESTAMPTZ NOT NULL,
//	    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    failed_attempts      INT NOT NULL DEFAULT 0,
//	    invalidated_at       TIMESTAMPTZ,
//	    session_binding_hash TEXT NOT NULL DEFAULT ''
//	);
//	CREATE INDEX one_time_secrets_channel_idx
//	    ON one_time_secrets (channel_value, purpose) WHERE invalidated_at IS NULL;
//	CREATE INDEX one_time_secrets_hash_idx
//	    ON one_time_secrets (secret_hash, purpose) WHERE invalidated_at IS NULL;
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a one-time-secret store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const secretColumns = "id, user_id, channel, channel_value, secret_hash, purpose, expires_at, created_at, failed_attempts, invalidated_at, session_binding_hash"

func scanSecret(row pgx.Row) (*Secret, error) {
	var secret Secret
	err := row.Scan(
		&secret.ID,
		&secret.UserID,
		&secret.Channel,
		&secret.ChannelValue,
		&secret.SecretHash,
		&secret.Purpose,
		&secret.ExpiresAt,
		&secret.CreatedAt,
		&secret.FailedAttempts,
		&secret.InvalidatedAt,
		&secret.SessionBindingHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSecretNotFound
		}
		return nil, fmt.Errorf("scan secret: %w", err)
	}
	return &secret, nil
}

// Create persists a new secret row.
func (s *PostgresStore) Create(ctx context.Context, secret *Secret) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO one_time_secrets
		     (id, user_id, channel, channel_value, secret_hash, purpose, expires_at, created_at, failed_attempts, session_binding_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		secret.ID, secret.UserID, secret.Channel, secret.ChannelValue, secret.SecretHash,
		secret.Purpose, secret.ExpiresAt, secret.CreatedAt, secret.FailedAttempts, secret.SessionBindingHash,
	)
	if err != nil {
		return fmt.Errorf("create secret: %w", err)
	}
	return nil
}

// ActiveSecret returns the newest non-invalidated secret for the channel.
func (s *PostgresStore) ActiveSecret(ctx context.Context, channelValue string, purpose Purpose) (*Secret, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+secretColumns+` FROM one_time_secrets
		 WHERE channel_value = $1 AND purpose = $2 AND invalidated_at IS NULL
		 ORDER BY created_at DESC LIMIT 1`,
		channelValue, purpose,
	)
	return scanSecret(row)
}

// SecretByHash returns the non-invalidated secret matching hash and purpose.
func (s *PostgresStore) SecretByHash(ctx context.Context, hash string, purpose Purpose) (*Secret, error) {
	row := s.pool.QueryRow(ctx,
		"SELECT "+secretColumns+` FROM one_time_secrets
		 WHERE secret_hash = $1 AND purpose = $2 AND invalidated_at IS NULL`,
		hash, purpose,
	)
	return scanSecret(row)
}

// InvalidateAllForChannel invalidates every active secret for the channel.
func (s *PostgresStore) InvalidateAllForChannel(ctx context.Context, channelValue string, purpose Purpose, at time.Time) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE one_time_secrets SET invalidated_at = $3 WHERE channel_value = $1 AND purpose = $2 AND invalidated_at IS NULL",
		channelValue, purpose, at,
	)
	if err != nil {
		return fmt.Errorf("invalidate secrets: %w", err)
	}
	return nil
}

// IncrementFailedAttempts adds one failed attempt and returns the new count.
func (s *PostgresStore) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	var attempts int
	err := s.pool.QueryRow(ctx,
		"UPDATE one_time_secrets SET failed_attempts = failed_attempts + 1 WHERE id = $1 RETURNING failed_attempts",
		id,
	).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrSecretNotFound
		}
		return 0, fmt.Errorf("increment failed attempts: %w", err)
	}
	return attempts, nil
}
