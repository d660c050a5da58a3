package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authcore/pkg/pg"
)

// Compile-time interface assertions.
var (
	_ UserStore = (*PostgresStore)(nil)
	_ LinkStore = (*PostgresStore)(nil)
)

// PostgresStore implements UserStore and LinkStore on pgx/v5.
//
// Expected schema:
//
//	CREATE TABLE users (
//	    id             UUID PRIMARY KEY,
//	    email          TEXT UNIQUE,
//	    phone          TEXT UNIQUE,
//	    username       TEXT UNIQUE,
//	    password_hash  BYTEA,
//	    email_verified BOOLEAN NOT NULL DEFAULT FALSE,
//	    phone_verified BOOLEAN NOT NULL DEFAULT FALSE,
//	    created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
//	);
//
//	CREATE TABLE federated_links (
//	    provider   TEXT NOT NULL,
//	    value      TEXT NOT NULL,
//	    user_id    UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
//	    PRIMARY KEY (provider, value)
//	);
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates an identity store backed by the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const userColumns = "id, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(username, ''), password_hash, email_verified, phone_verified, created_at"

func scanUser(row pgx.Row) (*User, error) {
	var user User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Phone,
		&user.Username,
		&user.PasswordHash,
		&user.EmailVerified,
		&user.PhoneVerified,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// UserByID retrieves a user by its stable id.
func (s *PostgresStore) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

// UserByIdentifier resolves a non-federated identifier to its owner.
func (s *PostgresStore) UserByIdentifier(ctx context.Context, ident Identifier) (*User, error) {
	ident = ident.Normalize()
	if ident.IsZero() {
		return nil, ErrInvalidIdentifier
	}

	column, err := channelColumn(ident.Kind)
	if err != nil {
		return nil, err
	}

	row := s.pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE "+column+" = $1", ident.Value)
	return scanUser(row)
}

// CreateUser provisions a new user from an identifier. The unique constraint
// on the channel column enforces global identifier uniqueness.
func (s *PostgresStore) CreateUser(ctx context.Context, ident Identifier) (*User, error) {
	ident = ident.Normalize()
	if ident.IsZero() {
		return nil, ErrInvalidIdentifier
	}

	column, err := channelColumn(ident.Kind)
	if err != nil {
		return nil, err
	}

	user := &User{ID: uuid.New(), CreatedAt: time.Now()}
	switch ident.Kind {
	case KindEmail:
		user.Email = ident.Value
	case KindPhone:
		user.Phone = ident.Value
	case KindUsername:
		user.Username = ident.Value
	}

	_, err = s.pool.Exec(ctx,
		"INSERT INTO users (id, "+column+", created_at) VALUES ($1, $2, $3)",
		user.ID, ident.Value, user.CreatedAt,
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return nil, ErrIdentifierTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// SetChannelVerified marks the user's email or phone channel verified.
func (s *PostgresStore) SetChannelVerified(ctx context.Context, userID uuid.UUID, kind Kind) error {
	var column string
	switch kind {
	case KindEmail:
		column = "email_verified"
	case KindPhone:
		column = "phone_verified"
	default:
		return ErrInvalidIdentifier
	}

	tag, err := s.pool.Exec(ctx, "UPDATE users SET "+column+" = TRUE WHERE id = $1", userID)
	if err != nil {
		return fmt.Errorf("set channel verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SetPasswordHash replaces the user's password hash.
func (s *PostgresStore) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	tag, err := s.pool.Exec(ctx, "UPDATE users SET password_hash = $2 WHERE id = $1", userID, hash)
	if err != nil {
		return fmt.Errorf("set password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// LinkedUser resolves a federated identifier to the user it is bound to.
func (s *PostgresStore) LinkedUser(ctx context.Context, ident Identifier) (*User, error) {
	if ident.Kind != KindFederated || ident.IsZero() {
		return nil, ErrInvalidIdentifier
	}

	row := s.pool.QueryRow(ctx,
		"SELECT "+userColumns+" FROM users u JOIN federated_links l ON l.user_id = u.id WHERE l.provider = $1 AND l.value = $2",
		ident.Provider, ident.Value,
	)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return user, nil
}

// SaveLink binds a federated identifier to a user. ON CONFLICT DO NOTHING
// keeps the first binding; a subsequent insert for a different user is
// detected by re-reading the winning row.
func (s *PostgresStore) SaveLink(ctx context.Context, ident Identifier, userID uuid.UUID) error {
	if ident.Kind != KindFederated || ident.IsZero() {
		return ErrInvalidIdentifier
	}

	tag, err := s.pool.Exec(ctx,
		"INSERT INTO federated_links (provider, value, user_id) VALUES ($1, $2, $3) ON CONFLICT (provider, value) DO NOTHING",
		ident.Provider, ident.Value, userID,
	)
	if err != nil {
		return fmt.Errorf("save link: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var existing uuid.UUID
	err = s.pool.QueryRow(ctx,
		"SELECT user_id FROM federated_links WHERE provider = $1 AND value = $2",
		ident.Provider, ident.Value,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("check existing link: %w", err)
	}
	if existing != userID {
		return ErrIdentifierTaken
	}
	return nil
}

// RemoveLink removes a federated identifier binding.
func (s *PostgresStore) RemoveLink(ctx context.Context, ident Identifier) error {
	if ident.Kind != KindFederated || ident.IsZero() {
		return ErrInvalidIdentifier
	}

	tag, err := s.pool.Exec(ctx,
		"DELETE FROM federated_links WHERE provider = $1 AND value = $2",
		ident.Provider, ident.Value,
	)
	if err != nil {
		return fmt.Errorf("remove link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLinkNotFound
	}
	return nil
}

func channelColumn(kind Kind) (string, error) {
	switch kind {
	case KindEmail:
		return "email", nil
	case KindPhone:
		return "phone", nil
	case KindUsername:
		return "username", nil
	default:
		return "", ErrInvalidIdentifier
	}
}
