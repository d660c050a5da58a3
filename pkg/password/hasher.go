package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrPasswordIsNotSet indicates the account has no password hash stored.
	ErrPasswordIsNotSet = errors.New("password.not_set")

	// ErrPasswordMismatch indicates the plaintext does not match the hash.
	ErrPasswordMismatch = errors.New("password.mismatch")

	// ErrPasswordTooLong indicates the plaintext exceeds bcrypt's 72-byte limit.
	ErrPasswordTooLong = errors.New("password.too_long")
)

// Hasher is the password hashing contract consumed by the engines.
type Hasher interface {
	// Hash derives a storage hash from a plaintext password.
	Hash(ctx context.Context, plaintext string) ([]byte, error)

	// Verify checks a plaintext against a stored hash. Returns
	// ErrPasswordIsNotSet for an empty hash and ErrPasswordMismatch when the
	// plaintext does not match.
	Verify(ctx context.Context, plaintext string, hash []byte) error
}

// BcryptHasher implements Hasher on golang.org/x/crypto/bcrypt.
type BcryptHasher struct {
	cost int
}

// BcryptOption configures a BcryptHasher.
type BcryptOption func(*BcryptHasher)

// WithCost overrides the bcrypt cost factor.
func WithCost(cost int) BcryptOption {
	return func(h *BcryptHasher) {
		h.cost = cost
	}
}

// NewBcrypt creates a bcrypt hasher with the default cost.
func NewBcrypt(opts ...BcryptOption) *BcryptHasher {
	h := &BcryptHasher{cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash derives a bcrypt hash from a plaintext password.
func (h *BcryptHasher) Hash(ctx context.Context, plaintext string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// Verify checks a plaintext against a stored bcrypt hash.
func (h *BcryptHasher) Verify(ctx context.Context, plaintext string, hash []byte) error {
	if len(hash) == 0 {
		return ErrPasswordIsNotSet
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(plaintext)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}
