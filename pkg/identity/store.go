package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserStore is the user sub-store contract the engines depend on.
// Lookups are by id or identifier value, never by secret.
type UserStore interface {
	// UserByID retrieves a user by its stable id.
	UserByID(ctx context.Context, id uuid.UUID) (*User, error)

	// UserByIdentifier resolves a non-federated identifier to its owner.
	// Returns ErrUserNotFound when nothing matches.
	UserByIdentifier(ctx context.Context, ident Identifier) (*User, error)

	// CreateUser provisions a new user from an identifier. The identifier
	// value becomes the user's corresponding channel value. Fails with
	// ErrIdentifierTaken when the identifier is already bound.
	CreateUser(ctx context.Context, ident Identifier) (*User, error)

	// SetChannelVerified marks the user's email or phone channel verified.
	SetChannelVerified(ctx context.Context, userID uuid.UUID, kind Kind) error

	// SetPasswordHash replaces the user's password hash.
	SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error
}

// LinkStore persists federated identifier bindings.
type LinkStore interface {
	// LinkedUser resolves a federated identifier to the user it is bound to.
	// Returns ErrLinkNotFound when no binding exists.
	LinkedUser(ctx context.Context, ident Identifier) (*User, error)

	// SaveLink binds a federated identifier to a user. Idempotent for the
	// same user; fails with ErrIdentifierTaken when bound to another user.
	SaveLink(ctx context.Context, ident Identifier, userID uuid.UUID) error

	// RemoveLink removes the binding. Returns ErrLinkNotFound when absent.
	RemoveLink(ctx context.Context, ident Identifier) error
}
