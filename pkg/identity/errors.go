package identity

import "errors"

var (
	// ErrUserNotFound indicates no user matches the given id or identifier.
	ErrUserNotFound = errors.New("identity.user_not_found")

	// ErrIdentifierTaken indicates the identifier is already bound to a
	// different user.
	ErrIdentifierTaken = errors.New("identity.identifier_taken")

	// ErrLinkNotFound indicates no federated link exists for the identifier.
	ErrLinkNotFound = errors.New("identity.link_not_found")

	// ErrInvalidIdentifier indicates a malformed or empty identifier.
	ErrInvalidIdentifier = errors.New("identity.invalid_identifier")
)
