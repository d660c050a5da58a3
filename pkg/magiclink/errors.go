package magiclink

import "errors"

var (
	// ErrIdentifierNotFound indicates no user matches the identifier and
	// auto-provisioning is disabled.
	ErrIdentifierNotFound = errors.New("magiclink.identifier_not_found")

	// ErrDifferentBrowser indicates the same-browser binding secret was
	// missing or did not match.
	ErrDifferentBrowser = errors.New("magiclink.different_browser")
)
