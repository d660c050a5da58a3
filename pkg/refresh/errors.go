package refresh

import "errors"

var (
	// ErrTokenNotFound indicates no stored token matches the presented secret.
	ErrTokenNotFound = errors.New("refresh.token_not_found")

	// ErrTokenExpired indicates the token is past its expiry.
	ErrTokenExpired = errors.New("refresh.token_expired")

	// ErrTokenRevoked indicates the token has been revoked.
	ErrTokenRevoked = errors.New("refresh.token_revoked")

	// ErrTokenReplaced indicates the token has already been rotated; returned
	// by stores from MarkReplaced when another rotation won the race.
	ErrTokenReplaced = errors.New("refresh.token_replaced")

	// ErrAccessTokenInvalid indicates an access credential that failed
	// signature or claim validation.
	ErrAccessTokenInvalid = errors.New("refresh.access_token_invalid")

	// ErrMissingSigningKey indicates the service was constructed without a
	// signing key for access credentials.
	ErrMissingSigningKey = errors.New("refresh.missing_signing_key")
)
