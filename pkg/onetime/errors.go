package onetime

import "errors"

var (
	// ErrSecretNotFound indicates no active secret exists for the channel.
	ErrSecretNotFound = errors.New("onetime.secret_not_found")

	// ErrSecretInvalid indicates the presented value does not match the
	// active secret.
	ErrSecretInvalid = errors.New("onetime.secret_invalid")

	// ErrSecretExpired indicates the active secret is past its expiry.
	ErrSecretExpired = errors.New("onetime.secret_expired")

	// ErrMaxAttemptsExceeded indicates the failed-attempt budget is spent.
	// Terminal for the secret; the caller must issue a new one.
	ErrMaxAttemptsExceeded = errors.New("onetime.max_attempts_exceeded")

	// ErrAlreadyVerified indicates the channel is already verified.
	ErrAlreadyVerified = errors.New("onetime.already_verified")

	// ErrUnsupportedPurpose indicates a purpose outside the known set.
	ErrUnsupportedPurpose = errors.New("onetime.unsupported_purpose")
)
