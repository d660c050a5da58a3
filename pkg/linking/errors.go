package linking

import "errors"

var (
	// ErrStateNotFound is returned when the state key does not resolve to a
	// pending linking flow. Tampered or garbage keys surface the same way.
	ErrStateNotFound = errors.New("linking.state_not_found")

	// ErrStateExpired is returned when a pending flow outlived its TTL.
	ErrStateExpired = errors.New("linking.state_expired")

	// ErrUnknownCandidate is returned by Advance when the selected user is
	// not one of the candidates recorded at Initiate time.
	ErrUnknownCandidate = errors.New("linking.unknown_candidate")

	// ErrNoSelection is returned by Complete when Advance was never called
	// for the flow.
	ErrNoSelection = errors.New("linking.no_selection")

	// ErrNoVerificationMethod is returned by Complete when neither a
	// password nor a code was supplied.
	ErrNoVerificationMethod = errors.New("linking.no_verification_method")

	// ErrInvalidVerificationCode is returned by Complete when the supplied
	// code does not match the one sent for this flow.
	ErrInvalidVerificationCode = errors.New("linking.invalid_verification_code")
)
