package sealed

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// signatureBytes truncates HMAC-SHA256 output; 128 bits is beyond brute force
// while keeping cookie-carried values small.
const signatureBytes = 16

var (
	// ErrInvalidToken indicates a structurally malformed sealed value.
	ErrInvalidToken = errors.New("sealed.invalid_token")

	// ErrSignatureInvalid indicates the signature does not match the payload.
	ErrSignatureInvalid = errors.New("sealed.signature_invalid")

	// ErrTokenExpired indicates the sealed value is past its expiry.
	ErrTokenExpired = errors.New("sealed.token_expired")
)

type envelope[T any] struct {
	Payload   T     `json:"p"`
	ExpiresAt int64 `json:"exp"`
}

// Seal signs a payload with the secret and stamps it with an expiry ttl from
// now. A non-positive ttl produces a value that never expires.
func Seal[T any](payload T, secret string, ttl time.Duration) (string, error) {
	env := envelope[T]{Payload: payload}
	if ttl > 0 {
		env.ExpiresAt = time.Now().Add(ttl).Unix()
	}

	data, err := json.Marshal(env)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data) + "." +
		base64.RawURLEncoding.EncodeToString(sign(data, secret)), nil
}

// Unseal verifies the signature and expiry and decodes the payload.
// Signature verification happens before expiry so a tampered expiry still
// fails with ErrSignatureInvalid.
func Unseal[T any](token, secret string) (T, error) {
	var zero T

	parts := strings.Split(token, ".")
	if len(parts) != 2 {
		return zero, ErrInvalidToken
	}

	data, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return zero, ErrInvalidToken
	}
	sig, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return zero, ErrInvalidToken
	}

	if subtle.ConstantTimeCompare(sig, sign(data, secret)) != 1 {
		return zero, ErrSignatureInvalid
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		return zero, ErrInvalidToken
	}

	if env.ExpiresAt > 0 && time.Now().Unix() > env.ExpiresAt {
		return zero, ErrTokenExpired
	}

	return env.Payload, nil
}

func sign(data []byte, secret string) []byte {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(data)
	return h.Sum(nil)[:signatureBytes]
}
