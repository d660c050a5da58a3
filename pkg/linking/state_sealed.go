package linking

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/authcore/pkg/sealed"
)

// SealedStateStore carries pending flows inside a signed, self-contained
// value instead of server-side storage: the key Save returns IS the state,
// HMAC-signed and expiry-stamped, typically transported in a cookie. No
// backend is needed, at the cost of Clear being a no-op — a client that
// kept a copy can replay it until the TTL runs out, which is why the TTL
// should stay short.
type SealedStateStore struct {
	secret string
	now    func() time.Time
}

// NewSealedStateStore creates a store signing with the given secret.
func NewSealedStateStore(secret string) *SealedStateStore {
	return &SealedStateStore{secret: secret, now: time.Now}
}

func (s *SealedStateStore) Save(_ context.Context, state *State) (string, error) {
	ttl := state.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return "", ErrStateExpired
	}
	return sealed.Seal(*state, s.secret, ttl)
}

func (s *SealedStateStore) Load(_ context.Context, key string) (*State, error) {
	state, err := sealed.Unseal[State](key, s.secret)
	switch {
	case errors.Is(err, sealed.ErrTokenExpired):
		return nil, ErrStateExpired
	case err != nil:
		return nil, ErrStateNotFound
	}
	if state.Expired(s.now()) {
		return nil, ErrStateExpired
	}
	return &state, nil
}

func (s *SealedStateStore) Clear(context.Context, string) error {
	return nil
}
