package linking

import "context"

// StateStore persists in-flight manual linking flows. Save returns the key
// the state is now reachable under; backends that derive the key from the
// value itself (the sealed store) return a new key on every save, so
// callers must always adopt the returned key and discard the old one.
//
// Load returns ErrStateNotFound for unknown, tampered, or evicted keys and
// ErrStateExpired for flows past their TTL. Clear is best-effort: the
// sealed backend cannot revoke a value the client still holds and relies
// on the TTL instead.
type StateStore interface {
	Save(ctx context.Context, state *State) (key string, err error)
	Load(ctx context.Context, key string) (*State, error)
	Clear(ctx context.Context, key string) error
}
