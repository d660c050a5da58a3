package linking

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

// MemoryStateStore keeps pending flows in process memory. Suitable for
// tests and single-instance deployments; state does not survive restarts.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]*State
	gen    secretgen.Generator
	now    func() time.Time
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[string]*State),
		gen:    secretgen.New(),
		now:    time.Now,
	}
}

func (s *MemoryStateStore) Save(_ context.Context, state *State) (string, error) {
	key, err := s.gen.Token()
	if err != nil {
		return "", err
	}

	cp := *state
	cp.Candidates = append([]Candidate(nil), state.Candidates...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.states[key] = &cp
	return key, nil
}

func (s *MemoryStateStore) Load(_ context.Context, key string) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[key]
	if !ok {
		return nil, ErrStateNotFound
	}
	if state.Expired(s.now()) {
		delete(s.states, key)
		return nil, ErrStateExpired
	}

	cp := *state
	cp.Candidates = append([]Candidate(nil), state.Candidates...)
	return &cp, nil
}

func (s *MemoryStateStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

// evictExpired drops stale flows. Called with mu held.
func (s *MemoryStateStore) evictExpired() {
	now := s.now()
	for key, state := range s.states {
		if state.Expired(now) {
			delete(s.states, key)
		}
	}
}
