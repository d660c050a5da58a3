package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps. Safe for concurrent use;
// intended for tests and single-node deployments.
type MemoryStore struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*Token
	byHash map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[uuid.UUID]*Token),
		byHash: make(map[string]uuid.UUID),
	}
}

// Create persists a new token row.
func (m *MemoryStore) Create(ctx context.Context, token *Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tokenCopy := *token
	m.byID[token.ID] = &tokenCopy
	m.byHash[token.TokenHash] = token.ID
	return nil
}

// TokenByHash retrieves a token by its secret hash.
func (m *MemoryStore) TokenByHash(ctx context.Context, hash string) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byHash[hash]
	if !ok {
		return nil, ErrTokenNotFound
	}
	tokenCopy := *m.byID[id]
	return &tokenCopy, nil
}

// TokenByID retrieves a token by its row id.
func (m *MemoryStore) TokenByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return nil, ErrTokenNotFound
	}
	tokenCopy := *token
	return &tokenCopy, nil
}

// MarkReplaced sets ReplacedBy if and only if it is not already set.
func (m *MemoryStore) MarkReplaced(ctx context.Context, id, replacedBy uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return ErrTokenNotFound
	}
	if token.ReplacedBy != nil {
		return ErrTokenReplaced
	}
	token.ReplacedBy = &replacedBy
	return nil
}

// Revoke sets RevokedAt on a single token, keeping an earlier timestamp.
func (m *MemoryStore) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.byID[id]
	if !ok {
		return ErrTokenNotFound
	}
	if token.RevokedAt == nil {
		revokedAt := at
		token.RevokedAt = &revokedAt
	}
	return nil
}

// RevokeAllForUser revokes every unrevoked token owned by the user.
func (m *MemoryStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.byID {
		if token.UserID == userID && token.RevokedAt == nil {
			revokedAt := at
			token.RevokedAt = &revokedAt
		}
	}
	return nil
}
