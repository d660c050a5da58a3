package onetime

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements Store with in-memory maps. The single mutex
// serializes invalidate-then-create per channel value, which is the
// consistency the engine delegates to its store.
type MemoryStore struct {
	mu      sync.Mutex
	secrets map[uuid.UUID]*Secret
}

// NewMemoryStore creates an empty in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[uuid.UUID]*Secret)}
}

// Create persists a new secret row.
func (m *MemoryStore) Create(ctx context.Context, secret *Secret) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	secretCopy := *secret
	m.secrets[secret.ID] = &secretCopy
	return nil
}

// ActiveSecret returns the newest non-invalidated secret for the channel.
func (m *MemoryStore) ActiveSecret(ctx context.Context, channelValue string, purpose Purpose) (*Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var newest *Secret
	for _, secret := range m.secrets {
		if secret.ChannelValue != channelValue || secret.Purpose != purpose || !secret.Active() {
			continue
		}
		if newest == nil || secret.CreatedAt.After(newest.CreatedAt) {
			newest = secret
		}
	}
	if newest == nil {
		return nil, ErrSecretNotFound
	}
	secretCopy := *newest
	return &secretCopy, nil
}

// SecretByHash returns the non-invalidated secret matching hash and purpose.
func (m *MemoryStore) SecretByHash(ctx context.Context, hash string, purpose Purpose) (*Secret, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, secret := range m.secrets {
		if secret.SecretHash == hash && secret.Purpose == purpose && secret.Active() {
			secretCopy := *secret
			return &secretCopy, nil
		}
	}
	return nil, ErrSecretNotFound
}

// InvalidateAllForChannel invalidates every active secret for the channel.
func (m *MemoryStore) InvalidateAllForChannel(ctx context.Context, channelValue string, purpose Purpose, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, secret := range m.secrets {
		if secret.ChannelValue == channelValue && secret.Purpose == purpose && secret.InvalidatedAt == nil {
			invalidatedAt := at
			secret.InvalidatedAt = &invalidatedAt
		}
	}
	return nil
}

// IncrementFailedAttempts adds one failed attempt and returns the new count.
func (m *MemoryStore) IncrementFailedAttempts(ctx context.Context, id uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	secret, ok := m.secrets[id]
	if !ok {
		return 0, ErrSecretNotFound
	}
	secret.FailedAttempts++
	return secret.FailedAttempts, nil
}
