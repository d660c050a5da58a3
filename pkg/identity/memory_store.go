package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements UserStore and LinkStore with in-memory maps.
// Safe for concurrent use; intended for tests and single-node deployments.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*User
	links map[linkKey]uuid.UUID
}

type linkKey struct {
	provider string
	value    string
}

// NewMemoryStore creates an empty in-memory identity store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[uuid.UUID]*User),
		links: make(map[linkKey]uuid.UUID),
	}
}

// AddUser inserts a prebuilt user, assigning an id when unset. Test helper
// and import path for existing accounts.
func (m *MemoryStore) AddUser(user *User) *User {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	userCopy := *user
	m.users[user.ID] = &userCopy
	return user
}

// UserByID retrieves a user by its stable id.
func (m *MemoryStore) UserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

// UserByIdentifier resolves a non-federated identifier to its owner.
func (m *MemoryStore) UserByIdentifier(ctx context.Context, ident Identifier) (*User, error) {
	ident = ident.Normalize()
	if ident.IsZero() {
		return nil, ErrInvalidIdentifier
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ChannelValue(ident.Kind) == ident.Value {
			userCopy := *user
			return &userCopy, nil
		}
	}
	return nil, ErrUserNotFound
}

// CreateUser provisions a new user from an identifier.
func (m *MemoryStore) CreateUser(ctx context.Context, ident Identifier) (*User, error) {
	ident = ident.Normalize()
	if ident.IsZero() || ident.Kind == KindFederated {
		return nil, ErrInvalidIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ChannelValue(ident.Kind) == ident.Value {
			return nil, ErrIdentifierTaken
		}
	}

	user := &User{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
	switch ident.Kind {
	case KindEmail:
		user.Email = ident.Value
	case KindPhone:
		user.Phone = ident.Value
	case KindUsername:
		user.Username = ident.Value
	}

	m.users[user.ID] = user
	userCopy := *user
	return &userCopy, nil
}

// SetChannelVerified marks the user's email or phone channel verified.
func (m *MemoryStore) SetChannelVerified(ctx context.Context, userID uuid.UUID, kind Kind) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	switch kind {
	case KindEmail:
		user.EmailVerified = true
	case KindPhone:
		user.PhoneVerified = true
	default:
		return ErrInvalidIdentifier
	}
	return nil
}

// SetPasswordHash replaces the user's password hash.
func (m *MemoryStore) SetPasswordHash(ctx context.Context, userID uuid.UUID, hash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = append([]byte(nil), hash...)
	return nil
}

// LinkedUser resolves a federated identifier to the user it is bound to.
func (m *MemoryStore) LinkedUser(ctx context.Context, ident Identifier) (*User, error) {
	if ident.Kind != KindFederated || ident.IsZero() {
		return nil, ErrInvalidIdentifier
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	userID, ok := m.links[linkKey{provider: ident.Provider, value: ident.Value}]
	if !ok {
		return nil, ErrLinkNotFound
	}
	user, ok := m.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	userCopy := *user
	return &userCopy, nil
}

// SaveLink binds a federated identifier to a user.
func (m *MemoryStore) SaveLink(ctx context.Context, ident Identifier, userID uuid.UUID) error {
	if ident.Kind != KindFederated || ident.IsZero() {
		return ErrInvalidIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := linkKey{provider: ident.Provider, value: ident.Value}
	if existing, ok := m.links[key]; ok {
		if existing == userID {
			return nil
		}
		return ErrIdentifierTaken
	}
	if _, ok := m.users[userID]; !ok {
		return ErrUserNotFound
	}
	m.links[key] = userID
	return nil
}

// RemoveLink removes a federated identifier binding.
func (m *MemoryStore) RemoveLink(ctx context.Context, ident Identifier) error {
	if ident.Kind != KindFederated || ident.IsZero() {
		return ErrInvalidIdentifier
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := linkKey{provider: ident.Provider, value: ident.Value}
	if _, ok := m.links[key]; !ok {
		return ErrLinkNotFound
	}
	delete(m.links, key)
	return nil
}
