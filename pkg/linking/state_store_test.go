package linking_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/identity"
	"github.com/dmitrymomot/authcore/pkg/linking"
)

func pendingState(ttl time.Duration) *linking.State {
	userID := uuid.New()
	now := time.Now()
	return &linking.State{
		Assertion: linking.Assertion{
			Identifier:     identity.NewFederated("google", "subject-1"),
			VerifiedEmails: []string{"user@example.com"},
		},
		Candidates: []linking.Candidate{{
			UserID:        userID,
			Email:         "user@example.com",
			EmailVerified: true,
			MatchedKind:   identity.KindEmail,
		}},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func newRedisStateStore(t *testing.T) *linking.RedisStateStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return linking.NewRedisStateStore(client)
}

func TestStateStores(t *testing.T) {
	t.Parallel()

	stores := map[string]func(t *testing.T) linking.StateStore{
		"memory": func(t *testing.T) linking.StateStore { return linking.NewMemoryStateStore() },
		"redis":  func(t *testing.T) linking.StateStore { return newRedisStateStore(t) },
		"sealed": func(t *testing.T) linking.StateStore { return linking.NewSealedStateStore("test-signing-secret") },
	}

	for name, newStore := range stores {
		newStore := newStore
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			t.Run("roundtrip", func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()
				state := pendingState(time.Minute)

				key, err := store.Save(ctx, state)
				require.NoError(t, err)
				require.NotEmpty(t, key)

				loaded, err := store.Load(ctx, key)
				require.NoError(t, err)
				assert.True(t, state.Assertion.Identifier.Equal(loaded.Assertion.Identifier))
				require.Len(t, loaded.Candidates, 1)
				assert.Equal(t, state.Candidates[0].UserID, loaded.Candidates[0].UserID)
			})

			t.Run("unknown key", func(t *testing.T) {
				store := newStore(t)

				_, err := store.Load(context.Background(), "no-such-key")
				assert.ErrorIs(t, err, linking.ErrStateNotFound)
			})

			t.Run("new key on every save", func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()
				state := pendingState(time.Minute)

				first, err := store.Save(ctx, state)
				require.NoError(t, err)

				selected := state.Candidates[0].UserID
				state.SelectedUserID = &selected
				second, err := store.Save(ctx, state)
				require.NoError(t, err)
				assert.NotEqual(t, first, second)

				loaded, err := store.Load(ctx, second)
				require.NoError(t, err)
				require.NotNil(t, loaded.SelectedUserID)
				assert.Equal(t, selected, *loaded.SelectedUserID)
			})
		})
	}
}

func TestMemoryStateStore_ClearAndExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := linking.NewMemoryStateStore()

	key, err := store.Save(ctx, pendingState(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, key))

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, linking.ErrStateNotFound)

	expiredKey, err := store.Save(ctx, pendingState(-time.Second))
	require.NoError(t, err)
	_, err = store.Load(ctx, expiredKey)
	assert.ErrorIs(t, err, linking.ErrStateExpired)
}

func TestRedisStateStore_ClearAndTTL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := linking.NewRedisStateStore(client)

	key, err := store.Save(ctx, pendingState(time.Minute))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, key))

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, linking.ErrStateNotFound)

	// Native TTL: once the clock passes the expiry the key is simply gone.
	key, err = store.Save(ctx, pendingState(time.Minute))
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, linking.ErrStateNotFound)

	// A state already past its expiry is refused outright.
	_, err = store.Save(ctx, pendingState(-time.Second))
	assert.ErrorIs(t, err, linking.ErrStateExpired)
}

func TestSealedStateStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := linking.NewSealedStateStore("test-signing-secret")

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()

		key, err := store.Save(ctx, pendingState(time.Minute))
		require.NoError(t, err)

		flipped := "A"
		if strings.HasPrefix(key, "A") {
			flipped = "B"
		}
		_, err = store.Load(ctx, flipped+key[1:])
		assert.ErrorIs(t, err, linking.ErrStateNotFound)
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		t.Parallel()

		key, err := store.Save(ctx, pendingState(time.Minute))
		require.NoError(t, err)

		other := linking.NewSealedStateStore("another-secret")
		_, err = other.Load(ctx, key)
		assert.ErrorIs(t, err, linking.ErrStateNotFound)
	})

	t.Run("clear cannot revoke", func(t *testing.T) {
		t.Parallel()

		key, err := store.Save(ctx, pendingState(time.Minute))
		require.NoError(t, err)
		require.NoError(t, store.Clear(ctx, key))

		// The value is self-contained; only the TTL bounds it.
		_, err = store.Load(ctx, key)
		assert.NoError(t, err)
	})

	t.Run("expired refused at save", func(t *testing.T) {
		t.Parallel()

		_, err := store.Save(ctx, pendingState(-time.Second))
		assert.ErrorIs(t, err, linking.ErrStateExpired)
	})
}
