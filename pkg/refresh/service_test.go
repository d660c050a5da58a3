package refresh_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/refresh"
	"github.com/dmitrymomot/authcore/pkg/secretgen"
)

func testConfig() refresh.Config {
	return refresh.Config{
		SigningKey: "test-signing-key-32-characters!!",
		Issuer:     "authcore-test",
		Audience:   "test-app",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 24 * time.Hour,
	}
}

func newTestService(t *testing.T) (*refresh.Service, *refresh.MemoryStore) {
	t.Helper()

	store := refresh.NewMemoryStore()
	svc, err := refresh.NewService(store, testConfig())
	require.NoError(t, err)
	return svc, store
}

func TestNewService(t *testing.T) {
	t.Parallel()

	t.Run("requires signing key", func(t *testing.T) {
		t.Parallel()

		_, err := refresh.NewService(refresh.NewMemoryStore(), refresh.Config{})
		assert.ErrorIs(t, err, refresh.ErrMissingSigningKey)
	})
}

func TestIssue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	userID := uuid.New()

	creds, err := svc.Issue(ctx, userID, "read write")
	require.NoError(t, err)

	assert.Equal(t, userID, creds.UserID)
	assert.NotEmpty(t, creds.RefreshSecret)
	assert.NotEmpty(t, creds.AccessToken)
	assert.True(t, creds.RefreshExpiresAt.After(time.Now()))

	// Only the hash is persisted.
	gen := secretgen.New()
	stored, err := store.TokenByHash(ctx, gen.Hash(creds.RefreshSecret))
	require.NoError(t, err)
	assert.Equal(t, userID, stored.UserID)
	assert.NotEqual(t, creds.RefreshSecret, stored.TokenHash)

	claims, err := svc.Verify(ctx, creds.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, "read write", claims.Scope)
}

func TestRotate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := secretgen.New()

	t.Run("returns a new pair and chains the old row", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestService(t)
		userID := uuid.New()

		first, err := svc.Issue(ctx, userID, "")
		require.NoError(t, err)

		second, err := svc.Rotate(ctx, first.RefreshSecret, "")
		require.NoError(t, err)
		assert.Equal(t, userID, second.UserID)
		assert.NotEqual(t, first.RefreshSecret, second.RefreshSecret)

		oldRow, err := store.TokenByHash(ctx, gen.Hash(first.RefreshSecret))
		require.NoError(t, err)
		require.NotNil(t, oldRow.ReplacedBy)

		newRow, err := store.TokenByHash(ctx, gen.Hash(second.RefreshSecret))
		require.NoError(t, err)
		assert.Equal(t, newRow.ID, *oldRow.ReplacedBy)

		// Rotation does not revoke the predecessor.
		assert.Nil(t, oldRow.RevokedAt)
		assert.True(t, oldRow.Valid(time.Now()))
	})

	t.Run("replaced secret cannot rotate again", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		first, err := svc.Issue(ctx, uuid.New(), "")
		require.NoError(t, err)

		_, err = svc.Rotate(ctx, first.RefreshSecret, "")
		require.NoError(t, err)

		_, err = svc.Rotate(ctx, first.RefreshSecret, "")
		assert.ErrorIs(t, err, refresh.ErrTokenNotFound)
	})

	t.Run("unknown secret", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		_, err := svc.Rotate(ctx, "never-issued", "")
		assert.ErrorIs(t, err, refresh.ErrTokenNotFound)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc, store := newTestService(t)
		secret := "expired-secret"
		require.NoError(t, store.Create(ctx, &refresh.Token{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			TokenHash: gen.Hash(secret),
			ExpiresAt: time.Now().Add(-time.Minute),
			CreatedAt: time.Now().Add(-time.Hour),
		}))

		_, err := svc.Rotate(ctx, secret, "")
		assert.ErrorIs(t, err, refresh.ErrTokenExpired)
	})

	t.Run("revoked token", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		creds, err := svc.Issue(ctx, uuid.New(), "")
		require.NoError(t, err)

		require.NoError(t, svc.RevokeAll(ctx, creds.UserID))

		_, err = svc.Rotate(ctx, creds.RefreshSecret, "")
		assert.ErrorIs(t, err, refresh.ErrTokenRevoked)
	})

	t.Run("concurrent rotations have exactly one winner", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestService(t)
		creds, err := svc.Issue(ctx, uuid.New(), "")
		require.NoError(t, err)

		const attempts = 16
		var wg sync.WaitGroup
		results := make([]error, attempts)

		for i := 0; i < attempts; i++ {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, results[i] = svc.Rotate(ctx, creds.RefreshSecret, "")
			}()
		}
		wg.Wait()

		var wins int
		for _, err := range results {
			if err == nil {
				wins++
			} else {
				assert.ErrorIs(t, err, refresh.ErrTokenNotFound)
			}
		}
		assert.Equal(t, 1, wins)
	})
}

func TestRevokeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)
	userID := uuid.New()
	otherID := uuid.New()

	mine, err := svc.Issue(ctx, userID, "")
	require.NoError(t, err)
	theirs, err := svc.Issue(ctx, otherID, "")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(ctx, userID))

	_, err = svc.Rotate(ctx, mine.RefreshSecret, "")
	assert.ErrorIs(t, err, refresh.ErrTokenRevoked)

	// Other users are untouched.
	_, err = svc.Rotate(ctx, theirs.RefreshSecret, "")
	assert.NoError(t, err)
}

func TestRevokeChain(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gen := secretgen.New()
	svc, store := newTestService(t)
	userID := uuid.New()

	// Build a chain of three rotations: first -> second -> third.
	first, err := svc.Issue(ctx, userID, "")
	require.NoError(t, err)
	second, err := svc.Rotate(ctx, first.RefreshSecret, "")
	require.NoError(t, err)
	third, err := svc.Rotate(ctx, second.RefreshSecret, "")
	require.NoError(t, err)

	// An unrelated token for the same user stays out of the chain.
	unrelated, err := svc.Issue(ctx, userID, "")
	require.NoError(t, err)

	firstRow, err := store.TokenByHash(ctx, gen.Hash(first.RefreshSecret))
	require.NoError(t, err)

	require.NoError(t, svc.RevokeChain(ctx, firstRow.ID))

	for _, secret := range []string{second.RefreshSecret, third.RefreshSecret} {
		row, err := store.TokenByHash(ctx, gen.Hash(secret))
		require.NoError(t, err)
		assert.NotNil(t, row.RevokedAt)
	}

	unrelatedRow, err := store.TokenByHash(ctx, gen.Hash(unrelated.RefreshSecret))
	require.NoError(t, err)
	assert.Nil(t, unrelatedRow.RevokedAt)

	t.Run("unknown starting token", func(t *testing.T) {
		t.Parallel()

		assert.ErrorIs(t, svc.RevokeChain(ctx, uuid.New()), refresh.ErrTokenNotFound)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	creds, err := svc.Issue(ctx, uuid.New(), "admin")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()

		claims, err := svc.Verify(ctx, creds.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "admin", claims.Scope)
		assert.Equal(t, "authcore-test", claims.Issuer)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Verify(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, refresh.ErrAccessTokenInvalid)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.SigningKey = "another-signing-key-32-chars!!!!"
		other, err := refresh.NewService(refresh.NewMemoryStore(), cfg)
		require.NoError(t, err)

		_, err = other.Verify(ctx, creds.AccessToken)
		assert.ErrorIs(t, err, refresh.ErrAccessTokenInvalid)
	})
}
