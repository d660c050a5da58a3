package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

func TestMemoryStoreUsers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("create and lookup by identifier", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("User@Example.com"))
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)
		assert.False(t, user.EmailVerified)

		found, err := store.UserByIdentifier(ctx, identity.NewEmail("user@example.com"))
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		byID, err := store.UserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, byID.Email)
	})

	t.Run("duplicate identifier rejected", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		_, err := store.CreateUser(ctx, identity.NewEmail("dup@example.com"))
		require.NoError(t, err)

		_, err = store.CreateUser(ctx, identity.NewEmail("dup@example.com"))
		assert.ErrorIs(t, err, identity.ErrIdentifierTaken)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		_, err := store.UserByID(ctx, uuid.New())
		assert.ErrorIs(t, err, identity.ErrUserNotFound)

		_, err = store.UserByIdentifier(ctx, identity.NewEmail("missing@example.com"))
		assert.ErrorIs(t, err, identity.ErrUserNotFound)
	})

	t.Run("set channel verified", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("verify@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SetChannelVerified(ctx, user.ID, identity.KindEmail))

		updated, err := store.UserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, updated.EmailVerified)
	})

	t.Run("set password hash", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("pw@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SetPasswordHash(ctx, user.ID, []byte("bcrypt-hash")))

		updated, err := store.UserByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, updated.HasPassword())
	})
}

func TestMemoryStoreLinks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	google := identity.NewFederated("google", "sub-1")

	t.Run("save and resolve", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("linked@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SaveLink(ctx, google, user.ID))

		linked, err := store.LinkedUser(ctx, google)
		require.NoError(t, err)
		assert.Equal(t, user.ID, linked.ID)
	})

	t.Run("idempotent for same user", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("same@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SaveLink(ctx, google, user.ID))
		require.NoError(t, store.SaveLink(ctx, google, user.ID))
	})

	t.Run("conflict for different user", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		first, err := store.CreateUser(ctx, identity.NewEmail("first@example.com"))
		require.NoError(t, err)
		second, err := store.CreateUser(ctx, identity.NewEmail("second@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SaveLink(ctx, google, first.ID))
		assert.ErrorIs(t, store.SaveLink(ctx, google, second.ID), identity.ErrIdentifierTaken)
	})

	t.Run("remove link", func(t *testing.T) {
		t.Parallel()

		store := identity.NewMemoryStore()
		user, err := store.CreateUser(ctx, identity.NewEmail("rm@example.com"))
		require.NoError(t, err)

		require.NoError(t, store.SaveLink(ctx, google, user.ID))
		require.NoError(t, store.RemoveLink(ctx, google))
		assert.ErrorIs(t, store.RemoveLink(ctx, google), identity.ErrLinkNotFound)

		_, err = store.LinkedUser(ctx, google)
		assert.ErrorIs(t, err, identity.ErrLinkNotFound)
	})
}
