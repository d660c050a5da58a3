package identity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/authcore/pkg/identity"
)

func TestIdentifierEqual(t *testing.T) {
	t.Parallel()

	t.Run("same kind and value", func(t *testing.T) {
		t.Parallel()

		a := identity.NewEmail("user@example.com")
		b := identity.NewEmail("user@example.com")
		assert.True(t, a.Equal(b))
	})

	t.Run("different kind same value", func(t *testing.T) {
		t.Parallel()

		a := identity.NewEmail("alice")
		b := identity.NewUsername("alice")
		assert.False(t, a.Equal(b))
	})

	t.Run("federated scoped by provider", func(t *testing.T) {
		t.Parallel()

		a := identity.NewFederated("google", "sub-123")
		b := identity.NewFederated("github", "sub-123")
		c := identity.NewFederated("google", "sub-123")
		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(c))
	})
}

func TestIdentifierNormalize(t *testing.T) {
	t.Parallel()

	t.Run("lowercases email", func(t *testing.T) {
		t.Parallel()

		ident := identity.Identifier{Kind: identity.KindEmail, Value: "  User@Example.COM "}
		assert.Equal(t, "user@example.com", ident.Normalize().Value)
	})

	t.Run("lowercases username", func(t *testing.T) {
		t.Parallel()

		ident := identity.Identifier{Kind: identity.KindUsername, Value: "Alice"}
		assert.Equal(t, "alice", ident.Normalize().Value)
	})

	t.Run("preserves federated subject case", func(t *testing.T) {
		t.Parallel()

		ident := identity.NewFederated("google", "SubJect")
		assert.Equal(t, "SubJect", ident.Normalize().Value)
	})
}

func TestUserChannelHelpers(t *testing.T) {
	t.Parallel()

	user := &identity.User{
		Email:         "a@x.com",
		Phone:         "+15550001111",
		EmailVerified: true,
	}

	assert.Equal(t, "a@x.com", user.ChannelValue(identity.KindEmail))
	assert.Equal(t, "+15550001111", user.ChannelValue(identity.KindPhone))
	assert.True(t, user.ChannelVerified(identity.KindEmail))
	assert.False(t, user.ChannelVerified(identity.KindPhone))
	assert.False(t, user.HasPassword())

	user.PasswordHash = []byte("hash")
	assert.True(t, user.HasPassword())
}
