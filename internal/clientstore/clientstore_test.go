package clientstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopedIsolatesIdentities(t *testing.T) {
	backend := NewMemoryStore()

	guest := NewScoped(backend, "guest-1")
	user := NewScoped(backend, "user-42")

	guest.Set(KeyCart, `[{"name":"Classic Tee"}]`)

	_, ok := user.Get(KeyCart)
	assert.False(t, ok, "another identity must not see the guest cart")

	value, ok := guest.Get(KeyCart)
	require.True(t, ok)
	assert.Equal(t, `[{"name":"Classic Tee"}]`, value)
}

func TestRebindMigratesBuckets(t *testing.T) {
	backend := NewMemoryStore()

	scoped := NewScoped(backend, "guest-1")
	scoped.Set(KeyCart, "guest-cart")
	scoped.Set(KeyWishlist, "guest-wishlist")

	scoped.Rebind("user-42", KeyCart, KeyWishlist, KeyRecentlyViewed)
	assert.Equal(t, "user-42", scoped.Identity())

	value, ok := scoped.Get(KeyCart)
	require.True(t, ok)
	assert.Equal(t, "guest-cart", value)

	value, ok = scoped.Get(KeyWishlist)
	require.True(t, ok)
	assert.Equal(t, "guest-wishlist", value)

	_, ok = backend.Get("guest-1:" + KeyCart)
	assert.False(t, ok, "old namespace should be cleared after migration")
}

func TestRebindKeepsExistingUserBuckets(t *testing.T) {
	backend := NewMemoryStore()
	backend.Set("user-42:"+KeyCart, "saved-cart")

	scoped := NewScoped(backend, "guest-1")
	scoped.Set(KeyCart, "guest-cart")

	scoped.Rebind("user-42", KeyCart)

	value, ok := scoped.Get(KeyCart)
	require.True(t, ok)
	assert.Equal(t, "saved-cart", value, "a returning user's saved cart wins over the guest copy")

	_, ok = backend.Get("guest-1:" + KeyCart)
	assert.False(t, ok)
}

func TestRebindSameIdentityIsNoop(t *testing.T) {
	backend := NewMemoryStore()

	scoped := NewScoped(backend, "user-42")
	scoped.Set(KeyCart, "cart")

	scoped.Rebind("user-42", KeyCart)

	value, ok := scoped.Get(KeyCart)
	require.True(t, ok)
	assert.Equal(t, "cart", value)
}

func TestGuestIdentity(t *testing.T) {
	first := GuestIdentity()
	second := GuestIdentity()

	assert.True(t, strings.HasPrefix(first, "guest-"))
	assert.NotEqual(t, first, second)
}
