// Package clientstore models the per-identity storage the storefront UI uses
// for cart, wishlist and recently-viewed lists. Every key is namespaced by an
// identity value (a guest id before sign-in, the user id after), and an
// explicit migration step re-binds the buckets when the identity changes.
package clientstore

import (
	"sync"

	"github.com/google/uuid"
)

// Bucket names shared with the storefront.
const (
	KeyCart           = "cart"
	KeyWishlist       = "wishlist"
	KeyRecentlyViewed = "recently_viewed"
)

// Store is the backing key-value collaborator.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

// MemoryStore is a Store backed by a map, safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// GuestIdentity returns a fresh identity for a not-signed-in visitor.
func GuestIdentity() string {
	return "guest-" + uuid.NewString()
}

// Scoped is a view of a Store bound to one identity. All keys are prefixed
// with the identity, so two identities never see each other's buckets.
type Scoped struct {
	store    Store
	identity string
}

func NewScoped(store Store, identity string) *Scoped {
	return &Scoped{store: store, identity: identity}
}

func (s *Scoped) Identity() string {
	return s.identity
}

func (s *Scoped) Get(key string) (string, bool) {
	return s.store.Get(s.scopedKey(key))
}

func (s *Scoped) Set(key, value string) {
	s.store.Set(s.scopedKey(key), value)
}

func (s *Scoped) Delete(key string) {
	s.store.Delete(s.scopedKey(key))
}

// Rebind switches the view to a new identity, moving the named buckets from
// the old namespace into the new one. Buckets already present under the new
// identity win: a returning user keeps their saved cart, the guest copy is
// dropped.
func (s *Scoped) Rebind(newIdentity string, keys ...string) {
	if newIdentity == s.identity {
		return
	}

	old := s.identity
	s.identity = newIdentity

	for _, key := range keys {
		oldKey := old + ":" + key
		value, ok := s.store.Get(oldKey)
		if !ok {
			continue
		}
		if _, exists := s.Get(key); !exists {
			s.Set(key, value)
		}
		s.store.Delete(oldKey)
	}
}

func (s *Scoped) scopedKey(key string) string {
	return s.identity + ":" + key
}
