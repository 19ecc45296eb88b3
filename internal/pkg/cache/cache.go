package cache

import (
	"sync"
	"time"
)

// Store is an in-process memoization cache with explicit scope
// invalidation. Every entry belongs to a scope (e.g. one staff member's
// month) and carries the scope version it was written under. Invalidate
// bumps the scope version, which makes every existing entry in that scope
// unreachable immediately; the TTL is only a secondary sweep for scopes
// that never see a write.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	entries  map[string]entry
	versions map[string]uint64

	// now is replaceable in tests
	now func() time.Time
}

type entry struct {
	value     interface{}
	version   uint64
	expiresAt time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		entries:  make(map[string]entry),
		versions: make(map[string]uint64),
		now:      time.Now,
	}
}

// Get returns the cached value for key within scope, if it was written
// under the current scope version and has not expired.
func (s *Store) Get(scope, key string) (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[scope+"\x00"+key]
	if !ok {
		return nil, false
	}
	if e.version != s.versions[scope] || s.now().After(e.expiresAt) {
		delete(s.entries, scope+"\x00"+key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under the scope's current version.
func (s *Store) Set(scope, key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[scope+"\x00"+key] = entry{
		value:     value,
		version:   s.versions[scope],
		expiresAt: s.now().Add(s.ttl),
	}
}

// Invalidate bumps the scope version. Entries written under older
// versions are dropped lazily on the next Get.
func (s *Store) Invalidate(scope string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[scope]++
}

// Version reports the current version token of a scope. Useful for
// callers that want to embed the token in their own keys.
func (s *Store) Version(scope string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.versions[scope]
}
