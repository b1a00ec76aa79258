// ABOUTME: Deduplicating string store for device identifiers
// ABOUTME: Interned names are stable for the lifetime of the set
package strset

import "sync"

// Set interns strings: equal inputs always yield the same stored value, so
// interned device names can be compared and handed out as stable IDs.
type Set struct {
	mu sync.Mutex
	m  map[string]string
}

func New() *Set {
	return &Set{m: make(map[string]string)}
}

// Intern stores v if it is not already present and returns the stored copy.
func (s *Set) Intern(v string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if got, ok := s.m[v]; ok {
		return got
	}
	s.m[v] = v
	return v
}

// Len returns the number of distinct strings stored.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
