// Package seen holds the in-memory set of topic keys that were already reported.
package seen

import "sort"

// Set is a grow-only collection of topic keys. It is not safe for
// concurrent use; the pipeline is its only writer.
type Set struct {
	keys map[string]struct{}
}

// New builds a set pre-populated with keys.
func New(keys ...string) *Set {
	s := &Set{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// Contains reports whether key is in the set.
func (s *Set) Contains(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Add inserts key and reports whether it was absent before.
func (s *Set) Add(key string) bool {
	if s.keys == nil {
		s.keys = map[string]struct{}{}
	}
	if _, ok := s.keys[key]; ok {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// Len returns the number of keys.
func (s *Set) Len() int {
	return len(s.keys)
}

// Keys returns a sorted snapshot of the set.
func (s *Set) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
