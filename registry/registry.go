// Package registry provides the keyed tables a scope stores its registrations in.
//
// Tables are plain containers without internal locking. A table is owned by
// exactly one scope, and callers that share a scope across goroutines must
// serialize access themselves.
package registry

import (
	"fmt"
	"sort"
)

// Table maps keys to registered artifacts. Keys are unique per table and
// insertion order is irrelevant; a later Put for the same key replaces the
// earlier one. Entries are never removed.
type Table[K comparable, V any] struct {
	name    string
	entries map[K]V
}

// New creates an empty table. The name is used in error messages only.
func New[K comparable, V any](name string) *Table[K, V] {
	return &Table[K, V]{
		name:    name,
		entries: make(map[K]V),
	}
}

// Name returns the table name.
func (t *Table[K, V]) Name() string {
	return t.name
}

// Put stores value under key, replacing any existing entry.
func (t *Table[K, V]) Put(key K, value V) {
	t.entries[key] = value
}

// Get retrieves the entry for key.
// The boolean reports whether the key was present.
func (t *Table[K, V]) Get(key K) (V, bool) {
	value, exists := t.entries[key]
	return value, exists
}

// Has checks if an entry exists for the given key.
func (t *Table[K, V]) Has(key K) bool {
	_, exists := t.entries[key]
	return exists
}

// Len returns the number of entries.
func (t *Table[K, V]) Len() int {
	return len(t.entries)
}

// Keys returns all keys ordered by their fmt representation, so listings are
// stable between runs.
func (t *Table[K, V]) Keys() []K {
	keys := make([]K, 0, len(t.entries))
	for key := range t.entries {
		keys = append(keys, key)
	}

	sort.Slice(keys, func(i, j int) bool {
		return fmt.Sprint(keys[i]) < fmt.Sprint(keys[j])
	})

	return keys
}
