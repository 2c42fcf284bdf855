// Package registry keeps the persistent mapping from stable element keys to
// WinAPI control ids.
package registry

import (
	"fmt"
	"sort"
)

// Floor is the id below every allocated control id. An empty registry hands
// out Floor+1 first.
const Floor = 100

// Entry is one key/id pair.
type Entry struct {
	Key string
	ID  int
}

// Registry maps stable keys to control ids. Ids are never reused: the
// allocation counter starts above the highest id ever loaded.
type Registry struct {
	ids   map[string]int
	next  int
	added int
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		ids:  make(map[string]int),
		next: Floor + 1,
	}
}

// FromMap builds a Registry from an existing mapping. The counter resumes one
// past the highest id present; Floor only applies to an empty mapping.
// Returns ErrInvalidID for a non-positive id and ErrEmptyKey for an empty key.
func FromMap(m map[string]int) (*Registry, error) {
	r := New()
	highest := 0
	for k, id := range m {
		if k == "" {
			return nil, ErrEmptyKey
		}
		if id <= 0 {
			return nil, fmt.Errorf("%w: %q has id %d", ErrInvalidID, k, id)
		}
		r.ids[k] = id
		highest = max(highest, id)
	}
	if len(m) > 0 {
		r.next = highest + 1
	}
	return r, nil
}

// GetOrAssign returns the id stored for key, allocating the next free id when
// the key is new.
func (r *Registry) GetOrAssign(key string) int {
	if id, ok := r.ids[key]; ok {
		return id
	}
	id := r.next
	r.ids[key] = id
	r.next++
	r.added++
	return id
}

// Lookup returns the id stored for key.
func (r *Registry) Lookup(key string) (int, bool) {
	id, ok := r.ids[key]
	return id, ok
}

// Next is the id the next new key will receive.
func (r *Registry) Next() int { return r.next }

// Len is the number of keys in the registry.
func (r *Registry) Len() int { return len(r.ids) }

// Added is the number of keys allocated since the registry was created or loaded.
func (r *Registry) Added() int { return r.added }

// Entries returns all pairs ordered by id, then key.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.ids))
	for k, id := range r.ids {
		out = append(out, Entry{Key: k, ID: id})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Map returns a copy of the mapping.
func (r *Registry) Map() map[string]int {
	out := make(map[string]int, len(r.ids))
	for k, id := range r.ids {
		out[k] = id
	}
	return out
}
