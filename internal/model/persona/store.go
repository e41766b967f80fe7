package persona

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a persona id is not registered.
var ErrNotFound = errors.New("persona not found")

// Store exposes persona lookup.
type Store interface {
	List() []Persona
	FindByID(id string) (Persona, bool)
}

// MemoryStore keeps personas in registration order.
type MemoryStore struct {
	items []Persona
	index map[string]int
}

// NewMemoryStore returns a MemoryStore preloaded with items. Later duplicates
// replace earlier entries with the same id.
func NewMemoryStore(items []Persona) *MemoryStore {
	s := &MemoryStore{index: make(map[string]int, len(items))}
	for _, item := range items {
		if i, ok := s.index[item.ID]; ok {
			s.items[i] = item
			continue
		}
		s.index[item.ID] = len(s.items)
		s.items = append(s.items, item)
	}
	return s
}

// List returns a copy of the registered personas.
func (s *MemoryStore) List() []Persona {
	return append([]Persona(nil), s.items...)
}

// FindByID looks up a persona by identifier.
func (s *MemoryStore) FindByID(id string) (Persona, bool) {
	i, ok := s.index[id]
	if !ok {
		return Persona{}, false
	}
	return s.items[i], true
}

// Resolve is FindByID with an error for callers that need to fail fast.
func Resolve(store Store, id string) (Persona, error) {
	p, ok := store.FindByID(id)
	if !ok {
		return Persona{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return p, nil
}
