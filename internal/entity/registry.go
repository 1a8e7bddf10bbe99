package entity

import (
	"fmt"
	"sort"
	"sync"
)

// Registry keeps a thread-safe set of entities keyed by entity id.
type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
	}
}

// Register adds an entity under id. Ids are unique.
func (r *Registry) Register(id string, e Entity) error {
	if e == nil {
		return fmt.Errorf("register %s: nil entity", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entities[id]; exists {
		return fmt.Errorf("register %s: already registered", id)
	}
	r.entities[id] = e
	return nil
}

// Get retrieves an entity by id.
func (r *Registry) Get(id string) (Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entities[id]
	return e, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.entities))
	for id := range r.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Views returns the current state of every entity, sorted by id.
func (r *Registry) Views() []StateView {
	ids := r.IDs()
	views := make([]StateView, 0, len(ids))
	for _, id := range ids {
		if e, ok := r.Get(id); ok {
			views = append(views, View(id, e))
		}
	}
	return views
}
