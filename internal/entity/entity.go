// Package entity models the host side of a pollable entity: the capability
// surface the scheduler and the state API consume, and the registry that
// holds entities by id.
package entity

import (
	"context"
	"strings"
	"time"
)

// StateUnknown is reported for an entity that has never refreshed successfully.
const StateUnknown = "unknown"

// Entity is a pollable, readable piece of state.
type Entity interface {
	Name() string
	State() (string, bool)
	Attributes() map[string]any
	Refresh(ctx context.Context) error
}

// refreshTimer is implemented by entities that know when their data was fetched.
type refreshTimer interface {
	RefreshedAt() time.Time
}

// ID builds a host entity id such as "sensor.football_data" from a platform domain and a display name.
func ID(domain, name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	slug := strings.TrimSuffix(b.String(), "_")
	if slug == "" {
		slug = "unnamed"
	}
	return domain + "." + slug
}

// StateView is the serialisable read model of an entity.
type StateView struct {
	EntityID      string         `json:"entity_id"`
	Name          string         `json:"name"`
	State         string         `json:"state"`
	Attributes    map[string]any `json:"attributes"`
	LastRefreshed *time.Time     `json:"last_refreshed,omitempty"`
}

// View reads the entity's current state and attributes.
func View(id string, e Entity) StateView {
	state, ok := e.State()
	if !ok {
		state = StateUnknown
	}
	view := StateView{
		EntityID:   id,
		Name:       e.Name(),
		State:      state,
		Attributes: e.Attributes(),
	}
	if rt, ok := e.(refreshTimer); ok {
		if at := rt.RefreshedAt(); !at.IsZero() {
			view.LastRefreshed = &at
		}
	}
	return view
}
