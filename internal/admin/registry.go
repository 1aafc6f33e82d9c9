// Package admin holds the process-lifetime registry of authorized users.
// The registry is injected into the pipeline; it is never ambient state.
// Membership does not survive restarts.
package admin

import (
	"sync"
)

// Registry is a mutable set of admin user IDs with one pinned developer.
// The developer is always a member and can never be removed. Safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	developerID string
	ids         []string // insertion order, for stable listing
	members     map[string]struct{}
}

// NewRegistry creates a registry seeded with the developer and the initial
// admin list. Duplicates and empty entries are dropped.
func NewRegistry(developerID string, initial []string) *Registry {
	r := &Registry{
		developerID: developerID,
		members:     make(map[string]struct{}),
	}
	r.add(developerID)
	for _, id := range initial {
		r.add(id)
	}
	return r
}

func (r *Registry) add(id string) bool {
	if id == "" {
		return false
	}
	if _, ok := r.members[id]; ok {
		return false
	}
	r.members[id] = struct{}{}
	r.ids = append(r.ids, id)
	return true
}

// Add inserts a user ID. Returns false if already a member.
func (r *Registry) Add(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.add(id)
}

// Remove deletes a user ID. Returns false if not a member or if id is
// the pinned developer.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == r.developerID {
		return false
	}
	if _, ok := r.members[id]; !ok {
		return false
	}
	delete(r.members, id)
	for i, existing := range r.ids {
		if existing == id {
			r.ids = append(r.ids[:i], r.ids[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether id is an admin.
func (r *Registry) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.members[id]
	return ok
}

// IsDeveloper reports whether id is the pinned developer.
func (r *Registry) IsDeveloper(id string) bool {
	return id == r.developerID
}

// List returns all admin IDs in insertion order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}
