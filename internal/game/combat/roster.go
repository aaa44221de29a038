package combat

import "sync"

// Roster is the registry of creature instances currently engaged in combat.
// It owns its lock; callers never see the backing map, only snapshots.
//
// Invariant: an ID is present iff the creature is engaged with a participant.
type Roster struct {
	mu      sync.RWMutex
	engaged map[string]bool
}

// NewRoster creates an empty Roster.
func NewRoster() *Roster {
	return &Roster{engaged: make(map[string]bool)}
}

// Add registers a creature instance ID as engaged.
//
// Precondition: id must be non-empty.
// Postcondition: Contains(id) returns true. Adding an already-engaged ID is a
// no-op.
func (r *Roster) Add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.engaged[id] = true
}

// Remove deregisters a creature instance ID.
//
// Postcondition: Contains(id) returns false. Removing an absent ID is a no-op.
func (r *Roster) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.engaged, id)
}

// Contains reports whether the creature instance is engaged.
func (r *Roster) Contains(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.engaged[id]
}

// IDs returns a snapshot of all engaged creature instance IDs.
//
// Postcondition: mutations of the returned slice do not affect the roster.
func (r *Roster) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.engaged))
	for id := range r.engaged {
		out = append(out, id)
	}
	return out
}

// Len returns the number of engaged creatures.
func (r *Roster) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engaged)
}
