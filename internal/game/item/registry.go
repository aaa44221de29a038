package item

import "fmt"

// Registry holds all loaded item blueprints indexed by ID.
type Registry struct {
	blueprints map[string]*Blueprint
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{blueprints: make(map[string]*Blueprint)}
}

// Register adds b to the registry.
//
// Precondition:  b must not be nil.
// Postcondition: Blueprint(b.ID) returns (b, true); returns error if b.ID is
// already registered.
func (r *Registry) Register(b *Blueprint) error {
	if _, exists := r.blueprints[b.ID]; exists {
		return fmt.Errorf("item: Registry.Register: blueprint ID %q already registered", b.ID)
	}
	r.blueprints[b.ID] = b
	return nil
}

// Blueprint returns the Blueprint for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Blueprint(id string) (*Blueprint, bool) {
	b, ok := r.blueprints[id]
	return b, ok
}

// All returns all registered blueprints in unspecified order.
//
// Postcondition: len(result) == number of registered blueprints.
func (r *Registry) All() []*Blueprint {
	out := make([]*Blueprint, 0, len(r.blueprints))
	for _, b := range r.blueprints {
		out = append(out, b)
	}
	return out
}
