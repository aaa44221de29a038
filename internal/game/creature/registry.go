package creature

import "fmt"

// Registry holds all loaded creature blueprints indexed by ID.
type Registry struct {
	blueprints map[string]*Blueprint
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{blueprints: make(map[string]*Blueprint)}
}

// Register adds bp to the registry.
//
// Precondition:  bp must not be nil.
// Postcondition: Blueprint(bp.ID) returns (bp, true); returns error if bp.ID
// is already registered.
func (r *Registry) Register(bp *Blueprint) error {
	if _, exists := r.blueprints[bp.ID]; exists {
		return fmt.Errorf("creature: Registry.Register: blueprint ID %q already registered", bp.ID)
	}
	r.blueprints[bp.ID] = bp
	return nil
}

// Blueprint returns the Blueprint for the given id and whether it was found.
//
// Postcondition: ok is true iff the id is registered.
func (r *Registry) Blueprint(id string) (*Blueprint, bool) {
	bp, ok := r.blueprints[id]
	return bp, ok
}

// All returns all registered blueprints in unspecified order.
func (r *Registry) All() []*Blueprint {
	out := make([]*Blueprint, 0, len(r.blueprints))
	for _, bp := range r.blueprints {
		out = append(out, bp)
	}
	return out
}
