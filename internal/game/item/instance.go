package item

import "github.com/google/uuid"

// Instance represents a concrete stack of items in the live world.
// Identity-bearing state lives here; everything static comes from the
// blueprint it references.
type Instance struct {
	InstanceID  string
	BlueprintID string
	Quantity    int
}

// NewInstance creates an Instance of the given blueprint with quantity qty.
//
// Precondition: blueprintID is non-empty; qty >= 1.
// Postcondition: returned Instance has a fresh unique InstanceID.
func NewInstance(blueprintID string, qty int) Instance {
	return Instance{
		InstanceID:  uuid.New().String(),
		BlueprintID: blueprintID,
		Quantity:    qty,
	}
}

// Weight returns quantity times the blueprint weight.
// Unknown blueprints weigh nothing.
//
// Postcondition: result >= 0.
func (i Instance) Weight(reg *Registry) float64 {
	def, ok := reg.Blueprint(i.BlueprintID)
	if !ok {
		return 0
	}
	return float64(i.Quantity) * def.Weight
}

// DisplayName returns the blueprint name, falling back to the blueprint ID
// when the blueprint is unknown.
func (i Instance) DisplayName(reg *Registry) string {
	if def, ok := reg.Blueprint(i.BlueprintID); ok {
		return def.Name
	}
	return i.BlueprintID
}
