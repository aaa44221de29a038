package player

import (
	"fmt"
	"strings"

	"github.com/ironvale/mud/internal/game/item"
)

// Inventory holds a participant's carried item stacks. Stackable blueprints
// merge into a single entry; everything else keeps its own instance.
//
// Inventory is not self-synchronizing; mutations happen under the game
// facade like the rest of the participant.
type Inventory struct {
	entries []item.Instance
}

// NewInventory returns an empty Inventory.
func NewInventory() *Inventory {
	return &Inventory{}
}

// Add places an instance in the inventory, merging into an existing stack
// when the blueprint is stackable.
//
// Precondition: inst.Quantity >= 1.
func (inv *Inventory) Add(inst item.Instance, reg *item.Registry) {
	if def, ok := reg.Blueprint(inst.BlueprintID); ok && def.Stackable {
		for i := range inv.entries {
			if inv.entries[i].BlueprintID == inst.BlueprintID {
				inv.entries[i].Quantity += inst.Quantity
				return
			}
		}
	}
	inv.entries = append(inv.entries, inst)
}

// Remove takes qty units of the given blueprint out of the inventory. A stack
// drained to zero is deleted.
//
// Precondition: qty >= 1.
// Postcondition: on success the returned Instance has Quantity == qty; on
// error the inventory is unchanged.
func (inv *Inventory) Remove(blueprintID string, qty int) (item.Instance, error) {
	for i := range inv.entries {
		if inv.entries[i].BlueprintID != blueprintID {
			continue
		}
		if inv.entries[i].Quantity < qty {
			return item.Instance{}, fmt.Errorf("player: carrying %d of %q, cannot remove %d",
				inv.entries[i].Quantity, blueprintID, qty)
		}
		if inv.entries[i].Quantity == qty {
			out := inv.entries[i]
			inv.entries = append(inv.entries[:i], inv.entries[i+1:]...)
			return out, nil
		}
		inv.entries[i].Quantity -= qty
		return item.NewInstance(blueprintID, qty), nil
	}
	return item.Instance{}, fmt.Errorf("player: not carrying %q", blueprintID)
}

// Find resolves a player-typed name to a carried instance. Matching is
// case-insensitive by blueprint ID or display name prefix.
//
// Postcondition: returns (instance, true) for the first match in carry order.
func (inv *Inventory) Find(query string, reg *item.Registry) (item.Instance, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return item.Instance{}, false
	}
	for _, e := range inv.entries {
		if strings.HasPrefix(strings.ToLower(e.BlueprintID), q) {
			return e, true
		}
		if strings.HasPrefix(strings.ToLower(e.DisplayName(reg)), q) {
			return e, true
		}
	}
	return item.Instance{}, false
}

// Items returns a snapshot copy of the carried stacks.
func (inv *Inventory) Items() []item.Instance {
	out := make([]item.Instance, len(inv.entries))
	copy(out, inv.entries)
	return out
}

// Weight returns the summed weight of everything carried.
func (inv *Inventory) Weight(reg *item.Registry) float64 {
	var total float64
	for _, e := range inv.entries {
		total += e.Weight(reg)
	}
	return total
}

// Len returns the number of distinct stacks.
func (inv *Inventory) Len() int {
	return len(inv.entries)
}
