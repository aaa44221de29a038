package item

import (
	"strings"
	"sync"
)

// Floor tracks item instances lying on the ground of rooms.
// It is thread-safe via sync.RWMutex.
type Floor struct {
	mu    sync.RWMutex
	reg   *Registry
	rooms map[string][]Instance
}

// NewFloor creates a Floor with no items in any room.
//
// Precondition: reg is non-nil.
// Postcondition: returned Floor is ready for use with zero items.
func NewFloor(reg *Registry) *Floor {
	return &Floor{
		reg:   reg,
		rooms: make(map[string][]Instance),
	}
}

// Drop places an item instance on the floor of the given room, merging into
// an existing stack when the blueprint is stackable.
//
// Precondition: roomID is non-empty; inst.Quantity >= 1.
func (f *Floor) Drop(roomID string, inst Instance) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if def, ok := f.reg.Blueprint(inst.BlueprintID); ok && def.Stackable {
		items := f.rooms[roomID]
		for i := range items {
			if items[i].BlueprintID == inst.BlueprintID {
				items[i].Quantity += inst.Quantity
				return
			}
		}
	}
	f.rooms[roomID] = append(f.rooms[roomID], inst)
}

// Take removes qty units of the first floor stack whose blueprint name or ID
// starts with the given prefix (case-insensitive). Returns the removed stack
// and true, or a zero Instance and false when nothing matches or the stack is
// too small.
//
// Precondition: qty >= 1.
// Postcondition: on success the room's floor holds qty fewer units.
func (f *Floor) Take(roomID, prefix string, qty int) (Instance, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p := strings.ToLower(prefix)
	items := f.rooms[roomID]
	for i := range items {
		if !f.matches(items[i].BlueprintID, p) {
			continue
		}
		if items[i].Quantity < qty {
			return Instance{}, false
		}
		if items[i].Quantity == qty {
			taken := items[i]
			f.rooms[roomID] = append(items[:i], items[i+1:]...)
			return taken, true
		}
		items[i].Quantity -= qty
		out := NewInstance(items[i].BlueprintID, qty)
		return out, true
	}
	return Instance{}, false
}

// ItemsInRoom returns a snapshot copy of all items on the room's floor.
//
// Postcondition: mutations of the returned slice do not affect internal state.
func (f *Floor) ItemsInRoom(roomID string) []Instance {
	f.mu.RLock()
	defer f.mu.RUnlock()
	items := f.rooms[roomID]
	out := make([]Instance, len(items))
	copy(out, items)
	return out
}

// Clear removes every item from the room's floor.
// Used when a room is repopulated from its definitions.
func (f *Floor) Clear(roomID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rooms, roomID)
}

// CountInRoom returns the total units of the given blueprint on the floor.
func (f *Floor) CountInRoom(roomID, blueprintID string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	total := 0
	for _, inst := range f.rooms[roomID] {
		if inst.BlueprintID == blueprintID {
			total += inst.Quantity
		}
	}
	return total
}

func (f *Floor) matches(blueprintID, lowerPrefix string) bool {
	if strings.HasPrefix(strings.ToLower(blueprintID), lowerPrefix) {
		return true
	}
	if def, ok := f.reg.Blueprint(blueprintID); ok {
		return strings.HasPrefix(strings.ToLower(def.Name), lowerPrefix)
	}
	return false
}
