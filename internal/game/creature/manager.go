package creature

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// Manager tracks all live creature instances by ID and by room.
// All methods are safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*Instance       // instanceID → Instance
	roomSets  map[string]map[string]bool // roomID → set of instanceIDs
	counter   atomic.Uint64
}

// NewManager creates an empty creature Manager.
func NewManager() *Manager {
	return &Manager{
		instances: make(map[string]*Instance),
		roomSets:  make(map[string]map[string]bool),
	}
}

// Spawn creates a new Instance from bp and places it in roomID.
//
// Precondition: bp must be non-nil; roomID must be non-empty.
// Postcondition: Returns a new Instance with a unique ID registered in roomID.
func (m *Manager) Spawn(bp *Blueprint, roomID string) (*Instance, error) {
	if bp == nil {
		return nil, fmt.Errorf("creature.Manager.Spawn: bp must not be nil")
	}
	if roomID == "" {
		return nil, fmt.Errorf("creature.Manager.Spawn: roomID must not be empty")
	}

	n := m.counter.Add(1)
	id := fmt.Sprintf("%s-%s-%d", bp.ID, roomID, n)
	inst := NewInstance(id, bp, roomID)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.instances[id] = inst
	if m.roomSets[roomID] == nil {
		m.roomSets[roomID] = make(map[string]bool)
	}
	m.roomSets[roomID][id] = true

	return inst, nil
}

// Remove deletes an instance by ID.
//
// Precondition: id must be non-empty.
// Postcondition: Returns an error if the instance is not found.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst, ok := m.instances[id]
	if !ok {
		return fmt.Errorf("creature instance %q not found", id)
	}

	if rs, ok := m.roomSets[inst.RoomID]; ok {
		delete(rs, id)
		if len(rs) == 0 {
			delete(m.roomSets, inst.RoomID)
		}
	}
	delete(m.instances, id)
	return nil
}

// ClearRoom removes every instance registered in roomID.
// Used when a room is repopulated from its definitions.
func (m *Manager) ClearRoom(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id := range m.roomSets[roomID] {
		delete(m.instances, id)
	}
	delete(m.roomSets, roomID)
}

// Get returns the instance with the given ID.
//
// Postcondition: Returns (inst, true) if found, or (nil, false) otherwise.
func (m *Manager) Get(id string) (*Instance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.instances[id]
	return inst, ok
}

// InstancesInRoom returns a snapshot of all live instances in roomID.
//
// Postcondition: Returns a non-nil slice (may be empty).
func (m *Manager) InstancesInRoom(roomID string) []*Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.roomSets[roomID]
	if !ok {
		return []*Instance{}
	}

	out := make([]*Instance, 0, len(ids))
	for id := range ids {
		if inst, ok := m.instances[id]; ok {
			out = append(out, inst)
		}
	}
	return out
}

// AliveInRoom returns a snapshot of the living instances in roomID.
//
// Postcondition: every returned instance satisfies Alive().
func (m *Manager) AliveInRoom(roomID string) []*Instance {
	all := m.InstancesInRoom(roomID)
	out := make([]*Instance, 0, len(all))
	for _, inst := range all {
		if inst.Alive() {
			out = append(out, inst)
		}
	}
	return out
}

// CountAlive returns the number of living instances of the given blueprint in
// roomID. The respawn pass uses it to gate replacements against the room's
// definition count.
func (m *Manager) CountAlive(roomID, blueprintID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for id := range m.roomSets[roomID] {
		inst, ok := m.instances[id]
		if ok && inst.BlueprintID == blueprintID && inst.Alive() {
			count++
		}
	}
	return count
}

// FindInRoom returns the first living instance in roomID whose Name has
// target as a case-insensitive prefix. Returns nil if no match is found.
//
// Precondition: roomID and target must be non-empty for meaningful results.
func (m *Manager) FindInRoom(roomID, target string) *Instance {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids, ok := m.roomSets[roomID]
	if !ok {
		return nil
	}

	lower := strings.ToLower(target)
	for id := range ids {
		inst, ok := m.instances[id]
		if !ok || !inst.Alive() {
			continue
		}
		if strings.HasPrefix(strings.ToLower(inst.Name), lower) {
			return inst
		}
	}
	return nil
}
