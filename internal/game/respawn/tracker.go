// Package respawn keeps the per-room ledgers of defeated creatures and
// removed floor items until their replacements come due.
package respawn

import (
	"sync"
	"time"

	"github.com/ironvale/mud/internal/game/world"
)

// CreatureEntry records one defeated creature awaiting replacement.
type CreatureEntry struct {
	// BlueprintID identifies the creature to respawn.
	BlueprintID string
	// DiedAt is when the creature was defeated.
	DiedAt time.Time
	// Delay is how long after death the replacement comes due.
	Delay time.Duration
}

// ItemEntry records one removed floor item awaiting replacement. The full
// spawn definition rides along so the replacement matches the original even
// after a content reload.
type ItemEntry struct {
	// Spawn is the room's original item spawn definition.
	Spawn world.ItemSpawn
	// RemovedAt is when the item left the floor.
	RemovedAt time.Time
	// Delay is how long after removal the replacement comes due.
	Delay time.Duration
}

// Tracker owns both respawn ledgers behind a single mutex. Entries are
// appended when deaths and pickups happen on session goroutines and drained
// by the world tick; the shared lock keeps the two ledgers mutually
// consistent for a room.
//
// Invariant: every entry has Delay > 0; permanent deaths and removals are
// never recorded. An entry leaves a ledger for good only when its replacement
// has actually been produced: callers hand back drained entries they could
// not fill via RequeueCreature and RequeueItem.
type Tracker struct {
	mu        sync.Mutex
	creatures map[string][]CreatureEntry // roomID → pending creature respawns
	items     map[string][]ItemEntry     // roomID → pending item respawns
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		creatures: make(map[string][]CreatureEntry),
		items:     make(map[string][]ItemEntry),
	}
}

// RecordCreatureDeath appends a creature ledger entry for roomID.
// No-op when delay <= 0: the death is permanent.
//
// Precondition: roomID and blueprintID are non-empty; diedAt is not zero.
// Postcondition: the entry matures at diedAt+delay.
func (t *Tracker) RecordCreatureDeath(roomID, blueprintID string, diedAt time.Time, delay time.Duration) {
	if delay <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creatures[roomID] = append(t.creatures[roomID], CreatureEntry{
		BlueprintID: blueprintID,
		DiedAt:      diedAt,
		Delay:       delay,
	})
}

// RecordItemRemoval appends an item ledger entry for roomID carrying the
// original spawn definition. No-op when the definition has no respawn delay.
//
// Precondition: roomID is non-empty; removedAt is not zero.
func (t *Tracker) RecordItemRemoval(roomID string, spawn world.ItemSpawn, removedAt time.Time) {
	delay := spawn.Delay()
	if delay <= 0 {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[roomID] = append(t.items[roomID], ItemEntry{
		Spawn:     spawn,
		RemovedAt: removedAt,
		Delay:     delay,
	})
}

// DueCreatures drains and returns the matured creature entries for roomID:
// those where at least Delay has elapsed since DiedAt. Unmatured entries stay
// queued. A drained entry that does not produce a replacement must be handed
// back with RequeueCreature so it is retried on the next drain.
//
// Postcondition: returned entries are no longer in the ledger.
func (t *Tracker) DueCreatures(roomID string, now time.Time) []CreatureEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var due []CreatureEntry
	remaining := t.creatures[roomID][:0]
	for _, e := range t.creatures[roomID] {
		if now.Before(e.DiedAt.Add(e.Delay)) {
			remaining = append(remaining, e)
			continue
		}
		due = append(due, e)
	}
	if len(remaining) == 0 {
		delete(t.creatures, roomID)
	} else {
		t.creatures[roomID] = remaining
	}
	return due
}

// DueItems drains and returns the matured item entries for roomID.
//
// Postcondition: returned entries are no longer in the ledger.
func (t *Tracker) DueItems(roomID string, now time.Time) []ItemEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	var due []ItemEntry
	remaining := t.items[roomID][:0]
	for _, e := range t.items[roomID] {
		if now.Before(e.RemovedAt.Add(e.Delay)) {
			remaining = append(remaining, e)
			continue
		}
		due = append(due, e)
	}
	if len(remaining) == 0 {
		delete(t.items, roomID)
	} else {
		t.items[roomID] = remaining
	}
	return due
}

// RequeueCreature puts a drained entry back on the ledger with its original
// timestamps, so a matured entry stays matured and comes due again on the
// next drain. Used when the replacement could not be produced yet, such as a
// room already at its live count.
func (t *Tracker) RequeueCreature(roomID string, entry CreatureEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creatures[roomID] = append(t.creatures[roomID], entry)
}

// RequeueItem puts a drained item entry back on the ledger with its original
// timestamps.
func (t *Tracker) RequeueItem(roomID string, entry ItemEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[roomID] = append(t.items[roomID], entry)
}

// PendingCreatures returns the number of queued creature entries for roomID.
func (t *Tracker) PendingCreatures(roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.creatures[roomID])
}

// PendingItems returns the number of queued item entries for roomID.
func (t *Tracker) PendingItems(roomID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items[roomID])
}

// Reset clears both ledgers. Used when the world is repopulated from scratch.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.creatures = make(map[string][]CreatureEntry)
	t.items = make(map[string][]ItemEntry)
}
