package player

import (
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
)

// Stack is a persisted inventory line: blueprint ID plus quantity.
type Stack struct {
	Blueprint string `json:"blueprint"`
	Quantity  int    `json:"quantity"`
}

// Snapshot carries the persisted fields of a participant. Derived stats are
// not stored; they are recomputed on restore.
type Snapshot struct {
	Name      string
	ClassID   string
	RaceID    string
	Level     int
	XP        int
	CurrentHP int
	RoomID    string
	Equipment map[string]string
	Inventory []Stack
}

// Snapshot captures the participant's persistable state.
//
// Postcondition: the returned value shares no mutable state with p.
func (p *Participant) Snapshot() Snapshot {
	snap := Snapshot{
		Name:      p.Name,
		ClassID:   p.ClassID,
		RaceID:    p.RaceID,
		Level:     p.Level,
		XP:        p.XP,
		CurrentHP: p.CurrentHP,
		RoomID:    p.RoomID,
		Equipment: make(map[string]string, len(p.Equipment)),
	}
	for slot, inst := range p.Equipment {
		if inst != nil {
			snap.Equipment[slot] = inst.BlueprintID
		}
	}
	for _, inst := range p.Inventory.Items() {
		snap.Inventory = append(snap.Inventory, Stack{Blueprint: inst.BlueprintID, Quantity: inst.Quantity})
	}
	return snap
}

// Restore rebuilds a Participant from a snapshot. Unknown equipment or
// inventory blueprints are skipped rather than failing the whole load, so a
// content change between sessions cannot lock a character out.
//
// Precondition: snap.ClassID and snap.RaceID are registered in rules.
// Postcondition: CurrentHP is clamped to [1, MaxHP]; a character never loads
// dead.
func Restore(uid string, snap Snapshot, rules *ruleset.Registry, items *item.Registry) (*Participant, error) {
	p, err := New(uid, snap.Name, snap.ClassID, snap.RaceID, rules, items)
	if err != nil {
		return nil, err
	}

	if snap.Level > 1 {
		p.Level = snap.Level
		p.NextLevelXP = StartingNextLevelXP
		for i := 1; i < snap.Level; i++ {
			p.NextLevelXP *= 2
		}
	}
	p.XP = snap.XP

	for slot, blueprintID := range snap.Equipment {
		if _, ok := items.Blueprint(blueprintID); !ok {
			continue
		}
		if _, err := p.Equip(slot, item.NewInstance(blueprintID, 1), rules, items); err != nil {
			continue
		}
	}
	for _, stack := range snap.Inventory {
		if _, ok := items.Blueprint(stack.Blueprint); !ok {
			continue
		}
		if stack.Quantity < 1 {
			continue
		}
		p.Inventory.Add(item.NewInstance(stack.Blueprint, stack.Quantity), items)
	}

	if err := p.Recalculate(rules, items); err != nil {
		return nil, err
	}

	p.CurrentHP = snap.CurrentHP
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
	if p.CurrentHP < 1 {
		p.CurrentHP = 1
	}
	p.RoomID = snap.RoomID
	return p, nil
}
