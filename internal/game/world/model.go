// Package world provides the game world model: zones, rooms, exits, and
// the spawn definitions that drive respawning.
package world

import (
	"fmt"
	"time"
)

// Direction represents a compass direction or named exit.
type Direction string

// Standard compass directions and vertical movements.
const (
	North     Direction = "north"
	South     Direction = "south"
	East      Direction = "east"
	West      Direction = "west"
	Northeast Direction = "northeast"
	Northwest Direction = "northwest"
	Southeast Direction = "southeast"
	Southwest Direction = "southwest"
	Up        Direction = "up"
	Down      Direction = "down"
)

// StandardDirections contains all standard compass and vertical directions.
var StandardDirections = []Direction{
	North, South, East, West,
	Northeast, Northwest, Southeast, Southwest,
	Up, Down,
}

// IsStandard reports whether d is one of the ten standard directions.
func (d Direction) IsStandard() bool {
	for _, sd := range StandardDirections {
		if d == sd {
			return true
		}
	}
	return false
}

// Opposite returns the opposite of a standard direction.
// For custom directions, it returns an empty string.
//
// Exits are directed: a passage north does not imply a passage back, so
// Opposite is a convenience for world authors, not a lookup rule.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	case Northeast:
		return Southwest
	case Southwest:
		return Northeast
	case Northwest:
		return Southeast
	case Southeast:
		return Northwest
	case Up:
		return Down
	case Down:
		return Up
	default:
		return ""
	}
}

// Exit represents a one-way passage from one room to another.
type Exit struct {
	// Direction is the compass direction or named exit (e.g., "stairs").
	Direction Direction
	// TargetRoom is the ID of the destination room.
	TargetRoom string
	// Locked indicates the exit requires a key or condition to pass.
	Locked bool
	// Hidden indicates the exit is not visible by default.
	Hidden bool
}

// CreatureSpawn defines how many instances of a creature blueprint populate a
// room and how long after a death a replacement appears.
type CreatureSpawn struct {
	// Blueprint is the creature blueprint ID to spawn.
	Blueprint string
	// Count is the number of live instances this room sustains.
	Count int
	// RespawnDelay is a duration string (e.g. "5m"). Empty or zero means
	// deaths in this room are permanent.
	RespawnDelay string
}

// Delay returns the parsed respawn delay, or zero for permanent deaths.
func (s CreatureSpawn) Delay() time.Duration {
	if s.RespawnDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RespawnDelay)
	if err != nil {
		return 0
	}
	return d
}

// ItemSpawn defines an item stack that populates a room's floor and how long
// after removal a replacement appears.
type ItemSpawn struct {
	// Blueprint is the item blueprint ID to place.
	Blueprint string
	// Quantity is the stack size placed on the floor.
	Quantity int
	// RespawnDelay is a duration string. Empty or zero means removed items
	// never come back.
	RespawnDelay string
}

// Delay returns the parsed respawn delay, or zero for permanent removal.
func (s ItemSpawn) Delay() time.Duration {
	if s.RespawnDelay == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RespawnDelay)
	if err != nil {
		return 0
	}
	return d
}

// Room represents a location in the game world.
type Room struct {
	// ID uniquely identifies this room within the zone.
	ID string
	// ZoneID identifies the zone this room belongs to.
	ZoneID string
	// Title is the short display name of the room.
	Title string
	// Description is the multi-line room description shown to players.
	Description string
	// Exits lists all passages leading out of this room.
	Exits []Exit
	// Properties holds environment tags (lighting, atmosphere, etc.).
	Properties map[string]string
	// CreatureSpawns lists the creatures that populate this room.
	CreatureSpawns []CreatureSpawn
	// ItemSpawns lists the floor items that populate this room.
	ItemSpawns []ItemSpawn
}

// ExitForDirection returns the exit in the given direction, if one exists.
//
// Postcondition: Returns (exit, true) if found, or (Exit{}, false) otherwise.
func (r *Room) ExitForDirection(dir Direction) (Exit, bool) {
	for _, e := range r.Exits {
		if e.Direction == dir {
			return e, true
		}
	}
	return Exit{}, false
}

// VisibleExits returns all non-hidden exits from this room.
//
// Postcondition: Returns a slice of exits where Hidden is false.
func (r *Room) VisibleExits() []Exit {
	var visible []Exit
	for _, e := range r.Exits {
		if !e.Hidden {
			visible = append(visible, e)
		}
	}
	return visible
}

// CreatureSpawnFor returns the room's spawn definition for the given
// blueprint, if one exists.
func (r *Room) CreatureSpawnFor(blueprintID string) (CreatureSpawn, bool) {
	for _, s := range r.CreatureSpawns {
		if s.Blueprint == blueprintID {
			return s, true
		}
	}
	return CreatureSpawn{}, false
}

// ItemSpawnFor returns the room's item spawn definition for the given
// blueprint, if one exists.
func (r *Room) ItemSpawnFor(blueprintID string) (ItemSpawn, bool) {
	for _, s := range r.ItemSpawns {
		if s.Blueprint == blueprintID {
			return s, true
		}
	}
	return ItemSpawn{}, false
}

// Zone groups related rooms into a themed area.
type Zone struct {
	// ID uniquely identifies this zone.
	ID string
	// Name is the display name of the zone.
	Name string
	// Description summarizes the zone's theme.
	Description string
	// StartRoom is the ID of the default entry room.
	StartRoom string
	// Rooms contains all rooms in this zone, keyed by room ID.
	Rooms map[string]*Room
	// ScriptDir is the path to Lua scripts for this zone. Empty = no scripts.
	ScriptDir string
	// ScriptInstructionLimit overrides the default VM instruction limit.
	// 0 = use the default.
	ScriptInstructionLimit int
}

// Validate checks zone invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (z *Zone) Validate() error {
	if z.ID == "" {
		return fmt.Errorf("zone ID must not be empty")
	}
	if z.Name == "" {
		return fmt.Errorf("zone %q: name must not be empty", z.ID)
	}
	if z.StartRoom == "" {
		return fmt.Errorf("zone %q: start_room must not be empty", z.ID)
	}
	if len(z.Rooms) == 0 {
		return fmt.Errorf("zone %q: must contain at least one room", z.ID)
	}
	if _, ok := z.Rooms[z.StartRoom]; !ok {
		return fmt.Errorf("zone %q: start_room %q not found in rooms", z.ID, z.StartRoom)
	}
	for id, room := range z.Rooms {
		if room.ID != id {
			return fmt.Errorf("zone %q: room key %q does not match room ID %q", z.ID, id, room.ID)
		}
		if room.Title == "" {
			return fmt.Errorf("zone %q: room %q: title must not be empty", z.ID, id)
		}
		if room.Description == "" {
			return fmt.Errorf("zone %q: room %q: description must not be empty", z.ID, id)
		}
		for _, exit := range room.Exits {
			if exit.TargetRoom == "" {
				return fmt.Errorf("zone %q: room %q: exit %q has empty target", z.ID, id, exit.Direction)
			}
			if _, ok := z.Rooms[exit.TargetRoom]; !ok {
				return fmt.Errorf("zone %q: room %q: exit %q targets unknown room %q", z.ID, id, exit.Direction, exit.TargetRoom)
			}
		}
		for _, s := range room.CreatureSpawns {
			if s.Blueprint == "" {
				return fmt.Errorf("zone %q: room %q: creature spawn has empty blueprint", z.ID, id)
			}
			if s.Count < 1 {
				return fmt.Errorf("zone %q: room %q: creature spawn %q count must be >= 1", z.ID, id, s.Blueprint)
			}
			if s.RespawnDelay != "" {
				if _, err := time.ParseDuration(s.RespawnDelay); err != nil {
					return fmt.Errorf("zone %q: room %q: creature spawn %q: bad respawn_delay: %w", z.ID, id, s.Blueprint, err)
				}
			}
		}
		for _, s := range room.ItemSpawns {
			if s.Blueprint == "" {
				return fmt.Errorf("zone %q: room %q: item spawn has empty blueprint", z.ID, id)
			}
			if s.Quantity < 1 {
				return fmt.Errorf("zone %q: room %q: item spawn %q quantity must be >= 1", z.ID, id, s.Blueprint)
			}
			if s.RespawnDelay != "" {
				if _, err := time.ParseDuration(s.RespawnDelay); err != nil {
					return fmt.Errorf("zone %q: room %q: item spawn %q: bad respawn_delay: %w", z.ID, id, s.Blueprint, err)
				}
			}
		}
	}
	return nil
}
