package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// VoidRoomID is the ID of the fallback room used when no world content loads.
const VoidRoomID = "the-void"

// yamlZoneFile is the top-level YAML structure for zone files.
type yamlZoneFile struct {
	Zone yamlZone `yaml:"zone"`
}

// yamlZone is the YAML representation of a zone.
type yamlZone struct {
	ID                     string     `yaml:"id"`
	Name                   string     `yaml:"name"`
	Description            string     `yaml:"description"`
	StartRoom              string     `yaml:"start_room"`
	ScriptDir              string     `yaml:"script_dir"`
	ScriptInstructionLimit int        `yaml:"script_instruction_limit"`
	Rooms                  []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	ID             string              `yaml:"id"`
	Title          string              `yaml:"title"`
	Description    string              `yaml:"description"`
	Exits          []yamlExit          `yaml:"exits"`
	Properties     map[string]string   `yaml:"properties"`
	CreatureSpawns []yamlCreatureSpawn `yaml:"creatures"`
	ItemSpawns     []yamlItemSpawn     `yaml:"items"`
}

// yamlExit is the YAML representation of an exit.
type yamlExit struct {
	Direction string `yaml:"direction"`
	Target    string `yaml:"target"`
	Locked    bool   `yaml:"locked"`
	Hidden    bool   `yaml:"hidden"`
}

// yamlCreatureSpawn is the YAML representation of a creature spawn definition.
type yamlCreatureSpawn struct {
	Blueprint    string `yaml:"blueprint"`
	Count        int    `yaml:"count"`
	RespawnDelay string `yaml:"respawn_delay"`
}

// yamlItemSpawn is the YAML representation of an item spawn definition.
type yamlItemSpawn struct {
	Blueprint    string `yaml:"blueprint"`
	Quantity     int    `yaml:"quantity"`
	RespawnDelay string `yaml:"respawn_delay"`
}

// LoadZoneFromFile reads and validates a single zone YAML file.
//
// Precondition: path must point to a valid YAML zone file.
// Postcondition: Returns a validated Zone or a non-nil error.
func LoadZoneFromFile(path string) (*Zone, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading zone file %s: %w", path, err)
	}
	return LoadZoneFromBytes(data)
}

// LoadZoneFromBytes parses and validates a zone from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the zone schema.
// Postcondition: Returns a validated Zone or a non-nil error.
func LoadZoneFromBytes(data []byte) (*Zone, error) {
	var file yamlZoneFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing zone YAML: %w", err)
	}

	zone := convertYAMLZone(file.Zone)
	if err := zone.Validate(); err != nil {
		return nil, fmt.Errorf("validating zone: %w", err)
	}

	return zone, nil
}

// LoadZonesFromDir loads all YAML files in a directory as zones.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated zones or the first error encountered.
func LoadZonesFromDir(dir string) ([]*Zone, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading zone directory %s: %w", dir, err)
	}

	var zones []*Zone
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		zone, err := LoadZoneFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading zone from %s: %w", name, err)
		}
		zones = append(zones, zone)
	}

	if len(zones) == 0 {
		return nil, fmt.Errorf("no zone files found in %s", dir)
	}

	return zones, nil
}

// LoadZonesOrDefault loads zones from dir, falling back to a single default
// void zone when the directory is unreadable or yields no valid zones. The
// server never starts with an empty world.
//
// Postcondition: Returns at least one zone; the fallback is logged at warn level.
func LoadZonesOrDefault(dir string, logger *zap.Logger) []*Zone {
	zones, err := LoadZonesFromDir(dir)
	if err != nil {
		logger.Warn("world content unavailable, starting with the void",
			zap.String("dir", dir),
			zap.Error(err),
		)
		return []*Zone{DefaultZone()}
	}
	return zones
}

// DefaultZone returns the single-room fallback world.
//
// Postcondition: the returned zone passes Validate.
func DefaultZone() *Zone {
	void := &Room{
		ID:          VoidRoomID,
		ZoneID:      "void",
		Title:       "The Void",
		Description: "You float in a featureless grey void. Something has gone wrong with the world.",
		Properties:  map[string]string{},
	}
	return &Zone{
		ID:        "void",
		Name:      "The Void",
		StartRoom: VoidRoomID,
		Rooms:     map[string]*Room{VoidRoomID: void},
	}
}

// convertYAMLZone converts the parsed YAML structures into domain types.
func convertYAMLZone(yz yamlZone) *Zone {
	zone := &Zone{
		ID:                     yz.ID,
		Name:                   yz.Name,
		Description:            yz.Description,
		StartRoom:              yz.StartRoom,
		ScriptDir:              yz.ScriptDir,
		ScriptInstructionLimit: yz.ScriptInstructionLimit,
		Rooms:                  make(map[string]*Room, len(yz.Rooms)),
	}

	for _, yr := range yz.Rooms {
		room := &Room{
			ID:          yr.ID,
			ZoneID:      yz.ID,
			Title:       yr.Title,
			Description: strings.TrimSpace(yr.Description),
			Properties:  yr.Properties,
		}
		if room.Properties == nil {
			room.Properties = make(map[string]string)
		}
		for _, ye := range yr.Exits {
			room.Exits = append(room.Exits, Exit{
				Direction:  Direction(ye.Direction),
				TargetRoom: ye.Target,
				Locked:     ye.Locked,
				Hidden:     ye.Hidden,
			})
		}
		for _, ys := range yr.CreatureSpawns {
			room.CreatureSpawns = append(room.CreatureSpawns, CreatureSpawn{
				Blueprint:    ys.Blueprint,
				Count:        ys.Count,
				RespawnDelay: ys.RespawnDelay,
			})
		}
		for _, ys := range yr.ItemSpawns {
			room.ItemSpawns = append(room.ItemSpawns, ItemSpawn{
				Blueprint:    ys.Blueprint,
				Quantity:     ys.Quantity,
				RespawnDelay: ys.RespawnDelay,
			})
		}
		zone.Rooms[room.ID] = room
	}

	return zone
}
