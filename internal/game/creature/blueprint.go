// Package creature provides creature blueprint definitions and live instance
// management.
package creature

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Blueprint defines a reusable creature archetype loaded from YAML.
type Blueprint struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
	MaxHP       int    `yaml:"max_hp"`
	AC          int    `yaml:"ac"`
	Speed       int    `yaml:"speed"`
	AttackBonus int    `yaml:"attack_bonus"`
	DamageDice  string `yaml:"damage_dice"`
	DamageType  string `yaml:"damage_type"`
	XPValue     int    `yaml:"xp_value"`
	// Aggressive creatures engage the first living player present in their
	// room during the world tick.
	Aggressive bool       `yaml:"aggressive"`
	Loot       *LootTable `yaml:"loot"`
}

// Validate checks that the blueprint satisfies basic invariants.
//
// Precondition: b must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, MaxHP >= 1,
// AC >= 1, Speed >= 0, and DamageDice is non-empty; returns an error on the
// first violation otherwise.
func (b *Blueprint) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("creature blueprint: id must not be empty")
	}
	if b.Name == "" {
		return fmt.Errorf("creature blueprint %q: name must not be empty", b.ID)
	}
	if b.MaxHP < 1 {
		return fmt.Errorf("creature blueprint %q: max_hp must be >= 1", b.ID)
	}
	if b.AC < 1 {
		return fmt.Errorf("creature blueprint %q: ac must be >= 1", b.ID)
	}
	if b.Speed < 0 {
		return fmt.Errorf("creature blueprint %q: speed must be >= 0", b.ID)
	}
	if b.DamageDice == "" {
		return fmt.Errorf("creature blueprint %q: damage_dice must not be empty", b.ID)
	}
	if b.XPValue < 0 {
		return fmt.Errorf("creature blueprint %q: xp_value must be >= 0", b.ID)
	}
	if b.Loot != nil {
		if err := b.Loot.Validate(); err != nil {
			return fmt.Errorf("creature blueprint %q: %w", b.ID, err)
		}
	}
	return nil
}

// LoadBlueprintFromBytes parses a single creature blueprint from raw YAML bytes.
//
// Precondition: data must be valid YAML for a single Blueprint.
// Postcondition: Returns a validated *Blueprint or an error.
func LoadBlueprintFromBytes(data []byte) (*Blueprint, error) {
	var b Blueprint
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing blueprint YAML: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// LoadBlueprints reads all *.yaml files in dir and returns the parsed
// blueprints. Malformed files are logged at warn level and skipped so one bad
// definition never aborts a content load.
//
// Precondition: dir must be a readable directory; logger must be non-nil.
// Postcondition: Returns all valid blueprints, or an error only when the
// directory itself cannot be read.
func LoadBlueprints(dir string, logger *zap.Logger) ([]*Blueprint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading creature dir %q: %w", dir, err)
	}

	var blueprints []*Blueprint
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable creature file", zap.String("path", path), zap.Error(err))
			continue
		}

		b, err := LoadBlueprintFromBytes(data)
		if err != nil {
			logger.Warn("skipping malformed creature definition", zap.String("path", path), zap.Error(err))
			continue
		}
		blueprints = append(blueprints, b)
	}
	return blueprints, nil
}
