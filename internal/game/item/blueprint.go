// Package item holds the item content model: immutable blueprints loaded from
// YAML, live instances with quantities, containers with weight capacities, and
// the per-room floor manager.
package item

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Kind constants for Blueprint.Kind.
const (
	KindWeapon     = "weapon"
	KindArmor      = "armor"
	KindConsumable = "consumable"
	KindContainer  = "container"
	KindMisc       = "misc"
)

// validKinds is the set of valid Blueprint kinds.
var validKinds = map[string]bool{
	KindWeapon:     true,
	KindArmor:      true,
	KindConsumable: true,
	KindContainer:  true,
	KindMisc:       true,
}

// Armor type constants for ArmorSpec.ArmorType.
const (
	ArmorLight  = "light"
	ArmorMedium = "medium"
	ArmorHeavy  = "heavy"
)

// Modifier kind constants.
const (
	ModifierAbility = "ability"
	ModifierArmor   = "armor"
	ModifierHealth  = "health"
)

// Modifier is a typed stat adjustment granted while the item is equipped.
// Kind selects the target: "ability" adjusts the named ability score,
// "armor" adjusts AC, "health" adjusts max HP.
type Modifier struct {
	Kind    string `yaml:"kind"`
	Ability string `yaml:"ability"`
	Amount  int    `yaml:"amount"`
}

// WeaponSpec holds the combat fields of a weapon blueprint.
type WeaponSpec struct {
	DamageDice string `yaml:"damage_dice"`
	DamageType string `yaml:"damage_type"`
	Finesse    bool   `yaml:"finesse"`
}

// ArmorSpec holds the defensive fields of an armor blueprint.
type ArmorSpec struct {
	ArmorType string `yaml:"armor_type"`
	BaseAC    int    `yaml:"base_ac"`
	DexCap    int    `yaml:"dex_cap"`
}

// ContainerSpec holds the capacity of a container blueprint.
// Capacity is the maximum summed weight of the contents.
type ContainerSpec struct {
	Capacity float64 `yaml:"capacity"`
}

// Blueprint defines the static properties of an item loaded from YAML.
// Blueprints are immutable after loading; all live state lives on Instance.
type Blueprint struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Kind        string         `yaml:"kind"`
	Weight      float64        `yaml:"weight"`
	Value       int            `yaml:"value"`
	Stackable   bool           `yaml:"stackable"`
	EquipSlots  []string       `yaml:"equip_slots"`
	Weapon      *WeaponSpec    `yaml:"weapon"`
	Armor       *ArmorSpec     `yaml:"armor"`
	Container   *ContainerSpec `yaml:"container"`
	Modifiers   []Modifier     `yaml:"modifiers"`
}

// Validate checks that the Blueprint satisfies its invariants.
//
// Precondition: b is non-nil.
// Postcondition: returns nil iff all fields are valid.
func (b *Blueprint) Validate() error {
	var errs []error
	if b.ID == "" {
		errs = append(errs, errors.New("ID must not be empty"))
	}
	if b.Name == "" {
		errs = append(errs, errors.New("Name must not be empty"))
	}
	if !validKinds[b.Kind] {
		errs = append(errs, fmt.Errorf("Kind must be one of weapon, armor, consumable, container, misc; got %q", b.Kind))
	}
	if b.Weight < 0 {
		errs = append(errs, errors.New("Weight must be >= 0"))
	}
	if b.Kind == KindWeapon {
		if b.Weapon == nil || b.Weapon.DamageDice == "" {
			errs = append(errs, errors.New("weapon blueprints require weapon.damage_dice"))
		}
	}
	if b.Kind == KindArmor {
		if b.Armor == nil {
			errs = append(errs, errors.New("armor blueprints require an armor section"))
		} else if b.Armor.ArmorType != ArmorLight && b.Armor.ArmorType != ArmorMedium && b.Armor.ArmorType != ArmorHeavy {
			errs = append(errs, fmt.Errorf("armor_type must be light, medium, or heavy; got %q", b.Armor.ArmorType))
		}
	}
	if b.Kind == KindContainer {
		if b.Container == nil || b.Container.Capacity <= 0 {
			errs = append(errs, errors.New("container blueprints require container.capacity > 0"))
		}
		if b.Stackable {
			errs = append(errs, errors.New("container blueprints cannot be stackable"))
		}
	}
	for i, m := range b.Modifiers {
		switch m.Kind {
		case ModifierAbility:
			if m.Ability == "" {
				errs = append(errs, fmt.Errorf("modifier %d: ability modifiers require an ability key", i))
			}
		case ModifierArmor, ModifierHealth:
		default:
			errs = append(errs, fmt.Errorf("modifier %d: unknown kind %q", i, m.Kind))
		}
	}
	for _, slot := range b.EquipSlots {
		if !ValidSlot(slot) {
			errs = append(errs, fmt.Errorf("unknown equip slot %q", slot))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %v", errs)
	}
	return nil
}

// LoadBlueprints reads all *.yaml and *.yml files from dir, parses each as a
// Blueprint, and returns the valid ones. Malformed files are logged at warn
// level and skipped so a single bad definition never aborts a content load.
//
// Precondition: dir is a readable directory path; logger is non-nil.
// Postcondition: returns all valid Blueprints, or an error only when the
// directory itself cannot be read.
func LoadBlueprints(dir string, logger *zap.Logger) ([]*Blueprint, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadBlueprints: cannot read directory %q: %w", dir, err)
	}

	var blueprints []*Blueprint
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("skipping unreadable item file", zap.String("path", path), zap.Error(err))
			continue
		}
		var b Blueprint
		if err := yaml.Unmarshal(data, &b); err != nil {
			logger.Warn("skipping malformed item file", zap.String("path", path), zap.Error(err))
			continue
		}
		if err := b.Validate(); err != nil {
			logger.Warn("skipping invalid item definition", zap.String("path", path), zap.Error(err))
			continue
		}
		blueprints = append(blueprints, &b)
	}
	return blueprints, nil
}
