// Package ruleset loads the character-creation content: playable classes and
// races, with the registry the player stat derivation reads from.
package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Ability score keys used throughout the ruleset and player packages.
const (
	AbilityStrength     = "STR"
	AbilityDexterity    = "DEX"
	AbilityConstitution = "CON"
	AbilityIntelligence = "INT"
	AbilityWisdom       = "WIS"
	AbilityCharisma     = "CHA"
)

// AllAbilities lists the six ability keys in display order.
var AllAbilities = []string{
	AbilityStrength, AbilityDexterity, AbilityConstitution,
	AbilityIntelligence, AbilityWisdom, AbilityCharisma,
}

// Class defines a playable character class.
//
// Precondition: ID, Name, and HitDie must be non-zero after loading.
type Class struct {
	ID                  string   `yaml:"id"`
	Name                string   `yaml:"name"`
	Description         string   `yaml:"description"`
	HitDie              int      `yaml:"hit_die"`
	SavingThrows        []string `yaml:"saving_throw_proficiencies"`
	SpellcastingAbility string   `yaml:"spellcasting_ability"`
}

// Validate checks the loaded class for structural problems.
//
// Postcondition: Returns nil iff the class is usable for character creation.
func (c *Class) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("class missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("class %s missing name", c.ID)
	}
	if c.HitDie < 1 {
		return fmt.Errorf("class %s: hit_die must be >= 1, got %d", c.ID, c.HitDie)
	}
	for _, save := range c.SavingThrows {
		if !validAbility(save) {
			return fmt.Errorf("class %s: unknown saving throw ability %q", c.ID, save)
		}
	}
	return nil
}

// LoadClasses reads all .yaml files in dir and parses each as a Class.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, valid classes or a non-nil error.
func LoadClasses(dir string) ([]*Class, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*Class, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c Class
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("validating class file %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

func validAbility(name string) bool {
	for _, a := range AllAbilities {
		if a == name {
			return true
		}
	}
	return false
}
