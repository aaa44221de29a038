package ruleset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RaceTrait describes a named racial trait. Traits with mechanical effects
// are matched by name in the player stat derivation.
type RaceTrait struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// Race defines a playable race with its ability score increases.
//
// Precondition: ID and Name must be non-empty after loading.
type Race struct {
	ID                   string         `yaml:"id"`
	Name                 string         `yaml:"name"`
	Description          string         `yaml:"description"`
	AbilityScoreIncrease map[string]int `yaml:"ability_score_increase"`
	Traits               []RaceTrait    `yaml:"traits"`
}

// Validate checks the loaded race for structural problems.
//
// Postcondition: Returns nil iff the race is usable for character creation.
func (r *Race) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("race missing id")
	}
	if r.Name == "" {
		return fmt.Errorf("race %s missing name", r.ID)
	}
	for ability := range r.AbilityScoreIncrease {
		if !validAbility(ability) {
			return fmt.Errorf("race %s: unknown ability %q in ability_score_increase", r.ID, ability)
		}
	}
	return nil
}

// HasTrait reports whether the race carries a trait with the given name.
func (r *Race) HasTrait(name string) bool {
	for _, t := range r.Traits {
		if t.Name == name {
			return true
		}
	}
	return false
}

// LoadRaces reads all .yaml files in dir and parses each as a Race.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed, valid races or a non-nil error.
func LoadRaces(dir string) ([]*Race, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	races := make([]*Race, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var r Race
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("parsing race file %s: %w", path, err)
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("validating race file %s: %w", path, err)
		}
		races = append(races, &r)
	}
	return races, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	return paths, nil
}
