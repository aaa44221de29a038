package ruleset_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironvale/mud/internal/game/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadClasses(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "fighter.yaml", `
id: fighter
name: Fighter
description: A master of martial combat.
hit_die: 10
saving_throw_proficiencies: [STR, CON]
`)
	writeYAML(t, dir, "wizard.yaml", `
id: wizard
name: Wizard
hit_die: 6
saving_throw_proficiencies: [INT, WIS]
spellcasting_ability: INT
`)

	classes, err := ruleset.LoadClasses(dir)
	require.NoError(t, err)
	require.Len(t, classes, 2)

	byID := map[string]*ruleset.Class{}
	for _, c := range classes {
		byID[c.ID] = c
	}
	assert.Equal(t, 10, byID["fighter"].HitDie)
	assert.Equal(t, "INT", byID["wizard"].SpellcastingAbility)
}

func TestLoadClasses_InvalidHitDie(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: bad
name: Bad
hit_die: 0
`)
	_, err := ruleset.LoadClasses(dir)
	assert.Error(t, err)
}

func TestLoadRaces(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "dwarf.yaml", `
id: dwarf
name: Dwarf
ability_score_increase:
  CON: 2
traits:
  - name: Dwarven Toughness
    description: Your hit point maximum increases by one per level.
`)

	races, err := ruleset.LoadRaces(dir)
	require.NoError(t, err)
	require.Len(t, races, 1)
	assert.Equal(t, 2, races[0].AbilityScoreIncrease["CON"])
	assert.True(t, races[0].HasTrait("Dwarven Toughness"))
	assert.False(t, races[0].HasTrait("Darkvision"))
}

func TestLoadRaces_UnknownAbility(t *testing.T) {
	dir := t.TempDir()
	writeYAML(t, dir, "bad.yaml", `
id: bad
name: Bad
ability_score_increase:
  LCK: 1
`)
	_, err := ruleset.LoadRaces(dir)
	assert.Error(t, err)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := ruleset.NewRegistry()
	reg.RegisterClass(&ruleset.Class{ID: "fighter", Name: "Fighter", HitDie: 10})
	reg.RegisterRace(&ruleset.Race{ID: "human", Name: "Human"})

	c, ok := reg.Class("fighter")
	require.True(t, ok)
	assert.Equal(t, "Fighter", c.Name)

	_, ok = reg.Class("rogue")
	assert.False(t, ok)

	race, ok := reg.Race("human")
	require.True(t, ok)
	assert.Equal(t, "Human", race.Name)
}

func TestRegistry_RegisterPanicsOnMissingID(t *testing.T) {
	reg := ruleset.NewRegistry()
	assert.Panics(t, func() { reg.RegisterClass(&ruleset.Class{}) })
	assert.Panics(t, func() { reg.RegisterRace(nil) })
}
