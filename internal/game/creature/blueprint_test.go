package creature_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironvale/mud/internal/game/creature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func goblinBlueprint() *creature.Blueprint {
	return &creature.Blueprint{
		ID:          "goblin",
		Name:        "Goblin",
		Description: "A snivelling green menace.",
		Level:       1,
		MaxHP:       7,
		AC:          12,
		Speed:       30,
		AttackBonus: 4,
		DamageDice:  "1d6",
		DamageType:  "slashing",
		XPValue:     50,
		Aggressive:  true,
	}
}

func TestBlueprint_Validate(t *testing.T) {
	assert.NoError(t, goblinBlueprint().Validate())
}

func TestBlueprint_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*creature.Blueprint)
	}{
		{"missing id", func(b *creature.Blueprint) { b.ID = "" }},
		{"missing name", func(b *creature.Blueprint) { b.Name = "" }},
		{"zero hp", func(b *creature.Blueprint) { b.MaxHP = 0 }},
		{"zero ac", func(b *creature.Blueprint) { b.AC = 0 }},
		{"negative speed", func(b *creature.Blueprint) { b.Speed = -5 }},
		{"missing damage dice", func(b *creature.Blueprint) { b.DamageDice = "" }},
		{"negative xp", func(b *creature.Blueprint) { b.XPValue = -1 }},
		{"bad loot chance", func(b *creature.Blueprint) {
			b.Loot = &creature.LootTable{Items: []creature.ItemDrop{
				{ItemID: "ear", Chance: 1.5, MinQty: 1, MaxQty: 1},
			}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := goblinBlueprint()
			tt.mutate(b)
			assert.Error(t, b.Validate())
		})
	}
}

func TestLoadBlueprints_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	good := `
id: goblin
name: Goblin
max_hp: 7
ac: 12
speed: 30
attack_bonus: 4
damage_dice: 1d6
damage_type: slashing
xp_value: 50
aggressive: true
`
	bad := `
id: ghost
name: Ghost
max_hp: 0
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "goblin.yaml"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ghost.yaml"), []byte(bad), 0o644))

	blueprints, err := creature.LoadBlueprints(dir, zap.NewNop())
	require.NoError(t, err, "malformed definitions must be skipped, not fatal")
	require.Len(t, blueprints, 1)
	assert.Equal(t, "goblin", blueprints[0].ID)
	assert.True(t, blueprints[0].Aggressive)
}

func TestLoadBlueprints_MissingDir(t *testing.T) {
	_, err := creature.LoadBlueprints("/does/not/exist", zap.NewNop())
	assert.Error(t, err)
}
