package item_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ironvale/mud/internal/game/item"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validWeapon() *item.Blueprint {
	return &item.Blueprint{
		ID:         "rusty-sword",
		Name:       "Rusty Sword",
		Kind:       item.KindWeapon,
		Weight:     3,
		EquipSlots: []string{item.SlotMainHand},
		Weapon:     &item.WeaponSpec{DamageDice: "1d6", DamageType: "slashing"},
	}
}

func TestBlueprint_Validate(t *testing.T) {
	assert.NoError(t, validWeapon().Validate())
}

func TestBlueprint_Validate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*item.Blueprint)
	}{
		{"missing id", func(b *item.Blueprint) { b.ID = "" }},
		{"missing name", func(b *item.Blueprint) { b.Name = "" }},
		{"bad kind", func(b *item.Blueprint) { b.Kind = "potion" }},
		{"negative weight", func(b *item.Blueprint) { b.Weight = -1 }},
		{"weapon without dice", func(b *item.Blueprint) { b.Weapon = nil }},
		{"bad slot", func(b *item.Blueprint) { b.EquipSlots = []string{"tail"} }},
		{"bad modifier kind", func(b *item.Blueprint) {
			b.Modifiers = []item.Modifier{{Kind: "luck", Amount: 1}}
		}},
		{"ability modifier without ability", func(b *item.Blueprint) {
			b.Modifiers = []item.Modifier{{Kind: item.ModifierAbility, Amount: 1}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validWeapon()
			tt.mutate(b)
			assert.Error(t, b.Validate())
		})
	}
}

func TestBlueprint_Validate_ArmorTypes(t *testing.T) {
	b := &item.Blueprint{
		ID:    "chain-shirt",
		Name:  "Chain Shirt",
		Kind:  item.KindArmor,
		Armor: &item.ArmorSpec{ArmorType: item.ArmorMedium, BaseAC: 13, DexCap: 2},
	}
	require.NoError(t, b.Validate())

	b.Armor.ArmorType = "plate"
	assert.Error(t, b.Validate())
}

func TestLoadBlueprints_SkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	good := `
id: torch
name: Torch
kind: misc
weight: 1
stackable: true
`
	bad := `
id: broken
name: Broken
kind: nonsense
`
	notYAML := `{{{`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "torch.yaml"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.yaml"), []byte(notYAML), 0o644))

	blueprints, err := item.LoadBlueprints(dir, zap.NewNop())
	require.NoError(t, err, "malformed files must be skipped, not fatal")
	require.Len(t, blueprints, 1)
	assert.Equal(t, "torch", blueprints[0].ID)
}

func TestLoadBlueprints_MissingDir(t *testing.T) {
	_, err := item.LoadBlueprints("/does/not/exist", zap.NewNop())
	assert.Error(t, err)
}

func TestRegistry_DuplicateID(t *testing.T) {
	reg := item.NewRegistry()
	require.NoError(t, reg.Register(validWeapon()))
	assert.Error(t, reg.Register(validWeapon()))
}

func TestInstance_Weight(t *testing.T) {
	reg := item.NewRegistry()
	require.NoError(t, reg.Register(&item.Blueprint{
		ID: "ration", Name: "Ration", Kind: item.KindConsumable, Weight: 2, Stackable: true,
	}))

	inst := item.NewInstance("ration", 3)
	assert.Equal(t, 6.0, inst.Weight(reg))
	assert.Equal(t, "Ration", inst.DisplayName(reg))

	unknown := item.NewInstance("mystery", 5)
	assert.Zero(t, unknown.Weight(reg))
	assert.Equal(t, "mystery", unknown.DisplayName(reg))
}
