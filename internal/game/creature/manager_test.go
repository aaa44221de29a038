package creature_test

import (
	"testing"

	"github.com/ironvale/mud/internal/game/creature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_SpawnAssignsUniqueIDs(t *testing.T) {
	m := creature.NewManager()
	bp := goblinBlueprint()

	a, err := m.Spawn(bp, "square")
	require.NoError(t, err)
	b, err := m.Spawn(bp, "square")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.Len(t, m.InstancesInRoom("square"), 2)
}

func TestManager_SpawnPreconditions(t *testing.T) {
	m := creature.NewManager()
	_, err := m.Spawn(nil, "square")
	assert.Error(t, err)
	_, err = m.Spawn(goblinBlueprint(), "")
	assert.Error(t, err)
}

func TestManager_RemoveAndGet(t *testing.T) {
	m := creature.NewManager()
	inst, err := m.Spawn(goblinBlueprint(), "square")
	require.NoError(t, err)

	got, ok := m.Get(inst.ID)
	require.True(t, ok)
	assert.Equal(t, inst, got)

	require.NoError(t, m.Remove(inst.ID))
	_, ok = m.Get(inst.ID)
	assert.False(t, ok)
	assert.Error(t, m.Remove(inst.ID))
	assert.Empty(t, m.InstancesInRoom("square"))
}

func TestManager_CountAliveGatesOnHealth(t *testing.T) {
	m := creature.NewManager()
	bp := goblinBlueprint()
	a, _ := m.Spawn(bp, "square")
	_, _ = m.Spawn(bp, "square")

	assert.Equal(t, 2, m.CountAlive("square", "goblin"))

	a.ApplyDamage(100)
	assert.Equal(t, 1, m.CountAlive("square", "goblin"))
	assert.Len(t, m.AliveInRoom("square"), 1)
	assert.Len(t, m.InstancesInRoom("square"), 2, "corpses stay registered until reaped")
}

func TestManager_FindInRoom_PrefixAndLiveness(t *testing.T) {
	m := creature.NewManager()
	inst, _ := m.Spawn(goblinBlueprint(), "square")

	assert.Equal(t, inst, m.FindInRoom("square", "gob"))
	assert.Equal(t, inst, m.FindInRoom("square", "GOBLIN"))
	assert.Nil(t, m.FindInRoom("square", "dragon"))
	assert.Nil(t, m.FindInRoom("cellar", "gob"))

	inst.ApplyDamage(100)
	assert.Nil(t, m.FindInRoom("square", "gob"), "dead creatures are not valid targets")
}

func TestManager_ClearRoom(t *testing.T) {
	m := creature.NewManager()
	_, _ = m.Spawn(goblinBlueprint(), "square")
	_, _ = m.Spawn(goblinBlueprint(), "cellar")

	m.ClearRoom("square")
	assert.Empty(t, m.InstancesInRoom("square"))
	assert.Len(t, m.InstancesInRoom("cellar"), 1)
}
