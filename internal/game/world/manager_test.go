package world_test

import (
	"testing"

	"github.com/ironvale/mud/internal/game/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadVillage(t *testing.T) *world.Manager {
	t.Helper()
	zone, err := world.LoadZoneFromBytes([]byte(villageZone))
	require.NoError(t, err)
	m, err := world.NewManager([]*world.Zone{zone})
	require.NoError(t, err)
	return m
}

func TestManager_GetRoomAndStartRoom(t *testing.T) {
	m := loadVillage(t)

	room, ok := m.GetRoom("cellar")
	require.True(t, ok)
	assert.Equal(t, "Damp Cellar", room.Title)

	start := m.StartRoom()
	require.NotNil(t, start)
	assert.Equal(t, "square", start.ID)
	assert.Equal(t, 2, m.RoomCount())
}

func TestManager_Navigate(t *testing.T) {
	m := loadVillage(t)

	dest, err := m.Navigate("square", world.North)
	require.NoError(t, err)
	assert.Equal(t, "cellar", dest.ID)

	_, err = m.Navigate("square", world.West)
	assert.Error(t, err, "no exit west")

	_, err = m.Navigate("cellar", world.South)
	assert.Error(t, err, "exits are one-way")

	_, err = m.Navigate("nowhere", world.North)
	assert.Error(t, err)
}

func TestManager_DuplicateRoomIDs(t *testing.T) {
	zone, err := world.LoadZoneFromBytes([]byte(villageZone))
	require.NoError(t, err)
	other := world.DefaultZone()
	other.Rooms["square"] = zone.Rooms["square"]

	_, err = world.NewManager([]*world.Zone{zone, other})
	assert.Error(t, err)
}

func TestManager_Replace(t *testing.T) {
	m := loadVillage(t)

	require.NoError(t, m.Replace([]*world.Zone{world.DefaultZone()}))
	_, ok := m.GetRoom("square")
	assert.False(t, ok)
	_, ok = m.GetRoom(world.VoidRoomID)
	assert.True(t, ok)

	// A failed replace leaves the current world intact.
	bad := world.DefaultZone()
	assert.Error(t, m.Replace([]*world.Zone{bad, world.DefaultZone()}))
	_, ok = m.GetRoom(world.VoidRoomID)
	assert.True(t, ok)
}

func TestManager_Rooms(t *testing.T) {
	m := loadVillage(t)
	assert.Len(t, m.Rooms(), 2)
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, world.South, world.North.Opposite())
	assert.Equal(t, world.Up, world.Down.Opposite())
	assert.Equal(t, world.Direction(""), world.Direction("stairs").Opposite())
	assert.True(t, world.North.IsStandard())
	assert.False(t, world.Direction("stairs").IsStandard())
}
