package player_test

import (
	"testing"

	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/player"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_StackablesMerge(t *testing.T) {
	items := testItems(t)
	inv := player.NewInventory()

	inv.Add(item.NewInstance("torch", 2), items)
	inv.Add(item.NewInstance("torch", 3), items)
	require.Equal(t, 1, inv.Len())
	assert.Equal(t, 5, inv.Items()[0].Quantity)
}

func TestInventory_NonStackablesStaySeparate(t *testing.T) {
	items := testItems(t)
	inv := player.NewInventory()

	inv.Add(item.NewInstance("dagger", 1), items)
	inv.Add(item.NewInstance("dagger", 1), items)
	assert.Equal(t, 2, inv.Len())
}

func TestInventory_Remove(t *testing.T) {
	items := testItems(t)
	inv := player.NewInventory()
	inv.Add(item.NewInstance("torch", 5), items)

	out, err := inv.Remove("torch", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, out.Quantity)
	assert.Equal(t, 3, inv.Items()[0].Quantity)

	_, err = inv.Remove("torch", 4)
	assert.Error(t, err, "cannot remove more than carried")
	assert.Equal(t, 3, inv.Items()[0].Quantity, "failed remove leaves the stack intact")

	_, err = inv.Remove("torch", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, inv.Len(), "drained stacks are deleted")

	_, err = inv.Remove("torch", 1)
	assert.Error(t, err)
}

func TestInventory_FindByPrefix(t *testing.T) {
	items := testItems(t)
	inv := player.NewInventory()
	inv.Add(item.NewInstance("longsword", 1), items)
	inv.Add(item.NewInstance("torch", 2), items)

	got, ok := inv.Find("Long", items)
	require.True(t, ok)
	assert.Equal(t, "longsword", got.BlueprintID)

	got, ok = inv.Find("tor", items)
	require.True(t, ok)
	assert.Equal(t, "torch", got.BlueprintID)

	_, ok = inv.Find("shield", items)
	assert.False(t, ok)
	_, ok = inv.Find("  ", items)
	assert.False(t, ok)
}

func TestInventory_Weight(t *testing.T) {
	items := testItems(t)
	inv := player.NewInventory()
	inv.Add(item.NewInstance("longsword", 1), items)
	inv.Add(item.NewInstance("torch", 2), items)

	assert.InDelta(t, 5.0, inv.Weight(items), 1e-9)
}
