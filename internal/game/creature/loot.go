package creature

import (
	"fmt"

	"github.com/ironvale/mud/internal/game/dice"
)

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible loot drops for a creature blueprint.
type LootTable struct {
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all item constraints hold; an empty loot
// table is valid.
func (lt *LootTable) Validate() error {
	for i, drop := range lt.Items {
		if drop.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if drop.Chance <= 0 || drop.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in (0, 1.0], got %f", i, drop.Chance)
		}
		if drop.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, drop.MinQty)
		}
		if drop.MinQty > drop.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, drop.MinQty, drop.MaxQty)
		}
	}
	return nil
}

// LootDrop is a single generated drop: blueprint ID plus quantity.
type LootDrop struct {
	BlueprintID string
	Quantity    int
}

// GenerateLoot rolls drops from the given LootTable using src.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: each drop's Quantity is in [MinQty, MaxQty] for entries that
// pass the chance roll.
func GenerateLoot(lt LootTable, src dice.Source) []LootDrop {
	var drops []LootDrop
	for _, entry := range lt.Items {
		if src.Intn(10000) >= int(entry.Chance*10000) {
			continue
		}
		qty := entry.MinQty
		if spread := entry.MaxQty - entry.MinQty; spread > 0 {
			qty += src.Intn(spread + 1)
		}
		drops = append(drops, LootDrop{BlueprintID: entry.ItemID, Quantity: qty})
	}
	return drops
}
