package item

// Equipment slot constants. A blueprint's EquipSlots lists the slots it can
// occupy; a participant's equipment maps each slot to at most one instance.
const (
	SlotHead        = "head"
	SlotNeck        = "neck"
	SlotChest       = "chest"
	SlotBack        = "back"
	SlotShoulders   = "shoulders"
	SlotWrists      = "wrists"
	SlotHands       = "hands"
	SlotMainHand    = "main_hand"
	SlotOffHand     = "off_hand"
	SlotRing1       = "ring_1"
	SlotRing2       = "ring_2"
	SlotLegs        = "legs"
	SlotFeet        = "feet"
	SlotRelic       = "relic"
	SlotLightSource = "light_source"
)

// AllSlots lists every equipment slot in character-sheet display order.
var AllSlots = []string{
	SlotHead, SlotNeck, SlotChest, SlotBack, SlotShoulders, SlotWrists,
	SlotHands, SlotMainHand, SlotOffHand, SlotRing1, SlotRing2,
	SlotLegs, SlotFeet, SlotRelic, SlotLightSource,
}

var slotSet = func() map[string]bool {
	m := make(map[string]bool, len(AllSlots))
	for _, s := range AllSlots {
		m[s] = true
	}
	return m
}()

// ValidSlot reports whether name is a known equipment slot.
func ValidSlot(name string) bool {
	return slotSet[name]
}
