// Package player defines the connected participant: base ability scores,
// derived statistics, equipment, inventory, experience, and the
// one-action-per-cycle economy.
package player

import (
	"errors"
	"fmt"

	"github.com/ironvale/mud/internal/game/combat"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
)

// ErrAlreadyActed is returned by SpendAction when the participant has already
// spent their action this cycle.
var ErrAlreadyActed = errors.New("player: action already spent this cycle")

// StartingNextLevelXP is the experience required to reach level 2.
// The requirement doubles with each level gained.
const StartingNextLevelXP = 300

// StandardArray is the fixed set of base ability scores assigned at creation,
// in STR DEX CON INT WIS CHA order.
var StandardArray = [6]int{15, 14, 13, 12, 10, 8}

// Participant is a connected player character.
//
// Participant is not self-synchronizing. The session goroutine and the world
// tick both mutate it; the game facade serializes those mutations.
//
// Invariant: 0 <= CurrentHP <= MaxHP.
// Invariant: derived fields (MaxHP, ArmorClass, ProficiencyBonus, effective
// abilities) are only written by Recalculate.
type Participant struct {
	UID     string
	Name    string
	ClassID string
	RaceID  string

	Level       int
	XP          int
	NextLevelXP int

	// BaseAbilities holds the unmodified scores keyed by ruleset ability
	// constants. Racial increases and equipment modifiers are applied on
	// top by Recalculate.
	BaseAbilities map[string]int

	MaxHP            int
	CurrentHP        int
	ArmorClass       int
	ProficiencyBonus int

	Equipment map[string]*item.Instance
	Inventory *Inventory

	RoomID   string
	InCombat bool
	TargetID string

	effective    map[string]int
	acted        bool
	itemRegistry *item.Registry
}

// New creates a level 1 Participant with the standard ability array and full
// derived stats.
//
// Precondition: classID and raceID are registered in rules.
// Postcondition: the participant is at full health with an empty inventory.
func New(uid, name, classID, raceID string, rules *ruleset.Registry, items *item.Registry) (*Participant, error) {
	if _, ok := rules.Class(classID); !ok {
		return nil, fmt.Errorf("player: unknown class %q", classID)
	}
	if _, ok := rules.Race(raceID); !ok {
		return nil, fmt.Errorf("player: unknown race %q", raceID)
	}

	base := make(map[string]int, len(ruleset.AllAbilities))
	for i, ability := range ruleset.AllAbilities {
		base[ability] = StandardArray[i]
	}

	p := &Participant{
		UID:           uid,
		Name:          name,
		ClassID:       classID,
		RaceID:        raceID,
		Level:         1,
		NextLevelXP:   StartingNextLevelXP,
		BaseAbilities: base,
		Equipment:     make(map[string]*item.Instance),
		Inventory:     NewInventory(),
	}
	if err := p.Recalculate(rules, items); err != nil {
		return nil, err
	}
	p.CurrentHP = p.MaxHP
	return p, nil
}

// DisplayName returns the character name.
func (p *Participant) DisplayName() string {
	return p.Name
}

// ArmorValue returns the derived armor class.
func (p *Participant) ArmorValue() int {
	return p.ArmorClass
}

// Alive reports whether the participant has hit points remaining.
func (p *Participant) Alive() bool {
	return p.CurrentHP > 0
}

// Ability returns the effective score for the given ability key, after racial
// increases and equipment modifiers.
//
// Precondition: Recalculate has run at least once.
func (p *Participant) Ability(key string) int {
	return p.effective[key]
}

// ApplyDamage reduces hit points, clamping at zero. Dropping to zero clears
// the combat flags so the participant stops being a valid target.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= CurrentHP <= MaxHP.
func (p *Participant) ApplyDamage(amount int) {
	p.CurrentHP -= amount
	if p.CurrentHP <= 0 {
		p.CurrentHP = 0
		p.InCombat = false
		p.TargetID = ""
	}
}

// Heal restores hit points, clamping at MaxHP.
//
// Precondition: amount >= 0.
func (p *Participant) Heal(amount int) {
	p.CurrentHP += amount
	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
}

// BeginCycle resets the action economy for a new input line.
func (p *Participant) BeginCycle() {
	p.acted = false
}

// SpendAction consumes the participant's single action for this cycle.
//
// Postcondition: returns ErrAlreadyActed iff an action was already spent
// since the last BeginCycle.
func (p *Participant) SpendAction() error {
	if p.acted {
		return ErrAlreadyActed
	}
	p.acted = true
	return nil
}

// AddXP awards experience and applies any level-ups: each time XP reaches
// NextLevelXP the level increases, the requirement doubles, derived stats are
// recomputed, and the participant heals to full.
//
// Precondition: amount >= 0.
// Postcondition: returns the number of levels gained.
func (p *Participant) AddXP(amount int, rules *ruleset.Registry, items *item.Registry) int {
	p.XP += amount
	gained := 0
	for p.XP >= p.NextLevelXP {
		p.Level++
		p.NextLevelXP *= 2
		gained++
	}
	if gained > 0 {
		if err := p.Recalculate(rules, items); err == nil {
			p.CurrentHP = p.MaxHP
		}
	}
	return gained
}

// Equip places inst in the given slot and recomputes derived stats. An
// instance already occupying the slot is returned so the caller can put it
// back into the inventory.
//
// Precondition: inst.Quantity == 1.
// Postcondition: on error the equipment map is unchanged.
func (p *Participant) Equip(slot string, inst item.Instance, rules *ruleset.Registry, items *item.Registry) (*item.Instance, error) {
	if !item.ValidSlot(slot) {
		return nil, fmt.Errorf("player: unknown equipment slot %q", slot)
	}
	def, ok := items.Blueprint(inst.BlueprintID)
	if !ok {
		return nil, fmt.Errorf("player: unknown item %q", inst.BlueprintID)
	}
	allowed := false
	for _, s := range def.EquipSlots {
		if s == slot {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("player: %s cannot be equipped in slot %s", def.Name, slot)
	}

	displaced := p.Equipment[slot]
	equipped := inst
	p.Equipment[slot] = &equipped
	if err := p.Recalculate(rules, items); err != nil {
		return nil, err
	}
	return displaced, nil
}

// Unequip removes the instance from the given slot and recomputes derived
// stats.
//
// Postcondition: on success the slot is empty and the instance is returned.
func (p *Participant) Unequip(slot string, rules *ruleset.Registry, items *item.Registry) (item.Instance, error) {
	inst := p.Equipment[slot]
	if inst == nil {
		return item.Instance{}, fmt.Errorf("player: nothing equipped in slot %s", slot)
	}
	delete(p.Equipment, slot)
	if err := p.Recalculate(rules, items); err != nil {
		return item.Instance{}, err
	}
	return *inst, nil
}

// AttackProfile derives the offensive numbers from the equipped main-hand
// weapon, or unarmed strikes when the slot is empty. Finesse weapons use the
// dexterity modifier in place of strength.
func (p *Participant) AttackProfile() combat.AttackProfile {
	strMod := combat.AbilityMod(p.Ability(ruleset.AbilityStrength))
	profile := combat.AttackProfile{
		AttackBonus: p.ProficiencyBonus + strMod,
		DamageDice:  "1d4",
		DamageType:  "bludgeoning",
		DamageBonus: strMod,
	}

	inst := p.Equipment[item.SlotMainHand]
	if inst == nil {
		return profile
	}
	def, ok := p.weaponBlueprint(inst.BlueprintID)
	if !ok {
		return profile
	}

	mod := strMod
	if def.Weapon.Finesse {
		mod = combat.AbilityMod(p.Ability(ruleset.AbilityDexterity))
	}
	profile.AttackBonus = p.ProficiencyBonus + mod
	profile.DamageDice = def.Weapon.DamageDice
	profile.DamageType = def.Weapon.DamageType
	profile.DamageBonus = mod
	return profile
}

func (p *Participant) weaponBlueprint(blueprintID string) (*item.Blueprint, bool) {
	if p.itemRegistry == nil {
		return nil, false
	}
	def, ok := p.itemRegistry.Blueprint(blueprintID)
	if !ok || def.Kind != item.KindWeapon || def.Weapon == nil {
		return nil, false
	}
	return def, true
}
