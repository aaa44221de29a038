package player

import (
	"fmt"

	"github.com/ironvale/mud/internal/game/combat"
	"github.com/ironvale/mud/internal/game/item"
	"github.com/ironvale/mud/internal/game/ruleset"
)

// MaxAbilityScore caps every effective ability score.
const MaxAbilityScore = 50

// TraitDwarvenToughness grants one extra hit point per level.
const TraitDwarvenToughness = "Dwarven Toughness"

// proficiencyBrackets maps level thresholds to proficiency bonuses. The
// bonus for a level is the entry of the first bracket the level falls under.
var proficiencyBrackets = []struct {
	below int
	bonus int
}{
	{5, 2}, {9, 3}, {13, 4}, {17, 5}, {21, 6}, {25, 7}, {30, 8},
	{40, 9}, {50, 10}, {60, 11}, {70, 12}, {80, 13}, {90, 14},
}

// ProficiencyForLevel returns the proficiency bonus for a character level.
//
// Precondition: level >= 1.
func ProficiencyForLevel(level int) int {
	for _, b := range proficiencyBrackets {
		if level < b.below {
			return b.bonus
		}
	}
	return 15
}

// Recalculate recomputes every derived statistic from base abilities, racial
// increases, class hit die, level, and equipped item modifiers. It runs after
// creation, equip, unequip, level-up, and content reload.
//
// Precondition: ClassID and RaceID resolve in rules.
// Postcondition: CurrentHP is clamped to the new MaxHP.
func (p *Participant) Recalculate(rules *ruleset.Registry, items *item.Registry) error {
	class, ok := rules.Class(p.ClassID)
	if !ok {
		return fmt.Errorf("player: unknown class %q", p.ClassID)
	}
	race, ok := rules.Race(p.RaceID)
	if !ok {
		return fmt.Errorf("player: unknown race %q", p.RaceID)
	}
	p.itemRegistry = items

	effective := make(map[string]int, len(ruleset.AllAbilities))
	for _, ability := range ruleset.AllAbilities {
		score := p.BaseAbilities[ability] + race.AbilityScoreIncrease[ability]
		score += p.equippedAbilityBonus(ability, items)
		if score > MaxAbilityScore {
			score = MaxAbilityScore
		}
		effective[ability] = score
	}
	p.effective = effective

	p.ProficiencyBonus = ProficiencyForLevel(p.Level)
	p.MaxHP = p.deriveMaxHP(class, race, items)
	p.ArmorClass = p.deriveArmorClass(items)

	if p.CurrentHP > p.MaxHP {
		p.CurrentHP = p.MaxHP
	}
	return nil
}

// deriveMaxHP computes maximum hit points: a full hit die plus the
// constitution modifier at level 1, then the average (rounded up, minimum 1)
// plus the modifier for each level after.
func (p *Participant) deriveMaxHP(class *ruleset.Class, race *ruleset.Race, items *item.Registry) int {
	conMod := combat.AbilityMod(p.effective[ruleset.AbilityConstitution])

	hp := class.HitDie + conMod
	perLevel := (class.HitDie+1)/2 + conMod
	if perLevel < 1 {
		perLevel = 1
	}
	hp += (p.Level - 1) * perLevel

	if race.HasTrait(TraitDwarvenToughness) {
		hp += p.Level
	}
	hp += p.equippedModifierTotal(item.ModifierHealth, items)

	if hp < 1 {
		hp = 1
	}
	return hp
}

// deriveArmorClass computes AC from the equipped chest armor: unarmored is
// 10 plus the dexterity modifier; light armor adds the full modifier to the
// base, medium caps the modifier at the armor's dex cap, heavy ignores it.
// Armor modifiers from every equipped item apply on top.
func (p *Participant) deriveArmorClass(items *item.Registry) int {
	dexMod := combat.AbilityMod(p.effective[ruleset.AbilityDexterity])

	ac := 10 + dexMod
	if inst := p.Equipment[item.SlotChest]; inst != nil {
		if def, ok := items.Blueprint(inst.BlueprintID); ok && def.Armor != nil {
			switch def.Armor.ArmorType {
			case item.ArmorLight:
				ac = def.Armor.BaseAC + dexMod
			case item.ArmorMedium:
				capped := dexMod
				if capped > def.Armor.DexCap {
					capped = def.Armor.DexCap
				}
				ac = def.Armor.BaseAC + capped
			case item.ArmorHeavy:
				ac = def.Armor.BaseAC
			}
		}
	}

	return ac + p.equippedModifierTotal(item.ModifierArmor, items)
}

// equippedAbilityBonus sums ability modifiers targeting the given ability
// across all equipped items.
func (p *Participant) equippedAbilityBonus(ability string, items *item.Registry) int {
	total := 0
	for _, inst := range p.Equipment {
		if inst == nil {
			continue
		}
		def, ok := items.Blueprint(inst.BlueprintID)
		if !ok {
			continue
		}
		for _, m := range def.Modifiers {
			if m.Kind == item.ModifierAbility && m.Ability == ability {
				total += m.Amount
			}
		}
	}
	return total
}

// equippedModifierTotal sums modifiers of the given kind across all equipped
// items.
func (p *Participant) equippedModifierTotal(kind string, items *item.Registry) int {
	total := 0
	for _, inst := range p.Equipment {
		if inst == nil {
			continue
		}
		def, ok := items.Blueprint(inst.BlueprintID)
		if !ok {
			continue
		}
		for _, m := range def.Modifiers {
			if m.Kind == kind {
				total += m.Amount
			}
		}
	}
	return total
}
