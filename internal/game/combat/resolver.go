package combat

import (
	"fmt"

	"github.com/ironvale/mud/internal/game/dice"
)

var d20 = dice.MustParse("1d20")

// Resolver performs single attack exchanges. All randomness flows through the
// wrapped Roller so every roll is logged.
type Resolver struct {
	roller *dice.Roller
}

// NewResolver creates a Resolver rolling through roller.
//
// Precondition: roller must be non-nil.
func NewResolver(roller *dice.Roller) *Resolver {
	return &Resolver{roller: roller}
}

// Resolve performs one attack from attacker against defender and returns the
// narrative lines describing the outcome. When override is non-nil its numbers
// replace the attacker's own profile for this exchange; abilities and special
// attacks route through here that way, so the nat-1/nat-20 rules apply to them
// unchanged.
//
// Rules: d20 + attack bonus vs the defender's armor value. A natural 1 always
// misses regardless of bonuses. A natural 20 always hits and is a critical
// hit: the dice portion of the damage expression is rolled one extra time,
// while the expression modifier and the profile's damage bonus apply once.
// Damage never goes below zero.
//
// Precondition: attacker and defender must be non-nil; defender.Alive().
// Postcondition: the only state touched is defender health via ApplyDamage;
// the returned slice is non-empty.
func (r *Resolver) Resolve(attacker Attacker, defender Defender, override *AttackProfile) []string {
	profile := attacker.AttackProfile()
	if override != nil {
		profile = *override
	}
	armor := defender.ArmorValue()

	attackRoll, err := r.roller.Roll(d20)
	if err != nil {
		return []string{fmt.Sprintf("%s fumbles the attack.", attacker.DisplayName())}
	}
	natural := attackRoll.Dice[0]
	total := natural + profile.AttackBonus

	messages := []string{fmt.Sprintf("%s attacks %s (Roll: %d + Bonus: %d = %d vs AC: %d)",
		attacker.DisplayName(), defender.DisplayName(), natural, profile.AttackBonus, total, armor)}

	if natural == 1 {
		messages = append(messages, fmt.Sprintf("Critical Miss! %s misses %s spectacularly.",
			attacker.DisplayName(), defender.DisplayName()))
		return messages
	}

	criticalHit := natural == 20
	if total < armor && !criticalHit {
		messages = append(messages, fmt.Sprintf("%s misses %s.",
			attacker.DisplayName(), defender.DisplayName()))
		return messages
	}

	damage := r.roller.Damage(profile.DamageDice) + profile.DamageBonus

	if criticalHit {
		messages = append(messages, "Critical Hit!")
		if expr, parseErr := dice.Parse(profile.DamageDice); parseErr == nil {
			extra, rollErr := r.roller.Roll(expr.DicePortion())
			if rollErr == nil {
				damage += extra.Total()
				messages = append(messages, fmt.Sprintf("Extra critical damage: %d!", extra.Total()))
			}
		}
	}

	if damage < 0 {
		damage = 0
	}

	messages = append(messages, fmt.Sprintf("%s hits %s for %d %s damage.",
		attacker.DisplayName(), defender.DisplayName(), damage, profile.DamageType))

	defender.ApplyDamage(damage)
	if !defender.Alive() {
		messages = append(messages, fmt.Sprintf("%s has been defeated!", defender.DisplayName()))
	}
	return messages
}
