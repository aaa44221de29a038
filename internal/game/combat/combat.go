// Package combat implements attack resolution and the in-combat roster for
// the Ironvale MUD.
package combat

// AttackProfile holds the offensive numbers one side brings to an exchange.
type AttackProfile struct {
	// AttackBonus is added to the d20 attack roll.
	AttackBonus int
	// DamageDice is the damage expression, e.g. "1d6+2" or a flat "3".
	DamageDice string
	// DamageType describes the damage for narration, e.g. "slashing".
	DamageType string
	// DamageBonus is a flat bonus added once to the damage total, never
	// doubled on a critical hit.
	DamageBonus int
}

// Attacker is anything that can initiate an attack: a participant or a live
// creature instance.
type Attacker interface {
	DisplayName() string
	AttackProfile() AttackProfile
}

// Defender is anything that can be attacked.
type Defender interface {
	DisplayName() string
	ArmorValue() int
	// ApplyDamage reduces the defender's hit points, clamping at zero.
	ApplyDamage(amount int)
	Alive() bool
}

// AbilityMod computes the standard ability modifier using floor division:
// floor((score - 10) / 2).
//
// Postcondition: Returns floor((score - 10) / 2).
func AbilityMod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}
