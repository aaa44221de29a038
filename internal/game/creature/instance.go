package creature

import (
	"time"

	"github.com/ironvale/mud/internal/game/combat"
)

// Instance is a live creature occupying a room.
//
// Instances are not self-synchronizing: all mutation happens under the game
// facade's combat serialization, matching how the room managers are driven.
//
// Invariant: 0 <= CurrentHP <= MaxHP. CurrentSpeed >= MinSpeed.
type Instance struct {
	// ID uniquely identifies this runtime instance.
	ID string
	// BlueprintID is the source blueprint's ID.
	BlueprintID string
	// Name is copied from the blueprint for display.
	Name string
	// Description is copied from the blueprint.
	Description string
	// RoomID is the room this instance currently occupies.
	RoomID string
	// Level is copied from the blueprint.
	Level int
	// CurrentHP is the instance's current hit points.
	CurrentHP int
	// MaxHP is the instance's maximum hit points.
	MaxHP int
	// AC is the instance's armor class.
	AC int
	// BaseSpeed is the blueprint speed before effects.
	BaseSpeed int
	// CurrentSpeed is the derived speed after effects, floored at MinSpeed.
	CurrentSpeed int
	// AttackBonus is added to the creature's attack rolls.
	AttackBonus int
	// DamageDice is the creature's damage expression.
	DamageDice string
	// DamageType describes the damage dealt.
	DamageType string
	// XPValue is awarded to the participant that defeats this creature.
	XPValue int
	// Aggressive is copied from the blueprint.
	Aggressive bool
	// Loot is the loot table copied from the blueprint; nil means no loot.
	Loot *LootTable
	// Effects holds the active timed status effects.
	Effects []Effect
	// InCombat reports whether the creature is engaged.
	InCombat bool
	// TargetID is the UID of the engaged participant; empty when idle.
	TargetID string
	// DiedAt is the wall-clock time of death; zero while alive.
	DiedAt time.Time
}

// NewInstance creates a live creature instance from a blueprint, placed in roomID.
//
// Precondition: id must be non-empty; bp must be non-nil and validated;
// roomID must be non-empty.
// Postcondition: CurrentHP equals bp.MaxHP; CurrentSpeed equals the derived
// speed with no effects.
func NewInstance(id string, bp *Blueprint, roomID string) *Instance {
	inst := &Instance{
		ID:          id,
		BlueprintID: bp.ID,
		Name:        bp.Name,
		Description: bp.Description,
		RoomID:      roomID,
		Level:       bp.Level,
		CurrentHP:   bp.MaxHP,
		MaxHP:       bp.MaxHP,
		AC:          bp.AC,
		BaseSpeed:   bp.Speed,
		AttackBonus: bp.AttackBonus,
		DamageDice:  bp.DamageDice,
		DamageType:  bp.DamageType,
		XPValue:     bp.XPValue,
		Aggressive:  bp.Aggressive,
		Loot:        bp.Loot,
	}
	inst.recomputeSpeed()
	return inst
}

// Alive reports whether the instance has hit points remaining.
func (i *Instance) Alive() bool {
	return i.CurrentHP > 0
}

// ApplyDamage reduces CurrentHP by amount, clamping at zero. Dropping to zero
// records the time of death and clears the combat engagement.
//
// Precondition: amount >= 0.
// Postcondition: 0 <= CurrentHP <= MaxHP; a dead instance has InCombat ==
// false and an empty TargetID.
func (i *Instance) ApplyDamage(amount int) {
	i.CurrentHP -= amount
	if i.CurrentHP <= 0 {
		i.CurrentHP = 0
		i.InCombat = false
		i.TargetID = ""
		if i.DiedAt.IsZero() {
			i.DiedAt = time.Now()
		}
	}
}

// Heal raises CurrentHP by amount, clamping at MaxHP.
//
// Precondition: amount >= 0; the instance is alive.
// Postcondition: CurrentHP <= MaxHP.
func (i *Instance) Heal(amount int) {
	i.CurrentHP += amount
	if i.CurrentHP > i.MaxHP {
		i.CurrentHP = i.MaxHP
	}
}

// ApplyEffect adds a timed effect. An effect of a kind already present
// replaces the existing one only when its magnitude is at least as large;
// a weaker same-kind effect is discarded. Derived speed is recomputed.
//
// Postcondition: at most one effect of each kind is active.
func (i *Instance) ApplyEffect(e Effect) {
	for idx := range i.Effects {
		if i.Effects[idx].Kind == e.Kind {
			if e.Magnitude >= i.Effects[idx].Magnitude {
				i.Effects[idx] = e
				i.recomputeSpeed()
			}
			return
		}
	}
	i.Effects = append(i.Effects, e)
	i.recomputeSpeed()
}

// TickEffects drops effects that have expired by currentTick and returns the
// kinds that expired. Derived speed is recomputed when anything expired.
//
// Postcondition: no remaining effect satisfies AppliedTick+DurationTicks <= currentTick.
func (i *Instance) TickEffects(currentTick int64) []string {
	var expired []string
	kept := i.Effects[:0]
	for _, e := range i.Effects {
		if e.expired(currentTick) {
			expired = append(expired, e.Kind)
			continue
		}
		kept = append(kept, e)
	}
	i.Effects = kept
	if len(expired) > 0 {
		i.recomputeSpeed()
	}
	return expired
}

func (i *Instance) recomputeSpeed() {
	speed := i.BaseSpeed
	for _, e := range i.Effects {
		switch e.Kind {
		case EffectSlow:
			speed -= e.Magnitude
		case EffectHaste:
			speed += e.Magnitude
		}
	}
	if speed < MinSpeed {
		speed = MinSpeed
	}
	i.CurrentSpeed = speed
}

// DisplayName returns the creature's name for combat narration.
func (i *Instance) DisplayName() string {
	return i.Name
}

// ArmorValue returns the creature's armor class.
func (i *Instance) ArmorValue() int {
	return i.AC
}

// AttackProfile returns the creature's offensive numbers for the resolver.
func (i *Instance) AttackProfile() combat.AttackProfile {
	return combat.AttackProfile{
		AttackBonus: i.AttackBonus,
		DamageDice:  i.DamageDice,
		DamageType:  i.DamageType,
	}
}

// HealthDescription returns a visible health state string for look output.
//
// Postcondition: Returns a non-empty string.
func (i *Instance) HealthDescription() string {
	if i.CurrentHP <= 0 {
		return "dead"
	}
	pct := float64(i.CurrentHP) / float64(i.MaxHP)
	switch {
	case pct >= 1.0:
		return "unharmed"
	case pct >= 0.85:
		return "barely scratched"
	case pct >= 0.60:
		return "lightly wounded"
	case pct >= 0.40:
		return "moderately wounded"
	case pct >= 0.20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
