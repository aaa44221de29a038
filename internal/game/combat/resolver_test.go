package combat_test

import (
	"testing"

	"github.com/ironvale/mud/internal/game/combat"
	"github.com/ironvale/mud/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedSource returns canned values in order, cycling when exhausted.
type scriptedSource struct {
	values []int
	next   int
}

func (s *scriptedSource) Intn(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

type stubAttacker struct {
	name    string
	profile combat.AttackProfile
}

func (a *stubAttacker) DisplayName() string                 { return a.name }
func (a *stubAttacker) AttackProfile() combat.AttackProfile { return a.profile }

type stubDefender struct {
	name string
	ac   int
	hp   int
}

func (d *stubDefender) DisplayName() string { return d.name }
func (d *stubDefender) ArmorValue() int     { return d.ac }
func (d *stubDefender) Alive() bool         { return d.hp > 0 }
func (d *stubDefender) ApplyDamage(amount int) {
	d.hp -= amount
	if d.hp < 0 {
		d.hp = 0
	}
}

func newResolver(values ...int) *combat.Resolver {
	src := &scriptedSource{values: values}
	return combat.NewResolver(dice.NewLoggedRoller(src, zap.NewNop()))
}

func goblin(hp int) *stubDefender {
	return &stubDefender{name: "Goblin", ac: 12, hp: hp}
}

func swordsman() *stubAttacker {
	return &stubAttacker{name: "Ragnar", profile: combat.AttackProfile{
		AttackBonus: 4,
		DamageDice:  "1d6",
		DamageType:  "slashing",
		DamageBonus: 2,
	}}
}

func TestResolve_NaturalOneAlwaysMisses(t *testing.T) {
	// Natural 1 even with an enormous bonus against no armor.
	r := newResolver(0)
	attacker := swordsman()
	attacker.profile.AttackBonus = 100
	defender := goblin(10)
	defender.ac = 1

	messages := r.Resolve(attacker, defender, nil)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[1], "Critical Miss!")
	assert.Equal(t, 10, defender.hp, "a critical miss deals no damage")
}

func TestResolve_NaturalTwentyAlwaysHits(t *testing.T) {
	// Natural 20 against unreachable armor still lands, critically.
	// Rolls: d20 face 20, damage die face 4, crit die face 4.
	r := newResolver(19, 3, 3)
	attacker := swordsman()
	attacker.profile.AttackBonus = 0
	defender := goblin(50)
	defender.ac = 40

	messages := r.Resolve(attacker, defender, nil)
	assert.Contains(t, messages[1], "Critical Hit!")
	// 4 (base die) + 4 (crit die) + 2 (damage bonus, applied once) = 10.
	assert.Equal(t, 40, defender.hp)
}

func TestResolve_CriticalHit_ModifierAppliedOnce(t *testing.T) {
	// Damage 2d6+3: crit re-rolls the two dice but not the +3.
	// Rolls: d20 face 20, then 2 base dice face 3, then 2 crit dice face 3.
	r := newResolver(19, 2, 2, 2, 2)
	attacker := &stubAttacker{name: "Ragnar", profile: combat.AttackProfile{
		DamageDice: "2d6+3",
		DamageType: "slashing",
	}}
	defender := goblin(50)

	r.Resolve(attacker, defender, nil)
	// (3+3+3) + (3+3) = 15.
	assert.Equal(t, 35, defender.hp)
}

func TestResolve_CriticalHit_FlatExpressionDoubles(t *testing.T) {
	// A flat damage expression has no dice; its base is the re-rolled portion.
	r := newResolver(19)
	attacker := &stubAttacker{name: "Golem", profile: combat.AttackProfile{
		DamageDice: "10",
		DamageType: "bludgeoning",
	}}
	defender := goblin(50)

	r.Resolve(attacker, defender, nil)
	assert.Equal(t, 30, defender.hp, "flat 10 crits as 20")
}

func TestResolve_HitOnMeetingArmor(t *testing.T) {
	// Roll 8 + bonus 4 == AC 12 is a hit; damage die face 5 + bonus 2 = 7.
	r := newResolver(7, 4)
	defender := goblin(20)

	messages := r.Resolve(swordsman(), defender, nil)
	assert.Contains(t, messages[1], "hits Goblin for 7 slashing damage")
	assert.Equal(t, 13, defender.hp)
}

func TestResolve_Miss(t *testing.T) {
	// Roll 5 + bonus 4 < AC 12.
	r := newResolver(4)
	defender := goblin(20)

	messages := r.Resolve(swordsman(), defender, nil)
	assert.Contains(t, messages[1], "misses Goblin")
	assert.Equal(t, 20, defender.hp)
}

func TestResolve_DamageNeverNegative(t *testing.T) {
	// 1d4-10 with die face 1 would be -9; clamp to 0.
	r := newResolver(11, 0)
	attacker := &stubAttacker{name: "Wisp", profile: combat.AttackProfile{
		DamageDice: "1d4-10",
		DamageType: "necrotic",
	}}
	defender := goblin(20)

	messages := r.Resolve(attacker, defender, nil)
	assert.Contains(t, messages[1], "hits Goblin for 0 necrotic damage")
	assert.Equal(t, 20, defender.hp)
}

func TestResolve_DefeatLine(t *testing.T) {
	r := newResolver(9, 3)
	defender := goblin(5)

	messages := r.Resolve(swordsman(), defender, nil)
	require.NotEmpty(t, messages)
	assert.Contains(t, messages[len(messages)-1], "Goblin has been defeated!")
	assert.False(t, defender.Alive())
}

func TestResolve_MalformedDamageDealsZero(t *testing.T) {
	r := newResolver(11)
	attacker := &stubAttacker{name: "Glitch", profile: combat.AttackProfile{
		DamageDice: "not-dice",
		DamageType: "psychic",
	}}
	defender := goblin(20)

	r.Resolve(attacker, defender, nil)
	assert.Equal(t, 20, defender.hp, "malformed expressions deal zero damage")
}

func TestResolve_OverrideProfileReplacesAttackersOwn(t *testing.T) {
	// A fire-breath style override: the attacker's melee numbers are ignored
	// for this exchange. Roll 10 + override bonus 8 vs AC 12, die face 6.
	r := newResolver(9, 5)
	attacker := swordsman()
	attacker.profile.AttackBonus = -100
	defender := goblin(20)

	breath := &combat.AttackProfile{
		AttackBonus: 8,
		DamageDice:  "1d8",
		DamageType:  "fire",
	}
	messages := r.Resolve(attacker, defender, breath)
	assert.Contains(t, messages[0], "Bonus: 8")
	assert.Contains(t, messages[1], "hits Goblin for 6 fire damage")
	assert.Equal(t, 14, defender.hp)
}

func TestResolve_OverrideStillRespectsNaturalOne(t *testing.T) {
	r := newResolver(0)
	defender := goblin(20)

	nuke := &combat.AttackProfile{AttackBonus: 100, DamageDice: "10d10", DamageType: "force"}
	messages := r.Resolve(swordsman(), defender, nuke)
	assert.Contains(t, messages[1], "Critical Miss!")
	assert.Equal(t, 20, defender.hp)
}

func TestAbilityMod(t *testing.T) {
	tests := []struct {
		score int
		mod   int
	}{
		{10, 0}, {11, 0}, {12, 1}, {9, -1}, {8, -1}, {7, -2}, {20, 5}, {1, -5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.mod, combat.AbilityMod(tt.score), "score %d", tt.score)
	}
}
