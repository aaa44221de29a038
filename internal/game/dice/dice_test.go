package dice_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ironvale/mud/internal/game/dice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"
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

// TestParse_DiceForms verifies the supported dice grammar.
func TestParse_DiceForms(t *testing.T) {
	tests := []struct {
		expr     string
		count    int
		sides    int
		modifier int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"2d6+3", 2, 6, 3},
		{"4d8-2", 4, 8, -2},
		{"1d1", 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := dice.Parse(tt.expr)
			require.NoError(t, err)
			assert.False(t, e.Flat)
			assert.Equal(t, tt.count, e.Count)
			assert.Equal(t, tt.sides, e.Sides)
			assert.Equal(t, tt.modifier, e.Modifier)
		})
	}
}

// TestParse_FlatForms verifies diceless expressions parse as flat amounts.
func TestParse_FlatForms(t *testing.T) {
	tests := []struct {
		expr     string
		base     int
		modifier int
	}{
		{"10", 10, 0},
		{"3+2", 3, 2},
		{"5-1", 5, -1},
		{"0", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			e, err := dice.Parse(tt.expr)
			require.NoError(t, err)
			assert.True(t, e.Flat)
			assert.Equal(t, tt.base, e.FlatBase)
			assert.Equal(t, tt.modifier, e.Modifier)
			assert.Zero(t, e.Count)
			assert.Zero(t, e.Sides)
		})
	}
}

// TestParse_Malformed verifies descriptive errors for rejected input.
func TestParse_Malformed(t *testing.T) {
	for _, expr := range []string{"", "abc", "0d6", "-1d6", "2d", "2dx", "2d0", "d6+", "1.5", "-3"} {
		t.Run(fmt.Sprintf("%q", expr), func(t *testing.T) {
			_, err := dice.Parse(expr)
			assert.Error(t, err)
		})
	}
}

// TestRoll_Bounds verifies every roll of NdM+K lands in [N+K, N*M+K].
func TestRoll_Bounds(t *testing.T) {
	src := dice.NewCryptoSource()
	e := dice.MustParse("2d6+3")
	for i := 0; i < 1000; i++ {
		r, err := dice.Roll(e, src)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, r.Total(), 5)
		assert.LessOrEqual(t, r.Total(), 15)
		assert.Len(t, r.Dice, 2)
	}
}

// TestRoll_Bounds_Property verifies the range invariant for arbitrary
// well-formed dice expressions.
func TestRoll_Bounds_Property(t *testing.T) {
	src := dice.NewCryptoSource()
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 10).Draw(rt, "count")
		sides := rapid.IntRange(1, 20).Draw(rt, "sides")
		mod := rapid.IntRange(-5, 10).Draw(rt, "mod")

		expr := fmt.Sprintf("%dd%d%+d", count, sides, mod)
		r, err := dice.RollExpr(expr, src)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, r.Total(), count+mod)
		assert.LessOrEqual(rt, r.Total(), count*sides+mod)
	})
}

// TestRoll_FlatExactTotal verifies flat expressions produce no dice and the
// exact combined amount.
func TestRoll_FlatExactTotal(t *testing.T) {
	r, err := dice.RollExpr("3+2", dice.NewCryptoSource())
	require.NoError(t, err)
	assert.Empty(t, r.Dice)
	assert.Equal(t, 5, r.Total())
}

// TestExpression_DicePortion verifies the modifier is stripped and the flat
// base survives.
func TestExpression_DicePortion(t *testing.T) {
	e := dice.MustParse("2d6+3")
	p := e.DicePortion()
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, 6, p.Sides)
	assert.Zero(t, p.Modifier)

	flat := dice.MustParse("10").DicePortion()
	assert.True(t, flat.Flat)
	assert.Equal(t, 10, flat.FlatBase)
	assert.Zero(t, flat.Modifier)
}

// TestRollResult_Total verifies the postcondition: Total() == sum(Dice) + Modifier.
func TestRollResult_Total(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	assert.Equal(t, 12, r.Total(), "Total() must equal sum(Dice)+Modifier")
}

// TestRollResult_Total_Property verifies Total() for arbitrary inputs.
func TestRollResult_Total_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		dice_ := rapid.SliceOf(rapid.IntRange(1, 20)).Draw(rt, "dice")
		modifier := rapid.Int().Draw(rt, "modifier")

		r := dice.RollResult{
			Expression: "Nd6+M",
			Dice:       dice_,
			Modifier:   modifier,
		}

		expected := modifier
		for _, d := range dice_ {
			expected += d
		}

		assert.Equal(rt, expected, r.Total(),
			"Total() postcondition: must equal sum(Dice)+Modifier")
	})
}

// TestRollResult_String verifies the audit string contains expression, dice,
// and total.
func TestRollResult_String(t *testing.T) {
	r := dice.RollResult{
		Expression: "2d6+3",
		Dice:       []int{4, 5},
		Modifier:   3,
	}
	s := r.String()
	require.Contains(t, s, "2d6+3")
	require.Contains(t, s, "[4 5]")
	assert.True(t, strings.HasSuffix(s, "= 12"), "String() must end with the total")
}

// TestRollResult_String_PanicsOnEmptyExpression verifies the precondition.
func TestRollResult_String_PanicsOnEmptyExpression(t *testing.T) {
	r := dice.RollResult{Dice: []int{4}, Modifier: 0}
	assert.Panics(t, func() { _ = r.String() })
}

// TestCryptoSource_Intn_InRange verifies every value of Intn(6) is in [0, 6).
func TestCryptoSource_Intn_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
}

// TestCryptoSource_Intn_PanicsOnZero verifies Intn panics when n <= 0.
func TestCryptoSource_Intn_PanicsOnZero(t *testing.T) {
	src := dice.NewCryptoSource()
	assert.Panics(t, func() { src.Intn(0) })
}

// TestRoller_Damage_MalformedYieldsZero verifies the tolerant entry point
// absorbs bad content instead of propagating an error.
func TestRoller_Damage_MalformedYieldsZero(t *testing.T) {
	roller := dice.NewLoggedRoller(dice.NewCryptoSource(), zap.NewNop())
	assert.Zero(t, roller.Damage("not-dice"))
	assert.Zero(t, roller.Damage(""))
}

// TestRoller_Damage_UsesSource verifies Damage rolls through the wrapped source.
func TestRoller_Damage_UsesSource(t *testing.T) {
	src := &scriptedSource{values: []int{3, 3}}
	roller := dice.NewLoggedRoller(src, zap.NewNop())
	// 2d6+1 with both dice scripted to face 4.
	assert.Equal(t, 9, roller.Damage("2d6+1"))
}
