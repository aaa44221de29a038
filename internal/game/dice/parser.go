package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// Expression represents a parsed damage expression ready to be rolled.
//
// Two forms exist. Dice expressions ("2d6+3") roll Count dice of Sides faces
// and add Modifier. Flat expressions ("10", "3+2") roll nothing: FlatBase is
// the guaranteed base amount and Modifier the optional adjustment.
//
// Invariant: after a successful Parse, either Flat is true and Count ==
// Sides == 0, or Flat is false and Count >= 1, Sides >= 1.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice; 0 for flat expressions
	Sides    int    // faces per die; 0 for flat expressions
	Modifier int    // flat modifier (may be negative)
	Flat     bool   // true when the expression contains no dice
	FlatBase int    // guaranteed base amount for flat expressions
}

// DicePortion returns the expression with its modifier stripped, leaving only
// the part that is re-rolled on a critical hit. For a flat expression the
// portion is the flat base itself.
func (e Expression) DicePortion() Expression {
	portion := e
	portion.Modifier = 0
	return portion
}

// Parse parses a damage expression string into an Expression.
// Supported forms: "d20", "2d6", "2d6+3", "4d8-2", "10", "3+2", "5-1".
// Precondition: expr must be a non-empty string.
// Postcondition: Returns an Expression or a descriptive error.
func Parse(expr string) (Expression, error) {
	if expr == "" {
		return Expression{}, fmt.Errorf("dice: empty expression")
	}

	raw := expr
	s := strings.ToLower(strings.TrimSpace(expr))

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return parseFlat(raw, s)
	}

	// Parse count (the part before 'd'); defaults to 1 when omitted.
	var count int
	countStr := s[:dIdx]
	if countStr == "" {
		count = 1
	} else {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: %w", raw, err)
		}
		if count <= 0 {
			return Expression{}, fmt.Errorf("dice: invalid die count in %q: must be >= 1", raw)
		}
	}

	sidesStr, modStr := splitModifier(s[dIdx+1:])

	sides, err := strconv.Atoi(sidesStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: %w", raw, err)
	}
	if sides < 1 {
		return Expression{}, fmt.Errorf("dice: invalid die sides in %q: must be >= 1", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{
		Raw:      raw,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}

// parseFlat handles diceless expressions: "10", "3+2", "5-1".
func parseFlat(raw, s string) (Expression, error) {
	baseStr, modStr := splitModifier(s)

	base, err := strconv.Atoi(baseStr)
	if err != nil {
		return Expression{}, fmt.Errorf("dice: invalid flat amount in %q: %w", raw, err)
	}
	if base < 0 {
		return Expression{}, fmt.Errorf("dice: invalid flat amount in %q: must be >= 0", raw)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("dice: invalid modifier in %q: %w", raw, err)
		}
	}

	return Expression{
		Raw:      raw,
		Modifier: modifier,
		Flat:     true,
		FlatBase: base,
	}, nil
}

// splitModifier splits s at the first '+' or '-' that is not at position 0
// (to skip a leading sign), returning the head and the signed tail.
func splitModifier(s string) (head, mod string) {
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			return s[:i], s[i:]
		}
	}
	return s, ""
}
