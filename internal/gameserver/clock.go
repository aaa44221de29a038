package gameserver

import "time"

// Clock abstracts wall-clock time so the respawn timing can be driven
// deterministically in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SetClock replaces the game's clock. Intended for tests.
func (g *Game) SetClock(c Clock) {
	g.clock = c
}
