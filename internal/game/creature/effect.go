package creature

// MinSpeed is the floor for derived speed after effect penalties.
const MinSpeed = 5

// Effect kind constants. Slow and haste adjust derived speed; other kinds are
// carried for expiry bookkeeping only.
const (
	EffectSlow   = "slow"
	EffectHaste  = "haste"
	EffectPoison = "poison"
)

// Effect is a timed status effect applied to a live instance.
//
// Invariant: DurationTicks >= 1 for any effect held by an instance.
type Effect struct {
	Kind          string
	Magnitude     int
	DurationTicks int64
	AppliedTick   int64
}

// expired reports whether the effect has run its course at the given tick.
func (e Effect) expired(currentTick int64) bool {
	return e.AppliedTick+e.DurationTicks <= currentTick
}
