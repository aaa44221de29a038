package ruleset

// Registry provides lookup of classes and races by ID.
// It is populated once at startup (and again on content reload) and read by
// the player stat derivation.
type Registry struct {
	classes map[string]*Class
	races   map[string]*Race
}

// NewRegistry returns an empty Registry.
//
// Postcondition: Returns a non-nil *Registry ready to accept registrations.
func NewRegistry() *Registry {
	return &Registry{
		classes: make(map[string]*Class),
		races:   make(map[string]*Race),
	}
}

// RegisterClass adds a Class to the registry.
//
// Precondition: c must be non-nil with a non-empty ID.
// Postcondition: c is retrievable via Class; the last registration for an ID wins.
func (r *Registry) RegisterClass(c *Class) {
	if c == nil || c.ID == "" {
		panic("Registry.RegisterClass: precondition violated: class must be non-nil with an ID")
	}
	r.classes[c.ID] = c
}

// RegisterRace adds a Race to the registry.
//
// Precondition: race must be non-nil with a non-empty ID.
// Postcondition: race is retrievable via Race; the last registration for an ID wins.
func (r *Registry) RegisterRace(race *Race) {
	if race == nil || race.ID == "" {
		panic("Registry.RegisterRace: precondition violated: race must be non-nil with an ID")
	}
	r.races[race.ID] = race
}

// Class returns the Class for the given ID, if registered.
func (r *Registry) Class(id string) (*Class, bool) {
	c, ok := r.classes[id]
	return c, ok
}

// Race returns the Race for the given ID, if registered.
func (r *Registry) Race(id string) (*Race, bool) {
	race, ok := r.races[id]
	return race, ok
}

// Classes returns all registered classes.
func (r *Registry) Classes() []*Class {
	out := make([]*Class, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	return out
}

// Races returns all registered races.
func (r *Registry) Races() []*Race {
	out := make([]*Race, 0, len(r.races))
	for _, race := range r.races {
		out = append(out, race)
	}
	return out
}
