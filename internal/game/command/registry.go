package command

import "fmt"

// Registry resolves player input words to Command definitions. Canonical
// names and aliases share one lookup table; the canonical list is kept
// separately so Commands never returns a command twice.
type Registry struct {
	lookup    map[string]*Command
	canonical []string
}

// NewRegistry builds a Registry from the given command set.
//
// Precondition: canonical names and aliases must all be distinct from each
// other across the whole set.
// Postcondition: Returns an error naming the first colliding word, if any.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		lookup:    make(map[string]*Command, len(cmds)*2),
		canonical: make([]string, 0, len(cmds)),
	}
	for i := range cmds {
		cmd := &cmds[i]
		if err := r.bind(cmd.Name, cmd); err != nil {
			return nil, fmt.Errorf("duplicate command name: %w", err)
		}
		r.canonical = append(r.canonical, cmd.Name)
		for _, alias := range cmd.Aliases {
			if err := r.bind(alias, cmd); err != nil {
				return nil, fmt.Errorf("duplicate alias: %w", err)
			}
		}
	}
	return r, nil
}

func (r *Registry) bind(word string, cmd *Command) error {
	if taken, exists := r.lookup[word]; exists {
		return fmt.Errorf("%q already bound to %q", word, taken.Name)
	}
	r.lookup[word] = cmd
	return nil
}

// DefaultRegistry builds a Registry over the built-in command set. The set is
// static, so a collision here is a programming error and panics.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by canonical name or alias.
//
// Postcondition: Returns (command, true) when the word is bound.
func (r *Registry) Resolve(input string) (*Command, bool) {
	cmd, ok := r.lookup[input]
	return cmd, ok
}

// Commands returns every registered command once, in registration order.
func (r *Registry) Commands() []*Command {
	out := make([]*Command, 0, len(r.canonical))
	for _, name := range r.canonical {
		out = append(out, r.lookup[name])
	}
	return out
}

// CommandsByCategory groups the registered commands by Category for help
// output.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	grouped := make(map[string][]*Command)
	for _, cmd := range r.Commands() {
		grouped[cmd.Category] = append(grouped[cmd.Category], cmd)
	}
	return grouped
}
