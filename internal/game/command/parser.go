package command

import "strings"

// ParseResult holds one line of player input split into a command word and
// its arguments.
type ParseResult struct {
	// Command is the first word, lowercased for registry lookup.
	Command string
	// Args are the remaining whitespace-separated words.
	Args []string
	// RawArgs is everything after the command word with inner spacing kept,
	// which say and kill want verbatim.
	RawArgs string
}

// Parse splits a line of player input. The command word is lowercased;
// argument casing and inner spacing are preserved in RawArgs. A line opening
// with an apostrophe is the usual MUD shorthand for say, so 'hail parses the
// same as "say hail".
//
// Postcondition: a blank or whitespace-only line yields a zero ParseResult.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}
	if rest, ok := strings.CutPrefix(line, "'"); ok {
		return withArgs("say", strings.TrimSpace(rest))
	}

	word, rest, found := strings.Cut(line, " ")
	if !found {
		return ParseResult{Command: strings.ToLower(word)}
	}
	return withArgs(strings.ToLower(word), strings.TrimSpace(rest))
}

func withArgs(cmd, rest string) ParseResult {
	out := ParseResult{Command: cmd, RawArgs: rest}
	if rest != "" {
		out.Args = strings.Fields(rest)
	}
	return out
}
