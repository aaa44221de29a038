// Package telnet serves the game over plain Telnet: a TCP acceptor, a
// line-oriented connection wrapper, ANSI styling helpers, and the login and
// play session flow.
package telnet

import (
	"fmt"
	"strings"
)

const esc = "\033["

// ANSI styling codes understood by nearly every Telnet client.
const (
	Reset     = esc + "0m"
	Bold      = esc + "1m"
	Dim       = esc + "2m"
	Italic    = esc + "3m"
	Underline = esc + "4m"

	// Foreground
	Black   = esc + "30m"
	Red     = esc + "31m"
	Green   = esc + "32m"
	Yellow  = esc + "33m"
	Blue    = esc + "34m"
	Magenta = esc + "35m"
	Cyan    = esc + "36m"
	White   = esc + "37m"

	// Bright foreground
	BrightBlack   = esc + "90m"
	BrightRed     = esc + "91m"
	BrightGreen   = esc + "92m"
	BrightYellow  = esc + "93m"
	BrightBlue    = esc + "94m"
	BrightMagenta = esc + "95m"
	BrightCyan    = esc + "96m"
	BrightWhite   = esc + "97m"

	// Background
	BgBlack   = esc + "40m"
	BgRed     = esc + "41m"
	BgGreen   = esc + "42m"
	BgYellow  = esc + "43m"
	BgBlue    = esc + "44m"
	BgMagenta = esc + "45m"
	BgCyan    = esc + "46m"
	BgWhite   = esc + "47m"
)

// Colorize wraps text in the given styling code and a trailing Reset.
func Colorize(color, text string) string {
	return color + text + Reset
}

// Colorf formats like fmt.Sprintf and wraps the result in color and Reset.
func Colorf(color, format string, args ...interface{}) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI drops every \033[...m sequence from s. Handy for measuring the
// printable width of a styled line. An unterminated sequence at the end of
// the string is kept as-is.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			if end := strings.IndexByte(s[i+2:], 'm'); end >= 0 {
				i += end + 3
				continue
			}
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
