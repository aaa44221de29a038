package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", Colorize(Red, "danger"))
	assert.Equal(t, "\033[1m\033[0m", Colorize(Bold, ""))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mHP: 7/12\033[0m", Colorf(Green, "HP: %d/%d", 7, 12))
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"styled fragments", "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m", "red normal bold green"},
		{"plain text", "plain text", "plain text"},
		{"empty", "", ""},
		{"unterminated sequence kept", "\033[31", "\033[31"},
		{"bare escape kept", "a\033b", "a\033b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripANSI(tt.input))
		})
	}
}

func TestPropertyStripANSI_UndoesColorize(t *testing.T) {
	palette := []string{Red, Green, Blue, Yellow, Cyan, Magenta, White, Bold, Dim, BrightRed, BgBlue}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(palette).Draw(t, "color")
		assert.Equal(t, text, StripANSI(Colorize(color, text)))
	})
}

func TestPropertyStripANSI_RemovesStackedStyles(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,30}`).Draw(t, "text")
		stripped := StripANSI(Bold + Red + text + Reset)
		assert.Equal(t, text, stripped)
		assert.NotContains(t, stripped, "\033")
	})
}

func TestPropertyStripANSI_NeverGrows(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		assert.LessOrEqual(t, len(StripANSI(s)), len(s))
	})
}
