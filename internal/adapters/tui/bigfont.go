package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// clockGlyphs holds a three-row half-block glyph for every clock character.
var clockGlyphs = map[rune][3]string{
	'0': {"█▀█", "█ █", "█▄█"},
	'1': {"▀█ ", " █ ", "▄█▄"},
	'2': {"▀▀█", "█▀▀", "█▄▄"},
	'3': {"▀▀█", " ▀█", "▄▄█"},
	'4': {"█ █", "▀▀█", "  █"},
	'5': {"█▀▀", "▀▀█", "▄▄█"},
	'6': {"█▀▀", "█▀█", "█▄█"},
	'7': {"▀▀█", "  █", "  █"},
	'8': {"█▀█", "█▀█", "█▄█"},
	'9': {"█▀█", "▀▀█", "▄▄█"},
	':': {"▄", " ", "▀"},
}

// minBigClockWidth is the narrowest terminal that gets the large clock.
const minBigClockWidth = 30

// renderClock draws an MM:SS string in large glyphs, or as plain styled
// text when the terminal is too narrow.
func renderClock(clock string, style lipgloss.Style, width int) string {
	if width < minBigClockWidth {
		return style.Render(clock)
	}

	var rows [3][]string
	for _, ch := range clock {
		glyph, ok := clockGlyphs[ch]
		if !ok {
			continue
		}
		for i := range rows {
			rows[i] = append(rows[i], glyph[i])
		}
	}

	lines := make([]string, len(rows))
	for i, parts := range rows {
		lines[i] = style.Render(strings.Join(parts, " "))
	}
	return strings.Join(lines, "\n")
}
