package output

import (
	"os"
	"strconv"

	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"
)

// DefaultWidth is used when the terminal width cannot be detected.
const DefaultWidth = 100

func detectTerminalWidth() (int, bool) {
	if raw, ok := os.LookupEnv("COLUMNS"); ok {
		if width, err := strconv.Atoi(raw); err == nil && width > 0 {
			return width, true
		}
	}

	if width, ok := systemTerminalWidth(); ok {
		return width, true
	}

	return 0, false
}

// TerminalWidth returns the detected terminal width or DefaultWidth.
func TerminalWidth() int {
	if width, ok := detectTerminalWidth(); ok {
		return width
	}

	return DefaultWidth
}

func visibleWidth(s string) int {
	return runewidth.StringWidth(pterm.RemoveColorFromString(s))
}

// Truncate shortens s to at most maxWidth terminal cells, marking the cut
// with an ellipsis. Wide runes count as two cells.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}

	return runewidth.Truncate(s, maxWidth, "…")
}
