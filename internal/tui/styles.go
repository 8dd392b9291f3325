package tui

import (
	"github.com/gdamore/tcell/v2"
)

// Styles holds the color scheme for the TUI.
type Styles struct {
	BgColor     tcell.Color
	FgColor     tcell.Color
	BorderColor tcell.Color

	StatusOK      tcell.Color
	StatusWarning tcell.Color
	StatusError   tcell.Color
	StatusInfo    tcell.Color

	TitleFg tcell.Color
	CrumbFg tcell.Color
	CrumbBg tcell.Color

	InputFieldBg tcell.Color
}

// DefaultStyles returns the dark color scheme.
func DefaultStyles() *Styles {
	return &Styles{
		BgColor:     tcell.ColorBlack,
		FgColor:     tcell.ColorWhite,
		BorderColor: tcell.ColorDarkCyan,

		StatusOK:      tcell.ColorGreen,
		StatusWarning: tcell.ColorYellow,
		StatusError:   tcell.ColorRed,
		StatusInfo:    tcell.ColorDodgerBlue,

		TitleFg: tcell.ColorAqua,
		CrumbFg: tcell.ColorGray,
		CrumbBg: tcell.ColorBlack,

		InputFieldBg: tcell.ColorDarkSlateGray,
	}
}

// Tag wraps text in a tview color tag for color.
func (s *Styles) Tag(color tcell.Color, text string) string {
	return "[" + ColorName(color) + "]" + text + "[-]"
}

// ColorName converts tcell.Color to a tview color name.
func ColorName(color tcell.Color) string {
	switch color {
	case tcell.ColorGreen:
		return "green"
	case tcell.ColorRed:
		return "red"
	case tcell.ColorYellow:
		return "yellow"
	case tcell.ColorDodgerBlue:
		return "dodgerblue"
	case tcell.ColorGray:
		return "gray"
	case tcell.ColorAqua:
		return "aqua"
	case tcell.ColorDarkCyan:
		return "darkcyan"
	default:
		return "white"
	}
}
