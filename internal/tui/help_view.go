package tui

import (
	"github.com/rivo/tview"
)

const helpPageName = "Help"

// HelpView displays keyboard shortcuts
type HelpView struct {
	*BaseComponent
	textView *tview.TextView
}

// NewHelpView creates a new help view
func NewHelpView(app *App) *HelpView {
	view := &HelpView{
		BaseComponent: NewBaseComponent(helpPageName),
	}

	view.textView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetText(helpText)

	view.textView.SetBorder(true).
		SetTitle(" Keyboard Shortcuts ").
		SetBackgroundColor(app.styles.BgColor)

	return view
}

func (v *HelpView) Primitive() tview.Primitive {
	return v.textView
}

const helpText = `[aqua::b]bookworm - Keyboard Shortcuts[-::-]

[yellow]Global[-]
  [white]?[-]         Show this help (outside the search bar)
  [white]Ctrl+C[-]    Quit
  [white]Esc[-]       Go back

[yellow]Shelf[-]
  [white]Type[-]      Search the catalog (more than 3 characters)
  [white]Ctrl+P[-]    Search by the cover photo whose path is typed
  [white]Ctrl+R[-]    Retry the last search
  [white]Tab[-]       Switch between search bar and list
  [white]Enter[-]     Open the selected book
  [white]Esc[-]       Clear the search and show the shelf

[yellow]Book[-]
  [white]a[-]         Add to shelf
  [white]d[-]         Remove from shelf
  [white]Ctrl+R[-]    Reload

[gray]Press Esc to close this help screen[-]
`
