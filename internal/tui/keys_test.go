package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestKeyActionsHandle(t *testing.T) {
	actions := NewKeyActions()

	var pressed []string
	actions.AddRune('a', KeyAction{Label: "a", Description: "Add", Visible: true, Action: func(*tcell.EventKey) *tcell.EventKey {
		pressed = append(pressed, "a")

		return nil
	}})
	actions.Add(tcell.KeyCtrlR, KeyAction{Label: "^R", Description: "Retry", Visible: true, Action: func(*tcell.EventKey) *tcell.EventKey {
		pressed = append(pressed, "retry")

		return nil
	}})

	assert.Nil(t, actions.Handle(tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone)))
	assert.Nil(t, actions.Handle(tcell.NewEventKey(tcell.KeyCtrlR, 0, tcell.ModCtrl)))

	unbound := tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone)
	assert.Same(t, unbound, actions.Handle(unbound))

	assert.Equal(t, []string{"a", "retry"}, pressed)
}

func TestKeyActionsHints(t *testing.T) {
	actions := NewKeyActions()
	actions.Add(tcell.KeyEnter, KeyAction{Label: "Enter", Description: "Open", Visible: true})
	actions.AddRune('x', KeyAction{Label: "x", Description: "Hidden"})
	actions.AddRune('d', KeyAction{Label: "d", Description: "Remove", Visible: true})
	actions.Add(tcell.KeyEnter, KeyAction{Label: "Enter", Description: "Details", Visible: true})

	assert.Equal(t, []string{"<Enter> Details", "<d> Remove"}, actions.Hints())
}
