package tui

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// ActionHandler handles a key press and returns nil when it consumed the event.
type ActionHandler func(evt *tcell.EventKey) *tcell.EventKey

// KeyAction is one keyboard binding.
type KeyAction struct {
	Label       string
	Description string
	Action      ActionHandler
	Visible     bool
}

type keyID struct {
	key tcell.Key
	r   rune
}

func idOf(evt *tcell.EventKey) keyID {
	if evt.Key() == tcell.KeyRune {
		return keyID{key: tcell.KeyRune, r: evt.Rune()}
	}

	return keyID{key: evt.Key()}
}

// KeyActions maps special keys and runes to actions, remembering the order
// they were added in for hints.
type KeyActions struct {
	mx      sync.RWMutex
	actions map[keyID]KeyAction
	order   []keyID
}

// NewKeyActions creates an empty binding set.
func NewKeyActions() *KeyActions {
	return &KeyActions{actions: make(map[keyID]KeyAction)}
}

// Add binds a special key.
func (k *KeyActions) Add(key tcell.Key, action KeyAction) {
	k.add(keyID{key: key}, action)
}

// AddRune binds a character key.
func (k *KeyActions) AddRune(r rune, action KeyAction) {
	k.add(keyID{key: tcell.KeyRune, r: r}, action)
}

func (k *KeyActions) add(id keyID, action KeyAction) {
	k.mx.Lock()
	defer k.mx.Unlock()

	if _, exists := k.actions[id]; !exists {
		k.order = append(k.order, id)
	}

	k.actions[id] = action
}

// Handle runs the action bound to evt. It returns evt unchanged when nothing
// is bound.
func (k *KeyActions) Handle(evt *tcell.EventKey) *tcell.EventKey {
	k.mx.RLock()
	action, ok := k.actions[idOf(evt)]
	k.mx.RUnlock()

	if !ok || action.Action == nil {
		return evt
	}

	return action.Action(evt)
}

// Hints returns "<label> description" for every visible action.
func (k *KeyActions) Hints() []string {
	k.mx.RLock()
	defer k.mx.RUnlock()

	hints := make([]string, 0, len(k.order))
	for _, id := range k.order {
		if action := k.actions[id]; action.Visible {
			hints = append(hints, "<"+action.Label+"> "+action.Description)
		}
	}

	return hints
}
