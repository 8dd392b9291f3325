package tui

import (
	"context"

	"github.com/rivo/tview"
)

// Component is a page of the TUI.
type Component interface {
	// Name identifies the page and appears in the breadcrumbs.
	Name() string

	// Primitive returns the tview primitive for rendering.
	Primitive() tview.Primitive

	// Start is called when the page becomes visible. Work started here must
	// end when ctx is done.
	Start(ctx context.Context)

	// Close releases the page once it leaves the stack.
	Close()

	// Actions returns the page's keyboard bindings.
	Actions() *KeyActions
}

// BaseComponent provides defaults for Component.
type BaseComponent struct {
	name    string
	actions *KeyActions
}

func NewBaseComponent(name string) *BaseComponent {
	return &BaseComponent{
		name:    name,
		actions: NewKeyActions(),
	}
}

func (b *BaseComponent) Name() string {
	return b.name
}

func (b *BaseComponent) Start(context.Context) {}

func (b *BaseComponent) Close() {}

func (b *BaseComponent) Actions() *KeyActions {
	return b.actions
}
