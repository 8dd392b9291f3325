package tui

import (
	"context"
	"sync"

	"github.com/rivo/tview"
)

type stackEntry struct {
	component Component
	cancel    context.CancelFunc
}

// PageStack shows the top component of a navigation stack. Only the top
// component is started; its context is cancelled when another page covers
// it and renewed when it is shown again.
type PageStack struct {
	mx       sync.RWMutex
	ctx      context.Context
	pages    *tview.Pages
	stack    []stackEntry
	onChange func()
}

// NewPageStack creates a stack whose pages live until ctx is done. onChange
// runs after every push or pop.
func NewPageStack(ctx context.Context, onChange func()) *PageStack {
	return &PageStack{
		ctx:      ctx,
		pages:    tview.NewPages(),
		onChange: onChange,
	}
}

// Pages returns the underlying tview.Pages.
func (ps *PageStack) Pages() *tview.Pages {
	return ps.pages
}

// Push shows component on top of the stack.
func (ps *PageStack) Push(component Component) {
	ps.mx.Lock()

	if n := len(ps.stack); n > 0 {
		ps.stack[n-1].cancel()
	}

	ps.stack = append(ps.stack, ps.start(component))
	ps.pages.AddAndSwitchToPage(component.Name(), component.Primitive(), true)
	ps.mx.Unlock()

	ps.changed()
}

// Pop closes the top component and shows the previous one. The last page is
// never popped.
func (ps *PageStack) Pop() Component {
	ps.mx.Lock()

	if len(ps.stack) <= 1 {
		ps.mx.Unlock()

		return nil
	}

	top := ps.stack[len(ps.stack)-1]
	ps.stack = ps.stack[:len(ps.stack)-1]

	top.cancel()
	top.component.Close()
	ps.pages.RemovePage(top.component.Name())

	prev := ps.stack[len(ps.stack)-1].component
	ps.stack[len(ps.stack)-1] = ps.start(prev)
	ps.pages.SwitchToPage(prev.Name())
	ps.mx.Unlock()

	ps.changed()

	return top.component
}

func (ps *PageStack) start(component Component) stackEntry {
	ctx, cancel := context.WithCancel(ps.ctx)
	component.Start(ctx)

	return stackEntry{component: component, cancel: cancel}
}

// Top returns the top component without removing it.
func (ps *PageStack) Top() Component {
	ps.mx.RLock()
	defer ps.mx.RUnlock()

	if len(ps.stack) == 0 {
		return nil
	}

	return ps.stack[len(ps.stack)-1].component
}

// Depth returns the current stack depth.
func (ps *PageStack) Depth() int {
	ps.mx.RLock()
	defer ps.mx.RUnlock()

	return len(ps.stack)
}

// Crumbs returns the page names from bottom to top.
func (ps *PageStack) Crumbs() []string {
	ps.mx.RLock()
	defer ps.mx.RUnlock()

	crumbs := make([]string, len(ps.stack))
	for i, entry := range ps.stack {
		crumbs[i] = entry.component.Name()
	}

	return crumbs
}

// Close stops and closes every page.
func (ps *PageStack) Close() {
	ps.mx.Lock()
	defer ps.mx.Unlock()

	for i := len(ps.stack) - 1; i >= 0; i-- {
		ps.stack[i].cancel()
		ps.stack[i].component.Close()
		ps.pages.RemovePage(ps.stack[i].component.Name())
	}

	ps.stack = nil
}

func (ps *PageStack) changed() {
	if ps.onChange != nil {
		ps.onChange()
	}
}
