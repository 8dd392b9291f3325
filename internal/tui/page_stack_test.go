package tui

import (
	"context"
	"testing"

	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPage struct {
	*BaseComponent
	view   *tview.Box
	starts []context.Context
	closed bool
}

func newRecordingPage(name string) *recordingPage {
	return &recordingPage{BaseComponent: NewBaseComponent(name), view: tview.NewBox()}
}

func (p *recordingPage) Primitive() tview.Primitive { return p.view }

func (p *recordingPage) Start(ctx context.Context) { p.starts = append(p.starts, ctx) }

func (p *recordingPage) Close() { p.closed = true }

func TestPageStackPushPop(t *testing.T) {
	changes := 0
	stack := NewPageStack(context.Background(), func() { changes++ })

	home := newRecordingPage("Shelf")
	detail := newRecordingPage("Book")

	stack.Push(home)
	stack.Push(detail)

	assert.Equal(t, []string{"Shelf", "Book"}, stack.Crumbs())
	assert.Same(t, detail, stack.Top())
	require.Len(t, home.starts, 1)
	require.Error(t, home.starts[0].Err(), "a covered page must be stopped")

	popped := stack.Pop()

	assert.Same(t, detail, popped)
	assert.True(t, detail.closed)
	assert.Error(t, detail.starts[0].Err())
	require.Len(t, home.starts, 2)
	require.NoError(t, home.starts[1].Err())
	assert.Equal(t, 1, stack.Depth())
	assert.Equal(t, 3, changes)

	assert.Nil(t, stack.Pop(), "the root page stays")
	assert.False(t, home.closed)

	stack.Close()
	assert.True(t, home.closed)
	assert.Error(t, home.starts[1].Err())
	assert.Equal(t, 0, stack.Depth())
}
