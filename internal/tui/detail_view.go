package tui

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/kedare/bookworm/internal/controller"
	"github.com/rivo/tview"
)

// DetailView shows one book and adds it to or removes it from the shelf.
type DetailView struct {
	*BaseComponent
	app  *App
	id   string
	ctrl *controller.DetailController
	text *tview.TextView
}

// NewDetailView creates the page and starts loading id.
func NewDetailView(app *App, id string) *DetailView {
	v := &DetailView{
		BaseComponent: NewBaseComponent("Book"),
		app:           app,
		id:            id,
		ctrl:          controller.NewDetailController(app.ctx, app.config.Catalog, app.config.Shelf),
	}

	v.text = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	v.text.SetBorder(true).
		SetBorderColor(app.styles.BorderColor).
		SetTitle(" " + id + " ").
		SetTitleColor(app.styles.TitleFg)

	v.setupActions()
	v.ctrl.LoadBook(id)

	return v
}

func (v *DetailView) setupActions() {
	v.actions.AddRune('a', KeyAction{
		Label:       "a",
		Description: "Add to shelf",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			go v.mutate(v.ctrl.AddBook, "Added to shelf")

			return nil
		},
		Visible: true,
	})

	v.actions.AddRune('d', KeyAction{
		Label:       "d",
		Description: "Remove from shelf",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			go v.mutate(v.ctrl.RemoveBook, "Removed from shelf")

			return nil
		},
		Visible: true,
	})

	v.actions.Add(tcell.KeyCtrlR, KeyAction{
		Label:       "^R",
		Description: "Reload",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			v.ctrl.LoadBook(v.id)

			return nil
		},
		Visible: true,
	})
}

func (v *DetailView) mutate(op func(context.Context) error, done string) {
	if err := op(v.app.ctx); err != nil {
		v.app.Flash(err.Error(), true)

		return
	}

	v.app.Flash(done, false)
}

func (v *DetailView) Primitive() tview.Primitive {
	return v.text
}

// Start renders detail changes until ctx is done.
func (v *DetailView) Start(ctx context.Context) {
	updates := v.ctrl.Subscribe(ctx)

	go func() {
		for details := range updates {
			text := detailsText(details)
			v.app.QueueUpdateDraw(func() {
				v.text.SetText(text)
				v.text.ScrollToBeginning()
			})
		}
	}()
}

// Close cancels the load and releases the controller.
func (v *DetailView) Close() {
	v.ctrl.Close()
}
