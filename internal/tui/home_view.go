package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/kedare/bookworm/internal/controller"
	"github.com/kedare/bookworm/internal/state"
	"github.com/kedare/bookworm/internal/tui/widgets"
	"github.com/rivo/tview"
)

// HomeView shows the shelf, or catalog results while the search bar holds
// a query.
type HomeView struct {
	*BaseComponent
	app     *App
	home    *controller.HomeController
	search  *controller.SearchController
	layout  *tview.Flex
	input   *tview.InputField
	message *tview.TextView
	table   *widgets.BookTable

	// silent suppresses the input's changed callback for programmatic edits.
	silent bool
}

// NewHomeView creates the shelf page and starts following the shelf.
func NewHomeView(app *App) (*HomeView, error) {
	v := &HomeView{
		BaseComponent: NewBaseComponent("Shelf"),
		app:           app,
		home:          controller.NewHomeController(app.ctx, app.config.Shelf),
		search:        controller.NewSearchController(app.ctx, app.config.Catalog, app.config.Photos),
	}

	if err := v.home.Start(app.ctx); err != nil {
		v.Close()

		return nil, err
	}

	v.buildUI()
	v.setupActions()

	return v, nil
}

func (v *HomeView) buildUI() {
	styles := v.app.styles

	v.input = tview.NewInputField().
		SetLabel(" Search: ").
		SetPlaceholder("title, or a photo path then Ctrl+P").
		SetFieldBackgroundColor(styles.InputFieldBg)

	v.input.SetChangedFunc(v.onInput)
	v.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter && v.table.GetRowCount() > 1 {
			v.app.SetFocus(v.table)
		}
	})

	v.message = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)

	v.table = widgets.NewBookTable([]string{"Title", "Authors", "Rating"}, bookCells)
	v.table.SetBorderColor(styles.BorderColor).
		SetTitleColor(styles.TitleFg)
	v.table.SetSelectedFunc(func(int, int) {
		if b, ok := v.table.SelectedBook(); ok {
			v.app.ShowBook(b.ID)
		}
	})

	v.layout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(v.input, 1, 0, true).
		AddItem(v.message, 1, 0, false).
		AddItem(v.table, 0, 1, false)
}

func (v *HomeView) setupActions() {
	v.actions.Add(tcell.KeyEnter, KeyAction{
		Label:       "Enter",
		Description: "Details",
		Visible:     true,
	})

	v.actions.Add(tcell.KeyTab, KeyAction{
		Label:       "Tab",
		Description: "Switch focus",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			if v.app.GetFocus() == v.input {
				v.app.SetFocus(v.table)
			} else {
				v.app.SetFocus(v.input)
			}

			return nil
		},
		Visible: true,
	})

	v.actions.Add(tcell.KeyCtrlP, KeyAction{
		Label:       "^P",
		Description: "Photo search",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			v.photoSearch()

			return nil
		},
		Visible: true,
	})

	v.actions.Add(tcell.KeyCtrlR, KeyAction{
		Label:       "^R",
		Description: "Retry",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			v.search.Retry()

			return nil
		},
		Visible: true,
	})

	v.actions.Add(tcell.KeyEscape, KeyAction{
		Label:       "Esc",
		Description: "Clear",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			v.reset()

			return nil
		},
		Visible: true,
	})
}

func (v *HomeView) Primitive() tview.Primitive {
	return v.layout
}

// Start renders every home and search change until ctx is done.
func (v *HomeView) Start(ctx context.Context) {
	homeUpdates := v.home.Subscribe(ctx)
	searchUpdates := v.search.Subscribe(ctx)

	go func() {
		var (
			home   state.Home = state.HomeInit{}
			search            = controller.SearchSnapshot{Searchbar: state.SearchbarEmpty{}, Results: state.ResultsEmpty{}}
		)

		for {
			select {
			case next, ok := <-homeUpdates:
				if !ok {
					return
				}

				home = next
			case next, ok := <-searchUpdates:
				if !ok {
					return
				}

				search = next
			}

			content := buildHomeContent(home, search.Searchbar, search.Results)
			v.app.QueueUpdateDraw(func() { v.render(content) })
		}
	}()
}

func (v *HomeView) render(content homeContent) {
	v.table.SetTitle(content.title)
	v.table.SetBooks(content.books)
	v.message.SetText(content.message)
}

func (v *HomeView) onInput(text string) {
	if v.silent {
		return
	}

	v.home.OnSearchbarInput(text)

	if text == "" {
		v.search.Reset()

		return
	}

	v.search.SetTextInput(text)
}

// photoSearch treats the search bar text as a photo path.
func (v *HomeView) photoSearch() {
	path := strings.TrimSpace(v.input.GetText())
	if path == "" {
		go v.app.Flash("Type the path of a cover photo first", true)

		return
	}

	v.home.OnSearchbarInput(path)
	v.search.ImageSearch(path)
	v.setInputSilently("")
	go v.app.Flash(fmt.Sprintf("Searching by photo %s", path), false)
}

func (v *HomeView) reset() {
	v.setInputSilently("")
	v.search.Reset()
	v.home.Reset()
	v.app.SetFocus(v.input)
}

func (v *HomeView) setInputSilently(text string) {
	v.silent = true
	v.input.SetText(text)
	v.silent = false
}

// Close stops both controllers.
func (v *HomeView) Close() {
	v.search.Close()
	v.home.Close()
}
