// Package tui is the interactive terminal interface: a shelf page with a
// search bar, and a detail page per book.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kedare/bookworm/internal/controller"
	"github.com/kedare/bookworm/internal/logger"
	"github.com/rivo/tview"
)

// Shelf is the local store as used by the TUI pages.
type Shelf interface {
	controller.Shelf
	controller.ShelfFeed
}

// Config holds the TUI dependencies.
type Config struct {
	Catalog controller.Catalog
	Photos  controller.PhotoService
	Shelf   Shelf
}

// App is the main TUI application
type App struct {
	*tview.Application
	config     *Config
	styles     *Styles
	pageStack  *PageStack
	header     *tview.TextView
	crumbs     *tview.TextView
	statusBar  *tview.TextView
	flash      *tview.TextView
	globalKeys *KeyActions
	ctx        context.Context
	cancel     context.CancelFunc
	flashMx    sync.Mutex
	flashID    int
}

// NewApp creates a new TUI application that stops when ctx is done.
func NewApp(ctx context.Context, config *Config) *App {
	ctx, cancel := context.WithCancel(ctx)

	app := &App{
		Application: tview.NewApplication(),
		config:      config,
		styles:      DefaultStyles(),
		globalKeys:  NewKeyActions(),
		ctx:         ctx,
		cancel:      cancel,
	}

	app.EnableMouse(true)
	app.pageStack = NewPageStack(ctx, app.pagesChanged)
	app.setupGlobalKeys()
	app.buildUI()

	return app
}

func (a *App) setupGlobalKeys() {
	a.globalKeys.Add(tcell.KeyCtrlC, KeyAction{
		Label:       "^C",
		Description: "Quit",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			a.Application.Stop()

			return nil
		},
		Visible: true,
	})

	a.globalKeys.AddRune('?', KeyAction{
		Label:       "?",
		Description: "Help",
		Action: func(*tcell.EventKey) *tcell.EventKey {
			a.ShowHelp()

			return nil
		},
		Visible: true,
	})

	a.globalKeys.Add(tcell.KeyEscape, KeyAction{
		Label:       "Esc",
		Description: "Back",
		Action: func(evt *tcell.EventKey) *tcell.EventKey {
			if a.pageStack.Pop() == nil {
				return evt
			}

			return nil
		},
		Visible: true,
	})
}

func (a *App) buildUI() {
	a.header = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.header.SetBackgroundColor(a.styles.BgColor)
	a.header.SetText("[aqua::b]bookworm[-::-] ")

	a.crumbs = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.crumbs.SetBackgroundColor(a.styles.CrumbBg)
	a.crumbs.SetTextColor(a.styles.CrumbFg)

	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.statusBar.SetBackgroundColor(a.styles.BgColor)

	a.flash = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	a.flash.SetBackgroundColor(a.styles.BgColor)

	mainFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(a.header, 1, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pageStack.Pages(), 0, 1, true).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.flash, 1, 0, false)

	a.SetRoot(mainFlex, true)
	a.SetInputCapture(a.handleGlobalKeys)
}

// handleGlobalKeys routes a key to the global bindings, then to the top
// page. Runes typed into an input field are never treated as shortcuts.
func (a *App) handleGlobalKeys(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		return a.globalKeys.Handle(event)
	}

	_, typing := a.GetFocus().(*tview.InputField)
	if typing && event.Key() == tcell.KeyRune {
		return event
	}

	if event.Key() != tcell.KeyEscape {
		if result := a.globalKeys.Handle(event); result == nil {
			return nil
		}
	}

	comp := a.pageStack.Top()
	if comp != nil {
		if result := comp.Actions().Handle(event); result == nil {
			return nil
		}
	}

	if event.Key() == tcell.KeyEscape {
		return a.globalKeys.Handle(event)
	}

	return event
}

// Run shows the shelf page and blocks until the user quits.
func (a *App) Run() error {
	home, err := NewHomeView(a)
	if err != nil {
		return fmt.Errorf("failed to initialize shelf view: %w", err)
	}

	a.pageStack.Push(home)

	go func() {
		<-a.ctx.Done()
		a.Application.Stop()
	}()

	logger.Log.Debug("Starting terminal UI")

	err = a.Application.Run()

	a.cancel()
	a.pageStack.Close()

	return err
}

// ShowBook opens the detail page for id.
func (a *App) ShowBook(id string) {
	a.pageStack.Push(NewDetailView(a, id))
}

// ShowHelp displays the help page.
func (a *App) ShowHelp() {
	if top := a.pageStack.Top(); top != nil && top.Name() == helpPageName {
		return
	}

	a.pageStack.Push(NewHelpView(a))
}

func (a *App) pagesChanged() {
	a.updateCrumbs()
	a.updateStatusBar()
}

func (a *App) updateCrumbs() {
	crumbs := a.pageStack.Crumbs()
	if len(crumbs) == 0 {
		a.crumbs.SetText("")

		return
	}

	a.crumbs.SetText("[gray]bookworm > " + strings.Join(crumbs, " > ") + "[-]")
}

func (a *App) updateStatusBar() {
	var hints []string

	if comp := a.pageStack.Top(); comp != nil {
		hints = comp.Actions().Hints()
	}

	if a.pageStack.Depth() > 1 {
		hints = append(hints, "<Esc> Back")
	}

	hints = append(hints, "<?> Help", "<^C> Quit")

	a.statusBar.SetText(" " + strings.Join(hints, " "))
}

// Flash displays a temporary message. It must not be called from the UI
// goroutine.
func (a *App) Flash(message string, isError bool) {
	a.flashMx.Lock()
	a.flashID++
	id := a.flashID
	a.flashMx.Unlock()

	color := "green"
	if isError {
		color = "red"
	}

	a.QueueUpdateDraw(func() {
		a.flash.SetText(fmt.Sprintf("[%s::b] %s ", color, tview.Escape(message)))
	})

	go func() {
		select {
		case <-a.ctx.Done():
			return
		case <-time.After(3 * time.Second):
		}

		a.flashMx.Lock()
		current := a.flashID == id
		a.flashMx.Unlock()

		if current {
			a.QueueUpdateDraw(func() { a.flash.SetText("") })
		}
	}()
}

// Context returns the app context, cancelled when the UI exits.
func (a *App) Context() context.Context {
	return a.ctx
}
