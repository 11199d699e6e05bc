package app

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/infilter/internal/config"
	"github.com/kk-code-lab/infilter/internal/field"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	"github.com/kk-code-lab/infilter/internal/trace"
	"github.com/kk-code-lab/infilter/internal/ui/input"
	renderui "github.com/kk-code-lab/infilter/internal/ui/render"
)

// yankFlash is how long the status row flashes after a yank.
const yankFlash = 100 * time.Millisecond

// NewApplication opens the terminal and builds the fields described by
// opts.Config.
func NewApplication(opts Options) (*Application, error) {
	_ = flushConsoleInput()

	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so clicks don't leak as key events.
	screen.EnableMouse()
	screen.EnablePaste()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

// newApplication wires an application to an already initialised screen.
func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var recorder *trace.Recorder
	var observe func(name string) field.Observer
	if cfg.Debug.Enabled {
		rec, err := trace.Open(cfg.Debug.LogFile)
		if err != nil {
			return nil, err
		}
		recorder = rec
		observe = rec.Observer
	}

	state, err := statepkg.NewAppState(cfg, observe)
	if err != nil {
		if recorder != nil {
			_ = recorder.Close()
		}
		return nil, fmt.Errorf("build fields: %w", err)
	}
	state.ConfigPath = opts.ConfigPath

	clip, clipAvail := opts.Clipboard, opts.Clipboard != nil
	if clip == nil {
		clip, clipAvail = detectClipboard()
	}
	state.ClipboardAvailable = clipAvail

	w, h := screen.Size()
	state.ScreenWidth = w
	state.ScreenHeight = h

	actionCh := make(chan statepkg.Action, 10)
	dispatch := func(action statepkg.Action) {
		select {
		case actionCh <- action:
		default:
			go func() { actionCh <- action }()
		}
	}
	state.SetDispatch(dispatch)

	inputHandler := input.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:    screen,
		state:     state,
		reducer:   statepkg.NewStateReducer(),
		renderer:  renderui.NewRenderer(screen),
		input:     inputHandler,
		actionCh:  actionCh,
		clipboard: clip,
		recorder:  recorder,
	}

	if opts.Watch && opts.ConfigPath != "" {
		loader := config.NewLoader(opts.ConfigPath)
		if err := loader.Watch(); err != nil {
			state.LastError = err
		} else {
			loader.OnChange(func(cfg *config.Config) {
				dispatch(statepkg.ReloadConfigAction{Config: cfg})
			})
			app.loader = loader
		}
	}

	return app, nil
}

func (app *Application) Run() {
	defer app.screen.Fini()

	app.renderer.Render(app.state)
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	var reloadErrCh <-chan error
	if app.loader != nil {
		reloadErrCh = app.loader.Errors()
	}

	const animationInterval = 50 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.renderer.Render(app.state)
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case err := <-reloadErrCh:
			app.state.LastError = err
			renderPending = true
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		// A new keystroke acknowledges the previous error.
		app.state.LastError = nil
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventPaste, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks to focus and caret placement.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	pressed := ev.Buttons()&tcell.Button1 != 0
	wasDown := app.mouseDown
	app.mouseDown = pressed
	if !pressed || wasDown || app.state.HelpVisible {
		return false
	}

	layouts, ok := app.renderer.LastLayout()
	if !ok {
		return false
	}
	x, y := ev.Position()
	hit, ok := renderui.HitTest(app.state, layouts, x, y)
	if !ok {
		return false
	}

	app.state.LastError = nil
	if hit.OnValue {
		app.actionCh <- statepkg.SetCaretAction{Index: hit.Index, Offset: hit.Offset}
	} else {
		app.actionCh <- statepkg.FocusFieldAction{Index: hit.Index}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < yankFlash
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.PasteClipboardAction:
		return app.handleClipboardInsert(func(text string) statepkg.Action {
			return statepkg.PasteAction{Text: text}
		})
	case statepkg.DropClipboardAction:
		return app.handleClipboardInsert(func(text string) statepkg.Action {
			return statepkg.DropAction{Text: text, At: -1}
		})
	case statepkg.ReplaceClipboardAction:
		return app.handleClipboardInsert(func(text string) statepkg.Action {
			return statepkg.ReplaceSelectionAction{Text: text}
		})
	case statepkg.YankValueAction:
		return app.handleYank()
	}

	return app.reduce(action)
}

func (app *Application) reduce(action statepkg.Action) bool {
	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
	}
	return true
}
