package app

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/infilter/internal/config"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	"github.com/kk-code-lab/infilter/internal/trace"
	inputui "github.com/kk-code-lab/infilter/internal/ui/input"
	renderui "github.com/kk-code-lab/infilter/internal/ui/render"
)

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	state      *statepkg.AppState
	reducer    *statepkg.StateReducer
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	shouldQuit bool
	mouseDown  bool
	clipboard  Clipboard
	loader     *config.Loader
	recorder   *trace.Recorder
}

// Options configures NewApplication.
type Options struct {
	Config     *config.Config
	ConfigPath string
	// Watch reloads the fields whenever ConfigPath changes on disk.
	Watch bool
	// Clipboard replaces the system clipboard when set.
	Clipboard Clipboard
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.state.Close()
	var errs []error
	if app.loader != nil {
		errs = append(errs, app.loader.Close())
	}
	if app.recorder != nil {
		errs = append(errs, app.recorder.Close())
	}
	app.screen.Fini()
	return errors.Join(errs...)
}
