//go:build !windows

package app

import "github.com/gdamore/tcell/v2"

// resumeAfterStop restores the terminal after the process was stopped from
// the shell and continued with SIGCONT.
func (app *Application) resumeAfterStop() bool {
	if err := app.screen.Resume(); err != nil {
		return false
	}
	// Resume resets the terminal modes set at startup.
	app.screen.EnableMouse()
	app.screen.EnablePaste()
	app.screen.Sync()
	_ = app.screen.PostEvent(tcell.NewEventInterrupt("resume"))
	if w, h := app.screen.Size(); w > 0 && h > 0 {
		app.state.ScreenWidth = w
		app.state.ScreenHeight = h
	}
	return true
}
