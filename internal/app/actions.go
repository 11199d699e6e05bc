package app

import (
	"errors"
	"fmt"
	"time"

	statepkg "github.com/kk-code-lab/infilter/internal/state"
)

var (
	errClipboardUnavailable = errors.New("clipboard unavailable")
	errClipboardEmpty       = errors.New("clipboard is empty")
)

// handleClipboardInsert reads the clipboard and feeds its text to the
// focused field through the edit action wrap builds.
func (app *Application) handleClipboardInsert(wrap func(text string) statepkg.Action) bool {
	if !app.state.ClipboardAvailable || app.clipboard == nil {
		app.state.LastError = errClipboardUnavailable
		return true
	}
	text, err := app.clipboard.ReadAll()
	if err != nil {
		app.state.LastError = fmt.Errorf("read clipboard: %w", err)
		return true
	}
	if text == "" {
		app.state.LastError = errClipboardEmpty
		return true
	}
	return app.reduce(wrap(text))
}

// handleYank copies the focused field's value to the clipboard.
func (app *Application) handleYank() bool {
	f := app.state.FocusedField()
	if f == nil {
		return false
	}
	if !app.state.ClipboardAvailable || app.clipboard == nil {
		app.state.LastError = errClipboardUnavailable
		return true
	}
	if err := app.clipboard.WriteAll(f.Value()); err != nil {
		app.state.LastError = fmt.Errorf("write clipboard: %w", err)
		return true
	}
	app.state.LastYankTime = time.Now()
	return true
}
