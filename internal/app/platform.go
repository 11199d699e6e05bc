package app

import "github.com/atotto/clipboard"

// Clipboard is the text clipboard the paste, drop, replace and yank
// commands use.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// detectClipboard returns the system clipboard, if this platform has one.
func detectClipboard() (Clipboard, bool) {
	if clipboard.Unsupported {
		return nil, false
	}
	return systemClipboard{}, true
}
