//go:build windows

package app

func (app *Application) resumeAfterStop() bool {
	// Nothing to resume; keep running.
	return false
}
