package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/infilter/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.AppState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := contextualHelpSegments(state)
	segments = append(segments, persistentHelpSegments(state)...)

	return segments
}

func contextualHelpSegments(state *statepkg.AppState) []string {
	f := state.FocusedField()
	if f == nil {
		return nil
	}

	segments := []string{"Tab/↑↓: field"}
	snap := f.Snapshot()
	if !snap.Selection.Collapsed() {
		segments = append(segments, "type: replace selection")
	}
	if f.CanUndo() {
		segments = append(segments, "^Z: undo")
	}
	if f.Host.Buffer().History().CanRedo() {
		segments = append(segments, "^Y: redo")
	}
	if f.Config.Autofill != "" {
		segments = append(segments, "^F: autofill")
	}
	return segments
}

func persistentHelpSegments(state *statepkg.AppState) []string {
	if state == nil {
		return nil
	}

	segments := []string{}
	if state.ClipboardAvailable {
		segments = append(segments, "^V/^D/^R: paste/drop/replace", "^K: yank")
	}
	segments = append(segments, "F1: help", "Esc: quit")

	return segments
}
