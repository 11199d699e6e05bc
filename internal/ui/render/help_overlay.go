package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	textutil "github.com/kk-code-lab/infilter/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.AppState) []string {
	clipboardNote := ""
	if state != nil && !state.ClipboardAvailable {
		clipboardNote = " (clipboard unavailable)"
	}

	sections := []helpOverlaySection{
		{
			title: "Fields",
			entries: []helpOverlayEntry{
				{keys: "Tab / ↓ / ↵", desc: "Next field"},
				{keys: "Shift+Tab / ↑", desc: "Previous field"},
				{keys: "Mouse click", desc: "Focus field and place caret"},
			},
		},
		{
			title: "Caret & Selection",
			entries: []helpOverlayEntry{
				{keys: "← / →", desc: "Move caret"},
				{keys: "Ctrl+← / →", desc: "Move by word"},
				{keys: "Home / End", desc: "Start / end of value"},
				{keys: "Shift+move", desc: "Extend selection"},
				{keys: "Ctrl+A", desc: "Select all"},
			},
		},
		{
			title: "Editing",
			entries: []helpOverlayEntry{
				{keys: "Backspace/Del", desc: "Delete backward / forward"},
				{keys: "Ctrl+W", desc: "Delete previous word"},
				{keys: "Ctrl+Z / Ctrl+Y", desc: "Undo / redo"},
				{keys: "Ctrl+F", desc: "Autofill the field"},
			},
		},
		{
			title: "Clipboard" + clipboardNote,
			entries: []helpOverlayEntry{
				{keys: "Ctrl+V", desc: "Paste at selection"},
				{keys: "Ctrl+D", desc: "Drop after selection (keeps it)"},
				{keys: "Ctrl+R", desc: "Replace selection as autocorrect"},
				{keys: "Ctrl+K", desc: "Yank value to clipboard"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "Esc / Ctrl+C", desc: "Quit"},
				{keys: "F1", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 32)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-16s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(state *statepkg.AppState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.screen.SetContent(x, y, ' ', nil, baseStyle)
		}
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	bodyStyle := baseStyle
	lines := buildHelpOverlayLines(state)
	row := 2
	maxRow := h - 1
	for _, line := range lines {
		if row >= maxRow {
			break
		}
		text := strings.TrimRight(line, " ")
		text = r.truncateTextToWidth(text, w-4)
		r.drawTextLine(2, row, w-4, text, bodyStyle)
		row++
	}

	footer := "F1 toggle · Esc/q close"
	if len(footer) > 0 && h > 0 {
		footerText := r.truncateTextToWidth(footer, w)
		r.drawTextLine(0, h-1, w, footerText, headerStyle)
	}
}
