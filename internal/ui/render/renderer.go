package render

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	textutil "github.com/kk-code-lab/infilter/internal/textutil"
	"github.com/kk-code-lab/infilter/internal/transform"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes

	layoutMu    sync.Mutex
	lastLayouts []FieldLayout
	hasLayout   bool
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.AppState) {
	r.screen.Clear()
	r.screen.HideCursor()

	w, h := r.screen.Size()

	if state != nil && state.HelpVisible {
		r.storeLayout(nil)
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	layouts := ComputeFieldLayouts(state, w, h)
	for _, layout := range layouts {
		r.drawField(state, layout, w)
	}
	r.storeLayout(layouts)
	r.drawStatusLine(state, w, h)

	r.screen.Show()
}

func (r *Renderer) storeLayout(layouts []FieldLayout) {
	r.layoutMu.Lock()
	r.lastLayouts = layouts
	r.hasLayout = true
	r.layoutMu.Unlock()
}

// LastLayout returns the field layouts of the most recent frame.
func (r *Renderer) LastLayout() ([]FieldLayout, bool) {
	r.layoutMu.Lock()
	defer r.layoutMu.Unlock()
	return r.lastLayouts, r.hasLayout
}

// drawHeader renders the top bar with title and config source
func (r *Renderer) drawHeader(state *statepkg.AppState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, "infilter", headerStyle.Bold(true))

	var parts []string
	if state != nil {
		source := state.ConfigPath
		if source == "" {
			source = "built-in gallery"
		}
		parts = append(parts, source)
		if state.TraceEnabled {
			parts = append(parts, "trace on")
		}
	}
	if len(parts) > 0 && endX < w {
		text := textutil.SanitizeTerminalText(" · " + strings.Join(parts, " · "))
		text = r.truncateTextToWidth(text, w-endX)
		endX = r.drawTextLine(endX, 0, w-endX, text, headerStyle.Foreground(r.theme.DimFg))
	}

	// Fill remaining space
	for x := endX; x < w; x++ {
		r.screen.SetContent(x, 0, ' ', nil, headerStyle)
	}
}

func (r *Renderer) drawField(state *statepkg.AppState, layout FieldLayout, w int) {
	f := state.Fields[layout.Index]
	focused := layout.Index == state.Focus

	labelStyle := tcell.StyleDefault.Foreground(r.theme.LabelFg)
	if focused {
		labelStyle = labelStyle.Bold(true)
	}
	x := r.drawTextLine(2, layout.LabelY, w-2, textutil.SanitizeTerminalText(f.Name), labelStyle)
	if x < w {
		info := r.truncateTextToWidth(" "+formatFieldInfo(f), w-x)
		r.drawTextLine(x, layout.LabelY, w-x, info, tcell.StyleDefault.Foreground(r.theme.DimFg))
	}

	fieldStyle := tcell.StyleDefault.Background(r.theme.FieldBg).Foreground(r.theme.FieldFg)
	if focused {
		fieldStyle = fieldStyle.Background(r.theme.FocusBg)
		r.screen.SetContent(layout.ValueX-2, layout.ValueY, '›', nil,
			tcell.StyleDefault.Foreground(r.theme.FocusMarkFg).Bold(true))
	}
	selectionStyle := tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	maxX := layout.ValueX + layout.ValueWidth
	for cx := layout.ValueX; cx < maxX && cx < w; cx++ {
		r.screen.SetContent(cx, layout.ValueY, ' ', nil, fieldStyle)
	}

	snap := f.Snapshot()
	cols := textutil.Columns(snap.Value)
	for i, ru := range []rune(snap.Value) {
		style := fieldStyle
		if i >= snap.Selection.Start && i < snap.Selection.End {
			style = selectionStyle
		}
		startX := layout.ValueX + cols[i] - layout.Scroll
		for _, shown := range textutil.DisplayRune(ru) {
			if startX >= layout.ValueX && startX < maxX {
				r.drawStyledRune(startX, layout.ValueY, maxX, shown, style)
			}
			startX += textutil.DisplayWidth(string(shown))
		}
	}

	if focused {
		caretX := layout.ValueX + cols[clampCaret(f.Caret(), len(cols)-1)] - layout.Scroll
		if caretX >= layout.ValueX && caretX <= maxX && caretX < w {
			r.screen.ShowCursor(caretX, layout.ValueY)
		}
	}
}

func clampCaret(caret, hi int) int {
	if caret < 0 {
		return 0
	}
	if caret > hi {
		return hi
	}
	return caret
}

// formatFieldInfo describes how a field is filtered and what its strategy
// keeps intact.
func formatFieldInfo(f *statepkg.FieldState) string {
	parts := []string{f.Filter, f.Strategy.String()}
	var keeps []string
	if f.Strategy.PreservesSelection() {
		keeps = append(keeps, "caret")
	}
	if f.Strategy.PreservesHistory() && f.Config.HistoryEnabled() {
		keeps = append(keeps, "undo")
	}
	if len(keeps) == 0 {
		parts = append(parts, "keeps nothing")
	} else {
		parts = append(parts, "keeps "+strings.Join(keeps, "+"))
	}
	if !f.Config.HistoryEnabled() {
		parts = append(parts, "history off")
	}
	return "[" + strings.Join(parts, " · ") + "]"
}

// drawStatusLine renders the status row and the help footer
func (r *Renderer) drawStatusLine(state *statepkg.AppState, w, h int) {
	if h < 2 || state == nil {
		return
	}
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	flashStyle := tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)

	// Check if we should flash (within 0.1 seconds of last yank)
	isFlashing := false
	if !state.LastYankTime.IsZero() {
		elapsed := time.Since(state.LastYankTime)
		isFlashing = elapsed < 100*time.Millisecond
	}

	statusText, statusStyle := r.statusText(state)
	if isFlashing {
		statusStyle = flashStyle
	}
	statusText = r.truncateTextToWidth(textutil.SanitizeTerminalText(statusText), w)
	x := r.drawTextLine(0, h-2, w, statusText, statusStyle)
	for ; x < w; x++ {
		r.screen.SetContent(x, h-2, ' ', nil, statusStyle)
	}

	// Draw help text on last line
	helpText := buildFooterHelpText(state)
	if helpText == "" {
		helpText = " "
	}
	helpText = r.truncateTextToWidth(textutil.SanitizeTerminalText(helpText), w)
	x = r.drawTextLine(0, h-1, w, helpText, normalStyle)
	for ; x < w; x++ {
		r.screen.SetContent(x, h-1, ' ', nil, normalStyle)
	}
}

func (r *Renderer) statusText(state *statepkg.AppState) (string, tcell.Style) {
	base := tcell.StyleDefault.Background(r.theme.FooterBg)
	switch {
	case state.LastError != nil:
		return " error: " + state.LastError.Error(), base.Foreground(r.theme.ErrorFg)
	case state.Status != "":
		return " " + state.Status, base.Foreground(r.theme.StatusFg)
	}
	f := state.FocusedField()
	if f == nil {
		return " no fields configured", base.Foreground(r.theme.DimFg)
	}
	return " " + formatSelection(f.Snapshot()), base.Foreground(r.theme.DimFg)
}

// formatSelection summarizes a snapshot for the status row.
func formatSelection(snap transform.Snapshot) string {
	sel := snap.Selection
	if sel.Collapsed() {
		return fmt.Sprintf("caret %d of %d", sel.Start, snap.Len())
	}
	return fmt.Sprintf("selection %d-%d (%d) of %d", sel.Start, sel.End, sel.Len(), snap.Len())
}
