package render

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/infilter/internal/config"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
)

func newFieldState(t *testing.T, fields ...config.FieldConfig) *statepkg.AppState {
	t.Helper()
	cfg := config.DefaultConfig()
	if len(fields) > 0 {
		cfg.Fields = fields
	}
	state, err := statepkg.NewAppState(cfg, nil)
	if err != nil {
		t.Fatalf("NewAppState: %v", err)
	}
	t.Cleanup(state.Close)
	return state
}

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	scr := tcell.NewSimulationScreen("")
	if err := scr.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	t.Cleanup(scr.Fini)
	scr.SetSize(w, h)
	return scr
}

func cellAt(t *testing.T, scr tcell.SimulationScreen, x, y int) tcell.SimCell {
	t.Helper()
	cells, w, _ := scr.GetContents()
	return cells[y*w+x]
}

func rowText(scr tcell.SimulationScreen, y int) string {
	cells, w, _ := scr.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		runes := cells[y*w+x].Runes
		if len(runes) == 0 {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(runes[0])
	}
	return b.String()
}

func TestTruncateTextToWidth(t *testing.T) {
	r := NewRenderer(nil)

	tests := []struct {
		name   string
		text   string
		width  int
		expect string
	}{
		{
			name:   "fits without truncation",
			text:   "Telephone",
			width:  20,
			expect: "Telephone",
		},
		{
			name:   "adds ellipsis when needed",
			text:   "verylongname",
			width:  6,
			expect: "veryl…",
		},
		{
			name:   "only ellipsis when width too small",
			text:   "example",
			width:  1,
			expect: "…",
		},
		{
			name:   "multi-byte characters respected",
			text:   "你好世界",
			width:  5,
			expect: "你好…",
		},
		{
			name:   "returns empty when width is zero",
			text:   "anything",
			width:  0,
			expect: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actual := r.truncateTextToWidth(tt.text, tt.width)
			if actual != tt.expect {
				t.Fatalf("expected %q, got %q (width %d)", tt.expect, actual, tt.width)
			}
		})
	}
}

func TestMeasureTextWidth(t *testing.T) {
	r := NewRenderer(nil)

	if got := r.measureTextWidth("abc"); got != 3 {
		t.Fatalf("expected ASCII width 3, got %d", got)
	}

	if got := r.measureTextWidth("你好"); got != 4 {
		t.Fatalf("expected wide rune width 4, got %d", got)
	}
}

func TestRenderDrawsValueAndCaret(t *testing.T) {
	scr := newSimScreen(t, 80, 12)
	state := newFieldState(t, config.FieldConfig{Name: "PIN", Filter: "digits", Initial: "123"})

	renderer := NewRenderer(scr)
	renderer.Render(state)

	layouts, ok := renderer.LastLayout()
	if !ok || len(layouts) != 1 {
		t.Fatalf("expected one field layout, got %v", layouts)
	}
	l := layouts[0]
	if !strings.Contains(rowText(scr, l.LabelY), "PIN [digits · native-command · keeps caret+undo]") {
		t.Fatalf("label row = %q", rowText(scr, l.LabelY))
	}
	if got := string([]rune(rowText(scr, l.ValueY))[l.ValueX : l.ValueX+3]); got != "123" {
		t.Fatalf("value row = %q", got)
	}

	x, y, visible := scr.GetCursor()
	if !visible || x != l.ValueX+3 || y != l.ValueY {
		t.Fatalf("cursor = (%d,%d,%v), want (%d,%d,true)", x, y, visible, l.ValueX+3, l.ValueY)
	}
	if !strings.Contains(rowText(scr, 10), "caret 3 of 3") {
		t.Fatalf("status row = %q", rowText(scr, 10))
	}
}

func TestRenderHighlightsSelection(t *testing.T) {
	scr := newSimScreen(t, 40, 12)
	state := newFieldState(t, config.FieldConfig{Name: "PIN", Filter: "digits", Initial: "1234"})
	state.Fields[0].Host.Select(1, 3)

	renderer := NewRenderer(scr)
	renderer.Render(state)
	layouts, _ := renderer.LastLayout()
	l := layouts[0]
	theme := GetColorTheme()

	for i := 0; i < 4; i++ {
		_, bg, _ := cellAt(t, scr, l.ValueX+i, l.ValueY).Style.Decompose()
		selected := i >= 1 && i < 3
		if selected != (bg == theme.SelectionBg) {
			t.Fatalf("cell %d selected=%v but background %v", i, selected, bg)
		}
	}
	if !strings.Contains(rowText(scr, 10), "selection 1-3 (2) of 4") {
		t.Fatalf("status row = %q", rowText(scr, 10))
	}
}

func TestRenderShowsErrorAndStatus(t *testing.T) {
	scr := newSimScreen(t, 60, 12)
	state := newFieldState(t)
	renderer := NewRenderer(scr)

	state.Status = "config reloaded (6 fields)"
	renderer.Render(state)
	if !strings.Contains(rowText(scr, 10), "config reloaded") {
		t.Fatalf("status row = %q", rowText(scr, 10))
	}

	state.LastError = errors.New("boom")
	renderer.Render(state)
	if !strings.Contains(rowText(scr, 10), "error: boom") {
		t.Fatalf("status row = %q", rowText(scr, 10))
	}
}

func TestRenderHelpOverlayHidesCursor(t *testing.T) {
	scr := newSimScreen(t, 60, 40)
	state := newFieldState(t)
	state.HelpVisible = true

	renderer := NewRenderer(scr)
	renderer.Render(state)

	if !strings.Contains(rowText(scr, 0), "Help") {
		t.Fatalf("header row = %q", rowText(scr, 0))
	}
	if _, _, visible := scr.GetCursor(); visible {
		t.Fatal("cursor should be hidden under help")
	}
	if layouts, ok := renderer.LastLayout(); !ok || len(layouts) != 0 {
		t.Fatalf("help frame should record no field layouts, got %v", layouts)
	}
}

func TestComputeFieldLayoutsFollowsFocus(t *testing.T) {
	state := newFieldState(t)
	state.Focus = 4

	layouts := ComputeFieldLayouts(state, 60, 12)
	if len(layouts) != 2 {
		t.Fatalf("expected 2 visible fields, got %d", len(layouts))
	}
	if layouts[0].Index != 3 || layouts[1].Index != 4 {
		t.Fatalf("visible fields = %d,%d; want 3,4", layouts[0].Index, layouts[1].Index)
	}
	if layouts[0].LabelY != headerRows {
		t.Fatalf("first label row = %d", layouts[0].LabelY)
	}
}

func TestValueScrollKeepsCaretVisible(t *testing.T) {
	cols := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := valueScroll(cols, 4, 8); got != 0 {
		t.Fatalf("scroll = %d, want 0", got)
	}
	if got := valueScroll(cols, 10, 8); got != 3 {
		t.Fatalf("scroll = %d, want 3", got)
	}
	if got := valueScroll(cols, 99, 8); got != 3 {
		t.Fatalf("out of range caret scroll = %d, want 3", got)
	}
}

func TestHitTest(t *testing.T) {
	scr := newSimScreen(t, 40, 20)
	state := newFieldState(t,
		config.FieldConfig{Name: "A", Filter: "digits", Initial: "12345"},
		config.FieldConfig{Name: "B", Filter: "digits"},
	)
	renderer := NewRenderer(scr)
	renderer.Render(state)
	layouts, _ := renderer.LastLayout()

	hit, ok := HitTest(state, layouts, layouts[0].ValueX+2, layouts[0].ValueY)
	if !ok || !hit.OnValue || hit.Index != 0 || hit.Offset != 2 {
		t.Fatalf("value hit = %+v ok=%v", hit, ok)
	}

	hit, ok = HitTest(state, layouts, 0, layouts[1].LabelY)
	if !ok || hit.OnValue || hit.Index != 1 {
		t.Fatalf("label hit = %+v ok=%v", hit, ok)
	}

	if _, ok := HitTest(state, layouts, 3, 0); ok {
		t.Fatal("header row should not hit a field")
	}
}

func TestBuildFooterHelpSegments(t *testing.T) {
	state := newFieldState(t,
		config.FieldConfig{Name: "Tel", Filter: "digits", Autofill: "+1 555"},
	)
	state.ClipboardAvailable = true

	got := buildFooterHelpSegments(state)
	want := []string{
		"Tab/↑↓: field",
		"^F: autofill",
		"^V/^D/^R: paste/drop/replace",
		"^K: yank",
		"F1: help",
		"Esc: quit",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("help mismatch\nwant: %#v\n got: %#v", want, got)
	}

	if err := state.Fields[0].Host.Type("1"); err != nil {
		t.Fatalf("type: %v", err)
	}
	state.Fields[0].Host.Select(0, 1)
	state.ClipboardAvailable = false
	got = buildFooterHelpSegments(state)
	want = []string{
		"Tab/↑↓: field",
		"type: replace selection",
		"^Z: undo",
		"^F: autofill",
		"F1: help",
		"Esc: quit",
	}
	if !slices.Equal(got, want) {
		t.Fatalf("help mismatch\nwant: %#v\n got: %#v", want, got)
	}
}

func TestHelpOverlayMentionsUnavailableClipboard(t *testing.T) {
	lines := buildHelpOverlayLines(&statepkg.AppState{})
	found := false
	for _, line := range lines {
		if line == "Clipboard (clipboard unavailable)" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected clipboard note in %q", lines)
	}
}
