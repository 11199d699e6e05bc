package render

import (
	statepkg "github.com/kk-code-lab/infilter/internal/state"
	textutil "github.com/kk-code-lab/infilter/internal/textutil"
)

const (
	headerRows  = 2 // title + spacer
	footerRows  = 2 // status + help
	fieldRows   = 3 // label, value, spacer
	valueIndent = 4
	minValueCap = 8
)

// FieldLayout is where one field lands on screen.
type FieldLayout struct {
	Index      int
	LabelY     int
	ValueY     int
	ValueX     int
	ValueWidth int
	// Scroll is the first display column of the value that is visible.
	Scroll int
}

// ComputeFieldLayouts places the visible fields for a w x h screen. When
// not every field fits, the window slides so the focused one is shown.
func ComputeFieldLayouts(state *statepkg.AppState, w, h int) []FieldLayout {
	if state == nil || len(state.Fields) == 0 {
		return nil
	}

	visible := (h - headerRows - footerRows) / fieldRows
	if visible < 1 {
		visible = 1
	}
	first := 0
	if state.Focus >= visible {
		first = state.Focus - visible + 1
	}

	valueWidth := w - valueIndent - 1
	if valueWidth < minValueCap {
		valueWidth = minValueCap
	}

	layouts := make([]FieldLayout, 0, visible)
	for i := first; i < len(state.Fields) && len(layouts) < visible; i++ {
		y := headerRows + (i-first)*fieldRows
		f := state.Fields[i]
		layouts = append(layouts, FieldLayout{
			Index:      i,
			LabelY:     y,
			ValueY:     y + 1,
			ValueX:     valueIndent,
			ValueWidth: valueWidth,
			Scroll:     valueScroll(textutil.Columns(f.Value()), f.Caret(), valueWidth),
		})
	}
	return layouts
}

// valueScroll keeps the caret inside a window of width columns.
func valueScroll(cols []int, caret, width int) int {
	if caret < 0 || caret >= len(cols) {
		caret = len(cols) - 1
	}
	caretCol := cols[caret]
	if caretCol < width {
		return 0
	}
	return caretCol - width + 1
}

// Hit is the field under a screen cell.
type Hit struct {
	Index   int
	Offset  int  // caret offset for a value-row hit
	OnValue bool // false when the label row was hit
}

// HitTest maps a screen cell to a field using the layouts of the last
// frame. ok is false when the cell belongs to no field.
func HitTest(state *statepkg.AppState, layouts []FieldLayout, x, y int) (Hit, bool) {
	for _, l := range layouts {
		if l.Index >= len(state.Fields) {
			continue
		}
		switch y {
		case l.LabelY:
			return Hit{Index: l.Index}, true
		case l.ValueY:
			value := state.Fields[l.Index].Value()
			return Hit{
				Index:   l.Index,
				Offset:  textutil.OffsetAtColumn(value, x-l.ValueX+l.Scroll),
				OnValue: true,
			}, true
		}
	}
	return Hit{}, false
}
