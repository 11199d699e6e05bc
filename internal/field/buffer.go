// Package field provides an in-memory text field and a host that delivers
// edits to it the way a browser delivers input events to an <input>.
package field

import (
	"github.com/kk-code-lab/infilter/internal/transform"
)

// Buffer is a single-line text field. Offsets are rune indices.
type Buffer struct {
	value   []rune
	start   int
	end     int
	history *History
}

var (
	_ transform.TextField     = (*Buffer)(nil)
	_ transform.RangeReplacer = (*Buffer)(nil)
)

// NewBuffer creates a buffer holding value with the caret at the end.
func NewBuffer(value string) *Buffer {
	runes := []rune(value)
	return &Buffer{
		value:   runes,
		start:   len(runes),
		end:     len(runes),
		history: NewHistory(DefaultHistoryLimit),
	}
}

func (b *Buffer) Value() string {
	return string(b.value)
}

// SetValue assigns the value programmatically. A changed value moves the
// caret to the end and clears undo history.
func (b *Buffer) SetValue(value string) {
	if value == string(b.value) {
		return
	}
	b.value = []rune(value)
	b.start = len(b.value)
	b.end = len(b.value)
	b.history.Reset()
}

func (b *Buffer) SelectionStart() int { return b.start }
func (b *Buffer) SelectionEnd() int   { return b.end }

// SetSelectionRange clamps both ends to the value; an inverted range
// collapses to end.
func (b *Buffer) SetSelectionRange(start, end int) {
	n := len(b.value)
	end = clampInt(end, 0, n)
	start = clampInt(start, 0, n)
	if start > end {
		start = end
	}
	b.start = start
	b.end = end
}

// ReplaceRange replaces [start, end) with text, adjusting the selection the
// way setRangeText does in "preserve" mode. It is a programmatic change and
// clears undo history.
func (b *Buffer) ReplaceRange(text string, start, end int) {
	n := len(b.value)
	start = clampInt(start, 0, n)
	end = clampInt(end, start, n)

	inserted := []rune(text)
	b.splice(inserted, start, end)

	delta := len(inserted) - (end - start)
	newEnd := start + len(inserted)
	b.start = preserveOffset(b.start, start, end, newEnd, delta)
	b.end = preserveOffset(b.end, start, end, newEnd, delta)
	b.history.Reset()
}

func preserveOffset(offset, start, end, newEnd, delta int) int {
	switch {
	case offset > end:
		return offset + delta
	case offset > start:
		return newEnd
	default:
		return offset
	}
}

// Snapshot returns the current value and selection.
func (b *Buffer) Snapshot() transform.Snapshot {
	return transform.TakeSnapshot(b)
}

// History exposes the undo stack.
func (b *Buffer) History() *History {
	return b.history
}

// editReplace is a user-originated edit: it is recorded for undo.
func (b *Buffer) editReplace(text string, start, end int, selectInserted bool) {
	b.history.Push(b.Snapshot())

	inserted := []rune(text)
	b.splice(inserted, start, end)
	if selectInserted {
		b.start, b.end = start, start+len(inserted)
	} else {
		b.start = start + len(inserted)
		b.end = b.start
	}
}

func (b *Buffer) restore(s transform.Snapshot) {
	b.value = []rune(s.Value)
	b.SetSelectionRange(s.Selection.Start, s.Selection.End)
}

func (b *Buffer) splice(inserted []rune, start, end int) {
	next := make([]rune, 0, len(b.value)-(end-start)+len(inserted))
	next = append(next, b.value[:start]...)
	next = append(next, inserted...)
	next = append(next, b.value[end:]...)
	b.value = next
}

func (b *Buffer) selection() transform.Selection {
	return transform.Selection{Start: b.start, End: b.end}
}

// plainView exposes a buffer without its range-replace primitive, for hosts
// that only offer whole-value assignment.
type plainView struct {
	b *Buffer
}

func (v *plainView) Value() string                    { return v.b.Value() }
func (v *plainView) SetValue(value string)            { v.b.SetValue(value) }
func (v *plainView) SelectionStart() int              { return v.b.SelectionStart() }
func (v *plainView) SelectionEnd() int                { return v.b.SelectionEnd() }
func (v *plainView) SetSelectionRange(start, end int) { v.b.SetSelectionRange(start, end) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
