package transform

import "unicode/utf8"

// TextField is the editable control an engine is bound to. Offsets are rune
// indices into Value. Implementations must be comparable (typically a
// pointer) because events are matched against the bound field by identity.
type TextField interface {
	Value() string
	SetValue(value string)
	SelectionStart() int
	SelectionEnd() int
	SetSelectionRange(start, end int)
}

// RangeReplacer is implemented by fields that can replace a subrange of
// their value in place.
type RangeReplacer interface {
	ReplaceRange(text string, start, end int)
}

// InsertCommand inserts text at the target's current selection through the
// host's own text-entry pipeline, so the edit lands in the host's undo
// history exactly like typed input.
type InsertCommand interface {
	InsertText(target TextField, text string)
}

// InsertCommandFunc adapts a function to InsertCommand.
type InsertCommandFunc func(target TextField, text string)

func (f InsertCommandFunc) InsertText(target TextField, text string) {
	f(target, text)
}

// Selection is a caret (Start == End) or a highlighted range.
type Selection struct {
	Start int
	End   int
}

func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

func (s Selection) Len() int {
	return s.End - s.Start
}

// Snapshot is a read-only copy of a field taken at the start of a handler.
type Snapshot struct {
	Value     string
	Selection Selection
}

// TakeSnapshot reads the field, clamping and ordering the selection so that
// 0 <= Start <= End <= rune length of Value.
func TakeSnapshot(f TextField) Snapshot {
	value := f.Value()
	n := utf8.RuneCountInString(value)
	start := clamp(f.SelectionStart(), 0, n)
	end := clamp(f.SelectionEnd(), 0, n)
	if start > end {
		start, end = end, start
	}
	return Snapshot{Value: value, Selection: Selection{Start: start, End: end}}
}

// Split cuts the value around the selection.
func (s Snapshot) Split() (prefix, selected, suffix string) {
	runes := []rune(s.Value)
	return string(runes[:s.Selection.Start]),
		string(runes[s.Selection.Start:s.Selection.End]),
		string(runes[s.Selection.End:])
}

// Len returns the rune length of the snapshot value.
func (s Snapshot) Len() int {
	return utf8.RuneCountInString(s.Value)
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
