package transform

// Strategy names the primitive used to write filtered text into a field.
type Strategy uint8

const (
	// EmulatedReplace only assigns whole values. Non-empty mismatched
	// insertions are allowed to commit raw and are corrected afterwards,
	// so the caret can end up at the end of the value and undo history is
	// lost.
	EmulatedReplace Strategy = iota
	// RangeReplace rewrites the selected subrange in place and repositions
	// the selection explicitly. Range edits never join the host's
	// keystroke history.
	RangeReplace
	// NativeCommand routes the filtered text through the host's own insert
	// command, so undo/redo grouping matches real typing.
	NativeCommand
)

func (s Strategy) String() string {
	switch s {
	case RangeReplace:
		return "range-replace"
	case NativeCommand:
		return "native-command"
	default:
		return "emulated-replace"
	}
}

// PreservesHistory reports whether edits made through the strategy stay
// undoable in the host.
func (s Strategy) PreservesHistory() bool {
	return s == NativeCommand
}

// PreservesSelection reports whether the caret and selection land where a
// native insertion would have put them.
func (s Strategy) PreservesSelection() bool {
	return s == RangeReplace || s == NativeCommand
}

// SelectionMode decides where the selection lands after a replacement.
type SelectionMode uint8

const (
	SelectEnd SelectionMode = iota
	SelectStart
	// SelectInserted highlights the inserted text.
	SelectInserted
)

// mutator replaces [start, end) of the field with text and positions the
// resulting selection according to mode.
type mutator interface {
	strategy() Strategy
	replace(f TextField, text string, start, end int, mode SelectionMode)
}

type emulatedReplace struct{}

func (emulatedReplace) strategy() Strategy { return EmulatedReplace }

func (emulatedReplace) replace(f TextField, text string, start, end int, mode SelectionMode) {
	runes := []rune(f.Value())
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))

	next := make([]rune, 0, len(runes)-(end-start)+runeLen(text))
	next = append(next, runes[:start]...)
	next = append(next, []rune(text)...)
	next = append(next, runes[end:]...)

	f.SetValue(string(next))
	positionSelection(f, start, start+runeLen(text), mode)
}

type rangeReplace struct {
	replacer RangeReplacer
}

func (rangeReplace) strategy() Strategy { return RangeReplace }

func (r rangeReplace) replace(f TextField, text string, start, end int, mode SelectionMode) {
	r.replacer.ReplaceRange(text, start, end)
	positionSelection(f, start, start+runeLen(text), mode)
}

type nativeCommand struct {
	cmd InsertCommand
}

func (nativeCommand) strategy() Strategy { return NativeCommand }

func (n nativeCommand) replace(f TextField, text string, start, end int, mode SelectionMode) {
	if f.SelectionStart() != start || f.SelectionEnd() != end {
		f.SetSelectionRange(start, end)
	}

	n.cmd.InsertText(f, text)

	// The command leaves the caret after the inserted text; derive the
	// inserted range from there rather than from the requested offsets.
	caret := f.SelectionStart()
	insertedStart := caret - runeLen(text)
	if insertedStart < 0 {
		insertedStart = 0
	}
	positionSelection(f, insertedStart, caret, mode)
}

func positionSelection(f TextField, rangeStart, rangeEnd int, mode SelectionMode) {
	switch mode {
	case SelectStart:
		f.SetSelectionRange(rangeStart, rangeStart)
	case SelectInserted:
		f.SetSelectionRange(rangeStart, rangeEnd)
	default:
		f.SetSelectionRange(rangeEnd, rangeEnd)
	}
}

// detectMutator picks the strongest strategy the capabilities allow.
func detectMutator(target TextField, cmd InsertCommand) mutator {
	if cmd != nil {
		return nativeCommand{cmd: cmd}
	}
	if rr, ok := target.(RangeReplacer); ok {
		return rangeReplace{replacer: rr}
	}
	return emulatedReplace{}
}
