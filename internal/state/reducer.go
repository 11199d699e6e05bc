package state

import (
	"fmt"
	"time"
	"unicode"
)

// statusLifetime is how long a transient status message stays visible.
const statusLifetime = 3 * time.Second

// StateReducer applies actions to the application state.
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies action to state. Edit actions return the error raised by a
// field filter; the state is still valid afterwards.
func (r *StateReducer) Reduce(state *AppState, action Action) (*AppState, error) {
	switch a := action.(type) {

	// ===== FOCUS =====

	case FocusNextAction:
		if n := len(state.Fields); n > 0 {
			state.Focus = (state.Focus + 1) % n
		}
		return state, nil

	case FocusPrevAction:
		if n := len(state.Fields); n > 0 {
			state.Focus = (state.Focus - 1 + n) % n
		}
		return state, nil

	case FocusFieldAction:
		if a.Index >= 0 && a.Index < len(state.Fields) {
			state.Focus = a.Index
		}
		return state, nil

	// ===== EDITING =====

	case TypeTextAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.Type(a.Text) })

	case PasteAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.Paste(a.Text) })

	case ReplaceSelectionAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.Replace(a.Text) })

	case DropAction:
		return r.edit(state, func(f *FieldState) error {
			at := a.At
			if at < 0 {
				at = f.Snapshot().Selection.End
			}
			return f.Host.Drop(a.Text, at)
		})

	case DeleteBackwardAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.DeleteBackward() })

	case DeleteForwardAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.DeleteForward() })

	case DeleteWordAction:
		return r.edit(state, func(f *FieldState) error {
			snap := f.Snapshot()
			if snap.Selection.Collapsed() {
				caret := snap.Selection.Start
				start := previousWordBoundary([]rune(snap.Value), caret)
				if start == caret {
					return nil
				}
				f.Host.Select(start, caret)
			}
			return f.Host.DeleteBackward()
		})

	case UndoAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.Undo() })

	case RedoAction:
		return r.edit(state, func(f *FieldState) error { return f.Host.Redo() })

	case AutofillAction:
		f := state.FocusedField()
		if f == nil {
			return state, nil
		}
		if f.Config.Autofill == "" {
			r.setStatus(state, fmt.Sprintf("no autofill value for %s", f.Name))
			return state, nil
		}
		return r.edit(state, func(f *FieldState) error { return f.Host.Autofill(f.Config.Autofill) })

	// ===== CARET =====

	case MoveCaretAction:
		if f := state.FocusedField(); f != nil {
			f.moveCaret(a.Direction, a.Extend)
		}
		return state, nil

	case SelectAllAction:
		if f := state.FocusedField(); f != nil {
			n := f.Snapshot().Len()
			f.setSelection(0, n)
		}
		return state, nil

	case SetCaretAction:
		if a.Index < 0 || a.Index >= len(state.Fields) {
			return state, nil
		}
		state.Focus = a.Index
		f := state.Fields[a.Index]
		f.setSelection(a.Offset, a.Offset)
		return state, nil

	// ===== VIEW =====

	case ResizeAction:
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		return state, nil

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
		return state, nil

	case HelpHideAction:
		if state.HelpVisible {
			state.HelpVisible = false
		}
		return state, nil

	case ClearStatusAction:
		if state.Status == a.Status {
			state.Status = ""
		}
		return state, nil

	// ===== CONFIG =====

	case ReloadConfigAction:
		if a.Config == nil {
			return state, nil
		}
		fields, err := BuildFields(a.Config, state.observe, state.Fields)
		if err != nil {
			return state, fmt.Errorf("reload config: %w", err)
		}
		state.Close()
		state.Fields = fields
		if state.Focus >= len(fields) {
			state.Focus = len(fields) - 1
		}
		if state.Focus < 0 {
			state.Focus = 0
		}
		r.setStatus(state, fmt.Sprintf("config reloaded (%d fields)", len(fields)))
		return state, nil

	default:
		return state, fmt.Errorf("unknown action: %T", action)
	}
}

// edit runs fn against the focused field and resyncs the caret tracking
// with whatever selection the edit left behind.
func (r *StateReducer) edit(state *AppState, fn func(*FieldState) error) (*AppState, error) {
	f := state.FocusedField()
	if f == nil {
		return state, nil
	}
	err := fn(f)
	f.syncCaret()
	if err != nil {
		return state, fmt.Errorf("%s: %w", f.Name, err)
	}
	return state, nil
}

// setStatus shows msg and, when a dispatcher is wired, clears it again
// after statusLifetime.
func (r *StateReducer) setStatus(state *AppState, msg string) {
	state.Status = msg
	dispatch := state.getDispatch()
	if dispatch == nil {
		return
	}
	time.AfterFunc(statusLifetime, func() {
		dispatch(ClearStatusAction{Status: msg})
	})
}

// ===== CARET HELPERS =====

func (f *FieldState) syncCaret() {
	sel := f.Snapshot().Selection
	f.anchor, f.head = sel.Start, sel.End
}

func (f *FieldState) setSelection(start, end int) {
	f.Host.Select(start, end)
	f.syncCaret()
}

// tracking reports whether anchor and head still describe sel.
func (f *FieldState) tracking(start, end int) bool {
	return min(f.anchor, f.head) == start && max(f.anchor, f.head) == end
}

func (f *FieldState) moveCaret(direction string, extend bool) {
	snap := f.Snapshot()
	sel := snap.Selection
	if !f.tracking(sel.Start, sel.End) {
		f.anchor, f.head = sel.Start, sel.End
		if direction == "left" || direction == "word-left" || direction == "home" {
			f.anchor, f.head = sel.End, sel.Start
		}
	}

	runes := []rune(snap.Value)
	target := f.head
	switch {
	case !extend && !sel.Collapsed() && direction == "left":
		target = sel.Start
	case !extend && !sel.Collapsed() && direction == "right":
		target = sel.End
	default:
		switch direction {
		case "left":
			if target > 0 {
				target--
			}
		case "right":
			if target < len(runes) {
				target++
			}
		case "word-left":
			target = previousWordBoundary(runes, target)
		case "word-right":
			target = nextWordBoundary(runes, target)
		case "home":
			target = 0
		case "end":
			target = len(runes)
		}
	}

	f.head = target
	if !extend {
		f.anchor = target
	}
	f.Host.Select(min(f.anchor, f.head), max(f.anchor, f.head))
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func previousWordBoundary(runes []rune, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}

	i := pos - 1
	for i >= 0 && !isWordChar(runes[i]) {
		i--
	}
	for i >= 0 && isWordChar(runes[i]) {
		i--
	}
	return i + 1
}

func nextWordBoundary(runes []rune, pos int) int {
	if pos >= len(runes) {
		return len(runes)
	}
	if pos < 0 {
		pos = 0
	}

	i := pos
	for i < len(runes) && !isWordChar(runes[i]) {
		i++
	}
	for i < len(runes) && isWordChar(runes[i]) {
		i++
	}
	return i
}
