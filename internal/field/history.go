package field

import "github.com/kk-code-lab/infilter/internal/transform"

// DefaultHistoryLimit caps the number of undo steps a Buffer keeps.
const DefaultHistoryLimit = 100

// History is a bounded undo/redo stack of field snapshots.
type History struct {
	undo  []transform.Snapshot
	redo  []transform.Snapshot
	limit int
}

// NewHistory creates a history keeping at most limit undo steps.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records the state before an edit and drops any redo steps.
func (h *History) Push(before transform.Snapshot) {
	h.undo = append(h.undo, before)
	if len(h.undo) > h.limit {
		h.undo = append(h.undo[:0], h.undo[len(h.undo)-h.limit:]...)
	}
	h.redo = h.redo[:0]
}

// Undo pops the last recorded state, remembering current for Redo.
func (h *History) Undo(current transform.Snapshot) (transform.Snapshot, bool) {
	if len(h.undo) == 0 {
		return transform.Snapshot{}, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return last, true
}

// Redo re-applies the most recently undone state.
func (h *History) Redo(current transform.Snapshot) (transform.Snapshot, bool) {
	if len(h.redo) == 0 {
		return transform.Snapshot{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

// Reset forgets every step. Programmatic value changes call this, the same
// way browsers drop the undo stack when script assigns a value.
func (h *History) Reset() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the number of undo steps available.
func (h *History) Depth() int { return len(h.undo) }
