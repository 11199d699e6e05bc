package state

import "github.com/kk-code-lab/infilter/internal/config"

// Action is the base interface for all state mutations
type Action interface{}

// ===== FOCUS ACTIONS =====

type FocusNextAction struct{}
type FocusPrevAction struct{}
type FocusFieldAction struct {
	Index int
}

// ===== EDIT ACTIONS =====

type TypeTextAction struct {
	Text string
}
type PasteAction struct {
	Text string
}
type DropAction struct {
	Text string
	At   int // rune offset; negative drops at the end of the selection
}
type ReplaceSelectionAction struct {
	Text string
}
type DeleteBackwardAction struct{}
type DeleteForwardAction struct{}
type DeleteWordAction struct{}
type UndoAction struct{}
type RedoAction struct{}
type AutofillAction struct{}

// ===== CARET ACTIONS =====

type MoveCaretAction struct {
	Direction string // "left", "right", "word-left", "word-right", "home", "end"
	Extend    bool
}
type SelectAllAction struct{}
type SetCaretAction struct {
	Index  int // field index
	Offset int // rune offset
}

// ===== CLIPBOARD ACTIONS =====
// Handled by the application, which turns them into edit actions.

type PasteClipboardAction struct{}
type DropClipboardAction struct{}
type ReplaceClipboardAction struct{}
type YankValueAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}
type HelpToggleAction struct{}
type HelpHideAction struct{}
type ClearStatusAction struct {
	Status string // only cleared while it still matches
}

// ===== CONFIG ACTIONS =====

type ReloadConfigAction struct {
	Config *config.Config
}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
