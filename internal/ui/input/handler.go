package input

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/infilter/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.AppState // Reference to current state for mode checking

	// Bracketed paste: keys between the start and end markers are
	// collected and delivered as one paste.
	pasting  bool
	pasteBuf strings.Builder
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.AppState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false once
// the user asked to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventPaste:
		ih.processPasteEvent(ev)
		return true
	case *tcell.EventKey:
		if ih.pasting {
			ih.collectPasteKey(ev)
			return true
		}
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processPasteEvent(ev *tcell.EventPaste) {
	if ev.Start() {
		ih.pasting = true
		ih.pasteBuf.Reset()
		return
	}
	if !ih.pasting {
		return
	}
	ih.pasting = false
	text := ih.pasteBuf.String()
	ih.pasteBuf.Reset()
	if text != "" {
		ih.actionChan <- statepkg.PasteAction{Text: text}
	}
}

func (ih *InputHandler) collectPasteKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		ih.pasteBuf.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		ih.pasteBuf.WriteByte('\n')
	case tcell.KeyTab:
		ih.pasteBuf.WriteByte('\t')
	}
}

// processKeyEvent handles keyboard input
func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case tcell.KeyEscape, tcell.KeyF1:
			ih.actionChan <- statepkg.HelpHideAction{}
			return true
		case tcell.KeyRune:
			r := ev.Rune()
			if r == '?' || r == 'q' || r == 'Q' {
				ih.actionChan <- statepkg.HelpHideAction{}
			}
			return true
		default:
			return true
		}
	}

	mods := ev.Modifiers()
	extend := mods&tcell.ModShift != 0
	word := mods&(tcell.ModCtrl|tcell.ModAlt) != 0

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false

	case tcell.KeyF1:
		ih.actionChan <- statepkg.HelpToggleAction{}

	// ===== FOCUS =====

	case tcell.KeyTab, tcell.KeyDown, tcell.KeyEnter:
		ih.actionChan <- statepkg.FocusNextAction{}

	case tcell.KeyBacktab, tcell.KeyUp:
		ih.actionChan <- statepkg.FocusPrevAction{}

	// ===== CARET =====

	case tcell.KeyLeft:
		direction := "left"
		if word {
			direction = "word-left"
		}
		ih.actionChan <- statepkg.MoveCaretAction{Direction: direction, Extend: extend}

	case tcell.KeyRight:
		direction := "right"
		if word {
			direction = "word-right"
		}
		ih.actionChan <- statepkg.MoveCaretAction{Direction: direction, Extend: extend}

	case tcell.KeyHome:
		ih.actionChan <- statepkg.MoveCaretAction{Direction: "home", Extend: extend}

	case tcell.KeyEnd:
		ih.actionChan <- statepkg.MoveCaretAction{Direction: "end", Extend: extend}

	case tcell.KeyCtrlA:
		ih.actionChan <- statepkg.SelectAllAction{}

	// ===== EDITING =====

	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if word {
			ih.actionChan <- statepkg.DeleteWordAction{}
		} else {
			ih.actionChan <- statepkg.DeleteBackwardAction{}
		}

	case tcell.KeyCtrlW:
		ih.actionChan <- statepkg.DeleteWordAction{}

	case tcell.KeyDelete:
		ih.actionChan <- statepkg.DeleteForwardAction{}

	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.UndoAction{}

	case tcell.KeyCtrlY:
		ih.actionChan <- statepkg.RedoAction{}

	case tcell.KeyCtrlF:
		ih.actionChan <- statepkg.AutofillAction{}

	// ===== CLIPBOARD =====

	case tcell.KeyCtrlV:
		ih.actionChan <- statepkg.PasteClipboardAction{}

	case tcell.KeyCtrlD:
		ih.actionChan <- statepkg.DropClipboardAction{}

	case tcell.KeyCtrlR:
		ih.actionChan <- statepkg.ReplaceClipboardAction{}

	case tcell.KeyCtrlK:
		ih.actionChan <- statepkg.YankValueAction{}

	case tcell.KeyRune:
		if mods&tcell.ModAlt != 0 {
			return true
		}
		ih.actionChan <- statepkg.TypeTextAction{Text: string(ev.Rune())}
	}

	return true
}
