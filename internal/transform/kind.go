package transform

// Insertion-kind tags as reported by the host platform.
// Names follow https://w3c.github.io/input-events/#interface-InputEvent-Attributes
const (
	TagInsertText            = "insertText"
	TagInsertFromPaste       = "insertFromPaste"
	TagInsertFromDrop        = "insertFromDrop"
	TagInsertReplacementText = "insertReplacementText"
	TagHistoryUndo           = "historyUndo"
	TagHistoryRedo           = "historyRedo"
	TagDeleteContentBackward = "deleteContentBackward"
	TagDeleteContentForward  = "deleteContentForward"
)

// Kind classifies why a value-changing event occurred.
type Kind uint8

const (
	// Unclassified covers autofill, programmatic assignment and anything
	// whose metadata could not be trusted.
	Unclassified Kind = iota
	TypedText
	PastedText
	DroppedText
	// ReplacementText is a spellcheck or autocorrect substitution.
	ReplacementText
	HistoryUndo
	HistoryRedo
)

var kindNames = [...]string{
	Unclassified:    "unclassified",
	TypedText:       "typed",
	PastedText:      "pasted",
	DroppedText:     "dropped",
	ReplacementText: "replacement",
	HistoryUndo:     "undo",
	HistoryRedo:     "redo",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unclassified"
}

// interceptable reports whether the pre-commit pass may rewrite the insertion.
func (k Kind) interceptable() bool {
	return k == TypedText || k == PastedText || k == DroppedText
}

func (k Kind) isHistory() bool {
	return k == HistoryUndo || k == HistoryRedo
}

var kindsByTag = map[string]Kind{
	TagInsertText:            TypedText,
	TagInsertFromPaste:       PastedText,
	TagInsertFromDrop:        DroppedText,
	TagInsertReplacementText: ReplacementText,
	TagHistoryUndo:           HistoryUndo,
	TagHistoryRedo:           HistoryRedo,
}

// Classify maps a raw platform event to its insertion kind. Only insertion
// notifications (before/after phases) carrying a known tag are classified;
// everything else, including a nil event, is Unclassified.
func Classify(ev *Event) Kind {
	if ev == nil {
		return Unclassified
	}
	if ev.Phase != BeforeInsert && ev.Phase != AfterInsert {
		return Unclassified
	}
	if ev.Tag == "" {
		return Unclassified
	}
	if kind, ok := kindsByTag[ev.Tag]; ok {
		return kind
	}
	return Unclassified
}
