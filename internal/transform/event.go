package transform

// Phase identifies which platform channel delivered an event.
type Phase uint8

const (
	// BeforeInsert fires before the platform commits an insertion and is
	// the only cancelable phase.
	BeforeInsert Phase = iota + 1
	// AfterInsert fires once the platform has committed the insertion.
	AfterInsert
	// ValueChanged fires for any value mutation, including ones with no
	// insertion semantics.
	ValueChanged
)

func (p Phase) String() string {
	switch p {
	case BeforeInsert:
		return "before-insert"
	case AfterInsert:
		return "after-insert"
	case ValueChanged:
		return "value-changed"
	default:
		return "unknown"
	}
}

// Event is one platform notification about a field edit.
type Event struct {
	Phase Phase
	// Tag is the platform's insertion-kind tag, empty for generic mutations.
	Tag string
	// Data is the proposed insertion text, empty when the platform sent none.
	Data   string
	Target TextField

	defaultPrevented bool
}

// NewEvent builds an event for the given channel.
func NewEvent(phase Phase, tag, data string, target TextField) *Event {
	return &Event{Phase: phase, Tag: tag, Data: data, Target: target}
}

// Cancelable reports whether PreventDefault has any effect.
func (e *Event) Cancelable() bool {
	return e.Phase == BeforeInsert
}

// PreventDefault suppresses the platform's default action. It is a no-op
// outside the BeforeInsert phase.
func (e *Event) PreventDefault() {
	if e.Cancelable() {
		e.defaultPrevented = true
	}
}

func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}
