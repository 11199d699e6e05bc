// Package transform keeps an editable text field constrained to the output
// of a filter while preserving the caret, any pre-existing selection and,
// where the host allows it, the undo history.
//
// An Engine is bound to one field. The caller wires its handlers to the
// host's three notification channels (before-insert, after-insert and
// value-changed) and calls Normalize when the field is attached.
package transform

// Filter maps raw text to the subset the field accepts. It should be total
// and idempotent; the engine returns its error unmodified.
type Filter func(string) (string, error)

// Pure adapts an infallible filter.
func Pure(fn func(string) string) Filter {
	return func(s string) (string, error) {
		return fn(s), nil
	}
}

// Engine holds the immutable configuration for one bound field.
type Engine struct {
	target            TextField
	filter            Filter
	selectWhenDropped bool
	historyEnabled    bool
	mut               mutator
}

type options struct {
	selectWhenDropped bool
	historyEnabled    bool
	insertCommand     InsertCommand
}

// Option configures an Engine at construction.
type Option func(*options)

// WithSelectWhenDropped controls whether dropped text is left highlighted,
// mirroring native drop behaviour. Defaults to true.
func WithSelectWhenDropped(enabled bool) Option {
	return func(o *options) { o.selectWhenDropped = enabled }
}

// WithHistory controls whether undo/redo requests reach the field. When
// disabled they are cancelled before the host applies them. Defaults to true.
func WithHistory(enabled bool) Option {
	return func(o *options) { o.historyEnabled = enabled }
}

// WithInsertCommand supplies the host's native insert command. When present
// the engine uses the NativeCommand strategy.
func WithInsertCommand(cmd InsertCommand) Option {
	return func(o *options) { o.insertCommand = cmd }
}

// New binds an engine to target. The mutation strategy is detected once
// here and never changes.
func New(target TextField, filter Filter, opts ...Option) (*Engine, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if filter == nil {
		return nil, ErrNilFilter
	}

	o := options{selectWhenDropped: true, historyEnabled: true}
	for _, opt := range opts {
		opt(&o)
	}

	return &Engine{
		target:            target,
		filter:            filter,
		selectWhenDropped: o.selectWhenDropped,
		historyEnabled:    o.historyEnabled,
		mut:               detectMutator(target, o.insertCommand),
	}, nil
}

// Strategy reports the mutation strategy chosen at construction.
func (e *Engine) Strategy() Strategy {
	return e.mut.strategy()
}

// Target returns the bound field.
func (e *Engine) Target() TextField {
	return e.target
}

// Handlers is the set of callbacks a caller attaches to a field.
type Handlers struct {
	Normalize    func(TextField) error
	BeforeInsert func(*Event) error
	AfterInsert  func(*Event) error
	ValueChanged func(*Event) error
}

// Handlers returns the engine's callbacks as one set.
func (e *Engine) Handlers() Handlers {
	return Handlers{
		Normalize:    e.Normalize,
		BeforeInsert: e.OnBeforeInsert,
		AfterInsert:  e.OnAfterInsert,
		ValueChanged: e.OnValueChanged,
	}
}

// Normalize filters the whole value once, typically on attach. An empty
// result is never written so that a field is not wiped on attach.
func (e *Engine) Normalize(f TextField) error {
	e.mustOwn(f)

	value := f.Value()
	filtered, err := e.filter(value)
	if err != nil {
		return err
	}
	if filtered != "" && filtered != value {
		f.SetValue(filtered)
	}
	return nil
}

// OnBeforeInsert rewrites an insertion before the host commits it.
func (e *Engine) OnBeforeInsert(ev *Event) error {
	mustEvent(ev)
	e.mustOwn(ev.Target)

	kind := Classify(ev)

	if !e.historyEnabled && kind.isHistory() {
		ev.PreventDefault()
		return nil
	}

	if !kind.interceptable() {
		return nil
	}

	filtered, err := e.filter(ev.Data)
	if err != nil {
		return err
	}

	// Common case: nothing to rewrite, leave the event and field alone.
	if filtered == ev.Data {
		return nil
	}

	if filtered == "" || e.mut.strategy() != EmulatedReplace {
		ev.PreventDefault()
	}

	// A fully rejected insertion must not delete a highlighted selection.
	if filtered == "" {
		return nil
	}

	if e.mut.strategy() == EmulatedReplace {
		// Left to OnAfterInsert.
		return nil
	}

	mode := SelectEnd
	if kind == DroppedText && e.selectWhenDropped {
		mode = SelectInserted
	}

	snap := TakeSnapshot(ev.Target)
	e.mut.replace(ev.Target, filtered, snap.Selection.Start, snap.Selection.End, mode)
	return nil
}

// OnAfterInsert corrects a committed insertion. The value around the
// selection is filtered piecewise so the caret stays next to the edit.
func (e *Engine) OnAfterInsert(ev *Event) error {
	mustEvent(ev)
	e.mustOwn(ev.Target)

	kind := Classify(ev)
	snap := TakeSnapshot(ev.Target)
	prefix, selected, suffix := snap.Split()

	filteredPrefix, err := e.filter(prefix)
	if err != nil {
		return err
	}
	filteredSuffix, err := e.filter(suffix)
	if err != nil {
		return err
	}

	// Insertions collapse the selection, so a highlight here is either
	// dropped text or one restored by undo/redo. Both are kept.
	filteredSelected, err := e.filter(selected)
	if err != nil {
		return err
	}

	next := filteredPrefix + filteredSelected + filteredSuffix
	if next == snap.Value {
		return nil
	}

	// Whole-value write; the caret lands at the end unless repositioned.
	emulatedReplace{}.replace(ev.Target, next, 0, snap.Len(), SelectEnd)
	if kind != DroppedText || e.selectWhenDropped {
		start := runeLen(filteredPrefix)
		ev.Target.SetSelectionRange(start, start+runeLen(filteredSelected))
	}
	return nil
}

// OnValueChanged is the last-resort pass for mutations the insertion
// pipeline never saw, such as autofill. It makes no attempt to keep the
// selection.
func (e *Engine) OnValueChanged(ev *Event) error {
	mustEvent(ev)
	e.mustOwn(ev.Target)

	value := ev.Target.Value()
	filtered, err := e.filter(value)
	if err != nil {
		return err
	}
	if filtered != value {
		ev.Target.SetValue(filtered)
	}
	return nil
}
