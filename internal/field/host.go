package field

import (
	"github.com/kk-code-lab/infilter/internal/transform"
)

// Capabilities selects which mutation primitives the host exposes to a
// bound engine.
type Capabilities struct {
	// RangeReplace exposes the buffer's ReplaceRange primitive.
	RangeReplace bool
	// NativeInsert exposes the host's undo-aware insert command.
	NativeInsert bool
}

// Listener receives one notification. A non-nil error stops delivery and is
// returned to whoever started the edit.
type Listener func(*transform.Event) error

// Record describes one delivered notification.
type Record struct {
	Phase     transform.Phase
	Tag       string
	Data      string
	Before    transform.Snapshot
	After     transform.Snapshot
	Prevented bool
	Err       error
}

// Observer is told about every notification the host delivers.
type Observer interface {
	Observe(Record)
}

type listenerEntry struct {
	fn Listener
}

// Host drives a Buffer the way a platform drives an editable field. Every
// edit fires before-insert, applies the default action unless it was
// cancelled, fires after-insert, and fires value-changed when the value
// differs from the one the edit started with.
//
// Host is not safe for concurrent use.
type Host struct {
	buf       *Buffer
	target    transform.TextField
	caps      Capabilities
	listeners map[transform.Phase][]*listenerEntry
	observer  Observer

	// nestedErr carries a listener error out of InsertText, which has no
	// error result of its own.
	nestedErr error
}

var _ transform.InsertCommand = (*Host)(nil)

// NewHost wraps buf. Without RangeReplace the engine only sees a plain
// view of the buffer and falls back to whole-value writes.
func NewHost(buf *Buffer, caps Capabilities) *Host {
	h := &Host{
		buf:       buf,
		caps:      caps,
		listeners: make(map[transform.Phase][]*listenerEntry),
	}
	if caps.RangeReplace {
		h.target = buf
	} else {
		h.target = &plainView{b: buf}
	}
	return h
}

func (h *Host) Buffer() *Buffer               { return h.buf }
func (h *Host) Capabilities() Capabilities    { return h.caps }
func (h *Host) Target() transform.TextField   { return h.target }
func (h *Host) SetObserver(observer Observer) { h.observer = observer }

// InsertCommand returns the native insert command, or nil when the host
// does not offer one.
func (h *Host) InsertCommand() transform.InsertCommand {
	if !h.caps.NativeInsert {
		return nil
	}
	return h
}

// EngineOptions returns the options that bind an engine to this host's
// capabilities.
func (h *Host) EngineOptions() []transform.Option {
	if cmd := h.InsertCommand(); cmd != nil {
		return []transform.Option{transform.WithInsertCommand(cmd)}
	}
	return nil
}

// Listen registers fn for phase and returns a function removing it.
func (h *Host) Listen(phase transform.Phase, fn Listener) func() {
	entry := &listenerEntry{fn: fn}
	h.listeners[phase] = append(h.listeners[phase], entry)
	return func() {
		list := h.listeners[phase]
		for i, e := range list {
			if e == entry {
				h.listeners[phase] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of registered listeners over all phases.
func (h *Host) ListenerCount() int {
	n := 0
	for _, list := range h.listeners {
		n += len(list)
	}
	return n
}

// Attach normalizes the field and subscribes the handlers to their
// channels. The returned detach removes exactly those subscriptions.
func (h *Host) Attach(handlers transform.Handlers) (func(), error) {
	if handlers.Normalize != nil {
		if err := handlers.Normalize(h.target); err != nil {
			return nil, err
		}
	}

	var removers []func()
	if handlers.BeforeInsert != nil {
		removers = append(removers, h.Listen(transform.BeforeInsert, handlers.BeforeInsert))
	}
	if handlers.AfterInsert != nil {
		removers = append(removers, h.Listen(transform.AfterInsert, handlers.AfterInsert))
	}
	if handlers.ValueChanged != nil {
		removers = append(removers, h.Listen(transform.ValueChanged, handlers.ValueChanged))
	}

	detached := false
	return func() {
		if detached {
			return
		}
		detached = true
		for _, remove := range removers {
			remove()
		}
	}, nil
}

// Type inserts text at the selection as if typed.
func (h *Host) Type(text string) error {
	return h.insert(transform.TagInsertText, text)
}

// Paste inserts text at the selection as if pasted.
func (h *Host) Paste(text string) error {
	return h.insert(transform.TagInsertFromPaste, text)
}

// Replace substitutes the selection as spellcheck or autocorrect would.
func (h *Host) Replace(text string) error {
	return h.insert(transform.TagInsertReplacementText, text)
}

// Drop inserts text at offset at and leaves it selected. Any existing
// selection elsewhere is kept out of the edit.
func (h *Host) Drop(text string, at int) error {
	at = clampInt(at, 0, len(h.buf.value))
	h.buf.SetSelectionRange(at, at)
	return h.edit(transform.TagInsertFromDrop, text, func() bool {
		s := h.buf.selection()
		h.buf.editReplace(text, s.Start, s.End, true)
		return true
	})
}

func (h *Host) insert(tag, text string) error {
	return h.edit(tag, text, func() bool {
		s := h.buf.selection()
		if text == "" && s.Collapsed() {
			return false
		}
		h.buf.editReplace(text, s.Start, s.End, false)
		return true
	})
}

// DeleteBackward removes the selection or the rune before the caret.
func (h *Host) DeleteBackward() error {
	s := h.buf.selection()
	if s.Collapsed() && s.Start == 0 {
		return nil
	}
	return h.edit(transform.TagDeleteContentBackward, "", func() bool {
		s := h.buf.selection()
		if s.Collapsed() {
			if s.Start == 0 {
				return false
			}
			s.Start--
		}
		h.buf.editReplace("", s.Start, s.End, false)
		return true
	})
}

// DeleteForward removes the selection or the rune after the caret.
func (h *Host) DeleteForward() error {
	s := h.buf.selection()
	if s.Collapsed() && s.End == len(h.buf.value) {
		return nil
	}
	return h.edit(transform.TagDeleteContentForward, "", func() bool {
		s := h.buf.selection()
		if s.Collapsed() {
			if s.End == len(h.buf.value) {
				return false
			}
			s.End++
		}
		h.buf.editReplace("", s.Start, s.End, false)
		return true
	})
}

// Undo reverts the last recorded edit. Nothing fires when there is nothing
// to undo.
func (h *Host) Undo() error {
	if !h.buf.history.CanUndo() {
		return nil
	}
	return h.edit(transform.TagHistoryUndo, "", func() bool {
		prev, ok := h.buf.history.Undo(h.buf.Snapshot())
		if ok {
			h.buf.restore(prev)
		}
		return ok
	})
}

// Redo re-applies the last undone edit.
func (h *Host) Redo() error {
	if !h.buf.history.CanRedo() {
		return nil
	}
	return h.edit(transform.TagHistoryRedo, "", func() bool {
		next, ok := h.buf.history.Redo(h.buf.Snapshot())
		if ok {
			h.buf.restore(next)
		}
		return ok
	})
}

// Autofill replaces the whole value the way browser autofill does: there
// is no before-insert notification and the after-insert one carries no tag.
func (h *Host) Autofill(value string) error {
	old := h.buf.Value()
	h.buf.SetValue(value)
	return h.commit("", "", old)
}

// Select moves the selection without firing any notification.
func (h *Host) Select(start, end int) {
	h.buf.SetSelectionRange(start, end)
}

// InsertText is the host's native insert command: it replaces the selection
// of target with text, records the edit for undo and fires after-insert and
// value-changed. It is a no-op for any field other than this host's.
func (h *Host) InsertText(target transform.TextField, text string) {
	if target != h.target {
		return
	}
	old := h.buf.Value()
	s := h.buf.selection()
	h.buf.editReplace(text, s.Start, s.End, false)
	if err := h.commit(transform.TagInsertText, text, old); err != nil && h.nestedErr == nil {
		h.nestedErr = err
	}
}

func (h *Host) edit(tag, data string, apply func() bool) error {
	before := transform.NewEvent(transform.BeforeInsert, tag, data, h.target)
	err := h.dispatch(before)
	if nested := h.takeNestedErr(); err == nil {
		err = nested
	}
	if err != nil {
		return err
	}
	if before.DefaultPrevented() {
		return nil
	}

	old := h.buf.Value()
	if !apply() {
		return nil
	}
	return h.commit(tag, data, old)
}

func (h *Host) commit(tag, data, old string) error {
	after := transform.NewEvent(transform.AfterInsert, tag, data, h.target)
	if err := h.dispatch(after); err != nil {
		return err
	}
	if h.buf.Value() == old {
		return nil
	}
	return h.dispatch(transform.NewEvent(transform.ValueChanged, "", "", h.target))
}

func (h *Host) takeNestedErr() error {
	err := h.nestedErr
	h.nestedErr = nil
	return err
}

func (h *Host) dispatch(ev *transform.Event) error {
	var before transform.Snapshot
	if h.observer != nil {
		before = h.buf.Snapshot()
	}

	// Listeners may detach while being notified.
	list := append([]*listenerEntry(nil), h.listeners[ev.Phase]...)
	var err error
	for _, entry := range list {
		if err = entry.fn(ev); err != nil {
			break
		}
	}

	if h.observer != nil {
		h.observer.Observe(Record{
			Phase:     ev.Phase,
			Tag:       ev.Tag,
			Data:      ev.Data,
			Before:    before,
			After:     h.buf.Snapshot(),
			Prevented: ev.DefaultPrevented(),
			Err:       err,
		})
	}
	return err
}
