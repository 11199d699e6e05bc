// Package gioedit binds a Gio editor widget to a transform engine.
//
// The Gio editor applies keystrokes and clipboard pastes itself and only
// reports afterwards, so edits it makes on its own are corrected in the
// after-insert pass. Text inserted through Field.Insert goes through the
// full before/after pipeline.
package gioedit

import (
	"gioui.org/layout"
	"gioui.org/widget"

	"github.com/kk-code-lab/infilter/internal/field"
	"github.com/kk-code-lab/infilter/internal/transform"
)

// Field is a labelled Gio editor kept filtered by an engine.
type Field struct {
	Label  string
	Editor widget.Editor

	target transform.TextField
	engine *transform.Engine
	// seen is the last value the engine has accounted for.
	seen string
}

// New creates a single-line field holding initial. caps decides which
// editor primitives the engine may use.
func New(label, initial string, filter transform.Filter, caps field.Capabilities, opts ...transform.Option) (*Field, error) {
	f := &Field{Label: label}
	f.Editor.SingleLine = true
	f.Editor.SetText(initial)

	view := &editorView{ed: &f.Editor}
	if caps.RangeReplace {
		f.target = &rangeView{editorView: view}
	} else {
		f.target = view
	}
	if caps.NativeInsert {
		opts = append([]transform.Option{transform.WithInsertCommand(transform.InsertCommandFunc(f.insertText))}, opts...)
	}

	engine, err := transform.New(f.target, filter, opts...)
	if err != nil {
		return nil, err
	}
	f.engine = engine
	if err := engine.Normalize(f.target); err != nil {
		return nil, err
	}
	f.seen = f.Editor.Text()
	return f, nil
}

// Strategy reports the mutation strategy the engine picked.
func (f *Field) Strategy() transform.Strategy {
	return f.engine.Strategy()
}

// Value returns the editor text.
func (f *Field) Value() string {
	return f.Editor.Text()
}

// Snapshot returns the editor text and ordered selection.
func (f *Field) Snapshot() transform.Snapshot {
	return transform.TakeSnapshot(f.target)
}

// Update drains the editor's events and corrects any text it committed on
// its own. It reports whether the text changed.
func (f *Field) Update(gtx layout.Context) (bool, error) {
	changed := false
	for {
		ev, ok := f.Editor.Update(gtx)
		if !ok {
			break
		}
		if _, ok := ev.(widget.ChangeEvent); ok {
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, f.Sync()
}

// Sync runs the after-insert pass when the editor text moved away from the
// last value the engine saw.
func (f *Field) Sync() error {
	if f.Editor.Text() == f.seen {
		return nil
	}
	err := f.engine.OnAfterInsert(transform.NewEvent(transform.AfterInsert, "", "", f.target))
	f.seen = f.Editor.Text()
	return err
}

// Insert inserts text at the selection as an edit of kind tag, giving the
// engine the chance to rewrite it before it lands.
func (f *Field) Insert(tag, text string) error {
	before := transform.NewEvent(transform.BeforeInsert, tag, text, f.target)
	if err := f.engine.OnBeforeInsert(before); err != nil {
		return err
	}
	if before.DefaultPrevented() {
		f.seen = f.Editor.Text()
		return nil
	}
	f.Editor.Insert(text)
	err := f.engine.OnAfterInsert(transform.NewEvent(transform.AfterInsert, tag, text, f.target))
	f.seen = f.Editor.Text()
	return err
}

// Autofill replaces the whole value without a before-insert pass.
func (f *Field) Autofill(value string) error {
	f.target.SetValue(value)
	err := f.engine.OnAfterInsert(transform.NewEvent(transform.AfterInsert, "", "", f.target))
	if err == nil {
		err = f.engine.OnValueChanged(transform.NewEvent(transform.ValueChanged, "", "", f.target))
	}
	f.seen = f.Editor.Text()
	return err
}

func (f *Field) insertText(target transform.TextField, text string) {
	if target != f.target {
		return
	}
	f.Editor.Insert(text)
}

// editorView exposes a widget.Editor as a transform.TextField.
type editorView struct {
	ed *widget.Editor
}

func (v *editorView) Value() string {
	return v.ed.Text()
}

// SetValue replaces the text and leaves the caret at the end.
func (v *editorView) SetValue(value string) {
	if value == v.ed.Text() {
		return
	}
	v.ed.SetText(value)
	n := v.ed.Len()
	v.ed.SetCaret(n, n)
}

func (v *editorView) SelectionStart() int {
	start, end := v.ed.Selection()
	return min(start, end)
}

func (v *editorView) SelectionEnd() int {
	start, end := v.ed.Selection()
	return max(start, end)
}

// SetSelectionRange selects [start, end) with the caret at end.
func (v *editorView) SetSelectionRange(start, end int) {
	if end < start {
		end = start
	}
	v.ed.SetCaret(end, start)
}

// rangeView adds in-place range replacement through the editor's own
// insert, which keeps the surrounding text untouched.
type rangeView struct {
	*editorView
}

func (v *rangeView) ReplaceRange(text string, start, end int) {
	v.ed.SetCaret(end, start)
	v.ed.Insert(text)
}
