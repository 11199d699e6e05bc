package state

import (
	"time"

	"github.com/kk-code-lab/infilter/internal/config"
	"github.com/kk-code-lab/infilter/internal/field"
	"github.com/kk-code-lab/infilter/internal/transform"
)

// ===== STATE DEFINITIONS =====

// FieldState is one filtered input field and the engine bound to it.
type FieldState struct {
	Name     string
	Filter   string
	Strategy transform.Strategy
	Config   config.FieldConfig
	Host     *field.Host

	engine *transform.Engine
	detach func()

	// anchor and head track a keyboard-extended selection. The buffer only
	// stores an ordered range, so the moving end lives here.
	anchor int
	head   int
}

// Value returns the current field value.
func (f *FieldState) Value() string {
	return f.Host.Buffer().Value()
}

// Snapshot returns the current value and selection.
func (f *FieldState) Snapshot() transform.Snapshot {
	return f.Host.Buffer().Snapshot()
}

// Caret returns the moving end of the selection: where the cursor is drawn.
func (f *FieldState) Caret() int {
	sel := f.Snapshot().Selection
	if f.tracking(sel.Start, sel.End) {
		return f.head
	}
	return sel.End
}

// Engine returns the engine bound to the field.
func (f *FieldState) Engine() *transform.Engine {
	return f.engine
}

// CanUndo reports whether the field has edits to undo.
func (f *FieldState) CanUndo() bool {
	return f.Host.Buffer().History().CanUndo()
}

// Detach removes the engine's listeners from the host.
func (f *FieldState) Detach() {
	if f.detach != nil {
		f.detach()
		f.detach = nil
	}
}

// AppState is the single source of truth
type AppState struct {
	// Fields & focus
	Fields []*FieldState
	Focus  int

	HelpVisible bool

	// Dimensions
	ScreenWidth  int
	ScreenHeight int

	// Status line
	ClipboardAvailable bool      // Whether the system clipboard can be used
	LastYankTime       time.Time // Time of last successful yank (for flash effect)
	Status             string
	ConfigPath         string
	TraceEnabled       bool

	// Error state
	LastError error

	observe        func(name string) field.Observer
	dispatchAction func(Action)
}

// NewAppState builds the fields described by cfg. observe, when not nil,
// supplies the observer attached to each field host.
func NewAppState(cfg *config.Config, observe func(name string) field.Observer) (*AppState, error) {
	fields, err := BuildFields(cfg, observe, nil)
	if err != nil {
		return nil, err
	}
	return &AppState{
		Fields:       fields,
		TraceEnabled: observe != nil,
		observe:      observe,
	}, nil
}

// ===== HELPER METHODS =====

// FocusedField returns the field with focus, or nil when there are none.
func (s *AppState) FocusedField() *FieldState {
	if s == nil || s.Focus < 0 || s.Focus >= len(s.Fields) {
		return nil
	}
	return s.Fields[s.Focus]
}

// FieldByName returns the named field, or nil.
func (s *AppState) FieldByName(name string) *FieldState {
	for _, f := range s.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// Close detaches every field.
func (s *AppState) Close() {
	for _, f := range s.Fields {
		f.Detach()
	}
}

func (s *AppState) setDispatch(fn func(Action)) {
	s.dispatchAction = fn
}

func (s *AppState) getDispatch() func(Action) {
	return s.dispatchAction
}

// SetDispatch exposes the reducer dispatch hook to other packages.
func (s *AppState) SetDispatch(fn func(Action)) {
	s.setDispatch(fn)
}
