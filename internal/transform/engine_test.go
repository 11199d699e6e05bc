package transform_test

import (
	"errors"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/infilter/internal/field"
	"github.com/kk-code-lab/infilter/internal/transform"
)

var digits = transform.Pure(func(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
})

type hostSetup struct {
	name string
	caps field.Capabilities
	want transform.Strategy
}

var hostSetups = []hostSetup{
	{name: "emulated", caps: field.Capabilities{}, want: transform.EmulatedReplace},
	{name: "range", caps: field.Capabilities{RangeReplace: true}, want: transform.RangeReplace},
	{name: "native", caps: field.Capabilities{RangeReplace: true, NativeInsert: true}, want: transform.NativeCommand},
}

func bind(t *testing.T, setup hostSetup, value string, filter transform.Filter, opts ...transform.Option) (*field.Host, *transform.Engine) {
	t.Helper()
	host := field.NewHost(field.NewBuffer(value), setup.caps)
	engine, err := transform.New(host.Target(), filter, append(host.EngineOptions(), opts...)...)
	require.NoError(t, err)
	require.Equal(t, setup.want, engine.Strategy())
	_, err = host.Attach(engine.Handlers())
	require.NoError(t, err)
	return host, engine
}

func selection(h *field.Host) transform.Selection {
	return h.Buffer().Snapshot().Selection
}

func TestScenarios(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		sel     transform.Selection
		edit    func(h *field.Host) error
		want    string
		wantSel transform.Selection
	}{
		{
			name:    "paste of clean digits commits as is",
			value:   "9999",
			sel:     transform.Selection{Start: 2, End: 2},
			edit:    func(h *field.Host) error { return h.Paste("1030") },
			want:    "99103099",
			wantSel: transform.Selection{Start: 6, End: 6},
		},
		{
			name:    "paste of mixed text keeps only digits",
			value:   "",
			edit:    func(h *field.Host) error { return h.Paste("submit by 10:30am Monday") },
			want:    "1030",
			wantSel: transform.Selection{Start: 4, End: 4},
		},
		{
			name:    "drop highlights the filtered insertion",
			value:   "9999",
			sel:     transform.Selection{Start: 2, End: 2},
			edit:    func(h *field.Host) error { return h.Drop("2025-12-04", 2) },
			want:    "992025120499",
			wantSel: transform.Selection{Start: 2, End: 10},
		},
		{
			name:  "fully rejected paste is cancelled",
			value: "",
			edit:  func(h *field.Host) error { return h.Paste("hello world") },
			want:  "",
		},
		{
			name:    "fully rejected paste keeps the highlighted selection",
			value:   "12345",
			sel:     transform.Selection{Start: 1, End: 3},
			edit:    func(h *field.Host) error { return h.Paste("abc") },
			want:    "12345",
			wantSel: transform.Selection{Start: 1, End: 3},
		},
		{
			name:    "typed text replaces the selection",
			value:   "12345",
			sel:     transform.Selection{Start: 1, End: 3},
			edit:    func(h *field.Host) error { return h.Type("a9") },
			want:    "1945",
			wantSel: transform.Selection{Start: 2, End: 2},
		},
		{
			name:    "autofill is filtered as a whole",
			value:   "",
			edit:    func(h *field.Host) error { return h.Autofill("+553121286800") },
			want:    "553121286800",
			wantSel: transform.Selection{Start: 12, End: 12},
		},
		{
			name:    "replacement text is corrected after commit",
			value:   "12",
			sel:     transform.Selection{Start: 2, End: 2},
			edit:    func(h *field.Host) error { return h.Replace("3x4") },
			want:    "1234",
			wantSel: transform.Selection{Start: 4, End: 4},
		},
	}

	for _, setup := range hostSetups {
		for _, tt := range tests {
			t.Run(setup.name+"/"+tt.name, func(t *testing.T) {
				host, _ := bind(t, setup, tt.value, digits)
				host.Select(tt.sel.Start, tt.sel.End)

				require.NoError(t, tt.edit(host))

				assert.Equal(t, tt.want, host.Buffer().Value())
				assert.Equal(t, tt.wantSel, selection(host))
			})
		}
	}
}

func TestOnValueChangedFiltersWholeValue(t *testing.T) {
	buf := field.NewBuffer("+553121286800")
	require.Equal(t, 13, buf.SelectionEnd())
	engine, err := transform.New(buf, digits)
	require.NoError(t, err)

	require.NoError(t, engine.OnValueChanged(transform.NewEvent(transform.ValueChanged, "", "", buf)))

	assert.Equal(t, "553121286800", buf.Value())
	assert.Equal(t, transform.Selection{Start: 12, End: 12}, buf.Snapshot().Selection)
}

func TestNormalize(t *testing.T) {
	buf := field.NewBuffer("ab12c3")
	engine, err := transform.New(buf, digits)
	require.NoError(t, err)

	require.NoError(t, engine.Normalize(buf))
	assert.Equal(t, "123", buf.Value())

	require.NoError(t, engine.Normalize(buf))
	assert.Equal(t, "123", buf.Value())

	letters := field.NewBuffer("abc")
	engine, err = transform.New(letters, digits)
	require.NoError(t, err)
	require.NoError(t, engine.Normalize(letters))
	assert.Equal(t, "abc", letters.Value(), "an empty result is never written on attach")
}

func TestDropWithoutSelection(t *testing.T) {
	want := map[transform.Strategy]transform.Selection{
		transform.EmulatedReplace: {Start: 12, End: 12},
		transform.RangeReplace:    {Start: 10, End: 10},
		transform.NativeCommand:   {Start: 10, End: 10},
	}

	for _, setup := range hostSetups {
		t.Run(setup.name, func(t *testing.T) {
			host, _ := bind(t, setup, "9999", digits, transform.WithSelectWhenDropped(false))

			require.NoError(t, host.Drop("2025-12-04", 2))

			assert.Equal(t, "992025120499", host.Buffer().Value())
			assert.Equal(t, want[setup.want], selection(host))
		})
	}
}

func TestUndoAfterFilteredPaste(t *testing.T) {
	for _, setup := range hostSetups {
		t.Run(setup.name, func(t *testing.T) {
			host, _ := bind(t, setup, "", digits)

			require.NoError(t, host.Paste("1-2"))
			require.Equal(t, "12", host.Buffer().Value())

			require.NoError(t, host.Undo())

			if setup.want.PreservesHistory() {
				assert.Equal(t, "", host.Buffer().Value())
				require.NoError(t, host.Redo())
				assert.Equal(t, "12", host.Buffer().Value())
			} else {
				assert.Equal(t, "12", host.Buffer().Value(), "filtered writes are not undoable")
			}
		})
	}
}

func TestUndoRestoresTypedOverSelection(t *testing.T) {
	for _, setup := range hostSetups {
		t.Run(setup.name, func(t *testing.T) {
			host, _ := bind(t, setup, "9999", digits)
			host.Select(0, 2)

			require.NoError(t, host.Type("5"))
			require.Equal(t, "599", host.Buffer().Value())

			require.NoError(t, host.Undo())
			assert.Equal(t, "9999", host.Buffer().Value())
			assert.Equal(t, transform.Selection{Start: 0, End: 2}, selection(host))

			require.NoError(t, host.Redo())
			assert.Equal(t, "599", host.Buffer().Value())
			assert.Equal(t, transform.Selection{Start: 1, End: 1}, selection(host))
		})
	}
}

func TestHistoryDisabledCancelsUndo(t *testing.T) {
	for _, setup := range hostSetups {
		t.Run(setup.name, func(t *testing.T) {
			host, _ := bind(t, setup, "", digits, transform.WithHistory(false))

			require.NoError(t, host.Type("1"))
			require.NoError(t, host.Type("2"))
			require.NoError(t, host.Undo())
			assert.Equal(t, "12", host.Buffer().Value())

			require.NoError(t, host.Redo())
			assert.Equal(t, "12", host.Buffer().Value())
		})
	}
}

func TestFilterErrorIsReturnedUnmodified(t *testing.T) {
	errBoom := errors.New("boom")
	failing := func(s string) (string, error) {
		if strings.Contains(s, "!") {
			return "", errBoom
		}
		return digits(s)
	}

	for _, setup := range hostSetups {
		t.Run(setup.name, func(t *testing.T) {
			host, _ := bind(t, setup, "12", failing)

			err := host.Paste("3!")
			assert.Same(t, errBoom, err)
			assert.Equal(t, "12", host.Buffer().Value())
			assert.Equal(t, transform.Selection{Start: 2, End: 2}, selection(host))
		})
	}
}

func TestDetachStopsFiltering(t *testing.T) {
	host := field.NewHost(field.NewBuffer(""), field.Capabilities{RangeReplace: true})
	engine, err := transform.New(host.Target(), digits)
	require.NoError(t, err)
	detach, err := host.Attach(engine.Handlers())
	require.NoError(t, err)

	require.NoError(t, host.Type("a1"))
	assert.Equal(t, "1", host.Buffer().Value())

	detach()
	require.NoError(t, host.Type("b"))
	assert.Equal(t, "1b", host.Buffer().Value())
}

func TestNewRejectsMissingCollaborators(t *testing.T) {
	_, err := transform.New(nil, digits)
	assert.ErrorIs(t, err, transform.ErrNilTarget)

	_, err = transform.New(field.NewBuffer(""), nil)
	assert.ErrorIs(t, err, transform.ErrNilFilter)
}

func TestStrategyDetection(t *testing.T) {
	buf := field.NewBuffer("")
	cmd := transform.InsertCommandFunc(func(transform.TextField, string) {})

	e, err := transform.New(buf, digits, transform.WithInsertCommand(cmd))
	require.NoError(t, err)
	assert.Equal(t, transform.NativeCommand, e.Strategy())

	e, err = transform.New(buf, digits)
	require.NoError(t, err)
	assert.Equal(t, transform.RangeReplace, e.Strategy())
	assert.Same(t, buf, e.Target())
}

func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}

func TestMisuseFailsFast(t *testing.T) {
	buf := field.NewBuffer("")
	engine, err := transform.New(buf, digits)
	require.NoError(t, err)

	err = recoverError(func() { _ = engine.OnBeforeInsert(nil) })
	assert.ErrorIs(t, err, transform.ErrNilEvent)

	other := field.NewBuffer("")
	err = recoverError(func() {
		_ = engine.OnAfterInsert(transform.NewEvent(transform.AfterInsert, transform.TagInsertText, "1", other))
	})
	assert.ErrorIs(t, err, transform.ErrUnboundTarget)

	err = recoverError(func() { _ = engine.Normalize(other) })
	assert.ErrorIs(t, err, transform.ErrUnboundTarget)
}

func TestEmulatedMismatchMovesCaretToEditEnd(t *testing.T) {
	// Whole-value writes cannot keep the caret in place on their own; the
	// post-commit pass puts it back right after the filtered insertion.
	host, _ := bind(t, hostSetups[0], "1234", digits)
	host.Select(1, 1)

	require.NoError(t, host.Paste("x9y"))

	assert.Equal(t, "19234", host.Buffer().Value())
	assert.Equal(t, transform.Selection{Start: 2, End: 2}, selection(host))
	assert.False(t, host.Buffer().History().CanUndo())
}

func TestBeforeInsertLeavesCleanInsertionAlone(t *testing.T) {
	buf := field.NewBuffer("12")
	engine, err := transform.New(buf, digits)
	require.NoError(t, err)

	ev := transform.NewEvent(transform.BeforeInsert, transform.TagInsertText, "3", buf)
	require.NoError(t, engine.OnBeforeInsert(ev))
	assert.False(t, ev.DefaultPrevented())
	assert.Equal(t, "12", buf.Value())

	ev = transform.NewEvent(transform.BeforeInsert, transform.TagInsertReplacementText, "x", buf)
	require.NoError(t, engine.OnBeforeInsert(ev))
	assert.False(t, ev.DefaultPrevented(), "replacement text is left to the post-commit pass")
}
