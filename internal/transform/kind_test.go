package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		ev   *Event
		want Kind
	}{
		{name: "nil event", ev: nil, want: Unclassified},
		{name: "typed", ev: &Event{Phase: BeforeInsert, Tag: TagInsertText, Data: "a"}, want: TypedText},
		{name: "pasted after commit", ev: &Event{Phase: AfterInsert, Tag: TagInsertFromPaste}, want: PastedText},
		{name: "dropped", ev: &Event{Phase: BeforeInsert, Tag: TagInsertFromDrop, Data: "x"}, want: DroppedText},
		{name: "replacement", ev: &Event{Phase: BeforeInsert, Tag: TagInsertReplacementText, Data: "y"}, want: ReplacementText},
		{name: "undo without data", ev: &Event{Phase: BeforeInsert, Tag: TagHistoryUndo}, want: HistoryUndo},
		{name: "redo with data", ev: &Event{Phase: AfterInsert, Tag: TagHistoryRedo, Data: "z"}, want: HistoryRedo},
		{name: "untagged autofill", ev: &Event{Phase: AfterInsert, Data: "+55"}, want: Unclassified},
		{name: "unknown tag", ev: &Event{Phase: BeforeInsert, Tag: "insertFromYank", Data: "q"}, want: Unclassified},
		{name: "deletion", ev: &Event{Phase: BeforeInsert, Tag: TagDeleteContentBackward}, want: Unclassified},
		{name: "value changed ignores tag", ev: &Event{Phase: ValueChanged, Tag: TagInsertText, Data: "a"}, want: Unclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ev))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "dropped", DroppedText.String())
	assert.Equal(t, "unclassified", Kind(200).String())
	assert.True(t, PastedText.interceptable())
	assert.False(t, ReplacementText.interceptable())
	assert.True(t, HistoryRedo.isHistory())
}

func TestPreventDefaultOnlyBeforeInsert(t *testing.T) {
	for _, phase := range []Phase{BeforeInsert, AfterInsert, ValueChanged} {
		ev := NewEvent(phase, TagInsertText, "a", nil)
		ev.PreventDefault()
		assert.Equal(t, phase == BeforeInsert, ev.DefaultPrevented(), phase.String())
	}
}

type stubField struct {
	value      string
	start, end int
}

func (f *stubField) Value() string             { return f.value }
func (f *stubField) SetValue(v string)         { f.value = v }
func (f *stubField) SelectionStart() int       { return f.start }
func (f *stubField) SelectionEnd() int         { return f.end }
func (f *stubField) SetSelectionRange(s, e int) { f.start, f.end = s, e }

func TestTakeSnapshotClampsAndOrders(t *testing.T) {
	snap := TakeSnapshot(&stubField{value: "äöü", start: 9, end: 1})
	assert.Equal(t, Selection{Start: 1, End: 3}, snap.Selection)

	snap = TakeSnapshot(&stubField{value: "ab", start: -3, end: -1})
	assert.Equal(t, Selection{Start: 0, End: 0}, snap.Selection)
}

func TestSnapshotSplitUsesRunes(t *testing.T) {
	snap := Snapshot{Value: "ñ1ü2é", Selection: Selection{Start: 1, End: 3}}
	prefix, selected, suffix := snap.Split()
	assert.Equal(t, "ñ", prefix)
	assert.Equal(t, "1ü", selected)
	assert.Equal(t, "2é", suffix)
	assert.Equal(t, 5, snap.Len())
}

func TestStrategyTable(t *testing.T) {
	tests := []struct {
		s         Strategy
		name      string
		history   bool
		selection bool
	}{
		{s: EmulatedReplace, name: "emulated-replace"},
		{s: RangeReplace, name: "range-replace", selection: true},
		{s: NativeCommand, name: "native-command", history: true, selection: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.s.String())
		assert.Equal(t, tt.history, tt.s.PreservesHistory(), tt.name)
		assert.Equal(t, tt.selection, tt.s.PreservesSelection(), tt.name)
	}
}

func TestEmulatedReplacePositionsSelection(t *testing.T) {
	tests := []struct {
		mode SelectionMode
		want Selection
	}{
		{mode: SelectStart, want: Selection{Start: 1, End: 1}},
		{mode: SelectEnd, want: Selection{Start: 3, End: 3}},
		{mode: SelectInserted, want: Selection{Start: 1, End: 3}},
	}
	for _, tt := range tests {
		f := &stubField{value: "abcd"}
		emulatedReplace{}.replace(f, "XY", 1, 3, tt.mode)
		assert.Equal(t, "aXYd", f.value)
		assert.Equal(t, tt.want, Selection{Start: f.start, End: f.end})
	}
}
