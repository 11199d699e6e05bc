package trace

import (
	"bufio"
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kk-code-lab/infilter/internal/field"
	"github.com/kk-code-lab/infilter/internal/transform"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines(t *testing.T) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []map[string]any
	sc := bufio.NewScanner(bytes.NewReader(b.buf.Bytes()))
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	return out
}

func newTestRecorder(delay time.Duration) (*Recorder, *syncBuffer) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(logger, WithDelay(delay)), buf
}

func TestRecorderGroupsOneEditIntoOneBatch(t *testing.T) {
	rec, buf := newTestRecorder(time.Hour)

	host := field.NewHost(field.NewBuffer(""), field.Capabilities{RangeReplace: true})
	host.SetObserver(rec.Observer("pin"))
	engine, err := transform.New(host.Target(), transform.Pure(func(s string) string { return s }))
	require.NoError(t, err)
	_, err = host.Attach(engine.Handlers())
	require.NoError(t, err)

	require.NoError(t, host.Paste("42"))
	rec.Flush()

	lines := buf.lines(t)
	require.Len(t, lines, 3)
	assert.Equal(t, 1, rec.Batches())

	batch := lines[0]["batch"]
	for i, line := range lines {
		assert.Equal(t, batch, line["batch"])
		assert.Equal(t, float64(i), line["seq"])
		assert.Equal(t, "pin", line["field"])
	}
	assert.Equal(t, "before-insert", lines[0]["phase"])
	assert.Equal(t, "insertFromPaste", lines[0]["tag"])
	assert.Equal(t, "42", lines[0]["data"])
	assert.Equal(t, "value-changed", lines[2]["phase"])

	after := lines[1]["after"].(map[string]any)
	assert.Equal(t, "42", after["value"])
	assert.Equal(t, float64(2), after["start"])
}

func TestRecorderFlushesAfterQuietPeriod(t *testing.T) {
	rec, buf := newTestRecorder(5 * time.Millisecond)

	rec.Observe(field.Record{Phase: transform.BeforeInsert, Tag: transform.TagInsertText, Data: "a", Prevented: true})

	require.Eventually(t, func() bool { return rec.Batches() == 1 }, time.Second, time.Millisecond)
	lines := buf.lines(t)
	require.Len(t, lines, 1)
	assert.Equal(t, true, lines[0]["prevented"])
	_, hasField := lines[0]["field"]
	assert.False(t, hasField)
}

func TestRecorderSeparatesBatches(t *testing.T) {
	rec, buf := newTestRecorder(time.Hour)

	rec.Observe(field.Record{Phase: transform.AfterInsert})
	rec.Flush()
	rec.Observe(field.Record{Phase: transform.ValueChanged})
	rec.Flush()
	rec.Flush()

	lines := buf.lines(t)
	require.Len(t, lines, 2)
	assert.NotEqual(t, lines[0]["batch"], lines[1]["batch"])
	assert.Equal(t, 2, rec.Batches())
}

func TestOpenWritesFileAndCloseFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	rec, err := Open(path, WithDelay(time.Hour))
	require.NoError(t, err)

	rec.Observe(field.Record{Phase: transform.ValueChanged, After: transform.Snapshot{Value: "1"}})
	require.NoError(t, rec.Close())

	rec.Observe(field.Record{Phase: transform.ValueChanged})
	assert.NoError(t, rec.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, bytes.Count(data, []byte("\n")))
	assert.Contains(t, string(data), `"component":"trace"`)
}
