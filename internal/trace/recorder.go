// Package trace records the notifications a field host delivers and writes
// them, grouped per edit, to a structured debug log.
package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kk-code-lab/infilter/internal/field"
)

// DefaultDelay is how long the recorder waits after the last notification
// before writing a batch. One edit fires its notifications back to back, so
// a short quiet period separates edits.
const DefaultDelay = 10 * time.Millisecond

type entry struct {
	field  string
	record field.Record
}

// Recorder batches host notifications and writes each batch through slog.
// It only reads the snapshots it is given and never touches a field.
type Recorder struct {
	logger *slog.Logger
	delay  time.Duration
	closer io.Closer
	newID  func() string

	mu      sync.Mutex
	pending []entry
	timer   *time.Timer
	closed  bool
	batches int
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithDelay overrides the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(r *Recorder) { r.delay = d }
}

// New creates a recorder writing to logger.
func New(logger *slog.Logger, opts ...Option) *Recorder {
	r := &Recorder{
		logger: logger,
		delay:  DefaultDelay,
		newID:  func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a recorder appending JSON lines to path.
func Open(path string, opts ...Option) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	r := New(slog.New(handler).With(slog.String("component", "trace")), opts...)
	r.closer = f
	return r, nil
}

// Observer returns an observer that tags records with the field name.
func (r *Recorder) Observer(name string) field.Observer {
	return fieldObserver{r: r, name: name}
}

type fieldObserver struct {
	r    *Recorder
	name string
}

func (o fieldObserver) Observe(rec field.Record) {
	o.r.add(o.name, rec)
}

// Observe records rec for an unnamed field.
func (r *Recorder) Observe(rec field.Record) {
	r.add("", rec)
}

func (r *Recorder) add(name string, rec field.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	r.pending = append(r.pending, entry{field: name, record: rec})
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.Flush)
}

// Flush writes any pending records as one batch.
func (r *Recorder) Flush() {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	if len(batch) > 0 {
		r.batches++
	}
	r.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	id := r.newID()
	ctx := context.Background()
	for i, e := range batch {
		r.logger.LogAttrs(ctx, slog.LevelDebug, "field event", recordAttrs(id, i, e)...)
	}
}

func recordAttrs(batch string, seq int, e entry) []slog.Attr {
	rec := e.record
	attrs := []slog.Attr{
		slog.String("batch", batch),
		slog.Int("seq", seq),
		slog.String("phase", rec.Phase.String()),
	}
	if e.field != "" {
		attrs = append(attrs, slog.String("field", e.field))
	}
	if rec.Tag != "" {
		attrs = append(attrs, slog.String("tag", rec.Tag))
	}
	if rec.Data != "" {
		attrs = append(attrs, slog.String("data", rec.Data))
	}
	attrs = append(attrs,
		slog.Group("before",
			slog.String("value", rec.Before.Value),
			slog.Int("start", rec.Before.Selection.Start),
			slog.Int("end", rec.Before.Selection.End),
		),
		slog.Group("after",
			slog.String("value", rec.After.Value),
			slog.Int("start", rec.After.Selection.Start),
			slog.Int("end", rec.After.Selection.End),
		),
	)
	if rec.Prevented {
		attrs = append(attrs, slog.Bool("prevented", true))
	}
	if rec.Err != nil {
		attrs = append(attrs, slog.String("error", rec.Err.Error()))
	}
	return attrs
}

// Batches returns how many batches have been flushed.
func (r *Recorder) Batches() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

// Close flushes pending records and closes the log file, if any.
func (r *Recorder) Close() error {
	r.Flush()

	r.mu.Lock()
	r.closed = true
	closer := r.closer
	r.closer = nil
	r.mu.Unlock()

	if closer != nil {
		return closer.Close()
	}
	return nil
}
