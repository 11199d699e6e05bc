package transform

import (
	"errors"
	"fmt"
)

var (
	ErrNilFilter = errors.New("transform: filter is nil")
	ErrNilTarget = errors.New("transform: target field is nil")

	// ErrUnboundTarget and ErrNilEvent are raised by panic: they mean the
	// caller wired a handler to the wrong field or channel.
	ErrUnboundTarget = errors.New("transform: event target is not the bound field")
	ErrNilEvent      = errors.New("transform: nil event")
)

func (e *Engine) mustOwn(f TextField) {
	if f == nil || f != e.target {
		panic(fmt.Errorf("%w: got %T", ErrUnboundTarget, f))
	}
}

func mustEvent(ev *Event) {
	if ev == nil {
		panic(ErrNilEvent)
	}
}
