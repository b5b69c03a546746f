// Package widgettest provides an in-memory widget for tests.
package widgettest

import (
	"context"
	"sync"

	"github.com/entrhq/parrot/pkg/widget"
)

// Call is one command the fake widget received.
type Call struct {
	Method   string // "fetch", "replay" or "next"
	Word     string
	Language string
}

// Widget records commands and lets tests emit widget events.
type Widget struct {
	mu       sync.Mutex
	handlers widget.Handlers
	calls    []Call

	// FetchErr is returned from Fetch when set.
	FetchErr error

	// OnFetch runs after a successful Fetch is recorded, outside the lock.
	OnFetch func(word string)

	commands chan Call
}

// New returns an empty fake widget.
func New() *Widget {
	return &Widget{commands: make(chan Call, 64)}
}

var _ widget.Widget = (*Widget)(nil)

// Bind implements widget.Widget.
func (w *Widget) Bind(h widget.Handlers) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = h
}

// Fetch implements widget.Widget.
func (w *Widget) Fetch(ctx context.Context, word, language string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	w.mu.Lock()
	err := w.FetchErr
	onFetch := w.OnFetch
	w.mu.Unlock()

	w.record(Call{Method: "fetch", Word: word, Language: language})
	if err != nil {
		return err
	}
	if onFetch != nil {
		onFetch(word)
	}
	return nil
}

// Replay implements widget.Widget.
func (w *Widget) Replay(ctx context.Context) error {
	w.record(Call{Method: "replay"})
	return nil
}

// Next implements widget.Widget.
func (w *Widget) Next(ctx context.Context) error {
	w.record(Call{Method: "next"})
	return nil
}

func (w *Widget) record(c Call) {
	w.mu.Lock()
	w.calls = append(w.calls, c)
	w.mu.Unlock()

	select {
	case w.commands <- c:
	default:
	}
}

// Commands delivers replay, next and fetch calls as they happen.
func (w *Widget) Commands() <-chan Call {
	return w.commands
}

// Calls returns a copy of every recorded call.
func (w *Widget) Calls() []Call {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Call, len(w.calls))
	copy(out, w.calls)
	return out
}

// EmitFetchDone delivers an onFetchDone event.
func (w *Widget) EmitFetchDone(total int) {
	if h := w.current().OnFetchDone; h != nil {
		h(total)
	}
}

// EmitVideoChange delivers an onVideoChange event.
func (w *Widget) EmitVideoChange(track int) {
	if h := w.current().OnVideoChange; h != nil {
		h(track)
	}
}

// EmitCaptionConsumed delivers an onCaptionConsumed event.
func (w *Widget) EmitCaptionConsumed() {
	if h := w.current().OnCaptionConsumed; h != nil {
		h()
	}
}

func (w *Widget) current() widget.Handlers {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handlers
}
