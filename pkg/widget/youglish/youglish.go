// Package youglish drives the YouGlish embeddable widget inside a Playwright
// page.
//
// The widget runs in a host page rendered from an embedded HTML document.
// Its three events are routed back into Go through exposed page functions
// and delivered to whichever widget.Handlers were bound last. Commands are
// evaluated as JavaScript against the live widget object.
package youglish

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"

	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/widget"
)

//go:embed host.html
var hostPage string

// Names of the page functions the widget events call.
const (
	bindingFetchDone       = "parrotFetchDone"
	bindingVideoChange     = "parrotVideoChange"
	bindingCaptionConsumed = "parrotCaptionConsumed"
)

const (
	readyExpression = `() => window.parrotReady === true`

	// Each event carries a sequence number and is sent only after the
	// previous binding call has returned.
	createScript = `(opts) => {
  let seq = 0;
  let queue = Promise.resolve();
  const send = (fn, ...args) => {
    const n = ++seq;
    queue = queue.then(() => fn(n, ...args)).catch(() => {});
  };
  window.parrotWidget = new YG.Widget("youglish-widget", {
    width: opts.width,
    autoStart: opts.autoStart,
    components: opts.components,
    events: {
      onFetchDone: (e) => send(window.parrotFetchDone, e.totalResult),
      onVideoChange: (e) => send(window.parrotVideoChange, e.trackNumber),
      onCaptionConsumed: () => send(window.parrotCaptionConsumed),
    },
  });
}`

	fetchScript  = `async (q) => { await window.parrotWidget.fetch(q.word, q.language); }`
	replayScript = `() => window.parrotWidget.replay()`
	nextScript   = `() => window.parrotWidget.next()`
)

// ErrNotStarted is returned by commands issued before Start succeeded.
var ErrNotStarted = errors.New("youglish widget not started")

// Page is the subset of playwright.Page the widget needs.
type Page interface {
	ExposeFunction(name string, binding playwright.ExposedFunction) error
	SetContent(html string, options ...playwright.PageSetContentOptions) error
	WaitForFunction(expression string, arg interface{}, options ...playwright.PageWaitForFunctionOptions) (playwright.JSHandle, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// Widget is a widget.Widget backed by a Playwright page.
type Widget struct {
	page    Page
	options widget.Options
	logger  *logging.Logger

	startMu sync.Mutex

	mu       sync.RWMutex
	handlers widget.Handlers
	started  bool

	events *sequencer
}

var _ widget.Widget = (*Widget)(nil)

// New creates a widget on page. Call Start before issuing commands.
func New(page Page, options widget.Options, logger *logging.Logger) *Widget {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Widget{
		page:    page,
		options: options,
		logger:  logger,
		events:  newSequencer(),
	}
}

// Start exposes the event bindings, loads the host page, waits for the
// YouGlish API and constructs the widget.
func (w *Widget) Start(ctx context.Context) error {
	w.startMu.Lock()
	defer w.startMu.Unlock()

	if w.ready() == nil {
		return nil
	}

	bindings := map[string]playwright.ExposedFunction{
		bindingFetchDone:       w.onFetchDone,
		bindingVideoChange:     w.onVideoChange,
		bindingCaptionConsumed: w.onCaptionConsumed,
	}
	for _, name := range []string{bindingFetchDone, bindingVideoChange, bindingCaptionConsumed} {
		if err := w.page.ExposeFunction(name, bindings[name]); err != nil {
			return fmt.Errorf("failed to expose %s: %w", name, err)
		}
	}

	if err := run(ctx, func() error { return w.page.SetContent(hostPage) }); err != nil {
		return fmt.Errorf("failed to load widget host page: %w", err)
	}

	if err := run(ctx, func() error {
		_, err := w.page.WaitForFunction(readyExpression, nil)
		return err
	}); err != nil {
		return fmt.Errorf("youglish API did not become ready: %w", err)
	}

	if err := run(ctx, func() error {
		_, err := w.page.Evaluate(createScript, createArgs(w.options))
		return err
	}); err != nil {
		return fmt.Errorf("failed to create youglish widget: %w", err)
	}

	w.mu.Lock()
	w.started = true
	w.mu.Unlock()
	w.logger.Infof("youglish widget ready (width=%d components=%d)", w.options.Width, w.options.Components)
	return nil
}

// Bind implements widget.Widget.
func (w *Widget) Bind(h widget.Handlers) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = h
}

// Fetch implements widget.Widget.
func (w *Widget) Fetch(ctx context.Context, word, language string) error {
	if err := w.ready(); err != nil {
		return err
	}
	w.logger.Debugf("fetch %q (%s)", word, language)
	return run(ctx, func() error {
		_, err := w.page.Evaluate(fetchScript, map[string]interface{}{
			"word":     word,
			"language": language,
		})
		return err
	})
}

// Replay implements widget.Widget.
func (w *Widget) Replay(ctx context.Context) error {
	return w.command(ctx, replayScript)
}

// Next implements widget.Widget.
func (w *Widget) Next(ctx context.Context) error {
	return w.command(ctx, nextScript)
}

func (w *Widget) command(ctx context.Context, script string) error {
	if err := w.ready(); err != nil {
		return err
	}
	return run(ctx, func() error {
		_, err := w.page.Evaluate(script)
		return err
	})
}

func (w *Widget) ready() error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if !w.started {
		return ErrNotStarted
	}
	return nil
}

func (w *Widget) current() widget.Handlers {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.handlers
}

// Playwright runs every binding call on its own goroutine. The bindings
// hand their event to the sequencer, which delivers events in the order the
// host page numbered them. Handlers must return promptly and must not issue
// commands synchronously.

func (w *Widget) onFetchDone(args ...interface{}) interface{} {
	seq, rest, ok := seqArg(args)
	if !ok {
		w.logger.Warnf("onFetchDone: missing sequence number in %v", args)
		return nil
	}
	w.events.deliver(seq, func() {
		total, ok := intArg(rest)
		if !ok {
			w.logger.Warnf("onFetchDone: unexpected arguments %v", rest)
			return
		}
		if h := w.current().OnFetchDone; h != nil {
			h(total)
		}
	})
	return nil
}

func (w *Widget) onVideoChange(args ...interface{}) interface{} {
	seq, rest, ok := seqArg(args)
	if !ok {
		w.logger.Warnf("onVideoChange: missing sequence number in %v", args)
		return nil
	}
	w.events.deliver(seq, func() {
		track, ok := intArg(rest)
		if !ok {
			w.logger.Warnf("onVideoChange: unexpected arguments %v", rest)
			return
		}
		if h := w.current().OnVideoChange; h != nil {
			h(track)
		}
	})
	return nil
}

func (w *Widget) onCaptionConsumed(args ...interface{}) interface{} {
	seq, _, ok := seqArg(args)
	if !ok {
		w.logger.Warnf("onCaptionConsumed: missing sequence number in %v", args)
		return nil
	}
	w.events.deliver(seq, func() {
		if h := w.current().OnCaptionConsumed; h != nil {
			h()
		}
	})
	return nil
}

// sequencer releases numbered events strictly in order, holding back any
// that arrive before their predecessors. Numbering starts at 1.
type sequencer struct {
	mu      sync.Mutex
	next    int
	pending map[int]func()
}

func newSequencer() *sequencer {
	return &sequencer{next: 1, pending: make(map[int]func())}
}

func (s *sequencer) deliver(seq int, event func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.next {
		return
	}
	s.pending[seq] = event

	for {
		ev, ok := s.pending[s.next]
		if !ok {
			return
		}
		delete(s.pending, s.next)
		s.next++
		ev()
	}
}

func createArgs(o widget.Options) map[string]interface{} {
	autoStart := 0
	if o.AutoStart {
		autoStart = 1
	}
	return map[string]interface{}{
		"width":      o.Width,
		"autoStart":  autoStart,
		"components": o.Components,
	}
}

// seqArg splits off the sequence number the host page puts first.
func seqArg(args []interface{}) (int, []interface{}, bool) {
	seq, ok := intArg(args)
	if !ok || seq < 1 {
		return 0, nil, false
	}
	return seq, args[1:], true
}

// intArg reads the first binding argument as an integer. Playwright decodes
// JavaScript numbers as int when they are integral and float64 otherwise.
func intArg(args []interface{}) (int, bool) {
	if len(args) == 0 {
		return 0, false
	}
	switch v := args[0].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// run executes a blocking Playwright call, returning early when ctx is done.
// Playwright calls take no context; an abandoned call finishes in the
// background.
func run(ctx context.Context, call func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() {
		done <- call()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
