// Package popup wires a submitted word to the explanation request and the
// video widget, and reflects the outcome in three regions: a loading
// indicator, a message line and an answer.
package popup

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/entrhq/parrot/pkg/cookies"
	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/playback"
	"github.com/entrhq/parrot/pkg/widget"
)

// EmptyWordMessage is shown when the user submits nothing.
const EmptyWordMessage = "Enter a word"

// ErrEmptyWord is returned by Submit for blank input.
var ErrEmptyWord = errors.New("empty word")

// Explainer produces the explanation text for a word.
type Explainer interface {
	Explain(ctx context.Context, word string) (string, error)
}

// CookiePurger removes a site's cookies from the browser.
type CookiePurger interface {
	Purge(ctx context.Context, domain string) (cookies.Result, error)
}

// Orchestrator handles word submissions.
type Orchestrator struct {
	explainer    Explainer
	widget       widget.Widget
	presenter    Presenter
	language     string
	fetchTimeout time.Duration
	purger       CookiePurger
	purgeDomain  string
	logger       *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	current *playback.Driver
	drivers sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLanguage sets the language passed to the widget search.
func WithLanguage(language string) Option {
	return func(o *Orchestrator) {
		o.language = language
	}
}

// WithFetchTimeout bounds the widget search acknowledgment. Zero means no bound.
func WithFetchTimeout(timeout time.Duration) Option {
	return func(o *Orchestrator) {
		o.fetchTimeout = timeout
	}
}

// WithCookiePurge clears domain's cookies before every search. A failed purge
// is logged and the search goes ahead.
func WithCookiePurge(purger CookiePurger, domain string) Option {
	return func(o *Orchestrator) {
		o.purger = purger
		o.purgeDomain = domain
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// New creates an Orchestrator.
func New(explainer Explainer, w widget.Widget, presenter Presenter, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		explainer: explainer,
		widget:    w,
		presenter: presenter,
		language:  widget.DefaultLanguage,
		logger:    logging.Nop(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Submit handles one word. It clears the message and answer regions, then
// runs the explanation request and the widget search concurrently. Each
// failure is shown at its own call site and never undoes the other
// operation. Submit returns once both calls have settled; playback keeps
// running afterwards.
//
// Only blank input is reported as an error (ErrEmptyWord).
func (o *Orchestrator) Submit(ctx context.Context, word string) error {
	o.presenter.ClearMessage()
	o.presenter.ClearAnswer()

	word = strings.TrimSpace(word)
	if word == "" {
		o.presenter.ClearLoading()
		o.presenter.SetMessage(EmptyWordMessage)
		return ErrEmptyWord
	}

	o.presenter.SetLoading()

	id := uuid.NewString()
	o.logger.Infof("submission %s: %q", id, word)
	o.startPlayback(id)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o.explain(ctx, id, word)
	}()
	go func() {
		defer wg.Done()
		o.search(ctx, id, word)
	}()
	wg.Wait()

	return nil
}

// State returns the playback state of the current submission.
func (o *Orchestrator) State() (playback.Snapshot, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return playback.Snapshot{}, false
	}
	return o.current.State(), true
}

// Close stops the current playback driver.
func (o *Orchestrator) Close() {
	o.cancel()
	o.mu.Lock()
	if o.current != nil {
		o.current.Close()
		o.current = nil
	}
	o.mu.Unlock()
	o.drivers.Wait()
}

// startPlayback replaces the previous submission's controller with a fresh
// one and binds it to the widget before the search starts.
func (o *Orchestrator) startPlayback(id string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current != nil {
		o.current.Close()
	}

	driver := playback.NewDriver(
		playback.NewController(),
		o.widget,
		o.presenter.SetMessage,
		o.logger.With("playback"),
	)
	o.widget.Bind(driver.Handlers())
	o.current = driver

	o.drivers.Add(1)
	go func() {
		defer o.drivers.Done()
		driver.Run(o.ctx)
		o.logger.Debugf("submission %s: playback driver stopped", id)
	}()
}

func (o *Orchestrator) explain(ctx context.Context, id, word string) {
	answer, err := o.explainer.Explain(ctx, word)
	if err != nil {
		o.logger.Errorf("submission %s: explanation failed: %v", id, err)
		o.presenter.SetMessage(err.Error())
		o.presenter.ClearAnswer()
		o.presenter.ClearLoading()
		return
	}

	o.presenter.ClearLoading()
	o.presenter.SetAnswer(answer)
}

func (o *Orchestrator) search(ctx context.Context, id, word string) {
	if o.purger != nil {
		if _, err := o.purger.Purge(ctx, o.purgeDomain); err != nil {
			o.logger.Warnf("submission %s: cookie purge for %s: %v", id, o.purgeDomain, err)
		}
	}

	if o.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.fetchTimeout)
		defer cancel()
	}

	if err := o.widget.Fetch(ctx, word, o.language); err != nil {
		o.logger.Errorf("submission %s: search failed: %v", id, err)
		o.presenter.SetMessage(err.Error())
		o.presenter.ClearLoading()
		return
	}
	o.logger.Debugf("submission %s: search accepted", id)
}
