package playback

import (
	"context"
	"errors"
	"sync"

	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/widget"
)

// Player executes the commands a Controller decides on.
type Player interface {
	Replay(ctx context.Context) error
	Next(ctx context.Context) error
}

// Reporter shows a user-visible status or error message.
type Reporter func(message string)

// Event is a widget notification queued for the Controller.
type Event interface {
	isEvent()
}

// SearchCompleted is queued when the widget finished its search.
type SearchCompleted struct {
	TotalTracks int
}

// TrackChanged is queued when the widget switched videos.
type TrackChanged struct {
	TrackIndex int
}

// CaptionConsumed is queued when the current caption finished playing.
type CaptionConsumed struct{}

func (SearchCompleted) isEvent() {}
func (TrackChanged) isEvent()    {}
func (CaptionConsumed) isEvent() {}

// Driver feeds widget events to a Controller one at a time, in the order the
// widget emitted them, and carries the resulting commands back to the widget.
//
// Events are queued without bound so the widget's callbacks never block,
// even while a command is being executed against the same widget.
type Driver struct {
	ctrl     *Controller
	player   Player
	reporter Reporter
	logger   *logging.Logger

	mu      sync.Mutex
	pending []Event
	closed  bool

	wake chan struct{}
	done chan struct{}

	closeOnce sync.Once
}

// NewDriver creates a Driver around ctrl. reporter may be nil.
func NewDriver(ctrl *Controller, player Player, reporter Reporter, logger *logging.Logger) *Driver {
	if logger == nil {
		logger = logging.Nop()
	}
	if reporter == nil {
		reporter = func(string) {}
	}
	return &Driver{
		ctrl:     ctrl,
		player:   player,
		reporter: reporter,
		logger:   logger,
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Handlers returns widget callbacks that queue events for this Driver.
func (d *Driver) Handlers() widget.Handlers {
	return widget.Handlers{
		OnFetchDone: func(totalResult int) {
			d.Enqueue(SearchCompleted{TotalTracks: totalResult})
		},
		OnVideoChange: func(trackNumber int) {
			d.Enqueue(TrackChanged{TrackIndex: trackNumber})
		},
		OnCaptionConsumed: func() {
			d.Enqueue(CaptionConsumed{})
		},
	}
}

// Enqueue queues ev. Events queued after Close are dropped.
func (d *Driver) Enqueue(ev Event) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.pending = append(d.pending, ev)
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run processes events until ctx is done or Close is called.
func (d *Driver) Run(ctx context.Context) {
	for {
		ev, ok := d.next()
		if ok {
			d.handle(ctx, ev)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case <-d.wake:
		}
	}
}

// Close stops Run and drops queued events. Safe to call multiple times.
func (d *Driver) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		d.pending = nil
		d.mu.Unlock()
		close(d.done)
	})
}

// State returns the Controller state. Callers outside the Run goroutine may
// observe a state that is already stale.
func (d *Driver) State() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ctrl.State()
}

func (d *Driver) next() (Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed || len(d.pending) == 0 {
		return nil, false
	}
	ev := d.pending[0]
	d.pending[0] = nil
	d.pending = d.pending[1:]
	return ev, true
}

func (d *Driver) handle(ctx context.Context, ev Event) {
	cmd, err := d.apply(ev)
	if err != nil {
		if errors.Is(err, ErrNoResult) {
			d.logger.Infof("search returned no tracks")
			d.reporter(NoResultMessage)
		} else {
			d.logger.Warnf("event %T rejected: %v", ev, err)
			d.reporter(err.Error())
		}
	}

	d.logger.Debugf("event %T -> %s", ev, cmd)
	if err := d.execute(ctx, cmd); err != nil {
		d.logger.Errorf("%s failed: %v", cmd, err)
		d.reporter(err.Error())
	}
}

func (d *Driver) apply(ev Event) (Command, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	switch e := ev.(type) {
	case SearchCompleted:
		return d.ctrl.OnSearchCompleted(SearchResult{TotalTracks: e.TotalTracks})
	case TrackChanged:
		return d.ctrl.OnTrackChanged(e.TrackIndex), nil
	case CaptionConsumed:
		return d.ctrl.OnCaptionConsumed(), nil
	default:
		return CommandNoOp, nil
	}
}

func (d *Driver) execute(ctx context.Context, cmd Command) error {
	switch cmd {
	case CommandReplay:
		return d.player.Replay(ctx)
	case CommandAdvance:
		return d.player.Next(ctx)
	default:
		return nil
	}
}
