// Package playback implements the listen-and-replay policy that drives the
// video widget.
//
// A Controller consumes the three widget life-cycle notifications (search
// completed, track changed, caption consumed) and answers each one with the
// command the widget should execute next. It never talks to the widget
// itself; the Driver in this package does that, one event at a time.
//
// The policy is fixed: every caption is heard ReplayThreshold times, then the
// widget advances to the next track. After the last track nothing more is
// issued and playback simply ends.
package playback

import (
	"errors"
	"fmt"
)

// ReplayThreshold is how many times a caption must be consumed before the
// widget is allowed to move to the next track.
const ReplayThreshold = 3

// NoResultMessage is the user-facing text for a search without matches.
const NoResultMessage = "No Youglish result found"

// ErrNoResult is returned by OnSearchCompleted when the search found nothing.
var ErrNoResult = errors.New("no youglish result found")

// Command is the instruction a Controller hands back to the widget.
type Command int

const (
	// CommandNoOp issues nothing.
	CommandNoOp Command = iota
	// CommandReplay replays the current caption on the same track.
	CommandReplay
	// CommandAdvance moves the widget to the next track.
	CommandAdvance
)

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CommandNoOp:
		return "noop"
	case CommandReplay:
		return "replay"
	case CommandAdvance:
		return "advance"
	default:
		return fmt.Sprintf("command(%d)", int(c))
	}
}

// Phase is the coarse position of a Controller in its life cycle.
type Phase int

const (
	// PhaseIdle means no usable search result has been recorded.
	PhaseIdle Phase = iota
	// PhasePlaying means the search returned tracks and playback is running.
	PhasePlaying
	// PhaseFinished means the last track reached the replay threshold.
	PhaseFinished
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// SearchResult is the metadata reported once the widget finished searching.
type SearchResult struct {
	TotalTracks int
}

// Snapshot is a read-only copy of a Controller's state.
type Snapshot struct {
	Phase Phase

	// TrackIndex is only meaningful when TrackKnown is set.
	TrackIndex int
	TrackKnown bool

	ViewCount int

	// TotalTracks is only meaningful when TotalKnown is set. A known zero is
	// a finished search without matches, not a search still in flight.
	TotalTracks int
	TotalKnown  bool
}

// Controller holds the playback state for a single submitted word.
//
// A Controller is not safe for concurrent use. It is meant to be owned by
// exactly one goroutine, which the Driver provides.
type Controller struct {
	trackIndex int
	trackKnown bool
	viewCount  int

	totalTracks int
	totalKnown  bool

	finished bool
}

// NewController returns a Controller in the idle phase.
func NewController() *Controller {
	return &Controller{}
}

// OnSearchCompleted records the number of tracks the search returned.
//
// A zero result yields ErrNoResult and leaves the controller idle. The
// returned command is always CommandNoOp: playback starts on its own through
// the widget's autostart.
func (c *Controller) OnSearchCompleted(result SearchResult) (Command, error) {
	if result.TotalTracks < 0 {
		return CommandNoOp, fmt.Errorf("invalid search result: negative track count %d", result.TotalTracks)
	}

	c.totalTracks = result.TotalTracks
	c.totalKnown = true

	if result.TotalTracks == 0 {
		return CommandNoOp, ErrNoResult
	}
	return CommandNoOp, nil
}

// OnTrackChanged notes that the widget switched to trackIndex and resets the
// caption view count. The index is deliberately not checked against the
// number of tracks.
func (c *Controller) OnTrackChanged(trackIndex int) Command {
	c.trackIndex = trackIndex
	c.trackKnown = true
	c.viewCount = 0
	c.finished = false
	return CommandNoOp
}

// OnCaptionConsumed counts one more viewing of the current caption and
// decides what the widget does next.
func (c *Controller) OnCaptionConsumed() Command {
	c.viewCount++
	if c.viewCount < ReplayThreshold {
		return CommandReplay
	}

	if c.hasNextTrack() {
		return CommandAdvance
	}

	if c.totalKnown && c.totalTracks > 0 {
		c.finished = true
	}
	return CommandNoOp
}

// hasNextTrack reports whether advancing stays within the search result.
// Before the first track change the widget is on its first track.
func (c *Controller) hasNextTrack() bool {
	if !c.totalKnown {
		return false
	}
	return c.trackIndex < c.totalTracks-1
}

// State returns a copy of the current state.
func (c *Controller) State() Snapshot {
	return Snapshot{
		Phase:       c.phase(),
		TrackIndex:  c.trackIndex,
		TrackKnown:  c.trackKnown,
		ViewCount:   c.viewCount,
		TotalTracks: c.totalTracks,
		TotalKnown:  c.totalKnown,
	}
}

func (c *Controller) phase() Phase {
	switch {
	case !c.totalKnown || c.totalTracks == 0:
		return PhaseIdle
	case c.finished:
		return PhaseFinished
	default:
		return PhasePlaying
	}
}
