// Package widget defines the contract parrot expects from the embedded
// video-search widget.
//
// The widget is an event source and a command sink: it reports search
// completion, track changes and consumed captions, and it executes replay
// and next-track commands. Implementations live in sub-packages.
package widget

import "context"

// Defaults used when constructing the YouGlish widget.
const (
	DefaultWidth      = 480
	DefaultComponents = 94 // 64 + 16 + 8 + 4 + 2
	DefaultLanguage   = "english"
)

// Options configures widget construction.
type Options struct {
	// Width of the widget in pixels
	Width int

	// AutoStart starts playback as soon as a search returns results
	AutoStart bool

	// Components is the bitmask selecting which widget chrome is visible
	Components int
}

// DefaultOptions returns the options the popup always used.
func DefaultOptions() Options {
	return Options{
		Width:      DefaultWidth,
		AutoStart:  true,
		Components: DefaultComponents,
	}
}

// Handlers receives widget life-cycle events. Nil callbacks are skipped.
type Handlers struct {
	OnFetchDone       func(totalResult int)
	OnVideoChange     func(trackNumber int)
	OnCaptionConsumed func()
}

// Widget is the video-search widget.
type Widget interface {
	// Bind registers the handlers that receive subsequent events. A new
	// binding replaces the previous one.
	Bind(h Handlers)

	// Fetch starts a search for word. It resolves once the widget has
	// accepted the query; results arrive through OnFetchDone.
	Fetch(ctx context.Context, word, language string) error

	// Replay replays the current caption.
	Replay(ctx context.Context) error

	// Next moves to the next track.
	Next(ctx context.Context) error
}
