// Package browser owns the Playwright-driven Chromium instance that hosts
// the video widget.
//
// A SessionManager installs and starts Playwright once, then hands out named
// sessions. Each Session is a browser with one isolated context and one page.
// Parrot uses a single session; the cookie store and the widget both work on
// it.
package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Session represents an active browser session with its associated resources.
type Session struct {
	// Name is the unique identifier for this session
	Name string

	// Browser is the Playwright browser instance
	Browser playwright.Browser

	// Context is the browser context (isolated cookie jar)
	Context playwright.BrowserContext

	// Page is the page hosting the widget
	Page playwright.Page

	// Headless indicates if the browser is running without a window
	Headless bool

	// CreatedAt is the timestamp when the session was created
	CreatedAt time.Time
}

// SessionOptions configures a new browser session.
type SessionOptions struct {
	// Headless controls whether the browser runs without a visible window.
	// Parrot defaults to a visible window so the videos can be watched.
	Headless bool

	// Viewport sets the initial viewport size
	Viewport *Viewport

	// Timeout sets the default timeout for operations (in milliseconds)
	Timeout float64
}

// Viewport represents the browser viewport dimensions.
type Viewport struct {
	Width  int
	Height int
}

// Default values for sessions
const (
	DefaultTimeout        = 30000.0 // 30 seconds in milliseconds
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
	DefaultMaxSessions    = 5
)
