package browser

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// SessionManager manages the Playwright driver and its browser sessions.
type SessionManager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	playwright  *playwright.Playwright
	maxSessions int
	initialized bool
}

// NewSessionManager creates a new session manager.
func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		maxSessions: DefaultMaxSessions,
	}
}

// Initialize installs the Chromium driver if needed and starts Playwright.
// It must be called before creating any sessions.
func (m *SessionManager) Initialize() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	// Discard driver output so it does not interfere with the TUI
	opts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	m.playwright = pw
	m.initialized = true
	return nil
}

// StartSession creates a new browser session with the given name and options.
func (m *SessionManager) StartSession(name string, opts SessionOptions) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[name]; exists {
		return nil, fmt.Errorf("session %q already exists", name)
	}

	if len(m.sessions) >= m.maxSessions {
		return nil, fmt.Errorf("maximum number of sessions (%d) reached", m.maxSessions)
	}

	if !m.initialized {
		return nil, fmt.Errorf("session manager not initialized")
	}

	opts = withDefaults(opts)

	browser, err := m.playwright.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		// Let the widget start playback without a user gesture
		Args: []string{"--autoplay-policy=no-user-gesture-required"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  opts.Viewport.Width,
			Height: opts.Viewport.Height,
		},
	})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := context.NewPage()
	if err != nil {
		context.Close()
		browser.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.SetDefaultTimeout(opts.Timeout)

	session := &Session{
		Name:      name,
		Browser:   browser,
		Context:   context,
		Page:      page,
		Headless:  opts.Headless,
		CreatedAt: time.Now(),
	}

	m.sessions[name] = session
	return session, nil
}

// GetSession retrieves an active session by name.
func (m *SessionManager) GetSession(name string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, exists := m.sessions[name]
	if !exists {
		return nil, fmt.Errorf("session %q not found", name)
	}
	return session, nil
}

// CloseSession closes and removes a browser session.
func (m *SessionManager) CloseSession(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[name]
	if !exists {
		return fmt.Errorf("session %q not found", name)
	}

	delete(m.sessions, name)
	return session.close()
}

// CloseAll closes every session, continuing past failures.
func (m *SessionManager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closeAllLocked()
}

// Shutdown closes all sessions and stops Playwright.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	errs := []error{m.closeAllLocked()}

	if m.initialized && m.playwright != nil {
		if err := m.playwright.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
		m.initialized = false
	}

	return errors.Join(errs...)
}

func (m *SessionManager) closeAllLocked() error {
	var errs []error
	for name, session := range m.sessions {
		if err := session.close(); err != nil {
			errs = append(errs, fmt.Errorf("session %q: %w", name, err))
		}
		delete(m.sessions, name)
	}
	return errors.Join(errs...)
}

// SessionCount returns the number of open sessions.
func (m *SessionManager) SessionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SetMaxSessions sets the maximum number of concurrent sessions.
func (m *SessionManager) SetMaxSessions(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxSessions = max
}

func withDefaults(opts SessionOptions) SessionOptions {
	if opts.Viewport == nil {
		opts.Viewport = &Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		}
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	return opts
}

// close releases the page, context and browser, continuing past failures.
func (s *Session) close() error {
	var errs []error
	if err := s.Page.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Context.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Browser.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
