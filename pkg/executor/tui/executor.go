// Package tui provides the interactive terminal surface for parrot.
//
// The screen mirrors the popup: a word input, a loading indicator, a message
// line and the explanation rendered as Markdown. The code is split into
// several files:
// - executor.go: program lifecycle and panel forwarding
// - model.go: model state and messages
// - update.go: Bubble Tea Update and key handling
// - view.go: rendering
// - styles.go: colors and styles
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/popup"
)

// Submitter handles one submitted word.
type Submitter interface {
	Submit(ctx context.Context, word string) error
}

// Executor runs the TUI until the user quits.
type Executor struct {
	submitter Submitter
	panels    *popup.Panels
	logger    *logging.Logger
	program   *tea.Program
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLogger sets the logger.
func WithLogger(logger *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates a TUI executor. Changes to panels are shown as they
// happen.
func NewExecutor(submitter Submitter, panels *popup.Panels, opts ...ExecutorOption) *Executor {
	e := &Executor{
		submitter: submitter,
		panels:    panels,
		logger:    logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts the TUI and blocks until the user exits or ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(ctx, e.submitter, e.panels.Snapshot(), e.logger)

	e.program = tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	// Panels change from submission goroutines; Send hands the snapshot to
	// the program loop.
	e.panels.OnChange(func(v popup.View) {
		e.program.Send(panelsMsg{view: v})
	})
	defer e.panels.OnChange(nil)

	e.logger.Infof("TUI starting")
	if _, err := e.program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	e.logger.Infof("TUI exited")

	return nil
}
