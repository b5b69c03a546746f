package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/glamour"

	"github.com/entrhq/parrot/pkg/logging"
	"github.com/entrhq/parrot/pkg/popup"
)

// model represents the state of the TUI application.
type model struct {
	// Bubble Tea components
	input   textinput.Model
	spinner spinner.Model

	// Markdown renderer for the answer; nil until the width is known
	renderer *glamour.TermRenderer

	ctx       context.Context
	submitter Submitter
	logger    *logging.Logger

	// copy writes to the system clipboard
	copy func(text string) error

	// Last snapshot of the popup regions
	view popup.View

	// status is a short confirmation shown under the answer
	status string

	// submitting is true while a Submit call is in flight
	submitting bool

	// Window dimensions
	width  int
	height int
	ready  bool
}

// panelsMsg carries a new snapshot of the popup regions.
type panelsMsg struct {
	view popup.View
}

// submitDoneMsg signals that a Submit call returned.
type submitDoneMsg struct {
	word string
	err  error
}

func newModel(ctx context.Context, submitter Submitter, view popup.View, logger *logging.Logger) *model {
	ti := textinput.New()
	ti.Placeholder = "Type an English word"
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Focus()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = loadingStyle

	if logger == nil {
		logger = logging.Nop()
	}

	return &model{
		input:     ti,
		spinner:   s,
		ctx:       ctx,
		submitter: submitter,
		logger:    logger,
		copy:      clipboard.WriteAll,
		view:      view,
	}
}
