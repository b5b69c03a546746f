package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

// Init starts the cursor blink and, if the popup is already loading, the
// spinner.
func (m *model) Init() tea.Cmd {
	if m.view.Loading {
		return tea.Batch(textinput.Blink, m.spinner.Tick)
	}
	return textinput.Blink
}

// Update handles all state updates for the TUI model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowResize(msg)

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyCtrlY:
			m.copyAnswer()
			return m, nil
		}

	case panelsMsg:
		wasLoading := m.view.Loading
		m.view = msg.view
		if m.view.Loading && !wasLoading {
			return m, m.spinner.Tick
		}
		return m, nil

	case submitDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.logger.Debugf("submit %q: %v", msg.word, msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.view.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.ready = true
	m.input.Width = max(msg.Width-10, 10)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(msg.Width-6, 20)),
	)
	if err != nil {
		m.logger.Warnf("markdown renderer unavailable: %v", err)
		renderer = nil
	}
	m.renderer = renderer

	return m, nil
}

// submit hands the input to the submitter in a command so the UI keeps
// redrawing while the explanation and search run. Input is ignored while a
// submission is in flight.
func (m *model) submit() tea.Cmd {
	if m.submitting {
		return nil
	}

	word := m.input.Value()
	m.input.Reset()
	m.status = ""
	m.submitting = true

	ctx, submitter := m.ctx, m.submitter
	return func() tea.Msg {
		return submitDoneMsg{word: word, err: submitter.Submit(ctx, word)}
	}
}

func (m *model) copyAnswer() {
	if m.view.Answer.Hidden || m.view.Answer.Text == "" {
		m.status = "Nothing to copy"
		return
	}
	if err := m.copy(m.view.Answer.Text); err != nil {
		m.logger.Warnf("clipboard: %v", err)
		m.status = "Copy failed: " + err.Error()
		return
	}
	m.status = "Answer copied to clipboard"
}
