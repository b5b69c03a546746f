package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/parrot/pkg/popup"
)

type recordingSubmitter struct {
	words []string
	err   error
}

func (s *recordingSubmitter) Submit(ctx context.Context, word string) error {
	s.words = append(s.words, word)
	return s.err
}

func hiddenView() popup.View {
	return popup.NewPanels().Snapshot()
}

func readyModel(t *testing.T, sub Submitter) *model {
	t.Helper()
	m := newModel(context.Background(), sub, hiddenView(), nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	require.True(t, m.ready)
	return m
}

func typeWord(m *model, word string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(word)})
}

func TestView_NotReady(t *testing.T) {
	m := newModel(context.Background(), &recordingSubmitter{}, hiddenView(), nil)
	assert.Equal(t, "Initializing...", m.View())
}

func TestEnter_SubmitsAndClearsInput(t *testing.T) {
	sub := &recordingSubmitter{}
	m := readyModel(t, sub)

	typeWord(m, "run")
	assert.Equal(t, "run", m.input.Value())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.input.Value())
	assert.True(t, m.submitting)

	msg := cmd()
	done, ok := msg.(submitDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "run", done.word)
	assert.NoError(t, done.err)
	assert.Equal(t, []string{"run"}, sub.words)

	m.Update(done)
	assert.False(t, m.submitting)
}

func TestEnter_IgnoredWhileSubmitting(t *testing.T) {
	sub := &recordingSubmitter{}
	m := readyModel(t, sub)

	_, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)

	_, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, second)
}

func TestEnter_EmptyWordIsStillSubmitted(t *testing.T) {
	sub := &recordingSubmitter{err: popup.ErrEmptyWord}
	m := readyModel(t, sub)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	done := cmd().(submitDoneMsg)
	assert.ErrorIs(t, done.err, popup.ErrEmptyWord)
	assert.Equal(t, []string{""}, sub.words)
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m := readyModel(t, &recordingSubmitter{})
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		require.NotNil(t, cmd)
		assert.Equal(t, tea.Quit(), cmd())
	}
}

func TestPanelsMsg_RendersRegions(t *testing.T) {
	m := readyModel(t, &recordingSubmitter{})
	m.renderer = nil // plain text keeps the assertions free of escape codes

	_, cmd := m.Update(panelsMsg{view: popup.View{
		Loading: true,
		Message: popup.Region{Hidden: true},
		Answer:  popup.Region{Hidden: true},
	}})
	assert.NotNil(t, cmd, "spinner should start ticking")
	assert.Contains(t, m.View(), "Looking it up...")

	m.Update(panelsMsg{view: popup.View{
		Message: popup.Region{Text: "No Youglish result found"},
		Answer:  popup.Region{Text: "달리다"},
	}})
	out := m.View()
	assert.NotContains(t, out, "Looking it up...")
	assert.Contains(t, out, "No Youglish result found")
	assert.Contains(t, out, "달리다")
}

func TestPanelsMsg_HiddenRegionsNotRendered(t *testing.T) {
	m := readyModel(t, &recordingSubmitter{})
	m.Update(panelsMsg{view: popup.View{
		Message: popup.Region{Text: "stale", Hidden: true},
		Answer:  popup.Region{Text: "old answer", Hidden: true},
	}})

	out := m.View()
	assert.NotContains(t, out, "stale")
	assert.NotContains(t, out, "old answer")
}

func TestSpinnerTick_StopsWhenNotLoading(t *testing.T) {
	m := readyModel(t, &recordingSubmitter{})

	_, cmd := m.Update(m.spinner.Tick())
	assert.Nil(t, cmd)
}

func TestCopyAnswer(t *testing.T) {
	m := readyModel(t, &recordingSubmitter{})
	var copied []string
	m.copy = func(text string) error {
		copied = append(copied, text)
		return nil
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Nothing to copy", m.status)
	assert.Empty(t, copied)

	m.Update(panelsMsg{view: popup.View{
		Message: popup.Region{Hidden: true},
		Answer:  popup.Region{Text: "달리다"},
	}})
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, []string{"달리다"}, copied)
	assert.Equal(t, "Answer copied to clipboard", m.status)

	m.copy = func(string) error { return errors.New("no clipboard utility") }
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, "Copy failed: no clipboard utility", m.status)
}

func TestRenderAnswer_Markdown(t *testing.T) {
	m := readyModel(t, &recordingSubmitter{})
	require.NotNil(t, m.renderer)

	out := m.renderAnswer("**run**: to move fast")
	assert.NotEmpty(t, out)
	assert.NotContains(t, out, "**")
}
