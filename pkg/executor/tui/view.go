package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		m.buildHeader(),
		m.buildTips(),
		"",
		m.buildInputBox(),
	}

	if m.view.Loading {
		sections = append(sections, loadingStyle.Render(m.spinner.View()+" Looking it up..."))
	}
	if !m.view.Message.Hidden {
		sections = append(sections, messageStyle.Width(m.width-4).Render(m.view.Message.Text))
	}
	if !m.view.Answer.Hidden {
		sections = append(sections, m.renderAnswer(m.view.Answer.Text))
	}
	if m.status != "" {
		sections = append(sections, statusStyle.Render(m.status))
	}

	sections = append(sections, m.buildBottomBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *model) buildHeader() string {
	return headerStyle.Render("  parrot")
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  Type a word and press Enter. The explanation appears here; the videos play in the browser window.")
}

func (m *model) buildInputBox() string {
	return inputBoxStyle.Width(m.width - 4).Render(m.input.View())
}

func (m *model) buildBottomBar() string {
	return statusBarStyle.Width(m.width).Render("Enter to search • Ctrl+Y to copy the answer • Esc to quit")
}

// renderAnswer renders the explanation as Markdown, falling back to plain
// wrapped text when no renderer is available.
func (m *model) renderAnswer(text string) string {
	if m.renderer != nil {
		out, err := m.renderer.Render(text)
		if err == nil {
			return strings.TrimRight(out, "\n")
		}
		m.logger.Warnf("markdown render failed: %v", err)
	}
	return answerStyle.Width(m.width-4).Padding(0, 2).Render(text)
}
