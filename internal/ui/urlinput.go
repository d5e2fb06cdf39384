package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/git"
)

type gitURLDoneMsg struct {
	url string
}

type gitURLCancelMsg struct{}

// GitURLInput asks for the repository whose project should be compared.
type GitURLInput struct {
	textInput textinput.Model
	err       string
}

func NewGitURLInput(initial string) *GitURLInput {
	ti := textinput.New()
	ti.Placeholder = "https://github.com/owner/repo"
	ti.CharLimit = 200
	ti.Width = 60
	ti.SetValue(initial)

	return &GitURLInput{
		textInput: ti,
	}
}

func (g *GitURLInput) Focus() tea.Cmd {
	return g.textInput.Focus()
}

func (g *GitURLInput) Blur() {
	g.textInput.Blur()
}

func (g *GitURLInput) Focused() bool {
	return g.textInput.Focused()
}

func (g *GitURLInput) Value() string {
	return strings.TrimSpace(g.textInput.Value())
}

func (g *GitURLInput) Init() tea.Cmd {
	return textinput.Blink
}

func (g *GitURLInput) Update(msg tea.Msg) (*GitURLInput, tea.Cmd) {
	var cmd tea.Cmd

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			url := g.Value()
			if _, ok := git.ParseGitHubURL(url); !ok && !git.IsValidGitHubURL(url) {
				g.err = "Enter a GitHub repository URL"
				return g, nil
			}
			g.err = ""
			return g, func() tea.Msg { return gitURLDoneMsg{url: url} }
		case "esc":
			g.err = ""
			return g, func() tea.Msg { return gitURLCancelMsg{} }
		}
	}

	g.textInput, cmd = g.textInput.Update(msg)
	return g, cmd
}

func (g *GitURLInput) View() string {
	promptStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	out := promptStyle.Render("Git URL: ") + g.textInput.View()
	if g.err != "" {
		out += "\n" + errorStyle.Render(g.err)
	}
	return out
}
