package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/autodeviq/autodev/internal/models"
)

// SuggestionList scrolls through the AI's per-selector notes of a VRT run.
type SuggestionList struct {
	changes []models.VrtChange
	cursor  int
	offset  int
	height  int
	width   int
}

func NewSuggestionList() *SuggestionList {
	return &SuggestionList{}
}

func (s *SuggestionList) SetChanges(changes []models.VrtChange) {
	s.changes = changes
	s.cursor = 0
	s.offset = 0
}

func (s *SuggestionList) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *SuggestionList) Update(msg tea.Msg) (*SuggestionList, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if s.cursor < len(s.changes)-1 {
			s.cursor++
			if s.height > 0 && s.cursor >= s.offset+s.visible() {
				s.offset++
			}
		}

	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
			if s.cursor < s.offset {
				s.offset--
			}
		}

	case "g":
		s.cursor = 0
		s.offset = 0

	case "G":
		s.cursor = max(0, len(s.changes)-1)
		s.offset = max(0, len(s.changes)-s.visible())
	}

	return s, nil
}

// visible is how many suggestions fit, each taking a few lines.
func (s *SuggestionList) visible() int {
	if s.height <= 0 {
		return len(s.changes)
	}
	return max(1, s.height/3)
}

func (s *SuggestionList) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	selectorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("yellow")).
		Bold(true)

	textStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	selectedStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("236"))

	grayStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	if len(s.changes) == 0 {
		return grayStyle.Render("No AI suggestions for this run.")
	}

	maxWidth := s.width - 6
	var out strings.Builder
	out.WriteString(titleStyle.Render(fmt.Sprintf("AI suggestions (%d)", len(s.changes))) + "\n\n")

	end := min(len(s.changes), s.offset+s.visible())
	for i := s.offset; i < end; i++ {
		c := s.changes[i]

		cursor := "  "
		if i == s.cursor {
			cursor = "▸ "
		}

		header := cursor + selectorStyle.Render(c.Selector)
		if i == s.cursor {
			header = selectedStyle.Render(header)
		}
		out.WriteString(header + "\n")

		for _, line := range c.SuggestionLines() {
			if maxWidth > 0 && runewidth.StringWidth(line) > maxWidth {
				line = runewidth.Truncate(line, maxWidth, "…")
			}
			out.WriteString("    " + textStyle.Render(line) + "\n")
		}
	}

	if hidden := len(s.changes) - end; hidden > 0 {
		out.WriteString(grayStyle.Render(fmt.Sprintf("  ... %d more", hidden)))
	}

	return strings.TrimRight(out.String(), "\n")
}
