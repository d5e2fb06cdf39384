package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Picker is a cursor over a list of names: branches or changed files.
type Picker struct {
	title   string
	empty   string
	items   []string
	current string // drawn with a marker, e.g. the checked out branch
	cursor  int
	height  int
}

func NewPicker(title, empty string) *Picker {
	return &Picker{title: title, empty: empty}
}

// SetItems replaces the list, keeping the cursor on the same name when it is
// still present.
func (p *Picker) SetItems(items []string) {
	selected := p.Selected()
	p.items = items
	p.cursor = 0
	p.Select(selected)
}

// Select moves the cursor to name if it is listed.
func (p *Picker) Select(name string) bool {
	for i, item := range p.items {
		if item == name {
			p.cursor = i
			return true
		}
	}
	return false
}

// Selected returns the name under the cursor, or "" for an empty list.
func (p *Picker) Selected() string {
	if p.cursor >= 0 && p.cursor < len(p.items) {
		return p.items[p.cursor]
	}
	return ""
}

func (p *Picker) Len() int {
	return len(p.items)
}

func (p *Picker) SetCurrent(name string) {
	p.current = name
}

func (p *Picker) SetHeight(h int) {
	p.height = h
}

func (p *Picker) Update(msg tea.Msg) (*Picker, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}

	case "k", "up":
		if p.cursor > 0 {
			p.cursor--
		}

	case "g", "home":
		p.cursor = 0

	case "G", "end":
		if len(p.items) > 0 {
			p.cursor = len(p.items) - 1
		}
	}

	return p, nil
}

func (p *Picker) View() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true).
		MarginBottom(1)

	itemStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	currentStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("green")).
		Bold(true)

	selectedStyle := lipgloss.NewStyle().
		Background(lipgloss.Color("238"))

	grayStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var out strings.Builder
	out.WriteString(headerStyle.Render(fmt.Sprintf("%s (%d)", p.title, len(p.items))) + "\n")

	if len(p.items) == 0 {
		out.WriteString(grayStyle.Render("  " + p.empty))
		return out.String()
	}

	start, end := p.window()
	for i := start; i < end; i++ {
		name := p.items[i]

		var line string
		if name == p.current {
			line = "* " + currentStyle.Render(name)
		} else {
			line = "  " + itemStyle.Render(name)
		}

		if i == p.cursor {
			line = selectedStyle.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		out.WriteString(line + "\n")
	}

	if hidden := len(p.items) - (end - start); hidden > 0 {
		out.WriteString(grayStyle.Render(fmt.Sprintf("  ... %d more", hidden)))
	}

	return strings.TrimRight(out.String(), "\n")
}

// window returns the visible slice bounds, keeping the cursor in view.
func (p *Picker) window() (int, int) {
	maxVisible := p.height
	if maxVisible <= 0 || maxVisible >= len(p.items) {
		return 0, len(p.items)
	}
	start := 0
	if p.cursor >= maxVisible {
		start = p.cursor - maxVisible + 1
	}
	return start, start + maxVisible
}
