package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/markdown"
	"github.com/autodeviq/autodev/internal/wizard"
)

// ReviewPanel shows generated test cases one at a time, with a selected code
// block that can be copied or edited.
type ReviewPanel struct {
	test     int
	block    int
	offset   int
	width    int
	height   int
	renderer *markdown.TerminalRenderer
	cache    map[string]string
}

func NewReviewPanel(dark bool) *ReviewPanel {
	return &ReviewPanel{
		renderer: markdown.NewTerminalRenderer(80, dark),
		cache:    map[string]string{},
	}
}

func (r *ReviewPanel) SetSize(width, height int) {
	if width != r.width {
		r.cache = map[string]string{}
	}
	r.width = width
	r.height = height
	r.renderer.Width = width
}

// Reset goes back to the first test and block.
func (r *ReviewPanel) Reset() {
	r.test = 0
	r.block = 0
	r.offset = 0
}

// Test returns the index of the test case on screen.
func (r *ReviewPanel) Test() int {
	return r.test
}

// SwitchTest moves to the test delta positions away, wrapping around.
func (r *ReviewPanel) SwitchTest(w wizard.Wizard, delta int) {
	n := len(w.Tests)
	if n == 0 {
		return
	}
	r.test = ((r.test+delta)%n + n) % n
	r.block = 0
	r.offset = 0
}

// SwitchBlock moves the selection delta code blocks, wrapping around.
func (r *ReviewPanel) SwitchBlock(w wizard.Wizard, delta int) {
	n := len(r.codeBlocks(w))
	if n == 0 {
		return
	}
	r.block = ((r.block+delta)%n + n) % n
}

func (r *ReviewPanel) Scroll(delta int) {
	r.offset = max(0, r.offset+delta)
}

func (r *ReviewPanel) codeBlocks(w wizard.Wizard) []markdown.Block {
	var code []markdown.Block
	for _, b := range markdown.Blocks(w.TestText(r.test), w.Editing, nil) {
		if b.Kind == markdown.Code {
			code = append(code, b)
		}
	}
	return code
}

// SelectedBlock returns the selected code block of the test on screen.
func (r *ReviewPanel) SelectedBlock(w wizard.Wizard) (markdown.Block, bool) {
	code := r.codeBlocks(w)
	if len(code) == 0 {
		return markdown.Block{}, false
	}
	if r.block >= len(code) {
		r.block = len(code) - 1
	}
	return code[r.block], true
}

func (r *ReviewPanel) View(w wizard.Wizard, editor *BlockEditor) string {
	if len(w.Tests) == 0 {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("No tests were generated for this file.")
	}
	if r.test >= len(w.Tests) {
		r.test = 0
	}

	selectedStyle := lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("cyan"))

	var parts []string
	selected, hasSelected := r.SelectedBlock(w)
	for _, b := range markdown.Blocks(w.TestText(r.test), w.Editing, nil) {
		if hasSelected && b.Kind == markdown.Code && b.Key == selected.Key {
			if editor != nil {
				parts = append(parts, editor.View())
				continue
			}
			parts = append(parts, selectedStyle.Render(r.renderBlock(b)))
			continue
		}
		parts = append(parts, r.renderBlock(b))
	}

	body := strings.Join(parts, "\n\n")
	return r.renderTabs(w) + "\n\n" + r.clip(body)
}

func (r *ReviewPanel) renderBlock(b markdown.Block) string {
	if b.Kind == markdown.Code {
		return r.renderer.Block(b)
	}
	if out, ok := r.cache[b.Text]; ok {
		return out
	}
	out := r.renderer.Block(b)
	r.cache[b.Text] = out
	return out
}

func (r *ReviewPanel) renderTabs(w wizard.Wizard) string {
	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true).
		Background(lipgloss.Color("236"))

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	tabs := make([]string, len(w.Tests))
	for i, tc := range w.Tests {
		label := fmt.Sprintf(" %d %s ", i+1, tc.File)
		if i == r.test {
			tabs[i] = activeStyle.Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return strings.Join(tabs, " ")
}

// clip keeps the visible window of body.
func (r *ReviewPanel) clip(body string) string {
	if r.height <= 0 {
		return body
	}
	lines := strings.Split(body, "\n")
	if r.offset > len(lines)-1 {
		r.offset = max(0, len(lines)-1)
	}
	end := min(len(lines), r.offset+r.height)
	visible := lines[r.offset:end]

	if end < len(lines) {
		more := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
		visible = append(visible, more.Render(fmt.Sprintf("... %d more lines (j/k to scroll)", len(lines)-end)))
	}
	return strings.Join(visible, "\n")
}
