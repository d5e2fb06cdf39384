package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/markdown"
)

type blockSaveMsg struct {
	test int
}

type blockCancelMsg struct{}

type blockNextMsg struct{}

// BlockEditor edits one code block of one test case. Every keystroke that
// changes the text calls onChange with the line the block ended on before
// the change. Text with a fence line is held back until the fence is gone.
type BlockEditor struct {
	textarea textarea.Model
	test     int
	block    markdown.Block
	endLine  int
	width    int
	onChange markdown.ChangeFunc
	fenced   bool
}

func NewBlockEditor(test int, block markdown.Block, width int, onChange markdown.ChangeFunc) *BlockEditor {
	ta := textarea.New()
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetValue(block.Text)
	ta.Focus()

	theme := lipgloss.NewStyle().
		Background(lipgloss.Color(block.Theme.Background)).
		Foreground(lipgloss.Color(block.Theme.Foreground))
	ta.FocusedStyle.Base = theme
	ta.FocusedStyle.Text = theme
	ta.FocusedStyle.CursorLine = theme

	e := &BlockEditor{
		textarea: ta,
		test:     test,
		block:    block,
		endLine:  block.Segment.EndLine,
		onChange: onChange,
	}
	e.SetSize(width, len(block.Segment.Lines)+2)
	return e
}

func (e *BlockEditor) SetSize(width, height int) {
	e.width = width
	if width > 4 {
		e.textarea.SetWidth(width - 4)
	}
	height = max(3, min(height, 20))
	e.textarea.SetHeight(height)
}

// Key identifies the block being edited, as markdown.BlockKey does.
func (e *BlockEditor) Key() string {
	return markdown.BlockKey(e.test, e.block)
}

func (e *BlockEditor) Init() tea.Cmd {
	return textarea.Blink
}

func (e *BlockEditor) Update(msg tea.Msg) (*BlockEditor, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return e, func() tea.Msg { return blockCancelMsg{} }
		case "ctrl+s":
			test := e.test
			return e, func() tea.Msg { return blockSaveMsg{test: test} }
		case "ctrl+n":
			return e, func() tea.Msg { return blockNextMsg{} }
		}
	}

	before := e.textarea.Value()
	var cmd tea.Cmd
	e.textarea, cmd = e.textarea.Update(msg)

	after := e.textarea.Value()
	if after == before {
		return e, cmd
	}

	e.fenced = markdown.HasFence(after)
	if e.fenced {
		return e, cmd
	}
	if e.onChange != nil {
		e.onChange(e.endLine, after)
	}
	e.endLine = e.block.Segment.StartLine + markdown.BodyLines(after)
	return e, cmd
}

// Value returns the text currently in the editor.
func (e *BlockEditor) Value() string {
	return e.textarea.Value()
}

func (e *BlockEditor) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	lang := e.block.Segment.Lang
	if lang == "" {
		lang = "code"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Editing %s block", lang)) + "\n")
	b.WriteString(e.textarea.View() + "\n")
	if e.fenced {
		warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
		b.WriteString(warnStyle.Render("Lines starting with ``` end the block and are not kept") + "\n")
	}
	b.WriteString(helpStyle.Render("ctrl+s: save • ctrl+n: next block • esc: discard"))
	return b.String()
}
