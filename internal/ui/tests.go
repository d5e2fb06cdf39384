package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/markdown"
	"github.com/autodeviq/autodev/internal/wizard"
)

type wizardMsg struct {
	action wizard.Action
}

type clipboardResultMsg struct {
	err error
}

// TestsView walks the user through branch, file, review and commit.
type TestsView struct {
	ctx       context.Context
	driver    *wizard.Driver
	w         wizard.Wizard
	branches  *Picker
	files     *FileChooser
	review    *ReviewPanel
	editor    *BlockEditor
	spinner   spinner.Model
	clipboard ClipboardWriter
	flash     *wizard.Notice
	width     int
	height    int
}

func NewTestsView(ctx context.Context, driver *wizard.Driver, session wizard.Session, dark bool, clip ClipboardWriter) *TestsView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))

	return &TestsView{
		ctx:       ctx,
		driver:    driver,
		w:         wizard.New(session),
		branches:  NewPicker("Feature branches", "No feature branches found. Press r to reload."),
		files:     NewFileChooser(),
		review:    NewReviewPanel(dark),
		spinner:   s,
		clipboard: clip,
	}
}

// SetCurrentBranch marks and preselects the locally checked out branch.
func (t *TestsView) SetCurrentBranch(name string) {
	t.branches.SetCurrent(name)
}

// Wizard returns the current wizard state.
func (t *TestsView) Wizard() wizard.Wizard {
	return t.w
}

func (t *TestsView) Init() tea.Cmd {
	return t.loadBranches()
}

func (t *TestsView) loadBranches() tea.Cmd {
	ctx, driver, session := t.ctx, t.driver, t.w.Session
	return func() tea.Msg {
		return wizardMsg{driver.LoadBranches(ctx, session)}
	}
}

func (t *TestsView) perform() tea.Cmd {
	ctx, driver, w := t.ctx, t.driver, t.w
	return func() tea.Msg {
		a := driver.Perform(ctx, w)
		if a == nil {
			return nil
		}
		return wizardMsg{a}
	}
}

// dispatch reduces a into the wizard and starts the request if the wizard
// just began loading.
func (t *TestsView) dispatch(a wizard.Action) tea.Cmd {
	before := t.w
	t.w = wizard.Reduce(before, a)
	t.flash = nil

	switch a.(type) {
	case wizard.BranchesLoaded:
		t.branches.SetItems(t.w.Branches)
		if t.w.Branch != "" {
			t.branches.Select(t.w.Branch)
		} else {
			t.branches.Select(t.branches.current)
		}
	case wizard.Uploaded:
		t.files.SetChanged(t.w.Branch, t.w.Changed, t.w.File)
	case wizard.Generated:
		t.review.Reset()
	case wizard.SaveEdit, wizard.CancelEdit:
		t.editor = nil
	case wizard.SessionChanged:
		t.editor = nil
		t.review.Reset()
	}

	if t.w.IsLoading() && !before.IsLoading() {
		return tea.Batch(t.perform(), t.spinner.Tick)
	}
	return nil
}

// Capturing reports whether keys go to a text editor.
func (t *TestsView) Capturing() bool {
	return t.editor != nil
}

// Notice returns the message the banner should show.
func (t *TestsView) Notice() *wizard.Notice {
	if t.flash != nil {
		return t.flash
	}
	return t.w.Notice
}

func (t *TestsView) DismissNotice() {
	t.flash = nil
	t.w = wizard.Reduce(t.w, wizard.DismissNotice{})
}

func (t *TestsView) Update(msg tea.Msg) (*TestsView, tea.Cmd) {
	switch msg := msg.(type) {
	case wizardMsg:
		return t, t.dispatch(msg.action)

	case spinner.TickMsg:
		if !t.w.IsLoading() {
			return t, nil
		}
		var cmd tea.Cmd
		t.spinner, cmd = t.spinner.Update(msg)
		return t, cmd

	case clipboardResultMsg:
		if msg.err != nil {
			t.flash = &wizard.Notice{Level: wizard.Error, Message: fmt.Sprintf("Copy failed: %v", msg.err)}
		} else {
			t.flash = &wizard.Notice{Level: wizard.Success, Message: "Copied to clipboard"}
		}
		return t, nil

	case blockSaveMsg:
		return t, t.dispatch(wizard.SaveEdit{Index: msg.test})

	case blockCancelMsg:
		return t, t.dispatch(wizard.CancelEdit{})

	case blockNextMsg:
		t.review.SwitchBlock(t.w, 1)
		t.openEditor()
		return t, nil

	case tea.WindowSizeMsg:
		t.width = msg.Width
		t.height = msg.Height
		listHeight := max(3, msg.Height-12)
		t.branches.SetHeight(listHeight)
		t.files.SetHeight(listHeight - 3)
		t.review.SetSize(msg.Width, max(5, msg.Height-14))
		if t.editor != nil {
			t.editor.SetSize(msg.Width, t.editor.textarea.Height())
		}
		return t, nil

	case tea.KeyMsg:
		if t.editor != nil {
			var cmd tea.Cmd
			t.editor, cmd = t.editor.Update(msg)
			return t, cmd
		}
		if t.w.IsLoading() {
			return t, nil
		}
		return t, t.handleKey(msg)
	}

	if t.editor != nil {
		var cmd tea.Cmd
		t.editor, cmd = t.editor.Update(msg)
		return t, cmd
	}
	return t, nil
}

func (t *TestsView) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "b" || key == "backspace" {
		return t.dispatch(wizard.Back{})
	}

	switch t.w.Step {
	case wizard.StepSelectBranch:
		switch key {
		case "enter":
			return tea.Batch(
				t.dispatch(wizard.SelectBranch{Branch: t.branches.Selected()}),
				t.dispatch(wizard.Next{}),
			)
		case "r":
			return t.loadBranches()
		}
		t.branches.Update(msg)

	case wizard.StepChooseFile:
		if key == "enter" {
			return tea.Batch(
				t.dispatch(wizard.SelectFile{File: t.files.Selected()}),
				t.dispatch(wizard.Next{}),
			)
		}
		t.files.Update(msg)

	case wizard.StepReviewTests:
		switch key {
		case "enter":
			return t.dispatch(wizard.Approve{Index: t.review.Test()})
		case "e":
			cmd := t.dispatch(wizard.StartEdit{})
			t.openEditor()
			return cmd
		case "y":
			if b, ok := t.review.SelectedBlock(t.w); ok {
				return t.copy(b.Text)
			}
		case "Y":
			return t.copy(markdown.ExtractCodeBlocks(t.w.TestText(t.review.Test())))
		case "l", "right":
			t.review.SwitchTest(t.w, 1)
		case "h", "left":
			t.review.SwitchTest(t.w, -1)
		case "]":
			t.review.SwitchBlock(t.w, 1)
		case "[":
			t.review.SwitchBlock(t.w, -1)
		case "j", "down":
			t.review.Scroll(1)
		case "k", "up":
			t.review.Scroll(-1)
		}

	case wizard.StepCommitted:
		if key == "n" {
			return tea.Batch(t.dispatch(wizard.SessionChanged{Session: t.w.Session}), t.loadBranches())
		}
	}
	return nil
}

// openEditor puts the selected code block of the current test in the
// editor. It does nothing if the test has no code.
func (t *TestsView) openEditor() {
	if !t.w.Editing {
		return
	}
	b, ok := t.review.SelectedBlock(t.w)
	if !ok {
		t.dispatch(wizard.CancelEdit{})
		return
	}
	test := t.review.Test()
	t.editor = NewBlockEditor(test, b, t.width, func(endLine int, code string) {
		t.w = wizard.Reduce(t.w, wizard.EditBlock{Test: test, EndLine: endLine, Code: code})
	})
}

func (t *TestsView) copy(text string) tea.Cmd {
	clip := t.clipboard
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return clipboardResultMsg{err: fmt.Errorf("nothing to copy")}
		}
		return clipboardResultMsg{err: clip.WriteText(text)}
	}
}

func (t *TestsView) View() string {
	var b strings.Builder
	b.WriteString(t.renderStepper())
	b.WriteString("\n\n")

	if t.w.IsLoading() {
		b.WriteString(t.spinner.View() + " " + loadingText(t.w.Step) + "\n\n")
	}

	switch t.w.Step {
	case wizard.StepSelectBranch:
		b.WriteString(t.branches.View())
	case wizard.StepChooseFile:
		b.WriteString(t.files.View())
	case wizard.StepReviewTests:
		b.WriteString(t.review.View(t.w, t.editor))
	case wizard.StepCommitted:
		b.WriteString(t.renderCommitted())
	}
	return b.String()
}

// HelpKeys lists the keys that do something on the current step.
func (t *TestsView) HelpKeys() []string {
	if t.editor != nil {
		return []string{"ctrl+s: save", "ctrl+n: next block", "esc: discard"}
	}
	var keys []string
	switch t.w.Step {
	case wizard.StepSelectBranch:
		keys = []string{"j/k: navigate", "enter: find changes", "r: reload"}
	case wizard.StepChooseFile:
		keys = []string{"j/k: navigate", "enter: generate tests"}
	case wizard.StepReviewTests:
		keys = []string{"h/l: test", "[/]: block", "e: edit", "y: copy block", "Y: copy all", "enter: commit"}
	case wizard.StepCommitted:
		keys = []string{"n: new test"}
	}
	if t.w.CanGoBack() {
		keys = append(keys, "b: back")
	}
	return keys
}

func loadingText(step wizard.Step) string {
	switch step {
	case wizard.StepSelectBranch:
		return "Finding changed files..."
	case wizard.StepChooseFile:
		return "Generating tests..."
	case wizard.StepReviewTests:
		return "Committing test file..."
	}
	return "Working..."
}

func (t *TestsView) renderStepper() string {
	doneStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("34"))

	activeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	failedStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)

	todoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	_, failed := t.w.Status.(wizard.Failed)

	labels := wizard.Labels()
	steps := make([]string, len(labels))
	for i, label := range labels {
		step := wizard.Step(i)
		switch {
		case step < t.w.Step || t.w.Step == wizard.StepCommitted:
			steps[i] = doneStyle.Render(fmt.Sprintf("✓ %d %s", i+1, label))
		case step == t.w.Step && failed:
			steps[i] = failedStyle.Render(fmt.Sprintf("✗ %d %s", i+1, label))
		case step == t.w.Step:
			steps[i] = activeStyle.Render(fmt.Sprintf("● %d %s", i+1, label))
		default:
			steps[i] = todoStyle.Render(fmt.Sprintf("○ %d %s", i+1, label))
		}
	}
	return strings.Join(steps, todoStyle.Render(" ─ "))
}

func (t *TestsView) renderCommitted() string {
	c := t.w.Committed
	if c == nil {
		return ""
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2)

	rows := [][2]string{
		{"Project:", c.ProjectID},
		{"Project type:", c.ProjectType},
		{"Branch:", c.BranchName},
		{"Test file:", c.TestFilePath},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%s %s", labelStyle.Render(r[0]), valueStyle.Render(r[1])))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
