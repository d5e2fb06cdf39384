package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/models"
)

// FileChooser lists the files a feature branch changed and lets the user
// pick the one to generate tests for.
type FileChooser struct {
	picker  *Picker
	changed models.ChangedBranch
	branch  string
}

func NewFileChooser() *FileChooser {
	return &FileChooser{
		picker: NewPicker("Changed files", "No changed code files on this branch."),
	}
}

// SetChanged loads the upload result for branch. chosen keeps the cursor on
// a previously chosen file.
func (f *FileChooser) SetChanged(branch string, changed models.ChangedBranch, chosen string) {
	f.branch = branch
	f.changed = changed
	f.picker.SetItems(changed.FileNames)
	if chosen != "" {
		f.picker.Select(chosen)
	}
}

func (f *FileChooser) Selected() string {
	return f.picker.Selected()
}

func (f *FileChooser) SetHeight(h int) {
	f.picker.SetHeight(h)
}

func (f *FileChooser) Update(msg tea.Msg) (*FileChooser, tea.Cmd) {
	var cmd tea.Cmd
	f.picker, cmd = f.picker.Update(msg)
	return f, cmd
}

func (f *FileChooser) View() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	extStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("yellow"))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Branch:"), valueStyle.Render(f.branch)))
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Files changed:"), valueStyle.Render(fmt.Sprintf("%d", f.changed.FilesChanged))))

	if sel := f.Selected(); sel != "" {
		ext := strings.TrimPrefix(filepath.Ext(sel), ".")
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			labelStyle.Render("Test file:"),
			valueStyle.Render(models.TestFileName(sel)),
			extStyle.Render("("+ext+")"),
		))
	}

	b.WriteString("\n")
	b.WriteString(f.picker.View())
	return b.String()
}
