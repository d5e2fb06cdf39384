package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/models"
	"github.com/autodeviq/autodev/internal/vrt"
)

// ResultView is the dashboard shown after a VRT run.
type ResultView struct {
	outcome     vrt.Outcome
	branch      string
	saved       []string
	suggestions *SuggestionList
	width       int
	height      int
}

func NewResultView() *ResultView {
	return &ResultView{
		suggestions: NewSuggestionList(),
	}
}

// SetOutcome replaces the run on display. saved lists image files already
// written to disk, if any.
func (d *ResultView) SetOutcome(branch string, outcome vrt.Outcome, saved []string) {
	d.branch = branch
	d.outcome = outcome
	d.saved = saved
	d.suggestions.SetChanges(outcome.Result.Suggestions())
}

func (d *ResultView) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.suggestions.SetSize(width, max(3, height-12))
}

func (d *ResultView) Update(msg tea.Msg) (*ResultView, tea.Cmd) {
	var cmd tea.Cmd
	d.suggestions, cmd = d.suggestions.Update(msg)
	return d, cmd
}

// renderStatusBox lists what the run produced.
func (d *ResultView) renderStatusBox() string {
	r := d.outcome.Result

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	greenStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("34")).
		Bold(true)

	orangeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)

	grayStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	var diff string
	if r.HasDiff {
		diff = orangeStyle.Render("visual changes detected")
	} else {
		diff = greenStyle.Render("no visual changes")
	}

	metrics := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Branch:"), valueStyle.Render(d.branch)),
		fmt.Sprintf("%s %s", labelStyle.Render("Result:"), diff),
	}
	if r.Label != "" {
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Label:"), valueStyle.Render(r.Label)))
	}
	if r.HTMLReport != "" {
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Report:"), valueStyle.Render(r.HTMLReport)))
	}
	if d.outcome.Base.URL != "" {
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Base preview:"), valueStyle.Render(d.outcome.Base.URL)))
	}
	if d.outcome.Feature.URL != "" {
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Feature preview:"), valueStyle.Render(d.outcome.Feature.URL)))
	}

	images, err := r.DecodeImages()
	switch {
	case err != nil:
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Snapshots:"), orangeStyle.Render(err.Error())))
	case len(images) == 0:
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Snapshots:"), grayStyle.Render("none")))
	default:
		sizes := make([]string, len(images))
		for i, img := range images {
			sizes[i] = fmt.Sprintf("%s %s", img.Name, models.FormatSize(len(img.Data)))
		}
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Snapshots:"), valueStyle.Render(strings.Join(sizes, ", "))))
	}

	for _, path := range d.saved {
		metrics = append(metrics, fmt.Sprintf("%s %s", labelStyle.Render("Saved:"), grayStyle.Render(path)))
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		MarginBottom(1)

	return boxStyle.Render(strings.Join(metrics, "\n"))
}

func (d *ResultView) View() string {
	r := d.outcome.Result
	if r.IsEmpty() {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("The comparison returned nothing to show.")
	}

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white")).
		Bold(true)

	var parts []string
	if r.Message != "" {
		parts = append(parts, messageStyle.Render(r.Message))
	}
	parts = append(parts, d.renderStatusBox(), d.suggestions.View())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
