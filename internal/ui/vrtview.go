package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/autodeviq/autodev/internal/api"
	"github.com/autodeviq/autodev/internal/models"
	"github.com/autodeviq/autodev/internal/vrt"
	"github.com/autodeviq/autodev/internal/wizard"
)

type vrtBranchesMsg struct {
	gitURL   string
	branches vrt.Branches
	err      error
}

type vrtProgressMsg struct {
	stage vrt.Stage
	ch    <-chan tea.Msg
}

type vrtDoneMsg struct {
	outcome vrt.Outcome
	saved   []string
	err     error
}

type vrtPhase int

const (
	vrtEnterURL vrtPhase = iota
	vrtLoadingBranches
	vrtPickBranch
	vrtRunning
	vrtDone
)

// VRTView compares a feature branch against the project's base branch.
type VRTView struct {
	ctx         context.Context
	runner      *vrt.Runner
	openBrowser bool
	imageDir    string

	phase    vrtPhase
	input    *GitURLInput
	gitURL   string
	branches vrt.Branches
	picker   *Picker
	branch   string
	stage    vrt.Stage
	spinner  spinner.Model
	result   *ResultView
	notice   *wizard.Notice
	width    int
	height   int
}

// VRTOptions configures a VRTView.
type VRTOptions struct {
	GitURL      string
	OpenBrowser bool
	ImageDir    string
}

func NewVRTView(ctx context.Context, runner *vrt.Runner, opts VRTOptions) *VRTView {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))

	return &VRTView{
		ctx:         ctx,
		runner:      runner,
		openBrowser: opts.OpenBrowser,
		imageDir:    opts.ImageDir,
		input:       NewGitURLInput(opts.GitURL),
		gitURL:      strings.TrimSpace(opts.GitURL),
		picker:      NewPicker("Feature branches", "No feature branches to compare."),
		spinner:     s,
		result:      NewResultView(),
	}
}

// Init loads branches right away when a git URL is already known.
func (v *VRTView) Init() tea.Cmd {
	if v.gitURL == "" {
		return v.input.Focus()
	}
	v.phase = vrtLoadingBranches
	return tea.Batch(v.loadBranches(v.gitURL), v.spinner.Tick)
}

func (v *VRTView) loadBranches(gitURL string) tea.Cmd {
	ctx, runner := v.ctx, v.runner
	return func() tea.Msg {
		b, err := runner.LoadBranches(ctx, gitURL)
		return vrtBranchesMsg{gitURL: gitURL, branches: b, err: err}
	}
}

// run starts the chain in the background. Progress and the final result
// come back through ch, read one message at a time by waitForRun.
func (v *VRTView) run(req vrt.Request) tea.Cmd {
	ctx, runner, dir := v.ctx, v.runner, v.imageDir
	ch := make(chan tea.Msg, 5)

	go func() {
		defer close(ch)
		outcome, err := runner.Run(ctx, req, func(s vrt.Stage) {
			ch <- vrtProgressMsg{stage: s}
		})
		done := vrtDoneMsg{outcome: outcome, err: err}
		if err == nil && dir != "" {
			done.saved, done.err = vrt.SaveImages(outcome.Result, dir)
			if done.err != nil {
				done.err = fmt.Errorf("save snapshots: %w", done.err)
			}
		}
		ch <- done
	}()

	return waitForRun(ch)
}

func waitForRun(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		if p, ok := msg.(vrtProgressMsg); ok {
			p.ch = ch
			return p
		}
		return msg
	}
}

// Capturing reports whether keys go to the URL input.
func (v *VRTView) Capturing() bool {
	return v.phase == vrtEnterURL
}

// Running reports whether a comparison is in flight.
func (v *VRTView) Running() bool {
	return v.phase == vrtRunning
}

func (v *VRTView) Notice() *wizard.Notice {
	return v.notice
}

func (v *VRTView) DismissNotice() {
	v.notice = nil
}

func (v *VRTView) Update(msg tea.Msg) (*VRTView, tea.Cmd) {
	switch msg := msg.(type) {
	case vrtBranchesMsg:
		if v.phase != vrtLoadingBranches || msg.gitURL != v.gitURL {
			return v, nil
		}
		if msg.err != nil {
			v.notice = vrtNotice("Could not load branches", msg.err)
			v.phase = vrtEnterURL
			return v, v.input.Focus()
		}
		v.branches = msg.branches
		v.picker.SetItems(msg.branches.Features)
		if v.branch != "" {
			v.picker.Select(v.branch)
		}
		v.phase = vrtPickBranch
		return v, nil

	case vrtProgressMsg:
		v.stage = msg.stage
		return v, waitForRun(msg.ch)

	case vrtDoneMsg:
		if msg.err != nil {
			v.notice = vrtNotice("Visual regression run failed", msg.err)
			v.phase = vrtPickBranch
			return v, nil
		}
		v.result.SetOutcome(v.branch, msg.outcome, msg.saved)
		v.notice = &wizard.Notice{Level: wizard.Success, Message: "Visual regression run complete"}
		v.phase = vrtDone
		return v, nil

	case gitURLDoneMsg:
		v.gitURL = msg.url
		v.input.Blur()
		v.notice = nil
		v.phase = vrtLoadingBranches
		return v, tea.Batch(v.loadBranches(msg.url), v.spinner.Tick)

	case gitURLCancelMsg:
		if v.branches.Project.ProjectID == "" {
			return v, nil
		}
		v.input.Blur()
		v.phase = vrtPickBranch
		return v, nil

	case spinner.TickMsg:
		if v.phase != vrtRunning && v.phase != vrtLoadingBranches {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.picker.SetHeight(max(3, msg.Height-14))
		v.result.SetSize(msg.Width, max(5, msg.Height-8))
		return v, nil

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}

	if v.phase == vrtEnterURL {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *VRTView) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch v.phase {
	case vrtEnterURL:
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return cmd

	case vrtPickBranch:
		switch msg.String() {
		case "enter":
			branch := v.picker.Selected()
			req := vrt.Request{
				GitURL:        v.gitURL,
				BaseProjectID: v.branches.Project.ProjectID,
				FeatureBranch: branch,
				OpenBrowser:   v.openBrowser,
			}
			if err := req.Validate(); err != nil {
				v.notice = &wizard.Notice{Level: wizard.Warning, Message: capitalize(err.Error())}
				return nil
			}
			v.branch = branch
			v.notice = nil
			v.stage = vrt.StageClone
			v.phase = vrtRunning
			return tea.Batch(v.run(req), v.spinner.Tick)
		case "u":
			v.phase = vrtEnterURL
			return v.input.Focus()
		case "r":
			v.phase = vrtLoadingBranches
			return tea.Batch(v.loadBranches(v.gitURL), v.spinner.Tick)
		}
		v.picker.Update(msg)

	case vrtDone:
		switch msg.String() {
		case "esc", "b", "backspace":
			v.phase = vrtPickBranch
			return nil
		}
		v.result.Update(msg)
	}
	return nil
}

// vrtNotice turns a run error into a banner. Backend rejections are
// warnings carrying the backend's own text.
func vrtNotice(prefix string, err error) *wizard.Notice {
	if detail, ok := api.Detail(err); ok {
		return &wizard.Notice{Level: wizard.Warning, Message: detail}
	}
	if errors.Is(err, vrt.ErrUnknownProject) {
		return &wizard.Notice{Level: wizard.Warning, Message: "This repository is not registered. Add it with `autodev projects add`."}
	}
	return &wizard.Notice{Level: wizard.Error, Message: fmt.Sprintf("%s: %v", prefix, err)}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (v *VRTView) View() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("white"))

	grayStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	var b strings.Builder

	switch v.phase {
	case vrtEnterURL:
		b.WriteString(v.input.View())
		return b.String()

	case vrtLoadingBranches:
		b.WriteString(v.spinner.View() + " Loading branches for " + v.gitURL)
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Repository:"), valueStyle.Render(v.gitURL)))
	b.WriteString(fmt.Sprintf("%s %s\n\n", labelStyle.Render("Base branch:"), valueStyle.Render(v.branches.Base)))

	switch v.phase {
	case vrtPickBranch:
		b.WriteString(v.picker.View())
	case vrtRunning:
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Feature branch:"), valueStyle.Render(v.branch)))
		b.WriteString("\n" + v.spinner.View() + " " + v.stage.String() + "\n")
		b.WriteString(grayStyle.Render(fmt.Sprintf("step %d of %d", int(v.stage)+1, int(vrt.StageCompare)+1)))
	case vrtDone:
		b.WriteString(v.result.View())
	}
	return b.String()
}

// HelpKeys lists the keys that do something right now.
func (v *VRTView) HelpKeys() []string {
	switch v.phase {
	case vrtEnterURL:
		return []string{"enter: load branches", "esc: cancel"}
	case vrtPickBranch:
		return []string{"j/k: navigate", "enter: run comparison", "u: change repository", "r: reload"}
	case vrtDone:
		return []string{"j/k: suggestions", "b: back to branches"}
	}
	return nil
}

// Result returns the last completed run, if any.
func (v *VRTView) Result() (models.VrtResult, bool) {
	if v.phase != vrtDone {
		return models.VrtResult{}, false
	}
	return v.result.outcome.Result, true
}
