package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/autodeviq/autodev/internal/git"
	"github.com/autodeviq/autodev/internal/vrt"
	"github.com/autodeviq/autodev/internal/wizard"
)

// ClipboardWriter is the system clipboard, swappable in tests.
type ClipboardWriter interface {
	WriteText(text string) error
}

type realClipboard struct{}

func (realClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// Screen is one of the app's top-level views.
type Screen int

const (
	ScreenTests Screen = iota
	ScreenVRT
)

func (s Screen) String() string {
	if s == ScreenVRT {
		return "Visual Regression"
	}
	return "Test Generation"
}

// Options wires the app to its backends and to what was learned about the
// local checkout.
type Options struct {
	Ctx            context.Context
	Tests          wizard.Backend
	VRT            vrt.Backend
	Session        wizard.Session
	Screen         Screen
	OpenBrowser    bool
	StopContainers bool
	ImageDir       string
	Probe          git.Probe
	Dark           bool
	Logger         *log.Logger
	Clipboard      ClipboardWriter
}

type Model struct {
	width  int
	height int
	screen Screen
	probe  git.Probe
	tests  *TestsView
	vrt    *VRTView
}

func NewModel(opts Options) Model {
	ctx := opts.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	clip := opts.Clipboard
	if clip == nil {
		clip = realClipboard{}
	}

	driver := wizard.NewDriver(opts.Tests, opts.Logger)
	tests := NewTestsView(ctx, driver, opts.Session, opts.Dark, clip)
	tests.SetCurrentBranch(opts.Probe.CurrentBranch)

	runnerOpts := []vrt.Option{vrt.WithStopContainers(opts.StopContainers)}
	if opts.Logger != nil {
		runnerOpts = append(runnerOpts, vrt.WithLogger(opts.Logger))
	}
	gitURL := opts.Session.GitURL
	if gitURL == "" {
		gitURL = opts.Probe.OriginURL
	}
	vrtView := NewVRTView(ctx, vrt.NewRunner(opts.VRT, runnerOpts...), VRTOptions{
		GitURL:      gitURL,
		OpenBrowser: opts.OpenBrowser,
		ImageDir:    opts.ImageDir,
	})

	return Model{
		screen: opts.Screen,
		probe:  opts.Probe,
		tests:  tests,
		vrt:    vrtView,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.tests.Init(),
		m.vrt.Init(),
	)
}

// capturing reports whether the active screen wants raw keys.
func (m Model) capturing() bool {
	if m.screen == ScreenVRT {
		return m.vrt.Capturing()
	}
	return m.tests.Capturing()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "tab", "shift+tab":
			// the block editor keeps tab for indentation
			if m.screen == ScreenVRT || !m.tests.Capturing() {
				m.screen = 1 - m.screen
				return m, nil
			}
		}
		if !m.capturing() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "x":
				m.dismissNotice()
				return m, nil
			}
		}
		if m.screen == ScreenVRT {
			m.vrt, cmd = m.vrt.Update(msg)
		} else {
			m.tests, cmd = m.tests.Update(msg)
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// header, banner and footer
		inner := tea.WindowSizeMsg{Width: msg.Width, Height: max(0, msg.Height-6)}
		m.tests, _ = m.tests.Update(inner)
		m.vrt, _ = m.vrt.Update(inner)
		return m, nil

	case wizardMsg, clipboardResultMsg, blockSaveMsg, blockCancelMsg, blockNextMsg:
		m.tests, cmd = m.tests.Update(msg)
		return m, cmd

	case vrtBranchesMsg, vrtProgressMsg, vrtDoneMsg, gitURLDoneMsg, gitURLCancelMsg:
		m.vrt, cmd = m.vrt.Update(msg)
		return m, cmd
	}

	// Spinner ticks and cursor blinks go to both screens; each ignores what
	// it does not own.
	var testsCmd, vrtCmd tea.Cmd
	m.tests, testsCmd = m.tests.Update(msg)
	m.vrt, vrtCmd = m.vrt.Update(msg)
	return m, tea.Batch(testsCmd, vrtCmd)
}

func (m Model) dismissNotice() {
	if m.screen == ScreenVRT {
		m.vrt.DismissNotice()
	} else {
		m.tests.DismissNotice()
	}
}

func (m Model) notice() *wizard.Notice {
	if m.screen == ScreenVRT {
		return m.vrt.Notice()
	}
	return m.tests.Notice()
}

func (m Model) View() string {
	var body string
	if m.screen == ScreenVRT {
		body = m.vrt.View()
	} else {
		body = m.tests.View()
	}

	parts := []string{m.renderHeader()}
	if banner := m.renderBanner(); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, body, m.renderFooter())

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("170")).
		MarginRight(2)

	branchStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("green")).
		Bold(true)

	statusStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	warnStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	activeTab := lipgloss.NewStyle().
		Foreground(lipgloss.Color("cyan")).
		Bold(true).
		Underline(true)

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	title := titleStyle.Render("AutoDev IQ")

	session := m.tests.Wizard().Session
	var info []string
	if session.ProjectID != "" {
		info = append(info, statusStyle.Render(fmt.Sprintf("project %s", session.ProjectID)))
	}
	if m.probe.CurrentBranch != "" {
		info = append(info, branchStyle.Render(m.probe.CurrentBranch))
	}
	if m.probe.Unpushed > 0 {
		info = append(info, warnStyle.Render(fmt.Sprintf("↑%d unpushed", m.probe.Unpushed)))
	}
	if m.probe.Dirty {
		info = append(info, warnStyle.Render("uncommitted changes"))
	}

	var tabs []string
	for _, s := range []Screen{ScreenTests, ScreenVRT} {
		if s == m.screen {
			tabs = append(tabs, activeTab.Render(s.String()))
		} else {
			tabs = append(tabs, tabStyle.Render(s.String()))
		}
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, title, strings.Join(info, " "))
	divider := dividerStyle.Render(strings.Repeat("─", m.width))

	return lipgloss.JoinVertical(lipgloss.Left, headerLine, strings.Join(tabs, "   "), divider)
}

func (m Model) renderBanner() string {
	n := m.notice()
	if n == nil || n.Message == "" {
		return ""
	}

	color := "34"
	switch n.Level {
	case wizard.Warning:
		color = "214"
	case wizard.Error:
		color = "196"
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Foreground(lipgloss.Color(color)).
		Bold(true).
		Padding(0, 2)

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("  (x to dismiss)")
	return style.Render(n.Message) + hint
}

func (m Model) renderFooter() string {
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	dividerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238"))

	var keys []string
	if m.screen == ScreenVRT {
		keys = m.vrt.HelpKeys()
	} else {
		keys = m.tests.HelpKeys()
	}
	if !m.capturing() {
		keys = append(keys, "tab: switch screen", "x: dismiss", "q: quit")
	} else if m.screen == ScreenVRT {
		keys = append(keys, "tab: switch screen")
	}

	divider := dividerStyle.Render(strings.Repeat("─", m.width))
	helpText := helpStyle.Render(strings.Join(keys, " • "))

	return lipgloss.JoinVertical(lipgloss.Left, divider, helpText)
}
