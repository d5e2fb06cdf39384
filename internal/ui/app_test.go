package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autodeviq/autodev/internal/api"
	"github.com/autodeviq/autodev/internal/git"
	"github.com/autodeviq/autodev/internal/models"
	"github.com/autodeviq/autodev/internal/wizard"
)

const cartTest = "Renders the cart.\n```js\nit('adds', () => {})\n```\nDone."

type mockClipboard struct {
	lastText string
	err      error
}

func (m *mockClipboard) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.lastText = text
	return nil
}

type fakeTests struct {
	listFn     func(ctx context.Context, projectID string) (models.BranchList, error)
	uploadFn   func(ctx context.Context, projectID, branch string) (models.ChangedBranch, error)
	generateFn func(ctx context.Context, featureID, fileName string) ([]models.TestCase, error)
	createFn   func(ctx context.Context, req models.CreateUnitTestRequest) (models.CommittedChange, error)
}

func (f *fakeTests) ListFeatureBranches(ctx context.Context, projectID string) (models.BranchList, error) {
	return f.listFn(ctx, projectID)
}

func (f *fakeTests) UploadFeature(ctx context.Context, projectID, branch string) (models.ChangedBranch, error) {
	return f.uploadFn(ctx, projectID, branch)
}

func (f *fakeTests) GenerateUnitTest(ctx context.Context, featureID, fileName string) ([]models.TestCase, error) {
	return f.generateFn(ctx, featureID, fileName)
}

func (f *fakeTests) CreateUnitTest(ctx context.Context, req models.CreateUnitTestRequest) (models.CommittedChange, error) {
	return f.createFn(ctx, req)
}

// shopTests answers like a backend with two feature branches, two changed
// files and two generated tests. Committed requests land in created.
func shopTests(created *[]models.CreateUnitTestRequest) *fakeTests {
	return &fakeTests{
		listFn: func(context.Context, string) (models.BranchList, error) {
			return models.BranchList{"main", "feature/nav", "feature/cart"}, nil
		},
		uploadFn: func(_ context.Context, _, branch string) (models.ChangedBranch, error) {
			return models.ChangedBranch{FeatureID: "shop__" + branch, FilesChanged: 2, FileNames: []string{"Cart.jsx", "Api.js"}}, nil
		},
		generateFn: func(context.Context, string, string) ([]models.TestCase, error) {
			return []models.TestCase{
				{File: "Cart.jsx", UnitTest: cartTest},
				{File: "Api.js", UnitTest: "```\nfetch()\n```"},
			}, nil
		},
		createFn: func(_ context.Context, req models.CreateUnitTestRequest) (models.CommittedChange, error) {
			*created = append(*created, req)
			return models.CommittedChange{
				ProjectID:    req.ProjectID,
				ProjectType:  "react",
				BranchName:   req.BranchName,
				TestFilePath: "src/__tests__/" + req.TestFileName + ".test.js",
			}, nil
		},
	}
}

var shopSession = wizard.Session{
	ProjectID:   "shop",
	ProjectType: "react",
	GitURL:      "https://github.com/acme/shop.git",
	MainBranch:  "main",
}

// harness runs a Model the way the bubbletea runtime would, executing
// commands synchronously and feeding back the messages this package owns.
type harness struct {
	t *testing.T
	m Model
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.Ctx == nil {
		opts.Ctx = context.Background()
	}
	h := &harness{t: t, m: NewModel(opts)}
	h.drain(h.m.Init())
	h.send(tea.WindowSizeMsg{Width: 100, Height: 40})
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return h.drain(cmd)
}

// drain runs cmd and returns the first command whose message is not routed
// back, so callers can inspect things like tea.Quit.
func (h *harness) drain(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var rest tea.Cmd
		for _, c := range msg {
			if r := h.drain(c); r != nil && rest == nil {
				rest = r
			}
		}
		return rest
	case wizardMsg, clipboardResultMsg, blockSaveMsg, blockCancelMsg, blockNextMsg,
		vrtBranchesMsg, vrtProgressMsg, vrtDoneMsg, gitURLDoneMsg, gitURLCancelMsg:
		h.send(msg)
		return nil
	case tea.QuitMsg:
		return cmd
	}
	return nil
}

func (h *harness) press(keys ...string) {
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestTestsFlowCommitsApprovedTest(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{
		Tests:     shopTests(&created),
		VRT:       shopVRT(),
		Session:   shopSession,
		Probe:     git.Probe{CurrentBranch: "feature/cart"},
		Clipboard: &mockClipboard{},
	})

	w := h.m.tests.Wizard()
	assert.Equal(t, []string{"feature/nav", "feature/cart"}, []string(w.Branches))
	assert.Equal(t, "feature/cart", h.m.tests.branches.Selected(), "checked out branch is preselected")

	h.press("enter")
	w = h.m.tests.Wizard()
	require.Equal(t, wizard.StepChooseFile, w.Step)
	assert.Equal(t, "feature/cart", w.Branch)
	assert.Equal(t, "shop__feature/cart", w.Changed.FeatureID)

	h.press("enter")
	w = h.m.tests.Wizard()
	require.Equal(t, wizard.StepReviewTests, w.Step)
	assert.Equal(t, "Cart.jsx", w.File)
	require.Len(t, w.Tests, 2)

	// approve the second test case
	h.press("l", "enter")
	w = h.m.tests.Wizard()
	require.Equal(t, wizard.StepCommitted, w.Step)
	require.Len(t, created, 1)
	assert.Equal(t, models.CreateUnitTestRequest{
		ProjectID:    "shop",
		TestFileName: "Api",
		BranchName:   "feature/cart",
		UnitTest:     "fetch()",
	}, created[0])

	view := h.m.View()
	assert.Contains(t, view, "src/__tests__/Api.test.js")
	assert.Contains(t, view, "Test files committed successfully!!")
}

func TestBackKeepsSelection(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})

	h.press("j", "enter")
	require.Equal(t, wizard.StepChooseFile, h.m.tests.Wizard().Step)

	h.press("b")
	w := h.m.tests.Wizard()
	assert.Equal(t, wizard.StepSelectBranch, w.Step)
	assert.Equal(t, "feature/cart", w.Branch)
	assert.Equal(t, "feature/cart", h.m.tests.branches.Selected())
}

func TestUploadRejectionShowsWarning(t *testing.T) {
	var created []models.CreateUnitTestRequest
	backend := shopTests(&created)
	backend.uploadFn = func(context.Context, string, string) (models.ChangedBranch, error) {
		return models.ChangedBranch{}, &api.RejectedError{Op: "upload feature", Status: 400, Detail: "No supported files changed"}
	}
	h := newHarness(t, Options{Tests: backend, VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})

	h.press("enter")
	n := h.m.notice()
	require.NotNil(t, n)
	assert.Equal(t, wizard.Warning, n.Level)
	assert.Equal(t, "No supported files changed", n.Message)
	assert.Equal(t, wizard.StepSelectBranch, h.m.tests.Wizard().Step)
	assert.Contains(t, h.m.View(), "No supported files changed")

	h.press("x")
	assert.Nil(t, h.m.notice())
}

func TestCopyCodeBlock(t *testing.T) {
	var created []models.CreateUnitTestRequest
	clip := &mockClipboard{}
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: clip})
	h.press("enter", "enter")
	require.Equal(t, wizard.StepReviewTests, h.m.tests.Wizard().Step)

	h.press("y")
	assert.Equal(t, "it('adds', () => {})", clip.lastText)
	require.NotNil(t, h.m.notice())
	assert.Equal(t, "Copied to clipboard", h.m.notice().Message)

	h.press("l", "Y")
	assert.Equal(t, "fetch()", clip.lastText)
}

func TestCopyFailureShowsError(t *testing.T) {
	var created []models.CreateUnitTestRequest
	clip := &mockClipboard{err: errors.New("no clipboard utility")}
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: clip})
	h.press("enter", "enter", "y")

	n := h.m.notice()
	require.NotNil(t, n)
	assert.Equal(t, wizard.Error, n.Level)
	assert.Contains(t, n.Message, "no clipboard utility")
}

func TestEditBlockAndSave(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})
	h.press("enter", "enter", "e")
	require.True(t, h.m.tests.Capturing())
	assert.True(t, h.m.tests.Wizard().Editing)

	// keys go to the editor, not to the app
	h.press("q", "ctrl+s")
	w := h.m.tests.Wizard()
	assert.False(t, w.Editing)
	assert.False(t, h.m.tests.Capturing())
	assert.Equal(t, "Renders the cart.\n```js\nit('adds', () => {})q\n```\nDone.", w.Tests[0].UnitTest)

	h.press("enter")
	require.Len(t, created, 1)
	assert.Equal(t, "it('adds', () => {})q", created[0].UnitTest)
}

func TestEditBlockHoldsBackFenceLines(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})
	h.press("enter", "enter", "e", "enter", "```")
	assert.Contains(t, h.m.View(), "are not kept")
	assert.Equal(t, "Renders the cart.\n```js\nit('adds', () => {})\n\n```\nDone.", h.m.tests.Wizard().TestText(0))

	// edits keep landing once the fence line is gone
	h.press("backspace", "backspace", "backspace", "backspace", "q", "ctrl+s")
	w := h.m.tests.Wizard()
	assert.Equal(t, "Renders the cart.\n```js\nit('adds', () => {})q\n```\nDone.", w.Tests[0].UnitTest)
	assert.NotContains(t, h.m.View(), "are not kept")
}

func TestEditBlockDiscard(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})
	h.press("enter", "enter", "e", "z", "esc")

	w := h.m.tests.Wizard()
	assert.False(t, w.Editing)
	assert.Equal(t, cartTest, w.Tests[0].UnitTest)
}

func TestTabSwitchesScreen(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})
	assert.Equal(t, ScreenTests, h.m.screen)
	assert.Contains(t, h.m.View(), "Select Branch")

	h.press("tab")
	assert.Equal(t, ScreenVRT, h.m.screen)
	assert.Contains(t, h.m.View(), "Base branch:")

	h.press("tab")
	assert.Equal(t, ScreenTests, h.m.screen)
}

func TestQuit(t *testing.T) {
	var created []models.CreateUnitTestRequest
	h := newHarness(t, Options{Tests: shopTests(&created), VRT: shopVRT(), Session: shopSession, Clipboard: &mockClipboard{}})

	cmd := h.send(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
