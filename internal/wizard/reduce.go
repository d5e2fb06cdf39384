package wizard

import (
	"errors"
	"strings"

	"github.com/autodeviq/autodev/internal/api"
	"github.com/autodeviq/autodev/internal/markdown"
	"github.com/autodeviq/autodev/internal/models"
)

// Action is anything Reduce understands.
type Action interface {
	isAction()
}

type (
	// BranchesLoaded carries the feature branch listing, or the error that
	// prevented it.
	BranchesLoaded struct {
		Branches models.BranchList
		Err      error
	}
	SelectBranch struct{ Branch string }
	SelectFile   struct{ File string }
	Next         struct{}
	Back         struct{}
	// Approve commits test case Index.
	Approve struct{ Index int }

	Uploaded   struct{ Changed models.ChangedBranch }
	Generated  struct{ Tests []models.TestCase }
	CommitDone struct{ Change models.CommittedChange }
	// RequestFailed reports that the request leaving Step failed.
	RequestFailed struct {
		Step Step
		Err  error
	}

	StartEdit struct{}
	// EditBlock replaces the code block of test Test that ends at EndLine.
	EditBlock struct {
		Test    int
		EndLine int
		Code    string
	}
	SaveEdit   struct{ Index int }
	CancelEdit struct{}

	DismissNotice  struct{}
	SessionChanged struct{ Session Session }
)

func (BranchesLoaded) isAction() {}
func (SelectBranch) isAction()   {}
func (SelectFile) isAction()     {}
func (Next) isAction()           {}
func (Back) isAction()           {}
func (Approve) isAction()        {}
func (Uploaded) isAction()       {}
func (Generated) isAction()      {}
func (CommitDone) isAction()     {}
func (RequestFailed) isAction()  {}
func (StartEdit) isAction()      {}
func (EditBlock) isAction()      {}
func (SaveEdit) isAction()       {}
func (CancelEdit) isAction()     {}
func (DismissNotice) isAction()  {}
func (SessionChanged) isAction() {}

const (
	msgBranchList = "Failed to get branch list. Please try again!!"

	msgUploaded     = "Found File changes!!!"
	msgUploadFailed = "Failed to uploading. Please try again!!"

	msgGenerated         = "Testcases generated successfully!!"
	msgGenerateFailed    = "Failed to generate Testcases. Please try again or Select another file!!"
	msgGenerateTransport = "Failed Generating. Please try again!!"

	msgCommitted       = "Test files committed successfully!!"
	msgCommitFailed    = "Failed to Commit File. Please try again!!"
	msgCommitTransport = "Failed to commit changes. Please try again!!"
)

// Reduce returns the state after applying a. It never mutates w's maps or
// slices in place.
func Reduce(w Wizard, a Action) Wizard {
	switch a := a.(type) {
	case BranchesLoaded:
		if a.Err != nil {
			if detail, ok := api.Detail(a.Err); ok {
				w.Notice = &Notice{Level: Warning, Message: detail}
				return w
			}
			w.Notice = &Notice{Level: Error, Message: msgBranchList}
			return w
		}
		w.Branches = a.Branches
		return w

	case SelectBranch:
		if w.IsLoading() || w.Step != StepSelectBranch {
			return w
		}
		w.Branch = a.Branch
		return w

	case SelectFile:
		if w.IsLoading() || w.Step != StepChooseFile {
			return w
		}
		w.File = a.File
		return w

	case Next:
		return next(w)

	case Back:
		if !w.CanGoBack() {
			return w
		}
		w.Step--
		w.Status = Ready{Step: w.Step}
		return w

	case Approve:
		if w.Step != StepReviewTests || w.IsLoading() || w.Editing {
			return w
		}
		if a.Index < 0 || a.Index >= len(w.Tests) {
			return w
		}
		w.Approved = a.Index
		w.Status = Loading{Step: StepReviewTests}
		w.Notice = nil
		return w

	case Uploaded:
		if !w.LoadingFor(StepSelectBranch) {
			return w
		}
		w.Changed = a.Changed
		if !a.Changed.HasFile(w.File) {
			w.File = ""
		}
		return advance(w, StepChooseFile, msgUploaded)

	case Generated:
		if !w.LoadingFor(StepChooseFile) {
			return w
		}
		w.Tests = a.Tests
		w.Drafts = nil
		w.Editing = false
		w.Approved = 0
		return advance(w, StepReviewTests, msgGenerated)

	case CommitDone:
		if !w.LoadingFor(StepReviewTests) {
			return w
		}
		change := a.Change
		w.Committed = &change
		return advance(w, StepCommitted, msgCommitted)

	case RequestFailed:
		if !w.LoadingFor(a.Step) {
			return w
		}
		n := failureNotice(a.Step, a.Err)
		w.Status = Failed{Step: a.Step, Notice: n}
		w.Notice = &n
		return w

	case StartEdit:
		if w.Step != StepReviewTests || w.IsLoading() || w.Editing {
			return w
		}
		drafts := make(map[int]string, len(w.Tests))
		for i, tc := range w.Tests {
			drafts[i] = tc.UnitTest
		}
		w.Drafts = drafts
		w.Editing = true
		return w

	case EditBlock:
		if !w.Editing {
			return w
		}
		text, ok := w.Drafts[a.Test]
		if !ok {
			return w
		}
		out, _, replaced := markdown.ReplaceCode(text, a.EndLine, a.Code)
		if !replaced {
			return w
		}
		drafts := make(map[int]string, len(w.Drafts))
		for k, v := range w.Drafts {
			drafts[k] = v
		}
		drafts[a.Test] = out
		w.Drafts = drafts
		return w

	case SaveEdit:
		if !w.Editing {
			return w
		}
		tests := make([]models.TestCase, len(w.Tests))
		copy(tests, w.Tests)
		if d, ok := w.Drafts[a.Index]; ok && a.Index >= 0 && a.Index < len(tests) {
			tests[a.Index].UnitTest = d
		}
		w.Tests = tests
		w.Drafts = nil
		w.Editing = false
		return w

	case CancelEdit:
		w.Drafts = nil
		w.Editing = false
		return w

	case DismissNotice:
		w.Notice = nil
		return w

	case SessionChanged:
		return New(a.Session)
	}
	return w
}

func next(w Wizard) Wizard {
	if w.IsLoading() || w.Editing {
		return w
	}
	switch w.Step {
	case StepSelectBranch:
		if strings.TrimSpace(w.Branch) == "" {
			return w
		}
	case StepChooseFile:
		if w.File == "" {
			return w
		}
	default:
		return w
	}
	w.Status = Loading{Step: w.Step}
	w.Notice = nil
	return w
}

func advance(w Wizard, to Step, msg string) Wizard {
	w.Step = to
	w.Status = Ready{Step: to}
	w.Notice = &Notice{Level: Success, Message: msg}
	return w
}

// failureNotice maps an error from the request leaving step to what the user
// sees. A backend detail is always a warning with the backend's text.
func failureNotice(step Step, err error) Notice {
	if detail, ok := api.Detail(err); ok {
		return Notice{Level: Warning, Message: detail}
	}

	transport := api.IsTransport(err) || !errors.Is(err, api.ErrUnexpected)
	var msg string
	switch step {
	case StepSelectBranch:
		msg = msgUploadFailed
	case StepChooseFile:
		msg = msgGenerateFailed
		if transport {
			msg = msgGenerateTransport
		}
	case StepReviewTests:
		msg = msgCommitFailed
		if transport {
			msg = msgCommitTransport
		}
	}
	return Notice{Level: Error, Message: msg}
}

// CommitRequest builds the create-unit-test body for the approved test.
func (w Wizard) CommitRequest() (models.CreateUnitTestRequest, bool) {
	if w.Approved < 0 || w.Approved >= len(w.Tests) {
		return models.CreateUnitTestRequest{}, false
	}
	tc := w.Tests[w.Approved]
	file := tc.File
	if file == "" {
		file = w.File
	}
	return models.CreateUnitTestRequest{
		ProjectID:    w.Session.ProjectID,
		TestFileName: models.TestFileName(file),
		BranchName:   w.Branch,
		UnitTest:     markdown.ExtractCodeBlocks(tc.UnitTest),
	}, true
}
