// Package wizard holds the test-generation flow: branch, file, generated
// tests, commit. State changes go through Reduce; network calls go through
// Driver.
package wizard

import (
	"github.com/autodeviq/autodev/internal/models"
)

// Step is a position in the wizard.
type Step int

const (
	StepSelectBranch Step = iota
	StepChooseFile
	StepReviewTests
	StepCommitted
)

var stepLabels = [...]string{"Select Branch", "Choose Files", "Generated Tests", "Git Actions"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepLabels) {
		return "Unknown"
	}
	return stepLabels[s]
}

// Labels returns the stepper captions in order.
func Labels() []string {
	return stepLabels[:]
}

// Session is the project the wizard works against. It is only ever replaced
// whole, through SessionChanged.
type Session struct {
	ProjectID   string
	ProjectType string
	GitURL      string
	MainBranch  string
}

// Level is the severity of a Notice.
type Level int

const (
	Success Level = iota
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "success"
	}
}

// Notice is a dismissible user-facing message.
type Notice struct {
	Level   Level
	Message string
}

// Status is one of Idle, Loading, Ready or Failed.
type Status interface {
	isStatus()
}

// Idle means nothing has happened since the session was set.
type Idle struct{}

// Loading means the request that leaves Step is in flight.
type Loading struct{ Step Step }

// Ready means Step's data is in place and the user can act.
type Ready struct{ Step Step }

// Failed means the request that would have left Step did not succeed.
type Failed struct {
	Step   Step
	Notice Notice
}

func (Idle) isStatus()    {}
func (Loading) isStatus() {}
func (Ready) isStatus()   {}
func (Failed) isStatus()  {}

// Wizard is the whole state of the flow. Downstream data survives stepping
// back so the user can move forward again without refetching.
type Wizard struct {
	Session Session
	Step    Step
	Status  Status

	Branches models.BranchList
	Branch   string
	Changed  models.ChangedBranch
	File     string
	Tests    []models.TestCase

	// Drafts holds the edited text of each test case while Editing.
	Drafts   map[int]string
	Editing  bool
	Approved int

	Committed *models.CommittedChange
	Notice    *Notice
}

// New returns an idle wizard for session.
func New(session Session) Wizard {
	return Wizard{Session: session, Status: Idle{}}
}

// IsLoading reports whether a request is in flight.
func (w Wizard) IsLoading() bool {
	_, ok := w.Status.(Loading)
	return ok
}

// LoadingFor reports whether the request leaving step is in flight.
func (w Wizard) LoadingFor(step Step) bool {
	l, ok := w.Status.(Loading)
	return ok && l.Step == step
}

// CanGoBack reports whether Back would do anything.
func (w Wizard) CanGoBack() bool {
	return w.Step > StepSelectBranch && !w.IsLoading() && !w.Editing
}

// TestText returns the text shown for test i: the draft while editing,
// otherwise the generated text.
func (w Wizard) TestText(i int) string {
	if w.Editing {
		if d, ok := w.Drafts[i]; ok {
			return d
		}
	}
	if i < 0 || i >= len(w.Tests) {
		return ""
	}
	return w.Tests[i].UnitTest
}
