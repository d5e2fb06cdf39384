package wizard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/autodeviq/autodev/internal/logging"
	"github.com/autodeviq/autodev/internal/models"
)

// Backend is the part of the API the wizard calls.
type Backend interface {
	ListFeatureBranches(ctx context.Context, projectID string) (models.BranchList, error)
	UploadFeature(ctx context.Context, projectID, branch string) (models.ChangedBranch, error)
	GenerateUnitTest(ctx context.Context, featureID, fileName string) ([]models.TestCase, error)
	CreateUnitTest(ctx context.Context, req models.CreateUnitTestRequest) (models.CommittedChange, error)
}

// Driver performs the request a Loading wizard is waiting for.
type Driver struct {
	backend Backend
	logger  *log.Logger
}

// NewDriver returns a driver over backend. A nil logger discards.
func NewDriver(backend Backend, logger *log.Logger) *Driver {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Driver{backend: backend, logger: logger}
}

// LoadBranches lists the session's feature branches, main branch excluded.
func (d *Driver) LoadBranches(ctx context.Context, s Session) Action {
	branches, err := d.backend.ListFeatureBranches(ctx, s.ProjectID)
	if err != nil {
		d.logger.Error("list branches", "project", s.ProjectID, "err", err)
		return BranchesLoaded{Err: err}
	}
	return BranchesLoaded{Branches: models.FilterFeatureBranches(branches, s.MainBranch)}
}

// Perform runs the one network call w is Loading for and returns the action
// that reports its outcome. It returns nil when w is not Loading.
func (d *Driver) Perform(ctx context.Context, w Wizard) Action {
	l, ok := w.Status.(Loading)
	if !ok {
		return nil
	}

	switch l.Step {
	case StepSelectBranch:
		d.logger.Info("uploading feature branch", "project", w.Session.ProjectID, "branch", w.Branch)
		changed, err := d.backend.UploadFeature(ctx, w.Session.ProjectID, w.Branch)
		if err != nil {
			return d.failed(l.Step, err)
		}
		return Uploaded{Changed: changed}

	case StepChooseFile:
		d.logger.Info("generating tests", "feature", w.Changed.FeatureID, "file", w.File)
		tests, err := d.backend.GenerateUnitTest(ctx, w.Changed.FeatureID, w.File)
		if err != nil {
			return d.failed(l.Step, err)
		}
		return Generated{Tests: tests}

	case StepReviewTests:
		req, ok := w.CommitRequest()
		if !ok {
			return d.failed(l.Step, fmt.Errorf("no test case at index %d", w.Approved))
		}
		d.logger.Info("committing test", "project", req.ProjectID, "branch", req.BranchName, "file", req.TestFileName)
		change, err := d.backend.CreateUnitTest(ctx, req)
		if err != nil {
			return d.failed(l.Step, err)
		}
		return CommitDone{Change: change}
	}
	return nil
}

func (d *Driver) failed(step Step, err error) Action {
	d.logger.Error("request failed", "step", step, "err", err)
	return RequestFailed{Step: step, Err: err}
}
