// Package vrt runs a visual regression comparison between a project's base
// deployment and a freshly cloned feature branch.
package vrt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/autodeviq/autodev/internal/logging"
	"github.com/autodeviq/autodev/internal/models"
)

// Backend is the part of the API the runner calls.
type Backend interface {
	Projects(ctx context.Context) ([]models.Project, error)
	ListFeatureBranches(ctx context.Context, projectID string) (models.BranchList, error)
	CloneFeatureBranch(ctx context.Context, gitURL, branch string) (string, error)
	RunReact(ctx context.Context, projectID string) (models.PreviewServer, error)
	RunVRT(ctx context.Context, baseURL, testURL string, openBrowser bool) (models.VrtResult, error)
	StopContainer(ctx context.Context, name string) error
}

// Stage is one step of a run.
type Stage int

const (
	StageClone Stage = iota
	StageBase
	StageFeature
	StageCompare
)

var stageMessages = [...]string{
	"Cloning the feature branch",
	"Starting the base project",
	"Launching the feature project",
	"Generating snapshots and AI summary",
}

// String returns the progress message shown while the stage runs.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageMessages) {
		return "Unknown stage"
	}
	return stageMessages[s]
}

// StageError reports which stage aborted a run.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", strings.ToLower(e.Stage.String()), e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingGitURL  = errors.New("no git url selected")
	ErrMissingBranch  = errors.New("no feature branch selected")
	ErrMissingProject = errors.New("no base project selected")
)

// Request describes one run.
type Request struct {
	GitURL        string
	BaseProjectID string
	FeatureBranch string
	OpenBrowser   bool
}

// Validate checks the request has everything the chain needs.
func (r Request) Validate() error {
	switch {
	case strings.TrimSpace(r.GitURL) == "":
		return ErrMissingGitURL
	case strings.TrimSpace(r.FeatureBranch) == "":
		return ErrMissingBranch
	case strings.TrimSpace(r.BaseProjectID) == "":
		return ErrMissingProject
	}
	return nil
}

// Outcome is everything a successful run produced.
type Outcome struct {
	Result          models.VrtResult
	ClonedProjectID string
	Base            models.PreviewServer
	Feature         models.PreviewServer
}

// ProgressFunc is called as each stage starts.
type ProgressFunc func(Stage)

// Runner chains clone, base preview, feature preview and comparison.
type Runner struct {
	backend        Backend
	logger         *log.Logger
	stopContainers bool
	stopTimeout    time.Duration
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithStopContainers makes the runner stop the preview containers it
// started once the run is over, successful or not.
func WithStopContainers(stop bool) Option {
	return func(r *Runner) { r.stopContainers = stop }
}

// NewRunner returns a runner over backend.
func NewRunner(backend Backend, opts ...Option) *Runner {
	r := &Runner{
		backend:     backend,
		logger:      logging.Discard(),
		stopTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the chain in order. The first failure aborts the rest and is
// returned as a *StageError. Nothing is retried.
func (r *Runner) Run(ctx context.Context, req Request, progress ProgressFunc) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	if progress == nil {
		progress = func(Stage) {}
	}

	var (
		out     Outcome
		started []string
	)
	defer func() {
		if r.stopContainers {
			r.stop(ctx, started)
		}
	}()

	progress(StageClone)
	r.logger.Info("cloning feature branch", "git_url", req.GitURL, "branch", req.FeatureBranch)
	cloned, err := r.backend.CloneFeatureBranch(ctx, req.GitURL, req.FeatureBranch)
	if err != nil {
		return out, r.fail(StageClone, err)
	}
	out.ClonedProjectID = cloned

	progress(StageBase)
	r.logger.Info("starting base preview", "project", req.BaseProjectID)
	out.Base, err = r.backend.RunReact(ctx, req.BaseProjectID)
	if err != nil {
		return out, r.fail(StageBase, err)
	}
	started = appendContainer(started, out.Base)

	progress(StageFeature)
	r.logger.Info("starting feature preview", "project", cloned)
	out.Feature, err = r.backend.RunReact(ctx, cloned)
	if err != nil {
		return out, r.fail(StageFeature, err)
	}
	started = appendContainer(started, out.Feature)

	progress(StageCompare)
	r.logger.Info("comparing", "base", out.Base.URL, "test", out.Feature.URL)
	out.Result, err = r.backend.RunVRT(ctx, out.Base.URL, out.Feature.URL, req.OpenBrowser)
	if err != nil {
		return out, r.fail(StageCompare, err)
	}

	r.logger.Info("comparison done", "has_diff", out.Result.HasDiff, "changes", len(out.Result.LlamaOutput.Changes))
	return out, nil
}

func (r *Runner) fail(stage Stage, err error) error {
	r.logger.Error("vrt run failed", "stage", stage, "err", err)
	return &StageError{Stage: stage, Err: err}
}

// stop is best-effort: failures are logged and otherwise ignored.
func (r *Runner) stop(ctx context.Context, containers []string) {
	if len(containers) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.stopTimeout)
	defer cancel()

	for _, name := range containers {
		if err := r.backend.StopContainer(ctx, name); err != nil {
			r.logger.Warn("stop container", "name", name, "err", err)
			continue
		}
		r.logger.Debug("stopped container", "name", name)
	}
}

func appendContainer(names []string, srv models.PreviewServer) []string {
	if srv.Container == "" {
		return names
	}
	for _, n := range names {
		if n == srv.Container {
			return names
		}
	}
	return append(names, srv.Container)
}
