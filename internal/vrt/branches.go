package vrt

import (
	"context"
	"errors"
	"fmt"

	"github.com/autodeviq/autodev/internal/git"
	"github.com/autodeviq/autodev/internal/models"
)

// ErrUnknownProject is returned when no backend project has the git URL.
var ErrUnknownProject = errors.New("project not registered with the backend")

// Branches is what the VRT screen offers for one repository.
type Branches struct {
	Project  models.Project
	Base     string
	Features models.BranchList
}

// LoadBranches finds the project registered for gitURL and lists its
// feature branches. The project's main branch, "main" and "master" are never
// offered as features.
func (r *Runner) LoadBranches(ctx context.Context, gitURL string) (Branches, error) {
	projects, err := r.backend.Projects(ctx)
	if err != nil {
		return Branches{}, fmt.Errorf("list projects: %w", err)
	}
	project, ok := findProject(projects, gitURL)
	if !ok {
		return Branches{}, fmt.Errorf("%s: %w", gitURL, ErrUnknownProject)
	}

	list, err := r.backend.ListFeatureBranches(ctx, project.ProjectID)
	if err != nil {
		return Branches{}, fmt.Errorf("list branches: %w", err)
	}

	return Branches{
		Project:  project,
		Base:     project.BaseBranch(),
		Features: models.FilterFeatureBranches(list, project.MainBranch, "main", "master"),
	}, nil
}

// findProject prefers an exact git_url match, then any remote spelling of
// the same repository.
func findProject(projects []models.Project, gitURL string) (models.Project, bool) {
	if p, ok := models.FindProjectByGitURL(projects, gitURL); ok {
		return p, true
	}
	for _, p := range projects {
		if git.SameRepo(p.GitURL, gitURL) {
			return p, true
		}
	}
	return models.Project{}, false
}
