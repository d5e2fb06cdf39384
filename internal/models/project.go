package models

// Project is an uploaded repository known to the backend.
type Project struct {
	ProjectID   string `json:"project_id" yaml:"project_id"`
	GitURL      string `json:"git_url" yaml:"git_url"`
	ProjectType string `json:"project_type" yaml:"project_type"`
	MainBranch  string `json:"main_branch" yaml:"main_branch"`
}

// BaseBranch returns the project's main branch, "main" if unset.
func (p Project) BaseBranch() string {
	if p.MainBranch == "" {
		return "main"
	}
	return p.MainBranch
}

// FindProjectByGitURL returns the project whose git_url matches exactly.
func FindProjectByGitURL(projects []Project, gitURL string) (Project, bool) {
	for _, p := range projects {
		if p.GitURL == gitURL {
			return p, true
		}
	}
	return Project{}, false
}

// FindProject returns the project with the given id.
func FindProject(projects []Project, id string) (Project, bool) {
	for _, p := range projects {
		if p.ProjectID == id {
			return p, true
		}
	}
	return Project{}, false
}
