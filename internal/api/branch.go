package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/autodeviq/autodev/internal/models"
)

// ListFeatureBranches returns every remote branch of the project, main included.
func (c *Client) ListFeatureBranches(ctx context.Context, projectID string) (models.BranchList, error) {
	var branches models.BranchList
	q := url.Values{"project_id": {projectID}}
	if err := c.do(ctx, "list feature branches", http.MethodGet, "/list-feature-branches", q, nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

type uploadFeatureResponse struct {
	Status string `json:"status"`
	models.ChangedBranch
}

// UploadFeature checks out the feature branch on the backend and diffs it
// against main.
func (c *Client) UploadFeature(ctx context.Context, projectID, branch string) (models.ChangedBranch, error) {
	const op = "upload feature"
	body := map[string]string{
		"project_id":     projectID,
		"feature_branch": branch,
	}

	var resp uploadFeatureResponse
	if err := c.do(ctx, op, http.MethodPost, "/upload-feature", nil, body, &resp); err != nil {
		return models.ChangedBranch{}, err
	}
	if resp.Status != "success" {
		return models.ChangedBranch{}, unexpected(op, "status "+quoteOrEmpty(resp.Status))
	}
	return resp.ChangedBranch, nil
}

type cloneResponse struct {
	Status      string `json:"status"`
	ProjectID   string `json:"project_id"`
	ProjectPath string `json:"project_path"`
}

// CloneFeatureBranch clones a single branch of gitURL into its own project
// and returns the new project id.
func (c *Client) CloneFeatureBranch(ctx context.Context, gitURL, branch string) (string, error) {
	const op = "clone feature branch"
	body := map[string]string{
		"git_url": gitURL,
		"branch":  branch,
	}

	var resp cloneResponse
	if err := c.do(ctx, op, http.MethodPost, "/clone-feature-branch", nil, body, &resp); err != nil {
		return "", err
	}
	if resp.ProjectID == "" {
		return "", unexpected(op, "no project_id")
	}
	return resp.ProjectID, nil
}

func quoteOrEmpty(s string) string {
	if s == "" {
		return "<empty>"
	}
	return `"` + s + `"`
}
