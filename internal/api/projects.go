package api

import (
	"context"
	"net/http"

	"github.com/autodeviq/autodev/internal/models"
)

// Projects lists every project the backend has indexed.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var resp struct {
		Projects []models.Project `json:"projects"`
	}
	if err := c.do(ctx, "list projects", http.MethodGet, "/projects", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// UploadProject clones and indexes the main branch of gitURL.
func (c *Client) UploadProject(ctx context.Context, gitURL string) (string, error) {
	const op = "upload project"

	var resp struct {
		Status    string `json:"status"`
		ProjectID string `json:"project_id"`
	}
	if err := c.do(ctx, op, http.MethodPost, "/upload", nil, map[string]string{"git_url": gitURL}, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" || resp.ProjectID == "" {
		return "", unexpected(op, "status "+quoteOrEmpty(resp.Status))
	}
	return resp.ProjectID, nil
}
