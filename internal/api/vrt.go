package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/autodeviq/autodev/internal/models"
)

type runReactResponse struct {
	Status string               `json:"status"`
	URL    models.PreviewServer `json:"url"`
}

// RunReact starts a preview deployment of the project and returns where it
// listens.
func (c *Client) RunReact(ctx context.Context, projectID string) (models.PreviewServer, error) {
	const op = "run react"
	body := map[string]string{"project_id": projectID}

	var resp runReactResponse
	if err := c.do(ctx, op, http.MethodPost, "/run-react", nil, body, &resp); err != nil {
		return models.PreviewServer{}, err
	}
	if resp.URL.URL == "" {
		return models.PreviewServer{}, unexpected(op, "preview server did not start")
	}
	return resp.URL, nil
}

// RunVRT screenshots both deployments, diffs them and attaches the AI summary.
func (c *Client) RunVRT(ctx context.Context, baseURL, testURL string, openBrowser bool) (models.VrtResult, error) {
	body := map[string]any{
		"base_url":     baseURL,
		"test_url":     testURL,
		"open_browser": openBrowser,
	}

	var result models.VrtResult
	if err := c.do(ctx, "run vrt", http.MethodPost, "/run-vrt", nil, body, &result); err != nil {
		return models.VrtResult{}, err
	}
	return result, nil
}

// StopContainer removes a preview container started by RunReact.
func (c *Client) StopContainer(ctx context.Context, name string) error {
	q := url.Values{"container_name": {name}}
	return c.do(ctx, "stop container", http.MethodPost, "/stop-container", q, nil, nil)
}
