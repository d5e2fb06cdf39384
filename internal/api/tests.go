package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/autodeviq/autodev/internal/models"
)

type generateResponse struct {
	Status string            `json:"status"`
	Tests  []models.TestCase `json:"tests"`
}

// GenerateUnitTest asks the backend to write tests for one changed file of a
// feature. featureID comes from UploadFeature.
func (c *Client) GenerateUnitTest(ctx context.Context, featureID, fileName string) ([]models.TestCase, error) {
	const op = "generate unit test"
	body := map[string]string{
		"project_id": featureID,
		"file_name":  fileName,
	}

	var resp generateResponse
	if err := c.do(ctx, op, http.MethodPost, "/generate-unit-test", nil, body, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, unexpected(op, "status "+quoteOrEmpty(resp.Status))
	}
	return resp.Tests, nil
}

type createResponse struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message"`
	Data    *models.CommittedChange `json:"data"`
	Error   json.RawMessage         `json:"error"`
}

// CreateUnitTest writes the test file on the feature branch, commits and
// pushes it.
func (c *Client) CreateUnitTest(ctx context.Context, req models.CreateUnitTestRequest) (models.CommittedChange, error) {
	const op = "create unit test"

	var resp createResponse
	if err := c.do(ctx, op, http.MethodPost, "/create-unit-test", nil, req, &resp); err != nil {
		return models.CommittedChange{}, err
	}
	if !resp.Success {
		why := "success=false"
		if resp.Message != "" {
			why += ": " + resp.Message
		}
		return models.CommittedChange{}, unexpected(op, why)
	}
	if resp.Data == nil {
		return models.CommittedChange{}, nil
	}
	return *resp.Data, nil
}
