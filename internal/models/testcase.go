package models

import (
	"encoding/json"
	"regexp"
)

// TestCase is one generated test. UnitTest is markdown that interleaves
// prose with fenced code blocks.
type TestCase struct {
	File     string `json:"file" yaml:"file"`
	UnitTest string `json:"unit_test" yaml:"unit_test"`
}

// CommittedChange is the confirmation returned after a test file is committed.
type CommittedChange struct {
	ProjectID    string          `json:"project_id" yaml:"project_id"`
	ProjectType  string          `json:"project_type" yaml:"project_type"`
	BranchName   string          `json:"branch_name" yaml:"branch_name"`
	TestFilePath string          `json:"test_file_path" yaml:"test_file_path"`
	GitResult    json.RawMessage `json:"git_result,omitempty" yaml:"-"`
}

// CreateUnitTestRequest is the body of create-unit-test.
type CreateUnitTestRequest struct {
	ProjectID    string `json:"project_id"`
	TestFileName string `json:"test_file_name"`
	BranchName   string `json:"branch_name"`
	UnitTest     string `json:"unit_test"`
}

var sourceExt = regexp.MustCompile(`(?i)\.(java|js|jsx|tsx)$`)

// TestFileName strips the source extension the backend appends its own
// test suffix to: "Button.jsx" -> "Button".
func TestFileName(file string) string {
	return sourceExt.ReplaceAllString(file, "")
}
