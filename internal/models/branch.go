package models

import "strings"

// Branch is a remote branch name as reported by the backend, e.g. "feature/login".
type Branch string

// BranchList is the ordered branch listing returned by list-feature-branches.
type BranchList []string

// FilterFeatureBranches drops the project's main branch and any extra names,
// keeping the backend's order. Blank entries are dropped too.
func FilterFeatureBranches(branches []string, mainBranch string, exclude ...string) BranchList {
	skip := map[string]bool{}
	if mainBranch != "" {
		skip[mainBranch] = true
	}
	for _, name := range exclude {
		skip[name] = true
	}

	out := BranchList{}
	for _, b := range branches {
		if strings.TrimSpace(b) == "" || skip[b] {
			continue
		}
		out = append(out, b)
	}
	return out
}

// ChangedBranch is the result of uploading a feature branch for diffing.
type ChangedBranch struct {
	FeatureID    string   `json:"feature_id" yaml:"feature_id"`
	FilesChanged int      `json:"files_changed" yaml:"files_changed"`
	FileNames    []string `json:"file_names" yaml:"file_names"`
}

// HasFile reports whether name is one of the changed files.
func (c ChangedBranch) HasFile(name string) bool {
	for _, f := range c.FileNames {
		if f == name {
			return true
		}
	}
	return false
}
