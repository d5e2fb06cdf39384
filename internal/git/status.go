package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// IsRepo reports whether the working directory is inside a git work tree.
func IsRepo() bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	output, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// OriginURL returns the fetch URL of the origin remote.
func OriginURL() (string, error) {
	cmd := exec.Command("git", "remote", "get-url", "origin")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to read origin url: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ChangedFiles lists paths with uncommitted changes, staged or not.
func ChangedFiles() ([]string, error) {
	cmd := exec.Command("git", "status", "--porcelain=v1")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get status: %w", err)
	}
	return parseStatus(output), nil
}

// parseStatus parses git status --porcelain output.
// Format: XY PATH, or XY OLD -> NEW for renames.
func parseStatus(output []byte) []string {
	var files []string
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, renamed, ok := strings.Cut(path, " -> "); ok {
			path = renamed
		}
		files = append(files, path)
	}
	return files
}

// Probe is what autodev learns about the repository it was started in.
type Probe struct {
	OriginURL     string
	DefaultBranch string
	CurrentBranch string
	Unpushed      int
	Dirty         bool
}

// Inspect gathers a Probe. Outside a repository it returns ok=false; inside
// one, missing pieces are left zero.
func Inspect() (Probe, bool) {
	if !IsRepo() {
		return Probe{}, false
	}
	var p Probe
	p.OriginURL, _ = OriginURL()
	p.DefaultBranch, _ = DefaultBranch()
	p.CurrentBranch, _ = CurrentBranch()
	if p.CurrentBranch != "" {
		p.Unpushed, _ = Unpushed(p.CurrentBranch)
	}
	if files, err := ChangedFiles(); err == nil {
		p.Dirty = len(files) > 0
	}
	return p, true
}
