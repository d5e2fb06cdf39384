package git

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// CurrentBranch returns the name of the checked out branch. It is empty on a
// detached HEAD.
func CurrentBranch() (string, error) {
	cmd := exec.Command("git", "branch", "--show-current")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// DefaultBranch detects the repository's default branch on origin.
func DefaultBranch() (string, error) {
	// symbolic-ref is set by clone and is the cheapest answer
	cmd := exec.Command("git", "symbolic-ref", "refs/remotes/origin/HEAD", "--short")
	output, err := cmd.Output()
	if err == nil {
		return strings.TrimPrefix(strings.TrimSpace(string(output)), "origin/"), nil
	}

	cmd = exec.Command("git", "remote", "show", "origin")
	output, err = cmd.Output()
	if err == nil {
		if name := parseRemoteHead(output); name != "" {
			return name, nil
		}
	}

	for _, name := range []string{"main", "master", "dev", "develop"} {
		cmd = exec.Command("git", "rev-parse", "--verify", "--quiet", "origin/"+name)
		if err := cmd.Run(); err == nil {
			return name, nil
		}
	}

	return "", fmt.Errorf("could not detect default branch")
}

// parseRemoteHead reads the "HEAD branch: x" line of git remote show.
func parseRemoteHead(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		name, ok := strings.CutPrefix(line, "HEAD branch:")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "(unknown)" {
			return ""
		}
		return name
	}
	return ""
}

// Unpushed returns how many commits on branch are not on its origin
// counterpart. The backend only sees pushed work.
func Unpushed(branch string) (int, error) {
	target := fmt.Sprintf("origin/%s...%s", branch, branch)
	cmd := exec.Command("git", "rev-list", "--left-right", "--count", target)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("failed to compare with origin: %w", err)
	}
	_, ahead, err := parseLeftRight(output)
	return ahead, err
}

// parseLeftRight reads "behind<TAB>ahead" from rev-list --left-right --count.
func parseLeftRight(output []byte) (behind, ahead int, err error) {
	parts := strings.Fields(strings.TrimSpace(string(output)))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected git rev-list output %q", string(output))
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &behind); err != nil {
		return 0, 0, fmt.Errorf("parse behind count: %w", err)
	}
	if _, err := fmt.Sscanf(parts[1], "%d", &ahead); err != nil {
		return 0, 0, fmt.Errorf("parse ahead count: %w", err)
	}
	return behind, ahead, nil
}
