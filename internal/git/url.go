package git

import (
	"regexp"
	"strings"
)

var (
	scpRemote  = regexp.MustCompile(`^git@([^:]+):`)
	sshRemote  = regexp.MustCompile(`^ssh://git@([^/]+)/`)
	githubRepo = regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)$`)
	githubURL  = regexp.MustCompile(`^https://(www\.)?github\.com/[\w.-]+/[\w.-]+/?$`)
)

// Repo is a GitHub owner/name pair.
type Repo struct {
	Owner string
	Name  string
}

func (r Repo) String() string {
	return r.Owner + "/" + r.Name
}

// NormalizeRemote rewrites ssh remotes to https and drops a trailing .git
// and slashes.
func NormalizeRemote(url string) string {
	url = strings.TrimSpace(url)
	url = scpRemote.ReplaceAllString(url, "https://$1/")
	url = sshRemote.ReplaceAllString(url, "https://$1/")
	url = strings.TrimSuffix(url, ".git")
	return strings.TrimRight(url, "/")
}

// ParseGitHubURL extracts owner and repository from an https or ssh GitHub
// remote.
func ParseGitHubURL(url string) (Repo, bool) {
	if url == "" {
		return Repo{}, false
	}
	m := githubRepo.FindStringSubmatch(NormalizeRemote(url))
	if m == nil {
		return Repo{}, false
	}
	return Repo{Owner: m[1], Name: m[2]}, true
}

// IsValidGitHubURL reports whether url is an https GitHub repository URL.
func IsValidGitHubURL(url string) bool {
	return githubURL.MatchString(strings.TrimSpace(url))
}

// SameRepo reports whether two remotes point at the same repository, so
// "git@github.com:a/b.git" matches "https://github.com/a/b".
func SameRepo(a, b string) bool {
	return NormalizeRemote(a) == NormalizeRemote(b)
}
