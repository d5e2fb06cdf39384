package cmd

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/autodeviq/autodev/internal/config"
	"github.com/autodeviq/autodev/internal/models"
)

// backend is a fake AutoDev IQ server with one registered project.
type backend struct {
	mu    sync.Mutex
	paths []string
	url   string
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{}
	png := base64.StdEncoding.EncodeToString(make([]byte, 2048))

	mux := http.NewServeMux()
	mux.HandleFunc("/projects", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"projects": []models.Project{
			{ProjectID: "shop", GitURL: "https://github.com/acme/shop.git", ProjectType: "react", MainBranch: "develop"},
			{ProjectID: "api", GitURL: "https://github.com/acme/api", ProjectType: "java"},
		}})
	})
	mux.HandleFunc("/list-feature-branches", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []string{"develop", "feature/nav", "main"})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "success", "project_id": "acme_blog"})
	})
	mux.HandleFunc("/clone-feature-branch", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "success", "project_id": "shop-nav"})
	})
	mux.HandleFunc("/run-react", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		port := 4000
		if body["project_id"] != "shop" {
			port = 4001
		}
		writeJSON(w, map[string]any{"status": "success", "url": []any{
			"http://localhost:" + strconv.Itoa(port), body["project_id"], port,
		}})
	})
	mux.HandleFunc("/run-vrt", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, models.VrtResult{
			Message:    "VRT done with visual mismatches.",
			HTMLReport: "/reports/index.html",
			HasDiff:    true,
			BaseImage:  png,
			DiffImage:  png,
			LlamaOutput: models.LlamaOutput{Changes: []models.VrtChange{
				{Selector: "#nav", AISuggestion: "The menu wrapped.\nWiden it."},
			}},
		})
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.paths = append(b.paths, r.URL.Path)
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	b.url = srv.URL
	return b
}

func (b *backend) Paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.paths...)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// runCLI executes the root command with a clean config home.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("AUTODEV_HOME", t.TempDir())
	t.Setenv("AUTODEV_PROJECT_ID", "")
	t.Setenv("AUTODEV_GIT_URL", "")

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestProjectsJSON(t *testing.T) {
	b := newBackend(t)
	out, _, err := runCLI(t, "", "projects", "--api-url", b.url, "-o", "json")
	require.NoError(t, err)

	var projects []models.Project
	require.NoError(t, json.Unmarshal([]byte(out), &projects))
	require.Len(t, projects, 2)
	assert.Equal(t, "shop", projects[0].ProjectID)
}

func TestProjectsText(t *testing.T) {
	b := newBackend(t)
	out, _, err := runCLI(t, "", "projects", "--api-url", b.url)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "develop")
	assert.Contains(t, lines[2], "main", "missing main branch defaults to main")
}

func TestBranchesExcludesMainBranch(t *testing.T) {
	b := newBackend(t)
	out, _, err := runCLI(t, "", "branches", "--api-url", b.url, "--project", "shop", "-o", "yaml")
	require.NoError(t, err)

	var report branchesReport
	require.NoError(t, yaml.Unmarshal([]byte(out), &report))
	assert.Equal(t, "shop", report.ProjectID)
	assert.Equal(t, "develop", report.MainBranch)
	assert.Equal(t, models.BranchList{"feature/nav", "main"}, report.Branches)
}

func TestBranchesUnknownProject(t *testing.T) {
	b := newBackend(t)
	_, _, err := runCLI(t, "", "branches", "--api-url", b.url, "--project", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"nope" is not registered`)
}

func TestBadOutputFormat(t *testing.T) {
	b := newBackend(t)
	_, _, err := runCLI(t, "", "projects", "--api-url", b.url, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
	assert.Empty(t, b.Paths(), "nothing is fetched for a bad format")
}

func TestVRTRun(t *testing.T) {
	b := newBackend(t)
	dir := filepath.Join(t.TempDir(), "shots")

	out, stderr, err := runCLI(t, "", "vrt", "run",
		"--api-url", b.url,
		"--git-url", "git@github.com:acme/shop.git",
		"--branch", "feature/nav",
		"--save-images", dir,
	)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/projects",
		"/list-feature-branches",
		"/clone-feature-branch",
		"/run-react",
		"/run-react",
		"/run-vrt",
	}, b.Paths())

	assert.Contains(t, stderr, "Cloning the feature branch...")
	assert.Contains(t, stderr, "Generating snapshots and AI summary...")

	assert.Contains(t, out, "VRT done with visual mismatches.")
	assert.Contains(t, out, "Has diff: true")
	assert.Contains(t, out, "Image:    base (2 KB)")
	assert.Contains(t, out, "  #nav\n    The menu wrapped.\n    Widen it.\n")

	_, err = os.Stat(filepath.Join(dir, "diff.png"))
	assert.NoError(t, err)
}

func TestVRTRunJSON(t *testing.T) {
	b := newBackend(t)
	out, _, err := runCLI(t, "", "vrt", "run", "--api-url", b.url,
		"--git-url", "https://github.com/acme/shop", "--branch", "feature/nav", "-o", "json")
	require.NoError(t, err)

	var report vrtReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "shop", report.BaseProjectID)
	assert.Equal(t, "shop-nav", report.ClonedProjectID)
	assert.Equal(t, "http://localhost:4000", report.BaseURL)
	assert.Equal(t, "http://localhost:4001", report.FeatureURL)
	assert.True(t, report.Result.HasDiff)
}

func TestVRTRunRejectsBaseBranch(t *testing.T) {
	b := newBackend(t)
	_, _, err := runCLI(t, "", "vrt", "run", "--api-url", b.url,
		"--git-url", "https://github.com/acme/shop", "--branch", "develop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base branch")
	assert.NotContains(t, b.Paths(), "/clone-feature-branch")
}

func TestVRTRunUnknownRepository(t *testing.T) {
	b := newBackend(t)
	_, _, err := runCLI(t, "", "vrt", "run", "--api-url", b.url,
		"--git-url", "https://github.com/acme/blog", "--branch", "feature/x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestProjectsAddSave(t *testing.T) {
	b := newBackend(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, "", "projects", "add", "https://github.com/acme/blog",
		"--api-url", b.url, "--config", cfgPath, "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered https://github.com/acme/blog as acme_blog")

	cfg, err := config.LoadFrom(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "acme_blog", cfg.ProjectID)
	assert.Equal(t, "https://github.com/acme/blog", cfg.GitURL)
	assert.Equal(t, config.DefaultConfig().APIURL, cfg.APIURL, "flag values stay out of the file")
}

func TestProjectsAddRejectsNonGitHub(t *testing.T) {
	b := newBackend(t)
	_, _, err := runCLI(t, "", "projects", "add", "ftp://example.com/repo", "--api-url", b.url)
	require.Error(t, err)
	assert.Empty(t, b.Paths())
}

const generatedTest = "Tests for the cart.\n```js\nit('adds', () => {})\n```\nAnd <more>.\n```\nexpect(1)\n```"

func TestRenderCode(t *testing.T) {
	out, _, err := runCLI(t, generatedTest, "render")
	require.NoError(t, err)
	assert.Equal(t, "it('adds', () => {})\n\nexpect(1)\n", out)
}

func TestRenderHTMLEscapesProse(t *testing.T) {
	out, _, err := runCLI(t, generatedTest, "render", "--mode", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "And &lt;more&gt;.")
	assert.Contains(t, out, "<pre><code>")
}

func TestRenderBlocksFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.md")
	require.NoError(t, os.WriteFile(path, []byte("intro\n```go\nx := 1"), 0644))

	out, _, err := runCLI(t, "", "render", path, "--mode", "blocks", "-o", "json", "--edit")
	require.NoError(t, err)

	var blocks []blockReport
	require.NoError(t, json.Unmarshal([]byte(out), &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, "prose", blocks[0].Kind)
	assert.Equal(t, blockReport{
		Kind:       "code",
		Key:        "last-code",
		Lang:       "go",
		Closed:     false,
		Background: "#ffffff",
		Foreground: "#000000",
		Text:       "x := 1",
	}, blocks[1])
}

func TestRenderUnknownMode(t *testing.T) {
	_, _, err := runCLI(t, "x", "render", "--mode", "pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
