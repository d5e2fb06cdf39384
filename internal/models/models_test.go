package models

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterFeatureBranches(t *testing.T) {
	in := []string{"main", "feature/a", "", "master", "feature/b", "develop"}

	got := FilterFeatureBranches(in, "develop")
	assert.Equal(t, BranchList{"main", "feature/a", "master", "feature/b"}, got)

	got = FilterFeatureBranches(in, "develop", "main", "master")
	assert.Equal(t, BranchList{"feature/a", "feature/b"}, got)

	assert.Empty(t, FilterFeatureBranches(nil, "main"))
}

func TestTestFileName(t *testing.T) {
	cases := map[string]string{
		"Button.jsx":      "Button",
		"Service.JAVA":    "Service",
		"index.js":        "index",
		"App.tsx":         "App",
		"types.ts":        "types.ts",
		"no-extension":    "no-extension",
		"archive.js.orig": "archive.js.orig",
	}
	for in, want := range cases {
		assert.Equal(t, want, TestFileName(in), in)
	}
}

func TestVrtResultSuggestions(t *testing.T) {
	r := VrtResult{LlamaOutput: LlamaOutput{Changes: []VrtChange{
		{Selector: "#a", AISuggestion: "first\n\nsecond\n"},
		{Selector: "#b"},
		{Selector: "#c", AISuggestion: "third"},
	}}}

	s := r.Suggestions()
	require.Len(t, s, 2)
	assert.Equal(t, "#a", s[0].Selector)
	assert.Equal(t, []string{"first", "second"}, s[0].SuggestionLines())
	assert.Equal(t, "#c", s[1].Selector)
}

func TestVrtResultDecodeImages(t *testing.T) {
	r := VrtResult{
		BaseImage: base64.StdEncoding.EncodeToString([]byte("base")),
		DiffImage: base64.StdEncoding.EncodeToString([]byte("diff")),
	}
	snaps, err := r.DecodeImages()
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "base", snaps[0].Name)
	assert.Equal(t, []byte("base"), snaps[0].Data)
	assert.Equal(t, "diff", snaps[1].Name)

	_, err = VrtResult{TestImage: "%%%"}.DecodeImages()
	assert.Error(t, err)
}

func TestPreviewServerDecodesTuple(t *testing.T) {
	var body struct {
		URL PreviewServer `json:"url"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"url":["http://localhost:4100","shop-feature-x",4100]}`), &body))
	assert.Equal(t, "http://localhost:4100", body.URL.URL)
	assert.Equal(t, "shop-feature-x", body.URL.Container)
	assert.Equal(t, 4100, body.URL.Port)

	require.NoError(t, json.Unmarshal([]byte(`{"url":"http://localhost:5000"}`), &body))
	assert.Equal(t, "http://localhost:5000", body.URL.URL)
}

func TestProjectLookup(t *testing.T) {
	projects := []Project{
		{ProjectID: "shop", GitURL: "https://github.com/acme/shop.git"},
		{ProjectID: "blog", GitURL: "https://github.com/acme/blog.git", MainBranch: "trunk"},
	}

	p, ok := FindProjectByGitURL(projects, "https://github.com/acme/blog.git")
	require.True(t, ok)
	assert.Equal(t, "trunk", p.BaseBranch())

	p, ok = FindProject(projects, "shop")
	require.True(t, ok)
	assert.Equal(t, "main", p.BaseBranch())

	_, ok = FindProject(projects, "nope")
	assert.False(t, ok)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 KB", FormatSize(0))
	assert.Equal(t, "0.5 KB", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "3 MB", FormatSize(3<<20+1000))
	assert.Equal(t, "2.5 GB", FormatSize(5<<29))
}
