package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGitHubURL(t *testing.T) {
	tests := []struct {
		in    string
		want  Repo
		valid bool
	}{
		{"https://github.com/acme/shop", Repo{"acme", "shop"}, true},
		{"https://github.com/acme/shop.git", Repo{"acme", "shop"}, true},
		{"https://github.com/acme/shop/", Repo{"acme", "shop"}, true},
		{"git@github.com:acme/shop.git", Repo{"acme", "shop"}, true},
		{"ssh://git@github.com/acme/shop.git", Repo{"acme", "shop"}, true},
		{"https://gitlab.com/acme/shop", Repo{}, false},
		{"https://github.com/acme", Repo{}, false},
		{"https://github.com/acme/shop/tree/main", Repo{}, false},
		{"", Repo{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseGitHubURL(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidGitHubURL(t *testing.T) {
	assert.True(t, IsValidGitHubURL("https://github.com/acme/shop"))
	assert.True(t, IsValidGitHubURL(" https://www.github.com/acme/shop.js/ "))
	assert.False(t, IsValidGitHubURL("git@github.com:acme/shop.git"))
	assert.False(t, IsValidGitHubURL("http://github.com/acme/shop"))
	assert.False(t, IsValidGitHubURL("https://github.com/acme"))
}

func TestSameRepo(t *testing.T) {
	assert.True(t, SameRepo("git@github.com:acme/shop.git", "https://github.com/acme/shop"))
	assert.False(t, SameRepo("https://github.com/acme/shop", "https://github.com/acme/blog"))
	assert.Equal(t, "acme/shop", Repo{"acme", "shop"}.String())
}

func TestParseRemoteHead(t *testing.T) {
	out := []byte(`* remote origin
  Fetch URL: git@github.com:acme/shop.git
  Push  URL: git@github.com:acme/shop.git
  HEAD branch: develop
  Remote branches:
`)
	assert.Equal(t, "develop", parseRemoteHead(out))
	assert.Equal(t, "", parseRemoteHead([]byte("  HEAD branch: (unknown)\n")))
	assert.Equal(t, "", parseRemoteHead(nil))
}

func TestParseLeftRight(t *testing.T) {
	behind, ahead, err := parseLeftRight([]byte("5\t3\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, behind)
	assert.Equal(t, 3, ahead)

	_, _, err = parseLeftRight([]byte("fatal"))
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	out := []byte(" M src/Cart.jsx\n?? notes.md\nR  old.js -> new.js\n")
	assert.Equal(t, []string{"src/Cart.jsx", "notes.md", "new.js"}, parseStatus(out))
	assert.Empty(t, parseStatus(nil))
}
