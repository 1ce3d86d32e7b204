package tui

import (
	"testing"

	"github.com/stretchr/testify/require"

	"gitpusher.dev/gitpusher/internal/github"
)

func TestRenderRepoTree(t *testing.T) {
	DisableColor()

	items := []github.TreeItem{
		{Path: "README.md", Type: "blob"},
		{Path: "src", Type: "tree"},
		{Path: "src/main.go", Type: "blob"},
		{Path: "src/util", Type: "tree"},
		{Path: "src/util/strings.go", Type: "blob"},
		{Path: ".gitignore", Type: "blob"},
		// directories can be implied by their children alone
		{Path: "docs/guide.md", Type: "blob"},
		{Path: "assets/logo.png", Type: "blob"},
	}

	expected := `assets/
  logo.png
docs/
  guide.md
src/
  util/
    strings.go
  main.go
.gitignore
README.md
`
	require.Equal(t, expected, RenderRepoTree(items))
}

func TestRenderEmptyTree(t *testing.T) {
	require.Empty(t, RenderRepoTree(nil))
}
