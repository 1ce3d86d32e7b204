package cli_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	"gitpusher.dev/gitpusher/internal/cli"
	githubpkg "gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/internal/runtime"
	"gitpusher.dev/gitpusher/testhelpers"
)

// runCLI executes the root command in-process and returns everything it printed
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cli.NewRootCmd("1.2.3", "abc123", "2026-01-01")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// newCLIScene isolates the environment and points the CLI at mock
func newCLIScene(t *testing.T, mock *testhelpers.MockGitHubServerConfig, files map[string]string) *testhelpers.Scene {
	t.Helper()
	scene := testhelpers.NewFileScene(t, files)
	t.Setenv("GITPUSHER_NO_INTERACTIVE", "1")
	t.Setenv("GITPUSHER_EMAIL", testhelpers.TestEmail)
	testhelpers.StubGitHub(t, mock)
	return scene
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	require.Equal(t, "gitpusher 1.2.3 (commit abc123, built 2026-01-01)\n", out)
}

func TestPushCommand(t *testing.T) {
	t.Run("pushes a directory", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		scene := newCLIScene(t, mock, map[string]string{
			"site/index.html": "<p>hi</p>\n",
			"site/app.js":     "run()\n",
		})

		out, err := runCLI(t, "push", "owner/repo", scene.Path("site"), "-m", "Publish", "--mode", "concurrent", "--batch-size", "2")
		require.NoError(t, err, out)
		require.Contains(t, out, "Pushed 2 files to owner/repo (main)")

		testhelpers.ExpectHeadPaths(t, mock, "main", "README.md, site/app.js, site/index.html")
		head, _ := mock.Ref("main")
		require.Equal(t, "Publish", mock.Commit(head).Message)
		require.LessOrEqual(t, mock.MaxConcurrentBlobs, 2)
	})

	t.Run("pushes to a new branch under a prefix", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		scene := newCLIScene(t, mock, map[string]string{"notes.md": "# notes\n"})

		out, err := runCLI(t, "push", "owner/repo", scene.Path("notes.md"), "-b", "drafts", "--prefix", "docs", "-m", "Draft")
		require.NoError(t, err, out)
		testhelpers.ExpectHeadPaths(t, mock, "drafts", "README.md, docs/notes.md")
		require.Equal(t, []string{"drafts"}, mock.CreatedRefs)
	})

	t.Run("dry run does not contact GitHub", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		scene := newCLIScene(t, mock, map[string]string{"a.txt": "a"})

		out, err := runCLI(t, "push", "owner/repo", scene.Path("a.txt"), "--dry-run")
		require.NoError(t, err, out)
		require.Contains(t, out, "Dry run: would push 1 file")
		require.Empty(t, mock.Calls)
	})

	t.Run("needs a repository and a path", func(t *testing.T) {
		newCLIScene(t, testhelpers.NewMockGitHubServerConfig(), nil)
		_, err := runCLI(t, "push", "owner/repo")
		require.Error(t, err)
	})

	t.Run("fails when the branch keeps moving", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		mock.RefUpdateConflicts = -1
		scene := newCLIScene(t, mock, map[string]string{"a.txt": "a"})
		delays := testhelpers.RecordRefUpdateSleeps(t)
		before, _ := mock.Ref("main")

		out, err := runCLI(t, "push", "owner/repo", scene.Path("a.txt"), "-m", "Contended")
		require.Error(t, err)
		require.Contains(t, out, "Run the push again to retry.")
		after, _ := mock.Ref("main")
		require.Equal(t, before, after)
		require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, *delays)
	})
}

func TestHostnameFlag(t *testing.T) {
	mock := testhelpers.NewMockGitHubServerConfig()
	newCLIScene(t, mock, nil)

	client, _, _ := testhelpers.NewMockClient(t, mock)
	var hosts []string
	runtime.ClientFactory = func(_ context.Context, hostname, _ string) (githubpkg.Client, error) {
		hosts = append(hosts, hostname)
		return client, nil
	}

	_, err := runCLI(t, "tree", "owner/repo", "--hostname", "github.company.com")
	require.NoError(t, err)
	_, err = runCLI(t, "tree", "https://ghe.example.com/owner/repo")
	require.NoError(t, err)
	require.Equal(t, []string{"github.company.com", "ghe.example.com"}, hosts)
}

func TestReposCommands(t *testing.T) {
	mock := testhelpers.NewMockGitHubServerConfig()
	mock.Repositories = []*github.Repository{testhelpers.NewSampleRepository(testhelpers.DefaultRepoData())}
	newCLIScene(t, mock, nil)

	out, err := runCLI(t, "repos", "create", "blog", "--private", "--readme", "--gitignore", "Go")
	require.NoError(t, err, out)
	require.Contains(t, out, "Created private repository owner/blog")
	require.Equal(t, "Go", mock.Repositories[1].GetGitignoreTemplate())

	out, err = runCLI(t, "repos", "list")
	require.NoError(t, err, out)
	require.Contains(t, out, "owner/repo")
	require.Contains(t, out, "owner/blog")
}

func TestTreeCommand(t *testing.T) {
	mock := testhelpers.NewMockGitHubServerConfig()
	mock.SeedCommit("main", map[string]string{"src/lib/util.go": "package lib\n"}, "Add lib")
	newCLIScene(t, mock, nil)

	out, err := runCLI(t, "tree", "owner/repo", "--no-color")
	require.NoError(t, err, out)
	require.Contains(t, out, "src/\n  lib/\n    util.go\nREADME.md\n")
}

func TestConfigCommands(t *testing.T) {
	newCLIScene(t, testhelpers.NewMockGitHubServerConfig(), nil)

	out, err := runCLI(t, "config", "set", "batch_size", "5")
	require.NoError(t, err, out)
	require.Contains(t, out, "Set batch_size to: 5")

	_, err = runCLI(t, "config", "set", "nope", "1")
	require.ErrorContains(t, err, "unknown config key")

	out, err = runCLI(t, "config", "show")
	require.NoError(t, err, out)
	require.Contains(t, out, "batch_size: 5")
	require.Contains(t, out, "email: "+testhelpers.TestEmail)
}
