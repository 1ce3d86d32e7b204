package actions_test

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gitpusher.dev/gitpusher/internal/actions"
	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	"gitpusher.dev/gitpusher/internal/pipeline"
	"gitpusher.dev/gitpusher/testhelpers"
)

func newSiteScene(t *testing.T) *testhelpers.Scene {
	return testhelpers.NewFileScene(t, map[string]string{
		"site/index.html":    "<h1>hi</h1>\n",
		"site/css/app.css":   "body {}\n",
		"notes.txt":          "remember\n",
		"ignored/.gitignore": "*\n",
	})
}

func TestPushAction(t *testing.T) {
	t.Run("pushes files and directories as one commit", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, out := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("site"), scene.Path("notes.txt")},
			Message:    "Add site",
		})
		require.NoError(t, err)

		testhelpers.ExpectHeadFiles(t, mock, "main", map[string]string{
			"README.md":        "# repo\n",
			"site/index.html":  "<h1>hi</h1>\n",
			"site/css/app.css": "body {}\n",
			"notes.txt":        "remember\n",
		})

		head, ok := mock.Ref("main")
		require.True(t, ok)
		commit := mock.Commit(head)
		require.Equal(t, "Add site", commit.Message)
		require.Equal(t, testhelpers.TestEmail, commit.AuthorEmail)
		require.Equal(t, pipeline.DefaultAuthorName, commit.AuthorName)

		require.Contains(t, out.String(), "Pushed 3 files to owner/repo (main)")
		require.Contains(t, out.String(), "https://github.com/owner/repo/commit/"+head)
	})

	t.Run("uses the default message without a terminal", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
		})
		require.NoError(t, err)

		head, _ := mock.Ref("main")
		require.Equal(t, pipeline.DefaultCommitMessage, mock.Commit(head).Message)
	})

	t.Run("creates a missing branch from the default branch", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		mainHead, _ := mock.Ref("main")
		ctx, out := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
			Branch:     "feature",
			Message:    "Start feature",
		})
		require.NoError(t, err)

		require.Equal(t, []string{"feature"}, mock.CreatedRefs)
		head, ok := mock.Ref("feature")
		require.True(t, ok)
		require.Equal(t, []string{mainHead}, mock.Commit(head).Parents)
		testhelpers.ExpectHeadPaths(t, mock, "feature", "README.md, notes.txt")

		untouched, _ := mock.Ref("main")
		require.Equal(t, mainHead, untouched)
		require.Contains(t, out.String(), "Created branch feature from the default branch.")
	})

	t.Run("prefix places files under a directory", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("site"), scene.Path("notes.txt")},
			Prefix:     "public/",
			Message:    "Publish",
		})
		require.NoError(t, err)
		testhelpers.ExpectHeadPaths(t, mock, "main", "README.md, public/notes.txt, public/site/css/app.css, public/site/index.html")
	})

	t.Run("concurrent mode from config uploads in parallel", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		mock.BlobDelay = 20 * time.Millisecond
		ctx, _ := testhelpers.NewTestContext(t, mock)
		ctx.Config.UploadMode = "concurrent"
		scene := testhelpers.NewFileScene(t, map[string]string{
			"batch/a.txt": "a",
			"batch/b.txt": "b",
			"batch/c.txt": "c",
			"batch/d.txt": "d",
		})

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("batch")},
			Message:    "Batch",
		})
		require.NoError(t, err)
		require.Greater(t, mock.MaxConcurrentBlobs, 1)
		require.LessOrEqual(t, mock.MaxConcurrentBlobs, pipeline.DefaultBatchSize)
		testhelpers.ExpectHeadPaths(t, mock, "main", "README.md, batch/a.txt, batch/b.txt, batch/c.txt, batch/d.txt")
	})

	t.Run("dry run prints the plan without requests", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, out := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
			Message:    "Plan",
			DryRun:     true,
		})
		require.NoError(t, err)
		require.Empty(t, mock.Calls)
		require.Contains(t, out.String(), "Dry run: would push 1 file (9 bytes) to owner/repo (main)")
		require.Contains(t, out.String(), pipeline.LocalBlobSHA([]byte("remember\n"))[:7]+"  notes.txt")
	})

	t.Run("missing email fails validation before any request", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		ctx.Config.Email = ""
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
			Message:    "No author",
		})
		require.ErrorIs(t, err, pusherrors.ErrValidation)
		require.ErrorContains(t, err, "author email is required")
		require.Empty(t, mock.Calls)
	})

	t.Run("rejects an unknown upload mode", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
			Mode:       "turbo",
		})
		require.ErrorContains(t, err, "unknown upload mode")
		require.Empty(t, mock.Calls)
	})

	t.Run("reports missing paths", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("missing.txt")},
		})
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("an ignored directory has nothing to push", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("ignored")},
		})
		require.ErrorIs(t, err, pusherrors.ErrNoFiles)
		require.Empty(t, mock.Calls)
	})

	t.Run("rejects a malformed repository", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		ctx, _ := testhelpers.NewTestContext(t, mock)

		err := actions.PushAction(ctx, actions.PushOptions{Repository: "just-a-name", Paths: []string{"."}})
		require.ErrorIs(t, err, pusherrors.ErrInvalidRepository)
	})

	t.Run("surfaces remote failures", func(t *testing.T) {
		mock := testhelpers.NewMockGitHubServerConfig()
		mock.ErrorResponses["POST /git/blobs"] = 403
		ctx, _ := testhelpers.NewTestContext(t, mock)
		scene := newSiteScene(t)
		mainHead, _ := mock.Ref("main")

		err := actions.PushAction(ctx, actions.PushOptions{
			Repository: "owner/repo",
			Paths:      []string{scene.Path("notes.txt")},
			Message:    "Forbidden",
		})
		var remoteErr *pusherrors.RemoteError
		require.ErrorAs(t, err, &remoteErr)
		require.Equal(t, 403, remoteErr.Status)

		head, _ := mock.Ref("main")
		require.Equal(t, mainHead, head)
	})
}
