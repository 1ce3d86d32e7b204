package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

func validRequest() PushRequest {
	return PushRequest{
		Repo:        RepoCoordinate{Owner: "owner", Name: "repo"},
		Files:       []FileTask{{Path: "a.txt", Content: []byte("a")}},
		Message:     DefaultCommitMessage,
		Branch:      "main",
		AuthorEmail: "dev@example.com",
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(validRequest()))

	t.Run("rejects an empty file set", func(t *testing.T) {
		req := validRequest()
		req.Files = nil
		err := Validate(req)
		require.ErrorIs(t, err, pusherrors.ErrValidation)
		require.ErrorIs(t, err, pusherrors.ErrNoFiles)
	})

	t.Run("rejects a missing repository", func(t *testing.T) {
		req := validRequest()
		req.Repo.Name = " "
		require.ErrorIs(t, Validate(req), pusherrors.ErrInvalidRepository)
	})

	t.Run("collects every problem", func(t *testing.T) {
		req := PushRequest{
			Files: []FileTask{{Path: "a//b"}, {Path: "/a/b/"}, {Path: "//"}},
			Mode:  "turbo",
		}
		err := Validate(req)

		var verr *pusherrors.ValidationError
		require.ErrorAs(t, err, &verr)
		// repository, branch, message, email, mode, duplicate path, empty path
		require.Len(t, verr.Problems(), 7)
		require.Contains(t, err.Error(), `path "a/b" appears more than once`)
		require.Contains(t, err.Error(), `path "//" is empty after normalization`)
	})
}

func TestParseUploadMode(t *testing.T) {
	mode, err := ParseUploadMode("")
	require.NoError(t, err)
	require.Equal(t, ModeSequential, mode)

	mode, err = ParseUploadMode("Concurrent")
	require.NoError(t, err)
	require.Equal(t, ModeConcurrent, mode)

	_, err = ParseUploadMode("turbo")
	require.Error(t, err)
}
