package github

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

func TestParseRepository(t *testing.T) {
	tests := []struct {
		name     string
		arg      string
		expected *RepoInfo
	}{
		{
			name:     "short form",
			arg:      "octo/site",
			expected: &RepoInfo{Hostname: "github.com", Owner: "octo", Repo: "site"},
		},
		{
			name:     "https URL with .git suffix",
			arg:      "https://github.com/octo/site.git",
			expected: &RepoInfo{Hostname: "github.com", Owner: "octo", Repo: "site"},
		},
		{
			name:     "SSH URL",
			arg:      "git@github.com:octo/site.git",
			expected: &RepoInfo{Hostname: "github.com", Owner: "octo", Repo: "site"},
		},
		{
			name:     "enterprise URL",
			arg:      "https://github.company.com/team/tool/",
			expected: &RepoInfo{Hostname: "github.company.com", Owner: "team", Repo: "tool"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ParseRepository(tt.arg)
			require.NoError(t, err)
			require.Equal(t, tt.expected, info)
		})
	}

	for _, bad := range []string{"", "octo", "octo/", "/site", "a/b/c", "https://github.com/octo"} {
		t.Run("rejects "+bad, func(t *testing.T) {
			_, err := ParseRepository(bad)
			require.ErrorIs(t, err, pusherrors.ErrInvalidRepository)
		})
	}
}

func TestNewGitHubClient(t *testing.T) {
	t.Run("uses the public API for github.com", func(t *testing.T) {
		client, err := NewGitHubClient(context.Background(), "github.com", "token")
		require.NoError(t, err)
		require.Equal(t, "https://api.github.com/", client.BaseURL.String())
	})

	t.Run("uses /api/v3 for enterprise hosts", func(t *testing.T) {
		client, err := NewGitHubClient(context.Background(), "github.company.com", "token")
		require.NoError(t, err)
		require.Equal(t, "https://github.company.com/api/v3/", client.BaseURL.String())
		require.Equal(t, "https://github.company.com/api/uploads/", client.UploadURL.String())
	})
}

func TestLookupToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "from-env")
	token, err := LookupToken(context.Background(), "github.com")
	require.NoError(t, err)
	require.Equal(t, "from-env", token)
}
