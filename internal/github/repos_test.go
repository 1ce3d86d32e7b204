package github_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/go-github/v62/github"
	"github.com/stretchr/testify/require"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	githubpkg "gitpusher.dev/gitpusher/internal/github"
	"gitpusher.dev/gitpusher/testhelpers"
)

func TestListRepositories(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	config.Repositories = []*github.Repository{
		testhelpers.NewSampleRepository(testhelpers.DefaultRepoData()),
		testhelpers.NewSampleRepository(testhelpers.PrivateRepoData()),
	}
	client, _, _ := testhelpers.NewMockClient(t, config)

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 2)
	require.Equal(t, "owner/repo", repos[0].FullName)
	require.Equal(t, "main", repos[0].DefaultBranch)
	require.False(t, repos[0].Private)
	require.Equal(t, "secret", repos[1].Name)
	require.True(t, repos[1].Private)
	require.Equal(t, 1, config.CallCount("GET /user/repos"))
}

func TestListRepositoriesReadsOnePage(t *testing.T) {
	config := testhelpers.NewMockGitHubServerConfig()
	for i := 0; i < 120; i++ {
		data := testhelpers.DefaultRepoData()
		data.Name = fmt.Sprintf("repo-%03d", i)
		config.Repositories = append(config.Repositories, testhelpers.NewSampleRepository(data))
	}
	client, _, _ := testhelpers.NewMockClient(t, config)

	repos, err := client.ListRepositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 100)
	require.Equal(t, "owner/repo-099", repos[99].FullName)
	require.Equal(t, 1, config.CallCount("GET /user/repos"))
}

func TestCreateRepository(t *testing.T) {
	t.Run("creates a repository with templates", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		client, _, _ := testhelpers.NewMockClient(t, config)

		repo, err := client.CreateRepository(context.Background(), githubpkg.CreateRepoOptions{
			Name:              "site",
			Description:       "my site",
			Private:           true,
			AutoInit:          true,
			GitignoreTemplate: "Go",
			LicenseTemplate:   "mit",
		})
		require.NoError(t, err)
		require.Equal(t, "owner/site", repo.FullName)
		require.True(t, repo.Private)

		require.Len(t, config.Repositories, 1)
		created := config.Repositories[0]
		require.True(t, created.GetAutoInit())
		require.Equal(t, "Go", created.GetGitignoreTemplate())
		require.Equal(t, "mit", created.GetLicenseTemplate())
	})

	t.Run("surfaces the remote message on failure", func(t *testing.T) {
		config := testhelpers.NewMockGitHubServerConfig()
		config.Repositories = []*github.Repository{testhelpers.NewSampleRepository(testhelpers.DefaultRepoData())}
		client, _, _ := testhelpers.NewMockClient(t, config)

		_, err := client.CreateRepository(context.Background(), githubpkg.CreateRepoOptions{Name: "repo"})
		var remoteErr *pusherrors.RemoteError
		require.True(t, errors.As(err, &remoteErr))
		require.Equal(t, http.StatusUnprocessableEntity, remoteErr.Status)
		require.Contains(t, remoteErr.Error(), "name already exists")
	})
}
