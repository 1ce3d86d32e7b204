package testhelpers

import (
	"net/url"
	"testing"

	"github.com/google/go-github/v62/github"

	githubpkg "gitpusher.dev/gitpusher/internal/github"
)

// NewMockGitHubClient creates a go-github client configured to use a mock server
func NewMockGitHubClient(t *testing.T, config *MockGitHubServerConfig) (*github.Client, string, string) {
	if config == nil {
		config = NewMockGitHubServerConfig()
	}
	server := NewMockGitHubServer(t, config)
	client := github.NewClient(nil)
	baseURL, _ := url.Parse(server.URL + "/")
	client.BaseURL = baseURL
	client.UploadURL = baseURL

	owner := config.Owner
	repo := config.Repo
	if owner == "" {
		owner = "owner"
	}
	if repo == "" {
		repo = "repo"
	}

	return client, owner, repo
}

// NewMockClient creates a githubpkg.Client backed by the mock server
func NewMockClient(t *testing.T, config *MockGitHubServerConfig) (*githubpkg.RealClient, string, string) {
	client, owner, repo := NewMockGitHubClient(t, config)
	return githubpkg.NewRealClientFromGitHub(client), owner, repo
}
