package github

import (
	"context"

	"github.com/google/go-github/v62/github"
)

// repositoryPageSize is the single bounded page of repositories listed
const repositoryPageSize = 100

// ListRepositories returns the first page of the authenticated user's repositories
func (c *RealClient) ListRepositories(ctx context.Context) ([]Repository, error) {
	repos, resp, err := c.client.Repositories.ListByAuthenticatedUser(ctx, &github.RepositoryListByAuthenticatedUserOptions{
		ListOptions: github.ListOptions{PerPage: repositoryPageSize},
	})
	if err != nil {
		return nil, remoteError("list repositories", resp, err)
	}

	result := make([]Repository, 0, len(repos))
	for _, r := range repos {
		result = append(result, toRepository(r))
	}
	return result, nil
}

// CreateRepository creates a repository owned by the authenticated user
func (c *RealClient) CreateRepository(ctx context.Context, opts CreateRepoOptions) (*Repository, error) {
	repo := &github.Repository{
		Name:     github.String(opts.Name),
		Private:  github.Bool(opts.Private),
		AutoInit: github.Bool(opts.AutoInit),
	}
	if opts.Description != "" {
		repo.Description = github.String(opts.Description)
	}
	if opts.GitignoreTemplate != "" {
		repo.GitignoreTemplate = github.String(opts.GitignoreTemplate)
	}
	if opts.LicenseTemplate != "" {
		repo.LicenseTemplate = github.String(opts.LicenseTemplate)
	}

	created, resp, err := c.client.Repositories.Create(ctx, "", repo)
	if err != nil {
		return nil, remoteError("create repository "+opts.Name, resp, err)
	}

	result := toRepository(created)
	return &result, nil
}

// toRepository converts a github.Repository to Repository
func toRepository(r *github.Repository) Repository {
	if r == nil {
		return Repository{}
	}

	return Repository{
		Owner:         r.GetOwner().GetLogin(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		DefaultBranch: r.GetDefaultBranch(),
		HTMLURL:       r.GetHTMLURL(),
	}
}
