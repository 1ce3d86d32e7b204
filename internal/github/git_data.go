package github

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

// RealClient implements Client using the real GitHub API
type RealClient struct {
	client *github.Client
}

// NewRealClient creates a RealClient for the given hostname and token
func NewRealClient(ctx context.Context, hostname, token string) (*RealClient, error) {
	client, err := NewGitHubClient(ctx, hostname, token)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}
	return &RealClient{client: client}, nil
}

// NewRealClientFromGitHub wraps an existing go-github client
func NewRealClientFromGitHub(client *github.Client) *RealClient {
	return &RealClient{client: client}
}

// refUpdateRequest is the PATCH body for a ref update.
// go-github's UpdateRef has no field for the expected previous SHA.
type refUpdateRequest struct {
	SHA         string `json:"sha"`
	Force       bool   `json:"force"`
	PreviousSHA string `json:"previous_sha,omitempty"`
}

// GetRef returns the commit SHA that heads/<branch> points to
func (c *RealClient) GetRef(ctx context.Context, owner, repo, branch string) (string, error) {
	ref, resp, err := c.client.Git.GetRef(ctx, owner, repo, "heads/"+branch)
	if err != nil {
		if statusOf(resp, err) == http.StatusNotFound {
			return "", pusherrors.NewRefNotFoundError(branch)
		}
		return "", remoteError("get ref heads/"+branch, resp, err)
	}
	if ref.Object == nil || ref.Object.SHA == nil {
		return "", pusherrors.NewRemoteError("get ref heads/"+branch, 0, "response has no object SHA", nil)
	}
	return ref.Object.GetSHA(), nil
}

// GetDefaultBranch returns the repository's default branch name, or "main" if unset
func (c *RealClient) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repository, resp, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", remoteError("get repository", resp, err)
	}
	if branch := repository.GetDefaultBranch(); branch != "" {
		return branch, nil
	}
	return "main", nil
}

// GetCommitTree returns the tree SHA of a commit
func (c *RealClient) GetCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error) {
	commit, resp, err := c.client.Git.GetCommit(ctx, owner, repo, commitSHA)
	if err != nil {
		return "", remoteError("get commit "+commitSHA, resp, err)
	}
	if commit.Tree == nil || commit.Tree.SHA == nil {
		return "", pusherrors.NewRemoteError("get commit "+commitSHA, 0, "response has no tree SHA", nil)
	}
	return commit.Tree.GetSHA(), nil
}

// CreateBlob uploads content base64-encoded and returns the blob SHA
func (c *RealClient) CreateBlob(ctx context.Context, owner, repo string, content []byte) (string, error) {
	blob := &github.Blob{
		Content:  github.String(base64.StdEncoding.EncodeToString(content)),
		Encoding: github.String("base64"),
	}

	created, resp, err := c.client.Git.CreateBlob(ctx, owner, repo, blob)
	if err != nil {
		return "", remoteError("create blob", resp, err)
	}
	return created.GetSHA(), nil
}

// CreateTree overlays entries onto baseTree and returns the new tree SHA
func (c *RealClient) CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error) {
	ghEntries := make([]*github.TreeEntry, 0, len(entries))
	for _, entry := range entries {
		ghEntries = append(ghEntries, &github.TreeEntry{
			Path: github.String(entry.Path),
			Mode: github.String(FileMode),
			Type: github.String("blob"),
			SHA:  github.String(entry.SHA),
		})
	}

	tree, resp, err := c.client.Git.CreateTree(ctx, owner, repo, baseTree, ghEntries)
	if err != nil {
		return "", remoteError("create tree", resp, err)
	}
	return tree.GetSHA(), nil
}

// CreateCommit creates a commit object and returns its SHA
func (c *RealClient) CreateCommit(ctx context.Context, owner, repo string, commit NewCommit) (string, error) {
	parents := make([]*github.Commit, 0, len(commit.ParentSHAs))
	for _, sha := range commit.ParentSHAs {
		parents = append(parents, &github.Commit{SHA: github.String(sha)})
	}

	ghCommit := &github.Commit{
		Message: github.String(commit.Message),
		Tree:    &github.Tree{SHA: github.String(commit.TreeSHA)},
		Parents: parents,
		Author: &github.CommitAuthor{
			Name:  github.String(commit.AuthorName),
			Email: github.String(commit.AuthorEmail),
		},
	}

	created, resp, err := c.client.Git.CreateCommit(ctx, owner, repo, ghCommit, nil)
	if err != nil {
		return "", remoteError("create commit", resp, err)
	}
	return created.GetSHA(), nil
}

// UpdateRef force-moves heads/<branch> to sha.
// A 404 is reported as ErrRefNotFound and a 409 or 422 as ErrRefConflict.
func (c *RealClient) UpdateRef(ctx context.Context, owner, repo, branch, sha, previousSHA string) error {
	u := fmt.Sprintf("repos/%v/%v/git/refs/%v", owner, repo, refURLEscape("heads/"+branch))
	req, err := c.client.NewRequest(http.MethodPatch, u, &refUpdateRequest{
		SHA:         sha,
		Force:       true,
		PreviousSHA: previousSHA,
	})
	if err != nil {
		return fmt.Errorf("failed to build ref update request: %w", err)
	}

	resp, err := c.client.Do(ctx, req, nil)
	if err != nil {
		switch statusOf(resp, err) {
		case http.StatusNotFound:
			return pusherrors.NewRefNotFoundError(branch)
		case http.StatusConflict, http.StatusUnprocessableEntity:
			return pusherrors.NewRefConflictError(branch, messageOf(err))
		}
		return remoteError("update ref heads/"+branch, resp, err)
	}
	return nil
}

// CreateRef creates refs/heads/<branch> pointing at sha
func (c *RealClient) CreateRef(ctx context.Context, owner, repo, branch, sha string) error {
	_, resp, err := c.client.Git.CreateRef(ctx, owner, repo, &github.Reference{
		Ref:    github.String("refs/heads/" + branch),
		Object: &github.GitObject{SHA: github.String(sha)},
	})
	if err != nil {
		return remoteError("create ref heads/"+branch, resp, err)
	}
	return nil
}

// ListTree returns the recursive tree of a ref, branch or SHA
func (c *RealClient) ListTree(ctx context.Context, owner, repo, ref string) ([]TreeItem, error) {
	tree, resp, err := c.client.Git.GetTree(ctx, owner, repo, ref, true)
	if err != nil {
		return nil, remoteError("list tree "+ref, resp, err)
	}

	items := make([]TreeItem, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		items = append(items, TreeItem{
			Path: entry.GetPath(),
			Type: entry.GetType(),
			Mode: entry.GetMode(),
			SHA:  entry.GetSHA(),
			Size: entry.GetSize(),
		})
	}
	return items, nil
}

// refURLEscape escapes every path segment of a ref name
func refURLEscape(ref string) string {
	parts := strings.Split(ref, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// statusOf returns the HTTP status of a failed call, or 0 for transport errors
func statusOf(resp *github.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// messageOf extracts the API's message from an error response
func messageOf(err error) string {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) {
		return ghErr.Message
	}
	return ""
}

// remoteError converts a failed go-github call into a RemoteError
func remoteError(operation string, resp *github.Response, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return pusherrors.NewRemoteError(operation, statusOf(resp, err), messageOf(err), err)
}
