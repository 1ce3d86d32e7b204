// Package github provides a client for the GitHub Git Data and repository APIs.
package github

import (
	"context"
)

// FileMode is the only tree entry mode gitpusher writes
const FileMode = "100644"

// TreeEntry is one path binding sent to the create-tree endpoint
// This is a simplified struct to avoid coupling callers to the go-github library
type TreeEntry struct {
	Path string
	SHA  string
}

// NewCommit describes a commit object to create
type NewCommit struct {
	Message     string
	TreeSHA     string
	ParentSHAs  []string
	AuthorName  string
	AuthorEmail string
}

// TreeItem is one entry of a recursive repository tree listing
type TreeItem struct {
	Path string
	Type string // "blob", "tree" or "commit"
	Mode string
	SHA  string
	Size int
}

// Repository contains information about a repository
type Repository struct {
	Owner         string
	Name          string
	FullName      string
	Description   string
	Private       bool
	DefaultBranch string
	HTMLURL       string
}

// CreateRepoOptions contains options for creating a repository
type CreateRepoOptions struct {
	Name              string
	Description       string
	Private           bool
	AutoInit          bool
	GitignoreTemplate string
	LicenseTemplate   string
}

// Client is an interface for the GitHub API calls gitpusher makes.
// Implementations are pure request/response and never retry.
type Client interface {
	// GetRef returns the commit SHA that heads/<branch> points to
	GetRef(ctx context.Context, owner, repo, branch string) (string, error)

	// GetDefaultBranch returns the repository's default branch name
	GetDefaultBranch(ctx context.Context, owner, repo string) (string, error)

	// GetCommitTree returns the tree SHA of a commit
	GetCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error)

	// CreateBlob uploads content as a blob and returns its SHA
	CreateBlob(ctx context.Context, owner, repo string, content []byte) (string, error)

	// CreateTree overlays entries onto baseTree and returns the new tree SHA
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []TreeEntry) (string, error)

	// CreateCommit creates a commit object and returns its SHA
	CreateCommit(ctx context.Context, owner, repo string, commit NewCommit) (string, error)

	// UpdateRef force-moves heads/<branch> to sha, with previousSHA as the expected current value
	UpdateRef(ctx context.Context, owner, repo, branch, sha, previousSHA string) error

	// CreateRef creates refs/heads/<branch> pointing at sha
	CreateRef(ctx context.Context, owner, repo, branch, sha string) error

	// ListTree returns the recursive tree of a ref, branch or SHA
	ListTree(ctx context.Context, owner, repo, ref string) ([]TreeItem, error)

	// ListRepositories returns the first page of the authenticated user's repositories
	ListRepositories(ctx context.Context) ([]Repository, error)

	// CreateRepository creates a repository owned by the authenticated user
	CreateRepository(ctx context.Context, opts CreateRepoOptions) (*Repository, error)
}
