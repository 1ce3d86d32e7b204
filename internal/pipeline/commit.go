package pipeline

import (
	"context"

	"gitpusher.dev/gitpusher/internal/github"
)

// CommitBuilder creates single-parent commits
type CommitBuilder struct {
	remote     Remote
	AuthorName string
}

// NewCommitBuilder creates a CommitBuilder; an empty authorName means DefaultAuthorName
func NewCommitBuilder(remote Remote, authorName string) *CommitBuilder {
	if authorName == "" {
		authorName = DefaultAuthorName
	}
	return &CommitBuilder{remote: remote, AuthorName: authorName}
}

// Build creates a commit of tree on top of parent
func (b *CommitBuilder) Build(ctx context.Context, repo RepoCoordinate, message, tree, parent, authorEmail string) (string, error) {
	return b.remote.CreateCommit(ctx, repo.Owner, repo.Name, github.NewCommit{
		Message:     message,
		TreeSHA:     tree,
		ParentSHAs:  []string{parent},
		AuthorName:  b.AuthorName,
		AuthorEmail: authorEmail,
	})
}
