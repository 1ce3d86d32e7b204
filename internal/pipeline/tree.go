package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	"gitpusher.dev/gitpusher/internal/github"
)

// TreeBuilder overlays uploaded blobs onto a base tree
type TreeBuilder struct {
	remote Remote
}

// NewTreeBuilder creates a TreeBuilder
func NewTreeBuilder(remote Remote) *TreeBuilder {
	return &TreeBuilder{remote: remote}
}

// Build creates a tree from baseTree plus candidates. Paths are normalized;
// entries that normalize to nothing or to the same path are rejected
// before anything is sent.
func (b *TreeBuilder) Build(ctx context.Context, repo RepoCoordinate, baseTree string, candidates []Candidate) (string, error) {
	entries, err := treeEntries(candidates)
	if err != nil {
		return "", err
	}
	return b.remote.CreateTree(ctx, repo.Owner, repo.Name, baseTree, entries)
}

func treeEntries(candidates []Candidate) ([]github.TreeEntry, error) {
	var problems *multierror.Error
	seen := make(map[string]string, len(candidates))
	entries := make([]github.TreeEntry, 0, len(candidates))

	for _, c := range candidates {
		path := NormalizePath(c.Path)
		switch {
		case path == "":
			problems = multierror.Append(problems, fmt.Errorf("path %q is empty after normalization", c.Path))
			continue
		case seen[path] != "":
			problems = multierror.Append(problems, fmt.Errorf("path %q appears more than once (also as %q)", path, seen[path]))
			continue
		}
		seen[path] = c.Path
		entries = append(entries, github.TreeEntry{Path: path, SHA: c.SHA})
	}

	if err := pusherrors.NewValidationError(problems); err != nil {
		return nil, err
	}
	return entries, nil
}
