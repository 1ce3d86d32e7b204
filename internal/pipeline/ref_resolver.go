package pipeline

import (
	"context"
	"errors"
	"fmt"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

// Resolution is the outcome of resolving a push's target branch
type Resolution struct {
	// BaseCommitSHA is the parent of the new commit and the source of the base tree
	BaseCommitSHA string
	// RefName is always the requested branch, even when history came from the default branch
	RefName string
	// FromDefaultBranch is set when the requested branch does not exist yet
	FromDefaultBranch bool
	DefaultBranch     string
}

// RefResolver maps a branch name to the commit new work is built on
type RefResolver struct {
	remote Remote
	log    Logger
}

// NewRefResolver creates a RefResolver
func NewRefResolver(remote Remote, log Logger) *RefResolver {
	if log == nil {
		log = nopLogger{}
	}
	return &RefResolver{remote: remote, log: log}
}

// Resolve returns the head of branch, or the head of the default branch when
// branch does not exist. Any error other than not-found is returned as is.
func (r *RefResolver) Resolve(ctx context.Context, repo RepoCoordinate, branch string) (*Resolution, error) {
	sha, err := r.remote.GetRef(ctx, repo.Owner, repo.Name, branch)
	if err == nil {
		return &Resolution{BaseCommitSHA: sha, RefName: branch}, nil
	}
	if !errors.Is(err, pusherrors.ErrRefNotFound) {
		return nil, err
	}

	defaultBranch, err := r.remote.GetDefaultBranch(ctx, repo.Owner, repo.Name)
	if err != nil {
		return nil, err
	}
	r.log.Debug("Branch %s does not exist on %s, building on %s", branch, repo, defaultBranch)

	sha, err = r.remote.GetRef(ctx, repo.Owner, repo.Name, defaultBranch)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve default branch %s: %w", defaultBranch, err)
	}
	return &Resolution{
		BaseCommitSHA:     sha,
		RefName:           branch,
		FromDefaultBranch: true,
		DefaultBranch:     defaultBranch,
	}, nil
}
