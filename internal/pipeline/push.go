package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Options tunes a Pusher. Zero values mean the defaults.
type Options struct {
	AuthorName  string
	BatchSize   int
	MaxRetries  int
	BackoffUnit time.Duration
	Sleep       Sleeper
	Logger      Logger
}

// Pusher runs the full blob → tree → commit → ref pipeline for one request at a time
type Pusher struct {
	resolver *RefResolver
	uploader *BlobUploader
	trees    *TreeBuilder
	commits  *CommitBuilder
	refs     *RefUpdater
	remote   Remote
	log      Logger
	batch    int
}

// NewPusher creates a Pusher talking to remote
func NewPusher(remote Remote, opts Options) *Pusher {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	refs := NewRefUpdater(remote, log)
	if opts.MaxRetries > 0 {
		refs.MaxRetries = opts.MaxRetries
	}
	if opts.BackoffUnit > 0 {
		refs.BackoffUnit = opts.BackoffUnit
	}
	if opts.Sleep != nil {
		refs.Sleep = opts.Sleep
	}

	batch := opts.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}

	return &Pusher{
		resolver: NewRefResolver(remote, log),
		uploader: NewBlobUploader(remote, log),
		trees:    NewTreeBuilder(remote),
		commits:  NewCommitBuilder(remote, opts.AuthorName),
		refs:     refs,
		remote:   remote,
		log:      log,
		batch:    batch,
	}
}

// Push publishes req.Files as one commit on req.Branch. Any failure aborts
// the remaining phases; objects already created are left on the remote.
func (p *Pusher) Push(ctx context.Context, req PushRequest, reporter Reporter) (*PushResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	progress := newMonotonicReporter(reporter)

	progress.Report(ProgressResolve, "Getting repository information...")
	resolution, err := p.resolver.Resolve(ctx, req.Repo, req.Branch)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve branch %s: %w", req.Branch, err)
	}
	baseTree, err := p.remote.GetCommitTree(ctx, req.Repo.Owner, req.Repo.Name, resolution.BaseCommitSHA)
	if err != nil {
		return nil, fmt.Errorf("failed to read base commit %s: %w", short(resolution.BaseCommitSHA), err)
	}
	p.log.Debug("Building on %s (tree %s)", short(resolution.BaseCommitSHA), short(baseTree))

	progress.Report(ProgressUploadStart, "Processing files...")
	candidates, err := NewScheduler(req.Mode, p.uploader, p.batch).Schedule(ctx, req.Repo, req.Files, progress)
	if err != nil {
		return nil, err
	}

	progress.Report(ProgressTree, "Creating tree...")
	treeSHA, err := p.trees.Build(ctx, req.Repo, baseTree, candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to create tree: %w", err)
	}

	progress.Report(ProgressCommit, "Creating commit...")
	commitSHA, err := p.commits.Build(ctx, req.Repo, req.Message, treeSHA, resolution.BaseCommitSHA, req.AuthorEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create commit: %w", err)
	}

	progress.Report(ProgressRef, fmt.Sprintf("Updating branch: %s...", resolution.RefName))
	outcome, err := p.refs.Update(ctx, req.Repo, resolution.RefName, commitSHA)
	if err != nil {
		return nil, err
	}

	progress.Report(ProgressDone, "Successfully pushed files to GitHub!")
	return &PushResult{
		RefName:           resolution.RefName,
		BaseCommitSHA:     resolution.BaseCommitSHA,
		TreeSHA:           treeSHA,
		CommitSHA:         commitSHA,
		CreatedBranch:     outcome.Created,
		FromDefaultBranch: resolution.FromDefaultBranch,
		RefAttempts:       outcome.Attempts,
		Blobs:             candidates,
	}, nil
}
