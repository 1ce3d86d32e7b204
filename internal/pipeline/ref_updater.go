package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
)

// Defaults for the ref update retry loop
const (
	DefaultMaxRetries  = 3
	DefaultBackoffUnit = time.Second
)

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the production Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RefUpdateOutcome describes how the branch ended up pointing at the new commit
type RefUpdateOutcome struct {
	Created  bool
	Attempts int
}

// RefUpdater moves a branch to a new commit with a fetch-then-conditional-update
// loop, creating the branch when it does not exist.
type RefUpdater struct {
	remote      Remote
	log         Logger
	MaxRetries  int
	BackoffUnit time.Duration
	Sleep       Sleeper
}

// NewRefUpdater creates a RefUpdater with the default retry budget
func NewRefUpdater(remote Remote, log Logger) *RefUpdater {
	if log == nil {
		log = nopLogger{}
	}
	return &RefUpdater{
		remote:      remote,
		log:         log,
		MaxRetries:  DefaultMaxRetries,
		BackoffUnit: DefaultBackoffUnit,
		Sleep:       SleepContext,
	}
}

// Update points heads/<branch> at sha. A conflict is retried after
// BackoffUnit × (attempt+1); anything else is fatal.
func (u *RefUpdater) Update(ctx context.Context, repo RepoCoordinate, branch, sha string) (*RefUpdateOutcome, error) {
	sleep := u.Sleep
	if sleep == nil {
		sleep = SleepContext
	}

	for attempt := 0; ; attempt++ {
		latest, err := u.remote.GetRef(ctx, repo.Owner, repo.Name, branch)
		if errors.Is(err, pusherrors.ErrRefNotFound) {
			return u.create(ctx, repo, branch, sha, attempt+1)
		}
		if err != nil {
			return nil, &pusherrors.RefUpdateError{Ref: branch, Attempts: attempt + 1, Err: err}
		}

		err = u.remote.UpdateRef(ctx, repo.Owner, repo.Name, branch, sha, latest)
		switch {
		case err == nil:
			u.log.Debug("Updated heads/%s %s -> %s", branch, short(latest), short(sha))
			return &RefUpdateOutcome{Attempts: attempt + 1}, nil
		case errors.Is(err, pusherrors.ErrRefNotFound):
			return u.create(ctx, repo, branch, sha, attempt+1)
		case !errors.Is(err, pusherrors.ErrRefConflict):
			return nil, &pusherrors.RefUpdateError{Ref: branch, Attempts: attempt + 1, Err: err}
		}

		if attempt >= u.MaxRetries {
			return nil, &pusherrors.RefUpdateError{
				Ref:      branch,
				Attempts: attempt + 1,
				Err:      fmt.Errorf("%w: %w", pusherrors.ErrRetriesExhausted, err),
			}
		}

		delay := u.BackoffUnit * time.Duration(attempt+1)
		u.log.Debug("heads/%s moved during update, retrying in %s (attempt %d of %d)", branch, delay, attempt+1, u.MaxRetries)
		if err := sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (u *RefUpdater) create(ctx context.Context, repo RepoCoordinate, branch, sha string, attempts int) (*RefUpdateOutcome, error) {
	if err := u.remote.CreateRef(ctx, repo.Owner, repo.Name, branch, sha); err != nil {
		return nil, &pusherrors.RefUpdateError{Ref: branch, Attempts: attempts, Err: err}
	}
	u.log.Debug("Created heads/%s at %s", branch, short(sha))
	return &RefUpdateOutcome{Created: true, Attempts: attempts}, nil
}

func short(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
