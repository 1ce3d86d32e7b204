package pipeline

import (
	"context"
	"sync"
	"time"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	"gitpusher.dev/gitpusher/internal/github"
)

// fakeRemote scripts ref responses; everything else succeeds with fixed SHAs
type fakeRemote struct {
	mu sync.Mutex

	refs       map[string]string
	getRefErr  error
	updateErrs []error // consumed one per UpdateRef call; nil once drained
	createErr  error

	updates []string // previous SHAs seen by UpdateRef
	created []string
	getRefs int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{refs: map[string]string{"main": "base"}}
}

func (f *fakeRemote) GetRef(_ context.Context, _, _, branch string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getRefs++
	if f.getRefErr != nil {
		return "", f.getRefErr
	}
	sha, ok := f.refs[branch]
	if !ok {
		return "", pusherrors.NewRefNotFoundError(branch)
	}
	return sha, nil
}

func (f *fakeRemote) GetDefaultBranch(context.Context, string, string) (string, error) {
	return "main", nil
}

func (f *fakeRemote) GetCommitTree(_ context.Context, _, _, commitSHA string) (string, error) {
	return "tree-of-" + commitSHA, nil
}

func (f *fakeRemote) CreateBlob(_ context.Context, _, _ string, content []byte) (string, error) {
	return LocalBlobSHA(content), nil
}

func (f *fakeRemote) CreateTree(context.Context, string, string, string, []github.TreeEntry) (string, error) {
	return "tree", nil
}

func (f *fakeRemote) CreateCommit(context.Context, string, string, github.NewCommit) (string, error) {
	return "commit", nil
}

func (f *fakeRemote) UpdateRef(_ context.Context, _, _, branch, sha, previousSHA string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, previousSHA)
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return err
		}
	}
	f.refs[branch] = sha
	return nil
}

func (f *fakeRemote) CreateRef(_ context.Context, _, _, branch, sha string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, branch)
	f.refs[branch] = sha
	return nil
}

// recordingSleeper captures requested delays without waiting
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func conflicts(n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = pusherrors.NewRefConflictError("main", "Update is not a fast forward")
	}
	return errs
}
