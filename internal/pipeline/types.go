package pipeline

import (
	"context"
	"fmt"
	"strings"

	pusherrors "gitpusher.dev/gitpusher/internal/errors"
	"gitpusher.dev/gitpusher/internal/github"
)

// DefaultAuthorName is the author name stamped on every commit
const DefaultAuthorName = "GitPusher"

// DefaultCommitMessage is used when the caller gives no message
const DefaultCommitMessage = "Update files via GitPusher"

// Remote is the subset of the GitHub client the pipeline calls
type Remote interface {
	GetRef(ctx context.Context, owner, repo, branch string) (string, error)
	GetDefaultBranch(ctx context.Context, owner, repo string) (string, error)
	GetCommitTree(ctx context.Context, owner, repo, commitSHA string) (string, error)
	CreateBlob(ctx context.Context, owner, repo string, content []byte) (string, error)
	CreateTree(ctx context.Context, owner, repo, baseTree string, entries []github.TreeEntry) (string, error)
	CreateCommit(ctx context.Context, owner, repo string, commit github.NewCommit) (string, error)
	UpdateRef(ctx context.Context, owner, repo, branch, sha, previousSHA string) error
	CreateRef(ctx context.Context, owner, repo, branch, sha string) error
}

// Logger is the subset of *tui.Splog the pipeline logs through
type Logger interface {
	Debug(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// RepoCoordinate identifies the target repository
type RepoCoordinate struct {
	Owner string
	Name  string
}

// String returns owner/name
func (r RepoCoordinate) String() string {
	return r.Owner + "/" + r.Name
}

// Validate checks that both owner and name are present
func (r RepoCoordinate) Validate() error {
	if strings.TrimSpace(r.Owner) == "" || strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: owner and name are both required", pusherrors.ErrInvalidRepository)
	}
	return nil
}

// FileKind records how a file was selected
type FileKind string

const (
	// FileKindFile is a file selected on its own
	FileKindFile FileKind = "file"
	// FileKindDirectory is a file found by walking a selected directory
	FileKindDirectory FileKind = "directory"
)

// FileTask is one local file to publish
type FileTask struct {
	Content []byte
	Path    string
	Kind    FileKind
}

// Size returns the declared size in bytes
func (f FileTask) Size() int64 {
	return int64(len(f.Content))
}

// Candidate is an uploaded blob waiting to be placed in the tree
type Candidate struct {
	Path string
	SHA  string
}

// UploadMode selects how blob uploads are scheduled
type UploadMode string

const (
	// ModeSequential uploads one file at a time
	ModeSequential UploadMode = "sequential"
	// ModeConcurrent uploads fixed-size batches concurrently
	ModeConcurrent UploadMode = "concurrent"
)

// ParseUploadMode parses a mode name; the empty string means sequential
func ParseUploadMode(s string) (UploadMode, error) {
	switch UploadMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeSequential:
		return ModeSequential, nil
	case ModeConcurrent, "batch", "parallel":
		return ModeConcurrent, nil
	}
	return "", fmt.Errorf("unknown upload mode %q (want %s or %s)", s, ModeSequential, ModeConcurrent)
}

// PushRequest is everything one push needs
type PushRequest struct {
	Repo        RepoCoordinate
	Files       []FileTask
	Message     string
	Branch      string
	AuthorEmail string
	Mode        UploadMode
}

// PushResult describes a completed push
type PushResult struct {
	RefName       string
	BaseCommitSHA string
	TreeSHA       string
	CommitSHA     string
	CreatedBranch bool
	// FromDefaultBranch is true when the branch did not exist and history was taken from the default branch
	FromDefaultBranch bool
	RefAttempts       int
	Blobs             []Candidate
}
