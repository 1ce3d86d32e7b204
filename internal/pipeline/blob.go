package pipeline

import (
	"context"

	"github.com/go-git/go-git/v5/plumbing"
)

// BlobUploader uploads one file's bytes as a blob. It never retries.
type BlobUploader struct {
	remote Remote
	log    Logger
}

// NewBlobUploader creates a BlobUploader
func NewBlobUploader(remote Remote, log Logger) *BlobUploader {
	if log == nil {
		log = nopLogger{}
	}
	return &BlobUploader{remote: remote, log: log}
}

// Upload creates a blob holding content and returns the SHA the remote assigned
func (u *BlobUploader) Upload(ctx context.Context, repo RepoCoordinate, content []byte) (string, error) {
	sha, err := u.remote.CreateBlob(ctx, repo.Owner, repo.Name, content)
	if err != nil {
		return "", err
	}
	if local := LocalBlobSHA(content); local != sha {
		// SHA-256 repositories hash differently; only worth a trace
		u.log.Debug("Remote blob %s differs from local hash %s", sha, local)
	}
	return sha, nil
}

// LocalBlobSHA returns the Git blob hash of content as computed locally
func LocalBlobSHA(content []byte) string {
	return plumbing.ComputeHash(plumbing.BlobObject, content).String()
}
