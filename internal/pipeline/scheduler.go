package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is how many blobs the batch scheduler uploads at once
const DefaultBatchSize = 3

// Scheduler drains a set of files through a BlobUploader, reporting
// cumulative progress in the upload phase's range.
type Scheduler interface {
	Schedule(ctx context.Context, repo RepoCoordinate, files []FileTask, reporter Reporter) ([]Candidate, error)
}

// NewScheduler returns the scheduler for mode
func NewScheduler(mode UploadMode, uploader *BlobUploader, batchSize int) Scheduler {
	if mode == ModeConcurrent {
		return &BatchScheduler{Uploader: uploader, BatchSize: batchSize}
	}
	return &SequentialScheduler{Uploader: uploader}
}

func totalSize(files []FileTask) int64 {
	var total int64
	for _, f := range files {
		total += f.Size()
	}
	return total
}

// SequentialScheduler uploads one file at a time in the given order
type SequentialScheduler struct {
	Uploader *BlobUploader
}

// Schedule implements Scheduler
func (s *SequentialScheduler) Schedule(ctx context.Context, repo RepoCoordinate, files []FileTask, reporter Reporter) ([]Candidate, error) {
	total := totalSize(files)
	candidates := make([]Candidate, 0, len(files))

	var done int64
	for i, file := range files {
		reporter.Report(UploadProgress(done, total), fmt.Sprintf("Creating blob for file %d of %d: %s", i+1, len(files), file.Path))

		sha, err := s.Uploader.Upload(ctx, repo, file.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", file.Path, err)
		}
		candidates = append(candidates, Candidate{Path: file.Path, SHA: sha})
		done += file.Size()
	}
	return candidates, nil
}

// BatchScheduler uploads fixed-size batches concurrently, waiting for each
// batch to finish before starting the next.
type BatchScheduler struct {
	Uploader  *BlobUploader
	BatchSize int
}

// Schedule implements Scheduler
func (s *BatchScheduler) Schedule(ctx context.Context, repo RepoCoordinate, files []FileTask, reporter Reporter) ([]Candidate, error) {
	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	total := totalSize(files)
	batches := (len(files) + size - 1) / size
	candidates := make([]Candidate, len(files))

	var done int64
	for b := 0; b < batches; b++ {
		start := b * size
		end := min(start+size, len(files))

		// Only completed batches count towards progress
		reporter.Report(UploadProgress(done, total), fmt.Sprintf("Processing batch %d of %d", b+1, batches))

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			file := files[i]
			g.Go(func() error {
				sha, err := s.Uploader.Upload(gctx, repo, file.Content)
				if err != nil {
					return fmt.Errorf("failed to upload %s: %w", file.Path, err)
				}
				candidates[i] = Candidate{Path: file.Path, SHA: sha}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		for i := start; i < end; i++ {
			done += files[i].Size()
		}
	}
	return candidates, nil
}
