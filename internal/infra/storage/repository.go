package storage

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

var (
	// ErrHistoryNotFound is returned when a pull request has no history
	ErrHistoryNotFound = errors.New("history not found")
)

// AttemptRepository is the append-only attempt log. Entries for
// different pull requests never interleave or overwrite each other.
type AttemptRepository interface {
	// Append appends a record to the pull request's log
	Append(ctx context.Context, rec *domain.AttemptRecord) error

	// GetByPullRequest returns the log ordered by attempt number
	GetByPullRequest(ctx context.Context, id domain.PullRequestID) ([]*domain.AttemptRecord, error)

	// Count returns the number of records for a pull request
	Count(ctx context.Context, id domain.PullRequestID) (int, error)

	// DeleteOlderThan prunes records older than cutoff, returning the count removed
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteAll clears the whole log
	DeleteAll(ctx context.Context) error
}

// DeadLetterRepository stores pull requests that failed for good.
type DeadLetterRepository interface {
	// Add enqueues a dead letter
	Add(ctx context.Context, dl *domain.DeadLetter) error

	// GetAll returns all queued dead letters
	GetAll(ctx context.Context) ([]*domain.DeadLetter, error)

	// Remove deletes a dead letter after operator resolution
	Remove(ctx context.Context, id string) error

	// Count returns the queue depth
	Count(ctx context.Context) (int, error)
}
