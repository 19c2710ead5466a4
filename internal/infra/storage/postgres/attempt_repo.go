package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

// AttemptRepo implements storage.AttemptRepository using PostgreSQL.
type AttemptRepo struct {
	db *DB
}

// NewAttemptRepo creates a new PostgreSQL attempt repository.
func NewAttemptRepo(db *DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Append appends an attempt record.
func (r *AttemptRepo) Append(ctx context.Context, rec *domain.AttemptRecord) error {
	query := `
		INSERT INTO attempts (id, pull_request_id, attempt_number, observed_state, error_msg, delay_ms, outcome, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		rec.ID,
		rec.PullRequestID,
		rec.AttemptNumber,
		rec.ObservedState,
		rec.Error,
		rec.DelayApplied.Milliseconds(),
		rec.Outcome,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to append attempt: %w", err)
	}
	return nil
}

// GetByPullRequest returns the ordered attempt log.
func (r *AttemptRepo) GetByPullRequest(
	ctx context.Context,
	id domain.PullRequestID,
) ([]*domain.AttemptRecord, error) {
	query := `
		SELECT id, pull_request_id, attempt_number, observed_state, error_msg, delay_ms, outcome, created_at
		FROM attempts
		WHERE pull_request_id = $1
		ORDER BY created_at ASC, attempt_number ASC
	`

	var rows []attemptRow
	if err := r.db.SelectContext(ctx, &rows, query, id); err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}

	recs := make([]*domain.AttemptRecord, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, row.toDomain())
	}
	return recs, nil
}

// Count returns the number of records for a pull request.
func (r *AttemptRepo) Count(ctx context.Context, id domain.PullRequestID) (int, error) {
	query := `SELECT COUNT(*) FROM attempts WHERE pull_request_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("failed to count attempts: %w", err)
	}
	return count, nil
}

// DeleteOlderThan prunes records created before cutoff.
func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM attempts WHERE created_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAll clears the whole log.
func (r *AttemptRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM attempts`); err != nil {
		return fmt.Errorf("failed to clear attempts: %w", err)
	}
	return nil
}

type attemptRow struct {
	ID            string    `db:"id"`
	PullRequestID string    `db:"pull_request_id"`
	AttemptNumber int       `db:"attempt_number"`
	ObservedState string    `db:"observed_state"`
	ErrorMsg      string    `db:"error_msg"`
	DelayMs       int64     `db:"delay_ms"`
	Outcome       string    `db:"outcome"`
	CreatedAt     time.Time `db:"created_at"`
}

func (row attemptRow) toDomain() *domain.AttemptRecord {
	return &domain.AttemptRecord{
		ID:            row.ID,
		PullRequestID: domain.PullRequestID(row.PullRequestID),
		AttemptNumber: row.AttemptNumber,
		Timestamp:     row.CreatedAt,
		ObservedState: domain.MergeState(row.ObservedState),
		Error:         row.ErrorMsg,
		DelayApplied:  time.Duration(row.DelayMs) * time.Millisecond,
		Outcome:       domain.AttemptOutcome(row.Outcome),
	}
}
