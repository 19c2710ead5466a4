package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

// DeadLetterRepo implements storage.DeadLetterRepository using PostgreSQL.
type DeadLetterRepo struct {
	db *DB
}

// NewDeadLetterRepo creates a new PostgreSQL dead letter repository.
func NewDeadLetterRepo(db *DB) *DeadLetterRepo {
	return &DeadLetterRepo{db: db}
}

// Add enqueues a dead letter.
func (r *DeadLetterRepo) Add(ctx context.Context, dl *domain.DeadLetter) error {
	query := `
		INSERT INTO dead_letters (id, pull_request_id, final_state, reason, attempts, last_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(
		ctx,
		query,
		dl.ID,
		dl.PullRequestID,
		dl.FinalState,
		dl.Reason,
		dl.Attempts,
		dl.LastError,
		dl.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add dead letter: %w", err)
	}
	return nil
}

// GetAll returns all queued dead letters, oldest first.
func (r *DeadLetterRepo) GetAll(ctx context.Context) ([]*domain.DeadLetter, error) {
	query := `
		SELECT id, pull_request_id, final_state, reason, attempts, last_error, created_at
		FROM dead_letters
		ORDER BY created_at ASC
	`

	var rows []deadLetterRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get dead letters: %w", err)
	}

	letters := make([]*domain.DeadLetter, 0, len(rows))
	for _, row := range rows {
		letters = append(letters, row.toDomain())
	}
	return letters, nil
}

// Remove deletes a dead letter.
func (r *DeadLetterRepo) Remove(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM dead_letters WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to remove dead letter: %w", err)
	}
	return nil
}

// Count returns the queue depth.
func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM dead_letters`); err != nil {
		return 0, fmt.Errorf("failed to count dead letters: %w", err)
	}
	return count, nil
}

type deadLetterRow struct {
	ID            string    `db:"id"`
	PullRequestID string    `db:"pull_request_id"`
	FinalState    string    `db:"final_state"`
	Reason        string    `db:"reason"`
	Attempts      int       `db:"attempts"`
	LastError     string    `db:"last_error"`
	CreatedAt     time.Time `db:"created_at"`
}

func (row deadLetterRow) toDomain() *domain.DeadLetter {
	return &domain.DeadLetter{
		ID:            row.ID,
		PullRequestID: domain.PullRequestID(row.PullRequestID),
		FinalState:    domain.MergeState(row.FinalState),
		Reason:        domain.FailureReason(row.Reason),
		Attempts:      row.Attempts,
		LastError:     row.LastError,
		CreatedAt:     row.CreatedAt,
	}
}
