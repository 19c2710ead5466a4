package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vietddude/mergewatch/internal/core/domain"
)

// MemoryStorage is the in-process backing store. Per-key isolation is
// guaranteed by copying records on append and read under one RWMutex.
type MemoryStorage struct {
	attempts    map[domain.PullRequestID][]*domain.AttemptRecord
	deadLetters map[string]*domain.DeadLetter
	mu          sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		attempts:    make(map[domain.PullRequestID][]*domain.AttemptRecord),
		deadLetters: make(map[string]*domain.DeadLetter),
	}
}

// -----------------------------------------------------------------------------
// Attempt Repository
// -----------------------------------------------------------------------------

type AttemptRepo struct {
	store *MemoryStorage
}

func NewAttemptRepo(store *MemoryStorage) *AttemptRepo {
	return &AttemptRepo{store: store}
}

func (r *AttemptRepo) Append(ctx context.Context, rec *domain.AttemptRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *rec
	r.store.attempts[rec.PullRequestID] = append(r.store.attempts[rec.PullRequestID], &cp)
	return nil
}

func (r *AttemptRepo) GetByPullRequest(
	ctx context.Context,
	id domain.PullRequestID,
) ([]*domain.AttemptRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	recs := r.store.attempts[id]
	out := make([]*domain.AttemptRecord, len(recs))
	for i, rec := range recs {
		cp := *rec
		out[i] = &cp
	}
	return out, nil
}

func (r *AttemptRepo) Count(ctx context.Context, id domain.PullRequestID) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.attempts[id]), nil
}

func (r *AttemptRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var removed int64
	for id, recs := range r.store.attempts {
		kept := recs[:0]
		for _, rec := range recs {
			if rec.Timestamp.Before(cutoff) {
				removed++
				continue
			}
			kept = append(kept, rec)
		}
		if len(kept) == 0 {
			delete(r.store.attempts, id)
		} else {
			r.store.attempts[id] = kept
		}
	}
	return removed, nil
}

func (r *AttemptRepo) DeleteAll(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.attempts = make(map[domain.PullRequestID][]*domain.AttemptRecord)
	return nil
}

// -----------------------------------------------------------------------------
// Dead Letter Repository
// -----------------------------------------------------------------------------

type DeadLetterRepo struct {
	store *MemoryStorage
}

func NewDeadLetterRepo(store *MemoryStorage) *DeadLetterRepo {
	return &DeadLetterRepo{store: store}
}

func (r *DeadLetterRepo) Add(ctx context.Context, dl *domain.DeadLetter) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *dl
	r.store.deadLetters[dl.ID] = &cp
	return nil
}

func (r *DeadLetterRepo) GetAll(ctx context.Context) ([]*domain.DeadLetter, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]*domain.DeadLetter, 0, len(r.store.deadLetters))
	for _, dl := range r.store.deadLetters {
		cp := *dl
		out = append(out, &cp)
	}
	return out, nil
}

func (r *DeadLetterRepo) Remove(ctx context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.deadLetters, id)
	return nil
}

func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return len(r.store.deadLetters), nil
}
