package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vietddude/mergewatch/internal/core/domain"
)

// Retention for dead letter payloads; the queue entry is removed when
// the payload expires.
const deadLetterTTL = 7 * 24 * time.Hour

// DeadLetterRepo implements storage.DeadLetterRepository using Redis.
type DeadLetterRepo struct {
	rdb *redis.Client
}

// NewDeadLetterRepo creates a new Redis-backed dead letter repository.
func NewDeadLetterRepo(client *Client) *DeadLetterRepo {
	return &DeadLetterRepo{rdb: client.rdb}
}

// Key helpers
func (r *DeadLetterRepo) queueKey() string {
	return "dead_letters"
}

func (r *DeadLetterRepo) letterKey(id string) string {
	return fmt.Sprintf("dead_letter:%s", id)
}

// Add enqueues a dead letter.
func (r *DeadLetterRepo) Add(ctx context.Context, dl *domain.DeadLetter) error {
	data, err := json.Marshal(dl)
	if err != nil {
		return fmt.Errorf("failed to marshal dead letter: %w", err)
	}

	if err := r.rdb.Set(ctx, r.letterKey(dl.ID), data, deadLetterTTL).Err(); err != nil {
		return fmt.Errorf("failed to set dead letter: %w", err)
	}

	// Sorted set keyed by arrival time, oldest first.
	if err := r.rdb.ZAdd(ctx, r.queueKey(), redis.Z{
		Score:  float64(dl.CreatedAt.Unix()),
		Member: dl.ID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to add to queue: %w", err)
	}

	return nil
}

// GetAll retrieves all dead letters, oldest first.
func (r *DeadLetterRepo) GetAll(ctx context.Context) ([]*domain.DeadLetter, error) {
	ids, err := r.rdb.ZRange(ctx, r.queueKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange failed: %w", err)
	}

	letters := make([]*domain.DeadLetter, 0, len(ids))
	for _, id := range ids {
		data, err := r.rdb.Get(ctx, r.letterKey(id)).Bytes()
		if err == redis.Nil {
			// Payload expired but ID still in queue, remove it
			r.rdb.ZRem(ctx, r.queueKey(), id)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get dead letter: %w", err)
		}

		var dl domain.DeadLetter
		if err := json.Unmarshal(data, &dl); err != nil {
			continue
		}
		letters = append(letters, &dl)
	}

	return letters, nil
}

// Remove deletes a dead letter after operator resolution.
func (r *DeadLetterRepo) Remove(ctx context.Context, id string) error {
	if err := r.rdb.ZRem(ctx, r.queueKey(), id).Err(); err != nil {
		return fmt.Errorf("failed to remove from queue: %w", err)
	}
	if err := r.rdb.Del(ctx, r.letterKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete dead letter: %w", err)
	}
	return nil
}

// Count returns the queue depth.
func (r *DeadLetterRepo) Count(ctx context.Context) (int, error) {
	count, err := r.rdb.ZCard(ctx, r.queueKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard failed: %w", err)
	}
	return int(count), nil
}
