// Package history stores per-user query history in Redis lists.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cartwise/backend/internal/domain"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// DefaultTTL is how long a user's history lives after the last write
const DefaultTTL = 24 * time.Hour

// RedisRepository implements domain.HistoryRepository
type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository creates a history repository
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRepository{client: client, ttl: ttl}
}

func userKey(userID string) string {
	return fmt.Sprintf("user_id:%s:queries", userID)
}

// Save appends the record to the user's list and refreshes its expiry
func (r *RedisRepository) Save(ctx context.Context, record *domain.HistoryRecord) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding history record: %w", err)
	}

	key := userKey(record.UserID)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.Expire(ctx, key, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: saving history for %s: %v", domain.ErrCacheUnavailable, record.UserID, err)
	}
	return nil
}

// List returns every stored record for a user, oldest first.
// Entries that fail to decode are skipped.
func (r *RedisRepository) List(ctx context.Context, userID string) ([]domain.HistoryRecord, error) {
	entries, err := r.client.LRange(ctx, userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: reading history for %s: %v", domain.ErrCacheUnavailable, userID, err)
	}

	records := make([]domain.HistoryRecord, 0, len(entries))
	for i, entry := range entries {
		var record domain.HistoryRecord
		if err := json.Unmarshal([]byte(entry), &record); err != nil {
			log.Warnf("[HISTORY] skipping undecodable entry %d for %s: %v", i, userID, err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
