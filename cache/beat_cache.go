package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"BeatWave/db"
	"BeatWave/logger"
	"BeatWave/model"

	"github.com/redis/go-redis/v9"
)

const beatCacheTTL = 10 * time.Minute

// beatKey builds the Redis key for a cached beat record.
func beatKey(id int64) string {
	return fmt.Sprintf("beat:%d", id)
}

// CacheBeat stores a beat record in Redis.
func CacheBeat(ctx context.Context, beat *model.Beat) error {
	if db.RedisClient == nil {
		return fmt.Errorf("Redis client not initialized")
	}

	payload, err := json.Marshal(beat)
	if err != nil {
		return fmt.Errorf("failed to marshal beat %d: %w", beat.ID, err)
	}

	if err := db.RedisClient.Set(ctx, beatKey(beat.ID), payload, beatCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache beat %d: %w", beat.ID, err)
	}
	return nil
}

// GetCachedBeat returns the cached beat record, or (nil, nil) on a miss.
func GetCachedBeat(ctx context.Context, id int64) (*model.Beat, error) {
	if db.RedisClient == nil {
		return nil, nil
	}

	payload, err := db.RedisClient.Get(ctx, beatKey(id)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached beat %d: %w", id, err)
	}

	beat := &model.Beat{}
	if err := json.Unmarshal([]byte(payload), beat); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached beat %d: %w", id, err)
	}
	return beat, nil
}

// InvalidateBeat drops the cached record after a mutation. A failed
// invalidation is logged and swallowed; the TTL bounds the staleness.
func InvalidateBeat(ctx context.Context, id int64) {
	if db.RedisClient == nil {
		return
	}
	if err := db.RedisClient.Del(ctx, beatKey(id)).Err(); err != nil {
		logger.Warn("failed to invalidate cached beat",
			logger.Int64("beatId", id),
			logger.ErrorField(err),
		)
	}
}
