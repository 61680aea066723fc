package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mfagan/canondrift/pkg/beat"
)

// StoryState operations (Redis-backed)

const storyStateTTL = 24 * time.Hour

func storyStateKey(id uuid.UUID) string {
	return "storystate:" + id.String()
}

func (r *RedisStorage) SaveStoryState(ctx context.Context, id uuid.UUID, st *beat.StoryState) error {
	st.SavedAt = time.Now()

	data, err := json.Marshal(st)
	if err != nil {
		r.logger.Error("Failed to marshal story state", "uuid", id, "error", err)
		return fmt.Errorf("failed to marshal story state: %w", err)
	}

	cmd := r.client.Set(ctx, storyStateKey(id), string(data), storyStateTTL)
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to save story state", "uuid", id, "error", err)
		return fmt.Errorf("failed to save story state: %w", err)
	}

	return nil
}

func (r *RedisStorage) LoadStoryState(ctx context.Context, id uuid.UUID) (*beat.StoryState, error) {
	cmd := r.client.Get(ctx, storyStateKey(id))
	if err := cmd.Err(); err != nil {
		if err == redis.Nil {
			r.logger.Warn("Story state not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load story state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load story state: %w", err)
	}

	data := cmd.Val()
	if data == "" {
		r.logger.Warn("Story state not found", "uuid", id)
		return nil, nil
	}

	var st beat.StoryState
	if err := json.Unmarshal([]byte(data), &st); err != nil {
		r.logger.Error("Failed to unmarshal story state", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal story state: %w", err)
	}

	return &st, nil
}

func (r *RedisStorage) DeleteStoryState(ctx context.Context, id uuid.UUID) error {
	cmd := r.client.Del(ctx, storyStateKey(id))
	if err := cmd.Err(); err != nil {
		r.logger.Error("Failed to delete story state", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete story state: %w", err)
	}
	return nil
}
