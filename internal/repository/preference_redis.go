package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"liferestart-server/internal/models"
)

// Compile-time check to ensure redisPreferenceRepository implements PreferenceRepository.
var _ PreferenceRepository = (*redisPreferenceRepository)(nil)

// preferenceKey is the single key holding the serialized {provider, model}
// pair. The game is single-player, so the preference is app-wide.
const preferenceKey = "liferestart:llm_preference"

type redisPreferenceRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisPreferenceRepository creates a Redis-backed PreferenceRepository.
func NewRedisPreferenceRepository(client *redis.Client, logger *zap.Logger) PreferenceRepository {
	return &redisPreferenceRepository{
		client: client,
		logger: logger.Named("RedisPreferenceRepo"),
	}
}

func (r *redisPreferenceRepository) GetSelection(ctx context.Context) (*models.LLMSelection, error) {
	raw, err := r.client.Get(ctx, preferenceKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPreferenceNotFound
	}
	if err != nil {
		r.logger.Warn("Failed to read llm preference from redis", zap.Error(err))
		return nil, fmt.Errorf("failed to read llm preference: %w", err)
	}

	var sel models.LLMSelection
	if err := json.Unmarshal([]byte(raw), &sel); err != nil {
		r.logger.Warn("Stored llm preference is not valid JSON", zap.Error(err))
		return nil, fmt.Errorf("failed to decode llm preference: %w", err)
	}
	return &sel, nil
}

func (r *redisPreferenceRepository) SaveSelection(ctx context.Context, sel models.LLMSelection) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to encode llm preference: %w", err)
	}
	// No TTL: the preference lives until the player changes it.
	if err := r.client.Set(ctx, preferenceKey, raw, 0).Err(); err != nil {
		r.logger.Error("Failed to save llm preference to redis", zap.Error(err))
		return fmt.Errorf("failed to save llm preference: %w", err)
	}
	r.logger.Debug("Saved llm preference",
		zap.String("provider", string(sel.Provider)),
		zap.String("model", sel.Model),
	)
	return nil
}
