package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myfitapp/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ OAuthStateRepository = (*redisOAuthRepository)(nil)

type redisOAuthRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisOAuthRepository(client *redis.Client, logger *zap.Logger) OAuthStateRepository {
	return &redisOAuthRepository{
		client: client,
		logger: logger.Named("RedisOAuthRepo"),
	}
}

func (r *redisOAuthRepository) SaveState(ctx context.Context, state string, ttl time.Duration) error {
	if err := r.client.Set(ctx, "oauth_state:"+state, "1", ttl).Err(); err != nil {
		r.logger.Error("Failed to save oauth state", zap.Error(err))
		return fmt.Errorf("failed to save oauth state: %w", err)
	}
	return nil
}

func (r *redisOAuthRepository) ConsumeState(ctx context.Context, state string) error {
	if state == "" {
		return models.ErrOAuthStateInvalid
	}
	n, err := r.client.Del(ctx, "oauth_state:"+state).Result()
	if err != nil {
		r.logger.Error("Failed to consume oauth state", zap.Error(err))
		return fmt.Errorf("failed to consume oauth state: %w", err)
	}
	if n == 0 {
		return models.ErrOAuthStateInvalid
	}
	return nil
}

func (r *redisOAuthRepository) SaveTicket(ctx context.Context, ticket string, payload models.OAuthTicket, ttl time.Duration) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal oauth ticket: %w", err)
	}
	if err := r.client.Set(ctx, "oauth_ticket:"+ticket, data, ttl).Err(); err != nil {
		r.logger.Error("Failed to save oauth ticket", zap.Error(err))
		return fmt.Errorf("failed to save oauth ticket: %w", err)
	}
	return nil
}

func (r *redisOAuthRepository) ConsumeTicket(ctx context.Context, ticket string) (*models.OAuthTicket, error) {
	if ticket == "" {
		return nil, models.ErrTicketNotFound
	}
	data, err := r.client.GetDel(ctx, "oauth_ticket:"+ticket).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrTicketNotFound
		}
		r.logger.Error("Failed to consume oauth ticket", zap.Error(err))
		return nil, fmt.Errorf("failed to consume oauth ticket: %w", err)
	}
	var payload models.OAuthTicket
	if err := json.Unmarshal(data, &payload); err != nil {
		r.logger.Error("Corrupted oauth ticket payload", zap.Error(err))
		return nil, fmt.Errorf("corrupted oauth ticket payload: %w", err)
	}
	return &payload, nil
}
