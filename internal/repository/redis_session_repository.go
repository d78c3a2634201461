package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myfitapp/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ SessionRepository = (*redisSessionRepository)(nil)

type redisSessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionRepository stores sessions as session:{jti} -> userID with a
// per-user index set user_sessions:{userID}.
func NewRedisSessionRepository(client *redis.Client, logger *zap.Logger) SessionRepository {
	return &redisSessionRepository{
		client: client,
		logger: logger.Named("RedisSessionRepo"),
	}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func userSessionsKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_sessions:%s", userID.String())
}

func (r *redisSessionRepository) Save(ctx context.Context, session models.Session) error {
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return models.ErrTokenExpired
	}
	setKey := userSessionsKey(session.UserID)

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sessionKey(session.ID), session.UserID.String(), ttl)
	pipe.SAdd(ctx, setKey, session.ID)
	// The index lives as long as the longest session added to it.
	pipe.ExpireGT(ctx, setKey, ttl)
	pipe.ExpireNX(ctx, setKey, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save session", zap.String("userID", session.UserID.String()), zap.Error(err))
		return fmt.Errorf("failed to save session in redis: %w", err)
	}
	r.logger.Debug("Session saved", zap.String("userID", session.UserID.String()), zap.Duration("ttl", ttl))
	return nil
}

func (r *redisSessionRepository) GetUserID(ctx context.Context, sessionID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get session from redis", zap.Error(err))
		return uuid.Nil, fmt.Errorf("failed to get session from redis: %w", err)
	}
	userID, err := uuid.Parse(val)
	if err != nil {
		r.logger.Error("Corrupted session value in redis", zap.String("value", val), zap.Error(err))
		return uuid.Nil, fmt.Errorf("corrupted session data in redis: %w", err)
	}
	return userID, nil
}

func (r *redisSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	setKey := userSessionsKey(userID)
	ids, err := r.client.SMembers(ctx, setKey).Result()
	if err != nil {
		r.logger.Error("Failed to list user sessions", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to list user sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	pipe := r.client.TxPipeline()
	delCmd := pipe.Del(ctx, keys...)
	pipe.Del(ctx, setKey)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to revoke user sessions", zap.String("userID", userID.String()), zap.Error(err))
		return 0, fmt.Errorf("failed to revoke user sessions: %w", err)
	}

	deleted := delCmd.Val()
	r.logger.Info("User sessions revoked", zap.String("userID", userID.String()), zap.Int64("deleted", deleted))
	return deleted, nil
}
