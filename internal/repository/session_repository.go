package repository

import (
	"context"
	"errors"
	"legal_eval_backend/internal/util"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionKeyPrefix = "session:"

// SessionRepository 基于 Redis 的会话存储，会话 id 为不透明的 uuid
type SessionRepository struct {
	Redis *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{Redis: rdb}
}

func (r *SessionRepository) Create(ctx context.Context, userID uint, ttl time.Duration) (string, error) {
	id := uuid.New().String()
	err := r.Redis.Set(ctx, sessionKeyPrefix+id, strconv.FormatUint(uint64(userID), 10), ttl).Err()
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (uint, error) {
	val, err := r.Redis.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, util.ErrSessionNotFound
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 32)
	if err != nil {
		return 0, util.ErrSessionNotFound
	}
	return uint(id), nil
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.Redis.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
