package repository

import (
	"context"
	"errors"
	"legal_eval_backend/internal/util"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
)

// newIntegrationRedis 连接 REDIS_ADDR 指定的实例，未设置时跳过
func newIntegrationRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("set REDIS_ADDR to run redis session integration tests")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis not reachable at %s: %v", addr, err)
	}
	t.Cleanup(func() { rdb.Close() })
	return rdb
}

func TestSessionRepositoryLifecycle(t *testing.T) {
	rdb := newIntegrationRedis(t)
	repo := NewSessionRepository(rdb)
	ctx := context.Background()

	id, err := repo.Create(ctx, 42, time.Minute)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { rdb.Del(context.Background(), sessionKeyPrefix+id) })

	userID, err := repo.Get(ctx, id)
	if err != nil || userID != 42 {
		t.Fatalf("get: user=%d err=%v", userID, err)
	}

	ttl, err := rdb.TTL(ctx, sessionKeyPrefix+id).Result()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Fatalf("unexpected ttl: %v", ttl)
	}

	if err := repo.Delete(ctx, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("deleted session: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryMissingAndCorrupt(t *testing.T) {
	rdb := newIntegrationRedis(t)
	repo := NewSessionRepository(rdb)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "does-not-exist"); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("missing session: expected ErrSessionNotFound, got %v", err)
	}

	key := sessionKeyPrefix + "corrupt-" + time.Now().Format("150405.000000")
	if err := rdb.Set(ctx, key, "not-a-number", time.Minute).Err(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	t.Cleanup(func() { rdb.Del(context.Background(), key) })

	if _, err := repo.Get(ctx, key[len(sessionKeyPrefix):]); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("corrupt session: expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionRepositoryExpires(t *testing.T) {
	rdb := newIntegrationRedis(t)
	repo := NewSessionRepository(rdb)
	ctx := context.Background()

	id, err := repo.Create(ctx, 7, time.Second)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(1500 * time.Millisecond)

	if _, err := repo.Get(ctx, id); !errors.Is(err, util.ErrSessionNotFound) {
		t.Fatalf("expired session: expected ErrSessionNotFound, got %v", err)
	}
}
