package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"user-management-api/internal/domain"
)

const redisKeyPrefix = "user:"

// RedisEngine stores one JSON document per userId key.
type RedisEngine struct {
	rdb *redis.Client
}

func NewRedisEngine(addr, password string, db int) *RedisEngine {
	return &RedisEngine{
		rdb: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
	}
}

func (e *RedisEngine) Put(ctx context.Context, u *domain.User) error {
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("redis: marshal user %s: %w", u.UserID, err)
	}
	return e.rdb.Set(ctx, redisKeyPrefix+u.UserID, b, 0).Err()
}

func (e *RedisEngine) Get(ctx context.Context, userID string) (*domain.User, error) {
	b, err := e.rdb.Get(ctx, redisKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil, fmt.Errorf("redis: unmarshal user %s: %w", userID, err)
	}
	return &u, nil
}

func (e *RedisEngine) Update(ctx context.Context, u *domain.User) error {
	return e.Put(ctx, u)
}

func (e *RedisEngine) Delete(ctx context.Context, userID string) error {
	return e.rdb.Del(ctx, redisKeyPrefix+userID).Err()
}

// Close releases the client; only the engine owner calls this.
func (e *RedisEngine) Close() error { return e.rdb.Close() }
