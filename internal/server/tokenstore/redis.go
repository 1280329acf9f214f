package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/filevault/internal/common"
)

// RedisStore implements Store over a Redis client.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, KeyPrefix+token, userID, ttl).Err(); err != nil {
		return fmt.Errorf("token set error: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (string, error) {
	userID, err := s.client.Get(ctx, KeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("token get error: %w", err)
	}
	return userID, nil
}

func (s *RedisStore) Del(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, KeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("token del error: %w", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
