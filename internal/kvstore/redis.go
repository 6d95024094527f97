package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the store relies on.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var errMissingRedisClient = errors.New("kvstore: redis client is required")

// RedisStoreConfig describes the dependencies of a RedisStore.
type RedisStoreConfig struct {
	Client        redisClient
	KeyPrefix     string
	MaxValueBytes int
}

// RedisStore persists values as plain redis strings without expiry.
type RedisStore struct {
	client        redisClient
	prefix        string
	maxValueBytes int
}

// NewRedisStore constructs a RedisStore around an existing client.
func NewRedisStore(cfg RedisStoreConfig) (*RedisStore, error) {
	if cfg.Client == nil {
		return nil, errMissingRedisClient
	}
	return &RedisStore{
		client:        cfg.Client,
		prefix:        cfg.KeyPrefix,
		maxValueBytes: cfg.MaxValueBytes,
	}, nil
}

// DialRedis opens a client and verifies connectivity.
func DialRedis(ctx context.Context, address, password string, db int) (*redis.Client, error) {
	if address == "" {
		return nil, fmt.Errorf("kvstore: redis address is empty")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("kvstore: failed to ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := validateKey(key); err != nil {
		return "", false, err
	}
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kvstore: redis get %s: %w", key, err)
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := checkQuota(key, value, s.maxValueBytes); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("kvstore: redis set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("kvstore: redis del %s: %w", key, err)
	}
	return nil
}
