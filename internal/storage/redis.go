package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jwebster45206/story-arena/pkg/savefile"
	"github.com/jwebster45206/story-arena/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const characterKeyPrefix = "character:"

// RedisStorage implements the Storage interface using Redis. Each slot is a
// string key holding the same flat text record the file backend writes.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. redisURL may be a
// bare host:port or a redis:// URL.
func NewRedisStorage(redisURL string, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{
		client: redis.NewClient(Options(redisURL)),
		logger: logger,
	}
}

// Options turns a host:port or redis:// URL into client options.
func Options(redisURL string) *redis.Options {
	if strings.Contains(redisURL, "://") {
		if opts, err := redis.ParseURL(redisURL); err == nil {
			return opts
		}
	}
	return &redis.Options{Addr: redisURL}
}

// Client exposes the underlying client so other components (the journal)
// can share the connection pool.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	cmd := r.client.Ping(ctx)
	if err := cmd.Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Character operations

func (r *RedisStorage) SaveCharacter(ctx context.Context, slot string, rec *savefile.Record) error {
	data, err := savefile.Marshal(rec)
	if err != nil {
		r.logger.Error("Failed to encode character", "slot", slot, "error", err)
		return fmt.Errorf("failed to encode character: %w", err)
	}

	key := characterKeyPrefix + slot
	if err := r.client.Set(ctx, key, string(data), 0).Err(); err != nil {
		r.logger.Error("Failed to save character", "slot", slot, "error", err)
		return fmt.Errorf("failed to save character: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadCharacter(ctx context.Context, slot string) (*savefile.Record, error) {
	key := characterKeyPrefix + slot
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Save slot not found", "slot", slot)
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, slot)
		}
		r.logger.Error("Failed to load character", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}

	rec, err := savefile.Unmarshal([]byte(data))
	if err != nil {
		r.logger.Error("Failed to decode character", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to decode character: %w", err)
	}
	return rec, nil
}

func (r *RedisStorage) DeleteCharacter(ctx context.Context, slot string) error {
	if err := r.client.Del(ctx, characterKeyPrefix+slot).Err(); err != nil {
		r.logger.Error("Failed to delete character", "slot", slot, "error", err)
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListSlots(ctx context.Context) ([]string, error) {
	slots := []string{}
	iter := r.client.Scan(ctx, 0, characterKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		slots = append(slots, strings.TrimPrefix(iter.Val(), characterKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	sort.Strings(slots)
	return slots, nil
}
