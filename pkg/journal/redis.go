package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisWriteTimeout = 2 * time.Second

// Redis appends entries to a Redis list, one RPUSH per entry.
// The list key is scoped to a session: "journal:<session id>".
type Redis struct {
	client *redis.Client
	key    string
	logger *slog.Logger
}

var _ Journal = (*Redis)(nil)

// NewRedis creates a journal that writes to the list for sessionID.
func NewRedis(client *redis.Client, sessionID uuid.UUID, logger *slog.Logger) *Redis {
	return &Redis{
		client: client,
		key:    "journal:" + sessionID.String(),
		logger: logger,
	}
}

// Key returns the Redis list key entries are pushed to.
func (r *Redis) Key() string {
	return r.key
}

func (r *Redis) Log(entry string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisWriteTimeout)
	defer cancel()

	if err := r.client.RPush(ctx, r.key, entry).Err(); err != nil {
		r.logger.Error("Failed to append journal entry", "key", r.key, "error", err)
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

// Entries reads the whole list back in order.
func (r *Redis) Entries(ctx context.Context) ([]string, error) {
	entries, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}
