// Package app wires configured backends into sessions for the commands.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-arena/internal/config"
	"github.com/jwebster45206/story-arena/internal/storage"
	"github.com/jwebster45206/story-arena/pkg/dice"
	"github.com/jwebster45206/story-arena/pkg/game"
	"github.com/jwebster45206/story-arena/pkg/journal"
	gamestore "github.com/jwebster45206/story-arena/pkg/storage"
)

const (
	redisRetries    = 10
	redisRetryDelay = time.Second
)

// Backends holds the storage and journal chosen by configuration for one
// session.
type Backends struct {
	SessionID uuid.UUID
	Storage   gamestore.Storage
	Journal   journal.Journal

	redis   *storage.RedisStorage
	file    *journal.File
	closers []func() error
}

// Open connects the configured backends. extra sinks, such as an in-memory
// feed for a UI, receive every journal entry too.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger, extra ...journal.Journal) (*Backends, error) {
	b := &Backends{SessionID: uuid.New()}

	if cfg.UsesRedis() {
		b.redis = storage.NewRedisStorage(cfg.RedisURL, log)
		b.closers = append(b.closers, b.redis.Close)
		if err := b.redis.WaitForConnection(ctx, redisRetries, redisRetryDelay); err != nil {
			_ = b.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	switch cfg.StorageBackend {
	case config.BackendRedis:
		b.Storage = b.redis
	default:
		b.Storage = storage.NewFileStorage(cfg.SaveDir, log)
	}
	if err := b.Storage.Ping(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("failed to connect to storage: %w", err)
	}

	var sink journal.Journal
	switch cfg.JournalBackend {
	case config.BackendRedis:
		sink = journal.NewRedis(b.redis.Client(), b.SessionID, log)
	default:
		b.file = journal.OpenFile(cfg.JournalPath)
		b.closers = append(b.closers, b.file.Close)
		sink = b.file
	}
	b.Journal = journal.Tee(append([]journal.Journal{sink}, extra...)...)

	log.Info("Backends ready",
		"session_id", b.SessionID.String(),
		"storage", cfg.StorageBackend,
		"journal", cfg.JournalBackend)
	return b, nil
}

// NewSession builds a session over the backends.
func (b *Backends) NewSession(cfg *config.Config, log *slog.Logger) (*game.Session, error) {
	return game.NewSession(game.Options{
		ID:                b.SessionID,
		Storage:           b.Storage,
		Journal:           b.Journal,
		Rand:              NewRNG(cfg, log),
		Logger:            log,
		InventoryCapacity: cfg.InventoryCapacity,
	})
}

// JournalErr reports a failure of the file journal, if one is in use.
func (b *Backends) JournalErr() error {
	if b.file == nil {
		return nil
	}
	return b.file.Err()
}

// Close releases every backend, newest first.
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

// NewRNG seeds from RNG_SEED when set and from the clock otherwise. The
// seed is logged so a run can be replayed.
func NewRNG(cfg *config.Config, log *slog.Logger) *dice.RNG {
	var rng *dice.RNG
	if cfg.RNGSeed != 0 {
		rng = dice.NewRNG(cfg.RNGSeed)
	} else {
		rng = dice.NewTimeSeeded()
	}
	log.Debug("Random source ready", "seed", rng.Seed())
	return rng
}
