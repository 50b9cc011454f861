package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	SaveDir     string
	SaveSlot    string
	JournalPath string

	StorageBackend string
	JournalBackend string
	RedisURL       string

	// RNGSeed is zero when no seed was configured; the caller then seeds
	// from the clock.
	RNGSeed            uint64
	InventoryCapacity  int
	AutoBattleInterval time.Duration
}

// Load reads configuration from the environment. Values in a .env file in
// the working directory are used for keys that are not already set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       parseLogLevel(getEnv("LOG_LEVEL", "info")),
		SaveDir:        getEnv("SAVE_DIR", "."),
		SaveSlot:       getEnv("SAVE_SLOT", "save"),
		JournalPath:    getEnv("JOURNAL_PATH", "game_log.txt"),
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", BackendFile)),
		JournalBackend: strings.ToLower(getEnv("JOURNAL_BACKEND", BackendFile)),
		RedisURL:       getEnv("REDIS_URL", "localhost:6379"),
	}

	var err error
	if seed := getEnv("RNG_SEED", ""); seed != "" {
		if cfg.RNGSeed, err = strconv.ParseUint(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid RNG_SEED: %w", err)
		}
	}
	if cfg.InventoryCapacity, err = strconv.Atoi(getEnv("INVENTORY_CAPACITY", "0")); err != nil {
		return nil, fmt.Errorf("invalid INVENTORY_CAPACITY: %w", err)
	}
	if cfg.AutoBattleInterval, err = time.ParseDuration(getEnv("AUTOBATTLE_INTERVAL", "500ms")); err != nil {
		return nil, fmt.Errorf("invalid AUTOBATTLE_INTERVAL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that parsed but make no sense.
func (c *Config) Validate() error {
	for key, backend := range map[string]string{
		"STORAGE_BACKEND": c.StorageBackend,
		"JOURNAL_BACKEND": c.JournalBackend,
	} {
		if backend != BackendFile && backend != BackendRedis {
			return fmt.Errorf("invalid %s %q: must be %q or %q", key, backend, BackendFile, BackendRedis)
		}
	}
	if c.InventoryCapacity < 0 {
		return fmt.Errorf("invalid INVENTORY_CAPACITY %d: must be 0 (unbounded) or more", c.InventoryCapacity)
	}
	if c.AutoBattleInterval < 0 {
		return fmt.Errorf("invalid AUTOBATTLE_INTERVAL %s: must not be negative", c.AutoBattleInterval)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.StorageBackend == BackendRedis || c.JournalBackend == BackendRedis
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
