package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jwebster45206/story-arena/pkg/savefile"
	"github.com/jwebster45206/story-arena/pkg/storage"
)

const slotExt = ".txt"

// ErrInvalidSlot is returned for slot names that cannot be used as a file name.
var ErrInvalidSlot = errors.New("invalid save slot name")

// FileStorage keeps one flat record file per slot: <dir>/<slot>.txt.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

// Ensure FileStorage implements Storage interface
var _ storage.Storage = (*FileStorage)(nil)

// NewFileStorage creates a file-backed storage rooted at dir. The directory
// is created on first save.
func NewFileStorage(dir string, logger *slog.Logger) *FileStorage {
	if dir == "" {
		dir = "."
	}
	return &FileStorage{dir: dir, logger: logger}
}

// Path returns the file that backs slot.
func (s *FileStorage) Path(slot string) (string, error) {
	if slot == "" || slot == "." || slot == ".." || strings.ContainsAny(slot, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	return filepath.Join(s.dir, slot+slotExt), nil
}

func (s *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Nothing saved yet; the directory is made on first save.
			return nil
		}
		return fmt.Errorf("save directory check failed: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("save path %s is not a directory", s.dir)
	}
	return nil
}

func (s *FileStorage) Close() error {
	return nil
}

// SaveCharacter writes to a temporary file and renames it over the slot, so
// a failed save never damages the previous one.
func (s *FileStorage) SaveCharacter(ctx context.Context, slot string, rec *savefile.Record) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}

	data, err := savefile.Marshal(rec)
	if err != nil {
		s.logger.Error("Failed to encode character", "slot", slot, "error", err)
		return fmt.Errorf("failed to encode character: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, slot+".*.tmp")
	if err != nil {
		s.logger.Error("Failed to open save file", "slot", slot, "error", err)
		return fmt.Errorf("failed to open save file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name()) // No-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close save file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		s.logger.Error("Failed to replace save file", "slot", slot, "error", err)
		return fmt.Errorf("failed to replace save file: %w", err)
	}

	s.logger.Debug("Character saved", "slot", slot, "path", path, "bytes", len(data))
	return nil
}

func (s *FileStorage) LoadCharacter(ctx context.Context, slot string) (*savefile.Record, error) {
	path, err := s.Path(slot)
	if err != nil {
		return nil, err
	}

	rec, err := savefile.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Save slot not found", "slot", slot, "path", path)
			return nil, fmt.Errorf("%w: %s: %w", storage.ErrNotFound, slot, err)
		}
		s.logger.Error("Failed to load character", "slot", slot, "error", err)
		return nil, fmt.Errorf("failed to load character: %w", err)
	}
	return rec, nil
}

func (s *FileStorage) DeleteCharacter(ctx context.Context, slot string) error {
	path, err := s.Path(slot)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

func (s *FileStorage) ListSlots(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read save directory: %w", err)
	}

	slots := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == slotExt {
			slots = append(slots, strings.TrimSuffix(entry.Name(), slotExt))
		}
	}
	return slots, nil
}
