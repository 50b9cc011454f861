package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/story-arena/pkg/savefile"
)

// ErrNotFound is returned when a save slot holds no record.
var ErrNotFound = errors.New("save slot not found")

// Storage defines the interface for character persistence. Each save slot
// holds one flat character record.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// SaveCharacter writes rec to slot, replacing what was there.
	SaveCharacter(ctx context.Context, slot string, rec *savefile.Record) error

	// LoadCharacter reads the record in slot. A missing slot is ErrNotFound.
	LoadCharacter(ctx context.Context, slot string) (*savefile.Record, error)

	DeleteCharacter(ctx context.Context, slot string) error
	ListSlots(ctx context.Context) ([]string, error)
}
