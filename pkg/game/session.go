// Package game sequences the character, monster and persistence operations
// into a playable session.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-arena/pkg/actor"
	"github.com/jwebster45206/story-arena/pkg/inventory"
	"github.com/jwebster45206/story-arena/pkg/journal"
	"github.com/jwebster45206/story-arena/pkg/names"
	"github.com/jwebster45206/story-arena/pkg/storage"
)

// State is a node of the session state machine.
type State int

const (
	Menu State = iota
	NewGame
	LoadGame
	Playing
	Fighting
	Saving
	Exit
)

func (s State) String() string {
	switch s {
	case Menu:
		return "menu"
	case NewGame:
		return "new game"
	case LoadGame:
		return "load game"
	case Playing:
		return "playing"
	case Fighting:
		return "fighting"
	case Saving:
		return "saving"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

var (
	ErrInvalidState = errors.New("action not allowed in current state")
	ErrNoStorage    = errors.New("session requires a storage backend")
)

// Options configures a Session. Storage and Rand are required; the rest
// have defaults.
type Options struct {
	// ID identifies the session in logs and journal keys. Zero means a new
	// random ID.
	ID uuid.UUID

	Storage storage.Storage
	Journal journal.Journal
	Rand    actor.Rand
	Logger  *slog.Logger

	// InventoryCapacity bounds the hero's inventory. Zero means unbounded.
	InventoryCapacity int
	// MaxRounds caps an encounter. Zero means MaxRounds.
	MaxRounds int
}

// Session owns one hero and moves it through the menu, play, fight and save
// states. Nothing a player does can abort it; failures are returned to the
// caller and the session stays usable.
type Session struct {
	ID uuid.UUID

	state     State
	hero      *actor.Character
	store     storage.Storage
	journal   journal.Journal
	rng       actor.Rand
	logger    *slog.Logger
	capacity  int
	maxRounds int
}

func NewSession(opts Options) (*Session, error) {
	if opts.Storage == nil {
		return nil, ErrNoStorage
	}
	if opts.InventoryCapacity < 0 {
		return nil, fmt.Errorf("%w: %d", inventory.ErrInvalidCapacity, opts.InventoryCapacity)
	}
	if opts.Journal == nil {
		opts.Journal = journal.Discard
	}
	if opts.Rand == nil {
		return nil, errors.New("session requires a random source")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	id := opts.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	return &Session{
		ID:        id,
		state:     Menu,
		store:     opts.Storage,
		journal:   opts.Journal,
		rng:       opts.Rand,
		logger:    opts.Logger.With("session_id", id.String()),
		capacity:  opts.InventoryCapacity,
		maxRounds: opts.MaxRounds,
	}, nil
}

func (s *Session) State() State { return s.state }

// Hero returns the current character, or nil before a game is started.
func (s *Session) Hero() *actor.Character { return s.hero }

func (s *Session) require(op string, allowed ...State) error {
	for _, st := range allowed {
		if s.state == st {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s while in %s", ErrInvalidState, op, s.state)
}

func (s *Session) newInventory() (*inventory.Inventory, error) {
	if s.capacity == 0 {
		return inventory.New(), nil
	}
	return inventory.NewBounded(s.capacity)
}

// NewGame creates a fresh hero with default stats and the starter kit.
func (s *Session) NewGame(name string) error {
	if err := s.require("start a new game", Menu, NewGame); err != nil {
		return err
	}
	s.state = NewGame

	clean, err := names.Normalize(name)
	if err != nil {
		return fmt.Errorf("invalid character name: %w", err)
	}
	inv, err := s.newInventory()
	if err != nil {
		return err
	}
	hero, err := actor.NewCharacter(clean, s.journal, actor.WithInventory(inv))
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	for _, item := range []string{StarterWeapon, StarterPotion} {
		if err := hero.AddItem(item); err != nil {
			s.logger.Warn("Starter item did not fit", "item", item, "error", err)
		}
	}

	s.hero = hero
	s.state = Playing
	s.logger.Info("New game started", "hero", clean)
	return nil
}

// LoadGame restores the hero saved in slot. On any failure the session
// moves to NewGame so the caller can ask for a name instead.
func (s *Session) LoadGame(ctx context.Context, slot string) error {
	if err := s.require("load a game", Menu); err != nil {
		return err
	}
	s.state = LoadGame

	hero, err := s.load(ctx, slot)
	if err != nil {
		s.state = NewGame
		s.logger.Warn("Load failed, falling back to new game", "slot", slot, "error", err)
		s.note("Failed to load game: %v", err)
		return err
	}

	s.hero = hero
	s.state = Playing
	s.logger.Info("Game loaded", "slot", slot, "hero", hero.Name(), "level", hero.Level())
	s.note("Game loaded successfully.")
	return nil
}

func (s *Session) load(ctx context.Context, slot string) (*actor.Character, error) {
	rec, err := s.store.LoadCharacter(ctx, slot)
	if err != nil {
		return nil, err
	}
	inv, err := s.newInventory()
	if err != nil {
		return nil, err
	}
	hero, err := actor.FromRecord(rec, s.journal, actor.WithInventory(inv))
	if err != nil {
		return nil, fmt.Errorf("failed to restore character: %w", err)
	}
	return hero, nil
}

// Save writes the hero to slot. Play continues whether or not it worked.
func (s *Session) Save(ctx context.Context, slot string) error {
	if err := s.require("save", Playing); err != nil {
		return err
	}
	s.state = Saving
	defer func() { s.state = Playing }()

	if err := s.store.SaveCharacter(ctx, slot, s.hero.Record()); err != nil {
		s.logger.Error("Save failed", "slot", slot, "error", err)
		s.note("Failed to save game: %v", err)
		return err
	}
	s.logger.Info("Game saved", "slot", slot)
	s.note("Game saved successfully.")
	return nil
}

// Heal restores HealAmount hit points.
func (s *Session) Heal() error {
	if err := s.require("heal", Playing); err != nil {
		return err
	}
	s.hero.Heal(HealAmount)
	return nil
}

// Fight spawns a random monster and resolves the encounter. The hero's
// death ends the encounter, never the session. Victory grants VictoryXP
// and a TrophyItem.
func (s *Session) Fight(ctx context.Context) (*Encounter, error) {
	if err := s.require("fight", Playing); err != nil {
		return nil, err
	}
	s.state = Fighting
	defer func() { s.state = Playing }()

	m := actor.RandomMonster(s.rng)
	s.note("A wild %s appears!", m.Name)

	enc, err := Resolve(ctx, s.hero, m, s.maxRounds)
	if err != nil {
		s.logger.Warn("Encounter interrupted", "monster", m.Name, "error", err)
		return enc, err
	}

	log := s.logger.With("encounter_id", enc.ID.String(), "monster", m.Name, "rounds", enc.Rounds)
	if enc.Result != Victory {
		log.Info("Encounter ended", "result", enc.Result.String(), "reason", enc.Reason)
		s.note("%s", enc.Summary())
		return enc, nil
	}

	s.note("%s", enc.Summary())
	enc.LeveledUp = s.hero.GainExperience(VictoryXP)
	if err := s.hero.AddItem(TrophyItem); err != nil {
		log.Warn("No room for trophy", "error", err)
		s.note("%s has no room for the %s.", s.hero.Name(), TrophyItem)
	} else {
		enc.Trophy = true
	}
	log.Info("Encounter won", "leveled_up", enc.LeveledUp, "trophy", enc.Trophy)
	return enc, nil
}

// Display writes the hero's stats and inventory to w.
func (s *Session) Display(w io.Writer) error {
	if s.hero == nil {
		return fmt.Errorf("%w: no character yet", ErrInvalidState)
	}
	return s.hero.Display(w)
}

// Exit ends the session. It is terminal.
func (s *Session) Exit() {
	s.state = Exit
	s.logger.Info("Session ended")
}

func (s *Session) note(format string, args ...any) {
	if err := s.journal.Log(fmt.Sprintf(format, args...)); err != nil {
		s.logger.Debug("Journal write failed", "error", err)
	}
}
