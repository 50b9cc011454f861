package game

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jwebster45206/story-arena/pkg/actor"
	"github.com/jwebster45206/story-arena/pkg/journal"
	"github.com/jwebster45206/story-arena/pkg/savefile"
	"github.com/jwebster45206/story-arena/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always picks the same index, so the spawned variant is known.
type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

const (
	pickGoblin   fixedRand = 0
	pickDragon   fixedRand = 1
	pickSkeleton fixedRand = 2
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func newTestSession(t *testing.T, r actor.Rand, store storage.Storage, capacity int) (*Session, *journal.Memory) {
	t.Helper()
	mem := journal.NewMemory()
	s, err := NewSession(Options{
		Storage:           store,
		Journal:           mem,
		Rand:              r,
		Logger:            testLogger(),
		InventoryCapacity: capacity,
	})
	require.NoError(t, err)
	return s, mem
}

func newHero(t *testing.T, opts ...actor.Option) *actor.Character {
	t.Helper()
	hero, err := actor.NewCharacter("Hero", nil, opts...)
	require.NoError(t, err)
	return hero
}

func mustMonster(t *testing.T, v actor.Variant) *actor.Monster {
	t.Helper()
	m, err := actor.NewMonster(v)
	require.NoError(t, err)
	return m
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		variant   actor.Variant
		opts      []actor.Option
		maxRounds int
		result    Result
		rounds    int
		heroHP    int
		summary   string
	}{
		{
			name:    "goblin cannot hurt default hero",
			variant: actor.Goblin,
			result:  Victory,
			rounds:  4,
			heroHP:  100,
			summary: "Hero defeated Goblin in 4 rounds.",
		},
		{
			name:    "skeleton chips away",
			variant: actor.Skeleton,
			result:  Victory,
			rounds:  7,
			heroHP:  82,
			summary: "Hero defeated Skeleton in 7 rounds.",
		},
		{
			name:    "dragon kills default hero",
			variant: actor.Dragon,
			result:  Defeat,
			rounds:  7,
			heroHP:  -5,
			summary: "battle ended: Hero has fallen",
		},
		{
			name:    "nobody can deal damage",
			variant: actor.Goblin,
			opts:    []actor.Option{actor.WithStats(actor.Stats{HP: 100, Attack: 2, Defense: 5})},
			result:  Stalemate,
			rounds:  1,
			heroHP:  100,
			summary: "battle ended: stalemate with Goblin after 1 rounds",
		},
		{
			name:      "round cap",
			variant:   actor.Skeleton,
			maxRounds: 3,
			result:    Stalemate,
			rounds:    3,
			heroHP:    91,
			summary:   "battle ended: stalemate with Skeleton after 3 rounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hero := newHero(t, tt.opts...)
			enc, err := Resolve(context.Background(), hero, mustMonster(t, tt.variant), tt.maxRounds)
			require.NoError(t, err)

			assert.Equal(t, tt.result, enc.Result)
			assert.Equal(t, tt.rounds, enc.Rounds)
			assert.Equal(t, tt.heroHP, hero.HP())
			assert.Equal(t, tt.summary, enc.Summary())
		})
	}
}

func TestResolve_DeadHeroLosesImmediately(t *testing.T) {
	hero := newHero(t, actor.WithStats(actor.Stats{HP: 0, Attack: 10, Defense: 5}))
	m := mustMonster(t, actor.Goblin)

	enc, err := Resolve(context.Background(), hero, m, 0)
	require.NoError(t, err)
	assert.Equal(t, Defeat, enc.Result)
	assert.Equal(t, 30, m.HP, "a dead hero does not attack")
}

func TestResolve_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Resolve(ctx, newHero(t), mustMonster(t, actor.Goblin), 0)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_NewGame(t *testing.T) {
	s, _ := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)
	assert.Equal(t, Menu, s.State())

	require.NoError(t, s.NewGame("  sir   robin "))
	assert.Equal(t, Playing, s.State())

	hero := s.Hero()
	assert.Equal(t, "Sir Robin", hero.Name())
	assert.Equal(t, []string{StarterWeapon, StarterPotion}, hero.Items())
	assert.Equal(t, actor.MaxHP, hero.HP())
	assert.Equal(t, 1, hero.Level())
	assert.NotEqual(t, s.ID.String(), "")
}

func TestSession_NewGameRejectsEmptyName(t *testing.T) {
	s, _ := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)

	err := s.NewGame("   ")
	assert.Error(t, err)
	assert.Equal(t, NewGame, s.State())
	assert.Nil(t, s.Hero())

	// The player can try again.
	require.NoError(t, s.NewGame("Hero"))
	assert.Equal(t, Playing, s.State())
}

func TestSession_LoadGame(t *testing.T) {
	store := storage.NewMockStorage()
	store.AddRecord("save", &savefile.Record{
		Name: "Hero", HP: 64, Attack: 12, Defense: 6, Level: 3, Experience: 40,
		Items: []string{"Sword", "Monster Trophy"},
	})
	s, mem := newTestSession(t, pickGoblin, store, 0)

	require.NoError(t, s.LoadGame(context.Background(), "save"))
	assert.Equal(t, Playing, s.State())

	hero := s.Hero()
	assert.Equal(t, 64, hero.HP())
	assert.Equal(t, 12, hero.Attack())
	assert.Equal(t, 3, hero.Level())
	assert.Equal(t, 40, hero.Experience())
	assert.Equal(t, []string{"Sword", "Monster Trophy"}, hero.Items())
	assert.Contains(t, mem.Entries(), "Game loaded successfully.")
}

func TestSession_LoadGameFallsBackToNewGame(t *testing.T) {
	t.Run("missing slot", func(t *testing.T) {
		s, mem := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)

		err := s.LoadGame(context.Background(), "save")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Equal(t, NewGame, s.State())
		assert.Nil(t, s.Hero())
		require.NotEmpty(t, mem.Entries())
		assert.Contains(t, mem.Entries()[0], "Failed to load game")

		require.NoError(t, s.NewGame("Hero"))
		assert.Equal(t, Playing, s.State())
	})

	t.Run("record does not fit inventory", func(t *testing.T) {
		store := storage.NewMockStorage()
		store.AddRecord("save", &savefile.Record{
			Name: "Hoarder", HP: 100, Attack: 10, Defense: 5, Level: 1,
			Items: []string{"a", "b", "c"},
		})
		s, _ := newTestSession(t, pickGoblin, store, 2)

		assert.Error(t, s.LoadGame(context.Background(), "save"))
		assert.Equal(t, NewGame, s.State())
	})

	t.Run("backend failure", func(t *testing.T) {
		store := storage.NewMockStorage()
		store.SetLoadError(errors.New("connection refused"))
		s, _ := newTestSession(t, pickGoblin, store, 0)

		assert.Error(t, s.LoadGame(context.Background(), "save"))
		assert.Equal(t, NewGame, s.State())
	})
}

func TestSession_Save(t *testing.T) {
	store := storage.NewMockStorage()
	s, mem := newTestSession(t, pickGoblin, store, 0)
	ctx := context.Background()

	assert.ErrorIs(t, s.Save(ctx, "save"), ErrInvalidState, "nothing to save before a game starts")

	require.NoError(t, s.NewGame("Hero"))
	require.NoError(t, s.Save(ctx, "save"))
	assert.Equal(t, Playing, s.State())
	assert.Equal(t, 1, store.SaveCount())
	assert.Contains(t, mem.Entries(), "Game saved successfully.")

	rec, err := store.LoadCharacter(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, s.Hero().Record(), rec)

	store.SetSaveError(errors.New("disk full"))
	assert.Error(t, s.Save(ctx, "save"))
	assert.Equal(t, Playing, s.State(), "a failed save does not block play")
}

func TestSession_FightVictory(t *testing.T) {
	s, mem := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)
	require.NoError(t, s.NewGame("Hero"))
	ctx := context.Background()

	enc, err := s.Fight(ctx)
	require.NoError(t, err)
	assert.Equal(t, Victory, enc.Result)
	assert.True(t, enc.Trophy)
	assert.False(t, enc.LeveledUp)
	assert.Equal(t, Playing, s.State())

	hero := s.Hero()
	assert.Equal(t, VictoryXP, hero.Experience())
	assert.Equal(t, []string{StarterWeapon, StarterPotion, TrophyItem}, hero.Items())
	assert.Contains(t, mem.Entries(), "A wild Goblin appears!")
	assert.Contains(t, mem.Entries(), "Hero defeated Goblin in 4 rounds.")

	enc, err = s.Fight(ctx)
	require.NoError(t, err)
	assert.True(t, enc.LeveledUp)
	assert.Equal(t, 2, hero.Level())
	assert.Equal(t, 0, hero.Experience())
}

func TestSession_FightDefeatKeepsSessionAlive(t *testing.T) {
	store := storage.NewMockStorage()
	s, mem := newTestSession(t, pickDragon, store, 0)
	require.NoError(t, s.NewGame("Hero"))
	ctx := context.Background()

	enc, err := s.Fight(ctx)
	require.NoError(t, err)
	assert.Equal(t, Defeat, enc.Result)
	assert.Equal(t, Playing, s.State())
	assert.Contains(t, mem.Entries(), "battle ended: Hero has fallen")

	hero := s.Hero()
	assert.Equal(t, -5, hero.HP())
	assert.Equal(t, 0, hero.Experience(), "no reward for losing")
	assert.False(t, hero.HasItem(TrophyItem))

	// Death does not reset stats, and the session still works.
	require.NoError(t, s.Heal())
	assert.Equal(t, 15, hero.HP())
	require.NoError(t, s.Save(ctx, "save"))
	rec, err := store.LoadCharacter(ctx, "save")
	require.NoError(t, err)
	assert.Equal(t, 15, rec.HP)
}

func TestSession_FightWithFullInventory(t *testing.T) {
	s, mem := newTestSession(t, pickGoblin, storage.NewMockStorage(), 2)
	require.NoError(t, s.NewGame("Hero"))

	enc, err := s.Fight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Victory, enc.Result)
	assert.False(t, enc.Trophy)
	assert.Equal(t, VictoryXP, s.Hero().Experience(), "experience is still granted")
	assert.Contains(t, mem.Entries(), "Hero has no room for the Monster Trophy.")
}

func TestSession_Heal(t *testing.T) {
	s, _ := newTestSession(t, pickSkeleton, storage.NewMockStorage(), 0)
	require.NoError(t, s.NewGame("Hero"))

	_, err := s.Fight(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 82, s.Hero().HP())

	require.NoError(t, s.Heal())
	assert.Equal(t, 100, s.Hero().HP(), "capped at max")
}

func TestSession_InvalidTransitions(t *testing.T) {
	s, _ := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)
	ctx := context.Background()

	_, err := s.Fight(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, s.Heal(), ErrInvalidState)
	assert.ErrorIs(t, s.Display(&bytes.Buffer{}), ErrInvalidState)

	require.NoError(t, s.NewGame("Hero"))
	assert.ErrorIs(t, s.NewGame("Other"), ErrInvalidState)
	assert.ErrorIs(t, s.LoadGame(ctx, "save"), ErrInvalidState)

	s.Exit()
	assert.Equal(t, Exit, s.State())
	_, err = s.Fight(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestSession_Display(t *testing.T) {
	s, _ := newTestSession(t, pickGoblin, storage.NewMockStorage(), 0)
	require.NoError(t, s.NewGame("Hero"))

	var buf bytes.Buffer
	require.NoError(t, s.Display(&buf))
	assert.Equal(t, "Hero (HP: 100, ATK: 10, DEF: 5, LVL: 1, EXP: 0)\nInventory:\n- Sword\n- Healing Potion\n", buf.String())
}

func TestNewSession_Validation(t *testing.T) {
	_, err := NewSession(Options{Rand: pickGoblin})
	assert.ErrorIs(t, err, ErrNoStorage)

	_, err = NewSession(Options{Storage: storage.NewMockStorage()})
	assert.Error(t, err)

	_, err = NewSession(Options{Storage: storage.NewMockStorage(), Rand: pickGoblin, InventoryCapacity: -1})
	assert.Error(t, err)
}

func TestAutoBattle_Run(t *testing.T) {
	hero := newHero(t)
	m := mustMonster(t, actor.Skeleton)

	var snaps []Snapshot
	ab := &AutoBattle{Logger: testLogger()}
	res, err := ab.Run(context.Background(), hero, m, func(s Snapshot) error {
		snaps = append(snaps, s)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, Victory, res)

	require.Len(t, snaps, 7)
	for i, s := range snaps[:6] {
		assert.Equal(t, i+1, s.Round)
		assert.False(t, s.Final())
		assert.Equal(t, 6, s.Dealt)
		assert.Equal(t, 3, s.Taken)
	}
	last := snaps[6]
	assert.True(t, last.Final())
	assert.Equal(t, Victory, last.Result)
	assert.Equal(t, 82, last.HeroHP)
	assert.Equal(t, -2, last.Monster.HP)

	// Snapshots are copies, not views of the live monster.
	assert.Equal(t, 34, snaps[0].Monster.HP)
}

func TestAutoBattle_Ticks(t *testing.T) {
	ab := &AutoBattle{Interval: time.Millisecond, Logger: testLogger()}
	res, err := ab.Run(context.Background(), newHero(t), mustMonster(t, actor.Dragon), nil)
	require.NoError(t, err)
	assert.Equal(t, Defeat, res)
}

func TestAutoBattle_ObserverError(t *testing.T) {
	stop := errors.New("window closed")
	ab := &AutoBattle{Logger: testLogger()}

	_, err := ab.Run(context.Background(), newHero(t), mustMonster(t, actor.Skeleton), func(s Snapshot) error {
		return stop
	})
	assert.ErrorIs(t, err, stop)
}

func TestAutoBattle_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ab := &AutoBattle{Interval: time.Hour, Logger: testLogger()}
	_, err := ab.Run(ctx, newHero(t), mustMonster(t, actor.Goblin), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAutoBattle_Validation(t *testing.T) {
	ab := &AutoBattle{}
	_, err := ab.Run(context.Background(), nil, mustMonster(t, actor.Goblin), nil)
	assert.Error(t, err)
}
