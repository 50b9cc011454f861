package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/story-arena/internal/app"
	"github.com/jwebster45206/story-arena/internal/config"
	"github.com/jwebster45206/story-arena/internal/logger"
	"github.com/jwebster45206/story-arena/pkg/actor"
	"github.com/jwebster45206/story-arena/pkg/game"
	"github.com/jwebster45206/story-arena/pkg/names"
	"github.com/jwebster45206/story-arena/pkg/storage"
)

func main() {
	name := flag.String("name", "Hero", "hero name when no save slot is loaded")
	monster := flag.String("monster", "", "monster variant (goblin, dragon, skeleton); random if empty")
	interval := flag.Duration("interval", 0, "time between turns (default AUTOBATTLE_INTERVAL)")
	fromSave := flag.Bool("load", false, "fight with the hero stored in SAVE_SLOT")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *interval > 0 {
		cfg.AutoBattleInterval = *interval
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *name, *monster, *fromSave); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("Battle interrupted.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, name, variant string, fromSave bool) error {
	log := logger.Setup(cfg)

	backends, err := app.Open(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Error("Error closing backends", "error", err)
		}
	}()
	log = logger.WithSession(log, backends.SessionID)

	hero, err := buildHero(ctx, backends, cfg.SaveSlot, name, fromSave)
	if err != nil {
		return err
	}

	var m *actor.Monster
	if variant == "" {
		m = actor.RandomMonster(app.NewRNG(cfg, log))
	} else {
		v, err := actor.ParseVariant(variant)
		if err != nil {
			return err
		}
		if m, err = actor.NewMonster(v); err != nil {
			return err
		}
	}

	fmt.Printf("%s\nvs\n%s\n\n", hero, m)

	ab := &game.AutoBattle{Interval: cfg.AutoBattleInterval, Logger: log}
	started := time.Now()
	result, err := ab.Run(ctx, hero, m, func(s game.Snapshot) error {
		_, err := fmt.Printf("Round %d: %s deals %d, takes %d | %s HP %d | %s HP %d\n",
			s.Round, s.Hero, s.Dealt, s.Taken, s.Hero, s.HeroHP, s.Monster.Name, s.Monster.HP)
		return err
	})
	if err != nil {
		return err
	}

	log.Info("Auto-battle complete", "result", result.String(), "monster", m.Name, "elapsed", time.Since(started))
	fmt.Printf("\nResult: %s\n", result)
	return nil
}

func buildHero(ctx context.Context, b *app.Backends, slot, name string, fromSave bool) (*actor.Character, error) {
	if fromSave {
		rec, err := b.Storage.LoadCharacter(ctx, slot)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, fmt.Errorf("no saved hero in slot %q", slot)
			}
			return nil, err
		}
		return actor.FromRecord(rec, b.Journal)
	}

	clean, err := names.Normalize(name)
	if err != nil {
		return nil, fmt.Errorf("invalid hero name: %w", err)
	}
	return actor.NewCharacter(clean, b.Journal)
}
