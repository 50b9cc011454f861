package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/story-arena/internal/app"
	"github.com/jwebster45206/story-arena/internal/cli"
	"github.com/jwebster45206/story-arena/internal/config"
	"github.com/jwebster45206/story-arena/internal/logger"
	"github.com/jwebster45206/story-arena/pkg/journal"
)

func main() {
	plain := flag.Bool("plain", false, "play with a numbered text menu instead of the full-screen UI")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *plain); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, plain bool) error {
	var log *slog.Logger
	if plain {
		log = logger.Setup(cfg)
	} else {
		// The full-screen UI owns the terminal.
		log = logger.New(io.Discard, cfg)
	}

	feed := journal.NewMemory()
	backends, err := app.Open(ctx, cfg, log, feed)
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			log.Error("Error closing backends", "error", err)
		}
	}()

	session, err := backends.NewSession(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	log = logger.WithSession(log, session.ID)
	log.Info("Starting Story Arena", "environment", cfg.Environment, "plain", plain)

	if plain {
		c := &cli.CLI{
			Session: session,
			Feed:    feed,
			In:      os.Stdin,
			Out:     os.Stdout,
			Slot:    cfg.SaveSlot,
			Width:   80,
		}
		if err := c.Run(ctx); err != nil {
			return err
		}
	} else {
		p := tea.NewProgram(NewConsoleUI(ctx, session, feed, cfg.SaveSlot),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
	}

	if err := backends.JournalErr(); err != nil {
		logger.WithError(log, err).Warn("Journal was not fully written")
	}
	return nil
}
