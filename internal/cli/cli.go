// Package cli runs a session as a plain numbered-menu terminal game.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwebster45206/story-arena/pkg/game"
	"github.com/jwebster45206/story-arena/pkg/journal"
	"github.com/muesli/reflow/wordwrap"
)

const (
	startMenu = "1. New Game\n2. Load Game\nChoice: "
	playMenu  = "1. Fight\n2. Heal\n3. Save\n4. Exit\nChoice: "
)

// CLI reads menu choices from In and writes the game to Out.
type CLI struct {
	Session *game.Session
	// Feed collects the narrative the session writes. It is drained and
	// printed after every action.
	Feed  *journal.Memory
	In    io.Reader
	Out   io.Writer
	Slot  string
	Width int

	scanner *bufio.Scanner
}

// Run plays until the player exits or input ends.
func (c *CLI) Run(ctx context.Context) error {
	if c.Session == nil {
		return errors.New("cli needs a session")
	}
	if c.Feed == nil {
		c.Feed = journal.NewMemory()
	}
	if c.Width <= 0 {
		c.Width = 80
	}
	c.scanner = bufio.NewScanner(c.In)
	defer c.Session.Exit()

	if ok := c.start(ctx); !ok {
		return nil
	}

	for c.Session.State() == game.Playing {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.Session.Display(c.Out); err != nil {
			return fmt.Errorf("failed to display character: %w", err)
		}

		choice, ok := c.prompt(playMenu)
		if !ok {
			return nil
		}

		switch choice {
		case "1":
			if _, err := c.Session.Fight(ctx); err != nil {
				c.printLine("Error: " + err.Error())
			}
		case "2":
			if err := c.Session.Heal(); err != nil {
				c.printLine("Error: " + err.Error())
			}
		case "3":
			// The outcome is in the feed; a failed save never stops play.
			_ = c.Session.Save(ctx, c.Slot)
		case "4":
			c.flush()
			c.printLine("Goodbye.")
			return nil
		default:
			c.printLine("Invalid choice.")
		}
		c.flush()
	}
	return nil
}

// start handles the opening menu. Any answer other than 2 starts a new game.
// Returns false if input ended before a hero exists.
func (c *CLI) start(ctx context.Context) bool {
	choice, ok := c.prompt(startMenu)
	if !ok {
		return false
	}

	if choice == "2" {
		err := c.Session.LoadGame(ctx, c.Slot)
		c.flush()
		if err == nil {
			return true
		}
		c.printLine("Starting a new game.")
	}

	for {
		name, ok := c.prompt("Enter character name: ")
		if !ok {
			return false
		}
		if err := c.Session.NewGame(name); err != nil {
			c.printLine("Error: " + err.Error())
			continue
		}
		c.flush()
		return true
	}
}

// prompt writes text and reads one trimmed line. False means EOF.
func (c *CLI) prompt(text string) (string, bool) {
	c.print(text)
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

func (c *CLI) flush() {
	for _, entry := range c.Feed.Drain() {
		c.printLine(entry)
	}
}

func (c *CLI) print(s string) {
	fmt.Fprint(c.Out, s)
}

func (c *CLI) printLine(s string) {
	fmt.Fprintln(c.Out, wordwrap.String(s, c.Width))
}
