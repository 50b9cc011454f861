package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jwebster45206/story-arena/pkg/actor"
	"golang.org/x/sync/errgroup"
)

// Snapshot is a copy of the fight after one turn. It shares no memory with
// the combatants, so observers may keep it.
type Snapshot struct {
	Turn
	Hero    string
	HeroHP  int
	Monster actor.Monster
	Result  Result
}

// Final reports whether this is the last snapshot of the run.
func (s Snapshot) Final() bool { return s.Result != Ongoing }

// AutoBattle plays an encounter on a timer: one exchange per Interval. The
// combatants are owned by the worker goroutine for the whole run;
// observers only ever see Snapshot values.
type AutoBattle struct {
	Interval  time.Duration
	MaxRounds int
	Logger    *slog.Logger
}

// Run hands hero and m to the worker and calls onTurn with each snapshot
// from a second goroutine. The caller must not touch hero or m until Run
// returns. An error from onTurn stops the battle. A cancelled ctx stops it
// with ctx's error.
func (a *AutoBattle) Run(ctx context.Context, hero *actor.Character, m *actor.Monster, onTurn func(Snapshot) error) (Result, error) {
	if hero == nil || m == nil {
		return Ongoing, errors.New("auto-battle needs a hero and a monster")
	}
	logger := a.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxRounds := a.MaxRounds
	if maxRounds <= 0 {
		maxRounds = MaxRounds
	}

	snapshots := make(chan Snapshot)
	result := Ongoing

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(snapshots)

		var tick <-chan time.Time
		if a.Interval > 0 {
			ticker := time.NewTicker(a.Interval)
			defer ticker.Stop()
			tick = ticker.C
		}

		for round := 1; ; round++ {
			if tick != nil {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-tick:
				}
			}

			t := exchange(round, hero, m)
			snap := Snapshot{
				Turn:    t,
				Hero:    hero.Name(),
				HeroHP:  hero.HP(),
				Monster: *m,
				Result:  judge(t, maxRounds),
			}

			select {
			case <-gctx.Done():
				return gctx.Err()
			case snapshots <- snap:
			}

			if snap.Final() {
				result = snap.Result
				logger.Debug("Auto-battle finished", "result", result.String(), "rounds", round)
				return nil
			}
		}
	})

	g.Go(func() error {
		for snap := range snapshots {
			if onTurn == nil {
				continue
			}
			if err := onTurn(snap); err != nil {
				return fmt.Errorf("turn observer: %w", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Ongoing, err
	}
	return result, nil
}
