package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jwebster45206/story-arena/pkg/actor"
)

const (
	VictoryXP     = 50
	TrophyItem    = "Monster Trophy"
	MaxRounds     = 1000
	HealAmount    = 20
	StarterWeapon = "Sword"
	StarterPotion = "Healing Potion"
)

// Result is how an encounter ended, or that it has not ended yet.
type Result int

const (
	Ongoing Result = iota
	Victory
	Defeat
	Stalemate
)

func (r Result) String() string {
	switch r {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Stalemate:
		return "stalemate"
	default:
		return "unknown"
	}
}

// Turn is one attack exchange: the hero strikes, then the monster strikes
// back if it is still standing.
type Turn struct {
	Round          int
	Dealt          int
	Taken          int
	MonsterOutcome actor.Outcome
	HeroOutcome    actor.Outcome
}

// exchange plays a single round between hero and m.
func exchange(round int, hero *actor.Character, m *actor.Monster) Turn {
	t := Turn{Round: round}
	if hero.IsDead() {
		t.HeroOutcome = actor.AlreadyDead
		return t
	}
	t.Dealt, t.MonsterOutcome = hero.AttackMonster(m)
	if t.MonsterOutcome.Fatal() {
		return t
	}
	t.Taken, t.HeroOutcome = m.Attack(hero)
	return t
}

// judge decides whether the fight is over after t.
func judge(t Turn, maxRounds int) Result {
	switch {
	case t.MonsterOutcome.Fatal():
		return Victory
	case t.HeroOutcome.Fatal():
		return Defeat
	case t.Dealt == 0 && t.Taken == 0:
		// Neither side can hurt the other; nothing will ever change.
		return Stalemate
	case t.Round >= maxRounds:
		return Stalemate
	default:
		return Ongoing
	}
}

// Encounter is the record of one fight from spawn to its end.
type Encounter struct {
	ID      uuid.UUID
	Hero    string
	Monster actor.Monster
	Rounds  int
	Result  Result
	Reason  string

	// Set by the session when rewards are granted.
	LeveledUp bool
	Trophy    bool
}

// Summary is the line reported to the player when the fight is over.
func (e *Encounter) Summary() string {
	switch e.Result {
	case Victory:
		return fmt.Sprintf("%s defeated %s in %d rounds.", e.Hero, e.Monster.Name, e.Rounds)
	default:
		return "battle ended: " + e.Reason
	}
}

// Resolve fights hero against m until one of them is down, neither can
// deal damage, or maxRounds pass. A non-positive maxRounds means MaxRounds.
// The hero's death is a Defeat result, not an error; the only error is ctx
// being cancelled mid-fight.
func Resolve(ctx context.Context, hero *actor.Character, m *actor.Monster, maxRounds int) (*Encounter, error) {
	if maxRounds <= 0 {
		maxRounds = MaxRounds
	}
	enc := &Encounter{ID: uuid.New(), Hero: hero.Name()}

	for round := 1; ; round++ {
		if err := ctx.Err(); err != nil {
			enc.Monster = *m
			enc.Rounds = round - 1
			return enc, fmt.Errorf("encounter interrupted: %w", err)
		}
		t := exchange(round, hero, m)
		if res := judge(t, maxRounds); res != Ongoing {
			enc.Monster = *m
			enc.Rounds = round
			enc.Result = res
			enc.Reason = reason(res, hero, m, round)
			return enc, nil
		}
	}
}

func reason(res Result, hero *actor.Character, m *actor.Monster, rounds int) string {
	switch res {
	case Victory:
		return fmt.Sprintf("%s has died", m.Name)
	case Defeat:
		return fmt.Sprintf("%s has fallen", hero.Name())
	case Stalemate:
		return fmt.Sprintf("stalemate with %s after %d rounds", m.Name, rounds)
	default:
		return res.String()
	}
}
