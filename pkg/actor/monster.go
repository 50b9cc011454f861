package actor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned for a monster kind outside the fixed set.
var ErrUnknownVariant = errors.New("unknown monster variant")

// Variant is one of the fixed monster kinds. The set is closed: every
// variant is a stat preset and they all share the same combat logic.
type Variant int

const (
	Goblin Variant = iota
	Dragon
	Skeleton
)

// Variants lists every monster kind, in spawn-table order.
var Variants = []Variant{Goblin, Dragon, Skeleton}

type preset struct {
	name    string
	hp      int
	attack  int
	defense int
}

var presets = map[Variant]preset{
	Goblin:   {name: "Goblin", hp: 30, attack: 5, defense: 2},
	Dragon:   {name: "Dragon", hp: 100, attack: 20, defense: 10},
	Skeleton: {name: "Skeleton", hp: 40, attack: 8, defense: 4},
}

func (v Variant) String() string {
	if p, ok := presets[v]; ok {
		return p.name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant maps a case-insensitive name ("goblin", "Dragon") to its variant.
func ParseVariant(name string) (Variant, error) {
	for _, v := range Variants {
		if strings.EqualFold(presets[v].name, strings.TrimSpace(name)) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, name)
}

// Rand is the randomness a spawner needs. *dice.RNG and *rand.Rand from
// math/rand/v2 both satisfy it.
type Rand interface {
	IntN(n int) int
}

// Monster is a combat opponent created fresh for each encounter.
type Monster struct {
	Variant     Variant `json:"variant"`
	Name        string  `json:"name"`
	HP          int     `json:"hp"`
	AttackPower int     `json:"attack"`
	Defense     int     `json:"defense"`
}

// NewMonster creates a monster with the preset stats of v.
func NewMonster(v Variant) (*Monster, error) {
	p, ok := presets[v]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	return &Monster{
		Variant:     v,
		Name:        p.name,
		HP:          p.hp,
		AttackPower: p.attack,
		Defense:     p.defense,
	}, nil
}

// RandomMonster picks a variant uniformly at random.
func RandomMonster(r Rand) *Monster {
	m, _ := NewMonster(Variants[r.IntN(len(Variants))])
	return m
}

// Attack hands this monster's raw attack power to the target. Defense is
// applied on the target's side. Returns the damage the target took.
func (m *Monster) Attack(target *Character) (int, Outcome) {
	return target.TakeDamage(m.AttackPower)
}

// TakeDamage subtracts n from HP. It reports Died exactly once, on the hit
// that takes HP to 0 or below; later hits are ignored and report AlreadyDead.
func (m *Monster) TakeDamage(n int) Outcome {
	if n < 0 {
		n = 0
	}
	return absorb(&m.HP, n)
}

// IsDead returns true if the monster's HP is 0 or less.
func (m *Monster) IsDead() bool {
	return m.HP <= 0
}

func (m *Monster) String() string {
	return fmt.Sprintf("%s (HP: %d, ATK: %d, DEF: %d)", m.Name, m.HP, m.AttackPower, m.Defense)
}
