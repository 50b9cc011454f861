package actor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jwebster45206/story-arena/pkg/inventory"
	"github.com/jwebster45206/story-arena/pkg/journal"
	"github.com/jwebster45206/story-arena/pkg/savefile"
)

const (
	MaxHP          = 100
	DefaultAttack  = 10
	DefaultDefense = 5

	// LevelUpXP is the experience needed for the next level. Experience
	// beyond it is discarded when the level is gained.
	LevelUpXP = 100
)

var (
	ErrEmptyName    = errors.New("character name cannot be empty")
	ErrNegativeStat = errors.New("character stats cannot be negative")
)

// Stats are the combat numbers a character starts with.
type Stats struct {
	HP      int
	Attack  int
	Defense int
}

// DefaultStats returns the stats of a brand new character.
func DefaultStats() Stats {
	return Stats{HP: MaxHP, Attack: DefaultAttack, Defense: DefaultDefense}
}

// Character is the player-controlled entity.
type Character struct {
	name       string
	hp         int
	attack     int
	defense    int
	level      int
	experience int
	inv        *inventory.Inventory
	journal    journal.Journal
}

// Option customises a Character at construction.
type Option func(*Character) error

// WithStats overrides the default hit points, attack and defense.
func WithStats(s Stats) Option {
	return func(c *Character) error {
		if s.Attack < 0 || s.Defense < 0 {
			return fmt.Errorf("%w: attack=%d defense=%d", ErrNegativeStat, s.Attack, s.Defense)
		}
		c.hp, c.attack, c.defense = s.HP, s.Attack, s.Defense
		return nil
	}
}

// WithInventory gives the character a pre-built inventory, e.g. a bounded one.
func WithInventory(inv *inventory.Inventory) Option {
	return func(c *Character) error {
		if inv == nil {
			return errors.New("inventory cannot be nil")
		}
		c.inv = inv
		return nil
	}
}

// NewCharacter creates a level 1 character with default stats and an empty
// inventory. Narrative entries go to j; a nil j discards them.
func NewCharacter(name string, j journal.Journal, opts ...Option) (*Character, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if j == nil {
		j = journal.Discard
	}
	s := DefaultStats()
	c := &Character{
		name:    name,
		hp:      s.HP,
		attack:  s.Attack,
		defense: s.Defense,
		level:   1,
		inv:     inventory.New(),
		journal: j,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromRecord rebuilds a character from a persisted record.
func FromRecord(rec *savefile.Record, j journal.Journal, opts ...Option) (*Character, error) {
	if rec == nil {
		return nil, errors.New("record cannot be nil")
	}
	c, err := NewCharacter(rec.Name, j, opts...)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(rec); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Character) Name() string { return c.name }
func (c *Character) HP() int { return c.hp }
func (c *Character) Attack() int { return c.attack }
func (c *Character) Defense() int { return c.defense }
func (c *Character) Level() int { return c.level }
func (c *Character) Experience() int { return c.experience }
func (c *Character) Items() []string { return c.inv.Items() }
func (c *Character) IsDead() bool { return c.hp <= 0 }
func (c *Character) HasItem(s string) bool { return c.inv.Contains(s) }

// note writes to the journal. Sink failures are tracked by the sink itself
// (see journal.File.Err) so combat is never interrupted by them.
func (c *Character) note(format string, args ...any) {
	_ = c.journal.Log(fmt.Sprintf(format, args...))
}

// AttackMonster strikes m for max(0, attack - m.Defense) and returns the
// damage dealt and the monster's outcome. A monster death is an ordinary
// result here, not a failure.
func (c *Character) AttackMonster(m *Monster) (int, Outcome) {
	damage := max(0, c.attack-m.Defense)
	c.note("%s attacks %s for %d damage.", c.name, m.Name, damage)
	out := m.TakeDamage(damage)
	if out == Died {
		c.note("%s has died.", m.Name)
	}
	return damage, out
}

// TakeDamage reduces HP by max(0, amount - defense) and returns the damage
// taken. Died means the character is at 0 HP or below after the hit.
func (c *Character) TakeDamage(amount int) (int, Outcome) {
	if c.hp <= 0 {
		return 0, AlreadyDead
	}
	taken := max(0, amount-c.defense)
	out := absorb(&c.hp, taken)
	c.note("%s receives %d damage.", c.name, taken)
	if out == Died {
		c.note("%s has fallen!", c.name)
	}
	return taken, out
}

// Heal restores amount HP, capped at MaxHP. Negative amounts are ignored.
func (c *Character) Heal(amount int) {
	if amount < 0 {
		return
	}
	c.hp = min(c.hp+amount, MaxHP)
	c.note("%s heals %d HP.", c.name, amount)
}

// GainExperience adds amount XP. Reaching LevelUpXP raises the level by one
// and resets experience to 0. Reports whether a level was gained.
func (c *Character) GainExperience(amount int) bool {
	if amount <= 0 {
		return false
	}
	c.experience += amount
	if c.experience < LevelUpXP {
		return false
	}
	c.level++
	c.experience = 0
	c.note("%s reaches level %d.", c.name, c.level)
	return true
}

// AddItem puts item in the inventory.
func (c *Character) AddItem(item string) error {
	if err := c.inv.Add(item); err != nil {
		return err
	}
	c.note("%s receives item: %s", c.name, item)
	return nil
}

// RemoveItem drops every copy of item and returns how many were held.
func (c *Character) RemoveItem(item string) int {
	n := c.inv.Remove(item)
	if n > 0 {
		c.note("%s discards %s (x%d).", c.name, item, n)
	}
	return n
}

func (c *Character) String() string {
	return fmt.Sprintf("%s (HP: %d, ATK: %d, DEF: %d, LVL: %d, EXP: %d)",
		c.name, c.hp, c.attack, c.defense, c.level, c.experience)
}

// Display writes the stat line followed by the inventory.
func (c *Character) Display(w io.Writer) error {
	var sb strings.Builder
	sb.WriteString(c.String())
	sb.WriteString("\nInventory:\n")
	for _, item := range c.inv.Items() {
		sb.WriteString("- " + item + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Record captures the character in persisted form.
func (c *Character) Record() *savefile.Record {
	return &savefile.Record{
		Name:       c.name,
		HP:         c.hp,
		Attack:     c.attack,
		Defense:    c.defense,
		Level:      c.level,
		Experience: c.experience,
		Items:      c.inv.Items(),
	}
}

// Apply overwrites the character with rec, replacing the inventory.
// Nothing is changed if rec cannot be applied.
func (c *Character) Apply(rec *savefile.Record) error {
	if strings.TrimSpace(rec.Name) == "" {
		return ErrEmptyName
	}
	if err := c.inv.Replace(rec.Items); err != nil {
		return fmt.Errorf("failed to restore inventory: %w", err)
	}
	c.name = rec.Name
	c.hp = rec.HP
	c.attack = rec.Attack
	c.defense = rec.Defense
	c.level = rec.Level
	c.experience = rec.Experience
	return nil
}

// Save writes the character to path as a flat record.
func (c *Character) Save(path string) error {
	return savefile.WriteFile(path, c.Record())
}

// Load reads path and replaces the character's state with it. The record is
// decoded in full first, so a failed load leaves the character untouched.
func (c *Character) Load(path string) error {
	rec, err := savefile.ReadFile(path)
	if err != nil {
		return err
	}
	return c.Apply(rec)
}
