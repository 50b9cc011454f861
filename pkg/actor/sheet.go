package actor

import (
	"fmt"

	"github.com/jwebster45206/d20"
)

// Sheet exports the character as a d20 actor so tools built on the d20
// rules can read it. Defense maps to AC; attack, level and experience are
// carried as attributes. The arena's HP cap is used as max HP.
func (c *Character) Sheet() (*d20.Actor, error) {
	attrs := map[string]int{
		"attack":     c.attack,
		"level":      c.level,
		"experience": c.experience,
	}

	a, err := d20.NewActor(c.name).
		WithHP(MaxHP).
		WithAC(c.defense).
		WithAttributes(attrs).
		WithCombatModifiers(map[string]int{"attack": c.attack}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	// Set current HP if below max. Anything above max was only possible
	// through a hand-edited save and is shown as full health.
	if c.hp < MaxHP {
		if err := a.SetHP(max(c.hp, 0)); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}
	return a, nil
}
