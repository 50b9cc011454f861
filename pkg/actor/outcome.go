package actor

// Outcome reports what a hit did to its target.
type Outcome int

const (
	// Alive means the target is still standing.
	Alive Outcome = iota
	// Died means this hit took the target to 0 HP or below.
	Died
	// AlreadyDead means the target was down before the hit landed.
	AlreadyDead
)

func (o Outcome) String() string {
	switch o {
	case Alive:
		return "alive"
	case Died:
		return "died"
	case AlreadyDead:
		return "already dead"
	default:
		return "unknown"
	}
}

// Fatal reports whether the target is down after the hit.
func (o Outcome) Fatal() bool {
	return o == Died || o == AlreadyDead
}

// absorb applies damage to hp and classifies the result.
// Death is hp <= 0 for every kind of combatant.
func absorb(hp *int, damage int) Outcome {
	if *hp <= 0 {
		return AlreadyDead
	}
	*hp -= damage
	if *hp <= 0 {
		return Died
	}
	return Alive
}
