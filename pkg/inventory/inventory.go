package inventory

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrFull is returned by Add when a bounded inventory has no room left.
	ErrFull = errors.New("inventory is full")

	// ErrInvalidCapacity is returned by NewBounded for a capacity below 1.
	ErrInvalidCapacity = errors.New("inventory capacity must be positive")
)

// Inventory is an ordered bag of item names owned by a single character.
// Duplicates are allowed and insertion order is kept for display.
// The zero value is an empty, unbounded inventory.
type Inventory struct {
	items    []string
	capacity int // 0 means unbounded
}

// New creates an empty, unbounded inventory.
func New() *Inventory {
	return &Inventory{items: make([]string, 0)}
}

// NewBounded creates an empty inventory that holds at most capacity items.
func NewBounded(capacity int) (*Inventory, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}
	return &Inventory{
		items:    make([]string, 0, capacity),
		capacity: capacity,
	}, nil
}

// Add appends item to the end of the inventory.
// An unbounded inventory always accepts the item.
func (inv *Inventory) Add(item string) error {
	if inv.capacity > 0 && len(inv.items) >= inv.capacity {
		return fmt.Errorf("%w: cannot add %q (%d/%d)", ErrFull, item, len(inv.items), inv.capacity)
	}
	inv.items = append(inv.items, item)
	return nil
}

// Remove deletes every occurrence of item and returns how many were removed.
func (inv *Inventory) Remove(item string) int {
	before := len(inv.items)
	inv.items = slices.DeleteFunc(inv.items, func(s string) bool {
		return s == item
	})
	return before - len(inv.items)
}

// Items returns a copy of the current items in insertion order.
func (inv *Inventory) Items() []string {
	return slices.Clone(inv.items)
}

// Replace swaps the whole contents for items, keeping the capacity rule.
// On error the inventory is left as it was.
func (inv *Inventory) Replace(items []string) error {
	if inv.capacity > 0 && len(items) > inv.capacity {
		return fmt.Errorf("%w: %d items exceed capacity %d", ErrFull, len(items), inv.capacity)
	}
	inv.items = slices.Clone(items)
	if inv.items == nil {
		inv.items = make([]string, 0)
	}
	return nil
}

// Contains reports whether at least one copy of item is held.
func (inv *Inventory) Contains(item string) bool {
	return slices.Contains(inv.items, item)
}

// Len returns the number of items held.
func (inv *Inventory) Len() int {
	return len(inv.items)
}

// Capacity returns the item limit, or 0 when unbounded.
func (inv *Inventory) Capacity() int {
	return inv.capacity
}
