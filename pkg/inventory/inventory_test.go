package inventory

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_AddPreservesOrder(t *testing.T) {
	inv := New()
	for _, item := range []string{"Sword", "Healing Potion", "Sword"} {
		require.NoError(t, inv.Add(item))
	}

	assert.Equal(t, []string{"Sword", "Healing Potion", "Sword"}, inv.Items())
	assert.Equal(t, 3, inv.Len())
	assert.Equal(t, 0, inv.Capacity())
}

func TestInventory_Remove(t *testing.T) {
	tests := []struct {
		name    string
		start   []string
		remove  string
		want    []string
		removed int
	}{
		{"removes all duplicates", []string{"a", "b", "a", "c", "a"}, "a", []string{"b", "c"}, 3},
		{"absent item is a no-op", []string{"a", "b"}, "z", []string{"a", "b"}, 0},
		{"empty inventory", nil, "a", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := New()
			for _, item := range tt.start {
				require.NoError(t, inv.Add(item))
			}
			got := inv.Remove(tt.remove)
			if got != tt.removed {
				t.Errorf("Remove(%q) = %d, want %d", tt.remove, got, tt.removed)
			}
			assert.Equal(t, tt.want, inv.Items())
		})
	}
}

func TestInventory_ItemsIsACopy(t *testing.T) {
	inv := New()
	require.NoError(t, inv.Add("Sword"))

	items := inv.Items()
	items[0] = "Stick"

	assert.Equal(t, []string{"Sword"}, inv.Items())
}

func TestInventory_ZeroValueIsUsable(t *testing.T) {
	var inv Inventory
	require.NoError(t, inv.Add("Torch"))
	assert.True(t, inv.Contains("Torch"))
	assert.False(t, inv.Contains("Rope"))
}

func TestNewBounded(t *testing.T) {
	t.Run("rejects non-positive capacity", func(t *testing.T) {
		for _, c := range []int{0, -3} {
			inv, err := NewBounded(c)
			assert.Nil(t, inv)
			assert.True(t, errors.Is(err, ErrInvalidCapacity), "capacity %d", c)
		}
	})

	t.Run("rejects items past capacity", func(t *testing.T) {
		inv, err := NewBounded(2)
		require.NoError(t, err)

		require.NoError(t, inv.Add("a"))
		require.NoError(t, inv.Add("b"))

		err = inv.Add("c")
		assert.ErrorIs(t, err, ErrFull)
		assert.Equal(t, []string{"a", "b"}, inv.Items())

		inv.Remove("a")
		assert.NoError(t, inv.Add("c"))
	})
}

func TestInventory_Replace(t *testing.T) {
	inv, err := NewBounded(2)
	require.NoError(t, err)
	require.NoError(t, inv.Add("old"))

	err = inv.Replace([]string{"a", "b", "c"})
	assert.ErrorIs(t, err, ErrFull)
	assert.Equal(t, []string{"old"}, inv.Items())

	require.NoError(t, inv.Replace([]string{"x", "y"}))
	assert.Equal(t, []string{"x", "y"}, inv.Items())

	require.NoError(t, inv.Replace(nil))
	assert.Equal(t, 0, inv.Len())
}
