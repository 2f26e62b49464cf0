// Package inventory provides the weight-bounded bag used both as the
// player's starting inventory and as the resolver's simulation-only
// virtual inventory, together with the crafting resolver operating on it.
package inventory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

var (
	// ErrOverCapacity is returned when an addition would exceed capacity.
	ErrOverCapacity = errors.New("capacity exceeded")
	// ErrNotEnough is returned when removing more units than are held.
	ErrNotEnough = errors.New("not enough items")
)

// Inventory is a capacity-bounded collection of item stacks.
type Inventory struct {
	Items    []types.Item
	Capacity int

	// saved holds Push snapshots for exact undo.
	saved [][]types.Item
}

// New creates an inventory with the given capacity and initial stacks.
// Stacks sharing a name are merged.
func New(capacity int, items ...types.Item) (*Inventory, error) {
	inv := &Inventory{Capacity: capacity, Items: make([]types.Item, 0, len(items))}
	for _, it := range items {
		if err := inv.Add(it); err != nil {
			return nil, err
		}
	}
	return inv, nil
}

// FromNames builds an inventory from catalog names, one unit per entry.
func FromNames(capacity int, names ...string) (*Inventory, error) {
	inv := &Inventory{Capacity: capacity}
	for _, name := range names {
		it, err := recipe.NewItem(name, 1)
		if err != nil {
			return nil, err
		}
		if err := inv.Add(it); err != nil {
			return nil, fmt.Errorf("starting item %q: %w", name, err)
		}
	}
	return inv, nil
}

// Weight returns the total carried weight.
func (inv *Inventory) Weight() int {
	total := 0
	for _, it := range inv.Items {
		total += it.Weight * it.Count
	}
	return total
}

// Spare returns the remaining capacity.
func (inv *Inventory) Spare() int {
	return inv.Capacity - inv.Weight()
}

// CanAdd reports whether weight more units of weight still fit.
func (inv *Inventory) CanAdd(weight int) bool {
	return inv.Weight()+weight <= inv.Capacity
}

// Add merges it into the matching stack or appends a new one.
func (inv *Inventory) Add(it types.Item) error {
	if it.Count <= 0 {
		return fmt.Errorf("add %q: count must be positive", it.Name)
	}
	if !inv.CanAdd(it.Weight * it.Count) {
		return fmt.Errorf("add %s x%d: %w (weight=%d cap=%d)", it.Name, it.Count, ErrOverCapacity, inv.Weight(), inv.Capacity)
	}
	inv.put(it)
	return nil
}

// put adds without the capacity check. Used by Breakdown and Craft, which
// restore or verify capacity themselves.
func (inv *Inventory) put(it types.Item) {
	if i := inv.index(it.Name); i >= 0 {
		inv.Items[i].Count += it.Count
		return
	}
	inv.Items = append(inv.Items, it)
}

// Remove takes qty units of name out of the inventory.
func (inv *Inventory) Remove(name string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("remove %q: qty must be positive", name)
	}
	i := inv.index(name)
	if i < 0 || inv.Items[i].Count < qty {
		return fmt.Errorf("remove %s x%d: %w (have %d)", name, qty, ErrNotEnough, inv.Count(name))
	}
	inv.Items[i].Count -= qty
	if inv.Items[i].Count == 0 {
		inv.Items = append(inv.Items[:i], inv.Items[i+1:]...)
	}
	return nil
}

// Count returns the number of units of name held.
func (inv *Inventory) Count(name string) int {
	if i := inv.index(name); i >= 0 {
		return inv.Items[i].Count
	}
	return 0
}

// Weapons returns a copy of every weapon stack held.
func (inv *Inventory) Weapons() []types.Item {
	var out []types.Item
	for _, it := range inv.Items {
		if it.Kind == types.KindWeapon {
			out = append(out, it)
		}
	}
	return out
}

// Snapshot returns a copy of the current stacks.
func (inv *Inventory) Snapshot() []types.Item {
	out := make([]types.Item, len(inv.Items))
	copy(out, inv.Items)
	return out
}

// Clone returns an independent copy without the undo stack.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{Items: inv.Snapshot(), Capacity: inv.Capacity}
}

// Push saves the current stacks so a later Pop restores them exactly.
func (inv *Inventory) Push() {
	inv.saved = append(inv.saved, inv.Snapshot())
}

// Pop restores the most recent Push. It panics on an empty stack, which
// would mean an unbalanced undo.
func (inv *Inventory) Pop() {
	n := len(inv.saved)
	if n == 0 {
		panic("inventory: Pop without Push")
	}
	inv.Items = inv.saved[n-1]
	inv.saved = inv.saved[:n-1]
}

// Counts returns the name -> count multiset.
func (inv *Inventory) Counts() map[string]int {
	out := make(map[string]int, len(inv.Items))
	for _, it := range inv.Items {
		out[it.Name] += it.Count
	}
	return out
}

// Fingerprint returns an order-independent key for the held multiset.
func (inv *Inventory) Fingerprint() string {
	parts := make([]string, 0, len(inv.Items))
	for _, it := range inv.Items {
		parts = append(parts, fmt.Sprintf("%s=%d", it.Name, it.Count))
	}
	sort.Strings(parts)
	return strings.Join(parts, ";")
}

func (inv *Inventory) index(name string) int {
	for i := range inv.Items {
		if inv.Items[i].Name == name {
			return i
		}
	}
	return -1
}
