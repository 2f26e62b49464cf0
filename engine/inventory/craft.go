package inventory

import (
	"errors"
	"fmt"

	"github.com/nathoo/questforge/engine/recipe"
)

// ErrMissingIngredients is returned when a craft lacks an ingredient.
var ErrMissingIngredients = errors.New("missing ingredients")

// CanCraft reports whether every ingredient of name is held in the
// required quantity. Nested recipes are not expanded.
func (inv *Inventory) CanCraft(name string) bool {
	ing, ok := recipe.Lookup(name)
	if !ok {
		return false
	}
	for _, in := range ing {
		if inv.Count(in.Item) < in.Quantity {
			return false
		}
	}
	return true
}

// Craft consumes the ingredients of name and adds one crafted unit. It
// leaves the inventory untouched when it fails.
func (inv *Inventory) Craft(name string) error {
	ing, ok := recipe.Lookup(name)
	if !ok {
		return fmt.Errorf("craft %q: no recipe", name)
	}
	result, err := recipe.NewItem(name, 1)
	if err != nil {
		return fmt.Errorf("craft: %w", err)
	}
	if !inv.CanCraft(name) {
		return fmt.Errorf("craft %q: %w", name, ErrMissingIngredients)
	}

	before := inv.Snapshot()
	for _, in := range ing {
		if err := inv.Remove(in.Item, in.Quantity); err != nil {
			inv.Items = before
			return fmt.Errorf("craft %q: %w", name, err)
		}
	}
	inv.put(result)
	if inv.Weight() > inv.Capacity {
		inv.Items = before
		return fmt.Errorf("craft %q: %w", name, ErrOverCapacity)
	}
	return nil
}

// TryAllPossibleCrafts crafts greedily until a full pass over every recipe
// produces nothing new. It returns the number of crafts made.
func (inv *Inventory) TryAllPossibleCrafts() (int, error) {
	made := 0
	for {
		progress := false
		for _, name := range recipe.Names() {
			for inv.CanCraft(name) {
				if err := inv.Craft(name); err != nil {
					if errors.Is(err, ErrOverCapacity) {
						break
					}
					return made, err
				}
				made++
				progress = true
			}
		}
		if !progress {
			return made, nil
		}
	}
}

// Breakdown reverses every crafted item one unit at a time until only
// base materials remain. Capacity is not enforced while decomposing. It
// returns the number of units decomposed.
func (inv *Inventory) Breakdown() int {
	undone := 0
	for {
		name, ok := inv.firstCraftedHeld()
		if !ok {
			return undone
		}
		ing, _ := recipe.Lookup(name)
		// Remove cannot fail: name is held.
		_ = inv.Remove(name, 1)
		for _, in := range ing {
			inv.put(recipe.MustItem(in.Item, in.Quantity))
		}
		undone++
	}
}

// BaseComponents returns the leaf multiset the held items break down to,
// without modifying the inventory.
func (inv *Inventory) BaseComponents() map[string]int {
	c := inv.Clone()
	c.Breakdown()
	return c.Counts()
}

func (inv *Inventory) firstCraftedHeld() (string, bool) {
	for _, it := range inv.Items {
		if recipe.Craftable(it.Name) {
			return it.Name, true
		}
	}
	return "", false
}
