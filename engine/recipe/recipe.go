// Package recipe holds the static crafting graph and the item catalog the
// graph is built from. Materials are leaves; advanced weapons are roots.
package recipe

import (
	"fmt"
	"sort"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/types"
)

// graph maps a craftable item name to its ingredients.
var graph = build()

// order lists craftable names shallow-first, then by name.
var order = craftOrder()

func build() map[string][]types.Ingredient {
	g := map[string][]types.Ingredient{}
	for _, e := range element.All {
		g[StandardWeapons[e]] = []types.Ingredient{
			{Item: WeaponPrototype, Quantity: 1},
			{Item: Essence(e), Quantity: 1},
		}
		g[Enhancer(e)] = []types.Ingredient{
			{Item: Essence(e), Quantity: 2},
			{Item: MagicCatalyst, Quantity: 1},
		}
		g[AdvancedWeapons[e]] = []types.Ingredient{
			{Item: StandardWeapons[e], Quantity: 1},
			{Item: Enhancer(e), Quantity: 1},
			{Item: EnchantedCloth, Quantity: 1},
		}
	}
	return g
}

func init() {
	if err := Validate(); err != nil {
		panic(err)
	}
}

// Lookup returns the ingredients of a craftable item.
func Lookup(name string) ([]types.Ingredient, bool) {
	ing, ok := graph[name]
	return ing, ok
}

// Craftable reports whether name has a recipe.
func Craftable(name string) bool {
	_, ok := graph[name]
	return ok
}

// Names returns every craftable item, shallow recipes first.
func Names() []string {
	out := make([]string, len(order))
	copy(out, order)
	return out
}

// Depth returns the length of the longest crafting chain below name.
// Base materials have depth 0.
func Depth(name string) int {
	ing, ok := graph[name]
	if !ok {
		return 0
	}
	best := 0
	for _, in := range ing {
		if d := Depth(in.Item); d > best {
			best = d
		}
	}
	return best + 1
}

func craftOrder() []string {
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		di, dj := Depth(names[i]), Depth(names[j])
		if di != dj {
			return di < dj
		}
		return names[i] < names[j]
	})
	return names
}

// BaseMaterials walks the chain under target and returns the multiset of
// leaves needed to craft one unit of it.
func BaseMaterials(target string) (map[string]int, error) {
	if _, err := NewItem(target, 1); err != nil {
		return nil, err
	}
	out := map[string]int{}
	var walk func(name string, qty int)
	walk = func(name string, qty int) {
		ing, ok := graph[name]
		if !ok {
			out[name] += qty
			return
		}
		for _, in := range ing {
			walk(in.Item, qty*in.Quantity)
		}
	}
	walk(target, 1)
	return out, nil
}

// Validate checks that every ingredient is a catalog item and that the
// graph has no cycles.
func Validate() error {
	visited := map[string]bool{}
	onPath := map[string]bool{}

	var dfs func(name string) error
	dfs = func(name string) error {
		if onPath[name] {
			return fmt.Errorf("recipe cycle through %q", name)
		}
		if visited[name] {
			return nil
		}
		visited[name] = true
		onPath[name] = true
		for _, in := range graph[name] {
			if _, err := NewItem(in.Item, 1); err != nil {
				return fmt.Errorf("recipe %q: %w", name, err)
			}
			if in.Quantity <= 0 {
				return fmt.Errorf("recipe %q: ingredient %q has quantity %d", name, in.Item, in.Quantity)
			}
			if err := dfs(in.Item); err != nil {
				return err
			}
		}
		delete(onPath, name)
		return nil
	}

	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := NewItem(name, 1); err != nil {
			return fmt.Errorf("recipe output: %w", err)
		}
		if err := dfs(name); err != nil {
			return err
		}
	}
	return nil
}
