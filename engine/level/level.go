// Package level defines level capabilities, difficulty presets and the
// bestiary, and generates the level skeletons a run is built on.
package level

import (
	"fmt"
	"strings"

	"github.com/nathoo/questforge/types"
)

// Capability flags which content surfaces a level exposes.
type Capability uint8

const (
	HasCollectibles Capability = 1 << iota
	HasContainers
	HasEnemies
	HasShop
)

// Has reports whether every flag in f is set.
func (c Capability) Has(f Capability) bool {
	return c&f == f
}

// Capabilities returns the content surfaces of a level type.
func Capabilities(t types.LevelType) Capability {
	switch t {
	case types.LevelGrowth:
		return HasCollectibles | HasContainers
	case types.LevelCombat, types.LevelMiniboss, types.LevelBoss:
		return HasEnemies
	case types.LevelShop:
		return HasShop
	default:
		return 0
	}
}

// Types lists every level type in run order of appearance.
var Types = []types.LevelType{
	types.LevelGrowth,
	types.LevelCombat,
	types.LevelMiniboss,
	types.LevelShop,
	types.LevelBoss,
}

// ParseType resolves a case-insensitive level type name.
func ParseType(s string) (types.LevelType, error) {
	lt := types.LevelType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range Types {
		if t == lt {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown level type %q", s)
}

// Eligible reports whether required items may be placed in l. Minibosses
// and bosses never carry required items.
func Eligible(l *types.Level) bool {
	switch l.Type {
	case types.LevelGrowth, types.LevelShop:
		return true
	case types.LevelCombat:
		return len(l.Enemies) > 0
	default:
		return false
	}
}

// SlotQuota is how many required units l may hold.
func SlotQuota(l *types.Level) int {
	switch l.Type {
	case types.LevelGrowth:
		return 2
	case types.LevelCombat:
		return len(l.Enemies)
	case types.LevelShop:
		return 1
	default:
		return 0
	}
}

// FightsIn reports whether the player must fight through l.
func FightsIn(l *types.Level) bool {
	return Capabilities(l.Type).Has(HasEnemies) && len(l.Enemies) > 0
}

// Items returns every item reachable in l: collectibles, container
// contents, enemy drops and shop stock.
func Items(l *types.Level) []types.Item {
	var out []types.Item
	out = append(out, l.Collectibles...)
	for _, c := range l.Containers {
		out = append(out, c.Items...)
	}
	for _, e := range l.Enemies {
		out = append(out, e.Drops...)
	}
	for _, o := range l.ForSale {
		out = append(out, o.Item)
	}
	return out
}
