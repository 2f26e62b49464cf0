package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/types"
)

// ErrUnknownItem is returned when a name matches no catalog entry. The
// catalog is exhaustive, so this always indicates a programming error.
var ErrUnknownItem = errors.New("unknown item")

// Universal crafting components.
const (
	WeaponPrototype = "Weapon Prototype"
	MagicCatalyst   = "Magic Catalyst"
	EnchantedCloth  = "Enchanted Cloth"
)

// Weapon damage by tier.
const (
	StandardDamage = 8
	AdvancedDamage = 20
)

// TierWeights is the per-unit weight of each tier.
var TierWeights = map[types.Tier]int{
	types.TierBasic:    1,
	types.TierStandard: 2,
	types.TierAdvanced: 3,
}

// StandardWeapons names the standard-tier weapon of each element.
var StandardWeapons = map[types.Element]string{
	types.ElementFire:      "Flame Sword",
	types.ElementWater:     "Tide Trident",
	types.ElementEarth:     "Stone Hammer",
	types.ElementAir:       "Gale Bow",
	types.ElementIce:       "Frost Dagger",
	types.ElementLightning: "Spark Rod",
	types.ElementLight:     "Sun Blade",
	types.ElementDark:      "Shadow Knife",
}

// AdvancedWeapons names the advanced-tier weapon of each element.
var AdvancedWeapons = map[types.Element]string{
	types.ElementFire:      "Inferno Blaster",
	types.ElementWater:     "Maelstrom Cannon",
	types.ElementEarth:     "Tectonic Maul",
	types.ElementAir:       "Tempest Longbow",
	types.ElementIce:       "Glacier Lance",
	types.ElementLightning: "Thunder Railgun",
	types.ElementLight:     "Radiant Halberd",
	types.ElementDark:      "Void Scythe",
}

const (
	essenceSuffix  = " Essence"
	enhancerSuffix = " Enhancer"
)

// Essence returns the base material name of an element: "Fire Essence".
func Essence(e types.Element) string {
	return element.Title(e) + essenceSuffix
}

// Enhancer returns the enhancer name of an element: "Fire Enhancer".
func Enhancer(e types.Element) string {
	return element.Title(e) + enhancerSuffix
}

// NewItem synthesizes count units of the named item from the static tables.
func NewItem(name string, count int) (types.Item, error) {
	if count <= 0 {
		return types.Item{}, fmt.Errorf("item %q: count must be positive, got %d", name, count)
	}
	for _, e := range element.All {
		switch name {
		case StandardWeapons[e]:
			return weapon(name, e, types.TierStandard, StandardDamage, count), nil
		case AdvancedWeapons[e]:
			return weapon(name, e, types.TierAdvanced, AdvancedDamage, count), nil
		case Essence(e):
			return material(name, e, types.TierBasic, count), nil
		case Enhancer(e):
			return material(name, e, types.TierStandard, count), nil
		}
	}
	switch name {
	case WeaponPrototype, MagicCatalyst, EnchantedCloth:
		return material(name, types.ElementNone, types.TierBasic, count), nil
	}
	return types.Item{}, fmt.Errorf("%w: %q", ErrUnknownItem, name)
}

// MustItem is NewItem for names known to be in the catalog. It panics on
// an unknown name.
func MustItem(name string, count int) types.Item {
	it, err := NewItem(name, count)
	if err != nil {
		panic(err)
	}
	return it
}

// UnitWeight returns the per-unit weight of a catalog item.
func UnitWeight(name string) (int, error) {
	it, err := NewItem(name, 1)
	if err != nil {
		return 0, err
	}
	return it.Weight, nil
}

// IsEnhancer reports whether name follows the enhancer name pattern.
func IsEnhancer(name string) bool {
	return strings.HasSuffix(name, enhancerSuffix)
}

// Essences returns every elemental base material name in element order.
func Essences() []string {
	out := make([]string, 0, len(element.All))
	for _, e := range element.All {
		out = append(out, Essence(e))
	}
	return out
}

func weapon(name string, e types.Element, tier types.Tier, damage, count int) types.Item {
	return types.Item{
		Name:    name,
		Kind:    types.KindWeapon,
		Count:   count,
		Weight:  TierWeights[tier],
		Element: e,
		Tier:    tier,
		Damage:  damage,
	}
}

func material(name string, e types.Element, tier types.Tier, count int) types.Item {
	return types.Item{
		Name:    name,
		Kind:    types.KindMaterial,
		Count:   count,
		Weight:  TierWeights[tier],
		Element: e,
		Tier:    tier,
	}
}
