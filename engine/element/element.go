// Package element holds the fixed elemental effectiveness chart and the
// counter-element selection used to pick a run's solution weapon.
package element

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/questforge/types"
)

// All lists the eight elements in declaration order.
var All = []types.Element{
	types.ElementFire,
	types.ElementWater,
	types.ElementEarth,
	types.ElementAir,
	types.ElementIce,
	types.ElementLightning,
	types.ElementLight,
	types.ElementDark,
}

// Multipliers are the only values a chart may hold.
const (
	Immune         = 0.0
	NotEffective   = 0.5
	Neutral        = 1.0
	SuperEffective = 2.0
)

// Chart maps attacker -> defender -> multiplier. Missing pairs are Neutral.
type Chart map[types.Element]map[types.Element]float64

// Default is the process-wide effectiveness chart.
var Default = Chart{
	types.ElementFire: {
		types.ElementIce:   SuperEffective,
		types.ElementFire:  NotEffective,
		types.ElementWater: NotEffective,
	},
	types.ElementWater: {
		types.ElementFire:  SuperEffective,
		types.ElementWater: NotEffective,
	},
	types.ElementEarth: {
		types.ElementLightning: SuperEffective,
		types.ElementEarth:     NotEffective,
		types.ElementAir:       Immune,
	},
	types.ElementAir: {
		types.ElementEarth:     SuperEffective,
		types.ElementLightning: NotEffective,
	},
	types.ElementIce: {
		types.ElementAir:  SuperEffective,
		types.ElementIce:  NotEffective,
		types.ElementFire: NotEffective,
	},
	types.ElementLightning: {
		types.ElementWater:     SuperEffective,
		types.ElementLightning: NotEffective,
		types.ElementEarth:     Immune,
	},
	types.ElementLight: {
		types.ElementDark:  SuperEffective,
		types.ElementLight: NotEffective,
	},
	types.ElementDark: {
		types.ElementLight: SuperEffective,
		types.ElementDark:  NotEffective,
	},
}

// Multiplier returns the damage multiplier of attacker against defender.
// Neutral attackers or defenders always get Neutral.
func (c Chart) Multiplier(attacker, defender types.Element) float64 {
	if attacker == types.ElementNone || defender == types.ElementNone {
		return Neutral
	}
	if row, ok := c[attacker]; ok {
		if m, ok := row[defender]; ok {
			return m
		}
	}
	return Neutral
}

// SuperEffectiveAgainst returns every element with a 2.0 multiplier
// against defender, sorted by name.
func (c Chart) SuperEffectiveAgainst(defender types.Element) []types.Element {
	var out []types.Element
	for _, attacker := range All {
		if c.Multiplier(attacker, defender) == SuperEffective {
			out = append(out, attacker)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Counter picks the solution element for a boss. A super-effective element
// is chosen uniformly when one exists; otherwise any element other than the
// boss's own.
func (c Chart) Counter(boss types.Element, rng types.Rand) types.Element {
	if strong := c.SuperEffectiveAgainst(boss); len(strong) > 0 {
		return strong[rng.Intn(len(strong))]
	}
	var others []types.Element
	for _, e := range All {
		if e != boss {
			others = append(others, e)
		}
	}
	return others[rng.Intn(len(others))]
}

// Parse resolves a case-insensitive element name.
func Parse(name string) (types.Element, error) {
	upper := types.Element(strings.ToUpper(strings.TrimSpace(name)))
	for _, e := range All {
		if e == upper {
			return e, nil
		}
	}
	return types.ElementNone, fmt.Errorf("unknown element %q", name)
}

// Title returns the display form used in item names: "FIRE" -> "Fire".
func Title(e types.Element) string {
	s := strings.ToLower(string(e))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
