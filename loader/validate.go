package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validActions = map[types.ActionKind]bool{
	types.ActionAttack: true,
	types.ActionDefend: true,
	types.ActionCharge: true,
}

// validate checks the pack's own definitions and the merged content they
// produce. Problems are appended to ve.
func validate(pack, merged *level.Content, ve *ValidationError) {
	validateEnemies("enemy", pack.Enemies, ve)
	validateEnemies("boss", pack.Bosses, ve)

	heaviest := heaviestChain()
	for _, name := range pack.PresetNames() {
		p := pack.Presets[name]
		if err := p.Validate(); err != nil {
			ve.Errors = append(ve.Errors, strings.Split(err.Error(), "\n")...)
		}
		if p.Capacity > 0 && p.Capacity < heaviest {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"difficulty %q: capacity %d is below the heaviest crafting chain (%d); runs may be unsolvable",
				p.Name, p.Capacity, heaviest))
		}
	}

	for _, b := range pack.Bosses {
		if b.Element != types.ElementNone && len(element.Default.SuperEffectiveAgainst(b.Element)) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf(
				"boss %q: nothing is super effective against %s", b.ID, b.Element))
		}
	}
	for _, name := range merged.PresetNames() {
		p := merged.Presets[name]
		for _, t := range p.Sequence {
			if (t == types.LevelCombat || t == types.LevelMiniboss) && len(merged.Enemies) == 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("difficulty %q needs regular enemies but none are defined", p.Name))
				break
			}
		}
	}
}

func validateEnemies(kind string, enemies []types.Enemy, ve *ValidationError) {
	seen := map[string]bool{}
	for _, e := range enemies {
		if e.ID == "" {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s with empty id", kind))
			continue
		}
		if seen[e.ID] {
			ve.Errors = append(ve.Errors, fmt.Sprintf("duplicate %s id %q", kind, e.ID))
		}
		seen[e.ID] = true

		if e.HP <= 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: hp must be positive, got %d", kind, e.ID, e.HP))
		}
		if e.Attack < 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: attack must not be negative, got %d", kind, e.ID, e.Attack))
		}
		for i, a := range e.Pattern {
			if !validActions[a.Kind] {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: pattern step %d has unknown action %q", kind, e.ID, i+1, a.Kind))
			}
			if a.Power < 0 {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: pattern step %d has negative power", kind, e.ID, i+1))
			}
		}
		if e.Attack == 0 && len(e.Pattern) == 0 {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("%s %q never deals damage", kind, e.ID))
		}
	}
}

// heaviestChain returns the largest total weight of base materials any
// advanced weapon needs.
func heaviestChain() int {
	heaviest := 0
	for _, e := range element.All {
		base, err := recipe.BaseMaterials(recipe.AdvancedWeapons[e])
		if err != nil {
			continue
		}
		w := 0
		for name, n := range base {
			uw, err := recipe.UnitWeight(name)
			if err != nil {
				continue
			}
			w += uw * n
		}
		heaviest = max(heaviest, w)
	}
	return heaviest
}
