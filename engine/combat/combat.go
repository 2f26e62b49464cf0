// Package combat is the damage model used to size player HP. Battles are
// fully deterministic: the player strikes first each turn and the enemy
// then performs the next action of its cyclic pattern.
package combat

import (
	"math"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/types"
)

// UnarmedDamage is dealt when the player holds no weapon.
const UnarmedDamage = 2

// DefaultMaxTurns caps a battle the player cannot win.
const DefaultMaxTurns = 100

// Outcome summarizes one simulated battle.
type Outcome struct {
	Weapon      string // empty when unarmed
	Turns       int
	DamageTaken int
	Won         bool
}

// Model holds the tunables of the damage model.
type Model struct {
	Chart    element.Chart
	MaxTurns int
}

// Default uses the process-wide element chart.
var Default = Model{Chart: element.Default, MaxTurns: DefaultMaxTurns}

// EffectiveDamage is floor(weapon damage x multiplier). A nil weapon
// attacks unarmed for UnarmedDamage with a neutral multiplier.
func (m Model) EffectiveDamage(weapon *types.Item, enemy types.Enemy) int {
	if weapon == nil {
		return UnarmedDamage
	}
	mult := m.Chart.Multiplier(weapon.Element, enemy.Element)
	return int(math.Floor(float64(weapon.Damage) * mult))
}

// Simulate fights enemy with a single weapon (nil for unarmed).
func (m Model) Simulate(enemy types.Enemy, weapon *types.Item) Outcome {
	out := Outcome{}
	if weapon != nil {
		out.Weapon = weapon.Name
	}
	hit := m.EffectiveDamage(weapon, enemy)
	hp := enemy.HP
	defending, charged := false, false

	maxTurns := m.MaxTurns
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}

	for turn := 0; turn < maxTurns; turn++ {
		out.Turns++

		dealt := hit
		if defending && dealt > 0 {
			dealt /= 2
			if dealt < 1 {
				dealt = 1
			}
		}
		defending = false
		hp -= dealt
		if hp <= 0 {
			out.Won = true
			return out
		}

		act := nextAction(enemy.Pattern, turn)
		switch act.Kind {
		case types.ActionDefend:
			defending = true
		case types.ActionCharge:
			charged = true
		default:
			dmg := enemy.Attack + act.Power
			if charged {
				dmg *= 2
				charged = false
			}
			out.DamageTaken += dmg
		}
	}
	return out
}

// SimulateBest fights enemy with every held weapon and unarmed, returning
// the outcome with the least damage taken. Wins beat losses; ties go to
// fewer turns, then to the earlier weapon.
func (m Model) SimulateBest(enemy types.Enemy, weapons []types.Item) Outcome {
	best := m.Simulate(enemy, nil)
	for i := range weapons {
		o := m.Simulate(enemy, &weapons[i])
		if better(o, best) {
			best = o
		}
	}
	return best
}

// EffectiveDamage uses the Default model.
func EffectiveDamage(weapon *types.Item, enemy types.Enemy) int {
	return Default.EffectiveDamage(weapon, enemy)
}

// Simulate uses the Default model.
func Simulate(enemy types.Enemy, weapon *types.Item) Outcome {
	return Default.Simulate(enemy, weapon)
}

// SimulateBest uses the Default model.
func SimulateBest(enemy types.Enemy, weapons []types.Item) Outcome {
	return Default.SimulateBest(enemy, weapons)
}

func better(a, b Outcome) bool {
	if a.Won != b.Won {
		return a.Won
	}
	if a.DamageTaken != b.DamageTaken {
		return a.DamageTaken < b.DamageTaken
	}
	return a.Turns < b.Turns
}

func nextAction(pattern []types.Action, turn int) types.Action {
	if len(pattern) == 0 {
		return types.Action{Kind: types.ActionAttack}
	}
	return pattern[turn%len(pattern)]
}
