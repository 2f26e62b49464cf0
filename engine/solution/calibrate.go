package solution

import (
	"errors"
	"fmt"

	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// ErrNotDistributed is returned by operations that need a placement.
var ErrNotDistributed = errors.New("required items not distributed")

// weaponsBefore returns the weapons the player holds on entering level i.
// Rewards of a level cannot be used in that level's own fights.
func (m *Manager) weaponsBefore(i int) []types.Item {
	if i == 0 {
		return m.start.Weapons()
	}
	return m.sol.ExpectedWeapons[i-1]
}

// ResetPlayerHP replays every fight with the weapons expected at that
// point and sets PlayerMaxHP to one more than the worst-case total damage.
// In shuffleEnemy mode only one enemy of a multi-enemy encounter is
// actually faced, so the encounter costs its worst single fight.
func (m *Manager) ResetPlayerHP(shuffleEnemy bool) (int, error) {
	if m.sol == nil {
		return 0, ErrNotDistributed
	}
	m.sol.Encounters = nil
	m.shuffle = shuffleEnemy
	total := 0
	for i, lvl := range m.levels {
		if !level.FightsIn(lvl) {
			continue
		}
		cost, encs := m.encounterCost(i, lvl, m.weaponsBefore(i))
		m.sol.Encounters = append(m.sol.Encounters, encs...)
		total += cost
	}
	m.sol.PlayerMaxHP = 1 + total
	m.log.Debug("player hp calibrated", "max_hp", m.sol.PlayerMaxHP, "encounters", len(m.sol.Encounters))
	return m.sol.PlayerMaxHP, nil
}

// encounterCost fights every enemy of lvl with the best of weapons and
// aggregates the damage taken: the sum, or the worst single fight in
// shuffle mode.
func (m *Manager) encounterCost(i int, lvl *types.Level, weapons []types.Item) (int, []Encounter) {
	encs := make([]Encounter, 0, len(lvl.Enemies))
	sum, worst := 0, 0
	for _, e := range lvl.Enemies {
		o := m.battle.SimulateBest(e, weapons)
		encs = append(encs, Encounter{
			Level:  i,
			Enemy:  e.Name,
			Weapon: o.Weapon,
			Turns:  o.Turns,
			Damage: o.DamageTaken,
			Won:    o.Won,
		})
		sum += o.DamageTaken
		worst = max(worst, o.DamageTaken)
	}
	if m.shuffle && len(lvl.Enemies) > 1 {
		return worst, encs
	}
	return sum, encs
}

// ForwardPlay replays the committed placement in level order the way a
// player would: fight, hand trade-ins over at shops, pick up required
// items and then trade-ins, craft whatever is craftable after each pickup.
// Every pickup must fit the capacity, every fight must be won and
// survivable with PlayerMaxHP, every trade-in must still be in hand at its
// shop, and an advanced weapon of the solution element must be held on
// entering the boss level.
func (m *Manager) ForwardPlay() error {
	if m.sol == nil {
		return ErrNotDistributed
	}
	inv := m.start.Clone()

	pickups := map[int][]string{}
	for _, p := range m.sol.Placements {
		if !p.TradeIn {
			pickups[p.Level] = append(pickups[p.Level], p.Item)
		}
	}
	taken, given := map[int][]string{}, map[int][]string{}
	for _, t := range m.sol.TradeIns {
		taken[t.Source] = append(taken[t.Source], t.Item)
		given[t.Shop] = append(given[t.Shop], t.Item)
	}
	take := func(i int, name string) error {
		if err := inv.Add(recipe.MustItem(name, 1)); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
		if _, err := inv.TryAllPossibleCrafts(); err != nil {
			return fmt.Errorf("level %d: %w", i+1, err)
		}
		return nil
	}

	hp := m.sol.PlayerMaxHP
	for i, lvl := range m.levels {
		if lvl.Type == types.LevelBoss && !m.holdsCounter(inv.Weapons()) {
			return fmt.Errorf("level %d: no advanced %s weapon on entering the boss", i+1, m.element)
		}
		if level.FightsIn(lvl) {
			cost, encs := m.encounterCost(i, lvl, inv.Weapons())
			for _, e := range encs {
				if !e.Won {
					return fmt.Errorf("level %d: cannot beat %s", i+1, e.Enemy)
				}
			}
			hp -= cost
			if m.sol.PlayerMaxHP > 0 && hp <= 0 {
				return fmt.Errorf("level %d: player falls with %d hp", i+1, hp)
			}
		}

		for _, name := range given[i] {
			if err := inv.Remove(name, 1); err != nil {
				return fmt.Errorf("level %d: trade-in %s: %w", i+1, name, err)
			}
		}
		for _, name := range pickups[i] {
			if err := take(i, name); err != nil {
				return err
			}
		}
		for _, name := range taken[i] {
			if err := take(i, name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *Manager) holdsCounter(weapons []types.Item) bool {
	for _, w := range weapons {
		if w.Tier == types.TierAdvanced && w.Element == m.element {
			return true
		}
	}
	return false
}
