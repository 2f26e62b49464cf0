package solution

import (
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// collectibleChance is the share of growth-level items left in the open
// rather than in a container.
const collectibleChance = 0.6

var containerKinds = []string{"chest", "crate", "satchel", "urn"}

// Distribute runs the placement search and, on success, writes the
// required items, their trade-ins and the complementary noise into the
// levels. It returns *UnsolvableConfigurationError when no placement
// exists.
func (m *Manager) Distribute() error {
	if m.sol != nil {
		return ErrDistributed
	}

	s := newSearch(m)
	ok, err := s.visit(0, 0)
	m.log.Debug("placement search finished",
		"ok", ok, "nodes", s.nodes, "memo", len(s.failed), "exceeded", s.exceeded)
	if err != nil {
		return err
	}
	if !ok {
		return &UnsolvableConfigurationError{
			Boss:     m.boss,
			Element:  m.element,
			Levels:   len(m.levels),
			Capacity: m.start.Capacity,
			Nodes:    s.nodes,
			Exceeded: s.exceeded,
		}
	}

	sol := &Solution{
		Boss:                m.boss,
		Element:             m.element,
		Target:              m.target,
		RequiredItems:       m.RequiredItems(),
		ExpectedWeapons:     s.weapons,
		ExpectedInventory:   s.held,
		RemainingCapacities: s.capacities,
		Nodes:               s.nodes,
	}
	m.commit(sol, s)
	m.addNoise(sol)
	m.sol = sol
	return nil
}

func (m *Manager) commit(sol *Solution, s *search) {
	for idx, names := range s.placed {
		lvl := m.levels[idx]
		for _, name := range names {
			item := recipe.MustItem(name, 1)
			switch lvl.Type {
			case types.LevelShop:
				trade, src := s.trade[idx], s.source[idx]
				price := recipe.MustItem(trade, 1)
				lvl.ForSale = append(lvl.ForSale, types.Offer{Item: item, Price: &price})
				where := m.put(m.levels[src], price)
				sol.TradeIns = append(sol.TradeIns, TradeIn{Shop: idx, Source: src, Item: trade})
				sol.Placements = append(sol.Placements, Placement{Level: src, Item: trade, Where: where, TradeIn: true})
				for k := src; k < idx; k++ {
					sol.ExpectedInventory[k] = mergeItem(sol.ExpectedInventory[k], price)
					sol.RemainingCapacities[k] -= price.Weight
				}
				sol.Placements = append(sol.Placements, Placement{Level: idx, Item: name, Where: "shop"})
				m.log.Debug("placed", "level", idx, "item", name, "price", trade, "source", src)
			default:
				where := m.put(lvl, item)
				sol.Placements = append(sol.Placements, Placement{Level: idx, Item: name, Where: where})
				m.log.Debug("placed", "level", idx, "item", name, "where", where)
			}
		}
	}
}

// put writes item into a growth or combat level and reports where.
func (m *Manager) put(lvl *types.Level, item types.Item) string {
	caps := level.Capabilities(lvl.Type)
	switch {
	case caps.Has(level.HasEnemies) && len(lvl.Enemies) > 0:
		e := &lvl.Enemies[m.rng.Intn(len(lvl.Enemies))]
		e.Drops = mergeItem(e.Drops, item)
		return "drop"
	case caps.Has(level.HasCollectibles) && m.rng.Float64() < collectibleChance:
		lvl.Collectibles = mergeItem(lvl.Collectibles, item)
		return "collectible"
	case caps.Has(level.HasContainers):
		kind := containerKinds[m.rng.Intn(len(containerKinds))]
		lvl.Containers = append(lvl.Containers, types.Container{Kind: kind, Items: []types.Item{item}})
		return "container"
	default:
		lvl.Collectibles = mergeItem(lvl.Collectibles, item)
		return "collectible"
	}
}

// noisePool lists the elemental essences the chain does not use.
func (m *Manager) noisePool() []string {
	var pool []string
	for _, name := range recipe.Essences() {
		if !m.chain[name] && m.required[name] == 0 {
			pool = append(pool, name)
		}
	}
	return pool
}

// addNoise scatters non-required essences for exploration value. They
// never take part in the solvability guarantee.
func (m *Manager) addNoise(sol *Solution) {
	pool := m.noisePool()
	for idx, lvl := range m.levels {
		if !level.Eligible(lvl) {
			continue
		}
		n := 1 + m.rng.Intn(2)
		if lvl.Type == types.LevelCombat {
			n += len(lvl.Enemies) - 1
		}
		for j := 0; j < n; j++ {
			name := pool[m.rng.Intn(len(pool))]
			item := recipe.MustItem(name, 1)
			where := "shop"
			if lvl.Type == types.LevelShop {
				price := recipe.MustItem(otherThan(pool, name, m.rng), 1)
				lvl.ForSale = append(lvl.ForSale, types.Offer{Item: item, Price: &price})
			} else {
				where = m.put(lvl, item)
			}
			sol.Noise = append(sol.Noise, Placement{Level: idx, Item: name, Where: where})
		}
	}
}

func otherThan(pool []string, name string, rng types.Rand) string {
	for {
		if p := pool[rng.Intn(len(pool))]; p != name || len(pool) == 1 {
			return p
		}
	}
}

func mergeItem(items []types.Item, it types.Item) []types.Item {
	for i := range items {
		if items[i].Name == it.Name {
			items[i].Count += it.Count
			return items
		}
	}
	return append(items, it)
}
