package solution

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nathoo/questforge/engine/inventory"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// easyLevels builds growth, growth, combat, growth, shop, boss with an ICE
// boss and the given combat enemies.
func easyLevels(enemies ...types.Enemy) []*types.Level {
	seq := []types.LevelType{
		types.LevelGrowth, types.LevelGrowth, types.LevelCombat,
		types.LevelGrowth, types.LevelShop, types.LevelBoss,
	}
	if len(enemies) == 0 {
		enemies = []types.Enemy{{ID: "wolf", Name: "Frost Wolf", Element: types.ElementIce, HP: 16, Attack: 3}}
	}
	levels := make([]*types.Level, len(seq))
	for i, t := range seq {
		levels[i] = &types.Level{Index: i, Type: t}
	}
	levels[2].Enemies = enemies
	levels[5].Enemies = []types.Enemy{{ID: "wyrm", Name: "Glacial Wyrm", Element: types.ElementIce, HP: 60, Attack: 5}}
	return levels
}

func emptyStart(t *testing.T, capacity int) *inventory.Inventory {
	t.Helper()
	inv, err := inventory.New(capacity)
	require.NoError(t, err)
	return inv
}

func placedCounts(sol *Solution) map[string]int {
	out := map[string]int{}
	for _, p := range sol.Placements {
		if !p.TradeIn {
			out[p.Item]++
		}
	}
	return out
}

func holds(items []types.Item, name string) bool {
	for _, it := range items {
		if it.Name == name {
			return true
		}
	}
	return false
}

func TestScenario_IceBossEasy(t *testing.T) {
	levels := easyLevels()
	m, err := New(levels, types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, types.ElementFire, m.Element())
	assert.Equal(t, "Inferno Blaster", m.Target())
	assert.Equal(t, map[string]int{
		"Fire Essence":     3,
		"Weapon Prototype": 1,
		"Magic Catalyst":   1,
		"Enchanted Cloth":  1,
	}, m.RequiredItems())

	require.NoError(t, m.Distribute())
	sol := m.Solution()
	require.NotNil(t, sol)

	// Every required unit lands before the boss.
	content := map[string]int{}
	for _, lvl := range levels[:5] {
		for _, it := range level.Items(lvl) {
			content[it.Name] += it.Count
		}
	}
	for name, n := range sol.RequiredItems {
		assert.GreaterOrEqual(t, content[name], n, "level content short of %s", name)
	}
	assert.Equal(t, sol.RequiredItems, placedCounts(sol))

	boss := sol.ExpectedWeapons[5]
	require.True(t, holds(boss, "Inferno Blaster"), "boss weapons: %v", boss)
	for _, w := range boss {
		if w.Name == "Inferno Blaster" {
			assert.Equal(t, types.ElementFire, w.Element)
			assert.Equal(t, types.TierAdvanced, w.Tier)
		}
	}

	hp, err := m.ResetPlayerHP(false)
	require.NoError(t, err)
	assert.Greater(t, hp, 0)
	require.NoError(t, m.ForwardPlay())
}

func TestDistribute_Deterministic(t *testing.T) {
	run := func() *Solution {
		m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		require.NoError(t, m.Distribute())
		return m.Solution()
	}
	a, b := run(), run()
	assert.Equal(t, a.Placements, b.Placements)
	assert.Equal(t, a.Noise, b.Noise)
	assert.Equal(t, a.TradeIns, b.TradeIns)
}

func TestDistribute_Twice(t *testing.T) {
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.NoError(t, m.Distribute())
	assert.ErrorIs(t, m.Distribute(), ErrDistributed)
}

func TestResetPlayerHP_BeforeDistribute(t *testing.T) {
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	_, err = m.ResetPlayerHP(false)
	assert.ErrorIs(t, err, ErrNotDistributed)
	assert.ErrorIs(t, m.ForwardPlay(), ErrNotDistributed)
}

func TestDistribute_Unsolvable(t *testing.T) {
	// Sword, enhancer and cloth must coexist before the final craft: 5 units.
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 4), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	err = m.Distribute()

	var unsolvable *UnsolvableConfigurationError
	require.True(t, errors.As(err, &unsolvable), "got %v", err)
	assert.Equal(t, types.ElementIce, unsolvable.Boss)
	assert.Equal(t, types.ElementFire, unsolvable.Element)
	assert.Equal(t, 4, unsolvable.Capacity)
	assert.False(t, unsolvable.Exceeded)
	assert.Nil(t, m.Solution())
}

func TestDistribute_TightButFeasible(t *testing.T) {
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 5), rand.New(rand.NewSource(3)))
	require.NoError(t, err)
	require.NoError(t, m.Distribute())
	for i, c := range m.Solution().RemainingCapacities {
		assert.GreaterOrEqual(t, c, 0, "level %d", i)
	}
	require.NoError(t, m.ForwardPlay())
}

func TestDistribute_NodeLimit(t *testing.T) {
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(3)), WithNodeLimit(1))
	require.NoError(t, err)

	var unsolvable *UnsolvableConfigurationError
	require.ErrorAs(t, m.Distribute(), &unsolvable)
	assert.True(t, unsolvable.Exceeded)
}

func TestRequired_StartingCredit(t *testing.T) {
	start, err := inventory.FromNames(10, "Flame Sword")
	require.NoError(t, err)
	m, err := New(easyLevels(), types.ElementIce, start, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		"Fire Essence":    2,
		"Magic Catalyst":  1,
		"Enchanted Cloth": 1,
	}, m.RequiredItems())
	assert.Equal(t, 1, start.Count("Flame Sword"), "starting inventory is not modified")

	require.NoError(t, m.Distribute())
	_, err = m.ResetPlayerHP(false)
	require.NoError(t, err)
	require.NoError(t, m.ForwardPlay())
}

func TestRequired_OffChainNotCredited(t *testing.T) {
	// The dagger's prototype is locked in an ICE weapon.
	start, err := inventory.FromNames(10, "Frost Dagger")
	require.NoError(t, err)
	m, err := New(easyLevels(), types.ElementIce, start, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Equal(t, 1, m.RequiredItems()["Weapon Prototype"])
	assert.Len(t, m.StartingWeapons(), 1)
}

func TestRequired_StartingTargetNeedsNothing(t *testing.T) {
	start, err := inventory.FromNames(10, "Inferno Blaster")
	require.NoError(t, err)
	m, err := New(easyLevels(), types.ElementIce, start, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	assert.Empty(t, m.RequiredItems())
	require.NoError(t, m.Distribute())
	assert.Empty(t, m.Solution().Placements)
	for i, w := range m.Solution().ExpectedWeapons {
		assert.True(t, holds(w, "Inferno Blaster"), "level %d", i)
	}
}

func TestNoise_NeverRequired(t *testing.T) {
	m, err := New(easyLevels(), types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	require.NoError(t, m.Distribute())
	sol := m.Solution()
	require.NotEmpty(t, sol.Noise)
	for _, n := range sol.Noise {
		assert.Zero(t, sol.RequiredItems[n.Item], "noise %s collides with a required item", n.Item)
		assert.NotEqual(t, "Fire Essence", n.Item)
	}
	for _, tr := range sol.TradeIns {
		assert.Zero(t, sol.RequiredItems[tr.Item])
		assert.Less(t, tr.Source, tr.Shop)
	}
}

func TestShop_TradeInCarried(t *testing.T) {
	// Two growth levels, one single-enemy combat level and the shop hold
	// exactly six units, so the shop must sell one and be priced from the
	// combat level just before it.
	levels := []*types.Level{
		{Index: 0, Type: types.LevelGrowth},
		{Index: 1, Type: types.LevelGrowth},
		{Index: 2, Type: types.LevelCombat, Enemies: []types.Enemy{{ID: "bat", Name: "Shade Bat", Element: types.ElementDark, HP: 12, Attack: 3}}},
		{Index: 3, Type: types.LevelShop},
		{Index: 4, Type: types.LevelBoss, Enemies: []types.Enemy{{ID: "wyrm", Name: "Glacial Wyrm", Element: types.ElementIce, HP: 60, Attack: 5}}},
	}
	m, err := New(levels, types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(2)))
	require.NoError(t, err)
	require.NoError(t, m.Distribute())
	sol := m.Solution()

	require.Len(t, sol.TradeIns, 1)
	tr := sol.TradeIns[0]
	assert.Equal(t, 3, tr.Shop)
	assert.Equal(t, 2, tr.Source, "latest eligible level in the look-back range")
	assert.Len(t, levels[3].ForSale, countNoise(sol, 3)+1)
	for k := tr.Source; k < tr.Shop; k++ {
		assert.True(t, holds(sol.ExpectedInventory[k], tr.Item), "level %d carries the trade-in", k)
	}
	require.NoError(t, m.ForwardPlay())
}

func TestShop_TradeInNeverCrafted(t *testing.T) {
	// The prototype is in hand from the start and any off-chain essence
	// would turn it into the wrong standard weapon, so the trade-in may
	// only ride once the prototype is spent. Five slots for five units
	// force the shop to sell one.
	bat := types.Enemy{ID: "bat", Name: "Shade Bat", Element: types.ElementDark, HP: 12, Attack: 3}
	for seed := int64(0); seed < 30; seed++ {
		levels := []*types.Level{
			{Index: 0, Type: types.LevelGrowth},
			{Index: 1, Type: types.LevelCombat, Enemies: []types.Enemy{bat}},
			{Index: 2, Type: types.LevelCombat, Enemies: []types.Enemy{bat}},
			{Index: 3, Type: types.LevelShop},
			{Index: 4, Type: types.LevelBoss, Enemies: []types.Enemy{{ID: "wyrm", Name: "Glacial Wyrm", Element: types.ElementIce, HP: 60, Attack: 5}}},
		}
		start, err := inventory.New(10, recipe.MustItem(recipe.WeaponPrototype, 1))
		require.NoError(t, err)
		m, err := New(levels, types.ElementIce, start, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		require.NoError(t, m.Distribute(), "seed %d", seed)
		sol := m.Solution()

		require.Len(t, sol.TradeIns, 1, "seed %d", seed)
		tr := sol.TradeIns[0]
		for k := tr.Source; k < tr.Shop; k++ {
			assert.False(t, holds(sol.ExpectedInventory[k], recipe.WeaponPrototype),
				"seed %d: prototype still loose at level %d next to %s", seed, k, tr.Item)
		}
		assert.True(t, holds(sol.ExpectedWeapons[3], "Inferno Blaster"), "seed %d", seed)

		_, err = m.ResetPlayerHP(false)
		require.NoError(t, err)
		require.NoError(t, m.ForwardPlay(), "seed %d", seed)
	}
}

func TestGeneratedRuns_TradeInsCarriedAsItems(t *testing.T) {
	content := level.DefaultContent()
	withTradeIn := 0
	for _, name := range content.PresetNames() {
		preset, err := content.Preset(name)
		require.NoError(t, err)
		for seed := int64(0); seed < 150; seed++ {
			rng := rand.New(rand.NewSource(seed))
			levels, boss, err := level.Generate(preset, content, rng)
			require.NoError(t, err)
			m, err := New(levels, boss, &inventory.Inventory{Capacity: preset.Capacity}, rng)
			require.NoError(t, err)
			err = m.Distribute()
			var unsolvable *UnsolvableConfigurationError
			if errors.As(err, &unsolvable) {
				continue
			}
			require.NoError(t, err)
			sol := m.Solution()
			if len(sol.TradeIns) > 0 {
				withTradeIn++
			}

			// Pick every item up in level order with the trade-ins in hand.
			inv := &inventory.Inventory{Capacity: preset.Capacity}
			for i := range levels {
				for _, tr := range sol.TradeIns {
					if tr.Shop == i {
						require.NoError(t, inv.Remove(tr.Item, 1), "%s seed %d: trade-in %s lost before level %d", name, seed, tr.Item, i)
					}
				}
				for _, p := range sol.Placements {
					if p.Level == i && !p.TradeIn {
						require.NoError(t, inv.Add(recipe.MustItem(p.Item, 1)))
						_, err := inv.TryAllPossibleCrafts()
						require.NoError(t, err)
					}
				}
				for _, tr := range sol.TradeIns {
					if tr.Source == i {
						require.NoError(t, inv.Add(recipe.MustItem(tr.Item, 1)))
						_, err := inv.TryAllPossibleCrafts()
						require.NoError(t, err)
					}
				}
			}
			assert.Equal(t, 1, inv.Count(sol.Target), "%s seed %d: target never crafted", name, seed)

			_, err = m.ResetPlayerHP(false)
			require.NoError(t, err)
			require.NoError(t, m.ForwardPlay(), "%s seed %d", name, seed)
		}
	}
	assert.Positive(t, withTradeIn, "no generated run priced a shop item")
}

func countNoise(sol *Solution, lvl int) int {
	n := 0
	for _, p := range sol.Noise {
		if p.Level == lvl {
			n++
		}
	}
	return n
}

func TestResetPlayerHP_ShuffleTakesWorst(t *testing.T) {
	levels := easyLevels(
		types.Enemy{ID: "a", Name: "Ember Imp", Element: types.ElementFire, HP: 14, Attack: 3},
		types.Enemy{ID: "b", Name: "Tide Crab", Element: types.ElementWater, HP: 18, Attack: 2},
	)
	m, err := New(levels, types.ElementIce, emptyStart(t, 10), rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	require.NoError(t, m.Distribute())

	sum, err := m.ResetPlayerHP(false)
	require.NoError(t, err)
	worst, err := m.ResetPlayerHP(true)
	require.NoError(t, err)

	var a, b int
	for _, e := range m.Solution().Encounters {
		switch e.Enemy {
		case "Ember Imp":
			a = e.Damage
		case "Tide Crab":
			b = e.Damage
		}
	}
	assert.Equal(t, sum-worst, min(a, b))
	require.NoError(t, m.ForwardPlay())
}

func TestGeneratedRuns_Properties(t *testing.T) {
	content := level.DefaultContent()
	names := content.PresetNames()
	rapid.Check(t, func(rt *rapid.T) {
		seed := rapid.Int64().Draw(rt, "seed")
		preset, err := content.Preset(rapid.SampledFrom(names).Draw(rt, "difficulty"))
		require.NoError(rt, err)

		rng := rand.New(rand.NewSource(seed))
		levels, boss, err := level.Generate(preset, content, rng)
		require.NoError(rt, err)
		start := &inventory.Inventory{Capacity: preset.Capacity}
		m, err := New(levels, boss, start, rng)
		require.NoError(rt, err)
		require.NoError(rt, m.Distribute())
		_, err = m.ResetPlayerHP(rapid.Bool().Draw(rt, "shuffle"))
		require.NoError(rt, err)
		sol := m.Solution()

		// Capacity invariant.
		for i, items := range sol.ExpectedInventory {
			w := 0
			for _, it := range items {
				w += it.Weight * it.Count
			}
			if w > preset.Capacity || sol.RemainingCapacities[i] < 0 {
				rt.Fatalf("level %d: weight %d, remaining %d, capacity %d", i, w, sol.RemainingCapacities[i], preset.Capacity)
			}
		}

		// Completeness.
		base, err := recipe.BaseMaterials(sol.Target)
		require.NoError(rt, err)
		assert.Equal(rt, base, placedCounts(sol))

		// Reachability by the final pre-boss level.
		last := len(levels) - 2
		assert.True(rt, holds(sol.ExpectedWeapons[last], sol.Target), "no %s before the boss", sol.Target)

		// HP sufficiency and the rest of forward play.
		require.NoError(rt, m.ForwardPlay())
	})
}
