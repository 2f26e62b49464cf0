package solution

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	"github.com/nathoo/questforge/engine/inventory"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// tradeInWeight is the unit weight of every trade-in item (a basic essence).
const tradeInWeight = 1

// search is the mutable state of one backtracking placement.
type search struct {
	m         *Manager
	levels    []*types.Level
	inv       *inventory.Inventory
	remaining map[string]int
	names     []string

	// Per-level records. spare is capacity left when leaving a level net
	// of reserved trade-in weight; it drives the trade-in look-back.
	spare      []int
	weapons    [][]types.Item
	held       [][]types.Item
	capacities []int
	placed     [][]string
	source     []int    // trade-in source per shop level, -1 if none
	trade      []string // trade-in item per shop level

	failed   map[string]bool
	nodes    int
	exceeded bool
}

func newSearch(m *Manager) *search {
	n := len(m.levels)
	s := &search{
		m:          m,
		levels:     m.levels,
		inv:        m.start.Clone(),
		remaining:  m.RequiredItems(),
		names:      m.requiredNames(),
		spare:      make([]int, n),
		weapons:    make([][]types.Item, n),
		held:       make([][]types.Item, n),
		capacities: make([]int, n),
		placed:     make([][]string, n),
		source:     make([]int, n),
		trade:      make([]string, n),
		failed:     map[string]bool{},
	}
	for i := range s.source {
		s.source[i] = -1
	}
	return s
}

// visit explores placements from level idx, where used required units
// have already been placed in that level.
func (s *search) visit(idx, used int) (bool, error) {
	s.nodes++
	if s.nodes > s.m.nodeLimit {
		s.exceeded = true
		return false, nil
	}

	if s.done() {
		if s.inv.Count(s.m.target) == 0 {
			return false, nil
		}
		s.recordFrom(idx)
		return true, nil
	}
	if idx >= len(s.levels) {
		return false, nil
	}

	key := s.key(idx, used)
	if s.failed[key] {
		return false, nil
	}

	lvl := s.levels[idx]
	if level.Eligible(lvl) && used < level.SlotQuota(lvl) {
		src, trade := -1, ""
		if lvl.Type == types.LevelShop {
			if src = s.tradeInSource(idx); src >= 0 {
				trade = s.pickTradeIn(src, idx)
			}
		}
		if lvl.Type != types.LevelShop || trade != "" {
			ok, err := s.tryCandidates(idx, used, src, trade)
			if ok || err != nil {
				return ok, err
			}
		}
	}

	// Skip branch: leave the level with what has been placed so far.
	s.record(idx)
	s.spare[idx] = s.inv.Spare()
	ok, err := s.visit(idx+1, 0)
	if ok || err != nil {
		return ok, err
	}

	s.failed[key] = true
	return false, nil
}

func (s *search) tryCandidates(idx, used, src int, trade string) (bool, error) {
	var cands []string
	for _, name := range s.names {
		if s.remaining[name] > 0 {
			cands = append(cands, name)
		}
	}
	s.m.rng.Shuffle(len(cands), func(i, j int) { cands[i], cands[j] = cands[j], cands[i] })

	for _, name := range cands {
		item, err := recipe.NewItem(name, 1)
		if err != nil {
			return false, err
		}
		if !s.inv.CanAdd(item.Weight) {
			continue
		}

		s.inv.Push()
		if err := s.inv.Add(item); err != nil {
			s.inv.Pop()
			return false, err
		}
		if _, err := s.inv.TryAllPossibleCrafts(); err != nil {
			s.inv.Pop()
			return false, err
		}
		s.remaining[name]--
		s.placed[idx] = append(s.placed[idx], name)
		if src >= 0 {
			s.reserve(src, idx, tradeInWeight)
			s.source[idx] = src
			s.trade[idx] = trade
		}

		ok, err := s.visit(idx, used+1)
		if ok || err != nil {
			return ok, err
		}

		if src >= 0 {
			s.reserve(src, idx, -tradeInWeight)
			s.source[idx] = -1
			s.trade[idx] = ""
		}
		s.placed[idx] = s.placed[idx][:len(s.placed[idx])-1]
		s.remaining[name]++
		s.inv.Pop()
	}
	return false, nil
}

// tradeInSource walks back from shop idx through the contiguous range of
// levels with spare capacity for a trade-in and returns the latest growth
// or combat level in it, or -1.
func (s *search) tradeInSource(idx int) int {
	for k := idx - 1; k >= 0; k-- {
		if s.spare[k] < tradeInWeight {
			return -1
		}
		l := s.levels[k]
		if l.Type == types.LevelGrowth || (l.Type == types.LevelCombat && len(l.Enemies) > 0) {
			return k
		}
	}
	return -1
}

// pickTradeIn draws a price for shop from the essences off the chain,
// keeping only one that can ride from src to shop without being crafted
// into anything or overflowing a pickup. It returns "" when none can.
func (s *search) pickTradeIn(src, shop int) string {
	pool := s.m.noisePool()
	s.m.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for _, name := range pool {
		if s.carriable(src, shop, name) {
			return name
		}
	}
	return ""
}

// carriable replays levels [src, shop) with every trade-in physically in
// hand, picking items up in the order a player would: required items
// first, then trade-ins, crafting after each. Every pickup must fit the
// capacity and every level exit must leave the recorded stacks plus the
// carried trade-ins, so no trade-in is ever consumed by a craft.
func (s *search) carriable(src, shop int, trade string) bool {
	entry := s.m.start.Snapshot()
	if src > 0 {
		entry = s.held[src-1]
	}
	inv := &inventory.Inventory{Items: append([]types.Item(nil), entry...), Capacity: s.m.start.Capacity}
	carried := map[string]int{}

	// Trade-ins taken before src and still owed to a shop after it.
	for j := src + 1; j < shop; j++ {
		if s.source[j] >= 0 && s.source[j] < src {
			if err := inv.Add(recipe.MustItem(s.trade[j], 1)); err != nil {
				return false
			}
			carried[s.trade[j]]++
		}
	}

	take := func(name string) bool {
		if err := inv.Add(recipe.MustItem(name, 1)); err != nil {
			return false
		}
		_, err := inv.TryAllPossibleCrafts()
		return err == nil
	}

	for k := src; k < shop; k++ {
		if s.source[k] >= 0 {
			if err := inv.Remove(s.trade[k], 1); err != nil {
				return false
			}
			carried[s.trade[k]]--
		}
		for _, name := range s.placed[k] {
			if !take(name) {
				return false
			}
		}
		for j := k + 1; j < shop; j++ {
			if s.source[j] == k {
				if !take(s.trade[j]) {
					return false
				}
				carried[s.trade[j]]++
			}
		}
		if k == src {
			if !take(trade) {
				return false
			}
			carried[trade]++
		}
		if !sameStacks(inv, carried, s.held[k]) {
			return false
		}
	}
	return true
}

// sameStacks reports whether inv, less the carried trade-ins, holds
// exactly want.
func sameStacks(inv *inventory.Inventory, carried map[string]int, want []types.Item) bool {
	got := inv.Counts()
	for name, n := range carried {
		got[name] -= n
		if got[name] == 0 {
			delete(got, name)
		}
	}
	return maps.Equal(got, (&inventory.Inventory{Items: want}).Counts())
}

// reserve charges w against the spare capacity of levels [from, to).
func (s *search) reserve(from, to, w int) {
	for k := from; k < to; k++ {
		s.spare[k] -= w
	}
}

func (s *search) done() bool {
	for _, n := range s.remaining {
		if n > 0 {
			return false
		}
	}
	return true
}

func (s *search) record(idx int) {
	s.weapons[idx] = s.inv.Weapons()
	s.held[idx] = s.inv.Snapshot()
	s.capacities[idx] = s.inv.Spare()
}

// recordFrom copies the final inventory to every level from idx on; a
// player who has collected everything keeps it for the rest of the run.
func (s *search) recordFrom(idx int) {
	for k := idx; k < len(s.levels); k++ {
		s.record(k)
		s.spare[k] = s.inv.Spare()
	}
}

// key identifies a search state. Of the history before idx only the
// contiguous run of levels a future shop could still draw a trade-in from
// matters, plus the level entering it: spare capacity capped at the number
// of shops ahead, and the stacks, pickups and trade-ins a later trade-in
// replay would walk through.
func (s *search) key(idx, used int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d|", idx, used)
	rem := make([]string, 0, len(s.remaining))
	for name, n := range s.remaining {
		if n > 0 {
			rem = append(rem, fmt.Sprintf("%s=%d", name, n))
		}
	}
	sort.Strings(rem)
	b.WriteString(strings.Join(rem, ","))
	b.WriteByte('|')
	b.WriteString(s.inv.Fingerprint())
	b.WriteByte('|')

	shops := 0
	for k := idx; k < len(s.levels); k++ {
		if s.levels[k].Type == types.LevelShop {
			shops++
		}
	}
	if shops == 0 {
		return b.String()
	}
	k := idx - 1
	for ; k >= 0 && s.spare[k] >= tradeInWeight; k-- {
		fmt.Fprintf(&b, "%d:%d:%s:%s:%s,", k, min(s.spare[k], shops*tradeInWeight),
			(&inventory.Inventory{Items: s.held[k]}).Fingerprint(),
			strings.Join(s.placed[k], "+"), s.trade[k])
	}
	if k >= 0 {
		fmt.Fprintf(&b, "%d:%s", k, (&inventory.Inventory{Items: s.held[k]}).Fingerprint())
	}
	return b.String()
}
