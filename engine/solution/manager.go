// Package solution is the resolver. A Manager picks the element that
// counters the boss, works out which base materials the player still
// needs, places them across the levels so that a simulated inventory
// never overflows, writes them into the level content, and finally sizes
// player HP by replaying the expected weapons through combat.
package solution

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/nathoo/questforge/engine/combat"
	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/engine/inventory"
	"github.com/nathoo/questforge/engine/recipe"
	"github.com/nathoo/questforge/types"
)

// DefaultNodeLimit bounds the placement search.
const DefaultNodeLimit = 200_000

// ErrDistributed is returned when Distribute runs twice on one Manager.
var ErrDistributed = errors.New("required items already distributed")

// Placement records one item written into a level.
type Placement struct {
	Level int
	Item  string
	Where string // "collectible", "container", "drop" or "shop"

	// TradeIn marks the price of a shop placement rather than a chain item.
	TradeIn bool
}

// TradeIn is the price of a shop placement and where it can be found.
type TradeIn struct {
	Shop   int
	Source int
	Item   string
}

// Encounter is the calibrated outcome of one enemy fight.
type Encounter struct {
	Level  int
	Enemy  string
	Weapon string // empty when unarmed
	Turns  int
	Damage int
	Won    bool
}

// Solution is the resolver's write-once output.
type Solution struct {
	Boss                types.Element
	Element             types.Element
	Target              string
	RequiredItems       map[string]int
	ExpectedWeapons     [][]types.Item
	ExpectedInventory   [][]types.Item
	RemainingCapacities []int
	Placements          []Placement
	TradeIns            []TradeIn
	Noise               []Placement
	Encounters          []Encounter
	PlayerMaxHP         int
	Nodes               int
}

// Manager resolves one run.
type Manager struct {
	levels    []*types.Level
	boss      types.Element
	start     *inventory.Inventory // after the player's own crafts
	rng       types.Rand
	log       *slog.Logger
	chart     element.Chart
	battle    combat.Model
	nodeLimit int

	element  types.Element
	target   string
	required map[string]int
	chain    map[string]bool
	shuffle  bool
	sol      *Solution
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithChart replaces the element chart used for counter selection.
func WithChart(c element.Chart) Option {
	return func(m *Manager) { m.chart = c }
}

// WithBattle replaces the combat model used for HP calibration.
func WithBattle(b combat.Model) Option {
	return func(m *Manager) { m.battle = b }
}

// WithNodeLimit bounds the number of search nodes before giving up.
func WithNodeLimit(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.nodeLimit = n
		}
	}
}

// New chooses the solution element and computes the required items. The
// starting inventory is not modified; its capacity is the run capacity.
func New(levels []*types.Level, boss types.Element, start *inventory.Inventory, rng types.Rand, opts ...Option) (*Manager, error) {
	if len(levels) == 0 {
		return nil, fmt.Errorf("solution: no levels")
	}
	if start == nil {
		return nil, fmt.Errorf("solution: nil starting inventory")
	}
	m := &Manager{
		levels:    levels,
		boss:      boss,
		rng:       rng,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		chart:     element.Default,
		battle:    combat.Default,
		nodeLimit: DefaultNodeLimit,
	}
	for _, o := range opts {
		o(m)
	}

	m.start = start.Clone()
	if _, err := m.start.TryAllPossibleCrafts(); err != nil {
		return nil, fmt.Errorf("solution: starting crafts: %w", err)
	}

	m.element = m.chart.Counter(boss, rng)
	m.target = recipe.AdvancedWeapons[m.element]
	if err := m.computeRequired(); err != nil {
		return nil, err
	}
	m.log.Info("solution element chosen",
		"boss", boss, "element", m.element, "target", m.target, "required", m.required)
	return m, nil
}

// computeRequired subtracts what the starting inventory already
// contributes to the target's chain from the chain's base materials.
func (m *Manager) computeRequired() error {
	base, err := recipe.BaseMaterials(m.target)
	if err != nil {
		return fmt.Errorf("solution: %w", err)
	}
	m.chain = chainOf(m.target)

	// Only stacks on the target's chain count: a Frost Dagger's prototype
	// cannot be recovered for a Flame Sword.
	onChain := &inventory.Inventory{Capacity: m.start.Capacity}
	for _, it := range m.start.Items {
		if m.chain[it.Name] {
			onChain.Items = append(onChain.Items, it)
		}
	}
	credit := onChain.BaseComponents()

	m.required = map[string]int{}
	for name, n := range base {
		n -= credit[name]
		if n > 0 {
			m.required[name] = n
		}
	}
	return nil
}

func chainOf(target string) map[string]bool {
	out := map[string]bool{}
	var walk func(string)
	walk = func(name string) {
		out[name] = true
		ing, _ := recipe.Lookup(name)
		for _, in := range ing {
			walk(in.Item)
		}
	}
	walk(target)
	return out
}

// Element returns the chosen solution element.
func (m *Manager) Element() types.Element { return m.element }

// Target returns the advanced weapon the chain builds toward.
func (m *Manager) Target() string { return m.target }

// RequiredItems returns a copy of the required multiset.
func (m *Manager) RequiredItems() map[string]int {
	out := make(map[string]int, len(m.required))
	for k, v := range m.required {
		out[k] = v
	}
	return out
}

// StartingWeapons returns the weapons held before the first level.
func (m *Manager) StartingWeapons() []types.Item {
	return m.start.Weapons()
}

// Solution returns the resolved state, or nil before Distribute succeeds.
func (m *Manager) Solution() *Solution { return m.sol }

func (m *Manager) requiredNames() []string {
	names := make([]string, 0, len(m.required))
	for n := range m.required {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
