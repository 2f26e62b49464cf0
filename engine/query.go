package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/parser"
	"github.com/nathoo/questforge/types"
)

// Query answers one inspector command about the run.
func (g *Game) Query(input string) types.Result {
	var result types.Result
	cmd := parser.Parse(input)

	switch cmd.Verb {
	case "":
		result.Output = []string{"Type 'help' for the list of commands."}
	case "info":
		result.Output = g.info()
	case "levels":
		result.Output = g.levels()
	case "level":
		if cmd.Arg == "" {
			result.Output = []string{"Which level? Usage: level <n>"}
			break
		}
		n, ok := cmd.Level()
		if !ok || n < 1 || n > len(g.Levels) {
			result.Output = []string{fmt.Sprintf("No level %q. Levels run 1-%d.", cmd.Arg, len(g.Levels))}
			break
		}
		result.Output = g.level(n - 1)
		if g.Trace {
			result.Trace = g.levelTrace(n - 1)
		}
	case "solution":
		result.Output = g.solution()
		if g.Trace {
			result.Trace = g.searchTrace()
		}
	case "hp":
		result.Output = g.hp()
	case "verify":
		if err := g.Verify(); err != nil {
			result.Output = []string{"Verification FAILED: " + err.Error()}
		} else {
			result.Output = []string{fmt.Sprintf("Run verified: every fight is won with %d HP and the %s is in hand before the boss.",
				g.Player.MaxHP, g.Solution.Target)}
		}
	case "help":
		result.Output = queryHelp()
	default:
		result.Output = []string{fmt.Sprintf("Unknown command %q. Type 'help' for the list of commands.", cmd.Verb)}
	}
	return result
}

func (g *Game) info() []string {
	return []string{
		fmt.Sprintf("Run %s", g.ID),
		fmt.Sprintf("Seed %d, difficulty %s, %d levels, capacity %d", g.Seed, g.Difficulty, len(g.Levels), g.Player.Inventory.Capacity),
		fmt.Sprintf("Generated in %d attempt(s), shuffle-enemy %t", g.Attempts, g.ShuffleEnemy),
		fmt.Sprintf("Starting items: %s", formatItems(g.Player.Inventory.Items)),
	}
}

func (g *Game) levels() []string {
	out := make([]string, 0, len(g.Levels))
	for i, l := range g.Levels {
		line := fmt.Sprintf("%2d. %-8s %s", i+1, l.Type, l.Name)
		if len(l.Enemies) > 0 {
			line += fmt.Sprintf(" | enemies: %d", len(l.Enemies))
		}
		if n := len(level.Items(l)); n > 0 {
			line += fmt.Sprintf(" | items: %d", n)
		}
		out = append(out, line)
	}
	return out
}

func (g *Game) level(i int) []string {
	l := g.Levels[i]
	sol := g.Solution
	out := []string{fmt.Sprintf("%s (%s)", l.Name, l.Type)}

	if len(l.Collectibles) > 0 {
		out = append(out, "Collectibles: "+formatItems(l.Collectibles))
	}
	for _, c := range l.Containers {
		out = append(out, fmt.Sprintf("A %s holds: %s", c.Kind, formatItems(c.Items)))
	}
	for _, e := range l.Enemies {
		line := fmt.Sprintf("Enemy: %s [%s] HP %d ATK %d", e.Name, e.Element, e.HP, e.Attack)
		if len(e.Drops) > 0 {
			line += " drops " + formatItems(e.Drops)
		}
		out = append(out, line)
	}
	for _, o := range l.ForSale {
		price := "free"
		if o.Price != nil {
			price = o.Price.Name
		}
		out = append(out, fmt.Sprintf("For sale: %s for %s", o.Item.Name, price))
	}

	out = append(out,
		fmt.Sprintf("Expected weapons after this level: %s", formatItems(sol.ExpectedWeapons[i])),
		fmt.Sprintf("Expected inventory: %s", formatItems(sol.ExpectedInventory[i])),
		fmt.Sprintf("Remaining capacity: %d", sol.RemainingCapacities[i]),
	)
	return out
}

func (g *Game) levelTrace(i int) []string {
	var out []string
	for _, p := range g.Solution.Placements {
		if p.Level != i {
			continue
		}
		kind := "required"
		if p.TradeIn {
			kind = "trade-in"
		}
		out = append(out, fmt.Sprintf("[trace] %s %s -> %s", kind, p.Item, p.Where))
	}
	for _, p := range g.Solution.Noise {
		if p.Level == i {
			out = append(out, fmt.Sprintf("[trace] noise %s -> %s", p.Item, p.Where))
		}
	}
	return out
}

func (g *Game) solution() []string {
	sol := g.Solution
	names := make([]string, 0, len(sol.RequiredItems))
	for n := range sol.RequiredItems {
		names = append(names, n)
	}
	sort.Strings(names)
	req := make([]string, 0, len(names))
	for _, n := range names {
		req = append(req, fmt.Sprintf("%s x%d", n, sol.RequiredItems[n]))
	}

	out := []string{
		fmt.Sprintf("Boss element: %s", sol.Boss),
		fmt.Sprintf("Solution element: %s (%s)", sol.Element, sol.Target),
		"Required: " + strings.Join(req, ", "),
	}
	for _, p := range sol.Placements {
		if !p.TradeIn {
			out = append(out, fmt.Sprintf("  level %d: %s (%s)", p.Level+1, p.Item, p.Where))
		}
	}
	for _, t := range sol.TradeIns {
		out = append(out, fmt.Sprintf("  trade-in: %s from level %d, spent at level %d", t.Item, t.Source+1, t.Shop+1))
	}
	return out
}

func (g *Game) searchTrace() []string {
	return []string{
		fmt.Sprintf("[trace] search nodes: %d", g.Solution.Nodes),
		fmt.Sprintf("[trace] rng position: %d", g.RNG.Position()),
	}
}

func (g *Game) hp() []string {
	mode := "sum per encounter"
	if g.ShuffleEnemy {
		mode = "worst enemy per encounter"
	}
	out := []string{fmt.Sprintf("Player max HP: %d (%s)", g.Player.MaxHP, mode)}
	for _, e := range g.Solution.Encounters {
		weapon := e.Weapon
		if weapon == "" {
			weapon = "bare hands"
		}
		out = append(out, fmt.Sprintf("  level %d: %s with %s, %d turns, %d damage", e.Level+1, e.Enemy, weapon, e.Turns, e.Damage))
	}
	return out
}

func formatItems(items []types.Item) string {
	if len(items) == 0 {
		return "nothing"
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if it.Count > 1 {
			parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Count))
		} else {
			parts = append(parts, it.Name)
		}
	}
	return strings.Join(parts, ", ")
}

func queryHelp() []string {
	return []string{
		"Run commands:",
		"  info        Seed, difficulty and run ID",
		"  levels      List every level",
		"  level <n>   Show the content of level n",
		"  solution    Show the counter element and where its chain was placed",
		"  hp          Show the HP calibration per encounter",
		"  verify      Replay the run and check it is winnable",
		"  help        Show this help",
	}
}
