package level

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nathoo/questforge/types"
)

// Preset is a difficulty: the level sequence, the inventory capacity and
// the enemy count range for combat levels.
type Preset struct {
	Name       string
	Sequence   []types.LevelType
	Capacity   int
	MinEnemies int
	MaxEnemies int
}

// Validate checks that the sequence ends in exactly one boss level and
// that the numeric fields are usable.
func (p Preset) Validate() error {
	var errs []error
	if len(p.Sequence) == 0 {
		errs = append(errs, fmt.Errorf("difficulty %q: empty sequence", p.Name))
	}
	bosses := 0
	for i, t := range p.Sequence {
		if Capabilities(t) == 0 {
			errs = append(errs, fmt.Errorf("difficulty %q: level %d has unknown type %q", p.Name, i+1, t))
		}
		if t == types.LevelBoss {
			bosses++
		}
	}
	if n := len(p.Sequence); n > 0 && (bosses != 1 || p.Sequence[n-1] != types.LevelBoss) {
		errs = append(errs, fmt.Errorf("difficulty %q: sequence must end with its only boss level", p.Name))
	}
	if p.Capacity <= 0 {
		errs = append(errs, fmt.Errorf("difficulty %q: capacity must be positive", p.Name))
	}
	if p.MinEnemies < 1 || p.MaxEnemies < p.MinEnemies {
		errs = append(errs, fmt.Errorf("difficulty %q: bad enemy range %d-%d", p.Name, p.MinEnemies, p.MaxEnemies))
	}
	return errors.Join(errs...)
}

// Content is everything generation draws from.
type Content struct {
	Presets map[string]Preset
	Enemies []types.Enemy
	Bosses  []types.Enemy
}

// Preset looks up a difficulty by case-insensitive name.
func (c *Content) Preset(name string) (Preset, error) {
	p, ok := c.Presets[strings.ToUpper(name)]
	if !ok {
		return Preset{}, fmt.Errorf("unknown difficulty %q (have %s)", name, strings.Join(c.PresetNames(), ", "))
	}
	return p, nil
}

// PresetNames returns the difficulty names, sorted.
func (c *Content) PresetNames() []string {
	names := make([]string, 0, len(c.Presets))
	for n := range c.Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Merge overlays o onto c. Presets replace by name; enemies and bosses
// replace by ID or are appended.
func (c *Content) Merge(o *Content) {
	if o == nil {
		return
	}
	if c.Presets == nil {
		c.Presets = map[string]Preset{}
	}
	for name, p := range o.Presets {
		c.Presets[strings.ToUpper(name)] = p
	}
	c.Enemies = mergeEnemies(c.Enemies, o.Enemies)
	c.Bosses = mergeEnemies(c.Bosses, o.Bosses)
}

func mergeEnemies(base, over []types.Enemy) []types.Enemy {
	for _, e := range over {
		replaced := false
		for i := range base {
			if base[i].ID == e.ID {
				base[i] = e
				replaced = true
				break
			}
		}
		if !replaced {
			base = append(base, e)
		}
	}
	return base
}

// Elite returns the miniboss variant of a regular enemy.
func Elite(e types.Enemy) types.Enemy {
	e.ID = "elite_" + e.ID
	e.Name = "Elite " + e.Name
	e.HP *= 2
	e.Attack += 2
	e.Pattern = append([]types.Action(nil), e.Pattern...)
	e.Drops = nil
	return e
}

func atk(power int) types.Action { return types.Action{Kind: types.ActionAttack, Power: power} }

var (
	defend = types.Action{Kind: types.ActionDefend}
	charge = types.Action{Kind: types.ActionCharge}
)

// DefaultContent returns the built-in presets and bestiary. Each call
// returns a fresh copy.
func DefaultContent() *Content {
	g, c, s, m, b := types.LevelGrowth, types.LevelCombat, types.LevelShop, types.LevelMiniboss, types.LevelBoss
	return &Content{
		Presets: map[string]Preset{
			"EASY": {
				Name:       "EASY",
				Sequence:   []types.LevelType{g, g, c, g, s, b},
				Capacity:   10,
				MinEnemies: 1,
				MaxEnemies: 2,
			},
			"MEDIUM": {
				Name:       "MEDIUM",
				Sequence:   []types.LevelType{g, c, g, s, c, m, g, c, b},
				Capacity:   8,
				MinEnemies: 1,
				MaxEnemies: 3,
			},
			"HARD": {
				Name:       "HARD",
				Sequence:   []types.LevelType{g, c, c, s, g, m, c, g, c, s, c, b},
				Capacity:   7,
				MinEnemies: 2,
				MaxEnemies: 3,
			},
		},
		Enemies: []types.Enemy{
			{ID: "ember_imp", Name: "Ember Imp", Element: types.ElementFire, HP: 14, Attack: 3, Pattern: []types.Action{atk(0), charge}},
			{ID: "tide_crab", Name: "Tide Crab", Element: types.ElementWater, HP: 18, Attack: 2, Pattern: []types.Action{defend, atk(1)}},
			{ID: "mud_golem", Name: "Mud Golem", Element: types.ElementEarth, HP: 20, Attack: 2, Pattern: []types.Action{atk(0), defend}},
			{ID: "gust_sprite", Name: "Gust Sprite", Element: types.ElementAir, HP: 12, Attack: 3},
			{ID: "frost_wolf", Name: "Frost Wolf", Element: types.ElementIce, HP: 16, Attack: 3, Pattern: []types.Action{atk(0), atk(1), defend}},
			{ID: "spark_beetle", Name: "Spark Beetle", Element: types.ElementLightning, HP: 12, Attack: 2, Pattern: []types.Action{charge, atk(1)}},
			{ID: "glimmer_wisp", Name: "Glimmer Wisp", Element: types.ElementLight, HP: 14, Attack: 2},
			{ID: "shade_bat", Name: "Shade Bat", Element: types.ElementDark, HP: 12, Attack: 3, Pattern: []types.Action{atk(0), atk(0), defend}},
		},
		Bosses: []types.Enemy{
			{ID: "pyre_drake", Name: "Pyre Drake", Element: types.ElementFire, HP: 60, Attack: 5, Pattern: bossPattern()},
			{ID: "abyssal_leviathan", Name: "Abyssal Leviathan", Element: types.ElementWater, HP: 64, Attack: 4, Pattern: bossPattern()},
			{ID: "mountain_titan", Name: "Mountain Titan", Element: types.ElementEarth, HP: 70, Attack: 4, Pattern: bossPattern()},
			{ID: "storm_roc", Name: "Storm Roc", Element: types.ElementAir, HP: 56, Attack: 5, Pattern: bossPattern()},
			{ID: "glacial_wyrm", Name: "Glacial Wyrm", Element: types.ElementIce, HP: 60, Attack: 5, Pattern: bossPattern()},
			{ID: "thunder_colossus", Name: "Thunder Colossus", Element: types.ElementLightning, HP: 64, Attack: 5, Pattern: bossPattern()},
			{ID: "solar_seraph", Name: "Solar Seraph", Element: types.ElementLight, HP: 58, Attack: 5, Pattern: bossPattern()},
			{ID: "void_lich", Name: "Void Lich", Element: types.ElementDark, HP: 58, Attack: 6, Pattern: bossPattern()},
		},
	}
}

func bossPattern() []types.Action {
	return []types.Action{atk(0), charge, atk(2), defend}
}
