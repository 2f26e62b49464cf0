package level

import (
	"math/rand"
	"testing"

	"github.com/nathoo/questforge/types"
)

func TestCapabilities(t *testing.T) {
	tests := []struct {
		lt   types.LevelType
		want Capability
	}{
		{types.LevelGrowth, HasCollectibles | HasContainers},
		{types.LevelCombat, HasEnemies},
		{types.LevelMiniboss, HasEnemies},
		{types.LevelBoss, HasEnemies},
		{types.LevelShop, HasShop},
		{"dungeon", 0},
	}
	for _, tt := range tests {
		if got := Capabilities(tt.lt); got != tt.want {
			t.Errorf("Capabilities(%q) = %b, want %b", tt.lt, got, tt.want)
		}
	}
	if !Capabilities(types.LevelGrowth).Has(HasContainers) {
		t.Error("growth should have containers")
	}
	if Capabilities(types.LevelShop).Has(HasEnemies) {
		t.Error("shop should not have enemies")
	}
}

func TestEligibleAndQuota(t *testing.T) {
	two := []types.Enemy{{Name: "a"}, {Name: "b"}}
	tests := []struct {
		lvl      types.Level
		eligible bool
		quota    int
	}{
		{types.Level{Type: types.LevelGrowth}, true, 2},
		{types.Level{Type: types.LevelCombat, Enemies: two}, true, 2},
		{types.Level{Type: types.LevelCombat}, false, 0},
		{types.Level{Type: types.LevelShop}, true, 1},
		{types.Level{Type: types.LevelMiniboss, Enemies: two[:1]}, false, 0},
		{types.Level{Type: types.LevelBoss, Enemies: two[:1]}, false, 0},
	}
	for _, tt := range tests {
		lvl := tt.lvl
		if got := Eligible(&lvl); got != tt.eligible {
			t.Errorf("%s: Eligible = %v", lvl.Type, got)
		}
		if tt.eligible {
			if got := SlotQuota(&lvl); got != tt.quota {
				t.Errorf("%s: SlotQuota = %d, want %d", lvl.Type, got, tt.quota)
			}
		}
	}
}

func TestParseType(t *testing.T) {
	lt, err := ParseType(" Shop ")
	if err != nil || lt != types.LevelShop {
		t.Fatalf("got %q, %v", lt, err)
	}
	if _, err := ParseType("tavern"); err == nil {
		t.Error("expected error")
	}
}

func TestItems_AllSurfaces(t *testing.T) {
	price := types.Item{Name: "Ice Essence", Count: 1}
	l := &types.Level{
		Collectibles: []types.Item{{Name: "Fire Essence", Count: 1}},
		Containers:   []types.Container{{Kind: "chest", Items: []types.Item{{Name: "Magic Catalyst", Count: 1}}}},
		Enemies:      []types.Enemy{{Drops: []types.Item{{Name: "Enchanted Cloth", Count: 1}}}},
		ForSale:      []types.Offer{{Item: types.Item{Name: "Weapon Prototype", Count: 1}, Price: &price}},
	}
	if got := len(Items(l)); got != 4 {
		t.Errorf("expected 4 items, got %d", got)
	}
}

func TestPreset_Validate(t *testing.T) {
	for _, name := range DefaultContent().PresetNames() {
		p, _ := DefaultContent().Preset(name)
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	bad := []Preset{
		{Name: "empty", Capacity: 5, MinEnemies: 1, MaxEnemies: 1},
		{Name: "noboss", Sequence: []types.LevelType{types.LevelGrowth}, Capacity: 5, MinEnemies: 1, MaxEnemies: 1},
		{Name: "early", Sequence: []types.LevelType{types.LevelBoss, types.LevelGrowth}, Capacity: 5, MinEnemies: 1, MaxEnemies: 1},
		{Name: "two", Sequence: []types.LevelType{types.LevelBoss, types.LevelBoss}, Capacity: 5, MinEnemies: 1, MaxEnemies: 1},
		{Name: "cap", Sequence: []types.LevelType{types.LevelBoss}, MinEnemies: 1, MaxEnemies: 1},
		{Name: "range", Sequence: []types.LevelType{types.LevelBoss}, Capacity: 5, MinEnemies: 3, MaxEnemies: 1},
		{Name: "type", Sequence: []types.LevelType{"tavern", types.LevelBoss}, Capacity: 5, MinEnemies: 1, MaxEnemies: 1},
	}
	for _, p := range bad {
		if err := p.Validate(); err == nil {
			t.Errorf("%s: expected validation error", p.Name)
		}
	}
}

func TestContent_PresetLookup(t *testing.T) {
	c := DefaultContent()
	p, err := c.Preset("easy")
	if err != nil {
		t.Fatal(err)
	}
	if p.Capacity != 10 || len(p.Sequence) != 6 {
		t.Errorf("unexpected EASY preset: %+v", p)
	}
	if _, err := c.Preset("nightmare"); err == nil {
		t.Error("expected unknown difficulty error")
	}
}

func TestContent_Merge(t *testing.T) {
	c := DefaultContent()
	n := len(c.Enemies)
	c.Merge(&Content{
		Presets: map[string]Preset{"nightmare": {Name: "NIGHTMARE", Sequence: []types.LevelType{types.LevelBoss}, Capacity: 6, MinEnemies: 1, MaxEnemies: 1}},
		Enemies: []types.Enemy{
			{ID: "ember_imp", Name: "Ember Imp", Element: types.ElementFire, HP: 99, Attack: 1},
			{ID: "sand_wraith", Name: "Sand Wraith", Element: types.ElementEarth, HP: 10, Attack: 2},
		},
	})
	if _, err := c.Preset("NIGHTMARE"); err != nil {
		t.Error(err)
	}
	if len(c.Enemies) != n+1 {
		t.Errorf("expected %d enemies, got %d", n+1, len(c.Enemies))
	}
	for _, e := range c.Enemies {
		if e.ID == "ember_imp" && e.HP != 99 {
			t.Errorf("ember_imp not replaced: %+v", e)
		}
	}
	c.Merge(nil)
}

func TestElite(t *testing.T) {
	base := DefaultContent().Enemies[0]
	e := Elite(base)
	if e.HP != base.HP*2 || e.Attack != base.Attack+2 {
		t.Errorf("unexpected elite stats: %+v", e)
	}
	if e.Element != base.Element {
		t.Error("elite keeps its element")
	}
}

func TestGenerate_FollowsPreset(t *testing.T) {
	c := DefaultContent()
	for _, name := range c.PresetNames() {
		p, _ := c.Preset(name)
		levels, boss, err := Generate(p, c, rand.New(rand.NewSource(42)))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(levels) != len(p.Sequence) {
			t.Fatalf("%s: %d levels, want %d", name, len(levels), len(p.Sequence))
		}
		for i, l := range levels {
			if l.Type != p.Sequence[i] || l.Index != i {
				t.Errorf("%s level %d: got %s/%d", name, i, l.Type, l.Index)
			}
			switch l.Type {
			case types.LevelCombat:
				if n := len(l.Enemies); n < p.MinEnemies || n > p.MaxEnemies {
					t.Errorf("%s level %d: %d enemies", name, i, n)
				}
			case types.LevelMiniboss:
				if len(l.Enemies) != 1 || l.Enemies[0].Name[:6] != "Elite " {
					t.Errorf("%s level %d: bad miniboss %+v", name, i, l.Enemies)
				}
			case types.LevelBoss:
				if len(l.Enemies) != 1 || l.Enemies[0].Element != boss {
					t.Errorf("%s level %d: boss mismatch", name, i)
				}
			default:
				if len(l.Enemies) != 0 {
					t.Errorf("%s level %d: unexpected enemies", name, i)
				}
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	c := DefaultContent()
	p, _ := c.Preset("HARD")
	a, ba, _ := Generate(p, c, rand.New(rand.NewSource(9)))
	b, bb, _ := Generate(p, c, rand.New(rand.NewSource(9)))
	if ba != bb {
		t.Fatalf("boss differs: %s vs %s", ba, bb)
	}
	for i := range a {
		if len(a[i].Enemies) != len(b[i].Enemies) {
			t.Fatalf("level %d differs", i)
		}
		for j := range a[i].Enemies {
			if a[i].Enemies[j].ID != b[i].Enemies[j].ID {
				t.Fatalf("level %d enemy %d differs", i, j)
			}
		}
	}
}

func TestGenerate_InstancesDoNotShare(t *testing.T) {
	c := DefaultContent()
	p, _ := c.Preset("HARD")
	levels, _, err := Generate(p, c, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	levels[1].Enemies[0].Drops = append(levels[1].Enemies[0].Drops, types.Item{Name: "x", Count: 1})
	for _, e := range c.Enemies {
		if len(e.Drops) != 0 {
			t.Fatalf("bestiary entry %s was mutated", e.ID)
		}
	}
}

func TestGenerate_Errors(t *testing.T) {
	c := DefaultContent()
	p, _ := c.Preset("EASY")
	if _, _, err := Generate(p, &Content{}, rand.New(rand.NewSource(1))); err != ErrNoBoss {
		t.Errorf("expected ErrNoBoss, got %v", err)
	}
	noRegular := &Content{Bosses: c.Bosses}
	if _, _, err := Generate(p, noRegular, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected error for missing regular enemies")
	}
	if _, _, err := Generate(Preset{Name: "bad"}, c, rand.New(rand.NewSource(1))); err == nil {
		t.Error("expected validation error")
	}
}
