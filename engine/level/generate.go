package level

import (
	"errors"
	"fmt"

	"github.com/nathoo/questforge/types"
)

// ErrNoBoss is returned when content has no boss to draw.
var ErrNoBoss = errors.New("content has no bosses")

// Generate builds the level skeletons for preset p and draws the boss.
// Levels come back empty apart from their enemies; the solution manager
// fills their content surfaces.
func Generate(p Preset, c *Content, rng types.Rand) ([]*types.Level, types.Element, error) {
	if err := p.Validate(); err != nil {
		return nil, types.ElementNone, err
	}
	if len(c.Bosses) == 0 {
		return nil, types.ElementNone, ErrNoBoss
	}
	needsRegular := false
	for _, t := range p.Sequence {
		if t == types.LevelCombat || t == types.LevelMiniboss {
			needsRegular = true
		}
	}
	if needsRegular && len(c.Enemies) == 0 {
		return nil, types.ElementNone, fmt.Errorf("difficulty %q needs regular enemies, content has none", p.Name)
	}

	boss := c.Bosses[rng.Intn(len(c.Bosses))]

	levels := make([]*types.Level, len(p.Sequence))
	for i, t := range p.Sequence {
		l := &types.Level{Index: i, Type: t, Name: levelName(t, i)}
		switch t {
		case types.LevelCombat:
			n := p.MinEnemies + rng.Intn(p.MaxEnemies-p.MinEnemies+1)
			for j := 0; j < n; j++ {
				e := c.Enemies[rng.Intn(len(c.Enemies))]
				l.Enemies = append(l.Enemies, instance(e, i, j))
			}
		case types.LevelMiniboss:
			e := c.Enemies[rng.Intn(len(c.Enemies))]
			l.Enemies = []types.Enemy{instance(Elite(e), i, 0)}
		case types.LevelBoss:
			l.Enemies = []types.Enemy{instance(boss, i, 0)}
		}
		levels[i] = l
	}
	return levels, boss.Element, nil
}

// instance copies e for placement so levels never share pattern or drop
// slices.
func instance(e types.Enemy, levelIdx, slot int) types.Enemy {
	e.ID = fmt.Sprintf("%s#%d.%d", e.ID, levelIdx+1, slot+1)
	e.Pattern = append([]types.Action(nil), e.Pattern...)
	e.Drops = nil
	return e
}

func levelName(t types.LevelType, i int) string {
	switch t {
	case types.LevelGrowth:
		return fmt.Sprintf("Level %d: Gathering Grounds", i+1)
	case types.LevelCombat:
		return fmt.Sprintf("Level %d: Skirmish", i+1)
	case types.LevelMiniboss:
		return fmt.Sprintf("Level %d: Elite Den", i+1)
	case types.LevelShop:
		return fmt.Sprintf("Level %d: Trading Post", i+1)
	case types.LevelBoss:
		return fmt.Sprintf("Level %d: Boss Lair", i+1)
	default:
		return fmt.Sprintf("Level %d", i+1)
	}
}
