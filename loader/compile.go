// Package loader loads Lua content packs (bestiary entries and difficulty
// presets) into Go structs at startup. The Lua VM is discarded after
// loading, so there is no Lua at generation time.
package loader

import (
	"fmt"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/questforge/engine/element"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/types"
)

// rawEnemy holds an enemy or boss table before compilation.
type rawEnemy struct {
	id    string
	table *lua.LTable
}

// rawDifficulty holds a difficulty table before compilation.
type rawDifficulty struct {
	name  string
	table *lua.LTable
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// compile converts the collected tables into content. Fields that cannot be
// converted at all are reported as errors on the returned ValidationError.
func compile(coll *collector) (*level.Content, *ValidationError) {
	ve := &ValidationError{}
	c := &level.Content{Presets: map[string]level.Preset{}}

	for _, raw := range coll.enemies {
		c.Enemies = append(c.Enemies, compileEnemy("enemy", raw, ve))
	}
	for _, raw := range coll.bosses {
		c.Bosses = append(c.Bosses, compileEnemy("boss", raw, ve))
	}
	for _, raw := range coll.difficulties {
		p := compileDifficulty(raw, ve)
		if _, dup := c.Presets[p.Name]; dup {
			ve.Errors = append(ve.Errors, fmt.Sprintf("difficulty %q defined twice", p.Name))
		}
		c.Presets[p.Name] = p
	}
	return c, ve
}

func compileEnemy(kind string, raw rawEnemy, ve *ValidationError) types.Enemy {
	tbl := raw.table
	e := types.Enemy{
		ID:     raw.id,
		Name:   getString(tbl, "name"),
		HP:     getInt(tbl, "hp"),
		Attack: getInt(tbl, "attack"),
	}
	if e.Name == "" {
		e.Name = displayName(raw.id)
	}

	el, err := element.Parse(getString(tbl, "element"))
	if err != nil {
		ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: %v", kind, raw.id, err))
	}
	e.Element = el

	if pattern := getTable(tbl, "pattern"); pattern != nil {
		for i := 1; i <= pattern.MaxN(); i++ {
			step, ok := pattern.RawGetInt(i).(*lua.LTable)
			if !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf("%s %q: pattern step %d is not an action", kind, raw.id, i))
				continue
			}
			e.Pattern = append(e.Pattern, types.Action{
				Kind:  types.ActionKind(getString(step, "kind")),
				Power: getInt(step, "power"),
			})
		}
	}
	return e
}

func compileDifficulty(raw rawDifficulty, ve *ValidationError) level.Preset {
	tbl := raw.table
	p := level.Preset{
		Name:       strings.ToUpper(raw.name),
		Capacity:   getInt(tbl, "capacity"),
		MinEnemies: getInt(tbl, "min_enemies"),
		MaxEnemies: getInt(tbl, "max_enemies"),
	}
	if p.MinEnemies == 0 && p.MaxEnemies == 0 {
		p.MinEnemies, p.MaxEnemies = 1, 1
	}

	seq := getTable(tbl, "sequence")
	if seq == nil {
		return p
	}
	for i := 1; i <= seq.MaxN(); i++ {
		s, ok := seq.RawGetInt(i).(lua.LString)
		if !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf("difficulty %q: sequence entry %d is not a string", p.Name, i))
			continue
		}
		lt, err := level.ParseType(string(s))
		if err != nil {
			ve.Errors = append(ve.Errors, fmt.Sprintf("difficulty %q: %v", p.Name, err))
			continue
		}
		p.Sequence = append(p.Sequence, lt)
	}
	return p
}

// displayName turns "sand_wraith" into "Sand Wraith".
func displayName(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// sortedLuaFiles returns .lua files with content.lua first and the rest
// sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var first string
	var others []string
	for _, f := range files {
		if f == "content.lua" {
			first = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if first != "" {
		return append([]string{first}, others...)
	}
	return others
}
