package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerPatternHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Enemy "id" { ... } is curried: Enemy("id") returns a function that takes a table.
	L.SetGlobal("Enemy", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.enemies = append(coll.enemies, rawEnemy{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Boss "id" { ... }
	L.SetGlobal("Boss", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.bosses = append(coll.bosses, rawEnemy{id: id, table: tbl})
			return 0
		}))
		return 1
	}))

	// Difficulty "NAME" { sequence = {...}, capacity = n, ... }
	L.SetGlobal("Difficulty", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.difficulties = append(coll.difficulties, rawDifficulty{name: name, table: tbl})
			return 0
		}))
		return 1
	}))
}

func registerPatternHelpers(L *lua.LState) {
	// Attack(n) deals the enemy's attack plus n.
	L.SetGlobal("Attack", L.NewFunction(func(L *lua.LState) int {
		power := L.OptInt(1, 0)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("attack"))
		tbl.RawSetString("power", lua.LNumber(power))
		L.Push(tbl)
		return 1
	}))

	L.SetGlobal("Defend", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("defend"))
		L.Push(tbl)
		return 1
	}))

	L.SetGlobal("Charge", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString("charge"))
		L.Push(tbl)
		return 1
	}))
}
