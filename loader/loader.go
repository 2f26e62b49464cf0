package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/questforge/engine/level"
)

// collector accumulates Lua definitions during file execution.
type collector struct {
	enemies      []rawEnemy
	bosses       []rawEnemy
	difficulties []rawDifficulty
}

// Load reads all .lua files from dir, compiles them into content, validates
// it and returns it merged over the built-in presets and bestiary. The Lua
// VM is discarded after loading.
func Load(dir string) (*level.Content, error) {
	return LoadWithLogger(dir, slog.Default())
}

// LoadWithLogger is Load with validation warnings sent to log.
func LoadWithLogger(dir string, log *slog.Logger) (*level.Content, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content directory %s: %w", dir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".lua") {
			luaFiles = append(luaFiles, e.Name())
		}
	}
	if len(luaFiles) == 0 {
		return nil, fmt.Errorf("no .lua files found in %s", dir)
	}
	luaFiles = sortedLuaFiles(luaFiles)

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()
	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	for _, f := range luaFiles {
		path := filepath.Join(dir, f)
		if err := L.DoFile(path); err != nil {
			return nil, fmt.Errorf("executing %s: %w", f, err)
		}
	}

	pack, ve := compile(coll)
	content := level.DefaultContent()
	content.Merge(pack)
	validate(pack, content, ve)

	for _, w := range ve.Warnings {
		log.Warn("content pack", "dir", dir, "warning", w)
	}
	if len(ve.Errors) > 0 {
		return nil, ve
	}
	return content, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "require", "module",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}
