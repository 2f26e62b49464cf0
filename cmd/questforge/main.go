// Questforge generates deterministic, always-winnable runs: a level
// sequence, a boss, the crafting chain that counters it and the player HP
// that survives every fight. Run with no arguments for a random seed.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/nathoo/questforge/cli"
	"github.com/nathoo/questforge/config"
	"github.com/nathoo/questforge/engine"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/loader"
	"github.com/nathoo/questforge/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: questforge [--version] [--plain] [--script <file>] [--trace] [--config <file>] " +
	"[--content <dir>] [--seed <n>] [--difficulty <name>] [--capacity <n>] [--shuffle-enemy] [--item <name>]..."

func main() {
	plain := false
	trace := false
	var scriptFile, configFile string
	var overrides []func(*config.Config)

	args := os.Args[1:]
	value := func(i *int, flag string) string {
		if *i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", flag)
			os.Exit(1)
		}
		*i++
		return args[*i]
	}
	number := func(flag, s string) int64 {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %q is not a number\n", flag, s)
			os.Exit(1)
		}
		return n
	}

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("questforge %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script":
			scriptFile = value(&i, "--script")
		case "--config":
			configFile = value(&i, "--config")
		case "--content":
			dir := value(&i, "--content")
			overrides = append(overrides, func(c *config.Config) { c.ContentDir = dir })
		case "--seed":
			seed := number("--seed", value(&i, "--seed"))
			overrides = append(overrides, func(c *config.Config) { c.Seed = seed })
		case "--difficulty":
			diff := value(&i, "--difficulty")
			overrides = append(overrides, func(c *config.Config) { c.Difficulty = diff })
		case "--capacity":
			capacity := int(number("--capacity", value(&i, "--capacity")))
			overrides = append(overrides, func(c *config.Config) { c.Capacity = capacity })
		case "--shuffle-enemy":
			overrides = append(overrides, func(c *config.Config) { c.ShuffleEnemy = true })
		case "--item":
			item := value(&i, "--item")
			overrides = append(overrides, func(c *config.Config) { c.StartingItems = append(c.StartingItems, item) })
		default:
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		}
	}

	cfg := config.Default()
	cfg.Seed = time.Now().UnixNano()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	for _, o := range overrides {
		o(cfg)
	}

	lvl, err := cfg.Level()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if trace {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(log)

	// Load Lua content packs over the built-in presets and bestiary.
	content := level.DefaultContent()
	if cfg.ContentDir != "" {
		content, err = loader.Load(cfg.ContentDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading content: %v\n", err)
			os.Exit(1)
		}
	}

	forge := engine.NewForge(content, 0)
	g, err := forge.Get(cfg.Engine(log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating run: %v\n", err)
		os.Exit(1)
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(forge, g)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(forge, g)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(forge, g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
