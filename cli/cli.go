// Package cli provides terminal I/O, output formatting, and meta-command
// dispatch for the questforge run inspector.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nathoo/questforge/engine"
	"github.com/nathoo/questforge/engine/save"
	"github.com/nathoo/questforge/types"
)

// CLI handles terminal interaction with the user.
type CLI struct {
	Forge     *engine.Forge
	Game      *engine.Game
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool   // echo each input line after the prompt (for script playback)
	lastCmd   string // for "again"/"g" repeat
}

// New creates a CLI over a generated run. Regeneration goes through f.
func New(f *engine.Forge, g *engine.Game) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".questforge", "runs")
	return &CLI{
		Forge:   f,
		Game:    g,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run shows the run banner, then loops: prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.banner()

	scanner := bufio.NewScanner(c.In)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		c.Game.Trace = c.Trace
		result := c.Game.Query(input)
		c.printResult(result)
		if c.Trace {
			c.printTrace(result)
		}
	}
}

func (c *CLI) banner() {
	g := c.Game
	c.printLine(fmt.Sprintf("questforge: %s run, seed %d", g.Difficulty, g.Seed))
	c.printLine(fmt.Sprintf("The boss is %s. Forge the %s to win.", g.Boss, g.Solution.Target))
	c.printLine("")
}

// handleMeta dispatches meta-commands. Returns true if the session should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/seed":
		c.cmdSeed(arg)

	case "/difficulty":
		c.cmdDifficulty(arg)

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSeed(arg string) {
	seed, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		c.printSystem("Usage: /seed <number>")
		return
	}
	cfg := c.Game.Config
	cfg.Seed = seed
	c.regenerate(cfg)
}

func (c *CLI) cmdDifficulty(arg string) {
	if arg == "" {
		c.printSystem(fmt.Sprintf("Difficulties: %s", strings.Join(c.Forge.Content().PresetNames(), ", ")))
		return
	}
	cfg := c.Game.Config
	cfg.Difficulty = arg
	cfg.Capacity = 0
	c.regenerate(cfg)
}

func (c *CLI) regenerate(cfg engine.Config) {
	g, err := c.Forge.Get(cfg)
	if err != nil {
		c.printSystem(fmt.Sprintf("Generation failed: %v", err))
		return
	}
	c.Game = g
	c.lastCmd = ""
	c.banner()
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = fmt.Sprintf("seed-%d", c.Game.Seed)
	}

	data, err := save.Save(c.Game)
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Run saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		c.printSystem("Usage: /load <name>")
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	rd, err := save.Load(data)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	g, err := save.Restore(c.Forge, rd)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	c.Game = g
	c.lastCmd = ""
	c.printSystem(fmt.Sprintf("Run loaded from %s (seed %d).", name, rd.Seed))
	c.banner()
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /seed <n>          Regenerate with another seed",
		"  /difficulty [name] Regenerate at another difficulty (no name lists them)",
		"  /save [name]       Save the run (default: seed-<n>)",
		"  /load <name>       Regenerate a saved run and check it matches",
		"  /trace             Toggle placement trace output",
		"  /quit              Exit",
		"  /help              Show this help",
		"",
	}
	for _, line := range help {
		c.printLine(line)
	}
	c.printResult(c.Game.Query("help"))
	c.printLine("  again (g)   Repeat the last command")
}

func (c *CLI) printTrace(result types.Result) {
	for _, line := range result.Trace {
		c.printLine(line)
	}
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
