// Package engine builds runs. New generates the levels of a difficulty,
// resolves where the boss-counter chain goes, and calibrates player HP,
// regenerating when a configuration turns out to be unsolvable.
package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/nathoo/questforge/engine/inventory"
	"github.com/nathoo/questforge/engine/level"
	"github.com/nathoo/questforge/engine/solution"
	"github.com/nathoo/questforge/types"
)

// DefaultMaxAttempts bounds regeneration after an unsolvable attempt.
const DefaultMaxAttempts = 5

// Config selects and tunes a run.
type Config struct {
	Seed          int64
	Difficulty    string
	ShuffleEnemy  bool
	MaxAttempts   int      // 0 means DefaultMaxAttempts
	Capacity      int      // 0 means the preset's capacity
	StartingItems []string // catalog names, one unit each
	NodeLimit     int      // 0 means solution.DefaultNodeLimit
	Logger        *slog.Logger
}

// Player is the calibrated starting state of the player.
type Player struct {
	MaxHP     int
	Inventory *inventory.Inventory
}

// Game is one generated, solvable run.
type Game struct {
	ID           uuid.UUID
	Seed         int64
	Difficulty   string
	ShuffleEnemy bool
	Preset       level.Preset
	Levels       []*types.Level
	Boss         types.Element
	Solution     *solution.Solution
	Player       Player
	Attempts     int
	RNG          *RNG
	Trace        bool
	Config       Config // as resolved, with defaults filled in

	manager *solution.Manager
}

// New generates a run from content. A nil content uses the built-in
// presets and bestiary.
func New(content *level.Content, cfg Config) (*Game, error) {
	if content == nil {
		content = level.DefaultContent()
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = "EASY"
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	maxAttempts := cfg.MaxAttempts

	preset, err := content.Preset(cfg.Difficulty)
	if err != nil {
		return nil, err
	}
	cfg.Difficulty = preset.Name
	capacity := preset.Capacity
	if cfg.Capacity > 0 {
		capacity = cfg.Capacity
	}
	start, err := inventory.FromNames(capacity, cfg.StartingItems...)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	id, err := runID(cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("engine: run id: %w", err)
	}
	log = log.With("run", id.String(), "seed", cfg.Seed, "difficulty", preset.Name)

	rng := NewRNG(cfg.Seed)
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		levels, boss, err := level.Generate(preset, content, rng)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}

		m, err := solution.New(levels, boss, start, rng,
			solution.WithLogger(log.With("attempt", attempt)),
			solution.WithNodeLimit(cfg.NodeLimit))
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}

		err = m.Distribute()
		var unsolvable *solution.UnsolvableConfigurationError
		if errors.As(err, &unsolvable) {
			log.Warn("regenerating unsolvable run", "attempt", attempt, "err", err)
			lastErr = err
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}

		hp, err := m.ResetPlayerHP(cfg.ShuffleEnemy)
		if err != nil {
			return nil, fmt.Errorf("engine: %w", err)
		}

		log.Debug("run generated", "attempt", attempt, "boss", boss, "max_hp", hp, "rng_pos", rng.Position())
		return &Game{
			ID:           id,
			Seed:         cfg.Seed,
			Difficulty:   preset.Name,
			ShuffleEnemy: cfg.ShuffleEnemy,
			Preset:       preset,
			Levels:       levels,
			Boss:         boss,
			Solution:     m.Solution(),
			Player:       Player{MaxHP: hp, Inventory: start.Clone()},
			Attempts:     attempt,
			RNG:          rng,
			Config:       cfg,
			manager:      m,
		}, nil
	}
	return nil, fmt.Errorf("engine: no solvable run in %d attempts: %w", maxAttempts, lastErr)
}

// Verify replays the run as a player would and reports the first broken
// guarantee.
func (g *Game) Verify() error {
	return g.manager.ForwardPlay()
}

// runID derives a stable identifier from the seed so the same seed always
// labels the same run.
func runID(seed int64) (uuid.UUID, error) {
	return uuid.NewRandomFromReader(rand.New(rand.NewSource(seed)))
}
