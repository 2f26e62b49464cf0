// Package save implements JSON export of generated runs. A run is restored
// by regenerating it from its recorded configuration, then checking the
// result against the recorded solution.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/questforge/engine"
)

// Version is the current save format.
const Version = "1"

// ErrMismatch is returned when a restored run differs from the recording,
// usually because the content pack changed.
var ErrMismatch = errors.New("save: regenerated run does not match the recording")

// Placement is one recorded required or trade-in item.
type Placement struct {
	Level   int    `json:"level"`
	Item    string `json:"item"`
	Where   string `json:"where"`
	TradeIn bool   `json:"trade_in,omitempty"`
}

// RunData is the JSON-serializable save format.
type RunData struct {
	Version       string      `json:"version"`
	ID            string      `json:"id"`
	Seed          int64       `json:"seed"`
	Difficulty    string      `json:"difficulty"`
	ShuffleEnemy  bool        `json:"shuffle_enemy"`
	MaxAttempts   int         `json:"max_attempts"`
	Capacity      int         `json:"capacity"`
	StartingItems []string    `json:"starting_items"`
	NodeLimit     int         `json:"node_limit,omitempty"`
	Boss          string      `json:"boss"`
	Element       string      `json:"element"`
	Target        string      `json:"target"`
	PlayerMaxHP   int         `json:"player_max_hp"`
	Placements    []Placement `json:"placements"`
}

// Save serializes a run to JSON bytes.
func Save(g *engine.Game) ([]byte, error) {
	data := RunData{
		Version:       Version,
		ID:            g.ID.String(),
		Seed:          g.Seed,
		Difficulty:    g.Difficulty,
		ShuffleEnemy:  g.ShuffleEnemy,
		MaxAttempts:   g.Config.MaxAttempts,
		Capacity:      g.Player.Inventory.Capacity,
		StartingItems: g.Config.StartingItems,
		NodeLimit:     g.Config.NodeLimit,
		Boss:          string(g.Boss),
		Element:       string(g.Solution.Element),
		Target:        g.Solution.Target,
		PlayerMaxHP:   g.Player.MaxHP,
		Placements:    placements(g),
	}
	if data.StartingItems == nil {
		data.StartingItems = []string{}
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into RunData.
func Load(data []byte) (*RunData, error) {
	var rd RunData
	if err := json.Unmarshal(data, &rd); err != nil {
		return nil, err
	}
	if rd.Version != Version {
		return nil, fmt.Errorf("save: unsupported version %q", rd.Version)
	}
	if rd.StartingItems == nil {
		rd.StartingItems = []string{}
	}
	if rd.Placements == nil {
		rd.Placements = []Placement{}
	}
	return &rd, nil
}

// Config returns the engine configuration that regenerates the run.
func (rd *RunData) Config() engine.Config {
	return engine.Config{
		Seed:          rd.Seed,
		Difficulty:    rd.Difficulty,
		ShuffleEnemy:  rd.ShuffleEnemy,
		MaxAttempts:   rd.MaxAttempts,
		Capacity:      rd.Capacity,
		StartingItems: rd.StartingItems,
		NodeLimit:     rd.NodeLimit,
	}
}

// Restore regenerates the recorded run through f and checks it matches.
func Restore(f *engine.Forge, rd *RunData) (*engine.Game, error) {
	g, err := f.Get(rd.Config())
	if err != nil {
		return nil, err
	}
	if g.ID.String() != rd.ID {
		return nil, fmt.Errorf("%w: id %s, recorded %s", ErrMismatch, g.ID, rd.ID)
	}
	if g.Player.MaxHP != rd.PlayerMaxHP || g.Solution.Target != rd.Target {
		return nil, fmt.Errorf("%w: got %s with %d HP, recorded %s with %d HP",
			ErrMismatch, g.Solution.Target, g.Player.MaxHP, rd.Target, rd.PlayerMaxHP)
	}
	got := placements(g)
	if len(got) != len(rd.Placements) {
		return nil, fmt.Errorf("%w: %d placements, recorded %d", ErrMismatch, len(got), len(rd.Placements))
	}
	for i := range got {
		if got[i] != rd.Placements[i] {
			return nil, fmt.Errorf("%w: placement %d is %+v, recorded %+v", ErrMismatch, i, got[i], rd.Placements[i])
		}
	}
	return g, nil
}

func placements(g *engine.Game) []Placement {
	out := make([]Placement, 0, len(g.Solution.Placements))
	for _, p := range g.Solution.Placements {
		out = append(out, Placement{Level: p.Level, Item: p.Item, Where: p.Where, TradeIn: p.TradeIn})
	}
	return out
}
