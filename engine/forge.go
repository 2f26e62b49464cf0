package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nathoo/questforge/engine/level"
)

// Forge memoizes generated runs. Generation is deterministic, so a run is
// fully identified by its config.
type Forge struct {
	content *level.Content
	runs    *cache.Cache
}

// NewForge creates a forge over content. Runs expire after ttl; a zero
// ttl keeps them until Flush.
func NewForge(content *level.Content, ttl time.Duration) *Forge {
	if content == nil {
		content = level.DefaultContent()
	}
	exp, cleanup := ttl, ttl*2
	if ttl <= 0 {
		exp, cleanup = cache.NoExpiration, 0
	}
	return &Forge{content: content, runs: cache.New(exp, cleanup)}
}

// Content returns the content runs are generated from.
func (f *Forge) Content() *level.Content { return f.content }

// Get returns the cached run for cfg or generates it.
func (f *Forge) Get(cfg Config) (*Game, error) {
	key := runKey(cfg)
	if g, ok := f.runs.Get(key); ok {
		return g.(*Game), nil
	}
	g, err := New(f.content, cfg)
	if err != nil {
		return nil, err
	}
	f.runs.SetDefault(key, g)
	return g, nil
}

// Len returns the number of cached runs.
func (f *Forge) Len() int { return f.runs.ItemCount() }

// Flush drops every cached run.
func (f *Forge) Flush() { f.runs.Flush() }

func runKey(cfg Config) string {
	diff := strings.ToUpper(cfg.Difficulty)
	if diff == "" {
		diff = "EASY"
	}
	return fmt.Sprintf("%s:%d:%t:%d:%d:%d:%s",
		diff, cfg.Seed, cfg.ShuffleEnemy, cfg.Capacity, cfg.MaxAttempts, cfg.NodeLimit,
		strings.Join(cfg.StartingItems, ","))
}
