package tui

import (
	"fmt"
	"strings"

	"github.com/nathoo/questforge/engine/parser"
)

// recall keeps the commands typed this session, newest last. A command is
// stored once by what it asks for: entering "3" after "level 3" moves the
// older entry to the front instead of adding a twin. Browsing with Up is
// narrowed to entries starting with whatever was typed before the first
// press.
type recall struct {
	entries []string
	limit   int

	typed   string
	matches []int // entry indexes matching typed, newest first
	pos     int   // into matches, -1 when not browsing
}

func newRecall(limit int) *recall {
	return &recall{limit: limit, pos: -1}
}

// canonical reduces a command to the query it runs.
func canonical(cmd string) string {
	if strings.HasPrefix(cmd, "/") {
		return strings.Join(strings.Fields(strings.ToLower(cmd)), " ")
	}
	c := parser.Parse(cmd)
	if c.Verb == "level" {
		if n, ok := c.Level(); ok {
			return fmt.Sprintf("level %d", n)
		}
	}
	if c.Arg == "" {
		return c.Verb
	}
	return c.Verb + " " + c.Arg
}

// add records cmd and ends any browse.
func (r *recall) add(cmd string) {
	key := canonical(cmd)
	for i, e := range r.entries {
		if canonical(e) == key {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}
	r.entries = append(r.entries, cmd)
	if over := len(r.entries) - r.limit; over > 0 {
		r.entries = r.entries[over:]
	}
	r.reset()
}

// older steps back to the previous matching entry. typed is only read on
// the first step of a browse. At the oldest match it stays put.
func (r *recall) older(typed string) (string, bool) {
	if r.pos == -1 {
		r.typed = typed
		prefix := strings.ToLower(strings.TrimSpace(typed))
		r.matches = r.matches[:0]
		for i := len(r.entries) - 1; i >= 0; i-- {
			if strings.HasPrefix(strings.ToLower(r.entries[i]), prefix) {
				r.matches = append(r.matches, i)
			}
		}
		if len(r.matches) == 0 {
			return "", false
		}
		r.pos = 0
	} else if r.pos < len(r.matches)-1 {
		r.pos++
	}
	return r.entries[r.matches[r.pos]], true
}

// newer steps forward. Past the newest match the browse ends and the text
// typed before it comes back. ok is false when there is no browse.
func (r *recall) newer() (string, bool) {
	if r.pos == -1 {
		return "", false
	}
	r.pos--
	if r.pos < 0 {
		typed := r.typed
		r.reset()
		return typed, true
	}
	return r.entries[r.matches[r.pos]], true
}

func (r *recall) reset() {
	r.pos = -1
	r.typed = ""
}
