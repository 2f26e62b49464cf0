// Package parser converts inspector command strings into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strconv"
	"strings"
)

// Command is a parsed inspector request.
type Command struct {
	Verb string // canonical verb, "" for empty input
	Arg  string // remaining words, articles stripped
}

// Level returns Arg as a 1-based level number.
func (c Command) Level() (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(c.Arg, "#"))
	if err != nil {
		return 0, false
	}
	return n, true
}

var verbAliases = map[string]string{
	// Levels
	"ls":     "levels",
	"list":   "levels",
	"map":    "levels",
	"l":      "level",
	"lvl":    "level",
	"stage":  "level",
	"room":   "level",
	"goto":   "level",
	"visit":  "level",
	"detail": "level",

	// Solution
	"sol":     "solution",
	"answer":  "solution",
	"counter": "solution",
	"chain":   "solution",
	"recipe":  "solution",
	"plan":    "solution",

	// HP
	"health": "hp",
	"life":   "hp",
	"fights": "hp",
	"combat": "hp",

	// Verify
	"check":  "verify",
	"replay": "verify",
	"play":   "verify",
	"test":   "verify",

	// Misc
	"about": "info",
	"run":   "info",
	"seed":  "info",
	"h":     "help",
	"?":     "help",
	"man":   "help",
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into a Command.
func Parse(input string) Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Bare number shortcut: "3" → level 3.
	if len(words) == 1 {
		if _, err := strconv.Atoi(strings.TrimPrefix(words[0], "#")); err == nil {
			return Command{Verb: "level", Arg: words[0]}
		}
	}

	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	return Command{
		Verb: words[0],
		Arg:  strings.Join(stripArticles(words[1:]), " "),
	}
}

// expandMultiWordVerbs handles "show level", "look at", "max hp" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "show", "look", "view", "print":
		rest := words[1:]
		if rest[0] == "at" || rest[0] == "me" {
			rest = rest[1:]
		}
		rest = stripArticles(rest)
		if len(rest) == 0 {
			return []string{"help"}
		}
		return rest
	case "max", "player":
		if words[1] == "hp" || words[1] == "health" {
			return append([]string{"hp"}, words[2:]...)
		}
	case "level":
		// "level of 3", "level no 3"
		if words[1] == "of" || words[1] == "no" || words[1] == "number" {
			return append([]string{"level"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}
