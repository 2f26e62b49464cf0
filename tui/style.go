package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleBody = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleEnemy = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleLoot = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleExpected = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindBody lineKind = iota
	kindHeading
	kindEnemy
	kindLoot
	kindExpected
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Level ") && strings.HasSuffix(line, ")"):
		return kindHeading
	case strings.HasPrefix(line, "Enemy:"):
		return kindEnemy
	case strings.HasPrefix(line, "Collectibles:"),
		strings.HasPrefix(line, "For sale:"),
		isContainerLine(line):
		return kindLoot
	case strings.HasPrefix(line, "Expected "),
		strings.HasPrefix(line, "Remaining capacity:"):
		return kindExpected
	case strings.HasPrefix(line, "Unknown command"),
		strings.HasPrefix(line, "No level"),
		strings.HasPrefix(line, "Verification FAILED"):
		return kindError
	default:
		return kindBody
	}
}

// isContainerLine matches "A chest holds: ...".
func isContainerLine(line string) bool {
	return strings.HasPrefix(line, "A ") && strings.Contains(line, " holds: ")
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
