package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderStatusBar produces a full-width inverted status line showing the
// run, the boss and its counter, and the calibrated HP.
func (m Model) renderStatusBar() string {
	g := m.game
	sol := g.Solution

	left := fmt.Sprintf(" Seed %d | %s | %s boss", g.Seed, g.Difficulty, g.Boss)
	right := fmt.Sprintf("HP:%d | Cap:%d ", g.Player.MaxHP, g.Player.Inventory.Capacity)

	// Show the target weapon if it fits, otherwise just the element.
	candidate := fmt.Sprintf("%s -> %s (%s)", left, sol.Element, sol.Target)
	if lipgloss.Width(candidate)+lipgloss.Width(right)+2 < m.width {
		left = candidate
	} else {
		left = fmt.Sprintf("%s -> %s", left, sol.Element)
	}
	if m.trace {
		right = "TRACE | " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
