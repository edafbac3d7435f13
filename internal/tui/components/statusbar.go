package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// RenderStatusBar renders the bottom bar: key hints on the left, info on the
// right, padded to width.
func RenderStatusBar(width int, info string) string {
	t := theme.Active
	hint := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	right := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	left := hint.Render(" [←/→]tabs  [r]eload  [?]help  [q]uit")
	info = right.Render(info + " ")

	pad := max(0, width-lipgloss.Width(left)-lipgloss.Width(info))
	return left + hint.Render(strings.Repeat(" ", pad)) + info
}
