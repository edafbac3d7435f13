// Package components provides the widgets the fuellog dashboard is built from.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// Metric is one headline number on a metric card.
type Metric struct {
	Label string
	Value string
	Note  string         // secondary line, may be empty
	Tint  lipgloss.Color // note color, TextDim when empty
}

// LayoutRow splits totalWidth into n widths summing to exactly totalWidth.
// The first widths absorb the remainder.
func LayoutRow(totalWidth, n int) []int {
	if n <= 0 {
		return nil
	}
	widths := make([]int, n)
	for i := range widths {
		widths[i] = totalWidth / n
		if i < totalWidth%n {
			widths[i]++
		}
	}
	return widths
}

func cardStyle(outerWidth int, border lipgloss.Color) lipgloss.Style {
	inner := outerWidth - 2
	if inner < 10 {
		inner = 10
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		BorderBackground(theme.Active.Background).
		Background(theme.Active.Surface).
		Width(inner).
		Padding(0, 1)
}

// MetricCard renders one metric in a bordered card of outerWidth columns.
func MetricCard(m Metric, outerWidth int) string {
	t := theme.Active
	tint := m.Tint
	if tint == "" {
		tint = t.TextDim
	}

	content := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(m.Label) + "\n" +
		lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true).Render(m.Value)
	if m.Note != "" {
		content += "\n" + lipgloss.NewStyle().Foreground(tint).Background(t.Surface).Render(m.Note)
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// MetricCardRow renders metrics side by side across totalWidth.
func MetricCardRow(metrics []Metric, totalWidth int) string {
	if len(metrics) == 0 {
		return ""
	}
	widths := LayoutRow(totalWidth, len(metrics))
	cards := make([]string, len(metrics))
	for i, m := range metrics {
		cards[i] = MetricCard(m, widths[i])
	}
	return CardRow(cards)
}

// ContentCard renders body in a bordered card with an optional title.
func ContentCard(title, body string, outerWidth int) string {
	t := theme.Active
	content := body
	if title != "" {
		content = lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true).Render(title) + "\n" + body
	}
	return cardStyle(outerWidth, t.Border).Render(content)
}

// CardRow joins cards horizontally. Shorter cards are padded with
// background-colored lines so the row has no unstyled gaps.
func CardRow(cards []string) string {
	if len(cards) == 0 {
		return ""
	}
	tallest := 0
	for _, c := range cards {
		tallest = max(tallest, lipgloss.Height(c))
	}

	fill := lipgloss.NewStyle().Background(theme.Active.Background)
	padded := make([]string, len(cards))
	for i, c := range cards {
		gap := tallest - lipgloss.Height(c)
		if gap <= 0 {
			padded[i] = c
			continue
		}
		blank := fill.Render(strings.Repeat(" ", lipgloss.Width(c)))
		padded[i] = c + strings.Repeat("\n"+blank, gap)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, padded...)
}

// CardInnerWidth returns the text width inside a card of outerWidth.
func CardInnerWidth(outerWidth int) int {
	return max(10, outerWidth-4)
}
