package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// ColorForPct returns the bar color for a usage fraction: warn from warnAt,
// bad once the limit is reached. A non-positive warnAt warns from 80%.
func ColorForPct(pct, warnAt float64) lipgloss.Color {
	t := theme.Active
	if warnAt <= 0 {
		warnAt = 0.8
	}
	switch {
	case pct >= 1:
		return t.Bad
	case pct >= warnAt:
		return t.Warn
	default:
		return t.Good
	}
}

// ProgressBar renders a bar of barWidth cells filled to pct in color.
func ProgressBar(pct float64, barWidth int, color lipgloss.Color) string {
	pct = min(max(pct, 0), 1)
	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(theme.Active.TextDim)
	return bar.ViewAs(pct)
}

// LabeledBar renders "label  [bar]  pct  note" on one line. Values above one
// are shown in full but the bar is capped.
func LabeledBar(label string, pct float64, note string, labelW, barWidth int, color lipgloss.Color) string {
	t := theme.Active
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	line := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		ProgressBar(pct, barWidth, color) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", max(pct, 0)*100))
	if note != "" {
		line += space.Render("  ") + noteStyle.Render(note)
	}
	return line
}
