package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

// Tab is one entry of the tab bar. The shortcut is the first letter of Name.
type Tab struct {
	Name string
	Key  rune
}

// Tabs in display order.
var Tabs = []Tab{
	{Name: "Dashboard", Key: 'd'},
	{Name: "Trends", Key: 't'},
	{Name: "Forecasts", Key: 'f'},
	{Name: "Achievements", Key: 'a'},
}

const tabSep = "  "

// TabVisualWidth is the rendered width of a tab, including the brackets
// drawn around the shortcut of inactive tabs.
func TabVisualWidth(i, activeIdx int) int {
	w := lipgloss.Width(Tabs[i].Name)
	if i != activeIdx {
		w += 2
	}
	return w
}

// RenderTabBar renders a single-row tab bar with activeIdx highlighted.
func RenderTabBar(activeIdx, width int) string {
	t := theme.Active
	bg := lipgloss.NewStyle().Background(t.Surface)
	active := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	key := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	bracket := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = active.Render(tab.Name)
			continue
		}
		parts[i] = bracket.Render("[") + key.Render(tab.Name[:1]) + bracket.Render("]") +
			inactive.Render(tab.Name[1:])
	}

	row := bg.Render(" ") + strings.Join(parts, bg.Render(tabSep))
	if pad := width - lipgloss.Width(row); pad > 0 {
		row += bg.Render(strings.Repeat(" ", pad))
	}
	return row
}

// TabAtX returns the tab index under column x of the tab bar, or -1.
func TabAtX(x, activeIdx int) int {
	pos := 1
	for i := range Tabs {
		w := TabVisualWidth(i, activeIdx)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + len(tabSep)
	}
	return -1
}

// TabIdxByKey returns the tab index for a shortcut key, or -1.
func TabIdxByKey(k rune) int {
	for i, tab := range Tabs {
		if tab.Key == k {
			return i
		}
	}
	return -1
}
