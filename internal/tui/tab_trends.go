package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/tui/components"
	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

var trendLabels = map[model.TrendField]string{
	model.FieldDistance:    "Distance",
	model.FieldCost:        "Fuel cost",
	model.FieldFuel:        "Fuel used",
	model.FieldEntries:     "Entries",
	model.FieldConsumption: "Consumption",
	model.FieldCostPerKm:   "Cost per km",
}

func (a App) renderTrendsTab(cw int) string {
	t := theme.Active
	var b strings.Builder

	widths := components.LayoutRow(cw, len(a.trends))
	cards := make([]string, len(a.trends))
	for i, g := range a.trends {
		cards[i] = components.ContentCard(g.Label, a.trendLines(g, components.CardInnerWidth(widths[i])), widths[i])
	}
	b.WriteString(components.CardRow(cards))
	b.WriteString("\n")

	// Monthly spend across the current year
	values := make([]float64, len(a.months))
	labels := make([]string, len(a.months))
	var total float64
	for i, m := range a.months {
		values[i] = m.Spent
		labels[i] = m.Month.Format("Jan")
		total += m.Spent
	}
	cur := a.cfg.Appearance.Currency
	chart := components.BarChart(components.Series{Values: values, Labels: labels, Color: t.Cost},
		components.CardInnerWidth(cw), 8)
	year := a.clk.Now().Year()
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Fuel spend by month · %d · %s", year, cli.FormatMoney(total, cur)), chart, cw))
	return b.String()
}

func (a App) trendLines(g trendGroup, w int) string {
	t := theme.Active
	cur := a.cfg.Appearance.Currency
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	lines := make([]string, 0, len(g.Results))
	for _, r := range g.Results {
		note, tint := trendNote(r)
		note = strings.TrimSuffix(note, " vs prev")
		line := label.Render(fmt.Sprintf("%-12s", trendLabels[r.Field])) +
			val.Render(fmt.Sprintf("%14s ", cli.FormatTrendValue(r.Field, r.Current, cur))) +
			lipgloss.NewStyle().Foreground(tint).Background(t.Surface).Render(note)
		lines = append(lines, truncLine(line, w))
	}
	return strings.Join(lines, "\n")
}
