package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/tui/components"
	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

const recentLogRows = 6

func (a App) renderDashboardTab(cw int) string {
	t := theme.Active
	cur := a.cfg.Appearance.Currency

	note := func(field model.TrendField, higherIsBetter bool) (string, lipgloss.Color) {
		return trendNote(pipeline.Compare(a.period, a.prev, field, higherIsBetter))
	}
	distNote, distTint := note(model.FieldDistance, true)
	costNote, costTint := note(model.FieldCost, false)
	consNote, consTint := note(model.FieldConsumption, false)
	cpkNote, cpkTint := note(model.FieldCostPerKm, false)

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Distance", Value: cli.FormatKm(a.period.Distance), Note: distNote, Tint: distTint},
		{Label: "Fuel cost", Value: cli.FormatMoney(a.period.Cost, cur), Note: costNote, Tint: costTint},
		{Label: "Consumption", Value: cli.FormatConsumption(a.period.AvgConsumption), Note: consNote, Tint: consTint},
		{Label: "Cost per km", Value: cli.FormatPrice(a.period.CostPerKm, cur), Note: cpkNote, Tint: cpkTint},
	}, cw))
	b.WriteString("\n")

	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Total distance", Value: cli.FormatKm(a.dash.TotalDistance),
			Note: fmt.Sprintf("%s logs", cli.FormatNumber(int64(a.dash.LogCount)))},
		{Label: "Total fuel cost", Value: cli.FormatMoney(a.dash.TotalCost, cur),
			Note: cli.FormatPrice(a.dash.AvgCostPerKm, cur) + "/km"},
		{Label: "Fuel purchased", Value: cli.FormatLiters(a.dash.TotalLiters),
			Note: fmt.Sprintf("%s purchases", cli.FormatNumber(int64(a.dash.PurchaseCount)))},
		{Label: "Avg price", Value: cli.FormatPrice(a.dash.WeightedAvgPrice, cur) + "/L",
			Note: "last " + cli.FormatPrice(a.dash.LastFuelPrice, cur)},
	}, cw))
	b.WriteString("\n")

	// Daily distance, oldest left
	values := make([]float64, len(a.daily))
	for i, d := range a.daily {
		values[len(a.daily)-1-i] = d.Distance
	}
	chart := components.BarChart(components.Series{
		Values: values,
		Labels: chartDateLabels(a.daily),
		Color:  t.Distance,
	}, components.CardInnerWidth(cw), 8)
	title := fmt.Sprintf("Daily distance · last %d days · spent %s", a.days, cli.FormatMoney(a.spend.Spent, cur))
	b.WriteString(components.ContentCard(title, chart, cw))
	b.WriteString("\n")

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Recent logs", a.recentLogs(components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Stations", a.stationLines(components.CardInnerWidth(widths[1])), widths[1]),
	}))
	return b.String()
}

// trendNote renders a trend as "↑ +12.0% vs prev" tinted by whether the
// movement is favorable.
func trendNote(r model.TrendResult) (string, lipgloss.Color) {
	t := theme.Active
	arrow := "→"
	switch r.Direction {
	case model.DirectionUp:
		arrow = "↑"
	case model.DirectionDown:
		arrow = "↓"
	}
	s := arrow + " " + cli.FormatPercentDelta(r.PercentDelta) + " vs prev"
	switch {
	case r.Improved():
		return s, t.Good
	case r.Regressed():
		return s, t.Bad
	default:
		return s, t.TextDim
	}
}

func (a App) recentLogs(w int) string {
	t := theme.Active
	if len(a.logbook.Logs) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No logs yet")
	}
	sorted := pipeline.SortLogs(a.logbook.Logs)
	cur := a.cfg.Appearance.Currency

	date := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	fuel := lipgloss.NewStyle().Foreground(t.Fuel).Background(t.Surface)

	var lines []string
	for i := len(sorted) - 1; i >= 0 && len(lines) < recentLogRows; i-- {
		l := sorted[i]
		line := date.Render(l.Date.Format("Jan 02")) + val.Render(fmt.Sprintf("  %10s  %9s",
			cli.FormatKm(l.Distance), cli.FormatMoney(l.Cost, cur)))
		if l.IsRefuelDay {
			line += fuel.Render("  ⛽")
		}
		lines = append(lines, truncLine(line, w))
	}
	return strings.Join(lines, "\n")
}

func (a App) stationLines(w int) string {
	t := theme.Active
	if len(a.stations) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No purchases yet")
	}
	cur := a.cfg.Appearance.Currency
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	nameW := max(8, w-24)
	var lines []string
	for i, s := range a.stations {
		if i == recentLogRows {
			break
		}
		lines = append(lines, name.Render(fmt.Sprintf("%-*s", nameW, truncStr(s.Station, nameW)))+
			muted.Render(fmt.Sprintf(" %8s/L  ×%d", cli.FormatPrice(s.AvgPrice, cur), s.Purchases)))
	}
	return strings.Join(lines, "\n")
}

// truncLine cuts a styled line that is wider than w.
func truncLine(line string, w int) string {
	if lipgloss.Width(line) <= w {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(w).Render(line)
}
