package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/fuellog/internal/cli"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/tui/components"
	"github.com/theirongolddev/fuellog/internal/tui/theme"
)

const noForecast = "not enough data"

func (a App) renderForecastsTab(cw int) string {
	t := theme.Active
	o := a.outlook
	cur := a.cfg.Appearance.Currency

	refuel := components.Metric{Label: "Next refuel", Value: "-", Note: noForecast}
	if r := o.NextRefuel; r != nil {
		refuel.Value = cli.FormatDays(r.DaysRemaining)
		refuel.Note = r.Date.Format("Mon Jan 2")
		if r.Fallback {
			refuel.Note += " (default interval)"
		}
		if r.DaysRemaining < 0 {
			refuel.Tint = t.Bad
		}
	}

	tank := components.Metric{Label: "Tank empty", Value: "-", Note: noForecast}
	if e := o.TankEmpty; e != nil {
		tank.Value = cli.FormatDays(e.DaysRemaining)
		tank.Note = fmt.Sprintf("%s left · %s range", cli.FormatLiters(e.RemainingLiters), cli.FormatKm(e.RangeKm))
		if e.DaysRemaining <= 2 {
			tank.Tint = t.Warn
		}
	}

	maint := components.Metric{Label: "Maintenance", Value: "-", Note: "nothing scheduled"}
	if m := o.Maintenance; m != nil {
		maint.Value = cli.FormatDays(m.DaysRemaining)
		maint.Note = fmt.Sprintf("%s · %s", m.Title, cli.FormatKm(m.RemainingKm))
		if m.RemainingKm <= 0 {
			maint.Tint = t.Bad
		}
	}

	yearEnd := components.Metric{Label: "Year-end cost", Value: "-", Note: noForecast}
	if y := o.YearEnd; y != nil {
		yearEnd.Value = cli.FormatMoney(y.ProjectedCost, cur)
		yearEnd.Note = cli.FormatKm(y.ProjectedDistance)
		if y.ChangeVsLastYear != nil {
			yearEnd.Note += " · " + cli.FormatPercentDelta(*y.ChangeVsLastYear) + " vs last year"
			if *y.ChangeVsLastYear > 0 {
				yearEnd.Tint = t.Warn
			} else {
				yearEnd.Tint = t.Good
			}
		}
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{refuel, tank, maint, yearEnd}, cw))
	b.WriteString("\n")

	widths := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("This month", a.monthEndLines(components.CardInnerWidth(widths[0])), widths[0]),
		components.ContentCard("Maintenance", a.maintenanceLines(components.CardInnerWidth(widths[1])), widths[1]),
	}))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("Insights", a.insightLines(components.CardInnerWidth(cw)), cw))
	return b.String()
}

func (a App) monthEndLines(w int) string {
	t := theme.Active
	cur := a.cfg.Appearance.Currency
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	val := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	m := a.outlook.MonthEnd
	if m == nil {
		return muted.Render("No fuel purchases this month")
	}
	lines := []string{
		muted.Render("Spent so far  ") + val.Render(cli.FormatMoney(m.SpentSoFar, cur)),
		muted.Render("Projected     ") + val.Render(cli.FormatMoney(m.Projected, cur)),
		muted.Render("Days left     ") + val.Render(fmt.Sprintf("%d", m.DaysRemaining)),
	}
	if m.Budget != nil && *m.Budget > 0 {
		pct := m.Projected / *m.Budget
		barW := max(10, w-30)
		lines = append(lines, "", components.LabeledBar("Budget", pct, cli.FormatMoney(*m.Budget, cur), 7, barW,
			components.ColorForPct(pct, a.cfg.Budget.WarningThreshold/100)))
	}
	return strings.Join(lines, "\n")
}

func (a App) maintenanceLines(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.logbook.Maintenance) == 0 {
		return muted.Render("No maintenance items. Add one with `fuellog maintenance add`.")
	}

	odo := a.outlook.Odometer
	items := make([]model.MaintenanceItem, len(a.logbook.Maintenance))
	copy(items, a.logbook.Maintenance)
	sort.Slice(items, func(i, j int) bool {
		return items[i].RemainingKm(odo) < items[j].RemainingKm(odo)
	})

	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	nameW := max(8, w-22)
	lines := make([]string, 0, len(items))
	for _, m := range items {
		status := m.Status(odo)
		tint := t.Good
		switch status {
		case model.MaintenanceCritical:
			tint = t.Bad
		case model.MaintenanceWarning:
			tint = t.Warn
		}
		lines = append(lines, name.Render(fmt.Sprintf("%-*s", nameW, truncStr(m.Title, nameW)))+
			muted.Render(fmt.Sprintf(" %10s ", cli.FormatKm(m.RemainingKm(odo))))+
			lipgloss.NewStyle().Foreground(tint).Background(t.Surface).Render(string(status)))
	}
	return strings.Join(lines, "\n")
}

func (a App) insightLines(w int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(a.outlook.Insights) == 0 {
		return muted.Render("Nothing notable yet. Keep logging!")
	}
	title := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface).Bold(true)

	lines := make([]string, 0, len(a.outlook.Insights))
	for _, in := range a.outlook.Insights {
		marker, tint := "+", t.Good
		switch in.Kind {
		case model.InsightWarning:
			marker, tint = "!", t.Warn
		case model.InsightPrediction:
			marker, tint = "~", t.Accent
		case model.InsightReminder:
			marker, tint = "*", t.Bad
		}
		line := lipgloss.NewStyle().Foreground(tint).Background(t.Surface).Render(marker+" ") +
			title.Render(in.Title) + muted.Render("  "+in.Message)
		lines = append(lines, truncLine(line, w))
	}
	return strings.Join(lines, "\n")
}
