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

func (a App) renderAchievementsTab(cw int) string {
	t := theme.Active
	s := a.stats

	unlocked := 0
	for _, b := range a.badges {
		if b.Unlocked() {
			unlocked++
		}
	}

	last := "never"
	if s.LastActivity != nil {
		last = cli.FormatAgo(*s.LastActivity, a.clk.Now())
	}

	score := components.Metric{Label: "Driving score", Value: "-", Note: "needs 30 days of logs"}
	if sc, ok := pipeline.Score(a.logbook.Logs, a.logbook.Purchases, a.clk.Now()); ok {
		score.Value = sc.Grade
		score.Note = fmt.Sprintf("%d/100", sc.Overall)
	}

	var b strings.Builder
	b.WriteString(components.MetricCardRow([]components.Metric{
		{Label: "Level", Value: fmt.Sprintf("%d", s.Level()), Note: cli.FormatNumber(int64(s.TotalXP)) + " XP"},
		{Label: "Current streak", Value: fmt.Sprintf("%d days", s.CurrentStreak), Note: "last log " + last},
		{Label: "Longest streak", Value: fmt.Sprintf("%d days", s.LongestStreak)},
		{Label: "Badges", Value: fmt.Sprintf("%d / %d", unlocked, len(a.badges))},
		score,
	}, cw))
	b.WriteString("\n")

	inner := components.CardInnerWidth(cw)
	into := model.XPPerLevel - s.XPToNextLevel()
	pct := float64(into) / float64(model.XPPerLevel)
	bar := components.LabeledBar(fmt.Sprintf("Level %d", s.Level()), pct,
		fmt.Sprintf("%s XP to level %d", cli.FormatNumber(int64(s.XPToNextLevel())), s.Level()+1),
		9, max(10, inner-40), t.Accent)
	b.WriteString(components.ContentCard("Progress", bar, cw))
	b.WriteString("\n")

	b.WriteString(components.ContentCard("Badges", a.badgeLines(inner), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("This week", a.challengeLines(inner), cw))
	return b.String()
}

func (a App) challengeLines(w int) string {
	t := theme.Active
	if len(a.challenges) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No challenges this week")
	}
	done := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).Bold(true)
	pending := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	lines := make([]string, 0, len(a.challenges))
	for _, c := range a.challenges {
		var line string
		if c.Completed() {
			line = done.Render("● "+c.Title) + desc.Render(fmt.Sprintf("  +%d XP", c.XPReward))
		} else {
			line = pending.Render("○ "+c.Title) + desc.Render(fmt.Sprintf("  %s  %s  +%d XP",
				c.Description, challengeProgress(c), c.XPReward))
		}
		lines = append(lines, truncLine(line, w))
	}
	return strings.Join(lines, "\n")
}

func challengeProgress(c model.Challenge) string {
	if c.Kind == model.ChallengeSpendLimit {
		return fmt.Sprintf("%.0f / %.0f spent", c.Progress, c.Target)
	}
	return fmt.Sprintf("%.0f / %.0f", c.Progress, c.Target)
}

func (a App) badgeLines(w int) string {
	t := theme.Active
	if len(a.badges) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("No badges available")
	}
	earned := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	locked := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	lines := make([]string, 0, len(a.badges))
	for _, badge := range a.badges {
		var line string
		if badge.Unlocked() {
			line = earned.Render("● "+badge.Name) + desc.Render("  "+badge.Description+
				"  ("+badge.UnlockedAt.Format("Jan 2, 2006")+")")
		} else {
			line = locked.Render("○ " + badge.Name + "  " + badge.Description)
		}
		lines = append(lines, truncLine(line, w))
	}
	return strings.Join(lines, "\n")
}
