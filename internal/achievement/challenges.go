package achievement

import (
	"fmt"
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// DefaultChallenges returns the weekly challenge templates. The spend
// challenge is left out when spendLimit is not positive.
func DefaultChallenges(spendLimit float64) []model.Challenge {
	out := []model.Challenge{
		{ID: "streak_3", Title: "Regular Tracker", Description: "Log 3 days in a row.",
			Kind: model.ChallengeStreak, Target: 3, XPReward: 200},
		{ID: "entries_5", Title: "Active Driver", Description: "Add 5 entries this week.",
			Kind: model.ChallengeEntries, Target: 5, XPReward: 150},
	}
	if spendLimit > 0 {
		out = append(out, model.Challenge{
			ID: "spend_limit", Title: "Saver",
			Description: fmt.Sprintf("Spend at most %.0f on fuel this week.", spendLimit),
			Kind:        model.ChallengeSpendLimit, Target: spendLimit, XPReward: 250,
		})
	}
	return out
}

// WeekChallenges instantiates templates for week and measures progress
// from the logbook. completed maps instance keys to completion times.
func WeekChallenges(templates []model.Challenge, week model.Window, logs []model.LogEntry, purchases []model.PurchaseEvent, stats model.UserStats, now time.Time, completed map[string]time.Time) []model.Challenge {
	entries := len(pipeline.InWindow(logs, model.LogEntry.When, week)) +
		len(pipeline.InWindow(purchases, model.PurchaseEvent.When, week))
	spent := pipeline.AggregatePurchases(purchases, week).Spent

	out := make([]model.Challenge, len(templates))
	for i, tpl := range templates {
		c := tpl
		c.WeekStart = week.Start
		c.ExpiresAt = week.End
		switch c.Kind {
		case model.ChallengeStreak:
			c.Progress = float64(liveStreak(stats, now))
		case model.ChallengeEntries:
			c.Progress = float64(entries)
		case model.ChallengeSpendLimit:
			c.Progress = spent
		}
		if at, ok := completed[c.Key()]; ok {
			c.CompletedAt = &at
		}
		out[i] = c
	}
	return out
}

// EvaluateChallenges returns this week's challenges and the instances
// completed by activity at now. Streak and entry challenges complete as
// soon as progress reaches the target. A spend limit can only be judged
// once its week has closed, so last week's is settled here provided that
// week saw any activity.
func EvaluateChallenges(templates []model.Challenge, logs []model.LogEntry, purchases []model.PurchaseEvent, stats model.UserStats, now time.Time, completed map[string]time.Time) ([]model.Challenge, []model.Challenge) {
	week := pipeline.Week(now)
	current := WeekChallenges(templates, week, logs, purchases, stats, now, completed)

	var done []model.Challenge
	for i := range current {
		c := &current[i]
		if c.Completed() || c.Kind == model.ChallengeSpendLimit || c.Progress < c.Target {
			continue
		}
		at := now
		c.CompletedAt = &at
		done = append(done, *c)
	}

	prev := pipeline.Previous(week)
	if !activeIn(logs, purchases, prev) {
		return current, done
	}
	for _, c := range WeekChallenges(templates, prev, logs, purchases, stats, now, completed) {
		if c.Kind != model.ChallengeSpendLimit || c.Completed() || c.Progress > c.Target {
			continue
		}
		at := now
		c.CompletedAt = &at
		done = append(done, c)
	}
	return current, done
}

// liveStreak is the streak still alive at now: zero once a full day has
// passed without activity.
func liveStreak(s model.UserStats, now time.Time) int {
	if s.LastActivity == nil {
		return 0
	}
	if clock.CalendarDays(s.LastActivity.In(now.Location()), now) > 1 {
		return 0
	}
	return s.CurrentStreak
}

func activeIn(logs []model.LogEntry, purchases []model.PurchaseEvent, w model.Window) bool {
	return len(pipeline.InWindow(logs, model.LogEntry.When, w)) > 0 ||
		len(pipeline.InWindow(purchases, model.PurchaseEvent.When, w)) > 0
}
