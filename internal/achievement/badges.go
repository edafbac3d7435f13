package achievement

import (
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

// DefaultCatalog returns the built-in badges, all locked.
func DefaultCatalog() []model.Badge {
	return []model.Badge{
		{ID: "first_log", Name: "First Step", Description: "Record your first log.", Condition: model.ConditionFirstLog, Threshold: 1},
		{ID: "log_master_1", Name: "Regular", Description: "Record 10 logs.", Condition: model.ConditionLogCount, Threshold: 10},
		{ID: "log_master_2", Name: "Seasoned Driver", Description: "Record 50 logs.", Condition: model.ConditionLogCount, Threshold: 50},
		{ID: "streak_week", Name: "Steady", Description: "Keep a 7 day streak.", Condition: model.ConditionStreakDays, Threshold: 7},
		{ID: "streak_month", Name: "Loyal Driver", Description: "Keep a 30 day streak.", Condition: model.ConditionStreakDays, Threshold: 30},
		{ID: "liters_500", Name: "Tank Filler", Description: "Buy 500 liters of fuel.", Condition: model.ConditionTotalLiters, Threshold: 500},
	}
}

// Values holds the statistic for each badge condition.
type Values map[model.BadgeCondition]float64

// CollectValues computes badge statistics from the logbook and streak state.
// Total liters counts purchased fuel.
func CollectValues(logs []model.LogEntry, purchases []model.PurchaseEvent, stats model.UserStats) Values {
	v := Values{
		model.ConditionLogCount:   float64(len(logs)),
		model.ConditionStreakDays: float64(stats.CurrentStreak),
	}
	if len(logs) > 0 {
		v[model.ConditionFirstLog] = 1
	}
	var liters float64
	for _, p := range purchases {
		liters += p.Liters
	}
	v[model.ConditionTotalLiters] = liters
	return v
}

// EvaluateBadges unlocks every locked badge whose value reaches its
// threshold. It returns the updated copy and the newly unlocked badges.
// Unlocked badges are never relocked.
func EvaluateBadges(badges []model.Badge, values Values, now time.Time) ([]model.Badge, []model.Badge) {
	out := make([]model.Badge, len(badges))
	copy(out, badges)

	var unlocked []model.Badge
	for i := range out {
		b := &out[i]
		if b.Unlocked() {
			continue
		}
		v, ok := values[b.Condition]
		if !ok || v < b.Threshold {
			continue
		}
		at := now
		b.UnlockedAt = &at
		unlocked = append(unlocked, *b)
	}
	return out, unlocked
}

// Merge overlays persisted unlock state onto catalog. Persisted badges
// absent from the catalog are kept so unlocks are never lost.
func Merge(catalog, persisted []model.Badge) []model.Badge {
	byID := make(map[string]model.Badge, len(persisted))
	for _, b := range persisted {
		byID[b.ID] = b
	}

	out := make([]model.Badge, 0, len(catalog)+len(persisted))
	seen := make(map[string]struct{}, len(catalog))
	for _, b := range catalog {
		if p, ok := byID[b.ID]; ok && p.UnlockedAt != nil {
			b.UnlockedAt = p.UnlockedAt
		}
		seen[b.ID] = struct{}{}
		out = append(out, b)
	}
	for _, b := range persisted {
		if _, ok := seen[b.ID]; !ok && b.UnlockedAt != nil {
			out = append(out, b)
		}
	}
	return out
}
