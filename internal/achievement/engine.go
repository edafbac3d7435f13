package achievement

import (
	"context"
	"fmt"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// Engine applies logbook activity to the persisted gamification state.
type Engine struct {
	Store         Store
	Clock         clock.Clock
	Catalog       []model.Badge
	Weekly        []model.Challenge
	XPPerLog      int
	XPPerPurchase int
}

// NewEngine builds an Engine with the default catalog, the default weekly
// challenges and configured XP.
func NewEngine(store Store, clk clock.Clock, cfg config.GamificationConfig) *Engine {
	return &Engine{
		Store:         store,
		Clock:         clk,
		Catalog:       DefaultCatalog(),
		Weekly:        DefaultChallenges(cfg.WeeklySpendLimit),
		XPPerLog:      cfg.XPPerLog,
		XPPerPurchase: cfg.XPPerPurchase,
	}
}

// Outcome reports what one recorded activity changed. XPGained includes
// the rewards of Completed challenges.
type Outcome struct {
	Stats      model.UserStats
	Badges     []model.Badge
	Unlocked   []model.Badge
	Challenges []model.Challenge
	Completed  []model.Challenge
	XPGained   int
	LeveledUp  bool
}

// State returns the current stats and the catalog merged with unlocks.
func (e *Engine) State(ctx context.Context) (model.UserStats, []model.Badge, error) {
	stats, persisted, err := e.Store.Load(ctx)
	if err != nil {
		return model.UserStats{}, nil, fmt.Errorf("loading achievements: %w", err)
	}
	return stats, Merge(e.Catalog, persisted), nil
}

// Challenges returns this week's challenges with their progress.
func (e *Engine) Challenges(ctx context.Context, logs []model.LogEntry, purchases []model.PurchaseEvent) ([]model.Challenge, error) {
	stats, _, err := e.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading achievements: %w", err)
	}
	completed, err := e.Store.LoadChallenges(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading challenges: %w", err)
	}
	now := e.Clock.Now()
	return WeekChallenges(e.Weekly, pipeline.Week(now), logs, purchases, stats, now, completed), nil
}

// RecordLog advances the streak, awards log XP and evaluates badges.
// logs and purchases are the full logbook including the new entry.
func (e *Engine) RecordLog(ctx context.Context, logs []model.LogEntry, purchases []model.PurchaseEvent) (Outcome, error) {
	return e.record(ctx, logs, purchases, e.XPPerLog, true)
}

// RecordPurchase awards purchase XP and evaluates badges.
func (e *Engine) RecordPurchase(ctx context.Context, logs []model.LogEntry, purchases []model.PurchaseEvent) (Outcome, error) {
	return e.record(ctx, logs, purchases, e.XPPerPurchase, false)
}

func (e *Engine) record(ctx context.Context, logs []model.LogEntry, purchases []model.PurchaseEvent, xp int, advance bool) (Outcome, error) {
	stats, badges, err := e.State(ctx)
	if err != nil {
		return Outcome{}, err
	}
	now := e.Clock.Now()

	before := stats.Level()
	if advance {
		stats = Advance(stats, now)
	}

	completed, err := e.Store.LoadChallenges(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("loading challenges: %w", err)
	}
	current, done := EvaluateChallenges(e.Weekly, logs, purchases, stats, now, completed)
	for _, c := range done {
		xp += c.XPReward
	}
	stats.TotalXP += xp

	badges, unlocked := EvaluateBadges(badges, CollectValues(logs, purchases, stats), now)

	if err := e.Store.Save(ctx, stats, badges); err != nil {
		return Outcome{}, fmt.Errorf("saving achievements: %w", err)
	}
	if err := e.Store.SaveChallenges(ctx, done); err != nil {
		return Outcome{}, fmt.Errorf("saving challenges: %w", err)
	}
	return Outcome{
		Stats:      stats,
		Badges:     badges,
		Unlocked:   unlocked,
		Challenges: current,
		Completed:  done,
		XPGained:   xp,
		LeveledUp:  stats.Level() > before,
	}, nil
}
