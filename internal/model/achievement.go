package model

import "time"

// XPPerLevel is the XP needed for each level.
const XPPerLevel = 1000

// UserStats is the persisted gamification record, one per installation.
type UserStats struct {
	TotalXP       int
	CurrentStreak int
	LongestStreak int
	LastActivity  *time.Time
}

// Level is derived from TotalXP.
func (s UserStats) Level() int {
	if s.TotalXP < 0 {
		return 1
	}
	return s.TotalXP/XPPerLevel + 1
}

// XPToNextLevel returns the XP still needed for the next level.
func (s UserStats) XPToNextLevel() int {
	return s.Level()*XPPerLevel - s.TotalXP
}

// BadgeCondition names the statistic a badge threshold applies to.
type BadgeCondition string

const (
	ConditionLogCount    BadgeCondition = "LOG_COUNT"
	ConditionStreakDays  BadgeCondition = "STREAK_DAYS"
	ConditionTotalLiters BadgeCondition = "TOTAL_LITERS"
	ConditionFirstLog    BadgeCondition = "FIRST_LOG"
)

// Badge is a catalog entry plus its unlock state.
// Once UnlockedAt is set it is never cleared.
type Badge struct {
	ID          string
	Name        string
	Description string
	Condition   BadgeCondition
	Threshold   float64
	UnlockedAt  *time.Time
}

// Unlocked reports whether the badge has been earned.
func (b Badge) Unlocked() bool {
	return b.UnlockedAt != nil
}

// ChallengeKind names what a weekly challenge measures.
type ChallengeKind string

const (
	ChallengeStreak     ChallengeKind = "streak"      // current streak reaches Target days
	ChallengeEntries    ChallengeKind = "entries"     // logs plus purchases in the week reach Target
	ChallengeSpendLimit ChallengeKind = "spend_limit" // week closes with spend at or under Target
)

// Challenge is a weekly goal. The same template yields one instance per
// week, identified by Key. Instances expire at the end of their week.
type Challenge struct {
	ID          string
	Title       string
	Description string
	Kind        ChallengeKind
	Target      float64
	XPReward    int

	Progress    float64
	WeekStart   time.Time
	ExpiresAt   time.Time
	CompletedAt *time.Time
}

// Key identifies the instance of a challenge for its week.
func (c Challenge) Key() string {
	return c.ID + "@" + c.WeekStart.Format("2006-01-02")
}

// Completed reports whether the challenge was met before it expired.
func (c Challenge) Completed() bool {
	return c.CompletedAt != nil
}
