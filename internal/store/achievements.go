package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

// Load returns the persisted user stats and unlocked badges.
// A fresh database yields zero stats and no badges.
func (s *Store) Load(ctx context.Context) (model.UserStats, []model.Badge, error) {
	var stats model.UserStats
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT total_xp, current_streak, longest_streak, last_activity FROM user_stats WHERE id = 1",
	).Scan(&stats.TotalXP, &stats.CurrentStreak, &stats.LongestStreak, &last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return stats, nil, fmt.Errorf("loading user stats: %w", err)
	}
	stats.LastActivity = parseTime(last)

	rows, err := s.db.QueryContext(ctx, "SELECT badge_id, name, unlocked_at FROM badges ORDER BY unlocked_at")
	if err != nil {
		return stats, nil, fmt.Errorf("loading badges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var badges []model.Badge
	for rows.Next() {
		var b model.Badge
		var name, at sql.NullString
		if err := rows.Scan(&b.ID, &name, &at); err != nil {
			return stats, nil, err
		}
		b.Name = name.String
		b.UnlockedAt = parseTime(at)
		badges = append(badges, b)
	}
	return stats, badges, rows.Err()
}

// Save writes user stats and every unlocked badge in one transaction.
// Badge rows are only ever added, so unlocks survive any later Save.
func (s *Store) Save(ctx context.Context, stats model.UserStats, badges []model.Badge) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO user_stats
		(id, total_xp, current_streak, longest_streak, last_activity)
		VALUES (1, ?, ?, ?, ?)`,
		stats.TotalXP, stats.CurrentStreak, stats.LongestStreak, formatTime(stats.LastActivity),
	)
	if err != nil {
		return fmt.Errorf("saving user stats: %w", err)
	}

	for _, b := range badges {
		if b.UnlockedAt == nil {
			continue
		}
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO badges (badge_id, name, unlocked_at)
			VALUES (?, ?, ?)`, b.ID, nullString(b.Name), formatTime(b.UnlockedAt))
		if err != nil {
			return fmt.Errorf("saving badge %s: %w", b.ID, err)
		}
	}

	return tx.Commit()
}

// LoadChallenges returns completion times keyed by challenge instance.
func (s *Store) LoadChallenges(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT challenge_key, completed_at FROM challenges")
	if err != nil {
		return nil, fmt.Errorf("loading challenges: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]time.Time)
	for rows.Next() {
		var key string
		var at sql.NullString
		if err := rows.Scan(&key, &at); err != nil {
			return nil, err
		}
		if t := parseTime(at); t != nil {
			out[key] = *t
		}
	}
	return out, rows.Err()
}

// SaveChallenges records completed challenge instances. A completion is
// written once and never overwritten.
func (s *Store) SaveChallenges(ctx context.Context, completed []model.Challenge) error {
	if len(completed) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, c := range completed {
		if c.CompletedAt == nil {
			continue
		}
		week := c.WeekStart
		_, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO challenges
			(challenge_key, challenge_id, week_start, xp_reward, completed_at)
			VALUES (?, ?, ?, ?, ?)`,
			c.Key(), c.ID, formatTime(&week), c.XPReward, formatTime(c.CompletedAt))
		if err != nil {
			return fmt.Errorf("saving challenge %s: %w", c.Key(), err)
		}
	}
	return tx.Commit()
}
