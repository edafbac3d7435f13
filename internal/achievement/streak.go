// Package achievement tracks logging streaks, XP and badge unlocks.
package achievement

import (
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

// Advance applies one activity at now to the streak state.
//
//	no prior activity  -> 1
//	same calendar day  -> unchanged
//	previous day       -> +1
//	anything older     -> 1
//
// LastActivity always becomes now and LongestStreak never decreases.
// Days are compared in now's location.
func Advance(s model.UserStats, now time.Time) model.UserStats {
	if s.LastActivity == nil {
		s.CurrentStreak = 1
	} else {
		switch gap := clock.CalendarDays(s.LastActivity.In(now.Location()), now); {
		case gap <= 0:
			// same day, or a clock that moved backwards
		case gap == 1:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	at := now
	s.LastActivity = &at
	return s
}
