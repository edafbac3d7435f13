package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/model"
)

func at(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func statsAt(t *testing.T, last string, current, longest int) model.UserStats {
	ts := at(t, last)
	return model.UserStats{CurrentStreak: current, LongestStreak: longest, LastActivity: &ts}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name        string
		state       model.UserStats
		now         string
		wantCurrent int
		wantLongest int
	}{
		{"first activity", model.UserStats{}, "2024-01-10 09:00", 1, 1},
		{"same day", statsAt(t, "2024-01-10 08:00", 3, 5), "2024-01-10 22:00", 3, 5},
		{"next day", statsAt(t, "2024-01-09 23:50", 3, 3), "2024-01-10 00:10", 4, 4},
		{"next day below longest", statsAt(t, "2024-01-09 12:00", 3, 9), "2024-01-10 12:00", 4, 9},
		{"three days later", statsAt(t, "2024-01-07 12:00", 6, 6), "2024-01-10 12:00", 1, 6},
		{"clock moved backwards", statsAt(t, "2024-01-11 12:00", 2, 2), "2024-01-10 12:00", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := at(t, tt.now)
			got := Advance(tt.state, now)

			assert.Equal(t, tt.wantCurrent, got.CurrentStreak)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
			require.NotNil(t, got.LastActivity)
			assert.True(t, got.LastActivity.Equal(now), "last activity always moves to now")
		})
	}
}

func TestAdvance_DoesNotAliasInput(t *testing.T) {
	state := statsAt(t, "2024-01-09 12:00", 1, 1)
	orig := *state.LastActivity

	Advance(state, at(t, "2024-01-10 12:00"))

	assert.True(t, state.LastActivity.Equal(orig))
}

func TestAdvance_UsesNowLocation(t *testing.T) {
	// 22:30 UTC on Jan 9 is already Jan 10 in UTC+3
	zone := time.FixedZone("TRT", 3*3600)
	last := time.Date(2024, 1, 9, 22, 30, 0, 0, time.UTC)
	state := model.UserStats{CurrentStreak: 2, LongestStreak: 2, LastActivity: &last}

	got := Advance(state, time.Date(2024, 1, 10, 20, 0, 0, 0, zone))

	assert.Equal(t, 2, got.CurrentStreak)
}
