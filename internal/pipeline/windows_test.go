package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/model"
)

func TestWindows(t *testing.T) {
	tests := []struct {
		name      string
		w         model.Window
		wantStart string
		wantEnd   string
	}{
		{"trailing 7", TrailingDays(mustDate(t, "2024-01-10 15:00"), 7), "2024-01-04", "2024-01-11"},
		{"trailing clamps to 1", TrailingDays(mustDate(t, "2024-01-10"), 0), "2024-01-10", "2024-01-11"},
		{"week on monday", Week(mustDate(t, "2024-01-08")), "2024-01-08", "2024-01-15"},
		{"week on sunday", Week(mustDate(t, "2024-01-14 23:00")), "2024-01-08", "2024-01-15"},
		{"month", Month(mustDate(t, "2024-02-29")), "2024-02-01", "2024-03-01"},
		{"year", Year(mustDate(t, "2024-07-04")), "2024-01-01", "2025-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, mustDate(t, tt.wantStart), tt.w.Start)
			assert.Equal(t, mustDate(t, tt.wantEnd), tt.w.End)
		})
	}
}

func TestPrevious(t *testing.T) {
	tests := []struct {
		name      string
		w         model.Window
		wantStart string
		wantEnd   string
	}{
		{"week", Week(mustDate(t, "2024-01-10")), "2024-01-01", "2024-01-08"},
		{"trailing", TrailingDays(mustDate(t, "2024-01-10"), 7), "2023-12-28", "2024-01-04"},
		{"march to february", Month(mustDate(t, "2024-03-15")), "2024-02-01", "2024-03-01"},
		{"january to december", Month(mustDate(t, "2024-01-15")), "2023-12-01", "2024-01-01"},
		{"year", Year(mustDate(t, "2024-05-01")), "2023-01-01", "2024-01-01"},
		{"trailing 30 aligned with april", TrailingDays(mustDate(t, "2024-04-30"), 30), "2024-03-02", "2024-04-01"},
		{"trailing 28 aligned with february", TrailingDays(mustDate(t, "2023-02-28"), 28), "2023-01-04", "2023-02-01"},
		{"span steps back by duration", model.Window{
			Start: mustDate(t, "2024-01-01 06:00"), End: mustDate(t, "2024-01-01 18:00"),
		}, "2023-12-31 18:00", "2024-01-01 06:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prev := Previous(tt.w)
			assert.Equal(t, mustDate(t, tt.wantStart), prev.Start)
			assert.Equal(t, mustDate(t, tt.wantEnd), prev.End)
			assert.Equal(t, tt.w.Kind, prev.Kind)
		})
	}
}

func TestSinceLastFullTank(t *testing.T) {
	now := mustDate(t, "2024-01-10 12:00")

	_, ok := SinceLastFullTank(nil, []model.PurchaseEvent{buy(t, "2024-01-02", 30, 40)}, now)
	assert.False(t, ok, "no anchor without a full-tank flag")

	full := buy(t, "2024-01-03 09:00", 40, 40)
	full.IsFullTank = true
	logs := []model.LogEntry{
		{Date: mustDate(t, "2024-01-02"), IsFullTank: true},
		{Date: mustDate(t, "2024-01-05"), IsFullTank: true},
		{Date: mustDate(t, "2024-01-07")},
	}

	w, ok := SinceLastFullTank(logs, []model.PurchaseEvent{full}, now)
	require.True(t, ok)
	assert.Equal(t, mustDate(t, "2024-01-05"), w.Start)
	assert.Equal(t, mustDate(t, "2024-01-11"), w.End)

	w, ok = SinceLastFullTank(logs[:1], []model.PurchaseEvent{full}, now)
	require.True(t, ok)
	assert.Equal(t, full.Date, w.Start)
}
