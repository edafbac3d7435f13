package pipeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/model"
)

func TestScore_SteadyDriver(t *testing.T) {
	var logs []model.LogEntry
	for d := 11; d <= 30; d++ {
		logs = append(logs, logOn(t, fmt.Sprintf("2024-06-%02d", d), float64(d*40), 40, 6, 0))
	}
	purchases := []model.PurchaseEvent{
		buy(t, "2024-01-10", 30, 40),
		buy(t, "2024-02-10", 30, 60),
		buy(t, "2024-06-12", 30, 45),
		buy(t, "2024-06-26", 30, 45),
	}

	s, ok := Score(logs, purchases, mustDate(t, "2024-06-30 18:00"))

	require.True(t, ok)
	assert.Equal(t, 90, s.Efficiency)
	assert.Equal(t, 100, s.Consistency)
	assert.Equal(t, 100, s.Activity)
	assert.Equal(t, 88, s.CostAwareness)
	assert.Equal(t, 94, s.Overall)
	assert.Equal(t, "A+", s.Grade)
}

func TestScore_SparseVariableWeek(t *testing.T) {
	var logs []model.LogEntry
	for i, c := range []float64{5, 7, 5, 7, 6} {
		logs = append(logs, logOn(t, fmt.Sprintf("2024-06-%02d", 26+i), float64(i*50), 50, c, 0))
	}

	s, ok := Score(logs, nil, mustDate(t, "2024-06-30"))

	require.True(t, ok)
	assert.Equal(t, 82, s.Consistency)
	assert.Equal(t, 25, s.Activity)
	assert.Equal(t, 70, s.CostAwareness, "no recent purchases keeps the default")
	assert.Equal(t, 71, s.Overall)
	assert.Equal(t, "B", s.Grade)
}

func TestScore_NeedsEnoughData(t *testing.T) {
	old := []model.LogEntry{
		logOn(t, "2024-01-01", 0, 40, 6, 0),
		logOn(t, "2024-01-02", 40, 40, 6, 0),
		logOn(t, "2024-01-03", 80, 40, 6, 0),
		logOn(t, "2024-06-29", 120, 40, 6, 0),
		logOn(t, "2024-06-30", 160, 40, 6, 0),
	}
	_, ok := Score(old, nil, mustDate(t, "2024-06-30"))
	assert.False(t, ok, "only two logs inside the window")

	_, ok = Score(old[1:], nil, mustDate(t, "2024-01-03"))
	assert.False(t, ok, "fewer than five logs")

	unmeasured := make([]model.LogEntry, 5)
	for i := range unmeasured {
		unmeasured[i] = logOn(t, fmt.Sprintf("2024-06-%02d", 26+i), 0, 40, 0, 0)
	}
	_, ok = Score(unmeasured, nil, mustDate(t, "2024-06-30"))
	assert.False(t, ok, "no measured consumption")
}

func TestGrade(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{{95, "A+"}, {90, "A+"}, {85, "A"}, {70, "B"}, {60, "C"}, {59, "D"}, {0, "D"}}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Grade(tt.score), "score %d", tt.score)
	}
}
