package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/theirongolddev/fuellog/internal/model"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name           string
		cur, prev      float64
		higherIsBetter bool
		wantDelta      float64
		wantDir        model.Direction
		wantImproved   bool
	}{
		{"zero previous", 120, 0, false, 0, model.DirectionFlat, false},
		{"negative previous", 120, -5, false, 0, model.DirectionFlat, false},
		{"cost up is worse", 110, 100, false, 10, model.DirectionUp, false},
		{"distance up is better", 110, 100, true, 10, model.DirectionUp, true},
		{"cost down is better", 80, 100, false, -20, model.DirectionDown, true},
		{"under one percent is flat", 100.5, 100, false, 0.5, model.DirectionFlat, false},
		{"two percent moves", 102, 100, true, 2, model.DirectionUp, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur := model.PeriodAggregate{Cost: tt.cur}
			prev := model.PeriodAggregate{Cost: tt.prev}

			r := Compare(cur, prev, model.FieldCost, tt.higherIsBetter)

			assert.Equal(t, model.FieldCost, r.Field)
			assert.InDelta(t, tt.wantDelta, r.PercentDelta, 1e-9)
			assert.Equal(t, tt.wantDir, r.Direction)
			assert.Equal(t, tt.wantImproved, r.Improved())
			assert.Equal(t, tt.higherIsBetter, r.HigherIsBetter)
		})
	}
}

func TestCompare_HigherIsBetterNeverChangesDelta(t *testing.T) {
	cur := model.PeriodAggregate{Distance: 300}
	prev := model.PeriodAggregate{Distance: 200}

	a := Compare(cur, prev, model.FieldDistance, true)
	b := Compare(cur, prev, model.FieldDistance, false)

	assert.Equal(t, a.PercentDelta, b.PercentDelta)
	assert.Equal(t, a.Direction, b.Direction)
	assert.NotEqual(t, a.Improved(), b.Improved())
	assert.True(t, b.Regressed())
}

func TestFieldValue(t *testing.T) {
	agg := model.PeriodAggregate{
		Distance: 1, Cost: 2, FuelLiters: 3, EntryCount: 4, AvgConsumption: 5, CostPerKm: 6,
	}
	assert.Equal(t, 1.0, FieldValue(agg, model.FieldDistance))
	assert.Equal(t, 2.0, FieldValue(agg, model.FieldCost))
	assert.Equal(t, 3.0, FieldValue(agg, model.FieldFuel))
	assert.Equal(t, 4.0, FieldValue(agg, model.FieldEntries))
	assert.Equal(t, 5.0, FieldValue(agg, model.FieldConsumption))
	assert.Equal(t, 6.0, FieldValue(agg, model.FieldCostPerKm))
	assert.Zero(t, FieldValue(agg, "bogus"))
}

func TestCompareWindows(t *testing.T) {
	logs := []model.LogEntry{
		logOn(t, "2024-01-02", 1100, 100, 6, 40),
		logOn(t, "2024-01-09", 1300, 200, 6, 40),
	}

	results := CompareWindows(logs, Week(mustDate(t, "2024-01-10")))

	assert.Len(t, results, len(DefaultTrendFields))
	for _, r := range results {
		if r.Field == model.FieldDistance {
			assert.InDelta(t, 100, r.PercentDelta, 1e-9)
			assert.True(t, r.Improved())
		}
		if r.Field == model.FieldConsumption {
			assert.Equal(t, model.DirectionFlat, r.Direction)
		}
	}
}

func TestCompareWindows_TrailingAlignedWithMonthIsFlat(t *testing.T) {
	var logs []model.LogEntry
	start := mustDate(t, "2024-03-01")
	for d := start; d.Before(mustDate(t, "2024-05-01")); d = d.AddDate(0, 0, 1) {
		logs = append(logs, DeriveLog(model.LogEntry{Date: d, Distance: 10, FuelPrice: 40}))
	}

	results := CompareWindows(logs, TrailingDays(mustDate(t, "2024-04-30"), 30))

	for _, r := range results {
		if r.Field == model.FieldDistance {
			assert.InDelta(t, 300, r.Current, 1e-9)
			assert.InDelta(t, 300, r.Previous, 1e-9)
			assert.Equal(t, model.DirectionFlat, r.Direction)
		}
	}
}
