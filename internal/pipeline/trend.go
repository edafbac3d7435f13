package pipeline

import (
	"math"

	"github.com/theirongolddev/fuellog/internal/model"
)

// flatThreshold is the smallest percent change reported as movement.
const flatThreshold = 1.0

// FieldValue extracts the compared value from an aggregate.
func FieldValue(agg model.PeriodAggregate, field model.TrendField) float64 {
	switch field {
	case model.FieldDistance:
		return agg.Distance
	case model.FieldCost:
		return agg.Cost
	case model.FieldFuel:
		return agg.FuelLiters
	case model.FieldEntries:
		return float64(agg.EntryCount)
	case model.FieldConsumption:
		return agg.AvgConsumption
	case model.FieldCostPerKm:
		return agg.CostPerKm
	default:
		return 0
	}
}

// Compare reports how field moved from previous to current.
// higherIsBetter only labels the result; it never alters the delta.
func Compare(current, previous model.PeriodAggregate, field model.TrendField, higherIsBetter bool) model.TrendResult {
	r := CompareValues(FieldValue(current, field), FieldValue(previous, field), higherIsBetter)
	r.Field = field
	return r
}

// CompareValues is Compare over raw numbers.
func CompareValues(current, previous float64, higherIsBetter bool) model.TrendResult {
	r := model.TrendResult{
		Current:        current,
		Previous:       previous,
		Direction:      model.DirectionFlat,
		HigherIsBetter: higherIsBetter,
	}
	if previous <= 0 {
		return r
	}

	r.PercentDelta = (current - previous) / previous * 100
	switch {
	case math.Abs(r.PercentDelta) < flatThreshold:
		r.Direction = model.DirectionFlat
	case r.PercentDelta > 0:
		r.Direction = model.DirectionUp
	default:
		r.Direction = model.DirectionDown
	}
	return r
}

// DefaultTrendFields lists the fields shown in trend reports and whether
// a higher value is favorable for each.
var DefaultTrendFields = []struct {
	Field          model.TrendField
	HigherIsBetter bool
}{
	{model.FieldCost, false},
	{model.FieldDistance, true},
	{model.FieldFuel, false},
	{model.FieldConsumption, false},
	{model.FieldCostPerKm, false},
}

// CompareWindows aggregates w and the window before it, then compares
// every default trend field.
func CompareWindows(logs []model.LogEntry, w model.Window) []model.TrendResult {
	cur := Aggregate(logs, w)
	prev := Aggregate(logs, Previous(w))
	results := make([]model.TrendResult, 0, len(DefaultTrendFields))
	for _, f := range DefaultTrendFields {
		results = append(results, Compare(cur, prev, f.Field, f.HigherIsBetter))
	}
	return results
}
