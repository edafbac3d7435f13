package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/model"
)

func TestAggregate_EmptyWindow(t *testing.T) {
	logs := []model.LogEntry{logOn(t, "2024-01-01", 1000, 100, 6, 40)}
	w := TrailingDays(mustDate(t, "2024-03-01"), 7)

	agg := Aggregate(logs, w)

	assert.Equal(t, model.PeriodAggregate{Window: w}, agg)
}

func TestAggregate_MeasuredOnlyConsumption(t *testing.T) {
	logs := []model.LogEntry{
		logOn(t, "2024-01-01", 1100, 100, 6, 40),
		logOn(t, "2024-01-02", 1150, 50, 0, 40),
		logOn(t, "2024-01-03", 1200, 50, 8, 40),
		logOn(t, "2024-01-04", 1300, 100, 5, 40),
	}
	w := model.Window{Start: mustDate(t, "2024-01-01"), End: mustDate(t, "2024-01-04")}

	agg := Aggregate(logs, w)

	assert.Equal(t, 3, agg.EntryCount)
	assert.InDelta(t, 200, agg.Distance, 1e-9)
	assert.InDelta(t, 10, agg.FuelLiters, 1e-9)
	assert.InDelta(t, 400, agg.Cost, 1e-9)
	assert.InDelta(t, 7, agg.AvgConsumption, 1e-9)
	assert.InDelta(t, 2, agg.CostPerKm, 1e-9)
}

func TestAggregate_ZeroDistance(t *testing.T) {
	logs := []model.LogEntry{{Date: mustDate(t, "2024-01-01"), Cost: 50}}
	agg := Aggregate(logs, Year(mustDate(t, "2024-01-01")))

	assert.Equal(t, 50.0, agg.Cost)
	assert.Zero(t, agg.CostPerKm)
	assert.Zero(t, agg.AvgConsumption)
}

func TestAggregateDays_FillsGapsMostRecentFirst(t *testing.T) {
	logs := []model.LogEntry{logOn(t, "2024-01-02", 1100, 100, 6, 40)}
	purchases := []model.PurchaseEvent{buy(t, "2024-01-04 17:00", 30, 41)}
	w := TrailingDays(mustDate(t, "2024-01-04"), 4)

	days := AggregateDays(logs, purchases, w)

	require.Len(t, days, 4)
	assert.Equal(t, mustDate(t, "2024-01-04"), days[0].Date)
	assert.Equal(t, mustDate(t, "2024-01-01"), days[3].Date)
	assert.Equal(t, 1, days[0].Purchases)
	assert.InDelta(t, 1230, days[0].Spent, 1e-9)
	assert.Equal(t, 1, days[2].Entries)
	assert.InDelta(t, 100, days[2].Distance, 1e-9)
	assert.Zero(t, days[1].Entries)
}

func TestAggregateMonths(t *testing.T) {
	logs := []model.LogEntry{
		logOn(t, "2024-01-15", 1100, 100, 6, 40),
		logOn(t, "2024-03-01", 1200, 100, 6, 40),
		logOn(t, "2023-03-01", 900, 100, 6, 40),
	}
	purchases := []model.PurchaseEvent{buy(t, "2024-03-02", 10, 40)}

	months := AggregateMonths(logs, purchases, 2024)

	require.Len(t, months, 12)
	assert.Equal(t, 1, months[0].Entries)
	assert.Equal(t, 1, months[2].Entries)
	assert.InDelta(t, 400, months[2].Spent, 1e-9)
	assert.Zero(t, months[11].Entries)
}

func TestDashboard(t *testing.T) {
	logs := []model.LogEntry{
		logOn(t, "2024-01-01", 1100, 100, 6, 40),
		logOn(t, "2024-01-05", 1300, 200, 0, 41),
		logOn(t, "2024-01-08", 1400, 100, 8, 42),
	}
	purchases := []model.PurchaseEvent{
		buy(t, "2024-01-02", 20, 40),
		buy(t, "2024-01-10", 30, 45),
	}

	stats := Dashboard(logs, purchases, 0)

	assert.Equal(t, 3, stats.LogCount)
	assert.Equal(t, 2, stats.PurchaseCount)
	assert.InDelta(t, 400, stats.TotalDistance, 1e-9)
	// 6 L at 40 plus 8 L at 42
	assert.InDelta(t, 576, stats.TotalCost, 1e-9)
	assert.InDelta(t, 1.44, stats.AvgCostPerKm, 1e-9)
	assert.InDelta(t, 7, stats.AvgConsumption, 1e-9)
	assert.InDelta(t, 50, stats.TotalLiters, 1e-9)
	assert.InDelta(t, 2150.0/50, stats.WeightedAvgPrice, 1e-9)
	assert.Equal(t, 45.0, stats.LastFuelPrice, "purchase on Jan 10 is newer than the Jan 8 log")

	stats = Dashboard(logs, purchases[:1], 0)
	assert.Equal(t, 42.0, stats.LastFuelPrice)

	stats = Dashboard(logs, purchases, 2023)
	assert.Equal(t, model.DashboardStats{}, stats)
}

func TestAggregateStations(t *testing.T) {
	a := buy(t, "2024-01-01", 30, 42)
	a.Station = "Shell"
	b := buy(t, "2024-01-05", 30, 44)
	b.Station = "Shell"
	c := buy(t, "2024-01-09", 20, 41)
	c.Station = "Opet"
	d := buy(t, "2024-01-12", 10, 45)

	stations := AggregateStations([]model.PurchaseEvent{a, b, c, d})

	require.Len(t, stations, 3)
	assert.Equal(t, "Opet", stations[0].Station)
	assert.Equal(t, "Shell", stations[1].Station)
	assert.Equal(t, 2, stations[1].Purchases)
	assert.InDelta(t, 43, stations[1].AvgPrice, 1e-9)
	assert.Equal(t, 42.0, stations[1].MinPrice)
	assert.Equal(t, UnknownStation, stations[2].Station)
}

func TestCurrentOdometer(t *testing.T) {
	p := buy(t, "2024-01-10", 30, 40)
	p.Odometer = ptr(1500)
	logs := []model.LogEntry{{Odometer: 1400}, {Odometer: 1350}}

	assert.Equal(t, 1500.0, CurrentOdometer(logs, []model.PurchaseEvent{p}))
	assert.Equal(t, 1400.0, CurrentOdometer(logs, nil))
	assert.Zero(t, CurrentOdometer(nil, nil))
}
