// Package pipeline holds the analytics core: temporal indexing, period
// aggregation, trend comparison, price reconciliation and forecasting.
// Everything here is pure over in-memory slices.
package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

// Aggregate sums the logs dated inside w.
func Aggregate(logs []model.LogEntry, w model.Window) model.PeriodAggregate {
	agg := model.PeriodAggregate{Window: w}

	var consumptionSum float64
	measured := 0
	for _, l := range logs {
		if !w.Contains(l.Date) {
			continue
		}
		agg.EntryCount++
		agg.Distance += l.Distance
		agg.Cost += l.Cost
		agg.FuelLiters += l.FuelLiters

		if c, ok := l.Consumption(); ok {
			consumptionSum += c
			measured++
		}
	}

	if measured > 0 {
		agg.AvgConsumption = consumptionSum / float64(measured)
	}
	if agg.Distance > 0 {
		agg.CostPerKm = agg.Cost / agg.Distance
	}
	return agg
}

// AggregatePurchases sums the purchases made inside w.
func AggregatePurchases(purchases []model.PurchaseEvent, w model.Window) model.PurchaseAggregate {
	agg := model.PurchaseAggregate{Window: w}
	for _, p := range purchases {
		if !w.Contains(p.Date) {
			continue
		}
		agg.Count++
		agg.Liters += p.Liters
		agg.Spent += p.TotalAmount
	}
	return agg
}

// AggregateDays computes per-day statistics inside w, most recent first.
// Days without activity are included as zeros.
func AggregateDays(logs []model.LogEntry, purchases []model.PurchaseEvent, w model.Window) []model.DailyStats {
	loc := w.Start.Location()
	dayMap := make(map[string]*model.DailyStats)

	bucket := func(t time.Time) *model.DailyStats {
		day := clock.StartOfDay(t.In(loc))
		key := day.Format("2006-01-02")
		ds, ok := dayMap[key]
		if !ok {
			ds = &model.DailyStats{Date: day}
			dayMap[key] = ds
		}
		return ds
	}

	for _, l := range logs {
		if !w.Contains(l.Date) {
			continue
		}
		ds := bucket(l.Date)
		ds.Entries++
		ds.Distance += l.Distance
		ds.Cost += l.Cost
		ds.FuelLiters += l.FuelLiters
	}
	for _, p := range purchases {
		if !w.Contains(p.Date) {
			continue
		}
		ds := bucket(p.Date)
		ds.Purchases++
		ds.Spent += p.TotalAmount
	}

	// Fill in every day in the range so charts show gaps as zeros
	for day := clock.StartOfDay(w.Start); day.Before(w.End); day = day.AddDate(0, 0, 1) {
		bucket(day)
	}

	days := make([]model.DailyStats, 0, len(dayMap))
	for _, ds := range dayMap {
		days = append(days, *ds)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date.After(days[j].Date)
	})
	return days
}

// AggregateMonths returns twelve calendar-month buckets for year, January first.
func AggregateMonths(logs []model.LogEntry, purchases []model.PurchaseEvent, year int) []model.MonthlyStats {
	months := make([]model.MonthlyStats, 12)
	for i := range months {
		months[i].Month = time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.Local)
	}

	for _, l := range logs {
		if l.Date.Year() != year {
			continue
		}
		m := &months[l.Date.Month()-1]
		m.Entries++
		m.Distance += l.Distance
		m.Cost += l.Cost
		m.FuelLiters += l.FuelLiters
	}
	for _, p := range purchases {
		if p.Date.Year() != year {
			continue
		}
		months[p.Date.Month()-1].Spent += p.TotalAmount
	}
	return months
}

// Dashboard computes headline totals. A zero year covers all data.
func Dashboard(logs []model.LogEntry, purchases []model.PurchaseEvent, year int) model.DashboardStats {
	logs = FilterByYear(logs, year)
	purchases = FilterByYear(purchases, year)

	var stats model.DashboardStats
	stats.LogCount = len(logs)
	stats.PurchaseCount = len(purchases)

	// Consumption is fuel over distance, restricted to logs with both
	var validFuel, validDistance float64
	var lastLog *model.LogEntry
	for i, l := range logs {
		stats.TotalDistance += l.Distance
		stats.TotalCost += l.Cost
		if l.Distance > 0 && l.FuelLiters > 0 {
			validFuel += l.FuelLiters
			validDistance += l.Distance
		}
		if l.FuelPrice > 0 && (lastLog == nil || !l.Date.Before(lastLog.Date)) {
			lastLog = &logs[i]
		}
	}
	if stats.TotalDistance > 0 {
		stats.AvgCostPerKm = stats.TotalCost / stats.TotalDistance
	}
	if validDistance > 0 {
		stats.AvgConsumption = validFuel / validDistance * 100
	}

	var spent float64
	var lastPurchase *model.PurchaseEvent
	for i, p := range purchases {
		stats.TotalLiters += p.Liters
		spent += p.TotalAmount
		if lastPurchase == nil || !p.Date.Before(lastPurchase.Date) {
			lastPurchase = &purchases[i]
		}
	}
	if stats.TotalLiters > 0 {
		stats.WeightedAvgPrice = spent / stats.TotalLiters
	}

	switch {
	case lastPurchase != nil && lastLog != nil:
		if clock.StartOfDay(lastPurchase.Date).Before(clock.StartOfDay(lastLog.Date)) {
			stats.LastFuelPrice = lastLog.FuelPrice
		} else {
			stats.LastFuelPrice = lastPurchase.PricePerLiter
		}
	case lastPurchase != nil:
		stats.LastFuelPrice = lastPurchase.PricePerLiter
	case lastLog != nil:
		stats.LastFuelPrice = lastLog.FuelPrice
	}

	return stats
}

// UnknownStation labels purchases recorded without a station.
const UnknownStation = "Unknown"

// AggregateStations computes per-station price statistics, cheapest first.
func AggregateStations(purchases []model.PurchaseEvent) []model.StationStats {
	statMap := make(map[string]*model.StationStats)
	priceSums := make(map[string]float64)

	for _, p := range purchases {
		name := p.Station
		if name == "" {
			name = UnknownStation
		}
		ss, ok := statMap[name]
		if !ok {
			ss = &model.StationStats{Station: name, MinPrice: p.PricePerLiter}
			statMap[name] = ss
		}
		ss.Purchases++
		ss.Liters += p.Liters
		priceSums[name] += p.PricePerLiter
		if p.PricePerLiter < ss.MinPrice {
			ss.MinPrice = p.PricePerLiter
		}
	}

	stations := make([]model.StationStats, 0, len(statMap))
	for name, ss := range statMap {
		ss.AvgPrice = priceSums[name] / float64(ss.Purchases)
		stations = append(stations, *ss)
	}
	sort.Slice(stations, func(i, j int) bool {
		if stations[i].AvgPrice != stations[j].AvgPrice {
			return stations[i].AvgPrice < stations[j].AvgPrice
		}
		return stations[i].Station < stations[j].Station
	})
	return stations
}

// CurrentOdometer returns the highest odometer reading across logs and
// purchases, or 0 when none is recorded.
func CurrentOdometer(logs []model.LogEntry, purchases []model.PurchaseEvent) float64 {
	var odo float64
	for _, l := range logs {
		if l.Odometer > odo {
			odo = l.Odometer
		}
	}
	for _, p := range purchases {
		if p.Odometer != nil && *p.Odometer > odo {
			odo = *p.Odometer
		}
	}
	return odo
}
