package pipeline

import (
	"math"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/model"
)

// Defaults used when a Forecaster field is zero or negative.
const (
	DefaultTankCapacityL      = 45.0
	DefaultFallbackRefuelDays = 14.0
	DefaultConsumption        = 7.5
	DefaultYearEndMinDay      = 15
	DefaultYearEndMinCost     = 100.0
	DefaultWindowDays         = 30
	DefaultBudgetWarnPct      = 80.0
)

// Forecaster projects refuels, range, maintenance and yearly totals.
// Every method is a pure function of its arguments and Clock.
// Non-positive tuning fields fall back to the Default constants, so the
// year-end guard and the refuel interval can never be switched off.
type Forecaster struct {
	Clock                 clock.Clock
	TankCapacityL         float64
	FallbackRefuelDays    float64
	DefaultConsumption    float64
	YearEndMinDay         int
	YearEndMinCost        float64
	MaintenanceWindowDays int
	BudgetWarnPct         float64
}

// NewForecaster builds a Forecaster from config.
func NewForecaster(cfg config.Config, clk clock.Clock) *Forecaster {
	return &Forecaster{
		Clock:                 clk,
		TankCapacityL:         cfg.Vehicle.TankCapacityL,
		FallbackRefuelDays:    cfg.Forecast.FallbackRefuelDays,
		DefaultConsumption:    cfg.Vehicle.DefaultConsumption,
		YearEndMinDay:         cfg.Forecast.YearEndMinDay,
		YearEndMinCost:        cfg.Forecast.YearEndMinCost,
		MaintenanceWindowDays: cfg.Forecast.WindowDays,
		BudgetWarnPct:         cfg.Budget.WarningThreshold,
	}
}

// NextRefuel projects the next purchase from the mean gap between past
// purchases. With a single purchase the fallback interval is used.
func (f *Forecaster) NextRefuel(purchases []model.PurchaseEvent) (*model.NextRefuelForecast, bool) {
	if len(purchases) == 0 {
		return nil, false
	}
	sorted := SortPurchases(purchases)
	first, last := sorted[0], sorted[len(sorted)-1]

	fc := &model.NextRefuelForecast{}
	if len(sorted) >= 2 {
		fc.MeanIntervalDays = clock.ElapsedDays(first.Date, last.Date) / float64(len(sorted)-1)
	} else {
		fc.MeanIntervalDays = orDefault(f.FallbackRefuelDays, DefaultFallbackRefuelDays)
		fc.Fallback = true
	}

	fc.Date = clock.AddDays(last.Date, fc.MeanIntervalDays)
	fc.DaysRemaining = int(math.Round(clock.ElapsedDays(f.Clock.Now().In(fc.Date.Location()), fc.Date)))
	return fc, true
}

// AvgDailyDistance returns km per day from the odometer spread of logs
// within the trailing window ending at the newest log.
func (f *Forecaster) AvgDailyDistance(logs []model.LogEntry) float64 {
	if len(logs) == 0 {
		return 0
	}
	sorted := SortLogs(logs)
	newest := sorted[len(sorted)-1]
	windowStart := clock.StartOfDay(newest.Date).AddDate(0, 0, -f.windowDays())

	oldest := newest
	for _, l := range sorted {
		if !l.Date.Before(windowStart) {
			oldest = l
			break
		}
	}

	delta := newest.Odometer - oldest.Odometer
	days := clock.CalendarDays(oldest.Date, newest.Date)
	if days < 1 {
		if delta == 0 {
			return 0
		}
		days = 1
	}
	if delta <= 0 {
		return 0
	}
	return delta / float64(days)
}

// TankEmpty estimates when the fuel added at the last full-tank fill runs
// out. It needs a full-tank anchor with an odometer and a positive daily
// distance.
func (f *Forecaster) TankEmpty(logs []model.LogEntry, purchases []model.PurchaseEvent, currentOdometer float64) (*model.TankEmptyForecast, bool) {
	anchor, ok := lastFullTank(logs, purchases, true)
	if !ok {
		return nil, false
	}
	avgDaily := f.AvgDailyDistance(logs)
	if avgDaily <= 0 {
		return nil, false
	}

	c := f.recentConsumption(logs)
	driven := math.Max(0, currentOdometer-anchor.odometer)
	used := driven / 100 * c
	remaining := math.Max(0, orDefault(f.TankCapacityL, DefaultTankCapacityL)-used)
	rangeKm := remaining / c * 100
	days := int(math.Ceil(rangeKm / avgDaily))

	return &model.TankEmptyForecast{
		Date:            clock.StartOfDay(f.Clock.Now()).AddDate(0, 0, days),
		DaysRemaining:   days,
		RemainingLiters: remaining,
		RangeKm:         rangeKm,
		Consumption:     c,
	}, true
}

// recentConsumption averages measured consumption over the trailing
// window, falling back to the configured default.
func (f *Forecaster) recentConsumption(logs []model.LogEntry) float64 {
	if len(logs) > 0 {
		sorted := SortLogs(logs)
		newest := sorted[len(sorted)-1]
		w := model.Window{
			Start: clock.StartOfDay(newest.Date).AddDate(0, 0, -f.windowDays()),
			End:   clock.StartOfDay(newest.Date).AddDate(0, 0, 1),
		}
		if agg := Aggregate(sorted, w); agg.AvgConsumption > 0 {
			return agg.AvgConsumption
		}
	}
	return orDefault(f.DefaultConsumption, DefaultConsumption)
}

// MaintenanceDue picks the upcoming item with the least remaining distance
// and converts it to days at the current driving pace.
func (f *Forecaster) MaintenanceDue(logs []model.LogEntry, items []model.MaintenanceItem, currentOdometer float64) (*model.MaintenanceForecast, bool) {
	avgDaily := f.AvgDailyDistance(logs)
	if avgDaily <= 0 {
		return nil, false
	}

	var next *model.MaintenanceItem
	for i, it := range items {
		remaining := it.RemainingKm(currentOdometer)
		if remaining <= 0 {
			continue
		}
		if next == nil || remaining < next.RemainingKm(currentOdometer) {
			next = &items[i]
		}
	}
	if next == nil {
		return nil, false
	}

	remaining := next.RemainingKm(currentOdometer)
	days := int(math.Ceil(remaining / avgDaily))
	return &model.MaintenanceForecast{
		ItemID:        next.ID,
		Title:         next.Title,
		Date:          clock.StartOfDay(f.Clock.Now()).AddDate(0, 0, days),
		DaysRemaining: days,
		RemainingKm:   remaining,
	}, true
}

// YearEnd extrapolates year-to-date totals to the end of the calendar year.
// Early in the year or with little spend there is no forecast.
func (f *Forecaster) YearEnd(logs []model.LogEntry, purchases []model.PurchaseEvent) (*model.YearEndForecast, bool) {
	now := f.Clock.Now()
	dayOfYear := now.YearDay()
	minDay := f.YearEndMinDay
	if minDay <= 0 {
		minDay = DefaultYearEndMinDay
	}
	if dayOfYear < minDay {
		return nil, false
	}

	ytd := model.Window{
		Start: Year(now).Start,
		End:   clock.StartOfDay(now).AddDate(0, 0, 1),
	}
	logAgg := Aggregate(logs, ytd)
	buyAgg := AggregatePurchases(purchases, ytd)

	fc := &model.YearEndForecast{
		Year:        now.Year(),
		DayOfYear:   dayOfYear,
		YTDCost:     logAgg.Cost + buyAgg.Spent,
		YTDDistance: logAgg.Distance,
		YTDFuel:     logAgg.FuelLiters + buyAgg.Liters,
	}
	if fc.YTDCost < orDefault(f.YearEndMinCost, DefaultYearEndMinCost) {
		return nil, false
	}

	remainingDays := float64(clock.DaysIn(now.Year()) - dayOfYear)
	project := func(v float64) float64 {
		return v + v/float64(dayOfYear)*remainingDays
	}
	fc.ProjectedCost = project(fc.YTDCost)
	fc.ProjectedDistance = project(fc.YTDDistance)
	fc.ProjectedFuel = project(fc.YTDFuel)

	prior := Previous(Year(now))
	lastYear := Aggregate(logs, prior).Cost + AggregatePurchases(purchases, prior).Spent
	if lastYear > 0 {
		change := (fc.ProjectedCost - lastYear) / lastYear * 100
		fc.LastYearCost = &lastYear
		fc.ChangeVsLastYear = &change
	}
	return fc, true
}

// MonthEnd projects this month's purchase spend at the current daily rate.
// budget may be nil.
func (f *Forecaster) MonthEnd(purchases []model.PurchaseEvent, budget *float64) (*model.MonthEndForecast, bool) {
	now := f.Clock.Now()
	w := Month(now)
	w.End = clock.StartOfDay(now).AddDate(0, 0, 1)
	spent := AggregatePurchases(purchases, w).Spent
	if spent <= 0 {
		return nil, false
	}

	daysInMonth := clock.DaysInMonth(now)
	fc := &model.MonthEndForecast{
		SpentSoFar:    spent,
		Projected:     spent / float64(now.Day()) * float64(daysInMonth),
		DaysRemaining: daysInMonth - now.Day(),
		Budget:        budget,
	}
	if budget != nil && *budget > 0 {
		fc.UsedPct = spent / *budget * 100
		fc.OverBudget = fc.Projected > *budget
		fc.NearBudget = !fc.OverBudget && fc.UsedPct >= orDefault(f.BudgetWarnPct, DefaultBudgetWarnPct)
	}
	return fc, true
}

func (f *Forecaster) windowDays() int {
	if f.MaintenanceWindowDays > 0 {
		return f.MaintenanceWindowDays
	}
	return DefaultWindowDays
}

func orDefault(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// Outlook runs every estimator over one logbook. budget may be nil.
func (f *Forecaster) Outlook(logs []model.LogEntry, purchases []model.PurchaseEvent, items []model.MaintenanceItem, budget *float64) model.Outlook {
	odo := CurrentOdometer(logs, purchases)
	out := model.Outlook{
		GeneratedAt: f.Clock.Now(),
		Odometer:    odo,
		Insights:    f.Insights(logs, purchases, items, budget),
	}
	if fc, ok := f.NextRefuel(purchases); ok {
		out.NextRefuel = fc
	}
	if fc, ok := f.TankEmpty(logs, purchases, odo); ok {
		out.TankEmpty = fc
	}
	if fc, ok := f.MaintenanceDue(logs, items, odo); ok {
		out.Maintenance = fc
	}
	if fc, ok := f.YearEnd(logs, purchases); ok {
		out.YearEnd = fc
	}
	if fc, ok := f.MonthEnd(purchases, budget); ok {
		out.MonthEnd = fc
	}
	if out.Insights == nil {
		out.Insights = []model.Insight{}
	}
	return out
}
