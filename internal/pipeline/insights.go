package pipeline

import (
	"fmt"
	"math"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

// Insight rule thresholds.
const (
	kmTrendSpan          = 7
	kmTrendThreshold     = 15.0
	consumptionMinLogs   = 5
	consumptionHighRatio = 1.2
	consumptionLowRatio  = 0.85
	spendSpanDays        = 14
	spendSpikeThreshold  = 15.0
	refuelSoonDays       = 2
)

// Insights derives short rule-based observations from recent activity.
// budget may be nil.
func (f *Forecaster) Insights(logs []model.LogEntry, purchases []model.PurchaseEvent, items []model.MaintenanceItem, budget *float64) []model.Insight {
	sortedLogs := SortLogs(logs)

	var out []model.Insight
	if in, ok := f.monthEndInsight(purchases, budget); ok {
		out = append(out, in)
	}
	if in, ok := kmTrendInsight(sortedLogs); ok {
		out = append(out, in)
	}
	if in, ok := consumptionInsight(sortedLogs); ok {
		out = append(out, in)
	}
	if in, ok := f.spendSpikeInsight(purchases); ok {
		out = append(out, in)
	}
	if in, ok := f.refuelInsight(purchases); ok {
		out = append(out, in)
	}
	out = append(out, f.maintenanceInsights(items, CurrentOdometer(logs, purchases))...)
	return out
}

func (f *Forecaster) monthEndInsight(purchases []model.PurchaseEvent, budget *float64) (model.Insight, bool) {
	fc, ok := f.MonthEnd(purchases, budget)
	if !ok {
		return model.Insight{}, false
	}
	in := model.Insight{
		ID:      "month-end",
		Kind:    model.InsightPrediction,
		Title:   "Month-end projection",
		Message: fmt.Sprintf("At the current pace you will spend %.0f on fuel this month.", fc.Projected),
	}
	switch {
	case fc.OverBudget:
		in.Kind = model.InsightWarning
		in.Message += fmt.Sprintf(" That is %.0f over budget.", fc.Projected-*fc.Budget)
	case fc.NearBudget:
		in.Kind = model.InsightWarning
		in.Message += fmt.Sprintf(" %.0f%% of the budget is already spent.", fc.UsedPct)
	case fc.Budget != nil && *fc.Budget > 0:
		in.Message += fmt.Sprintf(" %.0f under budget.", *fc.Budget-fc.Projected)
	}
	return in, true
}

// kmTrendInsight compares mean distance of the last seven logs with the
// seven before them.
func kmTrendInsight(sorted []model.LogEntry) (model.Insight, bool) {
	if len(sorted) < 2*kmTrendSpan {
		return model.Insight{}, false
	}
	n := len(sorted)
	recent := meanDistance(sorted[n-kmTrendSpan:])
	prior := meanDistance(sorted[n-2*kmTrendSpan : n-kmTrendSpan])

	r := CompareValues(recent, prior, true)
	if math.Abs(r.PercentDelta) <= kmTrendThreshold {
		return model.Insight{}, false
	}
	word := "up"
	if r.PercentDelta < 0 {
		word = "down"
	}
	return model.Insight{
		ID:      "km-trend",
		Kind:    model.InsightPrediction,
		Title:   "Usage trend",
		Message: fmt.Sprintf("Averaging %.0f km per log lately, %s %.0f%%.", recent, word, math.Abs(r.PercentDelta)),
	}, true
}

func meanDistance(logs []model.LogEntry) float64 {
	if len(logs) == 0 {
		return 0
	}
	var sum float64
	for _, l := range logs {
		sum += l.Distance
	}
	return sum / float64(len(logs))
}

// consumptionInsight flags the latest measured consumption against the
// mean of all measured logs.
func consumptionInsight(sorted []model.LogEntry) (model.Insight, bool) {
	var sum, latest float64
	n := 0
	for _, l := range sorted {
		if c, ok := l.Consumption(); ok {
			sum += c
			latest = c
			n++
		}
	}
	if n < consumptionMinLogs {
		return model.Insight{}, false
	}
	mean := sum / float64(n)

	switch {
	case latest > mean*consumptionHighRatio:
		return model.Insight{
			ID:      "consumption-high",
			Kind:    model.InsightWarning,
			Title:   "High consumption",
			Message: fmt.Sprintf("Latest %.1f L/100km is %.0f%% above your average.", latest, (latest/mean-1)*100),
		}, true
	case latest < mean*consumptionLowRatio:
		return model.Insight{
			ID:      "consumption-low",
			Kind:    model.InsightTip,
			Title:   "Efficient driving",
			Message: fmt.Sprintf("Latest %.1f L/100km is below your %.1f average.", latest, mean),
		}, true
	}
	return model.Insight{}, false
}

// spendSpikeInsight compares purchase spend over the last two weeks with
// the two weeks before.
func (f *Forecaster) spendSpikeInsight(purchases []model.PurchaseEvent) (model.Insight, bool) {
	w := TrailingDays(f.Clock.Now(), spendSpanDays)
	cur := AggregatePurchases(purchases, w).Spent
	prev := AggregatePurchases(purchases, Previous(w)).Spent

	r := CompareValues(cur, prev, false)
	if r.PercentDelta <= spendSpikeThreshold {
		return model.Insight{}, false
	}
	return model.Insight{
		ID:      "spend-spike",
		Kind:    model.InsightWarning,
		Title:   "Spending up",
		Message: fmt.Sprintf("Fuel spend over the last %d days is up %.0f%%.", spendSpanDays, r.PercentDelta),
	}, true
}

func (f *Forecaster) refuelInsight(purchases []model.PurchaseEvent) (model.Insight, bool) {
	fc, ok := f.NextRefuel(purchases)
	if !ok || fc.DaysRemaining < 0 || fc.DaysRemaining > refuelSoonDays {
		return model.Insight{}, false
	}
	msg := "You will probably need fuel today."
	if fc.DaysRemaining > 0 {
		msg = fmt.Sprintf("Next refuel expected in %d days (%s).", fc.DaysRemaining, fc.Date.Format("Jan 2"))
	}
	return model.Insight{
		ID:      "refuel-soon",
		Kind:    model.InsightReminder,
		Title:   "Refuel reminder",
		Message: msg,
	}, true
}

// maintenanceInsights reminds about items inside their notify distance or
// notify days, and warns about overdue ones.
func (f *Forecaster) maintenanceInsights(items []model.MaintenanceItem, odometer float64) []model.Insight {
	today := clock.StartOfDay(f.Clock.Now())
	var out []model.Insight
	for _, it := range items {
		status := it.Status(odometer)
		daysLeft := 0
		dateDue := false
		if it.DueDate != nil && it.NotifyBeforeDays > 0 {
			daysLeft = clock.CalendarDays(today, *it.DueDate)
			dateDue = daysLeft <= it.NotifyBeforeDays
		}
		if status == model.MaintenanceOK && !dateDue {
			continue
		}

		in := model.Insight{
			ID:      "maintenance-" + it.ID,
			Kind:    model.InsightReminder,
			Title:   "Maintenance",
			Message: fmt.Sprintf("%s due in %.0f km.", it.Title, it.RemainingKm(odometer)),
		}
		switch {
		case status == model.MaintenanceCritical:
			in.Kind = model.InsightWarning
			in.Message = fmt.Sprintf("%s is overdue by %.0f km.", it.Title, -it.RemainingKm(odometer))
		case status == model.MaintenanceOK && daysLeft < 0:
			in.Kind = model.InsightWarning
			in.Message = fmt.Sprintf("%s was due %d days ago.", it.Title, -daysLeft)
		case status == model.MaintenanceOK:
			in.Message = fmt.Sprintf("%s due in %d days.", it.Title, daysLeft)
		}
		out = append(out, in)
	}
	return out
}
