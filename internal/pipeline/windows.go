package pipeline

import (
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

// TrailingDays returns the n calendar days ending today, inclusive.
func TrailingDays(now time.Time, n int) model.Window {
	if n < 1 {
		n = 1
	}
	today := clock.StartOfDay(now)
	return model.Window{
		Start: today.AddDate(0, 0, -(n - 1)),
		End:   today.AddDate(0, 0, 1),
		Kind:  model.WindowTrailing,
	}
}

// Week returns the Monday-start week containing now.
func Week(now time.Time) model.Window {
	today := clock.StartOfDay(now)
	sinceMonday := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -sinceMonday)
	return model.Window{Start: start, End: start.AddDate(0, 0, 7), Kind: model.WindowWeek}
}

// Month returns the calendar month containing now.
func Month(now time.Time) model.Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return model.Window{Start: start, End: start.AddDate(0, 1, 0), Kind: model.WindowMonth}
}

// Year returns the calendar year containing now.
func Year(now time.Time) model.Window {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return model.Window{Start: start, End: start.AddDate(1, 0, 0), Kind: model.WindowYear}
}

// SinceLastFullTank returns the window from the latest full-tank fill up to
// the end of today. There is no window until a fill is flagged full.
func SinceLastFullTank(logs []model.LogEntry, purchases []model.PurchaseEvent, now time.Time) (model.Window, bool) {
	anchor, ok := lastFullTank(logs, purchases, false)
	if !ok {
		return model.Window{}, false
	}
	return model.Window{
		Start: anchor.at,
		End:   clock.StartOfDay(now).AddDate(0, 0, 1),
	}, true
}

// Previous returns the window of the same kind immediately before w.
// Trailing windows and weeks step back by their number of calendar days,
// months and years by one calendar unit. Other windows step back by their
// duration.
func Previous(w model.Window) model.Window {
	start := w.Start
	switch w.Kind {
	case model.WindowMonth:
		return model.Window{Start: start.AddDate(0, -1, 0), End: start, Kind: w.Kind}
	case model.WindowYear:
		return model.Window{Start: start.AddDate(-1, 0, 0), End: start, Kind: w.Kind}
	case model.WindowTrailing, model.WindowWeek:
		days := clock.CalendarDays(start, w.End)
		return model.Window{Start: start.AddDate(0, 0, -days), End: start, Kind: w.Kind}
	}
	return model.Window{Start: start.Add(-w.Duration()), End: start}
}

type fullTank struct {
	at       time.Time
	odometer float64
	hasOdo   bool
}

// lastFullTank finds the most recent full-tank purchase or log.
// Logs anchor at the start of their calendar day. With requireOdo set,
// purchases without an odometer reading are ignored.
func lastFullTank(logs []model.LogEntry, purchases []model.PurchaseEvent, requireOdo bool) (fullTank, bool) {
	var best fullTank
	found := false
	for _, p := range purchases {
		if !p.IsFullTank || (requireOdo && p.Odometer == nil) {
			continue
		}
		if !found || !p.Date.Before(best.at) {
			best = fullTank{at: p.Date}
			if p.Odometer != nil {
				best.odometer = *p.Odometer
				best.hasOdo = true
			}
			found = true
		}
	}
	for _, l := range logs {
		if !l.IsFullTank {
			continue
		}
		at := clock.StartOfDay(l.Date)
		if !found || at.After(best.at) {
			best = fullTank{at: at, odometer: l.Odometer, hasOdo: true}
			found = true
		}
	}
	return best, found
}
