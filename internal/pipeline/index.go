package pipeline

import (
	"sort"
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

// Dated is implemented by every timestamped domain record.
type Dated interface {
	When() time.Time
}

// Scoped is implemented by records that belong to a vehicle.
type Scoped interface {
	Vehicle() string
}

// SortByDate returns a copy of items sorted ascending by key.
// Items with equal keys keep their input order.
func SortByDate[T any](items []T, key func(T) time.Time) []T {
	out := make([]T, len(items))
	copy(out, items)
	sort.SliceStable(out, func(i, j int) bool {
		return key(out[i]).Before(key(out[j]))
	})
	return out
}

// InWindow returns the items whose key falls within [w.Start, w.End).
func InWindow[T any](items []T, key func(T) time.Time, w model.Window) []T {
	var result []T
	for _, it := range items {
		if w.Contains(key(it)) {
			result = append(result, it)
		}
	}
	return result
}

// AsOf returns the latest item whose key is at or before t.
// sorted must be ordered ascending by key.
func AsOf[T any](sorted []T, key func(T) time.Time, t time.Time) (T, bool) {
	i := sort.Search(len(sorted), func(i int) bool {
		return key(sorted[i]).After(t)
	})
	if i == 0 {
		var zero T
		return zero, false
	}
	return sorted[i-1], true
}

// Before returns the latest item whose key is strictly before t.
// sorted must be ordered ascending by key.
func Before[T any](sorted []T, key func(T) time.Time, t time.Time) (T, bool) {
	i := sort.Search(len(sorted), func(i int) bool {
		return !key(sorted[i]).Before(t)
	})
	if i == 0 {
		var zero T
		return zero, false
	}
	return sorted[i-1], true
}

// SortLogs returns logs sorted ascending by date.
func SortLogs(logs []model.LogEntry) []model.LogEntry {
	return SortByDate(logs, model.LogEntry.When)
}

// SortPurchases returns purchases sorted ascending by timestamp.
func SortPurchases(purchases []model.PurchaseEvent) []model.PurchaseEvent {
	return SortByDate(purchases, model.PurchaseEvent.When)
}

// PurchaseAsOf returns the latest purchase made on or before the calendar
// day of date. A purchase later on the same day still counts.
func PurchaseAsOf(sorted []model.PurchaseEvent, date time.Time) (model.PurchaseEvent, bool) {
	nextDay := clock.StartOfDay(date).AddDate(0, 0, 1)
	return Before(sorted, model.PurchaseEvent.When, nextDay)
}

// FilterByVehicle returns items scoped to vehicle plus the items that
// belong to no vehicle. An empty vehicle matches everything.
func FilterByVehicle[T Scoped](items []T, vehicle string) []T {
	if vehicle == "" {
		return items
	}
	var result []T
	for _, it := range items {
		if v := it.Vehicle(); v == "" || v == vehicle {
			result = append(result, it)
		}
	}
	return result
}

// FilterByYear returns items dated in year. Zero matches everything.
func FilterByYear[T Dated](items []T, year int) []T {
	if year == 0 {
		return items
	}
	var result []T
	for _, it := range items {
		if it.When().Year() == year {
			result = append(result, it)
		}
	}
	return result
}
