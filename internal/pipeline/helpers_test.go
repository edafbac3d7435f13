package pipeline

import (
	"testing"
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

func mustDate(t testing.TB, s string) time.Time {
	t.Helper()
	layout := "2006-01-02"
	if len(s) > len(layout) {
		layout = "2006-01-02 15:04"
	}
	d, err := time.Parse(layout, s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func ptr(v float64) *float64 { return &v }

// logOn builds a derived log. A zero consumption means unmeasured.
func logOn(t testing.TB, date string, odo, distance, consumption, price float64) model.LogEntry {
	t.Helper()
	e := model.LogEntry{
		ID:        date,
		Date:      mustDate(t, date),
		Odometer:  odo,
		Distance:  distance,
		FuelPrice: price,
	}
	if consumption > 0 {
		e.AvgConsumption = ptr(consumption)
	}
	return DeriveLog(e)
}

func buy(t testing.TB, date string, liters, price float64) model.PurchaseEvent {
	t.Helper()
	return model.PurchaseEvent{
		ID:            date,
		Date:          mustDate(t, date),
		Liters:        liters,
		PricePerLiter: price,
		TotalAmount:   liters * price,
	}
}

func forecasterAt(t testing.TB, now string) *Forecaster {
	t.Helper()
	return &Forecaster{
		Clock:                 clock.Fixed{T: mustDate(t, now)},
		TankCapacityL:         45,
		FallbackRefuelDays:    14,
		DefaultConsumption:    7.5,
		YearEndMinDay:         15,
		YearEndMinCost:        100,
		MaintenanceWindowDays: 30,
	}
}
