// Package model defines domain types for fuellog logbook entries and metrics.
package model

import "time"

// LogEntry is one manual daily odometer/consumption record.
// FuelLiters, Cost and CostPerKm are derived and never authoritative.
type LogEntry struct {
	ID             string
	VehicleID      string
	Date           time.Time // calendar date, time of day ignored
	Odometer       float64
	Distance       float64
	AvgConsumption *float64 // L/100km, nil when not measured
	IsRefuelDay    bool
	IsFullTank     bool
	FuelPrice      float64
	Station        string
	Notes          string

	FuelLiters float64
	Cost       float64
	CostPerKm  float64
}

// When returns the entry's calendar date.
func (e LogEntry) When() time.Time { return e.Date }

// Vehicle returns the vehicle scope.
func (e LogEntry) Vehicle() string { return e.VehicleID }

// Consumption returns the measured consumption and whether one was recorded.
// A stored zero is treated as unmeasured.
func (e LogEntry) Consumption() (float64, bool) {
	if e.AvgConsumption == nil || *e.AvgConsumption <= 0 {
		return 0, false
	}
	return *e.AvgConsumption, true
}

// PurchaseEvent is one discrete fuel purchase.
type PurchaseEvent struct {
	ID            string
	VehicleID     string
	Date          time.Time
	Liters        float64
	PricePerLiter float64
	TotalAmount   float64 // entered independently, not auto-corrected
	Station       string
	Odometer      *float64
	Location      string
	IsFullTank    bool
	Notes         string
}

// When returns the purchase timestamp.
func (p PurchaseEvent) When() time.Time { return p.Date }

// Vehicle returns the vehicle scope.
func (p PurchaseEvent) Vehicle() string { return p.VehicleID }

// MaintenanceStatus classifies how close a maintenance item is to due.
type MaintenanceStatus string

const (
	MaintenanceOK       MaintenanceStatus = "ok"
	MaintenanceWarning  MaintenanceStatus = "warning"
	MaintenanceCritical MaintenanceStatus = "critical"
)

// MaintenanceItem is a recurring service interval tracked by odometer.
type MaintenanceItem struct {
	ID               string
	VehicleID        string
	Title            string
	IntervalKm       float64
	LastServiceKm    float64
	NotifyBeforeKm   float64
	NotifyBeforeDays int
	DueDate          *time.Time
}

// Vehicle returns the vehicle scope.
func (m MaintenanceItem) Vehicle() string { return m.VehicleID }

// NextDueKm returns the odometer reading at which the item is next due.
func (m MaintenanceItem) NextDueKm() float64 {
	return m.LastServiceKm + m.IntervalKm
}

// RemainingKm returns the distance left until due. Negative means overdue.
func (m MaintenanceItem) RemainingKm(currentOdometer float64) float64 {
	return m.NextDueKm() - currentOdometer
}

// Status classifies the item against the current odometer.
func (m MaintenanceItem) Status(currentOdometer float64) MaintenanceStatus {
	remaining := m.RemainingKm(currentOdometer)
	switch {
	case remaining <= 0:
		return MaintenanceCritical
	case remaining <= m.NotifyBeforeKm:
		return MaintenanceWarning
	default:
		return MaintenanceOK
	}
}
