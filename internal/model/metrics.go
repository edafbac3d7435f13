package model

import "time"

// WindowKind tells Previous how to step a window back.
type WindowKind string

const (
	WindowSpan     WindowKind = ""         // arbitrary interval, stepped back by its duration
	WindowTrailing WindowKind = "trailing" // whole calendar days
	WindowWeek     WindowKind = "week"
	WindowMonth    WindowKind = "month"
	WindowYear     WindowKind = "year"
)

// Window is a half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
	Kind  WindowKind
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// PeriodAggregate holds log totals for one window. Never persisted.
type PeriodAggregate struct {
	Window     Window
	Distance   float64
	Cost       float64
	FuelLiters float64
	EntryCount int

	AvgConsumption float64 // mean over measured entries only
	CostPerKm      float64
}

// PurchaseAggregate holds purchase totals for one window.
type PurchaseAggregate struct {
	Window Window
	Liters float64
	Spent  float64
	Count  int
}

// DailyStats holds metrics for a single calendar day.
type DailyStats struct {
	Date       time.Time
	Entries    int
	Distance   float64
	Cost       float64
	FuelLiters float64
	Purchases  int
	Spent      float64
}

// MonthlyStats holds metrics for one calendar month.
type MonthlyStats struct {
	Month      time.Time
	Entries    int
	Distance   float64
	Cost       float64
	FuelLiters float64
	Spent      float64
}

// DashboardStats holds the top-level totals shown on the dashboard.
type DashboardStats struct {
	TotalDistance    float64
	TotalCost        float64
	AvgCostPerKm     float64
	AvgConsumption   float64
	LastFuelPrice    float64
	TotalLiters      float64
	WeightedAvgPrice float64
	LogCount         int
	PurchaseCount    int
}

// StationStats holds purchase price statistics for one fuel station.
type StationStats struct {
	Station   string
	Purchases int
	Liters    float64
	AvgPrice  float64
	MinPrice  float64
}

// Direction is the qualitative outcome of a trend comparison.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// TrendField selects which PeriodAggregate value a trend compares.
type TrendField string

const (
	FieldDistance    TrendField = "distance"
	FieldCost        TrendField = "cost"
	FieldFuel        TrendField = "fuel"
	FieldEntries     TrendField = "entries"
	FieldConsumption TrendField = "consumption"
	FieldCostPerKm   TrendField = "cost_per_km"
)

// TrendResult compares one field across two periods.
type TrendResult struct {
	Field          TrendField
	Current        float64
	Previous       float64
	PercentDelta   float64
	Direction      Direction
	HigherIsBetter bool
}

// Improved reports whether the movement is favorable. Flat is never improved.
func (r TrendResult) Improved() bool {
	switch r.Direction {
	case DirectionUp:
		return r.HigherIsBetter
	case DirectionDown:
		return !r.HigherIsBetter
	default:
		return false
	}
}

// Regressed reports whether the movement is unfavorable.
func (r TrendResult) Regressed() bool {
	return r.Direction != DirectionFlat && !r.Improved()
}

// DrivingScore rates the last 30 days of driving out of 100.
type DrivingScore struct {
	Overall       int    `json:"overall"`
	Grade         string `json:"grade"`
	Efficiency    int    `json:"efficiency"`
	Consistency   int    `json:"consistency"`
	Activity      int    `json:"activity"`
	CostAwareness int    `json:"cost_awareness"`
}
