package model

import "time"

// NextRefuelForecast predicts the next fuel purchase date.
type NextRefuelForecast struct {
	Date             time.Time `json:"date"`
	DaysRemaining    int       `json:"days_remaining"` // negative when overdue
	MeanIntervalDays float64   `json:"mean_interval_days"`
	Fallback         bool      `json:"fallback"` // true when the default interval was used
}

// TankEmptyForecast predicts when the tank runs dry.
type TankEmptyForecast struct {
	Date            time.Time `json:"date"`
	DaysRemaining   int       `json:"days_remaining"`
	RemainingLiters float64   `json:"remaining_liters"`
	RangeKm         float64   `json:"range_km"`
	Consumption     float64   `json:"consumption"`
}

// MaintenanceForecast predicts when the nearest maintenance item falls due.
type MaintenanceForecast struct {
	ItemID        string    `json:"item_id"`
	Title         string    `json:"title"`
	Date          time.Time `json:"date"`
	DaysRemaining int       `json:"days_remaining"`
	RemainingKm   float64   `json:"remaining_km"`
}

// YearEndForecast projects calendar-year totals from year-to-date pace.
type YearEndForecast struct {
	Year              int      `json:"year"`
	DayOfYear         int      `json:"day_of_year"`
	YTDCost           float64  `json:"ytd_cost"`
	YTDDistance       float64  `json:"ytd_distance"`
	YTDFuel           float64  `json:"ytd_fuel"`
	ProjectedCost     float64  `json:"projected_cost"`
	ProjectedDistance float64  `json:"projected_distance"`
	ProjectedFuel     float64  `json:"projected_fuel"`
	LastYearCost      *float64 `json:"last_year_cost,omitempty"`       // nil when the prior year has no data
	ChangeVsLastYear  *float64 `json:"change_vs_last_year,omitempty"` // percent, nil when LastYearCost is nil
}

// MonthEndForecast projects this month's fuel spend against a budget.
// NearBudget is set once spending so far reaches the warning threshold
// and the projection is still within budget.
type MonthEndForecast struct {
	SpentSoFar    float64  `json:"spent_so_far"`
	Projected     float64  `json:"projected"`
	DaysRemaining int      `json:"days_remaining"`
	Budget        *float64 `json:"budget,omitempty"`
	UsedPct       float64  `json:"used_pct"` // SpentSoFar as a percentage of Budget
	OverBudget    bool     `json:"over_budget"`
	NearBudget    bool     `json:"near_budget"`
}

// InsightKind groups insights for presentation.
type InsightKind string

const (
	InsightPrediction InsightKind = "prediction"
	InsightWarning    InsightKind = "warning"
	InsightTip        InsightKind = "tip"
	InsightReminder   InsightKind = "reminder"
)

// Insight is a short rule-based observation about recent driving.
type Insight struct {
	ID      string      `json:"id"`
	Kind    InsightKind `json:"kind"`
	Title   string      `json:"title"`
	Message string      `json:"message"`
}

// Outlook bundles every forecast for one logbook. Nil members had too
// little data to forecast.
type Outlook struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Odometer    float64              `json:"odometer"`
	NextRefuel  *NextRefuelForecast  `json:"next_refuel,omitempty"`
	TankEmpty   *TankEmptyForecast   `json:"tank_empty,omitempty"`
	Maintenance *MaintenanceForecast `json:"maintenance,omitempty"`
	YearEnd     *YearEndForecast     `json:"year_end,omitempty"`
	MonthEnd    *MonthEndForecast    `json:"month_end,omitempty"`
	Insights    []Insight            `json:"insights"`
}
