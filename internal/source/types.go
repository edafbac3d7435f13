package source

import "github.com/theirongolddev/fuellog/internal/model"

// Format identifies an importable file type.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// DiscoveredFile is an importable file found during scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}

// RawLog is a daily log as written in JSON backups and JSONL feeds.
// Derived fields are accepted but recomputed on import.
type RawLog struct {
	ID              string   `json:"id,omitempty"`
	VehicleID       string   `json:"vehicleId,omitempty"`
	Date            string   `json:"date" validate:"required,logdate"`
	CurrentOdometer float64  `json:"currentOdometer" validate:"gte=0"`
	DailyDistance   float64  `json:"dailyDistance" validate:"gte=0"`
	AvgConsumption  *float64 `json:"avgConsumption,omitempty" validate:"omitempty,gte=0,lt=100"`
	IsRefuelDay     bool     `json:"isRefuelDay"`
	IsFullTank      bool     `json:"isFullTank,omitempty"`
	FuelPrice       float64  `json:"fuelPrice" validate:"gte=0"`
	Station         string   `json:"station,omitempty"`
	FuelConsumed    float64  `json:"dailyFuelConsumed,omitempty"`
	DailyCost       float64  `json:"dailyCost,omitempty"`
	CostPerKm       float64  `json:"costPerKm,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// RawPurchase is a fuel purchase record. Any two of liters, price and
// total are enough; the third is completed before validation.
type RawPurchase struct {
	ID            string   `json:"id,omitempty"`
	VehicleID     string   `json:"vehicleId,omitempty"`
	Date          string   `json:"date" validate:"required,logdate"`
	Liters        float64  `json:"liters" validate:"gt=0"`
	PricePerLiter float64  `json:"pricePerLiter" validate:"gt=0"`
	TotalAmount   float64  `json:"totalAmount" validate:"gt=0"`
	Station       string   `json:"station,omitempty"`
	Odometer      *float64 `json:"odometer,omitempty" validate:"omitempty,gte=0"`
	Location      string   `json:"location,omitempty"`
	IsFullTank    bool     `json:"isFullTank,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// RawMaintenance is a maintenance item record.
type RawMaintenance struct {
	ID               string  `json:"id,omitempty"`
	VehicleID        string  `json:"vehicleId,omitempty"`
	Title            string  `json:"title" validate:"required"`
	IntervalKm       float64 `json:"intervalKm" validate:"gt=0"`
	LastServiceKm    float64 `json:"lastServiceKm" validate:"gte=0"`
	NotifyBeforeKm   float64 `json:"notifyBeforeKm" validate:"gte=0"`
	NotifyBeforeDays int     `json:"notifyBeforeDays,omitempty" validate:"gte=0"`
	DueDate          string  `json:"dueDate,omitempty" validate:"omitempty,logdate"`
}

// Backup is the object form of a JSON backup.
type Backup struct {
	Logs        []RawLog         `json:"logs"`
	Purchases   []RawPurchase    `json:"purchases,omitempty"`
	Maintenance []RawMaintenance `json:"maintenance,omitempty"`
}

// ParseResult holds the records read from one file.
type ParseResult struct {
	Path        string
	Logs        []model.LogEntry
	Purchases   []model.PurchaseEvent
	Maintenance []model.MaintenanceItem
	ParseErrors int // malformed lines
	Skipped     int // well-formed records that failed validation or belong to another vehicle
	Err         error
}

// Records returns the number of records read.
func (r ParseResult) Records() int {
	return len(r.Logs) + len(r.Purchases) + len(r.Maintenance)
}
