package source

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// Local-time layouts accepted for dates, tried in order after RFC3339.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02.01.2006",
	"02.01.2006 15:04",
	"02/01/2006",
	"2006/01/02",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// recordValidator returns the shared validator with the date rule registered.
func recordValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("logdate", func(fl validator.FieldLevel) bool {
			_, err := ParseDate(fl.Field().String())
			return err == nil
		})
	})
	return validate
}

// ParseDate parses a date as found in backups and spreadsheets: RFC3339,
// ISO and day-first local layouts, or an Excel serial day number.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Local(), nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		// Excel serials carry civil time with no zone.
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

func orVehicle(id, fallback string) string {
	if id != "" {
		return id
	}
	return fallback
}

// recordID returns id, or a name-based UUID derived from the record's
// identifying fields so re-importing the same file does not duplicate it.
func recordID(id string, parts ...any) string {
	if id != "" {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprint(parts...))).String()
}

// toLog validates a raw log and converts it, recomputing derived fields.
func toLog(raw RawLog, vehicle string) (model.LogEntry, error) {
	if err := recordValidator().Struct(raw); err != nil {
		return model.LogEntry{}, err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return model.LogEntry{}, err
	}

	e := model.LogEntry{
		VehicleID:   orVehicle(raw.VehicleID, vehicle),
		Date:        clock.StartOfDay(date),
		Odometer:    raw.CurrentOdometer,
		Distance:    raw.DailyDistance,
		IsRefuelDay: raw.IsRefuelDay,
		IsFullTank:  raw.IsFullTank,
		FuelPrice:   raw.FuelPrice,
		Station:     raw.Station,
		Notes:       raw.Notes,
		FuelLiters:  raw.FuelConsumed,
	}
	e.ID = recordID(raw.ID, "log|", e.VehicleID, "|", e.Date.Format("2006-01-02"), "|", e.Odometer)
	if raw.AvgConsumption != nil {
		c := *raw.AvgConsumption
		e.AvgConsumption = &c
	}
	return pipeline.DeriveLog(e), nil
}

// completeReceipt fills the missing one of liters, price and total when
// the other two are present.
func completeReceipt(raw *RawPurchase) {
	switch {
	case raw.TotalAmount <= 0 && raw.Liters > 0 && raw.PricePerLiter > 0:
		raw.TotalAmount = raw.Liters * raw.PricePerLiter
	case raw.Liters <= 0 && raw.TotalAmount > 0 && raw.PricePerLiter > 0:
		raw.Liters = raw.TotalAmount / raw.PricePerLiter
	case raw.PricePerLiter <= 0 && raw.TotalAmount > 0 && raw.Liters > 0:
		raw.PricePerLiter = raw.TotalAmount / raw.Liters
	}
}

// toPurchase validates a raw purchase and converts it.
func toPurchase(raw RawPurchase, vehicle string) (model.PurchaseEvent, error) {
	completeReceipt(&raw)
	if err := recordValidator().Struct(raw); err != nil {
		return model.PurchaseEvent{}, err
	}
	date, err := ParseDate(raw.Date)
	if err != nil {
		return model.PurchaseEvent{}, err
	}

	p := model.PurchaseEvent{
		VehicleID:     orVehicle(raw.VehicleID, vehicle),
		Date:          date,
		Liters:        raw.Liters,
		PricePerLiter: raw.PricePerLiter,
		TotalAmount:   raw.TotalAmount,
		Station:       raw.Station,
		Location:      raw.Location,
		IsFullTank:    raw.IsFullTank,
		Notes:         raw.Notes,
	}
	p.ID = recordID(raw.ID, "purchase|", p.VehicleID, "|", p.Date.UTC().Format(time.RFC3339), "|", p.Liters, "|", p.TotalAmount)
	if raw.Odometer != nil {
		o := *raw.Odometer
		p.Odometer = &o
	}
	return p, nil
}

// toMaintenance validates a raw maintenance item and converts it.
func toMaintenance(raw RawMaintenance, vehicle string) (model.MaintenanceItem, error) {
	if err := recordValidator().Struct(raw); err != nil {
		return model.MaintenanceItem{}, err
	}

	m := model.MaintenanceItem{
		VehicleID:        orVehicle(raw.VehicleID, vehicle),
		Title:            raw.Title,
		IntervalKm:       raw.IntervalKm,
		LastServiceKm:    raw.LastServiceKm,
		NotifyBeforeKm:   raw.NotifyBeforeKm,
		NotifyBeforeDays: raw.NotifyBeforeDays,
	}
	m.ID = recordID(raw.ID, "maintenance|", m.VehicleID, "|", m.Title)
	if raw.DueDate != "" {
		due, err := ParseDate(raw.DueDate)
		if err != nil {
			return model.MaintenanceItem{}, err
		}
		due = clock.StartOfDay(due)
		m.DueDate = &due
	}
	return m, nil
}

// ValidateLog checks a log built outside the import path, such as one
// entered on the command line.
func ValidateLog(e model.LogEntry) error {
	raw := RawLog{
		Date:            e.Date.Format("2006-01-02"),
		CurrentOdometer: e.Odometer,
		DailyDistance:   e.Distance,
		AvgConsumption:  e.AvgConsumption,
		FuelPrice:       e.FuelPrice,
	}
	return recordValidator().Struct(raw)
}

// ValidatePurchase checks a purchase built outside the import path.
func ValidatePurchase(p model.PurchaseEvent) error {
	raw := RawPurchase{
		Date:          p.Date.Format(time.RFC3339),
		Liters:        p.Liters,
		PricePerLiter: p.PricePerLiter,
		TotalAmount:   p.TotalAmount,
		Odometer:      p.Odometer,
	}
	return recordValidator().Struct(raw)
}
