package source

import (
	"encoding/json"
	"io"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
)

// ExportJSON writes an object-form backup that ParseJSON reads back.
func ExportJSON(w io.Writer, logs []model.LogEntry, purchases []model.PurchaseEvent, items []model.MaintenanceItem) error {
	b := Backup{
		Logs:        make([]RawLog, 0, len(logs)),
		Purchases:   make([]RawPurchase, 0, len(purchases)),
		Maintenance: make([]RawMaintenance, 0, len(items)),
	}
	for _, l := range pipeline.SortLogs(logs) {
		b.Logs = append(b.Logs, RawLog{
			ID:              l.ID,
			VehicleID:       l.VehicleID,
			Date:            l.Date.Format("2006-01-02"),
			CurrentOdometer: l.Odometer,
			DailyDistance:   l.Distance,
			AvgConsumption:  l.AvgConsumption,
			IsRefuelDay:     l.IsRefuelDay,
			IsFullTank:      l.IsFullTank,
			FuelPrice:       l.FuelPrice,
			Station:         l.Station,
			FuelConsumed:    l.FuelLiters,
			DailyCost:       l.Cost,
			CostPerKm:       l.CostPerKm,
			Notes:           l.Notes,
		})
	}
	for _, p := range pipeline.SortPurchases(purchases) {
		b.Purchases = append(b.Purchases, RawPurchase{
			ID:            p.ID,
			VehicleID:     p.VehicleID,
			Date:          p.Date.Format(time.RFC3339),
			Liters:        p.Liters,
			PricePerLiter: p.PricePerLiter,
			TotalAmount:   p.TotalAmount,
			Station:       p.Station,
			Odometer:      p.Odometer,
			Location:      p.Location,
			IsFullTank:    p.IsFullTank,
			Notes:         p.Notes,
		})
	}
	for _, m := range items {
		raw := RawMaintenance{
			ID:               m.ID,
			VehicleID:        m.VehicleID,
			Title:            m.Title,
			IntervalKm:       m.IntervalKm,
			LastServiceKm:    m.LastServiceKm,
			NotifyBeforeKm:   m.NotifyBeforeKm,
			NotifyBeforeDays: m.NotifyBeforeDays,
		}
		if m.DueDate != nil {
			raw.DueDate = m.DueDate.Format("2006-01-02")
		}
		b.Maintenance = append(b.Maintenance, raw)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}
