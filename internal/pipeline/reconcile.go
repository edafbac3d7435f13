package pipeline

import (
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

// PriceRepair describes one log whose fuel price disagrees with the
// purchase in effect on its date.
type PriceRepair struct {
	Index    int
	LogID    string
	Date     time.Time
	OldPrice float64
	NewPrice float64
}

// FindPriceRepairs lists the logs whose price differs from the latest
// purchase made on or before the log's day. Logs with no earlier purchase
// are left alone.
func FindPriceRepairs(logs []model.LogEntry, purchases []model.PurchaseEvent) []PriceRepair {
	if len(purchases) == 0 {
		return nil
	}
	sorted := SortPurchases(purchases)

	var repairs []PriceRepair
	for i, l := range logs {
		p, ok := PurchaseAsOf(sorted, l.Date)
		if !ok || p.PricePerLiter == l.FuelPrice {
			continue
		}
		repairs = append(repairs, PriceRepair{
			Index:    i,
			LogID:    l.ID,
			Date:     l.Date,
			OldPrice: l.FuelPrice,
			NewPrice: p.PricePerLiter,
		})
	}
	return repairs
}

// RepairPrices returns a copy of logs with stale fuel prices replaced by
// the as-of purchase price and cost fields recomputed, plus the number of
// logs changed. Order is preserved and the input is never modified.
// Running it on its own output changes nothing.
func RepairPrices(logs []model.LogEntry, purchases []model.PurchaseEvent) ([]model.LogEntry, int) {
	repaired := make([]model.LogEntry, len(logs))
	copy(repaired, logs)

	repairs := FindPriceRepairs(logs, purchases)
	for _, r := range repairs {
		l := &repaired[r.Index]
		l.FuelPrice = r.NewPrice
		l.Cost = l.FuelLiters * l.FuelPrice
		l.CostPerKm = 0
		if l.Distance > 0 {
			l.CostPerKm = l.Cost / l.Distance
		}
	}
	return repaired, len(repairs)
}

// DeriveLog fills the derived fuel, cost and cost-per-km fields from
// distance, measured consumption and price. Without a measured
// consumption the recorded liters are kept.
func DeriveLog(e model.LogEntry) model.LogEntry {
	if c, ok := e.Consumption(); ok {
		e.FuelLiters = e.Distance * c / 100
	}
	e.Cost = e.FuelLiters * e.FuelPrice
	e.CostPerKm = 0
	if e.Distance > 0 {
		e.CostPerKm = e.Cost / e.Distance
	}
	return e
}
