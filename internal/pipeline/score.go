package pipeline

import (
	"math"
	"time"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/model"
)

const (
	scoreWindowDays     = 30
	scoreMinLogs        = 5
	scoreMinRecent      = 3
	scoreActiveDays     = 20.0
	scoreBaseline       = 5.0 // L/100km that still earns full efficiency
	scoreDefaultCostPts = 70.0
)

// Score weights in percent.
const (
	weightEfficiency  = 35
	weightConsistency = 25
	weightActivity    = 20
	weightCost        = 20
)

// Score rates driving over the 30 days ending today. It needs five logs
// overall and three measured consumptions inside the window.
//
//	efficiency    100 - (mean consumption - 5) * 10
//	consistency   100 - stddev(consumption) * 20
//	activity      distinct logged days / 20
//	cost          100 - position of recent mean price in the all-time range * 50
//
// Cost awareness is 70 until two purchases fall inside the window.
func Score(logs []model.LogEntry, purchases []model.PurchaseEvent, now time.Time) (model.DrivingScore, bool) {
	if len(logs) < scoreMinLogs {
		return model.DrivingScore{}, false
	}
	w := TrailingDays(now, scoreWindowDays)
	recent := InWindow(logs, model.LogEntry.When, w)

	var consumptions []float64
	days := make(map[time.Time]struct{}, len(recent))
	for _, l := range recent {
		days[clock.StartOfDay(l.Date)] = struct{}{}
		if c, ok := l.Consumption(); ok {
			consumptions = append(consumptions, c)
		}
	}
	if len(consumptions) < scoreMinRecent {
		return model.DrivingScore{}, false
	}

	mean, stddev := meanStddev(consumptions)
	efficiency := clamp100(100 - (mean-scoreBaseline)*10)
	consistency := clamp100(100 - stddev*20)
	activity := math.Min(100, float64(len(days))/scoreActiveDays*100)
	cost := costAwareness(purchases, w)

	overall := int(math.Round((efficiency*weightEfficiency +
		consistency*weightConsistency +
		activity*weightActivity +
		cost*weightCost) / 100))

	return model.DrivingScore{
		Overall:       overall,
		Grade:         Grade(overall),
		Efficiency:    int(math.Round(efficiency)),
		Consistency:   int(math.Round(consistency)),
		Activity:      int(math.Round(activity)),
		CostAwareness: int(math.Round(cost)),
	}, true
}

// Grade maps an overall score to a letter.
func Grade(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	}
	return "D"
}

func costAwareness(purchases []model.PurchaseEvent, w model.Window) float64 {
	recent := InWindow(purchases, model.PurchaseEvent.When, w)
	if len(recent) < 2 {
		return scoreDefaultCostPts
	}
	var sum float64
	for _, p := range recent {
		sum += p.PricePerLiter
	}
	avg := sum / float64(len(recent))

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range purchases {
		if p.PricePerLiter <= 0 {
			continue
		}
		lo = math.Min(lo, p.PricePerLiter)
		hi = math.Max(hi, p.PricePerLiter)
	}
	if hi <= lo {
		return scoreDefaultCostPts
	}
	return 100 - (avg-lo)/(hi-lo)*50
}

func meanStddev(vals []float64) (float64, float64) {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(len(vals))
	var sq float64
	for _, v := range vals {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(vals)))
}

func clamp100(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
