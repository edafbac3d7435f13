// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/theirongolddev/fuellog/internal/model"
)

// FormatMoney formats an amount with the currency symbol in front.
// Large amounts drop the decimals.
func FormatMoney(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if amount >= 1000 {
		return sign + currency + humanize.Comma(int64(math.Round(amount)))
	}
	return sign + currency + fmt.Sprintf("%.2f", amount)
}

// FormatKm formats a distance in kilometers.
// e.g., 12345.6 -> "12,346 km", 42.25 -> "42.3 km"
func FormatKm(km float64) string {
	if math.Abs(km) >= 1000 {
		return humanize.Comma(int64(math.Round(km))) + " km"
	}
	return fmt.Sprintf("%.1f km", km)
}

// FormatLiters formats a fuel volume.
func FormatLiters(l float64) string {
	return humanize.CommafWithDigits(l, 1) + " L"
}

// FormatConsumption formats L/100km, or a dash when nothing was measured.
func FormatConsumption(c float64) string {
	if c <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f L/100km", c)
}

// FormatPrice formats a per-liter price.
func FormatPrice(p float64, currency string) string {
	return currency + fmt.Sprintf("%.2f", p)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatPercentDelta formats a trend delta with its sign.
func FormatPercentDelta(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.1f%%", pct)
	}
	return fmt.Sprintf("%.1f%%", pct)
}

// FormatTrendValue formats a trend's raw value according to its field.
func FormatTrendValue(field model.TrendField, v float64, currency string) string {
	switch field {
	case model.FieldDistance:
		return FormatKm(v)
	case model.FieldCost:
		return FormatMoney(v, currency)
	case model.FieldFuel:
		return FormatLiters(v)
	case model.FieldConsumption:
		return FormatConsumption(v)
	case model.FieldCostPerKm:
		return FormatPrice(v, currency) + "/km"
	default:
		return FormatNumber(int64(v))
	}
}

// FormatDays formats a day count such as "in 3 days" or "2 days ago".
func FormatDays(days int) string {
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

// FormatDate formats a calendar date with its weekday.
func FormatDate(t time.Time) string {
	return t.Format("Mon Jan 2, 2006")
}

// FormatAgo formats a past instant relative to now, e.g. "3 days ago".
func FormatAgo(t, now time.Time) string {
	return humanize.RelTime(t, now, "ago", "from now")
}
