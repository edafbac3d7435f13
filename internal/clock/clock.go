// Package clock provides the injectable time source used by forecasting and
// streak tracking. Core packages never call time.Now directly.
package clock

import "time"

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// Real returns the system time.
type Real struct{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }

// Fixed always returns T.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (c Fixed) Now() time.Time { return c.T }

// Func adapts a function to Clock.
type Func func() time.Time

// Now calls the wrapped function.
func (f Func) Now() time.Time { return f() }

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
// b is compared in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CalendarDays returns the number of calendar days from a to b, computed on
// the civil dates so DST transitions never produce fractional days.
// b is compared in a's location.
func CalendarDays(a, b time.Time) int {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// DaysIn returns the number of days in the given year.
func DaysIn(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ElapsedDays returns the wall-clock days from a to b as a fraction.
// Both instants are read as civil time in a's location, so a DST shift
// between them does not skew the result.
func ElapsedDays(a, b time.Time) float64 {
	return wall(b.In(a.Location())).Sub(wall(a)).Hours() / 24
}

// AddDays adds a fractional number of wall-clock days to t, keeping t's
// location.
func AddDays(t time.Time, days float64) time.Time {
	w := wall(t).Add(time.Duration(days * 24 * float64(time.Hour)))
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), t.Location())
}

func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
