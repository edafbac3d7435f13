package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	at := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	c := Fixed{T: at}
	if !c.Now().Equal(at) {
		t.Fatalf("Now() = %v, want %v", c.Now(), at)
	}
}

func TestFunc(t *testing.T) {
	n := 0
	c := Func(func() time.Time {
		n++
		return time.Unix(int64(n), 0)
	})
	c.Now()
	if got := c.Now().Unix(); got != 2 {
		t.Fatalf("second Now() = %d, want 2", got)
	}
}

func TestCalendarDays(t *testing.T) {
	ist := time.FixedZone("TRT", 3*3600)
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), 0},
		{"late to early next day", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), 1},
		{"week", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), 7},
		{"backwards", time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), -7},
		{"leap day", time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 2},
		{"other zone", time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 30, 0, 0, ist), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarDays(tt.a, tt.b); got != tt.want {
				t.Errorf("CalendarDays = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDaysIn(t *testing.T) {
	if DaysIn(2024) != 366 {
		t.Errorf("DaysIn(2024) = %d, want 366", DaysIn(2024))
	}
	if DaysIn(2025) != 365 {
		t.Errorf("DaysIn(2025) = %d, want 365", DaysIn(2025))
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)); got != 29 {
		t.Errorf("DaysInMonth(Feb 2024) = %d, want 29", got)
	}
	if got := DaysInMonth(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)); got != 31 {
		t.Errorf("DaysInMonth(Dec 2025) = %d, want 31", got)
	}
}

func TestElapsedAndAddDays(t *testing.T) {
	a := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2025, 1, 29, 12, 0, 0, 0, time.UTC)
	if got := ElapsedDays(a, b); got != 28.5 {
		t.Errorf("ElapsedDays = %v, want 28.5", got)
	}

	next := AddDays(time.Date(2025, 1, 29, 0, 0, 0, 0, time.UTC), 14)
	if want := time.Date(2025, 2, 12, 0, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("AddDays = %v, want %v", next, want)
	}

	zone := time.FixedZone("TRT", 3*3600)
	half := AddDays(time.Date(2025, 3, 1, 6, 0, 0, 0, zone), 0.5)
	if half.Hour() != 18 || half.Location() != zone {
		t.Errorf("AddDays(0.5) = %v, want 18:00 TRT", half)
	}
}
