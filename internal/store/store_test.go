package store

import (
	"context"
	"errors"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/fuellog/internal/achievement"
	"github.com/theirongolddev/fuellog/internal/model"
)

var _ achievement.Store = (*Store)(nil)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "fuellog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	require.NoError(t, err)
	return d
}

func ptr(v float64) *float64 { return &v }

func TestLogs_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	logs := []model.LogEntry{
		{ID: "b", VehicleID: "car", Date: day(t, "2024-01-08"), Odometer: 1350, Distance: 350,
			AvgConsumption: ptr(7), IsRefuelDay: true, FuelPrice: 40, Station: "Shell",
			FuelLiters: 24.5, Cost: 980, CostPerKm: 2.8, Notes: "highway"},
		{ID: "a", VehicleID: "car", Date: day(t, "2024-01-01"), Odometer: 1000, IsFullTank: true},
		{ID: "c", VehicleID: "van", Date: day(t, "2024-01-02"), Odometer: 50},
	}
	require.NoError(t, s.SaveLogs(ctx, logs))

	got, err := s.ListLogs(ctx, "car")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Nil(t, got[0].AvgConsumption)
	assert.True(t, got[0].IsFullTank)

	b := got[1]
	assert.True(t, b.Date.Equal(logs[0].Date))
	require.NotNil(t, b.AvgConsumption)
	assert.Equal(t, 7.0, *b.AvgConsumption)
	assert.True(t, b.IsRefuelDay)
	assert.Equal(t, "Shell", b.Station)
	assert.Equal(t, 980.0, b.Cost)
	assert.Equal(t, "highway", b.Notes)

	all, err := s.ListLogs(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	one, err := s.GetLog(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "van", one.VehicleID)

	_, err = s.GetLog(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.DeleteLog(ctx, "c"))
	assert.ErrorIs(t, s.DeleteLog(ctx, "c"), ErrNotFound)
}

func TestReplaceLogs_ScopedToVehicle(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.SaveLogs(ctx, []model.LogEntry{
		{ID: "1", VehicleID: "car", Date: day(t, "2024-01-01"), FuelPrice: 0},
		{ID: "2", VehicleID: "car", Date: day(t, "2024-01-02"), FuelPrice: 0},
		{ID: "3", VehicleID: "van", Date: day(t, "2024-01-02"), FuelPrice: 0},
	}))

	replacement := []model.LogEntry{
		{ID: "1", VehicleID: "car", Date: day(t, "2024-01-01"), FuelPrice: 40},
		{ID: "2", VehicleID: "car", Date: day(t, "2024-01-02"), FuelPrice: 40},
	}
	require.NoError(t, s.ReplaceLogs(ctx, "car", replacement))

	car, err := s.ListLogs(ctx, "car")
	require.NoError(t, err)
	require.Len(t, car, 2)
	assert.Equal(t, 40.0, car[0].FuelPrice)
	assert.Equal(t, 40.0, car[1].FuelPrice)

	van, err := s.ListLogs(ctx, "van")
	require.NoError(t, err)
	assert.Len(t, van, 1)
}

func TestVehicleScope_KeepsUnscopedRows(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.SaveLogs(ctx, []model.LogEntry{
		{ID: "1", VehicleID: "car", Date: day(t, "2024-01-01")},
		{ID: "2", Date: day(t, "2024-01-02")},
		{ID: "3", VehicleID: "van", Date: day(t, "2024-01-03")},
	}))
	require.NoError(t, s.SavePurchases(ctx, []model.PurchaseEvent{
		{ID: "p1", Date: day(t, "2024-01-01"), Liters: 30, PricePerLiter: 40, TotalAmount: 1200},
		{ID: "p2", VehicleID: "van", Date: day(t, "2024-01-02"), Liters: 30, PricePerLiter: 41, TotalAmount: 1230},
	}))

	lb, err := s.LoadLogbook(ctx, "car")
	require.NoError(t, err)
	require.Len(t, lb.Logs, 2)
	assert.Equal(t, "1", lb.Logs[0].ID)
	assert.Equal(t, "2", lb.Logs[1].ID)
	require.Len(t, lb.Purchases, 1)
	assert.Equal(t, "p1", lb.Purchases[0].ID)

	repaired := lb.Logs
	for i := range repaired {
		repaired[i].FuelPrice = 40
	}
	require.NoError(t, s.ReplaceLogs(ctx, "car", repaired))

	all, err := s.ListLogs(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3, "replace must not duplicate or drop rows")
	for _, l := range all {
		if l.ID == "3" {
			assert.Zero(t, l.FuelPrice)
		} else {
			assert.Equal(t, 40.0, l.FuelPrice)
		}
	}
}

func TestReplaceLogs_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM logs WHERE vehicle_id IN (?, '')")).
		WithArgs("car").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT OR REPLACE INTO logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT OR REPLACE INTO logs").
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	s := New(db)
	err = s.ReplaceLogs(context.Background(), "car", []model.LogEntry{
		{ID: "1", VehicleID: "car", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "2", VehicleID: "car", Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "replacing log 2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceLogs_Commits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM logs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT OR REPLACE INTO logs").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err = New(db).ReplaceLogs(context.Background(), "", []model.LogEntry{
		{ID: "1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurchases_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	at := time.Date(2024, 1, 10, 18, 30, 0, 0, time.UTC)
	p := model.PurchaseEvent{
		ID: "p1", VehicleID: "car", Date: at, Liters: 35, PricePerLiter: 42, TotalAmount: 1470,
		Station: "Opet", Odometer: ptr(1400), Location: "Ankara", IsFullTank: true,
	}
	require.NoError(t, s.SavePurchase(ctx, p))
	require.NoError(t, s.SavePurchases(ctx, []model.PurchaseEvent{
		{ID: "p0", VehicleID: "car", Date: at.Add(-72 * time.Hour), Liters: 20, PricePerLiter: 40, TotalAmount: 800},
	}))

	got, err := s.ListPurchases(ctx, "car")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "p0", got[0].ID)
	assert.Nil(t, got[0].Odometer)

	p1 := got[1]
	assert.True(t, p1.Date.Equal(at))
	require.NotNil(t, p1.Odometer)
	assert.Equal(t, 1400.0, *p1.Odometer)
	assert.True(t, p1.IsFullTank)
	assert.Equal(t, "Ankara", p1.Location)

	_, err = s.GetPurchase(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	logs, purchases, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, logs)
	assert.Equal(t, 2, purchases)
}

func TestMaintenance(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveMaintenance(ctx, model.MaintenanceItem{
		ID: "oil", VehicleID: "car", Title: "Oil change", IntervalKm: 10000,
		LastServiceKm: 5000, NotifyBeforeKm: 500, NotifyBeforeDays: 14, DueDate: &due,
	}))

	require.NoError(t, s.MarkServiced(ctx, "oil", 15200))
	assert.ErrorIs(t, s.MarkServiced(ctx, "nope", 1), ErrNotFound)

	m, err := s.GetMaintenance(ctx, "oil")
	require.NoError(t, err)
	assert.Equal(t, 15200.0, m.LastServiceKm)
	assert.Equal(t, 25200.0, m.NextDueKm())
	require.NotNil(t, m.DueDate)
	assert.True(t, m.DueDate.Equal(due))

	lb, err := s.LoadLogbook(ctx, "car")
	require.NoError(t, err)
	assert.Len(t, lb.Maintenance, 1)
	assert.Empty(t, lb.Logs)
}

func TestAchievements_RoundTripAndMonotonic(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	stats, badges, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalXP)
	assert.Empty(t, badges)

	last := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	unlocked := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx,
		model.UserStats{TotalXP: 150, CurrentStreak: 3, LongestStreak: 5, LastActivity: &last},
		[]model.Badge{{ID: "first_log", Name: "First Step", UnlockedAt: &unlocked}, {ID: "streak_week"}},
	))

	// a later save without the badge must not relock it
	require.NoError(t, s.Save(ctx, model.UserStats{TotalXP: 200}, nil))

	stats, badges, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200, stats.TotalXP)
	assert.Nil(t, stats.LastActivity)
	require.Len(t, badges, 1)
	assert.Equal(t, "first_log", badges[0].ID)
	require.NotNil(t, badges[0].UnlockedAt)
	assert.True(t, badges[0].UnlockedAt.Equal(unlocked))
}

func TestChallenges_RecordedOnce(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	got, err := s.LoadChallenges(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)

	week := day(t, "2024-01-08")
	first := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	later := time.Date(2024, 1, 12, 9, 0, 0, 0, time.UTC)
	streak := model.Challenge{ID: "streak_3", WeekStart: week, XPReward: 200, CompletedAt: &first}
	pending := model.Challenge{ID: "entries_5", WeekStart: week}

	require.NoError(t, s.SaveChallenges(ctx, []model.Challenge{streak, pending}))
	again := streak
	again.CompletedAt = &later
	require.NoError(t, s.SaveChallenges(ctx, []model.Challenge{again}))

	got, err = s.LoadChallenges(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1, "incomplete challenges are not stored")
	at, ok := got["streak_3@2024-01-08"]
	require.True(t, ok)
	assert.True(t, at.Equal(first), "first completion wins")
}

func TestFileTracker(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	require.NoError(t, s.TrackFile(ctx, "/data/a.json", 100, 10))
	require.NoError(t, s.TrackFile(ctx, "/data/a.json", 200, 20))
	require.NoError(t, s.TrackFile(ctx, "/data/b.xlsx", 300, 30))
	require.NoError(t, s.DeleteFileTracker(ctx, "/data/b.xlsx"))

	tracked, err := s.GetTrackedFiles(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]FileInfo{"/data/a.json": {MtimeNs: 200, SizeBytes: 20}}, tracked)
}
