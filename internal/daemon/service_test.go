package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/logging"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/store"
)

type fakeSource struct {
	lb  store.Logbook
	err error
}

func (f *fakeSource) LoadLogbook(_ context.Context, _ string) (store.Logbook, error) {
	return f.lb, f.err
}

func day(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.Local)
}

func sampleLogbook() store.Logbook {
	var lb store.Logbook
	consumption := 6.0
	for d := 1; d <= 5; d++ {
		lb.Logs = append(lb.Logs, pipeline.DeriveLog(model.LogEntry{
			ID:             "log-" + day(d).Format("0102"),
			Date:           day(d),
			Odometer:       1000 + float64(d)*50,
			Distance:       50,
			AvgConsumption: &consumption,
			FuelPrice:      40,
		}))
	}
	odo := 1100.0
	lb.Purchases = []model.PurchaseEvent{{
		ID:            "buy-1",
		Date:          day(2).Add(9 * time.Hour),
		Liters:        40,
		PricePerLiter: 40,
		TotalAmount:   1600,
		Odometer:      &odo,
		IsFullTank:    true,
	}}
	return lb
}

func newTestService(t *testing.T, src Source) *Service {
	t.Helper()
	return New(Config{
		Days:         30,
		Interval:     10 * time.Second,
		EventsBuffer: 10,
		App:          config.DefaultConfig(),
		Clock:        clock.Fixed{T: day(6).Add(12 * time.Hour)},
	}, src, logging.Discard())
}

func TestDiffSnapshots(t *testing.T) {
	prev := Snapshot{
		Logs:      10,
		Purchases: 3,
		Odometer:  12_000,
		Distance:  400,
		Cost:      960.5,
		Spent:     1800,
	}
	curr := Snapshot{
		Logs:      11,
		Purchases: 4,
		Odometer:  12_045,
		Distance:  445,
		Cost:      1068.5,
		Spent:     2400,
	}

	delta := diffSnapshots(prev, curr)
	if delta.Logs != 1 {
		t.Fatalf("Logs delta = %d, want 1", delta.Logs)
	}
	if delta.Purchases != 1 {
		t.Fatalf("Purchases delta = %d, want 1", delta.Purchases)
	}
	if delta.Odometer != 45 {
		t.Fatalf("Odometer delta = %.1f, want 45", delta.Odometer)
	}
	if math.Abs(delta.Cost-108) > 1e-9 {
		t.Fatalf("Cost delta = %.2f, want 108.00", delta.Cost)
	}
	if delta.Spent != 600 {
		t.Fatalf("Spent delta = %.2f, want 600", delta.Spent)
	}
	if delta.isZero() {
		t.Fatal("delta unexpectedly reported as zero")
	}
	if !diffSnapshots(curr, curr).isZero() {
		t.Fatal("identical snapshots produced a non-zero delta")
	}
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{
		Interval:     10 * time.Second,
		EventsBuffer: 2,
	}, &fakeSource{}, logging.Discard())

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.events) != 2 {
		t.Fatalf("events len = %d, want 2", len(s.events))
	}
	if s.events[0].ID != 2 || s.events[1].ID != 3 {
		t.Fatalf("events ring contains IDs [%d, %d], want [2, 3]", s.events[0].ID, s.events[1].ID)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{Interval: time.Second}, &fakeSource{}, logrus.New())
	if s.cfg.Interval != 15*time.Second {
		t.Errorf("Interval = %v, want 15s", s.cfg.Interval)
	}
	if s.cfg.EventsBuffer != 200 {
		t.Errorf("EventsBuffer = %d, want 200", s.cfg.EventsBuffer)
	}
	if s.cfg.Days != 30 {
		t.Errorf("Days = %d, want 30", s.cfg.Days)
	}
	if s.cfg.Addr == "" {
		t.Error("Addr not defaulted")
	}
}

func TestPollOnce_EmitsSnapshotThenDelta(t *testing.T) {
	src := &fakeSource{lb: sampleLogbook()}
	s := newTestService(t, src)

	s.pollOnce(context.Background())
	s.pollOnce(context.Background())

	s.mu.RLock()
	if len(s.events) != 1 {
		s.mu.RUnlock()
		t.Fatalf("events after two identical polls = %d, want 1", len(s.events))
	}
	first := s.events[0]
	s.mu.RUnlock()

	if first.Type != EventSnapshot {
		t.Errorf("first event type = %q, want %q", first.Type, EventSnapshot)
	}
	if first.Snapshot.Logs != 5 || first.Snapshot.Purchases != 1 {
		t.Errorf("snapshot counts = %d/%d, want 5/1", first.Snapshot.Logs, first.Snapshot.Purchases)
	}
	if first.Snapshot.Distance != 250 {
		t.Errorf("snapshot distance = %.1f, want 250", first.Snapshot.Distance)
	}
	if first.Snapshot.Odometer != 1250 {
		t.Errorf("snapshot odometer = %.1f, want 1250", first.Snapshot.Odometer)
	}
	if first.Snapshot.Spent != 1600 {
		t.Errorf("snapshot spent = %.1f, want 1600", first.Snapshot.Spent)
	}

	consumption := 6.0
	src.lb.Logs = append(src.lb.Logs, pipeline.DeriveLog(model.LogEntry{
		ID:             "log-0106",
		Date:           day(6),
		Odometer:       1310,
		Distance:       60,
		AvgConsumption: &consumption,
		FuelPrice:      40,
	}))
	s.pollOnce(context.Background())

	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.events) != 2 {
		t.Fatalf("events = %d, want 2", len(s.events))
	}
	ev := s.events[1]
	if ev.Type != EventLogbookDelta {
		t.Errorf("event type = %q, want %q", ev.Type, EventLogbookDelta)
	}
	if ev.Delta.Logs != 1 || ev.Delta.Distance != 60 || ev.Delta.Odometer != 60 {
		t.Errorf("delta = %+v, want 1 log, 60 km, 60 odometer", ev.Delta)
	}
	if s.pollCount != 3 {
		t.Errorf("pollCount = %d, want 3", s.pollCount)
	}
}

func TestPollOnce_RecordsError(t *testing.T) {
	s := newTestService(t, &fakeSource{err: errors.New("disk gone")})
	s.pollOnce(context.Background())

	st := s.snapshotStatus()
	if st.LastError != "disk gone" {
		t.Errorf("LastError = %q, want %q", st.LastError, "disk gone")
	}
	if st.PollCount != 1 {
		t.Errorf("PollCount = %d, want 1", st.PollCount)
	}
	if st.EventCount != 0 {
		t.Errorf("EventCount = %d, want 0", st.EventCount)
	}
}

func TestHandler_Forecast(t *testing.T) {
	s := newTestService(t, &fakeSource{lb: sampleLogbook()})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/forecast")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("forecast before poll: status %d, want 503", resp.StatusCode)
	}

	s.pollOnce(context.Background())

	resp, err = http.Get(srv.URL + "/v1/forecast")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("forecast status %d, want 200", resp.StatusCode)
	}

	var out model.Outlook
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode outlook: %v", err)
	}
	if out.Odometer != 1250 {
		t.Errorf("outlook odometer = %.1f, want 1250", out.Odometer)
	}
	if out.TankEmpty == nil {
		t.Error("outlook missing tank-empty forecast")
	}
	if out.Insights == nil {
		t.Error("outlook insights decoded as null")
	}
}

func TestHandler_StatusAndMetrics(t *testing.T) {
	s := newTestService(t, &fakeSource{lb: sampleLogbook()})
	s.pollOnce(context.Background())

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	var st Status
	err = json.NewDecoder(resp.Body).Decode(&st)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Summary.Logs != 5 || st.PollCount != 1 {
		t.Errorf("status = %+v, want 5 logs after 1 poll", st)
	}

	resp, err = http.Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	text := string(body)
	for _, want := range []string{
		"fuellog_polls_total 1",
		"fuellog_logs 5",
		"fuellog_odometer_km 1250",
		"fuellog_poll_duration_seconds_count 1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestHandler_Health(t *testing.T) {
	s := newTestService(t, &fakeSource{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok\n" {
		t.Errorf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}
