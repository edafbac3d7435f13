// Package daemon provides the long-running logbook monitor service.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/theirongolddev/fuellog/internal/clock"
	"github.com/theirongolddev/fuellog/internal/config"
	"github.com/theirongolddev/fuellog/internal/model"
	"github.com/theirongolddev/fuellog/internal/pipeline"
	"github.com/theirongolddev/fuellog/internal/store"
)

// Source loads the logbook on every poll. *store.Store satisfies it.
type Source interface {
	LoadLogbook(ctx context.Context, vehicle string) (store.Logbook, error)
}

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Vehicle      string
	Days         int
	Interval     time.Duration
	Addr         string
	EventsBuffer int
	App          config.Config
	Clock        clock.Clock
}

// Snapshot is a compact logbook state for status/event payloads.
// Window totals cover the trailing Days.
type Snapshot struct {
	At             time.Time `json:"at"`
	Logs           int       `json:"logs"`
	Purchases      int       `json:"purchases"`
	Odometer       float64   `json:"odometer"`
	Distance       float64   `json:"distance_km"`
	Cost           float64   `json:"cost"`
	Spent          float64   `json:"spent"`
	Liters         float64   `json:"liters"`
	AvgConsumption float64   `json:"avg_consumption"`
	CostPerKm      float64   `json:"cost_per_km"`
	DaysToRefuel   *int      `json:"days_to_refuel,omitempty"`
	RangeKm        *float64  `json:"range_km,omitempty"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Logs      int     `json:"logs"`
	Purchases int     `json:"purchases"`
	Odometer  float64 `json:"odometer"`
	Distance  float64 `json:"distance_km"`
	Cost      float64 `json:"cost"`
	Spent     float64 `json:"spent"`
}

func (d Delta) isZero() bool {
	return d.Logs == 0 &&
		d.Purchases == 0 &&
		d.Odometer == 0 &&
		d.Distance == 0 &&
		d.Cost == 0 &&
		d.Spent == 0
}

// Event types.
const (
	EventSnapshot     = "snapshot"
	EventLogbookDelta = "logbook_delta"
)

// Event is emitted whenever the logbook snapshot updates.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DBPath          string    `json:"db_path"`
	Vehicle         string    `json:"vehicle,omitempty"`
	Days            int       `json:"days"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg        Config
	src        Source
	log        *logrus.Entry
	forecaster *pipeline.Forecaster
	metrics    *metrics

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	hasSnapshot bool
	snapshot    Snapshot
	outlook     model.Outlook
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service reading from src.
func New(cfg Config, src Source, log *logrus.Logger) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 15 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8788"
	}
	if cfg.Days < 1 {
		cfg.Days = 30
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}

	return &Service{
		cfg:        cfg,
		src:        src,
		log:        log.WithField("service", "fuellogd"),
		forecaster: pipeline.NewForecaster(cfg.App, cfg.Clock),
		metrics:    newMetrics(),
		startedAt:  cfg.Clock.Now(),
		subs:       make(map[int]chan Event),
	}
}

// Handler returns the HTTP API.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/forecast", s.handleForecast)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	mux.Handle("/metrics", s.metrics.handler())
	return mux
}

// Run starts HTTP endpoints and polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce(ctx)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce(ctx)
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

func (s *Service) pollOnce(ctx context.Context) {
	timer := time.Now()
	defer func() { s.metrics.pollDuration.Observe(time.Since(timer).Seconds()) }()
	s.metrics.polls.Inc()

	now := s.cfg.Clock.Now()
	lb, err := s.src.LoadLogbook(ctx, s.cfg.Vehicle)
	if err != nil {
		s.metrics.pollErrors.Inc()
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = now
		s.pollCount++
		s.mu.Unlock()
		s.log.WithError(err).Warn("poll failed")
		return
	}

	outlook := s.forecaster.Outlook(lb.Logs, lb.Purchases, lb.Maintenance, s.cfg.App.Budget.Monthly)
	snap := buildSnapshot(lb, pipeline.TrailingDays(now, s.cfg.Days), outlook, now)
	s.metrics.observe(snap)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.outlook = outlook
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventSnapshot,
			Timestamp: now,
			Snapshot:  snap,
		}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{
			ID:        s.nextEventID,
			Type:      EventLogbookDelta,
			Timestamp: now,
			Snapshot:  snap,
			Delta:     delta,
		}
		publish = true
	}
	s.mu.Unlock()

	if publish {
		s.log.WithFields(logrus.Fields{
			"event":     ev.Type,
			"logs":      snap.Logs,
			"purchases": snap.Purchases,
		}).Info("logbook updated")
		s.publishEvent(ev)
	}
}

func buildSnapshot(lb store.Logbook, w model.Window, outlook model.Outlook, at time.Time) Snapshot {
	agg := pipeline.Aggregate(lb.Logs, w)
	buys := pipeline.AggregatePurchases(lb.Purchases, w)

	snap := Snapshot{
		At:             at,
		Logs:           len(lb.Logs),
		Purchases:      len(lb.Purchases),
		Odometer:       outlook.Odometer,
		Distance:       agg.Distance,
		Cost:           agg.Cost,
		Spent:          buys.Spent,
		Liters:         buys.Liters,
		AvgConsumption: agg.AvgConsumption,
		CostPerKm:      agg.CostPerKm,
	}
	if outlook.NextRefuel != nil {
		days := outlook.NextRefuel.DaysRemaining
		snap.DaysToRefuel = &days
	}
	if outlook.TankEmpty != nil {
		r := outlook.TankEmpty.RangeKm
		snap.RangeKm = &r
	}
	return snap
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Logs:      curr.Logs - prev.Logs,
		Purchases: curr.Purchases - prev.Purchases,
		Odometer:  curr.Odometer - prev.Odometer,
		Distance:  curr.Distance - prev.Distance,
		Cost:      curr.Cost - prev.Cost,
		Spent:     curr.Spent - prev.Spent,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DBPath:          s.cfg.DBPath,
		Vehicle:         s.cfg.Vehicle,
		Days:            s.cfg.Days,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.snapshotStatus())
}

func (s *Service) handleForecast(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.hasSnapshot
	outlook := s.outlook
	s.mu.RUnlock()

	if !ready {
		http.Error(w, "no poll has completed yet", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, outlook)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: s.cfg.Clock.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
