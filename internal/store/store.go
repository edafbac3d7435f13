// Package store provides SQLite persistence for the logbook and
// gamification state.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("store: not found")

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

// Store is a SQLite-backed logbook.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// New wraps an existing handle whose schema is already in place.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Logbook is every record for one vehicle scope.
type Logbook struct {
	Logs        []model.LogEntry
	Purchases   []model.PurchaseEvent
	Maintenance []model.MaintenanceItem
}

// LoadLogbook reads logs, purchases and maintenance items for vehicle.
// An empty vehicle loads everything.
func (s *Store) LoadLogbook(ctx context.Context, vehicle string) (Logbook, error) {
	var lb Logbook
	var err error
	if lb.Logs, err = s.ListLogs(ctx, vehicle); err != nil {
		return lb, err
	}
	if lb.Purchases, err = s.ListPurchases(ctx, vehicle); err != nil {
		return lb, err
	}
	if lb.Maintenance, err = s.ListMaintenance(ctx, vehicle); err != nil {
		return lb, err
	}
	return lb, nil
}

// Counts returns the number of logs and purchases stored.
func (s *Store) Counts(ctx context.Context) (logs, purchases int, err error) {
	if err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM logs").Scan(&logs); err != nil {
		return 0, 0, err
	}
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM purchases").Scan(&purchases)
	return logs, purchases, err
}

// vehicleClause scopes a query to one vehicle plus the rows that belong to
// no vehicle, or to all rows when vehicle is empty.
func vehicleClause(vehicle string) (string, []any) {
	if vehicle == "" {
		return "", nil
	}
	return " WHERE vehicle_id IN (?, '')", []any{vehicle}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t *time.Time) sql.NullString {
	if t == nil || t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(timeLayout), Valid: true}
}

func parseTime(n sql.NullString) *time.Time {
	if !n.Valid || n.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, n.String)
	if err != nil {
		return nil
	}
	t = t.Local()
	return &t
}
