package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

const logColumns = `id, vehicle_id, date, odometer, distance, avg_consumption,
	is_refuel_day, is_full_tank, fuel_price, station, fuel_liters, cost, cost_per_km, notes`

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertLog(ctx context.Context, ex execer, e model.LogEntry) error {
	_, err := ex.ExecContext(ctx, `INSERT OR REPLACE INTO logs (`+logColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.VehicleID, e.Date.Format(dateLayout), e.Odometer, e.Distance, nullFloat(e.AvgConsumption),
		boolInt(e.IsRefuelDay), boolInt(e.IsFullTank), e.FuelPrice, nullString(e.Station),
		e.FuelLiters, e.Cost, e.CostPerKm, nullString(e.Notes),
	)
	return err
}

// SaveLog inserts or replaces one log.
func (s *Store) SaveLog(ctx context.Context, e model.LogEntry) error {
	if err := insertLog(ctx, s.db, e); err != nil {
		return fmt.Errorf("saving log %s: %w", e.ID, err)
	}
	return nil
}

// SaveLogs inserts or replaces logs in one transaction.
func (s *Store) SaveLogs(ctx context.Context, logs []model.LogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, e := range logs {
		if err := insertLog(ctx, tx, e); err != nil {
			return fmt.Errorf("saving log %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// ReplaceLogs swaps the logs ListLogs returns for vehicle, unscoped ones
// included, for logs in a single transaction. Either all rows are replaced
// or none are. An empty vehicle replaces the whole table.
func (s *Store) ReplaceLogs(ctx context.Context, vehicle string, logs []model.LogEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	where, args := vehicleClause(vehicle)
	if _, err := tx.ExecContext(ctx, "DELETE FROM logs"+where, args...); err != nil {
		return fmt.Errorf("clearing logs: %w", err)
	}
	for _, e := range logs {
		if err := insertLog(ctx, tx, e); err != nil {
			return fmt.Errorf("replacing log %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// ListLogs returns logs for vehicle ordered by date.
func (s *Store) ListLogs(ctx context.Context, vehicle string) ([]model.LogEntry, error) {
	where, args := vehicleClause(vehicle)
	rows, err := s.db.QueryContext(ctx, "SELECT "+logColumns+" FROM logs"+where+" ORDER BY date, rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var logs []model.LogEntry
	for rows.Next() {
		e, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

// GetLog returns one log by ID.
func (s *Store) GetLog(ctx context.Context, id string) (model.LogEntry, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+logColumns+" FROM logs WHERE id = ?", id)
	e, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.LogEntry{}, ErrNotFound
	}
	return e, err
}

// DeleteLog removes a log.
func (s *Store) DeleteLog(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM logs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(sc scanner) (model.LogEntry, error) {
	var e model.LogEntry
	var date string
	var consumption sql.NullFloat64
	var station, notes sql.NullString
	var refuel, full int

	err := sc.Scan(
		&e.ID, &e.VehicleID, &date, &e.Odometer, &e.Distance, &consumption,
		&refuel, &full, &e.FuelPrice, &station, &e.FuelLiters, &e.Cost, &e.CostPerKm, &notes,
	)
	if err != nil {
		return e, err
	}

	e.Date, err = time.ParseInLocation(dateLayout, date, time.Local)
	if err != nil {
		return e, fmt.Errorf("log %s: bad date %q: %w", e.ID, date, err)
	}
	e.AvgConsumption = floatPtr(consumption)
	e.IsRefuelDay = refuel != 0
	e.IsFullTank = full != 0
	e.Station = station.String
	e.Notes = notes.String
	return e, nil
}
