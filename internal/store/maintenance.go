package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/theirongolddev/fuellog/internal/model"
)

const maintenanceColumns = `id, vehicle_id, title, interval_km, last_service_km,
	notify_before_km, notify_before_days, due_date`

// SaveMaintenance inserts or replaces a maintenance item.
func (s *Store) SaveMaintenance(ctx context.Context, m model.MaintenanceItem) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO maintenance (`+maintenanceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.VehicleID, m.Title, m.IntervalKm, m.LastServiceKm,
		m.NotifyBeforeKm, m.NotifyBeforeDays, formatTime(m.DueDate),
	)
	if err != nil {
		return fmt.Errorf("saving maintenance %s: %w", m.ID, err)
	}
	return nil
}

// ListMaintenance returns maintenance items for vehicle.
func (s *Store) ListMaintenance(ctx context.Context, vehicle string) ([]model.MaintenanceItem, error) {
	where, args := vehicleClause(vehicle)
	rows, err := s.db.QueryContext(ctx, "SELECT "+maintenanceColumns+" FROM maintenance"+where+" ORDER BY title", args...)
	if err != nil {
		return nil, fmt.Errorf("listing maintenance: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.MaintenanceItem
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMaintenance returns one maintenance item by ID.
func (s *Store) GetMaintenance(ctx context.Context, id string) (model.MaintenanceItem, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+maintenanceColumns+" FROM maintenance WHERE id = ?", id)
	m, err := scanMaintenance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MaintenanceItem{}, ErrNotFound
	}
	return m, err
}

// MarkServiced records a service at odometer, restarting the interval.
func (s *Store) MarkServiced(ctx context.Context, id string, odometer float64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE maintenance SET last_service_km = ? WHERE id = ?", odometer, id)
	if err != nil {
		return fmt.Errorf("marking %s serviced: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMaintenance(sc scanner) (model.MaintenanceItem, error) {
	var m model.MaintenanceItem
	var due sql.NullString
	err := sc.Scan(
		&m.ID, &m.VehicleID, &m.Title, &m.IntervalKm, &m.LastServiceKm,
		&m.NotifyBeforeKm, &m.NotifyBeforeDays, &due,
	)
	if err != nil {
		return m, err
	}
	m.DueDate = parseTime(due)
	return m, nil
}
