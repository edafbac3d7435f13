package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/fuellog/internal/model"
)

const purchaseColumns = `id, vehicle_id, purchased_at, liters, price_per_liter, total_amount,
	station, odometer, location, is_full_tank, notes`

func insertPurchase(ctx context.Context, ex execer, p model.PurchaseEvent) error {
	_, err := ex.ExecContext(ctx, `INSERT OR REPLACE INTO purchases (`+purchaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.VehicleID, p.Date.UTC().Format(timeLayout), p.Liters, p.PricePerLiter, p.TotalAmount,
		nullString(p.Station), nullFloat(p.Odometer), nullString(p.Location), boolInt(p.IsFullTank), nullString(p.Notes),
	)
	return err
}

// SavePurchase inserts or replaces one purchase.
func (s *Store) SavePurchase(ctx context.Context, p model.PurchaseEvent) error {
	if err := insertPurchase(ctx, s.db, p); err != nil {
		return fmt.Errorf("saving purchase %s: %w", p.ID, err)
	}
	return nil
}

// SavePurchases inserts or replaces purchases in one transaction.
func (s *Store) SavePurchases(ctx context.Context, purchases []model.PurchaseEvent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, p := range purchases {
		if err := insertPurchase(ctx, tx, p); err != nil {
			return fmt.Errorf("saving purchase %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// ListPurchases returns purchases for vehicle ordered by time.
func (s *Store) ListPurchases(ctx context.Context, vehicle string) ([]model.PurchaseEvent, error) {
	where, args := vehicleClause(vehicle)
	rows, err := s.db.QueryContext(ctx, "SELECT "+purchaseColumns+" FROM purchases"+where+" ORDER BY purchased_at, rowid", args...)
	if err != nil {
		return nil, fmt.Errorf("listing purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []model.PurchaseEvent
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

// GetPurchase returns one purchase by ID.
func (s *Store) GetPurchase(ctx context.Context, id string) (model.PurchaseEvent, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+purchaseColumns+" FROM purchases WHERE id = ?", id)
	p, err := scanPurchase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PurchaseEvent{}, ErrNotFound
	}
	return p, err
}

func scanPurchase(sc scanner) (model.PurchaseEvent, error) {
	var p model.PurchaseEvent
	var at string
	var odo sql.NullFloat64
	var station, location, notes sql.NullString
	var full int

	err := sc.Scan(
		&p.ID, &p.VehicleID, &at, &p.Liters, &p.PricePerLiter, &p.TotalAmount,
		&station, &odo, &location, &full, &notes,
	)
	if err != nil {
		return p, err
	}

	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return p, fmt.Errorf("purchase %s: bad time %q: %w", p.ID, at, err)
	}
	p.Date = t.Local()
	p.Odometer = floatPtr(odo)
	p.Station = station.String
	p.Location = location.String
	p.IsFullTank = full != 0
	p.Notes = notes.String
	return p, nil
}
