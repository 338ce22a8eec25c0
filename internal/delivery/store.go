package delivery

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

const deliveryColumns = `id, order_id, vehicle_id, driver_id, planned_date, delivered_at,
	delivered_quantity, status, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, input Input) (Delivery, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO deliveries (order_id, vehicle_id, driver_id, planned_date, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+deliveryColumns,
		input.OrderID, input.VehicleID, input.DriverID, input.PlannedDate, StatusPlanned)
	return scanDelivery(row)
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Delivery, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+deliveryColumns+` FROM deliveries WHERE id = $1`, id)
	return scanDelivery(row)
}

func (s *PGStore) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Delivery, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+deliveryColumns+`
		FROM deliveries
		WHERE order_id = $1
		ORDER BY planned_date`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var deliveries []Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}

func (s *PGStore) Update(ctx context.Context, d Delivery) (Delivery, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE deliveries
		SET vehicle_id = $2, driver_id = $3, planned_date = $4, delivered_at = $5,
			delivered_quantity = $6, status = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+deliveryColumns,
		d.ID, d.VehicleID, d.DriverID, d.PlannedDate, d.DeliveredAt,
		d.DeliveredQuantity, d.Status)
	return scanDelivery(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDelivery(row rowScanner) (Delivery, error) {
	var d Delivery
	err := row.Scan(&d.ID, &d.OrderID, &d.VehicleID, &d.DriverID, &d.PlannedDate,
		&d.DeliveredAt, &d.DeliveredQuantity, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}
