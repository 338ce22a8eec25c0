package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

const orderColumns = `id, offer_id, customer_id, product_id, quantity, unit_price,
	total_amount, status, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, o Order) (Order, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO orders (offer_id, customer_id, product_id, quantity, unit_price, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+orderColumns,
		o.OfferID, o.CustomerID, o.ProductID, o.Quantity, o.UnitPrice, o.TotalAmount, o.Status)
	return scanOrder(row)
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return scanOrder(row)
}

func (s *PGStore) List(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE $1 = '00000000-0000-0000-0000-000000000000'::uuid OR customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, customerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]Order, 0, limit)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.Pool.QueryRow(ctx, `
		SELECT count(*) FROM orders
		WHERE $1 = '00000000-0000-0000-0000-000000000000'::uuid OR customer_id = $1`,
		customerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *PGStore) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Order, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, id, status)
	return scanOrder(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OfferID, &o.CustomerID, &o.ProductID, &o.Quantity,
		&o.UnitPrice, &o.TotalAmount, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
