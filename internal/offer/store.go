package offer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

const offerColumns = `id, customer_id, product_id, quantity, price_source, pump_rate,
	distributor_rate, unit_price, shipping_total, shipping_per_unit,
	unit_price_with_shipping, total_amount, status, valid_until, created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, o Offer) (Offer, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO offers (customer_id, product_id, quantity, price_source, pump_rate,
			distributor_rate, unit_price, shipping_total, shipping_per_unit,
			unit_price_with_shipping, total_amount, status, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+offerColumns,
		o.CustomerID, o.ProductID, o.Quantity, o.Source, o.PumpRate,
		o.DistributorRate, o.UnitPrice, o.ShippingTotal, o.ShippingPerUnit,
		o.UnitPriceWithShipping, o.TotalAmount, o.Status, o.ValidUntil)
	return scanOffer(row)
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Offer, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+offerColumns+` FROM offers WHERE id = $1`, id)
	return scanOffer(row)
}

func (s *PGStore) List(ctx context.Context, limit, offset int) ([]Offer, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+offerColumns+`
		FROM offers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	offers := make([]Offer, 0, limit)
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, 0, err
		}
		offers = append(offers, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM offers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return offers, total, nil
}

func (s *PGStore) Update(ctx context.Context, o Offer) (Offer, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE offers
		SET quantity = $2, price_source = $3, pump_rate = $4, distributor_rate = $5,
			unit_price = $6, shipping_total = $7, shipping_per_unit = $8,
			unit_price_with_shipping = $9, total_amount = $10, status = $11,
			valid_until = $12, updated_at = now()
		WHERE id = $1
		RETURNING `+offerColumns,
		o.ID, o.Quantity, o.Source, o.PumpRate, o.DistributorRate,
		o.UnitPrice, o.ShippingTotal, o.ShippingPerUnit,
		o.UnitPriceWithShipping, o.TotalAmount, o.Status, o.ValidUntil)
	return scanOffer(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOffer(row rowScanner) (Offer, error) {
	var o Offer
	err := row.Scan(&o.ID, &o.CustomerID, &o.ProductID, &o.Quantity, &o.Source,
		&o.PumpRate, &o.DistributorRate, &o.UnitPrice, &o.ShippingTotal,
		&o.ShippingPerUnit, &o.UnitPriceWithShipping, &o.TotalAmount,
		&o.Status, &o.ValidUntil, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
