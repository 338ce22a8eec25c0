package pricebook

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists reference prices in Postgres.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Insert records a new price point.
func (s PGStore) Insert(ctx context.Context, input PriceInput) (ReferencePrice, error) {
	price := ReferencePrice{
		ProductID:        input.ProductID,
		PumpPrice:        input.PumpPrice,
		DistributorPrice: input.DistributorPrice,
		ValidFrom:        input.ValidFrom,
	}
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO reference_prices (product_id, pump_price, distributor_price, valid_from)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		input.ProductID, input.PumpPrice, input.DistributorPrice, input.ValidFrom)
	if err := row.Scan(&price.ID, &price.CreatedAt); err != nil {
		return ReferencePrice{}, err
	}
	return price, nil
}

// Latest returns the most recently effective price point of a product.
func (s PGStore) Latest(ctx context.Context, productID uuid.UUID) (ReferencePrice, error) {
	var price ReferencePrice
	row := s.Pool.QueryRow(ctx, `
		SELECT id, product_id, pump_price, distributor_price, valid_from, created_at
		FROM reference_prices
		WHERE product_id = $1 AND valid_from <= now()
		ORDER BY valid_from DESC
		LIMIT 1`, productID)
	err := row.Scan(&price.ID, &price.ProductID, &price.PumpPrice, &price.DistributorPrice,
		&price.ValidFrom, &price.CreatedAt)
	if err != nil {
		return ReferencePrice{}, err
	}
	return price, nil
}

// History lists price points of a product, newest first.
func (s PGStore) History(ctx context.Context, productID uuid.UUID, limit, offset int) ([]ReferencePrice, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, product_id, pump_price, distributor_price, valid_from, created_at
		FROM reference_prices
		WHERE product_id = $1
		ORDER BY valid_from DESC
		LIMIT $2 OFFSET $3`, productID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	prices := make([]ReferencePrice, 0, limit)
	for rows.Next() {
		var price ReferencePrice
		if err := rows.Scan(&price.ID, &price.ProductID, &price.PumpPrice, &price.DistributorPrice,
			&price.ValidFrom, &price.CreatedAt); err != nil {
			return nil, 0, err
		}
		prices = append(prices, price)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := s.Pool.QueryRow(ctx, `SELECT count(*) FROM reference_prices WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return prices, total, nil
}
