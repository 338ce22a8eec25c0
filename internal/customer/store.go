package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

const customerColumns = `id, name, coalesce(tax_number, ''), coalesce(phone, ''),
	coalesce(email, ''), coalesce(address, ''), created_at, updated_at`

func (s *PGStore) Create(ctx context.Context, input Input) (Customer, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO customers (name, tax_number, phone, email, address)
		VALUES ($1, nullif($2, ''), nullif($3, ''), nullif($4, ''), nullif($5, ''))
		RETURNING `+customerColumns,
		input.Name, input.TaxNumber, input.Phone, input.Email, input.Address)
	return scanCustomer(row)
}

func (s *PGStore) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	return scanCustomer(row)
}

func (s *PGStore) List(ctx context.Context, query string, limit, offset int) ([]Customer, int, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'
		ORDER BY name
		LIMIT $2 OFFSET $3`, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := make([]Customer, 0, limit)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.Pool.QueryRow(ctx, `
		SELECT count(*) FROM customers
		WHERE $1 = '' OR name ILIKE '%' || $1 || '%'`, query).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (s *PGStore) Update(ctx context.Context, id uuid.UUID, input Input) (Customer, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE customers
		SET name = $2, tax_number = nullif($3, ''), phone = nullif($4, ''),
			email = nullif($5, ''), address = nullif($6, ''), updated_at = now()
		WHERE id = $1
		RETURNING `+customerColumns,
		id, input.Name, input.TaxNumber, input.Phone, input.Email, input.Address)
	return scanCustomer(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.TaxNumber, &c.Phone, &c.Email,
		&c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}
