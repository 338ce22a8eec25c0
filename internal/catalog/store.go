package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, supplier_id, name, fuel_type, unit, active, created_at, updated_at`

func (s *PGStore) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO products (supplier_id, name, fuel_type, unit, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+productColumns,
		input.SupplierID, input.Name, input.FuelType, input.Unit, input.Active)
	return scanProduct(row)
}

func (s *PGStore) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (s *PGStore) ListProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE NOT $1 OR active
		ORDER BY name`, activeOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (s *PGStore) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (Product, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE products
		SET supplier_id = $2, name = $3, fuel_type = $4, unit = $5, active = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, input.SupplierID, input.Name, input.FuelType, input.Unit, input.Active)
	return scanProduct(row)
}

const supplierColumns = `id, name, coalesce(contact_name, ''), coalesce(phone, ''), coalesce(email, ''), created_at, updated_at`

func (s *PGStore) CreateSupplier(ctx context.Context, input SupplierInput) (Supplier, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, contact_name, phone, email)
		VALUES ($1, nullif($2, ''), nullif($3, ''), nullif($4, ''))
		RETURNING `+supplierColumns,
		input.Name, input.ContactName, input.Phone, input.Email)
	return scanSupplier(row)
}

func (s *PGStore) GetSupplier(ctx context.Context, id uuid.UUID) (Supplier, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	return scanSupplier(row)
}

func (s *PGStore) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, sup)
	}
	return suppliers, rows.Err()
}

func (s *PGStore) UpdateSupplier(ctx context.Context, id uuid.UUID, input SupplierInput) (Supplier, error) {
	row := s.Pool.QueryRow(ctx, `
		UPDATE suppliers
		SET name = $2, contact_name = nullif($3, ''), phone = nullif($4, ''),
			email = nullif($5, ''), updated_at = now()
		WHERE id = $1
		RETURNING `+supplierColumns,
		id, input.Name, input.ContactName, input.Phone, input.Email)
	return scanSupplier(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.SupplierID, &p.Name, &p.FuelType, &p.Unit,
		&p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func scanSupplier(row rowScanner) (Supplier, error) {
	var sup Supplier
	err := row.Scan(&sup.ID, &sup.Name, &sup.ContactName, &sup.Phone,
		&sup.Email, &sup.CreatedAt, &sup.UpdatedAt)
	return sup, err
}
