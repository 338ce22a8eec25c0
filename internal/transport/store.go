package transport

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore implements Store on PostgreSQL.
type PGStore struct {
	Pool *pgxpool.Pool
}

func (s *PGStore) CreateCompany(ctx context.Context, name, phone string) (Company, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO transport_companies (name, phone)
		VALUES ($1, nullif($2, ''))
		RETURNING id, name, coalesce(phone, ''), created_at, updated_at`,
		name, phone)
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *PGStore) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, name, coalesce(phone, ''), created_at, updated_at
		FROM transport_companies WHERE id = $1`, id)
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *PGStore) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, coalesce(phone, ''), created_at, updated_at
		FROM transport_companies ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (s *PGStore) CreateVehicle(ctx context.Context, input VehicleInput) (Vehicle, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO vehicles (company_id, plate, capacity_liters)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, plate, capacity_liters, created_at, updated_at`,
		input.CompanyID, input.Plate, input.CapacityLiters)
	var v Vehicle
	err := row.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.CapacityLiters, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func (s *PGStore) ListVehicles(ctx context.Context, companyID uuid.UUID) ([]Vehicle, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, company_id, plate, capacity_liters, created_at, updated_at
		FROM vehicles WHERE company_id = $1 ORDER BY plate`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.CompanyID, &v.Plate, &v.CapacityLiters, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (s *PGStore) CreateDriver(ctx context.Context, input DriverInput) (Driver, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO drivers (company_id, name, licence_no, phone)
		VALUES ($1, $2, nullif($3, ''), nullif($4, ''))
		RETURNING id, company_id, name, coalesce(licence_no, ''), coalesce(phone, ''), created_at, updated_at`,
		input.CompanyID, input.Name, input.LicenceNo, input.Phone)
	var d Driver
	err := row.Scan(&d.ID, &d.CompanyID, &d.Name, &d.LicenceNo, &d.Phone, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *PGStore) ListDrivers(ctx context.Context, companyID uuid.UUID) ([]Driver, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, company_id, name, coalesce(licence_no, ''), coalesce(phone, ''), created_at, updated_at
		FROM drivers WHERE company_id = $1 ORDER BY name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.LicenceNo, &d.Phone, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
