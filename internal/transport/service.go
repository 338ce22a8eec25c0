package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Company is a haulage company carrying deliveries.
type Company struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Vehicle is a tanker truck belonging to a company.
type Vehicle struct {
	ID             uuid.UUID       `json:"id"`
	CompanyID      uuid.UUID       `json:"company_id"`
	Plate          string          `json:"plate"`
	CapacityLiters decimal.Decimal `json:"capacity_liters"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Driver belongs to a company and is assigned to deliveries.
type Driver struct {
	ID        uuid.UUID `json:"id"`
	CompanyID uuid.UUID `json:"company_id"`
	Name      string    `json:"name"`
	LicenceNo string    `json:"licence_no,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VehicleInput carries the writable vehicle fields.
type VehicleInput struct {
	CompanyID      uuid.UUID
	Plate          string
	CapacityLiters decimal.Decimal
}

// DriverInput carries the writable driver fields.
type DriverInput struct {
	CompanyID uuid.UUID
	Name      string
	LicenceNo string
	Phone     string
}

// Store abstracts transport persistence.
type Store interface {
	CreateCompany(ctx context.Context, name, phone string) (Company, error)
	GetCompany(ctx context.Context, id uuid.UUID) (Company, error)
	ListCompanies(ctx context.Context) ([]Company, error)
	CreateVehicle(ctx context.Context, input VehicleInput) (Vehicle, error)
	ListVehicles(ctx context.Context, companyID uuid.UUID) ([]Vehicle, error)
	CreateDriver(ctx context.Context, input DriverInput) (Driver, error)
	ListDrivers(ctx context.Context, companyID uuid.UUID) ([]Driver, error)
}

// Service manages the transport fleet directory.
type Service struct {
	Store Store
}

func (s *Service) CreateCompany(ctx context.Context, name, phone string) (Company, error) {
	if strings.TrimSpace(name) == "" {
		return Company{}, common.NewAppError("VALIDATION_ERROR", "company name is required", http.StatusBadRequest, nil)
	}
	return s.Store.CreateCompany(ctx, name, phone)
}

func (s *Service) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	c, err := s.Store.GetCompany(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Company{}, common.NewAppError("NOT_FOUND", "transport company not found", http.StatusNotFound, err)
		}
		return Company{}, err
	}
	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]Company, error) {
	return s.Store.ListCompanies(ctx)
}

// AddVehicle registers a vehicle under an existing company.
func (s *Service) AddVehicle(ctx context.Context, input VehicleInput) (Vehicle, error) {
	if strings.TrimSpace(input.Plate) == "" {
		return Vehicle{}, common.NewAppError("VALIDATION_ERROR", "vehicle plate is required", http.StatusBadRequest, nil)
	}
	if input.CapacityLiters.IsNegative() {
		return Vehicle{}, common.NewAppError("VALIDATION_ERROR", "vehicle capacity cannot be negative", http.StatusBadRequest, nil)
	}
	if _, err := s.GetCompany(ctx, input.CompanyID); err != nil {
		return Vehicle{}, err
	}
	return s.Store.CreateVehicle(ctx, input)
}

func (s *Service) ListVehicles(ctx context.Context, companyID uuid.UUID) ([]Vehicle, error) {
	return s.Store.ListVehicles(ctx, companyID)
}

// AddDriver registers a driver under an existing company.
func (s *Service) AddDriver(ctx context.Context, input DriverInput) (Driver, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Driver{}, common.NewAppError("VALIDATION_ERROR", "driver name is required", http.StatusBadRequest, nil)
	}
	if _, err := s.GetCompany(ctx, input.CompanyID); err != nil {
		return Driver{}, err
	}
	return s.Store.CreateDriver(ctx, input)
}

func (s *Service) ListDrivers(ctx context.Context, companyID uuid.UUID) ([]Driver, error) {
	return s.Store.ListDrivers(ctx, companyID)
}
