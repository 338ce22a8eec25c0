package customer

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fuelops/backend-fuel/internal/common"
)

// Customer is a company or person buying fuel.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxNumber string    `json:"tax_number,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Input carries the writable customer fields.
type Input struct {
	Name      string
	TaxNumber string
	Phone     string
	Email     string
	Address   string
}

// Store abstracts customer persistence.
type Store interface {
	Create(ctx context.Context, input Input) (Customer, error)
	Get(ctx context.Context, id uuid.UUID) (Customer, error)
	List(ctx context.Context, query string, limit, offset int) ([]Customer, int, error)
	Update(ctx context.Context, id uuid.UUID, input Input) (Customer, error)
}

// Service manages the customer directory.
type Service struct {
	Store Store
}

func (s *Service) Create(ctx context.Context, input Input) (Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Customer{}, common.NewAppError("VALIDATION_ERROR", "customer name is required", http.StatusBadRequest, nil)
	}
	return s.Store.Create(ctx, input)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Customer, error) {
	c, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, common.NewAppError("NOT_FOUND", "customer not found", http.StatusNotFound, err)
		}
		return Customer{}, err
	}
	return c, nil
}

// List searches by name when query is non-empty.
func (s *Service) List(ctx context.Context, query string, limit, offset int) ([]Customer, int, error) {
	return s.Store.List(ctx, strings.TrimSpace(query), limit, offset)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, input Input) (Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Customer{}, common.NewAppError("VALIDATION_ERROR", "customer name is required", http.StatusBadRequest, nil)
	}
	c, err := s.Store.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, common.NewAppError("NOT_FOUND", "customer not found", http.StatusNotFound, err)
		}
		return Customer{}, err
	}
	return c, nil
}
