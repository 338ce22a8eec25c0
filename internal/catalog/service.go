package catalog

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

// Product is a fuel product sold by the company.
type Product struct {
	ID         uuid.UUID  `json:"id"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	Name       string     `json:"name"`
	FuelType   string     `json:"fuel_type"`
	Unit       string     `json:"unit"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Supplier is an upstream fuel supplier.
type Supplier struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductInput carries the writable product fields.
type ProductInput struct {
	SupplierID *uuid.UUID
	Name       string
	FuelType   string
	Unit       string
	Active     bool
}

// SupplierInput carries the writable supplier fields.
type SupplierInput struct {
	Name        string
	ContactName string
	Phone       string
	Email       string
}

// Store abstracts catalog persistence.
type Store interface {
	CreateProduct(ctx context.Context, input ProductInput) (Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	ListProducts(ctx context.Context, activeOnly bool) ([]Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (Product, error)
	CreateSupplier(ctx context.Context, input SupplierInput) (Supplier, error)
	GetSupplier(ctx context.Context, id uuid.UUID) (Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, input SupplierInput) (Supplier, error)
}

// Service orchestrates catalog queries and caching. The product list is
// read on nearly every offer form load, so it goes through Redis.
type Service struct {
	Store Store
	Cache *Cache
}

const productListKey = "catalog:products:active"

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	input, err := normalizeProduct(input)
	if err != nil {
		return Product{}, err
	}
	p, err := s.Store.CreateProduct(ctx, input)
	if err != nil {
		return Product{}, err
	}
	_ = s.Cache.Del(ctx, productListKey)
	return p, nil
}

// GetProduct loads one product.
func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (Product, error) {
	p, err := s.Store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, notFoundOr(err, "product not found")
	}
	return p, nil
}

// ListProducts returns products, using the cache for the active-only list.
func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	if !activeOnly {
		return s.Store.ListProducts(ctx, false)
	}
	var cached []Product
	if ok, err := s.Cache.GetJSON(ctx, productListKey, &cached); err == nil && ok {
		return cached, nil
	}
	products, err := s.Store.ListProducts(ctx, true)
	if err != nil {
		return nil, err
	}
	_ = s.Cache.SetJSON(ctx, productListKey, products)
	return products, nil
}

// UpdateProduct applies changes and drops the cached list.
func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (Product, error) {
	input, err := normalizeProduct(input)
	if err != nil {
		return Product{}, err
	}
	p, err := s.Store.UpdateProduct(ctx, id, input)
	if err != nil {
		return Product{}, notFoundOr(err, "product not found")
	}
	_ = s.Cache.Del(ctx, productListKey)
	return p, nil
}

// CreateSupplier stores a new supplier.
func (s *Service) CreateSupplier(ctx context.Context, input SupplierInput) (Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Supplier{}, common.NewAppError("VALIDATION_ERROR", "supplier name is required", http.StatusBadRequest, nil)
	}
	return s.Store.CreateSupplier(ctx, input)
}

// GetSupplier loads one supplier.
func (s *Service) GetSupplier(ctx context.Context, id uuid.UUID) (Supplier, error) {
	sup, err := s.Store.GetSupplier(ctx, id)
	if err != nil {
		return Supplier{}, notFoundOr(err, "supplier not found")
	}
	return sup, nil
}

// ListSuppliers returns all suppliers sorted by name.
func (s *Service) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	return s.Store.ListSuppliers(ctx)
}

// UpdateSupplier applies changes to a supplier.
func (s *Service) UpdateSupplier(ctx context.Context, id uuid.UUID, input SupplierInput) (Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return Supplier{}, common.NewAppError("VALIDATION_ERROR", "supplier name is required", http.StatusBadRequest, nil)
	}
	sup, err := s.Store.UpdateSupplier(ctx, id, input)
	if err != nil {
		return Supplier{}, notFoundOr(err, "supplier not found")
	}
	return sup, nil
}

func normalizeProduct(input ProductInput) (ProductInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.FuelType = strings.TrimSpace(input.FuelType)
	if input.Name == "" || input.FuelType == "" {
		return input, common.NewAppError("VALIDATION_ERROR", "product name and fuel type are required", http.StatusBadRequest, nil)
	}
	if strings.TrimSpace(input.Unit) == "" {
		input.Unit = "liter"
	}
	return input, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NewAppError("NOT_FOUND", message, http.StatusNotFound, err)
	}
	return err
}
