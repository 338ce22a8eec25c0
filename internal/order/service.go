package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
	"github.com/fuelops/backend-fuel/internal/offer"
)

// Status tags the lifecycle of an order.
type Status string

const (
	StatusNew       Status = "NEW"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var statusTransitions = map[Status][]Status{
	StatusNew:       {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered, StatusCancelled},
}

// Order is a confirmed fuel sale, usually born from an accepted offer.
type Order struct {
	ID          uuid.UUID       `json:"id"`
	OfferID     *uuid.UUID      `json:"offer_id,omitempty"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Input carries the fields of a manually created order.
type Input struct {
	CustomerID  uuid.UUID
	ProductID   uuid.UUID
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Store abstracts order persistence.
type Store interface {
	Create(ctx context.Context, o Order) (Order, error)
	Get(ctx context.Context, id uuid.UUID) (Order, error)
	List(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status Status) (Order, error)
}

// Service manages orders.
type Service struct {
	Store Store
}

// CreateFromOffer turns an accepted offer into a new order. It satisfies the
// offer package's OrderCreator.
func (s *Service) CreateFromOffer(ctx context.Context, o offer.Offer) (uuid.UUID, error) {
	offerID := o.ID
	created, err := s.Store.Create(ctx, Order{
		OfferID:     &offerID,
		CustomerID:  o.CustomerID,
		ProductID:   o.ProductID,
		Quantity:    o.Quantity,
		UnitPrice:   o.UnitPriceWithShipping,
		TotalAmount: o.TotalAmount,
		Status:      StatusNew,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return created.ID, nil
}

// Create stores a manually entered order without an offer behind it.
func (s *Service) Create(ctx context.Context, input Input) (Order, error) {
	if !input.Quantity.IsPositive() {
		return Order{}, common.NewAppError("VALIDATION_ERROR", "order quantity must be positive", http.StatusBadRequest, nil)
	}
	if input.UnitPrice.IsNegative() {
		return Order{}, common.NewAppError("VALIDATION_ERROR", "unit price cannot be negative", http.StatusBadRequest, nil)
	}
	total := input.TotalAmount
	if total.IsZero() {
		total = input.UnitPrice.Mul(input.Quantity).Round(2)
	}
	return s.Store.Create(ctx, Order{
		CustomerID:  input.CustomerID,
		ProductID:   input.ProductID,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		TotalAmount: total,
		Status:      StatusNew,
	})
}

// Get loads one order.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	o, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, common.NewAppError("NOT_FOUND", "order not found", http.StatusNotFound, err)
		}
		return Order{}, err
	}
	return o, nil
}

// List returns a page of orders, optionally filtered by customer.
func (s *Service) List(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]Order, int, error) {
	return s.Store.List(ctx, customerID, limit, offset)
}

// SetStatus moves an order along its lifecycle.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next Status) (Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if !CanTransition(o.Status, next) {
		return Order{}, common.NewAppError("CONFLICT",
			fmt.Sprintf("cannot move order from %s to %s", o.Status, next), http.StatusConflict, nil)
	}
	return s.Store.SetStatus(ctx, id, next)
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
