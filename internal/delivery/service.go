package delivery

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
)

// Status tags the lifecycle of a delivery.
type Status string

const (
	StatusPlanned   Status = "PLANNED"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var statusTransitions = map[Status][]Status{
	StatusPlanned:   {StatusInTransit, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
}

// Delivery is a planned tanker trip fulfilling an order.
type Delivery struct {
	ID                uuid.UUID       `json:"id"`
	OrderID           uuid.UUID       `json:"order_id"`
	VehicleID         *uuid.UUID      `json:"vehicle_id,omitempty"`
	DriverID          *uuid.UUID      `json:"driver_id,omitempty"`
	PlannedDate       time.Time       `json:"planned_date"`
	DeliveredAt       *time.Time      `json:"delivered_at,omitempty"`
	DeliveredQuantity decimal.Decimal `json:"delivered_quantity"`
	Status            Status          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Input carries the fields of a planned delivery.
type Input struct {
	OrderID     uuid.UUID
	VehicleID   *uuid.UUID
	DriverID    *uuid.UUID
	PlannedDate time.Time
}

// Store abstracts delivery persistence.
type Store interface {
	Create(ctx context.Context, input Input) (Delivery, error)
	Get(ctx context.Context, id uuid.UUID) (Delivery, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Delivery, error)
	Update(ctx context.Context, d Delivery) (Delivery, error)
}

// Service plans and tracks deliveries.
type Service struct {
	Store Store
}

// Plan schedules a delivery for an order.
func (s *Service) Plan(ctx context.Context, input Input) (Delivery, error) {
	if input.PlannedDate.IsZero() {
		return Delivery{}, common.NewAppError("VALIDATION_ERROR", "planned date is required", http.StatusBadRequest, nil)
	}
	return s.Store.Create(ctx, input)
}

// Get loads one delivery.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Delivery, error) {
	d, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Delivery{}, common.NewAppError("NOT_FOUND", "delivery not found", http.StatusNotFound, err)
		}
		return Delivery{}, err
	}
	return d, nil
}

// ListByOrder returns all deliveries of an order.
func (s *Service) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]Delivery, error) {
	return s.Store.ListByOrder(ctx, orderID)
}

// Dispatch moves a planned delivery onto the road.
func (s *Service) Dispatch(ctx context.Context, id uuid.UUID) (Delivery, error) {
	return s.transition(ctx, id, StatusInTransit, func(d *Delivery) {})
}

// Complete records arrival with the actually delivered quantity. Metered
// tanker counters rarely match the ordered quantity to the liter.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, deliveredQuantity decimal.Decimal, deliveredAt time.Time) (Delivery, error) {
	if deliveredQuantity.IsNegative() {
		return Delivery{}, common.NewAppError("VALIDATION_ERROR", "delivered quantity cannot be negative", http.StatusBadRequest, nil)
	}
	if deliveredAt.IsZero() {
		deliveredAt = time.Now()
	}
	return s.transition(ctx, id, StatusDelivered, func(d *Delivery) {
		d.DeliveredQuantity = deliveredQuantity
		d.DeliveredAt = &deliveredAt
	})
}

// Cancel aborts a delivery that has not arrived yet.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (Delivery, error) {
	return s.transition(ctx, id, StatusCancelled, func(d *Delivery) {})
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, next Status, apply func(*Delivery)) (Delivery, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return Delivery{}, err
	}
	if !canTransition(d.Status, next) {
		return Delivery{}, common.NewAppError("CONFLICT",
			fmt.Sprintf("cannot move delivery from %s to %s", d.Status, next), http.StatusConflict, nil)
	}
	d.Status = next
	apply(&d)
	return s.Store.Update(ctx, d)
}

func canTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
