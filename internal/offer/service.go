package offer

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
	"github.com/fuelops/backend-fuel/internal/pricebook"
)

// Status tags the lifecycle of an offer.
type Status string

const (
	StatusDraft    Status = "DRAFT"
	StatusSent     Status = "SENT"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

var statusTransitions = map[Status][]Status{
	StatusDraft: {StatusSent, StatusRejected},
	StatusSent:  {StatusAccepted, StatusRejected},
}

// Offer is a price quote issued to a customer for a fuel order.
type Offer struct {
	ID                    uuid.UUID       `json:"id"`
	CustomerID            uuid.UUID       `json:"customer_id"`
	ProductID             uuid.UUID       `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	Source                PriceSource     `json:"price_source"`
	PumpRate              decimal.Decimal `json:"pump_rate"`
	DistributorRate       decimal.Decimal `json:"distributor_rate"`
	UnitPrice             decimal.Decimal `json:"unit_price"`
	ShippingTotal         decimal.Decimal `json:"shipping_total"`
	ShippingPerUnit       decimal.Decimal `json:"shipping_per_unit"`
	UnitPriceWithShipping decimal.Decimal `json:"unit_price_with_shipping"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Status                Status          `json:"status"`
	ValidUntil            *time.Time      `json:"valid_until,omitempty"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// QuoteRequest carries the inputs of an offer calculation. When
// ManualUnitPrice is set the typed price wins over the rate.
type QuoteRequest struct {
	ProductID       uuid.UUID
	Source          PriceSource
	RatePercent     decimal.Decimal
	Quantity        decimal.Decimal
	ShippingTotal   decimal.Decimal
	ManualUnitPrice *decimal.Decimal
}

// Quote is the calculated pricing of an offer together with both tracked
// rates and the reference price point that fed the calculation.
type Quote struct {
	Reference pricebook.ReferencePrice `json:"reference"`
	Rates     RateSet                  `json:"rates"`
	Pricing   PricingResult            `json:"pricing"`
}

// Prices supplies the current reference price of a product.
type Prices interface {
	Latest(ctx context.Context, productID uuid.UUID) (pricebook.ReferencePrice, error)
}

// OrderCreator turns an accepted offer into an order.
type OrderCreator interface {
	CreateFromOffer(ctx context.Context, o Offer) (uuid.UUID, error)
}

// Store abstracts offer persistence.
type Store interface {
	Create(ctx context.Context, o Offer) (Offer, error)
	Get(ctx context.Context, id uuid.UUID) (Offer, error)
	List(ctx context.Context, limit, offset int) ([]Offer, int, error)
	Update(ctx context.Context, o Offer) (Offer, error)
}

// Service orchestrates offers on top of the pricing engine.
type Service struct {
	Store  Store
	Prices Prices
	Orders OrderCreator
}

// Quote computes pricing for the given request without persisting anything.
// The offer form calls this on every field change.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	if req.Quantity.IsNegative() || req.ShippingTotal.IsNegative() {
		return Quote{}, common.NewAppError("VALIDATION_ERROR", "quantity and shipping cost cannot be negative", http.StatusBadRequest, nil)
	}
	ref, err := s.Prices.Latest(ctx, req.ProductID)
	if err != nil {
		return Quote{}, err
	}
	source := normalizeSource(req.Source)
	rates := RateSet{Active: source}
	input := PricingInput{
		ReferenceUnitPrice: rates.Reference(ref.PumpPrice, ref.DistributorPrice),
		RatePercent:        req.RatePercent,
		Quantity:           req.Quantity,
		ShippingTotal:      req.ShippingTotal,
	}

	var pricing PricingResult
	if req.ManualUnitPrice != nil {
		pricing, _ = ComputeFromManualUnitPrice(input, *req.ManualUnitPrice)
	} else {
		pricing = ComputeFromRate(input)
	}
	// Both rates track every unit price change so the inactive source stays
	// comparable on the form.
	rates = rates.Sync(pricing.UnitPrice, ref.PumpPrice, ref.DistributorPrice)
	return Quote{Reference: ref, Rates: rates, Pricing: pricing}, nil
}

// Create calculates and persists a new draft offer.
func (s *Service) Create(ctx context.Context, customerID uuid.UUID, req QuoteRequest, validUntil *time.Time) (Offer, error) {
	quote, err := s.Quote(ctx, req)
	if err != nil {
		return Offer{}, err
	}
	o := Offer{
		CustomerID:            customerID,
		ProductID:             req.ProductID,
		Quantity:              req.Quantity,
		Source:                normalizeSource(req.Source),
		PumpRate:              quote.Rates.PumpRate,
		DistributorRate:       quote.Rates.DistributorRate,
		UnitPrice:             quote.Pricing.UnitPrice,
		ShippingTotal:         req.ShippingTotal,
		ShippingPerUnit:       quote.Pricing.ShippingPerUnit,
		UnitPriceWithShipping: quote.Pricing.UnitPriceWithShipping,
		TotalAmount:           quote.Pricing.TotalAmount,
		Status:                StatusDraft,
		ValidUntil:            validUntil,
	}
	return s.Store.Create(ctx, o)
}

// Reprice recalculates an existing offer with new inputs, keeping its status.
func (s *Service) Reprice(ctx context.Context, id uuid.UUID, req QuoteRequest) (Offer, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return Offer{}, err
	}
	if o.Status == StatusAccepted || o.Status == StatusRejected {
		return Offer{}, common.NewAppError("CONFLICT", "offer is already finalised", http.StatusConflict, nil)
	}
	req.ProductID = o.ProductID
	quote, err := s.Quote(ctx, req)
	if err != nil {
		return Offer{}, err
	}
	o.Quantity = req.Quantity
	o.Source = normalizeSource(req.Source)
	o.PumpRate = quote.Rates.PumpRate
	o.DistributorRate = quote.Rates.DistributorRate
	o.UnitPrice = quote.Pricing.UnitPrice
	o.ShippingTotal = req.ShippingTotal
	o.ShippingPerUnit = quote.Pricing.ShippingPerUnit
	o.UnitPriceWithShipping = quote.Pricing.UnitPriceWithShipping
	o.TotalAmount = quote.Pricing.TotalAmount
	return s.Store.Update(ctx, o)
}

// Get loads one offer.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Offer, error) {
	return s.get(ctx, id)
}

// List returns a page of offers with the total count.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Offer, int, error) {
	return s.Store.List(ctx, limit, offset)
}

// SetStatus moves an offer along its lifecycle.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next Status) (Offer, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return Offer{}, err
	}
	if !canTransition(o.Status, next) {
		return Offer{}, common.NewAppError("CONFLICT",
			fmt.Sprintf("cannot move offer from %s to %s", o.Status, next), http.StatusConflict, nil)
	}
	o.Status = next
	return s.Store.Update(ctx, o)
}

// Accept finalises an offer and creates the matching order.
func (s *Service) Accept(ctx context.Context, id uuid.UUID) (Offer, uuid.UUID, error) {
	o, err := s.get(ctx, id)
	if err != nil {
		return Offer{}, uuid.Nil, err
	}
	if o.Status != StatusDraft && o.Status != StatusSent {
		return Offer{}, uuid.Nil, common.NewAppError("CONFLICT", "offer cannot be accepted in its current status", http.StatusConflict, nil)
	}
	orderID, err := s.Orders.CreateFromOffer(ctx, o)
	if err != nil {
		return Offer{}, uuid.Nil, err
	}
	o.Status = StatusAccepted
	updated, err := s.Store.Update(ctx, o)
	if err != nil {
		return Offer{}, uuid.Nil, err
	}
	return updated, orderID, nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (Offer, error) {
	o, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Offer{}, common.NewAppError("NOT_FOUND", "offer not found", http.StatusNotFound, err)
		}
		return Offer{}, err
	}
	return o, nil
}

func canTransition(from, to Status) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func normalizeSource(source PriceSource) PriceSource {
	if source == SourceDistributor {
		return SourceDistributor
	}
	return SourcePump
}
