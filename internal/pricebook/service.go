package pricebook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/fuelops/backend-fuel/internal/common"
)

// ReferencePrice is one published price point for a product: the retail pump
// price and the main-distributor price, either of which can serve as the base
// of an offer.
type ReferencePrice struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	PumpPrice        decimal.Decimal `json:"pump_price"`
	DistributorPrice decimal.Decimal `json:"distributor_price"`
	ValidFrom        time.Time       `json:"valid_from"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PriceInput carries the fields for publishing a new price point.
type PriceInput struct {
	ProductID        uuid.UUID
	PumpPrice        decimal.Decimal
	DistributorPrice decimal.Decimal
	ValidFrom        time.Time
}

// Store abstracts reference price persistence.
type Store interface {
	Insert(ctx context.Context, input PriceInput) (ReferencePrice, error)
	Latest(ctx context.Context, productID uuid.UUID) (ReferencePrice, error)
	History(ctx context.Context, productID uuid.UUID, limit, offset int) ([]ReferencePrice, int, error)
}

// Service serves reference prices with a Redis read-through cache. The latest
// price per product is hit on every offer recalculation, so it is cached with
// a short TTL and invalidated on publish.
type Service struct {
	Store Store
	R     *redis.Client
	TTL   time.Duration
}

// Latest returns the current price point of a product.
func (s *Service) Latest(ctx context.Context, productID uuid.UUID) (ReferencePrice, error) {
	key := cacheKey(productID)
	if s.R != nil {
		if data, err := s.R.Get(ctx, key).Bytes(); err == nil {
			var price ReferencePrice
			if err := json.Unmarshal(data, &price); err == nil {
				return price, nil
			}
		}
	}
	price, err := s.Store.Latest(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ReferencePrice{}, common.NewAppError("NOT_FOUND", "no reference price published for product", http.StatusNotFound, err)
		}
		return ReferencePrice{}, err
	}
	if s.R != nil {
		if data, err := json.Marshal(price); err == nil {
			_ = s.R.Set(ctx, key, data, s.ttl()).Err()
		}
	}
	return price, nil
}

// Publish records a new price point and drops the cached entry.
func (s *Service) Publish(ctx context.Context, input PriceInput) (ReferencePrice, error) {
	if input.PumpPrice.IsNegative() || input.DistributorPrice.IsNegative() {
		return ReferencePrice{}, common.NewAppError("VALIDATION_ERROR", "prices cannot be negative", http.StatusBadRequest, nil)
	}
	if input.ValidFrom.IsZero() {
		input.ValidFrom = time.Now()
	}
	price, err := s.Store.Insert(ctx, input)
	if err != nil {
		return ReferencePrice{}, err
	}
	if s.R != nil {
		_ = s.R.Del(ctx, cacheKey(input.ProductID)).Err()
	}
	return price, nil
}

// History lists price points of a product, newest first.
func (s *Service) History(ctx context.Context, productID uuid.UUID, limit, offset int) ([]ReferencePrice, int, error) {
	return s.Store.History(ctx, productID, limit, offset)
}

func (s *Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return 5 * time.Minute
	}
	return s.TTL
}

func cacheKey(productID uuid.UUID) string {
	return fmt.Sprintf("pricebook:latest:%s", productID)
}
