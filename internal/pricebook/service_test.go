package pricebook_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fuelops/backend-fuel/internal/pricebook"
)

type stubStore struct {
	latestCalls int
	latest      pricebook.ReferencePrice
}

func (s *stubStore) Insert(_ context.Context, input pricebook.PriceInput) (pricebook.ReferencePrice, error) {
	s.latest = pricebook.ReferencePrice{
		ID:               uuid.New(),
		ProductID:        input.ProductID,
		PumpPrice:        input.PumpPrice,
		DistributorPrice: input.DistributorPrice,
		ValidFrom:        input.ValidFrom,
	}
	return s.latest, nil
}

func (s *stubStore) Latest(_ context.Context, _ uuid.UUID) (pricebook.ReferencePrice, error) {
	s.latestCalls++
	return s.latest, nil
}

func (s *stubStore) History(_ context.Context, _ uuid.UUID, _, _ int) ([]pricebook.ReferencePrice, int, error) {
	return []pricebook.ReferencePrice{s.latest}, 1, nil
}

func TestLatestIsCached(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	productID := uuid.New()
	store := &stubStore{}
	svc := &pricebook.Service{Store: store, R: rdb, TTL: time.Minute}

	_, err = svc.Publish(context.Background(), pricebook.PriceInput{
		ProductID:        productID,
		PumpPrice:        decimal.RequireFromString("42.50"),
		DistributorPrice: decimal.RequireFromString("39.90"),
		ValidFrom:        time.Now().Add(-time.Hour),
	})
	require.NoError(t, err)

	first, err := svc.Latest(context.Background(), productID)
	require.NoError(t, err)
	second, err := svc.Latest(context.Background(), productID)
	require.NoError(t, err)

	require.Equal(t, 1, store.latestCalls)
	require.True(t, first.PumpPrice.Equal(second.PumpPrice))
	require.True(t, second.DistributorPrice.Equal(decimal.RequireFromString("39.90")))
}

func TestPublishInvalidatesCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	productID := uuid.New()
	store := &stubStore{}
	svc := &pricebook.Service{Store: store, R: rdb, TTL: time.Minute}

	_, err = svc.Publish(context.Background(), pricebook.PriceInput{
		ProductID: productID,
		PumpPrice: decimal.RequireFromString("42.50"),
	})
	require.NoError(t, err)
	_, err = svc.Latest(context.Background(), productID)
	require.NoError(t, err)

	_, err = svc.Publish(context.Background(), pricebook.PriceInput{
		ProductID: productID,
		PumpPrice: decimal.RequireFromString("44.00"),
	})
	require.NoError(t, err)

	refreshed, err := svc.Latest(context.Background(), productID)
	require.NoError(t, err)
	require.Equal(t, 2, store.latestCalls)
	require.True(t, refreshed.PumpPrice.Equal(decimal.RequireFromString("44.00")))
}

func TestPublishRejectsNegativePrice(t *testing.T) {
	svc := &pricebook.Service{Store: &stubStore{}}
	_, err := svc.Publish(context.Background(), pricebook.PriceInput{
		ProductID: uuid.New(),
		PumpPrice: decimal.RequireFromString("-1"),
	})
	require.Error(t, err)
}
