package order_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fuelops/backend-fuel/internal/common"
	"github.com/fuelops/backend-fuel/internal/offer"
	"github.com/fuelops/backend-fuel/internal/order"
)

type fakeStore struct {
	orders map[uuid.UUID]order.Order
}

func newFakeStore() *fakeStore {
	return &fakeStore{orders: make(map[uuid.UUID]order.Order)}
}

func (f *fakeStore) Create(_ context.Context, o order.Order) (order.Order, error) {
	o.ID = uuid.New()
	f.orders[o.ID] = o
	return o, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeStore) List(_ context.Context, _ uuid.UUID, _, _ int) ([]order.Order, int, error) {
	out := make([]order.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeStore) SetStatus(_ context.Context, id uuid.UUID, status order.Status) (order.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return order.Order{}, pgx.ErrNoRows
	}
	o.Status = status
	f.orders[id] = o
	return o, nil
}

func TestCreateFromOfferCopiesPricing(t *testing.T) {
	store := newFakeStore()
	svc := &order.Service{Store: store}

	src := offer.Offer{
		ID:                    uuid.New(),
		CustomerID:            uuid.New(),
		ProductID:             uuid.New(),
		Quantity:              decimal.RequireFromString("1000"),
		UnitPriceWithShipping: decimal.RequireFromString("110.5"),
		TotalAmount:           decimal.RequireFromString("110500"),
	}
	id, err := svc.CreateFromOffer(context.Background(), src)
	require.NoError(t, err)

	created := store.orders[id]
	require.Equal(t, order.StatusNew, created.Status)
	require.NotNil(t, created.OfferID)
	require.Equal(t, src.ID, *created.OfferID)
	require.True(t, created.UnitPrice.Equal(src.UnitPriceWithShipping))
	require.True(t, created.TotalAmount.Equal(src.TotalAmount))
}

func TestStatusTransitions(t *testing.T) {
	store := newFakeStore()
	svc := &order.Service{Store: store}

	o, err := svc.Create(context.Background(), order.Input{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   decimal.RequireFromString("100"),
		UnitPrice:  decimal.RequireFromString("41.5"),
	})
	require.NoError(t, err)
	require.True(t, o.TotalAmount.Equal(decimal.RequireFromString("4150")))

	// NEW cannot jump straight to SHIPPED.
	_, err = svc.SetStatus(context.Background(), o.ID, order.StatusShipped)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)

	for _, next := range []order.Status{order.StatusConfirmed, order.StatusShipped, order.StatusDelivered} {
		o, err = svc.SetStatus(context.Background(), o.ID, next)
		require.NoError(t, err)
		require.Equal(t, next, o.Status)
	}

	// DELIVERED is terminal.
	_, err = svc.SetStatus(context.Background(), o.ID, order.StatusCancelled)
	appErr, ok = common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
}

func TestCreateRejectsNonPositiveQuantity(t *testing.T) {
	svc := &order.Service{Store: newFakeStore()}

	_, err := svc.Create(context.Background(), order.Input{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   decimal.Zero,
	})
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
