package offer_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fuelops/backend-fuel/internal/common"
	"github.com/fuelops/backend-fuel/internal/offer"
	"github.com/fuelops/backend-fuel/internal/pricebook"
)

type stubPrices struct {
	price pricebook.ReferencePrice
}

func (s *stubPrices) Latest(_ context.Context, _ uuid.UUID) (pricebook.ReferencePrice, error) {
	return s.price, nil
}

type fakeStore struct {
	offers map[uuid.UUID]offer.Offer
}

func newFakeStore() *fakeStore {
	return &fakeStore{offers: make(map[uuid.UUID]offer.Offer)}
}

func (f *fakeStore) Create(_ context.Context, o offer.Offer) (offer.Offer, error) {
	o.ID = uuid.New()
	f.offers[o.ID] = o
	return o, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (offer.Offer, error) {
	o, ok := f.offers[id]
	if !ok {
		return offer.Offer{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeStore) List(_ context.Context, _, _ int) ([]offer.Offer, int, error) {
	out := make([]offer.Offer, 0, len(f.offers))
	for _, o := range f.offers {
		out = append(out, o)
	}
	return out, len(out), nil
}

func (f *fakeStore) Update(_ context.Context, o offer.Offer) (offer.Offer, error) {
	if _, ok := f.offers[o.ID]; !ok {
		return offer.Offer{}, pgx.ErrNoRows
	}
	f.offers[o.ID] = o
	return o, nil
}

type fakeOrders struct {
	created []offer.Offer
}

func (f *fakeOrders) CreateFromOffer(_ context.Context, o offer.Offer) (uuid.UUID, error) {
	f.created = append(f.created, o)
	return uuid.New(), nil
}

func newService(pump, distributor string) (*offer.Service, *fakeStore, *fakeOrders) {
	store := newFakeStore()
	orders := &fakeOrders{}
	svc := &offer.Service{
		Store: store,
		Prices: &stubPrices{price: pricebook.ReferencePrice{
			ProductID:        uuid.New(),
			PumpPrice:        decimal.RequireFromString(pump),
			DistributorPrice: decimal.RequireFromString(distributor),
		}},
		Orders: orders,
	}
	return svc, store, orders
}

func TestQuoteFromRateSyncsBothRates(t *testing.T) {
	svc, _, _ := newService("100", "88")

	quote, err := svc.Quote(context.Background(), offer.QuoteRequest{
		ProductID:     uuid.New(),
		Source:        offer.SourcePump,
		RatePercent:   decimal.RequireFromString("10"),
		Quantity:      decimal.RequireFromString("1000"),
		ShippingTotal: decimal.RequireFromString("500"),
	})
	require.NoError(t, err)

	require.True(t, quote.Pricing.UnitPrice.Equal(decimal.RequireFromString("110")))
	require.True(t, quote.Pricing.TotalAmount.Equal(decimal.RequireFromString("110000")))
	require.True(t, quote.Rates.PumpRate.Equal(decimal.RequireFromString("10")))
	require.True(t, quote.Rates.DistributorRate.Equal(decimal.RequireFromString("25")))
}

func TestQuoteManualPriceWinsOverRate(t *testing.T) {
	svc, _, _ := newService("40", "40")

	manual := decimal.RequireFromString("38.5")
	quote, err := svc.Quote(context.Background(), offer.QuoteRequest{
		ProductID:       uuid.New(),
		Source:          offer.SourcePump,
		RatePercent:     decimal.RequireFromString("5"),
		Quantity:        decimal.RequireFromString("100"),
		ManualUnitPrice: &manual,
	})
	require.NoError(t, err)

	require.True(t, quote.Pricing.UnitPrice.Equal(decimal.RequireFromString("38.5")))
	require.True(t, quote.Rates.PumpRate.Equal(decimal.RequireFromString("-3.75")))
}

func TestAcceptCreatesOrderAndFinalises(t *testing.T) {
	svc, store, orders := newService("100", "100")

	created, err := svc.Create(context.Background(), uuid.New(), offer.QuoteRequest{
		ProductID:     uuid.New(),
		Source:        offer.SourcePump,
		RatePercent:   decimal.RequireFromString("5"),
		Quantity:      decimal.RequireFromString("10"),
		ShippingTotal: decimal.Zero,
	}, nil)
	require.NoError(t, err)
	require.Equal(t, offer.StatusDraft, created.Status)

	updated, orderID, err := svc.Accept(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, orderID)
	require.Equal(t, offer.StatusAccepted, updated.Status)
	require.Len(t, orders.created, 1)
	require.Equal(t, offer.StatusAccepted, store.offers[created.ID].Status)

	// A finalised offer cannot be accepted twice.
	_, _, err = svc.Accept(context.Background(), created.ID)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
	require.Len(t, orders.created, 1)
}

func TestSetStatusRejectsInvalidTransition(t *testing.T) {
	svc, _, _ := newService("100", "100")

	created, err := svc.Create(context.Background(), uuid.New(), offer.QuoteRequest{
		ProductID:   uuid.New(),
		Source:      offer.SourcePump,
		RatePercent: decimal.Zero,
		Quantity:    decimal.RequireFromString("1"),
	}, nil)
	require.NoError(t, err)

	sent, err := svc.SetStatus(context.Background(), created.ID, offer.StatusSent)
	require.NoError(t, err)
	require.Equal(t, offer.StatusSent, sent.Status)

	_, err = svc.SetStatus(context.Background(), created.ID, offer.StatusDraft)
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
}
