package delivery_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/fuelops/backend-fuel/internal/common"
	"github.com/fuelops/backend-fuel/internal/delivery"
)

type fakeStore struct {
	deliveries map[uuid.UUID]delivery.Delivery
}

func newFakeStore() *fakeStore {
	return &fakeStore{deliveries: make(map[uuid.UUID]delivery.Delivery)}
}

func (f *fakeStore) Create(_ context.Context, input delivery.Input) (delivery.Delivery, error) {
	d := delivery.Delivery{
		ID:          uuid.New(),
		OrderID:     input.OrderID,
		VehicleID:   input.VehicleID,
		DriverID:    input.DriverID,
		PlannedDate: input.PlannedDate,
		Status:      delivery.StatusPlanned,
	}
	f.deliveries[d.ID] = d
	return d, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (delivery.Delivery, error) {
	d, ok := f.deliveries[id]
	if !ok {
		return delivery.Delivery{}, pgx.ErrNoRows
	}
	return d, nil
}

func (f *fakeStore) ListByOrder(_ context.Context, orderID uuid.UUID) ([]delivery.Delivery, error) {
	var out []delivery.Delivery
	for _, d := range f.deliveries {
		if d.OrderID == orderID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, d delivery.Delivery) (delivery.Delivery, error) {
	if _, ok := f.deliveries[d.ID]; !ok {
		return delivery.Delivery{}, pgx.ErrNoRows
	}
	f.deliveries[d.ID] = d
	return d, nil
}

func TestDeliveryLifecycle(t *testing.T) {
	svc := &delivery.Service{Store: newFakeStore()}
	ctx := context.Background()

	planned, err := svc.Plan(ctx, delivery.Input{
		OrderID:     uuid.New(),
		PlannedDate: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, delivery.StatusPlanned, planned.Status)

	// Cannot complete before dispatching.
	_, err = svc.Complete(ctx, planned.ID, decimal.RequireFromString("990"), time.Time{})
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)

	inTransit, err := svc.Dispatch(ctx, planned.ID)
	require.NoError(t, err)
	require.Equal(t, delivery.StatusInTransit, inTransit.Status)

	arrivedAt := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)
	done, err := svc.Complete(ctx, planned.ID, decimal.RequireFromString("990"), arrivedAt)
	require.NoError(t, err)
	require.Equal(t, delivery.StatusDelivered, done.Status)
	require.True(t, done.DeliveredQuantity.Equal(decimal.RequireFromString("990")))
	require.NotNil(t, done.DeliveredAt)
	require.Equal(t, arrivedAt, *done.DeliveredAt)

	// DELIVERED is terminal.
	_, err = svc.Cancel(ctx, planned.ID)
	appErr, ok = common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "CONFLICT", appErr.Code)
}

func TestPlanRequiresDate(t *testing.T) {
	svc := &delivery.Service{Store: newFakeStore()}

	_, err := svc.Plan(context.Background(), delivery.Input{OrderID: uuid.New()})
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
