package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/fuelops/backend-fuel/internal/catalog"
	"github.com/fuelops/backend-fuel/internal/common"
)

type stubStore struct {
	products  map[uuid.UUID]catalog.Product
	listCalls int
}

func newStubStore() *stubStore {
	return &stubStore{products: make(map[uuid.UUID]catalog.Product)}
}

func (s *stubStore) CreateProduct(_ context.Context, input catalog.ProductInput) (catalog.Product, error) {
	p := catalog.Product{
		ID:       uuid.New(),
		Name:     input.Name,
		FuelType: input.FuelType,
		Unit:     input.Unit,
		Active:   input.Active,
	}
	s.products[p.ID] = p
	return p, nil
}

func (s *stubStore) GetProduct(_ context.Context, id uuid.UUID) (catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (s *stubStore) ListProducts(_ context.Context, activeOnly bool) ([]catalog.Product, error) {
	s.listCalls++
	out := make([]catalog.Product, 0, len(s.products))
	for _, p := range s.products {
		if activeOnly && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubStore) UpdateProduct(_ context.Context, id uuid.UUID, input catalog.ProductInput) (catalog.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return catalog.Product{}, pgx.ErrNoRows
	}
	p.Name = input.Name
	p.FuelType = input.FuelType
	p.Unit = input.Unit
	p.Active = input.Active
	s.products[id] = p
	return p, nil
}

func (s *stubStore) CreateSupplier(_ context.Context, input catalog.SupplierInput) (catalog.Supplier, error) {
	return catalog.Supplier{ID: uuid.New(), Name: input.Name}, nil
}

func (s *stubStore) GetSupplier(_ context.Context, _ uuid.UUID) (catalog.Supplier, error) {
	return catalog.Supplier{}, pgx.ErrNoRows
}

func (s *stubStore) ListSuppliers(_ context.Context) ([]catalog.Supplier, error) {
	return nil, nil
}

func (s *stubStore) UpdateSupplier(_ context.Context, _ uuid.UUID, _ catalog.SupplierInput) (catalog.Supplier, error) {
	return catalog.Supplier{}, pgx.ErrNoRows
}

func newService(t *testing.T) (*catalog.Service, *stubStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := newStubStore()
	return &catalog.Service{Store: store, Cache: catalog.NewCache(client, time.Minute)}, store
}

func TestActiveProductListIsCached(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, catalog.ProductInput{Name: "Motorin", FuelType: "diesel", Active: true})
	require.NoError(t, err)

	first, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, store.listCalls)
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, catalog.ProductInput{Name: "Benzin 95", FuelType: "gasoline", Active: true})
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, true)
	require.NoError(t, err)

	_, err = svc.UpdateProduct(ctx, p.ID, catalog.ProductInput{Name: "Benzin 95", FuelType: "gasoline", Active: false})
	require.NoError(t, err)

	refreshed, err := svc.ListProducts(ctx, true)
	require.NoError(t, err)
	require.Empty(t, refreshed)
	require.Equal(t, 2, store.listCalls)
}

func TestCreateProductRequiresNameAndFuelType(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateProduct(context.Background(), catalog.ProductInput{Name: "  ", FuelType: "diesel"})
	appErr, ok := common.AsAppError(err)
	require.True(t, ok)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
