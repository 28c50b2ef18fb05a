package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	require.NoError(t, blobs.Set(ctx, kv.KeyProducts, []byte(`[]`)))
	require.NoError(t, blobs.Set(ctx, kv.KeyServices, []byte(`[]`)))
	return NewService(NewKVStore(ctx, blobs, testLogger()))
}

func TestCreateProductAssignsID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, Product{Name: "  Tea 250g ", SellingPrice: 3.4, CostPrice: 2.0, Stock: 12})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "Tea 250g", created.Name)

	got, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)
}

func TestCreateProductRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProduct(context.Background(), Product{Name: "Bad", SellingPrice: -1})
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestDecrementStockFloorsAtZero(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, Product{Name: "Bulb", SellingPrice: 2.6, Stock: 3})
	require.NoError(t, err)

	updated, err := svc.DecrementStock(ctx, created.ID, 2)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Stock)

	updated, err = svc.DecrementStock(ctx, created.ID, 5)
	require.NoError(t, err)
	require.Equal(t, 0, updated.Stock)
}

func TestUpdateProductMissingReturnsNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateProduct(context.Background(), "missing", Product{Name: "X"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestServiceCRUD(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateService(ctx, ServiceItem{Name: "Engraving", ServiceCode: "ENGR"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	created.Duration = "30m"
	updated, err := svc.UpdateService(ctx, created.ID, created)
	require.NoError(t, err)
	require.Equal(t, "30m", updated.Duration)

	require.NoError(t, svc.DeleteService(ctx, created.ID))
	_, err = svc.GetService(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
