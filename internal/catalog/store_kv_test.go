package catalog

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestKVStoreSeedsSampleCatalogOnFirstRun(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore(ctx, kv.NewMemoryStore(), testLogger())

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	services, err := store.ListServices(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, services)
}

func TestKVStoreProductCRUD(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	require.NoError(t, blobs.Set(ctx, kv.KeyProducts, []byte(`[]`)))
	require.NoError(t, blobs.Set(ctx, kv.KeyServices, []byte(`[]`)))
	store := NewKVStore(ctx, blobs, testLogger())

	p := Product{ID: "p1", Name: "Soap", CostPrice: 0.5, SellingPrice: 1.2, Stock: 10, GSTPercentage: 5}
	require.NoError(t, store.SaveProduct(ctx, p))

	got, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, p, got)

	p.Stock = 8
	require.NoError(t, store.SaveProduct(ctx, p))
	got, err = store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, 8, got.Stock)

	require.NoError(t, store.DeleteProduct(ctx, "p1"))
	_, err = store.GetProduct(ctx, "p1")
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, store.DeleteProduct(ctx, "p1"), ErrNotFound)
}

func TestKVStoreMalformedBlobFallsBackToSamples(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	require.NoError(t, blobs.Set(ctx, kv.KeyProducts, []byte(`{"not":"an array"`)))
	require.NoError(t, blobs.Set(ctx, kv.KeyServices, []byte(`[]`)))
	store := NewKVStore(ctx, blobs, testLogger())

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, SampleProducts(), products)
}

func TestKVStoreRejectsInvalidRecordsOnDecode(t *testing.T) {
	ctx := context.Background()
	blobs := kv.NewMemoryStore()
	// Negative stock fails the schema-validated decode step, which
	// rejects the blob as a whole.
	require.NoError(t, blobs.Set(ctx, kv.KeyProducts, []byte(`[{"id":"p1","name":"Bad","stock":-4}]`)))
	require.NoError(t, blobs.Set(ctx, kv.KeyServices, []byte(`[]`)))
	store := NewKVStore(ctx, blobs, testLogger())

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, SampleProducts(), products)
}

func TestDecodeProducts(t *testing.T) {
	products, err := decodeProducts([]byte(`[{"id":"p1","name":"Pen","costPrice":0.2,"sellingPrice":0.5,"stock":3}]`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, "Pen", products[0].Name)

	_, err = decodeProducts([]byte(`[{"id":"","name":"NoID"}]`))
	require.ErrorIs(t, err, ErrInvalidRecord)
}
