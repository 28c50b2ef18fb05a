package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

var _ Store = (*KVStore)(nil)

// KVStore persists the catalog as two keyed JSON blobs (appProducts,
// appServices). An absent blob is seeded with the bundled sample
// catalog so a fresh install is not an empty screen, and a malformed
// blob is logged and served as the sample catalog rather than
// surfacing a decode error to every caller.
type KVStore struct {
	blobs  kv.Store
	logger *slog.Logger
}

// NewKVStore builds a KVStore and seeds sample data on first run.
func NewKVStore(ctx context.Context, blobs kv.Store, logger *slog.Logger) *KVStore {
	s := &KVStore{blobs: blobs, logger: logger}
	if _, err := blobs.Get(ctx, kv.KeyProducts); errors.Is(err, kv.ErrKeyNotFound) {
		if err := s.writeProducts(ctx, SampleProducts()); err != nil {
			logger.Warn("seed sample products", slog.Any("error", err))
		}
	}
	if _, err := blobs.Get(ctx, kv.KeyServices); errors.Is(err, kv.ErrKeyNotFound) {
		if err := s.writeServices(ctx, SampleServices()); err != nil {
			logger.Warn("seed sample services", slog.Any("error", err))
		}
	}
	return s
}

// decodeProducts is the schema-validated decode step applied at the
// storage boundary: either every record passes Validate or the blob is
// rejected as a whole.
func decodeProducts(raw []byte) ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
	}
	return products, nil
}

func decodeServices(raw []byte) ([]ServiceItem, error) {
	var services []ServiceItem
	if err := json.Unmarshal(raw, &services); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	for i, s := range services {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidRecord, i, err)
		}
	}
	return services, nil
}

func (s *KVStore) readProducts(ctx context.Context) ([]Product, error) {
	raw, err := s.blobs.Get(ctx, kv.KeyProducts)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	products, err := decodeProducts(raw)
	if err != nil {
		s.logger.Error("decode products blob, falling back to sample catalog", slog.Any("error", err))
		return SampleProducts(), nil
	}
	return products, nil
}

func (s *KVStore) writeProducts(ctx context.Context, products []Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return s.blobs.Set(ctx, kv.KeyProducts, raw)
}

func (s *KVStore) readServices(ctx context.Context) ([]ServiceItem, error) {
	raw, err := s.blobs.Get(ctx, kv.KeyServices)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	services, err := decodeServices(raw)
	if err != nil {
		s.logger.Error("decode services blob, falling back to sample catalog", slog.Any("error", err))
		return SampleServices(), nil
	}
	return services, nil
}

func (s *KVStore) writeServices(ctx context.Context, services []ServiceItem) error {
	raw, err := json.Marshal(services)
	if err != nil {
		return err
	}
	return s.blobs.Set(ctx, kv.KeyServices, raw)
}

func (s *KVStore) ListProducts(ctx context.Context) ([]Product, error) {
	return s.readProducts(ctx)
}

func (s *KVStore) GetProduct(ctx context.Context, id string) (Product, error) {
	products, err := s.readProducts(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (s *KVStore) SaveProduct(ctx context.Context, p Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	products, err := s.readProducts(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		products = append(products, p)
	}
	return s.writeProducts(ctx, products)
}

func (s *KVStore) DeleteProduct(ctx context.Context, id string) error {
	products, err := s.readProducts(ctx)
	if err != nil {
		return err
	}
	kept := products[:0]
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeProducts(ctx, kept)
}

func (s *KVStore) ListServices(ctx context.Context) ([]ServiceItem, error) {
	return s.readServices(ctx)
}

func (s *KVStore) GetService(ctx context.Context, id string) (ServiceItem, error) {
	services, err := s.readServices(ctx)
	if err != nil {
		return ServiceItem{}, err
	}
	for _, svc := range services {
		if svc.ID == id {
			return svc, nil
		}
	}
	return ServiceItem{}, ErrNotFound
}

func (s *KVStore) SaveService(ctx context.Context, svc ServiceItem) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	services, err := s.readServices(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range services {
		if services[i].ID == svc.ID {
			services[i] = svc
			replaced = true
			break
		}
	}
	if !replaced {
		services = append(services, svc)
	}
	return s.writeServices(ctx, services)
}

func (s *KVStore) DeleteService(ctx context.Context, id string) error {
	services, err := s.readServices(ctx)
	if err != nil {
		return err
	}
	kept := services[:0]
	found := false
	for _, svc := range services {
		if svc.ID == id {
			found = true
			continue
		}
		kept = append(kept, svc)
	}
	if !found {
		return ErrNotFound
	}
	return s.writeServices(ctx, kept)
}
