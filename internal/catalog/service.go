package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// Service coordinates catalog CRUD on top of a Store.
type Service struct {
	store Store
}

// NewService wires a Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.store.ListProducts(ctx)
}

func (s *Service) GetProduct(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	return s.store.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, p Product) (Product, error) {
	p.ID = uuid.NewString()
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Product{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, p Product) (Product, error) {
	if _, err := s.store.GetProduct(ctx, id); err != nil {
		return Product{}, err
	}
	p.ID = id
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return Product{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: product id required", httpx.ErrValidation)
	}
	return s.store.DeleteProduct(ctx, id)
}

// StockDecrementer is implemented by stores that can lower stock
// atomically; the Postgres store does it in one transaction.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, id string, qty int) (Product, error)
}

// DecrementStock lowers product stock after a paid sale. Quantities were
// already bounded by the cart's stock ceiling at add time, so the floor
// clamp here only guards records edited concurrently out-of-band.
func (s *Service) DecrementStock(ctx context.Context, id string, qty int) (Product, error) {
	if qty <= 0 {
		return Product{}, fmt.Errorf("%w: quantity must be positive", httpx.ErrValidation)
	}
	if dec, ok := s.store.(StockDecrementer); ok {
		return dec.DecrementStock(ctx, id, qty)
	}
	p, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return Product{}, err
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	if err := s.store.SaveProduct(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) ListServices(ctx context.Context) ([]ServiceItem, error) {
	return s.store.ListServices(ctx)
}

func (s *Service) GetService(ctx context.Context, id string) (ServiceItem, error) {
	if id == "" {
		return ServiceItem{}, fmt.Errorf("%w: service id required", httpx.ErrValidation)
	}
	return s.store.GetService(ctx, id)
}

func (s *Service) CreateService(ctx context.Context, svc ServiceItem) (ServiceItem, error) {
	svc.ID = uuid.NewString()
	svc.Name = strings.TrimSpace(svc.Name)
	if err := svc.Validate(); err != nil {
		return ServiceItem{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := s.store.SaveService(ctx, svc); err != nil {
		return ServiceItem{}, err
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, id string, svc ServiceItem) (ServiceItem, error) {
	if _, err := s.store.GetService(ctx, id); err != nil {
		return ServiceItem{}, err
	}
	svc.ID = id
	svc.Name = strings.TrimSpace(svc.Name)
	if err := svc.Validate(); err != nil {
		return ServiceItem{}, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	if err := s.store.SaveService(ctx, svc); err != nil {
		return ServiceItem{}, err
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: service id required", httpx.ErrValidation)
	}
	return s.store.DeleteService(ctx, id)
}
