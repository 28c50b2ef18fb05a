package billing

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

var _ Store = (*KVStore)(nil)

// KVStore persists invoices and customers as keyed JSON blobs
// (appInvoices, appCustomers). The invoice blob is kept newest first so
// listings need no sort. Malformed blobs are logged and treated as
// empty rather than surfaced to callers.
type KVStore struct {
	blobs  kv.Store
	logger *slog.Logger
}

// NewKVStore builds a KVStore over the given blob store.
func NewKVStore(blobs kv.Store, logger *slog.Logger) *KVStore {
	return &KVStore{blobs: blobs, logger: logger}
}

func (s *KVStore) readInvoices(ctx context.Context) ([]Invoice, error) {
	raw, err := s.blobs.Get(ctx, kv.KeyInvoices)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var invoices []Invoice
	if err := json.Unmarshal(raw, &invoices); err != nil {
		s.logger.Error("decode invoices blob, falling back to empty history", slog.Any("error", err))
		return nil, nil
	}
	return invoices, nil
}

func (s *KVStore) writeInvoices(ctx context.Context, invoices []Invoice) error {
	raw, err := json.Marshal(invoices)
	if err != nil {
		return err
	}
	return s.blobs.Set(ctx, kv.KeyInvoices, raw)
}

func (s *KVStore) readCustomers(ctx context.Context) ([]Customer, error) {
	raw, err := s.blobs.Get(ctx, kv.KeyCustomers)
	if errors.Is(err, kv.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var customers []Customer
	if err := json.Unmarshal(raw, &customers); err != nil {
		s.logger.Error("decode customers blob, falling back to empty list", slog.Any("error", err))
		return nil, nil
	}
	return customers, nil
}

func (s *KVStore) writeCustomers(ctx context.Context, customers []Customer) error {
	raw, err := json.Marshal(customers)
	if err != nil {
		return err
	}
	return s.blobs.Set(ctx, kv.KeyCustomers, raw)
}

func (s *KVStore) ListInvoices(ctx context.Context) ([]Invoice, error) {
	return s.readInvoices(ctx)
}

func (s *KVStore) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	invoices, err := s.readInvoices(ctx)
	if err != nil {
		return Invoice{}, err
	}
	for _, inv := range invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return Invoice{}, ErrInvoiceNotFound
}

func (s *KVStore) PrependInvoice(ctx context.Context, inv Invoice) error {
	invoices, err := s.readInvoices(ctx)
	if err != nil {
		return err
	}
	invoices = append([]Invoice{inv}, invoices...)
	return s.writeInvoices(ctx, invoices)
}

func (s *KVStore) UpdateInvoice(ctx context.Context, inv Invoice) error {
	invoices, err := s.readInvoices(ctx)
	if err != nil {
		return err
	}
	for i := range invoices {
		if invoices[i].ID == inv.ID {
			invoices[i] = inv
			return s.writeInvoices(ctx, invoices)
		}
	}
	return ErrInvoiceNotFound
}

func (s *KVStore) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.readCustomers(ctx)
}

func (s *KVStore) GetCustomer(ctx context.Context, key string) (Customer, error) {
	customers, err := s.readCustomers(ctx)
	if err != nil {
		return Customer{}, err
	}
	for _, c := range customers {
		if c.Key == key {
			return c, nil
		}
	}
	return Customer{}, kv.ErrKeyNotFound
}

func (s *KVStore) SaveCustomer(ctx context.Context, c Customer) error {
	customers, err := s.readCustomers(ctx)
	if err != nil {
		return err
	}
	replaced := false
	for i := range customers {
		if customers[i].Key == c.Key {
			customers[i] = c
			replaced = true
			break
		}
	}
	if !replaced {
		customers = append(customers, c)
	}
	return s.writeCustomers(ctx, customers)
}
