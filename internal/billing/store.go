package billing

import "context"

// Store persists finalized invoices and the customer history derived
// from them. Invoice listings are newest first.
type Store interface {
	ListInvoices(ctx context.Context) ([]Invoice, error)
	GetInvoice(ctx context.Context, id string) (Invoice, error)
	PrependInvoice(ctx context.Context, inv Invoice) error
	UpdateInvoice(ctx context.Context, inv Invoice) error

	ListCustomers(ctx context.Context) ([]Customer, error)
	GetCustomer(ctx context.Context, key string) (Customer, error)
	SaveCustomer(ctx context.Context, c Customer) error
}
