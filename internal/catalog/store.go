package catalog

import "context"

// Store is the persistence port for catalog records. The kv-backed
// implementation keeps whole-collection JSON blobs; the Postgres
// implementation maps the same operations onto relational tables.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	SaveProduct(ctx context.Context, p Product) error
	DeleteProduct(ctx context.Context, id string) error

	ListServices(ctx context.Context) ([]ServiceItem, error)
	GetService(ctx context.Context, id string) (ServiceItem, error)
	SaveService(ctx context.Context, s ServiceItem) error
	DeleteService(ctx context.Context, id string) error
}
