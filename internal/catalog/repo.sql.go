package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/db"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

var _ Store = (*PGStore)(nil)

// PGStore provides PostgreSQL backed persistence for the catalog. It is
// the swappable database implementation of the same Store port the
// kv-blob store satisfies.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (r *PGStore) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, cost_price, selling_price, stock, barcode, category, description, image_url, gst_percentage FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.CostPrice, &p.SellingPrice, &p.Stock, &p.Barcode, &p.Category, &p.Description, &p.ImageURL, &p.GSTPercentage); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGStore) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `SELECT id, name, cost_price, selling_price, stock, barcode, category, description, image_url, gst_percentage FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.CostPrice, &p.SellingPrice, &p.Stock, &p.Barcode, &p.Category, &p.Description, &p.ImageURL, &p.GSTPercentage)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PGStore) SaveProduct(ctx context.Context, p Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO products (id, name, cost_price, selling_price, stock, barcode, category, description, image_url, gst_percentage)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET name=$2, cost_price=$3, selling_price=$4, stock=$5, barcode=$6, category=$7, description=$8, image_url=$9, gst_percentage=$10`,
		p.ID, p.Name, p.CostPrice, p.SellingPrice, p.Stock, p.Barcode, p.Category, p.Description, p.ImageURL, p.GSTPercentage)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

// DecrementStock lowers stock in a single transaction, clamping at
// zero, and returns the updated row.
func (r *PGStore) DecrementStock(ctx context.Context, id string, qty int) (Product, error) {
	var p Product
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `UPDATE products SET stock = GREATEST(stock - $2, 0) WHERE id=$1
RETURNING id, name, cost_price, selling_price, stock, barcode, category, description, image_url, gst_percentage`, id, qty).
			Scan(&p.ID, &p.Name, &p.CostPrice, &p.SellingPrice, &p.Stock, &p.Barcode, &p.Category, &p.Description, &p.ImageURL, &p.GSTPercentage)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	})
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *PGStore) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGStore) ListServices(ctx context.Context) ([]ServiceItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, service_code, category, description, duration, image_url FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var services []ServiceItem
	for rows.Next() {
		var s ServiceItem
		if err := rows.Scan(&s.ID, &s.Name, &s.ServiceCode, &s.Category, &s.Description, &s.Duration, &s.ImageURL); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

func (r *PGStore) GetService(ctx context.Context, id string) (ServiceItem, error) {
	var s ServiceItem
	err := r.pool.QueryRow(ctx, `SELECT id, name, service_code, category, description, duration, image_url FROM services WHERE id=$1`, id).
		Scan(&s.ID, &s.Name, &s.ServiceCode, &s.Category, &s.Description, &s.Duration, &s.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return ServiceItem{}, ErrNotFound
	}
	if err != nil {
		return ServiceItem{}, err
	}
	return s, nil
}

func (r *PGStore) SaveService(ctx context.Context, s ServiceItem) error {
	if err := s.Validate(); err != nil {
		return err
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO services (id, name, service_code, category, description, duration, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET name=$2, service_code=$3, category=$4, description=$5, duration=$6, image_url=$7`,
		s.ID, s.Name, s.ServiceCode, s.Category, s.Description, s.Duration, s.ImageURL)
	if err != nil {
		return mapPGError(err)
	}
	return nil
}

func (r *PGStore) DeleteService(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM services WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// mapPGError translates Postgres error codes to domain sentinels.
func mapPGError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", httpx.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
