package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

var _ Store = (*PGStore)(nil)

// PGStore provides PostgreSQL backed persistence for invoices and
// customers. Line items travel as a jsonb column since they are frozen
// copies that are never queried individually.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

const invoiceColumns = `id, invoice_number, issued_at, customer_name, customer_phone, items, sub_total, gst_rate, gst_amount, total, status, payment_method, amount_received, balance`

func scanInvoice(row pgx.Row) (Invoice, error) {
	var inv Invoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.Number, &inv.Date, &inv.CustomerName, &inv.CustomerPhone, &items,
		&inv.SubTotal, &inv.GSTRate, &inv.GSTAmount, &inv.Total, &inv.Status, &inv.PaymentMethod,
		&inv.AmountReceived, &inv.Balance)
	if err != nil {
		return Invoice{}, err
	}
	if err := json.Unmarshal(items, &inv.Items); err != nil {
		return Invoice{}, fmt.Errorf("decode invoice items: %w", err)
	}
	return inv, nil
}

func (r *PGStore) ListInvoices(ctx context.Context) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices ORDER BY issued_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *PGStore) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	inv, err := scanInvoice(r.pool.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Invoice{}, ErrInvoiceNotFound
	}
	if err != nil {
		return Invoice{}, err
	}
	return inv, nil
}

func (r *PGStore) PrependInvoice(ctx context.Context, inv Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	_, err = r.pool.Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		inv.ID, inv.Number, inv.Date, inv.CustomerName, inv.CustomerPhone, items,
		inv.SubTotal, inv.GSTRate, inv.GSTAmount, inv.Total, inv.Status, inv.PaymentMethod,
		inv.AmountReceived, inv.Balance)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return fmt.Errorf("%w: invoice %s", httpx.ErrDuplicate, inv.ID)
		}
		return err
	}
	return nil
}

func (r *PGStore) UpdateInvoice(ctx context.Context, inv Invoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return fmt.Errorf("encode invoice items: %w", err)
	}
	tag, err := r.pool.Exec(ctx, `UPDATE invoices
SET customer_name=$2, customer_phone=$3, items=$4, sub_total=$5, gst_rate=$6, gst_amount=$7,
    total=$8, status=$9, payment_method=$10, amount_received=$11, balance=$12
WHERE id=$1`,
		inv.ID, inv.CustomerName, inv.CustomerPhone, items, inv.SubTotal, inv.GSTRate, inv.GSTAmount,
		inv.Total, inv.Status, inv.PaymentMethod, inv.AmountReceived, inv.Balance)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvoiceNotFound
	}
	return nil
}

func (r *PGStore) ListCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT key, name, phone, total_spent, invoice_count, last_visit FROM customers ORDER BY last_visit DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.Key, &c.Name, &c.Phone, &c.TotalSpent, &c.InvoiceCount, &c.LastVisit); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *PGStore) GetCustomer(ctx context.Context, key string) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT key, name, phone, total_spent, invoice_count, last_visit FROM customers WHERE key=$1`, key).
		Scan(&c.Key, &c.Name, &c.Phone, &c.TotalSpent, &c.InvoiceCount, &c.LastVisit)
	if errors.Is(err, pgx.ErrNoRows) {
		return Customer{}, kv.ErrKeyNotFound
	}
	if err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (r *PGStore) SaveCustomer(ctx context.Context, c Customer) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO customers (key, name, phone, total_spent, invoice_count, last_visit)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (key) DO UPDATE SET name=$2, phone=$3, total_spent=$4, invoice_count=$5, last_visit=$6`,
		c.Key, c.Name, c.Phone, c.TotalSpent, c.InvoiceCount, c.LastVisit)
	return err
}
