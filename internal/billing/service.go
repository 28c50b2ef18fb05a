package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
	"github.com/meridian-pos/meridian-pos/internal/settings"
)

// lowStockAlertThreshold matches the cart notice threshold: committing
// stock below it raises a background alert for the shop owner.
const lowStockAlertThreshold = 15

// Inventory is the slice of the catalog billing needs to commit stock.
type Inventory interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	DecrementStock(ctx context.Context, id string, qty int) (catalog.Product, error)
}

// CartSource hands over the checkout session being billed.
type CartSource interface {
	Get(cartID string) (cart.Cart, error)
	Discard(cartID string) error
}

// ProfileSource supplies the shop profile printed on invoices.
type ProfileSource interface {
	Get(ctx context.Context) settings.AppSettings
}

// Notifier enqueues background work raised by a finalized invoice.
// Enqueue failures are logged, never returned: the sale already
// happened.
type Notifier interface {
	EnqueueInvoiceShare(ctx context.Context, inv Invoice) error
	EnqueueLowStockAlert(ctx context.Context, productName string, stock int) error
}

// ReportInvalidator bumps the cached report version after a sale.
type ReportInvalidator interface {
	Bump(ctx context.Context) error
}

// EditRequest carries the fields an operator may change after the fact.
// Nil pointers leave a field untouched.
type EditRequest struct {
	CustomerName   *string        `json:"customerName"`
	CustomerPhone  *string        `json:"customerPhone"`
	Status         *InvoiceStatus `json:"status"`
	AmountReceived *float64       `json:"amountReceived"`
}

// Service coordinates the two-phase checkout. Generate builds and
// parks an invoice for review; Finalize commits it, adjusts stock and
// fans out the side effects.
type Service struct {
	logger    *slog.Logger
	store     Store
	inventory Inventory
	carts     CartSource
	notifier  Notifier
	reports   ReportInvalidator
	now       func() time.Time

	mu      sync.Mutex
	pending map[string]pendingEntry
}

// pendingEntry parks a generated invoice together with the cart it was
// billed from, so Finalize can clear the right session.
type pendingEntry struct {
	invoice Invoice
	cartID  string
}

// NewService constructs the billing service. notifier and reports may
// be nil when the async side effects are not wired, e.g. in tests.
func NewService(logger *slog.Logger, store Store, inventory Inventory, carts CartSource, notifier Notifier, reports ReportInvalidator) *Service {
	return &Service{
		logger:    logger,
		store:     store,
		inventory: inventory,
		carts:     carts,
		notifier:  notifier,
		reports:   reports,
		now:       time.Now,
		pending:   make(map[string]pendingEntry),
	}
}

// Generate validates the checkout and builds the invoice without
// persisting it. Nothing changes until Finalize: stock stays put and
// the invoice does not appear in history.
func (s *Service) Generate(ctx context.Context, req CheckoutRequest) (Invoice, error) {
	c, err := s.carts.Get(req.CartID)
	if err != nil {
		return Invoice{}, err
	}
	if err := validateCheckout(req, c); err != nil {
		return Invoice{}, err
	}

	now := s.now()
	status, balance := settle(c.Totals.TotalAmount, req.AmountReceived)
	inv := Invoice{
		ID:             uuid.NewString(),
		Number:         newInvoiceNumber(now),
		Date:           now,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
		Items:          freezeItems(c.Items),
		SubTotal:       c.Totals.SubTotal,
		GSTRate:        c.Totals.GSTRate,
		GSTAmount:      c.Totals.GSTAmount,
		Total:          c.Totals.TotalAmount,
		Status:         status,
		PaymentMethod:  req.PaymentMethod,
		AmountReceived: req.AmountReceived,
		Balance:        balance,
	}

	s.mu.Lock()
	s.pending[inv.ID] = pendingEntry{invoice: inv, cartID: req.CartID}
	s.mu.Unlock()

	return inv, nil
}

// Finalize commits a previously generated invoice: Paid sales decrement
// product stock, Due sales leave stock for settlement later. Either way
// the invoice enters history newest first and the customer record is
// updated.
func (s *Service) Finalize(ctx context.Context, invoiceID string) (Invoice, error) {
	s.mu.Lock()
	entry, ok := s.pending[invoiceID]
	delete(s.pending, invoiceID)
	s.mu.Unlock()
	if !ok {
		return Invoice{}, ErrPendingNotFound
	}
	inv, cartID := entry.invoice, entry.cartID

	if inv.Status == StatusPaid {
		s.commitStock(ctx, inv)
	}

	if err := s.store.PrependInvoice(ctx, inv); err != nil {
		return Invoice{}, fmt.Errorf("persist invoice: %w", err)
	}
	if err := s.upsertCustomer(ctx, inv); err != nil {
		s.logger.Error("update customer history", slog.String("invoice", inv.Number), slog.Any("error", err))
	}
	if cartID != "" {
		if err := s.carts.Discard(cartID); err != nil {
			s.logger.Warn("discard billed cart", slog.String("cart", cartID), slog.Any("error", err))
		}
	}

	if s.notifier != nil {
		if err := s.notifier.EnqueueInvoiceShare(ctx, inv); err != nil {
			s.logger.Error("enqueue invoice share", slog.String("invoice", inv.Number), slog.Any("error", err))
		}
	}
	if s.reports != nil {
		if err := s.reports.Bump(ctx); err != nil {
			s.logger.Error("bump report cache", slog.Any("error", err))
		}
	}

	return inv, nil
}

func (s *Service) commitStock(ctx context.Context, inv Invoice) {
	for _, item := range inv.Items {
		if item.Type != catalog.ItemTypeProduct {
			continue
		}
		updated, err := s.inventory.DecrementStock(ctx, item.ItemID, item.Quantity)
		if err != nil {
			s.logger.Error("decrement stock", slog.String("product", item.ItemID), slog.Any("error", err))
			continue
		}
		if updated.Stock < lowStockAlertThreshold && s.notifier != nil {
			if err := s.notifier.EnqueueLowStockAlert(ctx, updated.Name, updated.Stock); err != nil {
				s.logger.Error("enqueue low stock alert", slog.String("product", updated.Name), slog.Any("error", err))
			}
		}
	}
}

func (s *Service) upsertCustomer(ctx context.Context, inv Invoice) error {
	key := customerKey(inv.CustomerName, inv.CustomerPhone)
	existing, err := s.store.GetCustomer(ctx, key)
	if err != nil && !errors.Is(err, kv.ErrKeyNotFound) {
		return err
	}
	existing.Key = key
	existing.Name = inv.CustomerName
	existing.Phone = inv.CustomerPhone
	existing.TotalSpent += inv.Total
	existing.InvoiceCount++
	existing.LastVisit = inv.Date
	return s.store.SaveCustomer(ctx, existing)
}

// Edit amends customer details, settlement status or the amount
// received on a stored invoice. Stock is never adjusted here: a Due to
// Paid flip is a payment arriving, not a second sale.
func (s *Service) Edit(ctx context.Context, invoiceID string, req EditRequest) (Invoice, error) {
	inv, err := s.store.GetInvoice(ctx, invoiceID)
	if err != nil {
		return Invoice{}, err
	}

	if req.CustomerName != nil {
		name := strings.TrimSpace(*req.CustomerName)
		if name == "" {
			return Invoice{}, fmt.Errorf("%w: customer name is required", httpx.ErrValidation)
		}
		inv.CustomerName = name
	}
	if req.CustomerPhone != nil {
		if len(digitsOnly(*req.CustomerPhone)) < 10 {
			return Invoice{}, fmt.Errorf("%w: customer phone must have at least 10 digits", httpx.ErrValidation)
		}
		inv.CustomerPhone = strings.TrimSpace(*req.CustomerPhone)
	}
	if req.AmountReceived != nil {
		if *req.AmountReceived < 0 {
			return Invoice{}, fmt.Errorf("%w: amount received cannot be negative", httpx.ErrValidation)
		}
		inv.AmountReceived = *req.AmountReceived
		inv.Status, inv.Balance = settle(inv.Total, inv.AmountReceived)
	}
	if req.Status != nil {
		switch *req.Status {
		case StatusPaid:
			if inv.Status != StatusPaid {
				s.logger.Warn("invoice marked paid after the fact, stock unchanged", slog.String("invoice", inv.Number))
			}
			// Paid implies full payment; raise the received amount if the
			// operator did not record it.
			if inv.AmountReceived < inv.Total {
				inv.AmountReceived = inv.Total
			}
			inv.Status, inv.Balance = settle(inv.Total, inv.AmountReceived)
		case StatusDue:
			inv.Status = StatusDue
			inv.Balance = inv.AmountReceived - inv.Total
		default:
			return Invoice{}, fmt.Errorf("%w: unknown status %q", httpx.ErrValidation, *req.Status)
		}
	}

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return Invoice{}, err
	}
	if s.reports != nil {
		if err := s.reports.Bump(ctx); err != nil {
			s.logger.Error("bump report cache", slog.Any("error", err))
		}
	}
	return inv, nil
}

// ListInvoices returns the stored history, newest first.
func (s *Service) ListInvoices(ctx context.Context) ([]Invoice, error) {
	return s.store.ListInvoices(ctx)
}

// GetInvoice returns one stored invoice.
func (s *Service) GetInvoice(ctx context.Context, id string) (Invoice, error) {
	return s.store.GetInvoice(ctx, id)
}

// ListCustomers returns the derived customer history.
func (s *Service) ListCustomers(ctx context.Context) ([]Customer, error) {
	return s.store.ListCustomers(ctx)
}

func freezeItems(items []cart.LineItem) []InvoiceItem {
	out := make([]InvoiceItem, len(items))
	for i, it := range items {
		out[i] = InvoiceItem{
			ItemID:      it.ItemID,
			Type:        it.Type,
			Name:        it.Name,
			Category:    it.Category,
			Price:       it.Price,
			CostPrice:   it.CostPrice,
			Quantity:    it.Quantity,
			PhoneNumber: it.PhoneNumber,
			Note:        it.Note,
		}
	}
	return out
}

// customerKey identifies a customer by normalized name plus phone
// digits so the same person does not fragment across invoices.
func customerKey(name, phone string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	return normalized + "-" + digitsOnly(phone)
}
