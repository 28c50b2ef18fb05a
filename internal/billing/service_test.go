package billing

import (
	"context"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
	"github.com/meridian-pos/meridian-pos/internal/platform/kv"
)

type fakeInventory struct {
	products map[string]*catalog.Product
}

func (f *fakeInventory) GetProduct(_ context.Context, id string) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	return *p, nil
}

func (f *fakeInventory) DecrementStock(_ context.Context, id string, qty int) (catalog.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return catalog.Product{}, catalog.ErrNotFound
	}
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
	return *p, nil
}

type fakeCarts struct {
	carts map[string]cart.Cart
}

func (f *fakeCarts) Get(id string) (cart.Cart, error) {
	c, ok := f.carts[id]
	if !ok {
		return cart.Cart{}, cart.ErrCartNotFound
	}
	return c, nil
}

func (f *fakeCarts) Discard(id string) error {
	delete(f.carts, id)
	return nil
}

type recordingNotifier struct {
	shares    []string
	lowStocks []string
}

func (n *recordingNotifier) EnqueueInvoiceShare(_ context.Context, inv Invoice) error {
	n.shares = append(n.shares, inv.Number)
	return nil
}

func (n *recordingNotifier) EnqueueLowStockAlert(_ context.Context, name string, _ int) error {
	n.lowStocks = append(n.lowStocks, name)
	return nil
}

type countingBumper struct{ bumps int }

func (b *countingBumper) Bump(context.Context) error {
	b.bumps++
	return nil
}

type fixture struct {
	service   *Service
	store     *KVStore
	inventory *fakeInventory
	carts     *fakeCarts
	notifier  *recordingNotifier
	bumper    *countingBumper
}

// scenarioCart holds A(2.50, stock 50) x2 and B(3.00, stock 30) x1 at
// 5% GST: subtotal 8.00, gst 0.40, total 8.40.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	inventory := &fakeInventory{products: map[string]*catalog.Product{
		"pa": {ID: "pa", Name: "Pen A", SellingPrice: 2.50, CostPrice: 1.00, Stock: 50},
		"pb": {ID: "pb", Name: "Pad B", SellingPrice: 3.00, CostPrice: 1.20, Stock: 30},
	}}
	carts := &fakeCarts{carts: map[string]cart.Cart{
		"c1": scenarioCart(),
	}}
	notifier := &recordingNotifier{}
	bumper := &countingBumper{}
	store := NewKVStore(kv.NewMemoryStore(), slog.Default())
	svc := NewService(slog.Default(), store, inventory, carts, notifier, bumper)
	svc.now = func() time.Time { return time.Date(2026, 8, 30, 11, 30, 0, 0, time.UTC) }
	return &fixture{service: svc, store: store, inventory: inventory, carts: carts, notifier: notifier, bumper: bumper}
}

func scenarioCart() cart.Cart {
	return cart.Cart{
		ID: "c1",
		Items: []cart.LineItem{
			{ItemID: "pa", Type: catalog.ItemTypeProduct, Name: "Pen A", Price: 2.50, CostPrice: 1.00, Quantity: 2},
			{ItemID: "pb", Type: catalog.ItemTypeProduct, Name: "Pad B", Price: 3.00, CostPrice: 1.20, Quantity: 1},
		},
		Totals: cart.Totals{SubTotal: 8.00, GSTRate: 5, GSTAmount: 0.40, TotalAmount: 8.40},
	}
}

func checkoutReq() CheckoutRequest {
	return CheckoutRequest{
		CartID:         "c1",
		CustomerName:   "Ravi Kumar",
		CustomerPhone:  "98765 43210",
		PaymentMethod:  MethodCash,
		AmountReceived: 8.40,
	}
}

func TestGenerateValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.carts.carts["empty"] = cart.Cart{ID: "empty"}
	req := checkoutReq()
	req.CartID = "empty"
	_, err := f.service.Generate(ctx, req)
	require.ErrorIs(t, err, httpx.ErrValidation)
	require.Contains(t, err.Error(), "cart is empty")

	req = checkoutReq()
	req.CustomerName = "  "
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "customer name")

	req = checkoutReq()
	req.CustomerPhone = "12345"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "at least 10 digits")

	req = checkoutReq()
	req.PaymentMethod = MethodCard
	req.CardNumber = "1234"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "13 to 19 digits")

	req.CardNumber = "4111 1111 1111 1111"
	req.CardExpiry = "13/28"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "MM/YY")

	req.CardExpiry = "09/28"
	req.CardCVV = "12"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "cvv")

	// A cvv must be digits only, not three digits buried in noise.
	req.CardCVV = "1x2y3"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "cvv")

	req = checkoutReq()
	req.PaymentMethod = MethodUPI
	req.UPIID = "not an upi id"
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "upi")

	req = checkoutReq()
	req.AmountReceived = -1
	_, err = f.service.Generate(ctx, req)
	require.Contains(t, err.Error(), "negative")
}

func TestGenerateDoesNotPersistOrTouchStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	require.Regexp(t, regexp.MustCompile(`^INV-20260830-[0-9A-Z]{3}$`), inv.Number)
	require.InDelta(t, 8.40, inv.Total, 1e-9)
	require.Equal(t, StatusPaid, inv.Status)
	require.InDelta(t, 0, inv.Balance, 1e-9)

	require.Equal(t, 50, f.inventory.products["pa"].Stock)
	stored, err := f.store.ListInvoices(ctx)
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestFinalizePaidCommitsStockAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)

	final, err := f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)
	require.Equal(t, inv.Number, final.Number)

	require.Equal(t, 48, f.inventory.products["pa"].Stock)
	require.Equal(t, 29, f.inventory.products["pb"].Stock)

	stored, err := f.store.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, inv.ID, stored[0].ID)

	customers, err := f.store.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "ravi kumar-9876543210", customers[0].Key)
	require.InDelta(t, 8.40, customers[0].TotalSpent, 1e-9)

	require.Equal(t, []string{inv.Number}, f.notifier.shares)
	require.Equal(t, 1, f.bumper.bumps)

	// The billed cart is gone.
	_, err = f.carts.Get("c1")
	require.ErrorIs(t, err, cart.ErrCartNotFound)

	// A pending invoice finalizes once.
	_, err = f.service.Finalize(ctx, inv.ID)
	require.ErrorIs(t, err, ErrPendingNotFound)
}

func TestFinalizeDueLeavesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := checkoutReq()
	req.AmountReceived = 5.00
	inv, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	require.Equal(t, StatusDue, inv.Status)
	require.InDelta(t, -3.40, inv.Balance, 1e-9)

	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	require.Equal(t, 50, f.inventory.products["pa"].Stock)
	require.Equal(t, 30, f.inventory.products["pb"].Stock)
}

func TestInvoicesListNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, first.ID)
	require.NoError(t, err)

	f.carts.carts["c1"] = scenarioCart()
	second, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, second.ID)
	require.NoError(t, err)

	stored, err := f.service.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, second.ID, stored[0].ID)
	require.Equal(t, first.ID, stored[1].ID)
}

func TestRepeatCustomerAccumulates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	f.carts.carts["c1"] = scenarioCart()
	req := checkoutReq()
	// Same person, different formatting.
	req.CustomerName = "  RAVI   kumar "
	req.CustomerPhone = "+91 98765-43210"
	inv, err = f.service.Generate(ctx, req)
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	customers, err := f.store.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2) // +91 adds a country code digit prefix

	// Without the country code the key matches and the record merges.
	f.carts.carts["c1"] = scenarioCart()
	req.CustomerPhone = "9876543210"
	inv, err = f.service.Generate(ctx, req)
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	customers, err = f.store.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 2)
	for _, c := range customers {
		if c.Key == "ravi kumar-9876543210" {
			require.Equal(t, 2, c.InvoiceCount)
			require.InDelta(t, 16.80, c.TotalSpent, 1e-9)
		}
	}
}

func TestEditDueToPaidRaisesReceivedAndLeavesStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := checkoutReq()
	req.AmountReceived = 5.00
	inv, err := f.service.Generate(ctx, req)
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	paid := StatusPaid
	edited, err := f.service.Edit(ctx, inv.ID, EditRequest{Status: &paid})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, edited.Status)
	require.InDelta(t, 8.40, edited.AmountReceived, 1e-9)
	require.InDelta(t, 0, edited.Balance, 1e-9)

	// Settlement edits never move inventory.
	require.Equal(t, 50, f.inventory.products["pa"].Stock)
}

func TestEditRejectsBadFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inv, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	blank := "  "
	_, err = f.service.Edit(ctx, inv.ID, EditRequest{CustomerName: &blank})
	require.ErrorIs(t, err, httpx.ErrValidation)

	short := "12345"
	_, err = f.service.Edit(ctx, inv.ID, EditRequest{CustomerPhone: &short})
	require.ErrorIs(t, err, httpx.ErrValidation)

	negative := -2.0
	_, err = f.service.Edit(ctx, inv.ID, EditRequest{AmountReceived: &negative})
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = f.service.Edit(ctx, "missing", EditRequest{})
	require.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestLowStockAlertOnCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.inventory.products["pa"].Stock = 16
	inv, err := f.service.Generate(ctx, checkoutReq())
	require.NoError(t, err)
	_, err = f.service.Finalize(ctx, inv.ID)
	require.NoError(t, err)

	// 16 - 2 = 14 crosses the alert threshold.
	require.Equal(t, []string{"Pen A"}, f.notifier.lowStocks)
}
