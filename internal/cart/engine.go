package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// lowStockThreshold triggers a restock notice once the remaining stock
// after a mutation falls below it.
const lowStockThreshold = 15

// CatalogReader is the slice of the catalog the engine needs for price
// and stock lookups.
type CatalogReader interface {
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	GetService(ctx context.Context, id string) (catalog.ServiceItem, error)
}

// RateSource yields the GST rate applied to cart totals.
type RateSource interface {
	GSTRate(ctx context.Context) float64
}

// Engine keeps the live checkout sessions. Carts exist only in memory;
// nothing about them is durable until an invoice is finalized.
type Engine struct {
	logger  *slog.Logger
	catalog CatalogReader
	rates   RateSource

	mu    sync.RWMutex
	carts map[string]*Cart
}

// NewEngine constructs the cart engine.
func NewEngine(logger *slog.Logger, reader CatalogReader, rates RateSource) *Engine {
	return &Engine{
		logger:  logger,
		catalog: reader,
		rates:   rates,
		carts:   make(map[string]*Cart),
	}
}

// Create opens a new empty cart and returns it.
func (e *Engine) Create(ctx context.Context) Cart {
	c := &Cart{ID: uuid.NewString(), Items: []LineItem{}}
	c.Totals.GSTRate = e.rates.GSTRate(ctx)

	e.mu.Lock()
	e.carts[c.ID] = c
	e.mu.Unlock()

	e.logger.Debug("cart opened", slog.String("cart", c.ID))
	return *c
}

// Get returns a snapshot of the cart.
func (e *Engine) Get(cartID string) (Cart, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	return c.snapshot(), nil
}

// Discard drops the cart entirely.
func (e *Engine) Discard(cartID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.carts[cartID]; !ok {
		return ErrCartNotFound
	}
	delete(e.carts, cartID)
	return nil
}

// AddProduct inserts a product line or bumps its quantity by one. Stock
// problems never fail the call: an unavailable product is a no-op with
// an out_of_stock notice, and quantities never exceed the stock on hand.
func (e *Engine) AddProduct(ctx context.Context, cartID, productID string) (Cart, []Notice, error) {
	product, err := e.catalog.GetProduct(ctx, productID)
	if err != nil {
		return Cart{}, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, nil, ErrCartNotFound
	}

	var notices []Notice
	line := c.find(productID)
	switch {
	case line == nil && product.Stock <= 0:
		notices = append(notices, Notice{
			Kind:    NoticeOutOfStock,
			Message: fmt.Sprintf("%s is out of stock", product.Name),
		})
	case line != nil && line.Quantity >= product.Stock:
		notices = append(notices, Notice{
			Kind:    NoticeLimitExceeded,
			Message: fmt.Sprintf("only %d of %s available", product.Stock, product.Name),
		})
	case line != nil:
		line.Quantity++
		notices = appendLowStockNotice(notices, product, line.Quantity)
	default:
		c.Items = append(c.Items, LineItem{
			ItemID:    product.ID,
			Type:      catalog.ItemTypeProduct,
			Name:      product.Name,
			Category:  product.Category,
			Price:     product.SellingPrice,
			CostPrice: product.CostPrice,
			Quantity:  1,
		})
		notices = appendLowStockNotice(notices, product, 1)
	}

	e.recompute(ctx, c)
	return c.snapshot(), notices, nil
}

// AddService inserts a service line priced per transaction. Both the
// base price and the additional charge are entered at the counter and
// must be positive.
func (e *Engine) AddService(ctx context.Context, cartID, serviceID string, basePrice, additionalCharge float64) (Cart, []Notice, error) {
	if basePrice <= 0 {
		return Cart{}, nil, fmt.Errorf("%w: base price must be greater than zero", httpx.ErrValidation)
	}
	if additionalCharge <= 0 {
		return Cart{}, nil, fmt.Errorf("%w: additional charge must be greater than zero", httpx.ErrValidation)
	}

	svc, err := e.catalog.GetService(ctx, serviceID)
	if err != nil {
		return Cart{}, nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, nil, ErrCartNotFound
	}

	if line := c.find(serviceID); line != nil {
		line.Quantity++
	} else {
		c.Items = append(c.Items, LineItem{
			ItemID:   svc.ID,
			Type:     catalog.ItemTypeService,
			Name:     svc.Name,
			Category: svc.Category,
			Price:    basePrice + additionalCharge,
			Quantity: 1,
		})
	}

	e.recompute(ctx, c)
	return c.snapshot(), nil, nil
}

// UpdateQuantity sets a line's quantity. Zero or below removes the line;
// product quantities are clamped to the stock on hand, and a product
// whose stock has since hit zero is removed rather than clamped to a
// zero-quantity line.
func (e *Engine) UpdateQuantity(ctx context.Context, cartID, itemID string, quantity int) (Cart, []Notice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, nil, ErrCartNotFound
	}
	line := c.find(itemID)
	if line == nil {
		return Cart{}, nil, ErrItemNotFound
	}

	if quantity <= 0 {
		c.remove(itemID)
		e.recompute(ctx, c)
		return c.snapshot(), nil, nil
	}

	var notices []Notice
	if line.Type == catalog.ItemTypeProduct {
		product, err := e.catalog.GetProduct(ctx, itemID)
		if err != nil {
			return Cart{}, nil, err
		}
		if product.Stock <= 0 {
			// Stock ran out since the line was added. Clamping would
			// leave a zero-quantity line, so drop it instead.
			c.remove(itemID)
			e.recompute(ctx, c)
			notices = append(notices, Notice{
				Kind:    NoticeOutOfStock,
				Message: fmt.Sprintf("%s is out of stock", product.Name),
			})
			return c.snapshot(), notices, nil
		}
		if quantity > product.Stock {
			quantity = product.Stock
			notices = append(notices, Notice{
				Kind:    NoticeLimitExceeded,
				Message: fmt.Sprintf("only %d of %s available", product.Stock, product.Name),
			})
		}
		notices = appendLowStockNotice(notices, product, quantity)
	}
	line.Quantity = quantity

	e.recompute(ctx, c)
	return c.snapshot(), notices, nil
}

// RemoveItem drops a line from the cart.
func (e *Engine) RemoveItem(ctx context.Context, cartID, itemID string) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	if c.find(itemID) == nil {
		return Cart{}, ErrItemNotFound
	}
	c.remove(itemID)
	e.recompute(ctx, c)
	return c.snapshot(), nil
}

// UpdateNote annotates a service line with free-form instructions.
func (e *Engine) UpdateNote(cartID, itemID, note string) (Cart, error) {
	return e.annotate(cartID, itemID, func(line *LineItem) {
		line.Note = note
	})
}

// UpdatePhone attaches a callback number to a service line.
func (e *Engine) UpdatePhone(cartID, itemID, phone string) (Cart, error) {
	return e.annotate(cartID, itemID, func(line *LineItem) {
		line.PhoneNumber = phone
	})
}

// Clear empties the cart but keeps the session alive.
func (e *Engine) Clear(ctx context.Context, cartID string) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	c.Items = []LineItem{}
	e.recompute(ctx, c)
	return c.snapshot(), nil
}

func (e *Engine) annotate(cartID, itemID string, apply func(*LineItem)) (Cart, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.carts[cartID]
	if !ok {
		return Cart{}, ErrCartNotFound
	}
	line := c.find(itemID)
	if line == nil {
		return Cart{}, ErrItemNotFound
	}
	if line.Type != catalog.ItemTypeService {
		return Cart{}, fmt.Errorf("%w: notes and phone numbers apply to service lines only", httpx.ErrValidation)
	}
	apply(line)
	return c.snapshot(), nil
}

// recompute rebuilds the derived totals from the line items. Caller
// holds the engine lock.
func (e *Engine) recompute(ctx context.Context, c *Cart) {
	rate := e.rates.GSTRate(ctx)
	var sub float64
	for _, item := range c.Items {
		sub += item.Price * float64(item.Quantity)
	}
	gst := sub * rate / 100
	c.Totals = Totals{
		SubTotal:    sub,
		GSTRate:     rate,
		GSTAmount:   gst,
		TotalAmount: sub + gst,
	}
}

func appendLowStockNotice(notices []Notice, product catalog.Product, inCart int) []Notice {
	remaining := product.Stock - inCart
	if remaining >= 0 && remaining < lowStockThreshold {
		notices = append(notices, Notice{
			Kind:    NoticeLowStock,
			Message: fmt.Sprintf("%s is low in stock, %d left", product.Name, remaining),
		})
	}
	return notices
}

func (c *Cart) find(itemID string) *LineItem {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

func (c *Cart) remove(itemID string) {
	items := c.Items[:0]
	for _, item := range c.Items {
		if item.ItemID != itemID {
			items = append(items, item)
		}
	}
	c.Items = items
}

func (c *Cart) snapshot() Cart {
	out := *c
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	return out
}
