// Package billing turns a cart into an invoice: checkout validation,
// two-phase generate/finalize, stock commitment and customer history.
package billing

import (
	"errors"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

var (
	// ErrInvoiceNotFound indicates an unknown invoice id.
	ErrInvoiceNotFound = errors.New("billing: invoice not found")
	// ErrPendingNotFound indicates the generated invoice expired or was
	// never generated.
	ErrPendingNotFound = errors.New("billing: no pending invoice")
)

// InvoiceStatus is the settlement state of an invoice.
type InvoiceStatus string

const (
	StatusPaid InvoiceStatus = "Paid"
	StatusDue  InvoiceStatus = "Due"
)

// PaymentMethod is how the customer settles the bill.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "Cash"
	MethodUPI           PaymentMethod = "UPI"
	MethodCard          PaymentMethod = "Card"
	MethodDigitalWallet PaymentMethod = "Digital Wallet"
)

// InvoiceItem is a frozen copy of a cart line. Invoices keep their own
// copies so later catalog edits never rewrite history.
type InvoiceItem struct {
	ItemID      string           `json:"itemId"`
	Type        catalog.ItemType `json:"type"`
	Name        string           `json:"name"`
	Category    string           `json:"category,omitempty"`
	Price       float64          `json:"price"`
	CostPrice   float64          `json:"costPrice"`
	Quantity    int              `json:"quantity"`
	PhoneNumber string           `json:"phoneNumber,omitempty"`
	Note        string           `json:"note,omitempty"`
}

// Invoice is the persisted record of a completed checkout.
type Invoice struct {
	ID             string        `json:"id"`
	Number         string        `json:"invoiceNumber"`
	Date           time.Time     `json:"date"`
	CustomerName   string        `json:"customerName"`
	CustomerPhone  string        `json:"customerPhone"`
	Items          []InvoiceItem `json:"items"`
	SubTotal       float64       `json:"subTotal"`
	GSTRate        float64       `json:"gstRate"`
	GSTAmount      float64       `json:"gstAmount"`
	Total          float64       `json:"total"`
	Status         InvoiceStatus `json:"status"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	AmountReceived float64       `json:"amountReceived"`
	Balance        float64       `json:"balance"`
}

// Customer is a purchase-history entry derived from finalized invoices.
type Customer struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	TotalSpent   float64   `json:"totalSpent"`
	InvoiceCount int       `json:"invoiceCount"`
	LastVisit    time.Time `json:"lastVisit"`
}

// settle derives status, received amount and balance from the total.
// Paid means the customer covered the full amount; a Paid invoice can
// still carry positive balance as change due back.
func settle(total, received float64) (InvoiceStatus, float64) {
	balance := received - total
	if received >= total {
		return StatusPaid, balance
	}
	return StatusDue, balance
}
