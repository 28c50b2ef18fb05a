package billing

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/meridian-pos/meridian-pos/internal/cart"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

var (
	upiPattern        = regexp.MustCompile(`^[\w.-]+@[\w.-]+$`)
	cardExpiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cardCVVPattern    = regexp.MustCompile(`^\d{3,4}$`)
)

// CheckoutRequest is everything the counter submits to raise an invoice.
type CheckoutRequest struct {
	CartID         string        `json:"cartId"`
	CustomerName   string        `json:"customerName"`
	CustomerPhone  string        `json:"customerPhone"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	AmountReceived float64       `json:"amountReceived"`
	CardNumber     string        `json:"cardNumber,omitempty"`
	CardExpiry     string        `json:"cardExpiry,omitempty"`
	CardCVV        string        `json:"cardCvv,omitempty"`
	UPIID          string        `json:"upiId,omitempty"`
}

// validateCheckout runs the checkout gates in their fixed order and
// reports the first failure only, so the counter sees one problem at a
// time.
func validateCheckout(req CheckoutRequest, c cart.Cart) error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: cart is empty", httpx.ErrValidation)
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customer name is required", httpx.ErrValidation)
	}
	if len(digitsOnly(req.CustomerPhone)) < 10 {
		return fmt.Errorf("%w: customer phone must have at least 10 digits", httpx.ErrValidation)
	}
	if req.PaymentMethod == MethodCard {
		cardDigits := digitsOnly(req.CardNumber)
		if len(cardDigits) < 13 || len(cardDigits) > 19 {
			return fmt.Errorf("%w: card number must have 13 to 19 digits", httpx.ErrValidation)
		}
		if !cardExpiryPattern.MatchString(req.CardExpiry) {
			return fmt.Errorf("%w: card expiry must be in MM/YY format", httpx.ErrValidation)
		}
		if !cardCVVPattern.MatchString(req.CardCVV) {
			return fmt.Errorf("%w: card cvv must have 3 or 4 digits", httpx.ErrValidation)
		}
	}
	if req.PaymentMethod == MethodUPI && !upiPattern.MatchString(req.UPIID) {
		return fmt.Errorf("%w: upi id is not valid", httpx.ErrValidation)
	}
	if req.AmountReceived < 0 {
		return fmt.Errorf("%w: amount received cannot be negative", httpx.ErrValidation)
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
