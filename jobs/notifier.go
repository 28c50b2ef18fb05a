package jobs

import (
	"context"

	"github.com/meridian-pos/meridian-pos/internal/billing"
	"github.com/meridian-pos/meridian-pos/internal/settings"
)

// Notifier adapts the queue client to the billing side effects,
// rendering the customer message before it leaves the process so the
// worker needs no store access.
type Notifier struct {
	client  *Client
	profile func(context.Context) settings.AppSettings
}

// NewNotifier constructs the billing notifier.
func NewNotifier(client *Client, profile func(context.Context) settings.AppSettings) *Notifier {
	return &Notifier{client: client, profile: profile}
}

func (n *Notifier) EnqueueInvoiceShare(ctx context.Context, inv billing.Invoice) error {
	payload := InvoiceSharePayload{
		InvoiceNumber: inv.Number,
		CustomerName:  inv.CustomerName,
		CustomerPhone: inv.CustomerPhone,
		Channel:       string(billing.ChannelWhatsApp),
		Message:       billing.ShareMessage(inv, n.profile(ctx), billing.ChannelWhatsApp),
	}
	_, err := n.client.EnqueueInvoiceShare(ctx, payload)
	return err
}

func (n *Notifier) EnqueueLowStockAlert(ctx context.Context, productName string, stock int) error {
	_, err := n.client.EnqueueStockLowAlert(ctx, StockAlertPayload{ProductName: productName, Stock: stock})
	return err
}
