package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/settings"
)

func sampleInvoice() Invoice {
	return Invoice{
		Number:         "INV-20260830-ABC",
		Date:           time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
		CustomerName:   "Ravi Kumar",
		Items:          []InvoiceItem{{Name: "Pen A", Price: 2.50, Quantity: 2}},
		SubTotal:       5.00,
		GSTRate:        5,
		GSTAmount:      0.25,
		Total:          5.25,
		Status:         StatusPaid,
		AmountReceived: 10.00,
		Balance:        4.75,
	}
}

func TestShareMessageWhatsApp(t *testing.T) {
	msg := ShareMessage(sampleInvoice(), settings.Defaults(), ChannelWhatsApp)
	require.Contains(t, msg, "*Meridian Store*")
	require.Contains(t, msg, "INV-20260830-ABC")
	require.Contains(t, msg, "Pen A x2")
	require.Contains(t, msg, "Change due: ₹4.75")
}

func TestShareMessageSMSBalanceDue(t *testing.T) {
	inv := sampleInvoice()
	inv.Status = StatusDue
	inv.AmountReceived = 2.00
	inv.Balance = -3.25

	msg := ShareMessage(inv, settings.Defaults(), ChannelSMS)
	require.Contains(t, msg, "invoice INV-20260830-ABC")
	require.Contains(t, msg, "due")
	require.Contains(t, msg, "Balance due: ₹3.25")
}

func TestShareMessageSettled(t *testing.T) {
	inv := sampleInvoice()
	inv.AmountReceived = 5.25
	inv.Balance = 0

	msg := ShareMessage(inv, settings.Defaults(), ChannelSMS)
	require.Contains(t, msg, "Settled in full.")
}

func TestRenderPDFProducesDocument(t *testing.T) {
	raw, err := RenderPDF(sampleInvoice(), settings.Defaults())
	require.NoError(t, err)
	require.True(t, len(raw) > 500)
	require.Equal(t, "%PDF", string(raw[:4]))
}
