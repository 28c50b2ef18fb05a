package billing

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/meridian-pos/meridian-pos/internal/settings"
)

// ShareChannel selects the message format for sending an invoice.
type ShareChannel string

const (
	ChannelWhatsApp ShareChannel = "whatsapp"
	ChannelSMS      ShareChannel = "sms"
)

// ShareMessage renders the customer-facing summary sent over WhatsApp
// or SMS. WhatsApp gets the itemized layout, SMS a single compact line.
func ShareMessage(inv Invoice, profile settings.AppSettings, channel ShareChannel) string {
	p := message.NewPrinter(language.English)
	cur := profile.CurrencySymbol

	if channel == ChannelSMS {
		return p.Sprintf("%s: invoice %s for %s%.2f is %s. %s",
			profile.ShopName, inv.Number, cur, inv.Total, strings.ToLower(string(inv.Status)), balanceLine(p, inv, cur))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n%s\n\n", profile.ShopName, profile.Address)
	fmt.Fprintf(&b, "Invoice: %s\nDate: %s\nCustomer: %s\n\n", inv.Number, inv.Date.Format("02 Jan 2006"), inv.CustomerName)
	for _, item := range inv.Items {
		b.WriteString(p.Sprintf("%s x%d  %s%.2f\n", item.Name, item.Quantity, cur, item.Price*float64(item.Quantity)))
	}
	b.WriteString(p.Sprintf("\nSubtotal: %s%.2f\n", cur, inv.SubTotal))
	b.WriteString(p.Sprintf("GST (%.1f%%): %s%.2f\n", inv.GSTRate, cur, inv.GSTAmount))
	b.WriteString(p.Sprintf("*Total: %s%.2f*\n", cur, inv.Total))
	b.WriteString(p.Sprintf("Status: %s\n", inv.Status))
	b.WriteString(balanceLine(p, inv, cur))
	return b.String()
}

// balanceLine phrases the balance from the customer's side: change due
// back on an overpaid sale, balance due on a short one.
func balanceLine(p *message.Printer, inv Invoice, cur string) string {
	switch {
	case inv.Balance > 0:
		return p.Sprintf("Change due: %s%.2f", cur, inv.Balance)
	case inv.Balance < 0:
		return p.Sprintf("Balance due: %s%.2f", cur, -inv.Balance)
	default:
		return "Settled in full."
	}
}
