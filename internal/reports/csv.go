package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/meridian-pos/meridian-pos/internal/billing"
)

// ExportCSV renders invoices one row each, newest first as stored.
func ExportCSV(invoices []billing.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Invoice", "Date", "Customer", "Phone", "Status", "Payment Method", "Subtotal", "GST", "Total", "Received", "Balance"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		row := []string{
			inv.Number,
			inv.Date.Format("2006-01-02 15:04"),
			inv.CustomerName,
			inv.CustomerPhone,
			string(inv.Status),
			string(inv.PaymentMethod),
			fmt.Sprintf("%.2f", inv.SubTotal),
			fmt.Sprintf("%.2f", inv.GSTAmount),
			fmt.Sprintf("%.2f", inv.Total),
			fmt.Sprintf("%.2f", inv.AmountReceived),
			fmt.Sprintf("%.2f", inv.Balance),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
