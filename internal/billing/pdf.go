package billing

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/meridian-pos/meridian-pos/internal/settings"
)

// RenderPDF produces a printable A4 invoice. The bytes are streamed to
// the caller rather than written to disk so the handler can serve them
// directly.
func RenderPDF(inv Invoice, profile settings.AppSettings) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, profile.ShopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, profile.Address, "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 5, "Phone: "+profile.Phone, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW/2, 6, "Invoice "+inv.Number, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW/2, 6, inv.Date.Format("02 Jan 2006 15:04"), "", 1, "R", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Billed to: %s (%s)", inv.CustomerName, inv.CustomerPhone), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	colItem := contentW * 0.46
	colQty := contentW * 0.12
	colPrice := contentW * 0.21
	colAmount := contentW * 0.21

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colItem, 7, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colQty, 7, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colPrice, 7, "Price", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 7, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range inv.Items {
		name := item.Name
		if item.Note != "" {
			name += " (" + item.Note + ")"
		}
		pdf.CellFormat(colItem, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, 6, fmt.Sprintf("%d", item.Quantity), "", 0, "C", false, 0, "")
		pdf.CellFormat(colPrice, 6, fmt.Sprintf("%.2f", item.Price), "", 0, "R", false, 0, "")
		pdf.CellFormat(colAmount, 6, fmt.Sprintf("%.2f", item.Price*float64(item.Quantity)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	label := colItem + colQty + colPrice
	pdf.CellFormat(label, 6, "Subtotal", "T", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, fmt.Sprintf("%.2f", inv.SubTotal), "T", 1, "R", false, 0, "")
	pdf.CellFormat(label, 6, fmt.Sprintf("GST (%.1f%%)", inv.GSTRate), "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 6, fmt.Sprintf("%.2f", inv.GSTAmount), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(label, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(colAmount, 7, fmt.Sprintf("%s%.2f", currencyForPDF(profile.CurrencySymbol), inv.Total), "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.Ln(2)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Payment: %s  |  Status: %s  |  Received: %.2f  |  Balance: %.2f",
		inv.PaymentMethod, inv.Status, inv.AmountReceived, inv.Balance), "", 1, "L", false, 0, "")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(contentW, 5, "Thank you for your business.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// currencyForPDF falls back to the code-page safe prefix when the
// symbol is outside the built-in font encoding, e.g. the rupee sign.
func currencyForPDF(symbol string) string {
	for _, r := range symbol {
		if r > 0xFF {
			return "Rs "
		}
	}
	return symbol
}
