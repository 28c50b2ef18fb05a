// Package jobs runs the background side of a sale: sending invoice
// summaries to customers and alerting the owner about low stock.
package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotifyShare delivers an invoice summary to the customer.
	TaskTypeNotifyShare = "notify:share"
	// TaskTypeStockLowAlert warns the owner that a product is running out.
	TaskTypeStockLowAlert = "stock:lowalert"
)

// InvoiceSharePayload carries the rendered message for one invoice.
type InvoiceSharePayload struct {
	InvoiceNumber string `json:"invoiceNumber"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	Channel       string `json:"channel"`
	Message       string `json:"message"`
}

// StockAlertPayload identifies the product that crossed the threshold.
type StockAlertPayload struct {
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
}

// NewInvoiceShareTask constructs an Asynq task.
func NewInvoiceShareTask(payload InvoiceSharePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotifyShare, data), nil
}

// NewStockLowAlertTask constructs an Asynq task.
func NewStockLowAlertTask(payload StockAlertPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeStockLowAlert, data), nil
}

// HandleInvoiceShareTask processes TaskTypeNotifyShare tasks. Gateway
// delivery is not wired yet; the outbound message is logged so the
// pipeline can be observed end to end.
func HandleInvoiceShareTask(ctx context.Context, t *asynq.Task) error {
	var payload InvoiceSharePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Default().Info("share invoice",
		slog.String("invoice", payload.InvoiceNumber),
		slog.String("channel", payload.Channel),
		slog.String("phone", payload.CustomerPhone))
	return nil
}

// HandleStockLowAlertTask processes TaskTypeStockLowAlert tasks.
func HandleStockLowAlertTask(ctx context.Context, t *asynq.Task) error {
	var payload StockAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	slog.Default().Warn("stock running low",
		slog.String("product", payload.ProductName),
		slog.Int("stock", payload.Stock))
	return nil
}
