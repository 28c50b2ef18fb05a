package reports

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/meridian-pos/meridian-pos/internal/billing"
)

// InvoiceSource feeds the aggregation with finalized invoices.
type InvoiceSource interface {
	ListInvoices(ctx context.Context) ([]billing.Invoice, error)
}

// Dashboard is the full report payload served to the front end.
type Dashboard struct {
	Range          FilterKind     `json:"range"`
	Summary        Summary        `json:"summary"`
	SalesOverTime  []TimeBucket   `json:"salesOverTime"`
	TopItems       []ItemStat     `json:"topItems"`
	Categories     []CategoryStat `json:"categories"`
	PaymentMethods []MethodStat   `json:"paymentMethods"`
}

const topItemsLimit = 5

// Service renders dashboards from invoice history, memoized through the
// versioned cache. Concurrent requests for the same window collapse
// into one aggregation run.
type Service struct {
	logger   *slog.Logger
	invoices InvoiceSource
	cache    *Cache
	now      func() time.Time

	group singleflight.Group
}

// NewService constructs the reports service. cache may be nil.
func NewService(logger *slog.Logger, invoices InvoiceSource, cache *Cache) *Service {
	return &Service{
		logger:   logger,
		invoices: invoices,
		cache:    cache,
		now:      time.Now,
	}
}

// Bump retires every cached dashboard.
func (s *Service) Bump(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Dashboard builds the report for the window, serving from cache when
// the version still matches.
func (s *Service) Dashboard(ctx context.Context, kind FilterKind, from, to *time.Time) (Dashboard, error) {
	key, err := s.cache.BuildKey(ctx, "reports", "dashboard", string(kind), rangePart(from), rangePart(to))
	if err != nil {
		return Dashboard{}, err
	}

	var out Dashboard
	err = s.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		result, err, _ := s.buildOnce(ctx, key, kind, from, to)
		return result, err
	})
	if err != nil {
		return Dashboard{}, err
	}
	return out, nil
}

func (s *Service) buildOnce(ctx context.Context, key string, kind FilterKind, from, to *time.Time) (interface{}, error, bool) {
	resultChan := s.group.DoChan(key, func() (interface{}, error) {
		return s.build(ctx, kind, from, to)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err(), false
	case res := <-resultChan:
		return res.Val, res.Err, res.Shared
	}
}

func (s *Service) build(ctx context.Context, kind FilterKind, from, to *time.Time) (Dashboard, error) {
	all, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	now := s.now()
	windowed := FilterByDate(all, kind, from, to, now)
	return Dashboard{
		Range:          kind,
		Summary:        Summarize(windowed),
		SalesOverTime:  SalesOverTime(windowed, kind, from, to, now),
		TopItems:       TopSellingItems(windowed, topItemsLimit),
		Categories:     SalesByCategory(windowed),
		PaymentMethods: PaymentMethodDistribution(windowed),
	}, nil
}

// Export returns the windowed invoices as CSV for spreadsheet use.
func (s *Service) Export(ctx context.Context, kind FilterKind, from, to *time.Time) ([]byte, error) {
	all, err := s.invoices.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	return ExportCSV(FilterByDate(all, kind, from, to, s.now()))
}

func rangePart(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
