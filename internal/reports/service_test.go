package reports

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/meridian-pos/meridian-pos/internal/billing"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

type staticInvoices struct {
	invoices []billing.Invoice
	calls    int
}

func (s *staticInvoices) ListInvoices(context.Context) ([]billing.Invoice, error) {
	s.calls++
	return s.invoices, nil
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 12, 0, 0, 0, time.UTC)
}

func testInvoices() []billing.Invoice {
	return []billing.Invoice{
		{
			ID: "i3", Date: day(30), Total: 8.40, Status: billing.StatusPaid, PaymentMethod: billing.MethodCash,
			Items: []billing.InvoiceItem{
				{ItemID: "pa", Type: catalog.ItemTypeProduct, Name: "Pen A", Category: "Stationery", Price: 2.50, CostPrice: 1.00, Quantity: 2},
				{ItemID: "pb", Type: catalog.ItemTypeProduct, Name: "Pad B", Price: 3.00, CostPrice: 1.20, Quantity: 1},
			},
		},
		{
			ID: "i2", Date: day(28), Total: 12.00, Status: billing.StatusDue, PaymentMethod: billing.MethodUPI,
			Items: []billing.InvoiceItem{
				{ItemID: "sv", Type: catalog.ItemTypeService, Name: "Repair", Category: "Services", Price: 12.00, Quantity: 1},
			},
		},
		{
			ID: "i1", Date: day(2), Total: 5.00, Status: billing.StatusPaid, PaymentMethod: billing.MethodCash,
			Items: []billing.InvoiceItem{
				{ItemID: "pa", Type: catalog.ItemTypeProduct, Name: "Pen A", Category: "Stationery", Price: 2.50, CostPrice: 1.00, Quantity: 2},
			},
		},
	}
}

func TestFilterAllTimeIsIdentity(t *testing.T) {
	invoices := testInvoices()
	got := FilterByDate(invoices, FilterAllTime, nil, nil, day(30))
	require.Equal(t, invoices, got)
}

func TestFilterWindows(t *testing.T) {
	invoices := testInvoices()
	now := day(30)

	got := FilterByDate(invoices, FilterToday, nil, nil, now)
	require.Len(t, got, 1)
	require.Equal(t, "i3", got[0].ID)

	got = FilterByDate(invoices, FilterLast7Days, nil, nil, now)
	require.Len(t, got, 2)

	got = FilterByDate(invoices, FilterThisMonth, nil, nil, now)
	require.Len(t, got, 3)

	// Custom with no from bound means no window at all, even when a to
	// bound is supplied.
	to := day(3)
	got = FilterByDate(invoices, FilterCustom, nil, &to, now)
	require.Equal(t, invoices, got)

	got = FilterByDate(invoices, FilterCustom, nil, nil, now)
	require.Equal(t, invoices, got)

	// Bounds are day aligned and inclusive.
	from := day(28)
	until := day(28)
	got = FilterByDate(invoices, FilterCustom, &from, &until, now)
	require.Len(t, got, 1)
	require.Equal(t, "i2", got[0].ID)
}

func TestSummarizeEmptyIsZero(t *testing.T) {
	require.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarize(t *testing.T) {
	s := Summarize(testInvoices())
	require.InDelta(t, 25.40, s.TotalSales, 1e-9)
	require.Equal(t, 3, s.TotalInvoices)
	require.Equal(t, 6, s.ItemsSold)
	require.Equal(t, 2, s.PaidInvoices)
	require.Equal(t, 1, s.DueInvoices)
	// Products contribute price minus cost, the service line its full price.
	require.InDelta(t, 3.0+1.8+12.0+3.0, s.Profit, 1e-9)
	require.InDelta(t, 25.40/3, s.AverageOrderValue, 1e-9)
}

func TestSalesOverTimeBucketsAscending(t *testing.T) {
	now := day(30)

	buckets := SalesOverTime(testInvoices(), FilterAllTime, nil, nil, now)
	require.Len(t, buckets, 3)
	require.Equal(t, "2026-08-02", buckets[0].Date)
	require.Equal(t, "2026-08-30", buckets[2].Date)
	// allTime falls back to the 29-day data span, day-month labels.
	require.Equal(t, "Aug 2", buckets[0].Label)

	// A week-sized window uses weekday labels.
	weekly := SalesOverTime(testInvoices()[:2], FilterLast7Days, nil, nil, now)
	require.Equal(t, "Fri", weekly[0].Label)
	require.Equal(t, "Sun", weekly[1].Label)
}

func TestSalesOverTimeLabelsFollowWindowNotData(t *testing.T) {
	// Sales clustered inside three days still get day-month labels when
	// the caller asked for a 30-day window.
	monthly := SalesOverTime(testInvoices()[:2], FilterLast30Days, nil, nil, day(30))
	require.Len(t, monthly, 2)
	require.Equal(t, "Aug 28", monthly[0].Label)
	require.Equal(t, "Aug 30", monthly[1].Label)

	// A custom window spanning three days keeps weekday labels.
	from, to := day(28), day(30)
	custom := SalesOverTime(testInvoices()[:2], FilterCustom, &from, &to, day(30))
	require.Equal(t, "Fri", custom[0].Label)
}

func TestTopSellingItems(t *testing.T) {
	top := TopSellingItems(testInvoices(), 5)
	require.Len(t, top, 3)
	require.Equal(t, "Pen A (Product)", top[0].Label)
	require.Equal(t, 4, top[0].Quantity)

	limited := TopSellingItems(testInvoices(), 1)
	require.Len(t, limited, 1)
}

func TestSalesByCategoryDefaultsUncategorized(t *testing.T) {
	categories := SalesByCategory(testInvoices())
	require.Len(t, categories, 3)
	names := make([]string, 0, len(categories))
	for i, c := range categories {
		names = append(names, c.Category)
		require.Equal(t, chartColors[i%len(chartColors)], c.Color)
	}
	require.Contains(t, names, "Uncategorized")
	require.Contains(t, names, "Stationery")
}

func TestPaymentMethodDistribution(t *testing.T) {
	methods := PaymentMethodDistribution(testInvoices())
	require.Len(t, methods, 2)
	require.Equal(t, billing.MethodCash, methods[0].Method)
	require.Equal(t, 2, methods[0].Count)
}

func TestDashboardCachesUntilBump(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	source := &staticInvoices{invoices: testInvoices()}
	svc := NewService(slog.Default(), source, NewCache(client, time.Minute))
	svc.now = func() time.Time { return day(30) }
	ctx := context.Background()

	first, err := svc.Dashboard(ctx, FilterAllTime, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 3, first.Summary.TotalInvoices)
	require.Equal(t, 1, source.calls)

	// Second read is served from cache.
	_, err = svc.Dashboard(ctx, FilterAllTime, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls)

	// Bumping the version forces a rebuild.
	require.NoError(t, svc.Bump(ctx))
	_, err = svc.Dashboard(ctx, FilterAllTime, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 2, source.calls)
}

func TestDashboardWorksWithoutRedis(t *testing.T) {
	source := &staticInvoices{invoices: testInvoices()}
	svc := NewService(slog.Default(), source, nil)
	svc.now = func() time.Time { return day(30) }

	report, err := svc.Dashboard(context.Background(), FilterToday, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 1, report.Summary.TotalInvoices)
}

func TestExportCSV(t *testing.T) {
	source := &staticInvoices{invoices: testInvoices()}
	svc := NewService(slog.Default(), source, nil)
	svc.now = func() time.Time { return day(30) }

	raw, err := svc.Export(context.Background(), FilterAllTime, nil, nil)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 4)
	require.True(t, strings.HasPrefix(lines[0], "Invoice,Date,Customer"))
}
