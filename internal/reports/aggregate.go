package reports

import (
	"sort"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/billing"
	"github.com/meridian-pos/meridian-pos/internal/catalog"
)

// chartColors is cycled over pie and bar segments; the palette repeats
// once categories outnumber it.
var chartColors = []string{
	"#6366F1", "#22C55E", "#F59E0B", "#EF4444", "#06B6D4", "#A855F7",
}

// Summary is the headline block of the dashboard.
type Summary struct {
	TotalSales        float64 `json:"totalSales"`
	TotalInvoices     int     `json:"totalInvoices"`
	ItemsSold         int     `json:"itemsSold"`
	Profit            float64 `json:"profit"`
	PaidInvoices      int     `json:"paidInvoices"`
	DueInvoices       int     `json:"dueInvoices"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

// Summarize folds the invoice set into the headline figures. Profit is
// taken against the snapshotted cost prices; service lines carry no
// cost, so their full price counts as profit.
func Summarize(invoices []billing.Invoice) Summary {
	var s Summary
	for _, inv := range invoices {
		s.TotalSales += inv.Total
		s.TotalInvoices++
		if inv.Status == billing.StatusPaid {
			s.PaidInvoices++
		} else {
			s.DueInvoices++
		}
		for _, item := range inv.Items {
			s.ItemsSold += item.Quantity
			s.Profit += (item.Price - item.CostPrice) * float64(item.Quantity)
		}
	}
	if s.TotalInvoices > 0 {
		s.AverageOrderValue = s.TotalSales / float64(s.TotalInvoices)
	}
	return s
}

// TimeBucket is one day of sales on the time series.
type TimeBucket struct {
	Date  string  `json:"date"`
	Label string  `json:"label"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// SalesOverTime buckets sales per day, ascending. Label granularity
// follows the requested window: weekday names inside a week, day-month
// inside a month and month-year beyond that.
func SalesOverTime(invoices []billing.Invoice, kind FilterKind, from, to *time.Time, now time.Time) []TimeBucket {
	if len(invoices) == 0 {
		return []TimeBucket{}
	}

	byDay := make(map[string]*TimeBucket)
	var first, last time.Time
	for _, inv := range invoices {
		day := inv.Date.Format("2006-01-02")
		b, ok := byDay[day]
		if !ok {
			b = &TimeBucket{Date: day}
			byDay[day] = b
		}
		b.Total += inv.Total
		b.Count++
		d := startOfDay(inv.Date)
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if d.After(last) {
			last = d
		}
	}

	spanDays := windowDays(kind, from, to, now, first, last)
	out := make([]TimeBucket, 0, len(byDay))
	for _, b := range byDay {
		day, _ := time.Parse("2006-01-02", b.Date)
		switch {
		case spanDays <= 7:
			b.Label = day.Format("Mon")
		case spanDays <= 31:
			b.Label = day.Format("Jan 2")
		default:
			b.Label = day.Format("Jan 2006")
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// windowDays sizes the label granularity from the window the caller
// asked for, not from where the sales happen to cluster. Open-ended
// windows fall back to the span of the data.
func windowDays(kind FilterKind, from, to *time.Time, now, first, last time.Time) int {
	switch kind {
	case FilterToday:
		return 1
	case FilterLast7Days:
		return 7
	case FilterLast30Days:
		return 30
	case FilterThisMonth:
		return now.Day()
	case FilterCustom:
		if from != nil && to != nil {
			return int(startOfDay(*to).Sub(startOfDay(*from)).Hours()/24) + 1
		}
	}
	return int(last.Sub(first).Hours()/24) + 1
}

// ItemStat ranks one catalog item by units sold.
type ItemStat struct {
	ItemID   string  `json:"itemId"`
	Label    string  `json:"label"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// TopSellingItems returns the best sellers by quantity, revenue as the
// tiebreak. The label carries the item type so a product and a service
// with the same name stay distinguishable.
func TopSellingItems(invoices []billing.Invoice, limit int) []ItemStat {
	byItem := make(map[string]*ItemStat)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			s, ok := byItem[item.ItemID]
			if !ok {
				kind := "Product"
				if item.Type == catalog.ItemTypeService {
					kind = "Service"
				}
				s = &ItemStat{ItemID: item.ItemID, Label: item.Name + " (" + kind + ")"}
				byItem[item.ItemID] = s
			}
			s.Quantity += item.Quantity
			s.Revenue += item.Price * float64(item.Quantity)
		}
	}

	out := make([]ItemStat, 0, len(byItem))
	for _, s := range byItem {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Revenue > out[j].Revenue
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryStat is one slice of the sales-by-category chart.
type CategoryStat struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Color    string  `json:"color"`
}

// SalesByCategory splits revenue across item categories, largest first.
// Items without a category fall under Uncategorized.
func SalesByCategory(invoices []billing.Invoice) []CategoryStat {
	byCategory := make(map[string]float64)
	for _, inv := range invoices {
		for _, item := range inv.Items {
			category := item.Category
			if category == "" {
				category = "Uncategorized"
			}
			byCategory[category] += item.Price * float64(item.Quantity)
		}
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for category, total := range byCategory {
		out = append(out, CategoryStat{Category: category, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Category < out[j].Category
	})
	for i := range out {
		out[i].Color = chartColors[i%len(chartColors)]
	}
	return out
}

// MethodStat counts invoices per payment method.
type MethodStat struct {
	Method billing.PaymentMethod `json:"method"`
	Count  int                   `json:"count"`
	Color  string                `json:"color"`
}

// PaymentMethodDistribution counts how often each method was used.
func PaymentMethodDistribution(invoices []billing.Invoice) []MethodStat {
	byMethod := make(map[billing.PaymentMethod]int)
	for _, inv := range invoices {
		byMethod[inv.PaymentMethod]++
	}

	out := make([]MethodStat, 0, len(byMethod))
	for method, count := range byMethod {
		out = append(out, MethodStat{Method: method, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Method < out[j].Method
	})
	for i := range out {
		out[i].Color = chartColors[i%len(chartColors)]
	}
	return out
}
