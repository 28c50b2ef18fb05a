// Package reports aggregates finalized invoices into the dashboard
// figures: sales summaries, time series, rankings and distributions.
package reports

import (
	"fmt"
	"time"

	"github.com/meridian-pos/meridian-pos/internal/billing"
	"github.com/meridian-pos/meridian-pos/internal/platform/httpx"
)

// FilterKind names a reporting window anchored at the current day.
type FilterKind string

const (
	FilterToday      FilterKind = "today"
	FilterLast7Days  FilterKind = "last7days"
	FilterLast30Days FilterKind = "last30days"
	FilterThisMonth  FilterKind = "thisMonth"
	FilterAllTime    FilterKind = "allTime"
	FilterCustom     FilterKind = "custom"
)

// ParseFilterKind validates a query-string range value.
func ParseFilterKind(s string) (FilterKind, error) {
	switch FilterKind(s) {
	case FilterToday, FilterLast7Days, FilterLast30Days, FilterThisMonth, FilterAllTime, FilterCustom:
		return FilterKind(s), nil
	case "":
		return FilterAllTime, nil
	}
	return "", fmt.Errorf("%w: unknown range %q", httpx.ErrValidation, s)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// FilterByDate keeps the invoices inside the window. Bounds are aligned
// to whole days and inclusive on both ends. allTime is the identity; a
// custom window with no from bound returns everything, whatever the to
// bound says.
func FilterByDate(invoices []billing.Invoice, kind FilterKind, from, to *time.Time, now time.Time) []billing.Invoice {
	if kind == FilterAllTime {
		return invoices
	}

	var lo, hi time.Time
	switch kind {
	case FilterToday:
		lo, hi = startOfDay(now), endOfDay(now)
	case FilterLast7Days:
		lo, hi = startOfDay(now.AddDate(0, 0, -6)), endOfDay(now)
	case FilterLast30Days:
		lo, hi = startOfDay(now.AddDate(0, 0, -29)), endOfDay(now)
	case FilterThisMonth:
		lo = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		hi = endOfDay(now)
	case FilterCustom:
		if from == nil {
			return invoices
		}
		lo = startOfDay(*from)
		hi = endOfDay(now)
		if to != nil {
			hi = endOfDay(*to)
		}
	default:
		return invoices
	}

	var out []billing.Invoice
	for _, inv := range invoices {
		if inv.Date.Before(lo) {
			continue
		}
		if inv.Date.After(hi) {
			continue
		}
		out = append(out, inv)
	}
	return out
}
