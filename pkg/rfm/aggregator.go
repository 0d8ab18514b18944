package rfm

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"rfm-segmentation/pkg/models"
)

const day = 24 * time.Hour

type customerAcc struct {
	last     time.Time
	invoices map[string]struct{}
	monetary float64
}

// Aggregate reduces cleaned transactions to one CustomerMetrics per customer,
// sorted by customer id (see LessCustomerID).
func Aggregate(cleaned []models.CleanedTransaction, asOf time.Time) ([]models.CustomerMetrics, error) {
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no cleaned transactions: %w", ErrEmptyInput)
	}

	byCustomer := make(map[string]*customerAcc)
	for _, t := range cleaned {
		acc := byCustomer[t.CustomerID]
		if acc == nil {
			acc = &customerAcc{last: t.InvoiceDate, invoices: map[string]struct{}{}}
			byCustomer[t.CustomerID] = acc
		}
		if t.InvoiceDate.After(acc.last) {
			acc.last = t.InvoiceDate
		}
		acc.invoices[t.InvoiceID] = struct{}{}
		acc.monetary += t.LineTotal
	}

	ids := make([]string, 0, len(byCustomer))
	for id := range byCustomer {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return LessCustomerID(ids[i], ids[j]) })

	out := make([]models.CustomerMetrics, 0, len(ids))
	for _, id := range ids {
		acc := byCustomer[id]
		elapsed := asOf.Sub(acc.last)
		if elapsed < 0 {
			return nil, fmt.Errorf("customer %s: last invoice %s after %s: %w",
				id, acc.last.Format(time.RFC3339), asOf.Format(time.RFC3339), ErrAsOfBeforeLastInvoice)
		}
		out = append(out, models.CustomerMetrics{
			CustomerID:  id,
			RecencyDays: int(elapsed / day),
			Frequency:   len(acc.invoices),
			Monetary:    acc.monetary,
		})
	}
	return out, nil
}

// LatestInvoice returns the most recent invoice date, or the zero time.
func LatestInvoice(cleaned []models.CleanedTransaction) time.Time {
	var latest time.Time
	for _, t := range cleaned {
		if t.InvoiceDate.After(latest) {
			latest = t.InvoiceDate
		}
	}
	return latest
}

// DefaultAsOf is midnight of the latest invoice day plus offsetDays.
func DefaultAsOf(cleaned []models.CleanedTransaction, offsetDays int) time.Time {
	latest := LatestInvoice(cleaned)
	midnight := time.Date(latest.Year(), latest.Month(), latest.Day(), 0, 0, 0, 0, latest.Location())
	return midnight.AddDate(0, 0, offsetDays)
}

// LessCustomerID orders numeric ids numerically and everything else
// lexically; numeric ids sort before non-numeric ones.
func LessCustomerID(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if fa != fb {
			return fa < fb
		}
		return a < b
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
