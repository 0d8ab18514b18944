package rfm

import (
	"fmt"
	"strings"

	"rfm-segmentation/pkg/models"
)

// DefaultCancelMarker flags cancelled invoices ("C536379").
const DefaultCancelMarker = "C"

// Cleaner filters raw rows and caps quantity/price outliers.
type Cleaner struct {
	Percentiles  models.Percentiles
	CancelMarker string // empty disables the cancellation filter
}

// NewCleaner returns a Cleaner with the given capping policy and marker.
func NewCleaner(p models.Percentiles, cancelMarker string) *Cleaner {
	return &Cleaner{Percentiles: p, CancelMarker: cancelMarker}
}

// Clean drops rows without a customer, cancelled invoices and non-positive
// quantities, then caps quantity and unit price independently at their upper
// bounds computed on the filtered, uncapped columns. rows is not modified.
//
// When no row survives, Clean returns an empty slice and no error.
func (c *Cleaner) Clean(rows []models.TransactionRow) ([]models.CleanedTransaction, models.CleanStats, error) {
	stats := models.CleanStats{RowsRead: len(rows)}

	kept := make([]models.TransactionRow, 0, len(rows))
	for _, r := range rows {
		switch {
		case !r.CustomerID.Valid || strings.TrimSpace(r.CustomerID.String) == "":
			stats.DroppedNoCustomer++
		case c.isCancelled(r.InvoiceID):
			stats.DroppedCancelled++
		case r.Quantity <= 0:
			stats.DroppedNonPositive++
		default:
			kept = append(kept, r)
		}
	}
	stats.RowsKept = len(kept)
	if len(kept) == 0 {
		return []models.CleanedTransaction{}, stats, nil
	}

	qty := make([]float64, len(kept))
	price := make([]float64, len(kept))
	for i, r := range kept {
		qty[i] = float64(r.Quantity)
		price[i] = r.UnitPrice
	}

	qb, err := ComputeBounds(qty, c.Percentiles)
	if err != nil {
		return nil, stats, fmt.Errorf("quantity: %w", err)
	}
	pb, err := ComputeBounds(price, c.Percentiles)
	if err != nil {
		return nil, stats, fmt.Errorf("unit price: %w", err)
	}
	stats.QuantityUpper = qb.Upper
	stats.UnitPriceUpper = pb.Upper
	stats.QuantityCapped = countAbove(qty, qb.Upper)
	stats.UnitPriceCapped = countAbove(price, pb.Upper)

	qty = Cap(qty, qb.Upper)
	price = Cap(price, pb.Upper)

	out := make([]models.CleanedTransaction, len(kept))
	for i, r := range kept {
		out[i] = models.CleanedTransaction{
			InvoiceID:   r.InvoiceID,
			CustomerID:  strings.TrimSpace(r.CustomerID.String),
			Quantity:    qty[i],
			UnitPrice:   price[i],
			InvoiceDate: r.InvoiceDate,
			LineTotal:   qty[i] * price[i],
		}
	}
	return out, stats, nil
}

func (c *Cleaner) isCancelled(invoiceID string) bool {
	return c.CancelMarker != "" && strings.Contains(invoiceID, c.CancelMarker)
}

func countAbove(values []float64, upper float64) int {
	n := 0
	for _, v := range values {
		if v > upper {
			n++
		}
	}
	return n
}
