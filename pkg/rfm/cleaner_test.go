package rfm

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rfm-segmentation/pkg/models"
)

var day1 = time.Date(2011, 12, 1, 10, 0, 0, 0, time.UTC)

func row(invoice, customer string, qty int, price float64) models.TransactionRow {
	r := models.TransactionRow{InvoiceID: invoice, Quantity: qty, UnitPrice: price, InvoiceDate: day1}
	if customer != "" {
		r.CustomerID = sql.NullString{String: customer, Valid: true}
	}
	return r
}

func TestClean_Filters(t *testing.T) {
	rows := []models.TransactionRow{
		row("1001", "12347", 1, 10),
		row("1002", "", 5, 2),       // no customer
		row("C1003", "12347", 2, 4), // cancelled
		row("1004", "12348", -3, 4), // return
		row("1005", "12348", 2, 3),
	}
	original := append([]models.TransactionRow(nil), rows...)

	out, stats, err := NewCleaner(models.DefaultPercentiles(), DefaultCancelMarker).Clean(rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "1001", out[0].InvoiceID)
	assert.Equal(t, "12347", out[0].CustomerID)
	assert.Equal(t, 10.0, out[0].LineTotal)
	assert.Equal(t, "1005", out[1].InvoiceID)
	assert.Equal(t, 6.0, out[1].LineTotal)

	assert.Equal(t, 5, stats.RowsRead)
	assert.Equal(t, 1, stats.DroppedNoCustomer)
	assert.Equal(t, 1, stats.DroppedCancelled)
	assert.Equal(t, 1, stats.DroppedNonPositive)
	assert.Equal(t, 2, stats.RowsKept)
	assert.Zero(t, stats.QuantityCapped)
	assert.Zero(t, stats.UnitPriceCapped)

	assert.Equal(t, original, rows, "input rows must not be modified")
}

func TestClean_NullCustomerExcludedRegardlessOfOtherFields(t *testing.T) {
	rows := []models.TransactionRow{
		{InvoiceID: "2001", CustomerID: sql.NullString{String: "99999", Valid: false}, Quantity: 3, UnitPrice: 1, InvoiceDate: day1},
		row("2002", "12350", 1, 1),
	}
	out, stats, err := NewCleaner(models.DefaultPercentiles(), DefaultCancelMarker).Clean(rows)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "12350", out[0].CustomerID)
	assert.Equal(t, 1, stats.DroppedNoCustomer)
}

func TestClean_CapsQuantityTail(t *testing.T) {
	var rows []models.TransactionRow
	for i := 0; i < 100; i++ {
		rows = append(rows, row("3000", "12360", 1, 2))
	}
	rows = append(rows, row("3001", "12361", 10000, 2))

	out, stats, err := NewCleaner(models.DefaultPercentiles(), DefaultCancelMarker).Clean(rows)
	require.NoError(t, err)
	require.Len(t, out, 101)

	assert.Equal(t, 1.0, stats.QuantityUpper)
	assert.Equal(t, 1, stats.QuantityCapped)
	assert.Equal(t, 1.0, out[100].Quantity)
	assert.Equal(t, 2.0, out[100].LineTotal)
	assert.Zero(t, stats.UnitPriceCapped)
	assert.Equal(t, 10000, rows[100].Quantity)
}

func TestClean_AllFiltered(t *testing.T) {
	out, stats, err := NewCleaner(models.DefaultPercentiles(), DefaultCancelMarker).Clean([]models.TransactionRow{
		row("C1", "1", 1, 1),
		row("2", "", 1, 1),
	})
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, stats.RowsKept)
}

func TestClean_EmptyMarkerKeepsEverything(t *testing.T) {
	out, _, err := NewCleaner(models.DefaultPercentiles(), "").Clean([]models.TransactionRow{
		row("C1003", "12347", 2, 4),
	})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
