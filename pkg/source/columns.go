// Package source reads transaction rows from files laid out like the Online
// Retail II dataset (Invoice, StockCode, Description, Quantity, InvoiceDate,
// Price, Customer ID, Country). Only the five columns the pipeline needs are
// mapped; the rest are ignored.
package source

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"rfm-segmentation/pkg/models"
)

type column int

const (
	colInvoice column = iota
	colCustomer
	colQuantity
	colPrice
	colDate
	numColumns
)

var columnNames = [numColumns]string{"invoice", "customer id", "quantity", "price", "invoice date"}

// normalized header → column
var headerAliases = map[string]column{
	"invoice":     colInvoice,
	"invoiceno":   colInvoice,
	"invoiceid":   colInvoice,
	"customerid":  colCustomer,
	"customer":    colCustomer,
	"quantity":    colQuantity,
	"qty":         colQuantity,
	"price":       colPrice,
	"unitprice":   colPrice,
	"invoicedate": colDate,
	"date":        colDate,
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04",
	"01/02/2006 15:04",
	"1/2/06 15:04",
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
}

// columnIndex maps each required column to its position in header.
type columnIndex [numColumns]int

func mapHeader(header []string) (columnIndex, error) {
	var idx columnIndex
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		if c, ok := headerAliases[normalizeHeader(h)]; ok && idx[c] < 0 {
			idx[c] = i
		}
	}
	var missing []string
	for c, pos := range idx {
		if pos < 0 {
			missing = append(missing, columnNames[c])
		}
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

type dateParser func(string) (time.Time, error)

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func cell(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseRow converts one record. line is used in error messages only.
func (idx columnIndex) parseRow(rec []string, line int, dates dateParser) (models.TransactionRow, error) {
	var r models.TransactionRow
	r.InvoiceID = cell(rec, idx[colInvoice])

	if c := cell(rec, idx[colCustomer]); c != "" {
		r.CustomerID = sql.NullString{String: models.NormalizeCustomerID(c), Valid: true}
	}

	q := cell(rec, idx[colQuantity])
	qty, err := strconv.Atoi(q)
	if err != nil {
		// "6.0" from float-typed spreadsheet cells is fine, "2.7" is not
		f, ferr := strconv.ParseFloat(q, 64)
		if ferr != nil {
			return r, fmt.Errorf("line %d: quantity %q: %w", line, q, err)
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return r, fmt.Errorf("line %d: quantity %q is not a whole number", line, q)
		}
		qty = int(f)
	}
	r.Quantity = qty

	p := cell(rec, idx[colPrice])
	price, err := strconv.ParseFloat(p, 64)
	if err != nil {
		return r, fmt.Errorf("line %d: price %q: %w", line, p, err)
	}
	r.UnitPrice = price

	d := cell(rec, idx[colDate])
	at, err := dates(d)
	if err != nil {
		return r, fmt.Errorf("line %d: invoice date: %w", line, err)
	}
	r.InvoiceDate = at
	return r, nil
}
