// Package sink writes segmented customers out of the pipeline.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"rfm-segmentation/pkg/models"
)

// Header is the column order shared by the CSV and XLSX outputs.
var Header = []string{
	"customer_id", "recency", "frequency", "monetary",
	"recency_score", "frequency_score", "monetary_score",
	"score_key", "rfm_score", "segment",
}

func record(c models.SegmentedCustomer) []string {
	return []string{
		c.CustomerID,
		strconv.Itoa(c.RecencyDays),
		strconv.Itoa(c.Frequency),
		strconv.FormatFloat(c.Monetary, 'f', 2, 64),
		strconv.Itoa(c.RecencyScore),
		strconv.Itoa(c.FrequencyScore),
		strconv.Itoa(c.MonetaryScore),
		c.ScoreKey,
		c.RFMScore,
		c.Segment,
	}
}

// CSVFile writes one line per customer.
type CSVFile struct {
	Path string
}

// Write implements the sink contract.
func (s *CSVFile) Write(_ context.Context, res *models.RunResult) error {
	f, err := os.Create(s.Path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range res.Customers {
		if err := w.Write(record(c)); err != nil {
			return fmt.Errorf("write customer %s: %w", c.CustomerID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
