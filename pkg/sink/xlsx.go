package sink

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"rfm-segmentation/pkg/models"
)

const (
	SegmentsSheet = "Segments"
	SummarySheet  = "Summary"
)

var summaryHeader = []interface{}{
	"segment", "customers", "share", "mean_recency", "mean_frequency", "mean_monetary", "total_monetary",
}

// XLSXFile writes a workbook with a customer sheet and a segment summary sheet.
type XLSXFile struct {
	Path string
}

// Write implements the sink contract.
func (s *XLSXFile) Write(_ context.Context, res *models.RunResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SegmentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SegmentsSheet, "A1", &header); err != nil {
		return err
	}
	for i, c := range res.Customers {
		row := []interface{}{
			c.CustomerID, c.RecencyDays, c.Frequency, c.Monetary,
			c.RecencyScore, c.FrequencyScore, c.MonetaryScore,
			c.ScoreKey, c.RFMScore, c.Segment,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SegmentsSheet, cell, &row); err != nil {
			return fmt.Errorf("write customer %s: %w", c.CustomerID, err)
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	if err := f.SetSheetRow(SummarySheet, "A1", &summaryHeader); err != nil {
		return err
	}
	for i, sm := range res.Summary {
		row := []interface{}{
			sm.Segment, sm.Customers, sm.Share, sm.MeanRecency, sm.MeanFrequency, sm.MeanMonetary, sm.TotalMonetary,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary %s: %w", sm.Segment, err)
		}
	}

	if err := f.SaveAs(s.Path); err != nil {
		return fmt.Errorf("save xlsx: %w", err)
	}
	return nil
}
