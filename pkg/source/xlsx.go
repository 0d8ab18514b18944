package source

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"rfm-segmentation/pkg/logging"
	"rfm-segmentation/pkg/models"
)

// headerScanRows bounds the search for the header row.
const headerScanRows = 10

// XLSXFile reads transactions from one worksheet of an .xlsx workbook.
type XLSXFile struct {
	Path string
	// Sheet name; empty selects the first sheet.
	Sheet string
}

// excelDate accepts a raw serial number ("40148.3263888889") or a formatted date.
func excelDate(s string) (time.Time, error) {
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, err
		}
		return t.Round(time.Second), nil
	}
	return parseDate(s)
}

// Load implements the transaction source contract.
func (s *XLSXFile) Load(ctx context.Context) ([]models.TransactionRow, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	headerRow := -1
	var idx columnIndex
	var mapErr error
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		if idx, mapErr = mapHeader(rows[i]); mapErr == nil {
			headerRow = i
			break
		}
	}
	if headerRow < 0 {
		if mapErr == nil {
			mapErr = fmt.Errorf("sheet is empty")
		}
		return nil, fmt.Errorf("%s[%s]: no header row: %w", s.Path, sheet, mapErr)
	}

	out := make([]models.TransactionRow, 0, len(rows)-headerRow-1)
	for i := headerRow + 1; i < len(rows); i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if isBlank(rows[i]) {
			continue
		}
		row, err := idx.parseRow(rows[i], i+1, excelDate)
		if err != nil {
			return nil, fmt.Errorf("%s[%s]: %w", s.Path, sheet, err)
		}
		out = append(out, row)
	}
	logging.Debug().Str("path", s.Path).Str("sheet", sheet).Int("header_row", headerRow+1).Int("rows", len(out)).Msg("xlsx loaded")
	return out, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}
