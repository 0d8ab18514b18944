package source

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"rfm-segmentation/pkg/logging"
	"rfm-segmentation/pkg/models"
)

// CSVFile reads transactions from a delimited text file with a header row.
type CSVFile struct {
	Path string
	// Delimiter; 0 sniffs ',', ';' or tab from the header line.
	Delimiter rune
}

// ParseDelimiter accepts ",", ";", "tab" or an empty string (auto).
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case ",", "comma":
		return ',', nil
	case ";", "semicolon":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported delimiter: %s", s)
	}
}

func sniffDelimiter(line string) rune {
	best, bestN := ',', strings.Count(line, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(line, string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}

// Load implements the transaction source contract.
func (s *CSVFile) Load(ctx context.Context) ([]models.TransactionRow, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	delim := s.Delimiter
	if delim == 0 {
		head, _ := br.Peek(4096)
		first, _, _ := strings.Cut(string(head), "\n")
		delim = sniffDelimiter(first)
	}

	r := csv.NewReader(br)
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty file %s", s.Path)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := mapHeader(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Path, err)
	}

	var out []models.TransactionRow
	for line := 2; ; line++ {
		if line%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		row, err := idx.parseRow(rec, line, parseDate)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Path, err)
		}
		out = append(out, row)
	}
	logging.Debug().Str("path", s.Path).Str("delimiter", string(delim)).Int("rows", len(out)).Msg("csv loaded")
	return out, nil
}
