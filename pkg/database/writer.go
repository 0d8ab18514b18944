package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"rfm-segmentation/pkg/logging"
	"rfm-segmentation/pkg/models"
)

const defaultBatchSize = 500

var segmentColumns = []string{
	"run_id", "as_of", "customer_id", "recency_days", "frequency", "monetary",
	"recency_score", "frequency_score", "monetary_score", "rfm_score", "segment",
}

// Sink stores segmented customers in a table, one row per customer and run.
type Sink struct {
	DB        *sql.DB
	Table     string
	BatchSize int
}

func createTableSQL(table string) string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			run_id CHAR(36) NOT NULL,
			as_of DATE NOT NULL,
			customer_id VARCHAR(64) NOT NULL,
			recency_days INT NOT NULL,
			frequency INT NOT NULL,
			monetary DECIMAL(18,4) NOT NULL,
			recency_score TINYINT NOT NULL,
			frequency_score TINYINT NOT NULL,
			monetary_score TINYINT NOT NULL,
			rfm_score CHAR(3) NOT NULL,
			segment VARCHAR(32) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (run_id, customer_id),
			KEY idx_%s_segment (segment)
		)`, table, table)
}

// buildInsert returns a multi-row INSERT for n customers.
func buildInsert(table string, n int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?,", len(segmentColumns)), ",") + ")"
	values := make([]string, n)
	for i := range values {
		values[i] = row
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		table, strings.Join(segmentColumns, ", "), strings.Join(values, ", "))
}

func insertArgs(res *models.RunResult, batch []models.SegmentedCustomer) []any {
	asOf := res.AsOf.UTC().Format("2006-01-02")
	args := make([]any, 0, len(batch)*len(segmentColumns))
	for _, c := range batch {
		args = append(args,
			res.RunID, asOf, c.CustomerID, c.RecencyDays, c.Frequency, c.Monetary,
			c.RecencyScore, c.FrequencyScore, c.MonetaryScore, c.RFMScore, c.Segment,
		)
	}
	return args
}

// Write creates the table if needed and inserts the run in one transaction.
func (s *Sink) Write(ctx context.Context, res *models.RunResult) error {
	if err := checkTable(s.Table); err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx, createTableSQL(s.Table)); err != nil {
		return fmt.Errorf("create %s: %w", s.Table, err)
	}

	batchSize := s.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for start := 0; start < len(res.Customers); start += batchSize {
		end := min(start+batchSize, len(res.Customers))
		batch := res.Customers[start:end]
		if _, err := tx.ExecContext(ctx, buildInsert(s.Table, len(batch)), insertArgs(res, batch)...); err != nil {
			return fmt.Errorf("insert rows %d-%d: %w", start, end, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	logging.Info().Str("table", s.Table).Str("run_id", res.RunID).Int("rows", len(res.Customers)).Msg("segments stored")
	return nil
}
