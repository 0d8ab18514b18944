package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rfm-segmentation/pkg/logging"
	"rfm-segmentation/pkg/models"

	"github.com/go-sql-driver/mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Open DSN mariadb:// or mysql:// → MySQL driver format
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	// Driver form: invoice_date is scanned into time.Time, so force parseTime.
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Redact masks the password of a DSN (URL or driver form) for logging.
func Redact(dsn string) string {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return "<unparseable dsn>"
	}
	cfg, err := mysql.ParseDSN(mysqlDSN)
	if err != nil {
		return "<unparseable dsn>"
	}
	if cfg.Passwd != "" {
		cfg.Passwd = "xxxxx"
	}
	return cfg.FormatDSN()
}

func checkTable(table string) error {
	if !tableNameRe.MatchString(table) {
		return fmt.Errorf("invalid table %q", table)
	}
	return nil
}

// Source reads invoice lines from a table shaped like the online retail
// dataset: invoice_no, customer_id (nullable), quantity, unit_price, invoice_date.
type Source struct {
	DB    *sql.DB
	Table string
	// Optional [Since, Until) window on invoice_date; zero means unbounded.
	Since time.Time
	Until time.Time
}

// buildSelect returns the query and its arguments (DATETIME strings in UTC).
func buildSelect(table string, since, until time.Time) (string, []any, error) {
	if err := checkTable(table); err != nil {
		return "", nil, err
	}
	const layout = "2006-01-02 15:04:05"
	q := fmt.Sprintf(`
		SELECT invoice_no, customer_id, quantity, unit_price, invoice_date
		FROM %s`, table)

	var where []string
	var args []any
	if !since.IsZero() {
		where = append(where, "invoice_date >= ?")
		args = append(args, since.UTC().Format(layout))
	}
	if !until.IsZero() {
		where = append(where, "invoice_date < ?")
		args = append(args, until.UTC().Format(layout))
	}
	if len(where) > 0 {
		q += "\n\t\tWHERE " + strings.Join(where, " AND ")
	}
	return q, args, nil
}

// Load implements the transaction source contract.
func (s *Source) Load(ctx context.Context) ([]models.TransactionRow, error) {
	q, args, err := buildSelect(s.Table, s.Since, s.Until)
	if err != nil {
		return nil, err
	}
	logging.Debug().Str("table", s.Table).Interface("window", args).Msg("loading transactions")

	rows, err := s.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.Table, err)
	}
	defer rows.Close()

	var out []models.TransactionRow
	for rows.Next() {
		var (
			r        models.TransactionRow
			customer sql.NullString
			qty      sql.NullInt64
			price    sql.NullFloat64
		)
		if err := rows.Scan(&r.InvoiceID, &customer, &qty, &price, &r.InvoiceDate); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out)+1, err)
		}
		if customer.Valid {
			r.CustomerID = sql.NullString{String: models.NormalizeCustomerID(customer.String), Valid: true}
		}
		r.Quantity = int(qty.Int64)
		r.UnitPrice = price.Float64
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logging.Debug().Int("rows", len(out)).Msg("transactions loaded")
	return out, nil
}
