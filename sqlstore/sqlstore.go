// Package sqlstore opens and migrates the database/sql connections backing
// SQLSink (spec §1, SQL domain-stack entry). Grounded on
// graph/store/sqlite.go and graph/store/mysql.go's connection-pool setup
// and auto-migration pattern, repurposed here from workflow-checkpoint
// persistence to single-table envelope insertion.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// validIdentifier matches the subset of SQL identifiers SQLSink accepts
// for its configured table name — config is operator-supplied, not
// attacker-controlled, but this still rules out accidental injection via a
// stray quote or semicolon in a job description.
var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Driver names accepted by Open (spec SPEC_FULL.md §1: "sqlite via
// modernc.org/sqlite, or mysql via github.com/go-sql-driver/mysql").
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Open connects to driver/dsn and configures the pool the way
// graph/store/sqlite.go does for SQLite (single writer) and
// graph/store/mysql.go does for MySQL (bounded pool).
func Open(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite:
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: opening sqlite connection: %w", err)
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return db, nil
	case DriverMySQL:
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: opening mysql connection: %w", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		return db, nil
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q (want %q or %q)", driver, DriverSQLite, DriverMySQL)
	}
}

// EnsureTable creates table if it doesn't already exist, with a single
// JSON payload column plus an auto-incrementing id and insertion
// timestamp — the minimal schema SQLSink needs to persist one envelope
// payload per row.
func EnsureTable(ctx context.Context, db *sql.DB, driver, table string) error {
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("sqlstore: invalid table name %q", table)
	}
	var ddl string
	switch driver {
	case DriverSQLite:
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			payload TEXT NOT NULL,
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, table)
	case DriverMySQL:
		ddl = fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			payload JSON NOT NULL,
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`, table)
	default:
		return fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	_, err := db.ExecContext(ctx, ddl)
	return err
}

// InsertPayload inserts one JSON-encoded payload row into table.
func InsertPayload(ctx context.Context, db *sql.DB, table string, payload []byte) error {
	if !validIdentifier.MatchString(table) {
		return fmt.Errorf("sqlstore: invalid table name %q", table)
	}
	_, err := db.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (payload) VALUES (?)", table), string(payload))
	return err
}
