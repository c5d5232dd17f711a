package nodes

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/fossabot/seot-agent/dataflow"
	"github.com/fossabot/seot-agent/registry"
	"github.com/fossabot/seot-agent/sqlstore"
)

// sqlSinkArgs configures a sqlSink.
type sqlSinkArgs struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
	Table  string `json:"table"`
	QSize  int    `json:"qsize"`
}

// sqlSink inserts each envelope's JSON-encoded payload into a configured
// SQL table (spec SPEC_FULL.md §1), grounded on graph/store's
// connection-lifecycle idiom via the sqlstore package.
type sqlSink struct {
	*dataflow.Sink
	driver, dsn, table string
	db                 *sql.DB
}

// NewSQLSink builds a sqlSink.
func NewSQLSink(name string, args map[string]interface{}, bc registry.BuildContext) (dataflow.Node, error) {
	var opts sqlSinkArgs
	if err := decodeArgs(args, &opts); err != nil {
		return nil, err
	}
	if opts.DSN == "" {
		return nil, fmt.Errorf("SQLSink: missing required arg %q", "dsn")
	}
	if opts.Table == "" {
		return nil, fmt.Errorf("SQLSink: missing required arg %q", "table")
	}
	if opts.Driver == "" {
		opts.Driver = sqlstore.DriverSQLite
	}

	ss := &sqlSink{driver: opts.Driver, dsn: opts.DSN, table: opts.Table}
	ss.Sink = dataflow.NewSink(name, "SQLSink", opts.QSize, func(ctx context.Context, env dataflow.Envelope) error {
		payload, err := json.Marshal(env)
		if err != nil {
			return fmt.Errorf("SQLSink: encoding envelope: %w", err)
		}
		return sqlstore.InsertPayload(ctx, ss.db, ss.table, payload)
	})
	return ss, nil
}

// Startup opens the database connection and migrates its table, shadowing
// Sink's no-op default.
func (s *sqlSink) Startup(ctx context.Context) error {
	db, err := sqlstore.Open(s.driver, s.dsn)
	if err != nil {
		return err
	}
	if err := sqlstore.EnsureTable(ctx, db, s.driver, s.table); err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

// Cleanup closes the database connection, shadowing Sink's no-op default.
func (s *sqlSink) Cleanup(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
