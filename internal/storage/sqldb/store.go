// Package sqldb implements storage.Store over database/sql for SQLite and
// SQL Server. Inserts run as a prepared INSERT per row inside the load
// transaction; neither engine exposes a COPY path through database/sql.
package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"

	"fleximart/internal/storage"
)

func init() {
	for _, d := range []Dialect{SQLite, SQLServer} {
		storage.Register(d.Kind, func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
			return Open(ctx, d, cfg.DSN)
		})
	}
}

// Store is a database/sql implementation of storage.Store.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

var _ storage.Store = (*Store)(nil)

// Open opens dsn with the dialect's driver and applies its session setup.
func Open(ctx context.Context, d Dialect, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", d.Kind)
	}
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", d.Kind, err)
	}
	if err := d.setup(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: setup: %w", d.Kind, err)
	}
	return &Store{db: db, dialect: d}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: ping: %w", s.dialect.Kind, err)
	}
	return nil
}

// BeginTx starts the load transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", s.dialect.Kind, err)
	}
	return &Tx{tx: tx, dialect: s.dialect}, nil
}

// CountRows returns SELECT COUNT(*) of table.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + s.dialect.quote(table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: count %s: %w", s.dialect.Kind, table, err)
	}
	return n, nil
}

// EnsureSchema creates the destination tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: ensure schema: %w", s.dialect.Kind, err)
		}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close(context.Context) error { return s.db.Close() }

// Tx wraps *sql.Tx to implement storage.Tx.
type Tx struct {
	tx      *sql.Tx
	dialect Dialect
}

// Truncate deletes every row of table and reseeds its identity where the
// engine needs it.
func (t *Tx) Truncate(ctx context.Context, table string) error {
	for _, q := range t.dialect.truncate(table) {
		if _, err := t.tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("%s: truncate %s: %w", t.dialect.Kind, table, err)
		}
	}
	return nil
}

// CopyInto inserts rows with a prepared INSERT.
func (t *Tx) CopyInto(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("%s: copy into %s: columns must not be empty", t.dialect.Kind, table)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	stmt, err := t.tx.PrepareContext(ctx, t.dialect.insertSQL(table, columns))
	if err != nil {
		return 0, fmt.Errorf("%s: prepare insert %s: %w", t.dialect.Kind, table, err)
	}
	defer stmt.Close()

	var inserted int64
	args := make([]any, len(columns))
	for _, row := range rows {
		if len(row) != len(columns) {
			return inserted, fmt.Errorf("%s: copy into %s: row length %d != columns length %d",
				t.dialect.Kind, table, len(row), len(columns))
		}
		for i, v := range row {
			args[i] = t.dialect.bind(v)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return inserted, fmt.Errorf("%s: insert %s: %w", t.dialect.Kind, table, err)
		}
		inserted++
	}
	return inserted, nil
}

// ReadRows selects columns from table ordered by the first column.
func (t *Tx) ReadRows(ctx context.Context, table string, columns []string) ([][]any, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("%s: read %s: no columns", t.dialect.Kind, table)
	}
	rows, err := t.tx.QueryContext(ctx, t.dialect.selectSQL(table, columns))
	if err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", t.dialect.Kind, table, err)
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("%s: read %s: %w", t.dialect.Kind, table, err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: read %s: %w", t.dialect.Kind, table, err)
	}
	return out, nil
}

// Commit commits the load transaction.
func (t *Tx) Commit(context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", t.dialect.Kind, err)
	}
	return nil
}

// Rollback aborts the load transaction; a finished transaction is a no-op.
func (t *Tx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%s: rollback: %w", t.dialect.Kind, err)
	}
	return nil
}
