// Package postgres implements storage.Store on a single pgx connection.
//
// The load transaction uses TRUNCATE ... RESTART IDENTITY CASCADE to empty
// the destination tables and COPY FROM to insert, so surrogate keys start at
// 1 on every run. The adapter talks to pgx through the small pgConnLike seam
// so tests can run without a live database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"fleximart/internal/storage"
)

// Kind is the storage kind this backend registers under.
const Kind = "postgres"

// pgConnLike is the subset of *pgx.Conn used by the adapter.
type pgConnLike interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// connect is a test hook that points to pgx.Connect by default.
var connect = func(ctx context.Context, dsn string) (pgConnLike, error) {
	return pgx.Connect(ctx, dsn)
}

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Store, error) {
		return NewStore(ctx, cfg.DSN)
	})
}

// Store is the Postgres implementation of storage.Store.
type Store struct{ conn pgConnLike }

var _ storage.Store = (*Store)(nil)

// NewStore connects to Postgres. Callers must Close the returned Store.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	c, err := connect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", describe(err))
	}
	return &Store{conn: c}, nil
}

// Ping checks connectivity with a round trip.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", describe(err))
	}
	return nil
}

// BeginTx starts the load transaction.
func (s *Store) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin: %w", describe(err))
	}
	return &Tx{tx: tx}, nil
}

// CountRows returns SELECT COUNT(*) of table.
func (s *Store) CountRows(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("postgres: count %s: %w", table, describe(err))
	}
	return n, nil
}

// EnsureSchema creates the destination tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", describe(err))
		}
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close(ctx context.Context) error { return s.conn.Close(ctx) }

// Tx wraps pgx.Tx to implement storage.Tx.
type Tx struct{ tx pgx.Tx }

// Truncate empties table and restarts its identity sequence.
func (t *Tx) Truncate(ctx context.Context, table string) error {
	q := "TRUNCATE TABLE " + pgIdent(table) + " RESTART IDENTITY CASCADE"
	if _, err := t.tx.Exec(ctx, q); err != nil {
		return fmt.Errorf("postgres: truncate %s: %w", table, describe(err))
	}
	return nil
}

// CopyInto bulk-inserts rows with COPY FROM.
func (t *Tx) CopyInto(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := t.tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy into %s: %w", table, describe(err))
	}
	return n, nil
}

// ReadRows selects columns from table ordered by the first column.
func (t *Tx) ReadRows(ctx context.Context, table string, columns []string) ([][]any, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("postgres: read %s: no columns", table)
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = pgIdent(c)
	}
	q := fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(quoted, ", "), pgIdent(table), quoted[0])

	rows, err := t.tx.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", table, describe(err))
	}
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("postgres: read %s: %w", table, err)
		}
		row := make([]any, len(vals))
		for i, v := range vals {
			if row[i], err = normalizeValue(v); err != nil {
				return nil, fmt.Errorf("postgres: read %s.%s: %w", table, columns[i], err)
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: read %s: %w", table, describe(err))
	}
	return out, nil
}

// Commit commits the load transaction.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", describe(err))
	}
	return nil
}

// Rollback aborts the load transaction. Rolling back a finished
// transaction is a no-op.
func (t *Tx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres: rollback: %w", err)
	}
	return nil
}

// normalizeValue maps pgx decoded values onto the storage value set.
func normalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case pgtype.Numeric:
		if !t.Valid {
			return nil, nil
		}
		f, err := t.Float64Value()
		if err != nil {
			return nil, err
		}
		return f.Float64, nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case float32:
		return float64(t), nil
	default:
		return v, nil
	}
}

// describe attaches the server detail and SQLSTATE of a *pgconn.PgError to
// err while keeping it matchable with errors.As.
func describe(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w (detail=%s sqlstate=%s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}

// pgIdent safely quotes a single identifier for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
