// Package storage defines the store contract used by the loader and the
// referential resolver, plus a small factory registry so callers can open a
// backend by kind ("postgres", "sqlite", "sqlserver") without importing it.
//
// Backends register themselves from init; import
// fleximart/internal/storage/all to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Destination tables.
const (
	TableCustomers  = "customers"
	TableProducts   = "products"
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)

// TruncateOrder lists the destination tables children first, so foreign
// keys are never violated while emptying them.
var TruncateOrder = []string{TableOrderItems, TableOrders, TableProducts, TableCustomers}

// Store is a connection to the destination database.
type Store interface {
	// Ping checks connectivity. It is not part of any transaction.
	Ping(ctx context.Context) error
	// BeginTx starts the load transaction.
	BeginTx(ctx context.Context) (Tx, error)
	// CountRows returns the number of rows in table.
	CountRows(ctx context.Context, table string) (int64, error)
	// EnsureSchema creates the four destination tables if they are absent.
	EnsureSchema(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tx is the single load transaction. Nothing written through a Tx is
// visible to other sessions until Commit; Rollback discards all of it.
type Tx interface {
	// Truncate empties table, restarting its identity where the backend
	// supports that.
	Truncate(ctx context.Context, table string) error
	// CopyInto bulk-inserts rows aligned to columns and returns the number
	// of rows written. Surrogate keys are generated by the store.
	CopyInto(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// ReadRows returns columns of every row of table, ordered by the first
	// column. Values are normalized to int64, float64, string, time.Time or
	// nil.
	ReadRows(ctx context.Context, table string, columns []string) ([][]any, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Kind string // registered backend name
	DSN  string // driver-specific connection string
}

// Factory opens a Store for cfg.
type Factory func(ctx context.Context, cfg Config) (Store, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Store of cfg.Kind.
func New(ctx context.Context, cfg Config) (Store, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend names, sorted.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
