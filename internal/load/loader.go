// Package load writes a cleaned run into the store inside one transaction.
//
// The destination tables are emptied and refilled in dependency order, with
// a read-back after each insert so that legacy keys can be resolved to the
// surrogate ids the store generated. Any error rolls the whole transaction
// back; the previous contents of the store are left untouched.
package load

import (
	"context"
	"fmt"
	"log"

	"fleximart/internal/domain"
	"fleximart/internal/metrics"
	"fleximart/internal/resolve"
	"fleximart/internal/storage"
)

// Input is the cleaned, imputed working set of one run.
type Input struct {
	Customers []domain.Customer
	Products  []domain.Product
	Sales     []domain.Sale
}

// Result describes what the load wrote and what it had to drop.
type Result struct {
	Inserted map[string]int64 // rows written per table
	Final    map[string]int64 // rows per table re-read after commit

	UnresolvedCustomers int // cleaned customers whose email did not match
	Products            resolve.ProductResult
	Orders              resolve.OrderStats
	UnresolvedOrders    int // derived orders whose tuple did not match
	Items               resolve.ItemStats
}

// Loader runs the load transaction against Store.
type Loader struct {
	Store storage.Store
	Job   string // metrics job label
}

// Run pings the store, then truncates and reloads all four tables in one
// transaction, then re-reads the final row counts.
func (l *Loader) Run(ctx context.Context, in Input) (Result, error) {
	res := Result{Inserted: map[string]int64{}}

	if err := l.Store.Ping(ctx); err != nil {
		return res, err
	}

	tx, err := l.Store.BeginTx(ctx)
	if err != nil {
		return res, err
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Printf("loader: rollback error=%v", rbErr)
		} else {
			log.Printf("loader: transaction rolled back")
		}
	}()

	for _, table := range storage.TruncateOrder {
		if err := tx.Truncate(ctx, table); err != nil {
			return res, err
		}
	}
	log.Printf("loader: truncated tables=%v", storage.TruncateOrder)

	// customers
	if err := l.insert(ctx, tx, &res, storage.TableCustomers, resolve.CustomerColumns, resolve.CustomerRows(in.Customers)); err != nil {
		return res, err
	}
	stored, err := tx.ReadRows(ctx, storage.TableCustomers, resolve.CustomerReadColumns)
	if err != nil {
		return res, err
	}
	customerIDs, unresolved, err := resolve.Customers(in.Customers, stored)
	if err != nil {
		return res, err
	}
	res.UnresolvedCustomers = unresolved
	log.Printf("resolver: entity=customers resolved=%d unresolved=%d", len(customerIDs), unresolved)

	// products
	if err := l.insert(ctx, tx, &res, storage.TableProducts, resolve.ProductColumns, resolve.ProductRows(in.Products)); err != nil {
		return res, err
	}
	if stored, err = tx.ReadRows(ctx, storage.TableProducts, resolve.ProductReadColumns); err != nil {
		return res, err
	}
	if res.Products, err = resolve.Products(in.Products, stored); err != nil {
		return res, err
	}
	log.Printf("resolver: entity=products resolved=%d unresolved=%d ambiguous=%d",
		len(res.Products.IDs), res.Products.Unresolved, res.Products.Ambiguous)

	// orders
	orders, ost := resolve.DeriveOrders(in.Sales, customerIDs)
	res.Orders = ost
	log.Printf("resolver: entity=orders derived=%d dropped_unresolved_customer=%d", ost.Orders, ost.DroppedUnresolvedCustomer)
	if err := l.insert(ctx, tx, &res, storage.TableOrders, resolve.OrderColumns, resolve.OrderRows(orders)); err != nil {
		return res, err
	}
	if stored, err = tx.ReadRows(ctx, storage.TableOrders, resolve.OrderReadColumns); err != nil {
		return res, err
	}
	orderIDs, unresolved, err := resolve.Orders(orders, stored)
	if err != nil {
		return res, err
	}
	res.UnresolvedOrders = unresolved
	log.Printf("resolver: entity=orders resolved=%d unresolved=%d", len(orderIDs), unresolved)

	// order items
	items, ist := resolve.DeriveOrderItems(in.Sales, orderIDs, res.Products.IDs)
	res.Items = ist
	log.Printf("resolver: entity=order_items derived=%d dropped_unresolved_order=%d dropped_unresolved_product=%d",
		ist.Items, ist.DroppedUnresolvedOrder, ist.DroppedUnresolvedProduct)
	if err := l.insert(ctx, tx, &res, storage.TableOrderItems, resolve.OrderItemColumns, resolve.OrderItemRows(items)); err != nil {
		return res, err
	}

	if err := tx.Commit(ctx); err != nil {
		return res, err
	}
	committed = true
	log.Printf("loader: committed")

	final, err := l.finalCounts(ctx)
	if err != nil {
		return res, err
	}
	res.Final = final
	return res, nil
}

func (l *Loader) insert(ctx context.Context, tx storage.Tx, res *Result, table string, cols []string, rows [][]any) error {
	n, err := tx.CopyInto(ctx, table, cols, rows)
	if err != nil {
		return err
	}
	if n != int64(len(rows)) {
		return fmt.Errorf("loader: table=%s inserted %d of %d rows", table, n, len(rows))
	}
	res.Inserted[table] = n
	metrics.RecordLoaded(l.Job, table, n)
	log.Printf("loader: table=%s inserted=%d", table, n)
	return nil
}

// finalCounts re-reads the row count of every table outside the load
// transaction.
func (l *Loader) finalCounts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(storage.TruncateOrder))
	for _, table := range storage.TruncateOrder {
		n, err := l.Store.CountRows(ctx, table)
		if err != nil {
			return nil, err
		}
		out[table] = n
	}
	return out, nil
}
