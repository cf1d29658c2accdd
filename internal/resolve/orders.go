package resolve

import (
	"fmt"
	"strconv"

	"fleximart/internal/domain"
	"fleximart/internal/storage"
)

// Drop reasons for sale rows removed during resolution.
const (
	ReasonUnresolvedOrder   = "unresolved_order"
	ReasonUnresolvedProduct = "unresolved_product"
)

// DroppedLine is a cleaned sale line removed because a reference did not
// resolve.
type DroppedLine struct {
	Reason string
	Sale   domain.Sale
}

// OrderColumns are the inserted order columns, in row order.
var OrderColumns = []string{"customer_id", "order_date", "total_amount", "status"}

// OrderReadColumns are read back after insert.
var OrderReadColumns = []string{"order_id", "customer_id", "order_date", "total_amount", "status"}

// OrderStats are the counts produced by DeriveOrders.
type OrderStats struct {
	Orders                    int
	DroppedUnresolvedCustomer int // transactions dropped
}

// DeriveOrders builds one order per distinct transaction id, in order of
// first appearance. The customer, date and status come from the first line
// of the transaction; the total is the sum of every line's subtotal.
// Transactions whose customer did not resolve are dropped; their lines are
// dropped later by DeriveOrderItems as unresolved orders.
func DeriveOrders(sales []domain.Sale, customers KeyMap) ([]domain.Order, OrderStats) {
	var st OrderStats
	index := make(map[string]int)
	var orders []domain.Order
	skipped := make(map[string]bool)

	for _, s := range sales {
		if skipped[s.TransactionID] {
			continue
		}
		if i, ok := index[s.TransactionID]; ok {
			orders[i].TotalAmount += s.Subtotal
			continue
		}
		cid, ok := customers.Lookup(s.CustomerCode)
		if !ok {
			skipped[s.TransactionID] = true
			st.DroppedUnresolvedCustomer++
			continue
		}
		index[s.TransactionID] = len(orders)
		orders = append(orders, domain.Order{
			TransactionID: s.TransactionID,
			CustomerID:    cid,
			OrderDate:     s.Date,
			TotalAmount:   s.Subtotal,
			Status:        s.Status,
		})
	}
	for i := range orders {
		orders[i].TotalAmount = roundCents(orders[i].TotalAmount)
	}
	st.Orders = len(orders)
	return orders, st
}

// OrderRows builds insert rows aligned to OrderColumns.
func OrderRows(orders []domain.Order) [][]any {
	rows := make([][]any, len(orders))
	for i, o := range orders {
		rows[i] = []any{o.CustomerID, o.OrderDate, o.TotalAmount, o.Status}
	}
	return rows
}

func orderKey(customerID int64, date, total, status string) string {
	return strconv.FormatInt(customerID, 10) + "\x1f" + date + "\x1f" + total + "\x1f" + status
}

// Orders joins the stored order rows to the derived orders on the full
// (customer, date, total, status) tuple and returns transaction id to
// order_id. Orders with identical tuples pair with stored ids in insertion
// order. It also returns how many orders did not match.
func Orders(orders []domain.Order, stored [][]any) (KeyMap, int, error) {
	byKey := make(map[string]*idQueue, len(stored))
	for _, r := range stored {
		id, err := storage.AsInt64(r[0])
		if err != nil {
			return nil, 0, fmt.Errorf("resolve orders: order_id: %w", err)
		}
		cid, err := storage.AsInt64(r[1])
		if err != nil {
			return nil, 0, fmt.Errorf("resolve orders: customer_id: %w", err)
		}
		d, err := storage.AsDate(r[2])
		if err != nil {
			return nil, 0, fmt.Errorf("resolve orders: order_date: %w", err)
		}
		total, err := storage.AsFloat64(r[3])
		if err != nil {
			return nil, 0, fmt.Errorf("resolve orders: total_amount: %w", err)
		}
		k := orderKey(cid, d.Format(domain.DateLayout), cents(total), storage.AsString(r[4]))
		q := byKey[k]
		if q == nil {
			q = &idQueue{}
			byKey[k] = q
		}
		q.ids = append(q.ids, id)
	}

	m := make(KeyMap, len(orders))
	unresolved := 0
	for _, o := range orders {
		k := orderKey(o.CustomerID, o.OrderDate.Format(domain.DateLayout), cents(o.TotalAmount), o.Status)
		id, ok := byKey[k].pop()
		if !ok {
			unresolved++
			continue
		}
		m[o.TransactionID] = id
	}
	return m, unresolved, nil
}
