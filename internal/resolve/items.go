package resolve

import "fleximart/internal/domain"

// OrderItemColumns are the inserted order item columns, in row order.
var OrderItemColumns = []string{"order_id", "product_id", "quantity", "unit_price", "subtotal"}

// ItemStats are the counts produced by DeriveOrderItems.
type ItemStats struct {
	Items                    int
	DroppedUnresolvedOrder   int
	DroppedUnresolvedProduct int
	Dropped                  []DroppedLine
}

// DeriveOrderItems maps every sale line to its order and product ids. Lines
// whose transaction or product did not resolve are dropped; an unresolved
// order takes precedence when both fail.
func DeriveOrderItems(sales []domain.Sale, orders, products KeyMap) ([]domain.OrderItem, ItemStats) {
	var st ItemStats
	items := make([]domain.OrderItem, 0, len(sales))
	for _, s := range sales {
		oid, ok := orders.Lookup(s.TransactionID)
		if !ok {
			st.DroppedUnresolvedOrder++
			st.Dropped = append(st.Dropped, DroppedLine{Reason: ReasonUnresolvedOrder, Sale: s})
			continue
		}
		pid, ok := products.Lookup(s.ProductCode)
		if !ok {
			st.DroppedUnresolvedProduct++
			st.Dropped = append(st.Dropped, DroppedLine{Reason: ReasonUnresolvedProduct, Sale: s})
			continue
		}
		items = append(items, domain.OrderItem{
			OrderID:   oid,
			ProductID: pid,
			Quantity:  s.Quantity,
			UnitPrice: roundCents(s.UnitPrice),
			Subtotal:  roundCents(s.Subtotal),
		})
	}
	st.Items = len(items)
	return items, st
}

// OrderItemRows builds insert rows aligned to OrderItemColumns.
func OrderItemRows(items []domain.OrderItem) [][]any {
	rows := make([][]any, len(items))
	for i, it := range items {
		rows[i] = []any{it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal}
	}
	return rows
}
