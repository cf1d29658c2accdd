package resolve

import (
	"fmt"
	"strings"

	"fleximart/internal/domain"
	"fleximart/internal/storage"
)

// ProductColumns are the inserted product columns, in row order.
var ProductColumns = []string{"product_name", "category", "price", "stock_quantity"}

// ProductReadColumns are read back after insert.
var ProductReadColumns = []string{"product_id", "product_name", "category", "price"}

// ProductRows builds insert rows aligned to ProductColumns. Prices must
// already be imputed; a nil price is written as 0.
func ProductRows(ps []domain.Product) [][]any {
	rows := make([][]any, len(ps))
	for i, p := range ps {
		price := 0.0
		if p.Price != nil {
			price = roundCents(*p.Price)
		}
		rows[i] = []any{p.Name, p.Category, price, p.StockQuantity}
	}
	return rows
}

// ProductResult is the outcome of Products.
type ProductResult struct {
	IDs        KeyMap
	Unresolved int // products with no stored row
	Ambiguous  int // products sharing name, category and price with another
}

func productKey(name, category string, price float64) string {
	return strings.TrimSpace(name) + "\x1f" + category + "\x1f" + cents(price)
}

// Products joins the stored (product_id, name, category, price) rows to the
// cleaned products on name, category and price in cents.
//
// Products that share all three are indistinguishable in the store. They
// are paired with the stored ids of that key in insertion order and counted
// as ambiguous.
func Products(ps []domain.Product, stored [][]any) (ProductResult, error) {
	byKey := make(map[string]*idQueue, len(stored))
	for _, r := range stored {
		id, err := storage.AsInt64(r[0])
		if err != nil {
			return ProductResult{}, fmt.Errorf("resolve products: product_id: %w", err)
		}
		price, err := storage.AsFloat64(r[3])
		if err != nil {
			return ProductResult{}, fmt.Errorf("resolve products: price: %w", err)
		}
		k := productKey(storage.AsString(r[1]), storage.AsString(r[2]), price)
		q := byKey[k]
		if q == nil {
			q = &idQueue{}
			byKey[k] = q
		}
		q.ids = append(q.ids, id)
	}

	res := ProductResult{IDs: make(KeyMap, len(ps))}
	for _, p := range ps {
		price := 0.0
		if p.Price != nil {
			price = *p.Price
		}
		q := byKey[productKey(p.Name, p.Category, price)]
		if q != nil && len(q.ids) > 1 {
			res.Ambiguous++
		}
		id, ok := q.pop()
		if !ok {
			res.Unresolved++
			continue
		}
		res.IDs[p.Code] = id
	}
	return res, nil
}
