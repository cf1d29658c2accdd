package clean

import (
	"strings"

	"fleximart/internal/domain"
	"fleximart/internal/normalize"
	"fleximart/internal/transformer/builtin"
)

// ProductStats are the counts produced by Products.
type ProductStats struct {
	Read              int
	DuplicatesRemoved int
	MissingPrices     int // prices left nil for the imputer
	MissingStock      int // stock quantities set to 0
	Rows              int
}

// Products cleans the raw product extract. Names are trimmed and categories
// normalized. A blank, non-numeric, or negative price is left nil for the
// price imputer; a blank, non-numeric, or negative stock quantity becomes 0.
func Products(raw []domain.RawProduct) ([]domain.Product, ProductStats) {
	st := ProductStats{Read: len(raw)}

	rows, removed := builtin.DedupExact(raw, domain.RawProduct.Fields)
	st.DuplicatesRemoved = removed

	out := make([]domain.Product, 0, len(rows))
	for _, r := range rows {
		p := domain.Product{
			Code:     strings.TrimSpace(r.ProductID),
			Name:     strings.TrimSpace(r.ProductName),
			Category: normalize.Category(r.Category),
		}
		if v, ok := parseNumber(r.Price); ok && v >= 0 {
			p.Price = &v
		} else {
			st.MissingPrices++
		}
		if n, ok := parseCount(r.StockQuantity); ok && n >= 0 {
			p.StockQuantity = n
		} else {
			st.MissingStock++
		}
		out = append(out, p)
	}

	st.Rows = len(out)
	return out, st
}
