package clean

import (
	"strings"

	"fleximart/internal/domain"
	"fleximart/internal/normalize"
	"fleximart/internal/transformer/builtin"
)

// Drop reasons for sale rows removed during cleaning.
const (
	ReasonMissingIDs = "missing_customer_or_product_id"
	ReasonBadDate    = "unparsed_transaction_date"
)

// DroppedSale is a sale row removed during cleaning and why.
type DroppedSale struct {
	Reason string
	Row    domain.RawSale
}

// SaleStats are the counts produced by Sales.
//
// DroppedMissingIDs + DroppedBadDates + Rows == Read - DuplicatesRemoved.
type SaleStats struct {
	Read              int
	DuplicatesRemoved int
	DroppedMissingIDs int
	DroppedBadDates   int
	Rows              int
	Dropped           []DroppedSale
}

// Sales cleans the raw sales extract.
//
// Rows with a blank legacy customer or product code are dropped first; they
// can never satisfy the foreign keys. Of the remainder, rows whose
// transaction date does not parse are dropped because an order date may not
// be null. Quantity and unit price fall back to 0 when not numeric, and the
// subtotal is quantity times unit price.
func Sales(raw []domain.RawSale) ([]domain.Sale, SaleStats) {
	st := SaleStats{Read: len(raw)}

	rows, removed := builtin.DedupExact(raw, domain.RawSale.Fields)
	st.DuplicatesRemoved = removed

	kept := make([]domain.RawSale, 0, len(rows))
	for _, r := range rows {
		if isBlank(r.CustomerID) || isBlank(r.ProductID) {
			st.DroppedMissingIDs++
			st.Dropped = append(st.Dropped, DroppedSale{Reason: ReasonMissingIDs, Row: r})
			continue
		}
		kept = append(kept, r)
	}

	out := make([]domain.Sale, 0, len(kept))
	for _, r := range kept {
		d, ok := normalize.ParseMixedDate(r.TransactionDate)
		if !ok {
			st.DroppedBadDates++
			st.Dropped = append(st.Dropped, DroppedSale{Reason: ReasonBadDate, Row: r})
			continue
		}
		qty, _ := parseCount(r.Quantity)
		price, _ := parseNumber(r.UnitPrice)
		out = append(out, domain.Sale{
			TransactionID: strings.TrimSpace(r.TransactionID),
			CustomerCode:  strings.TrimSpace(r.CustomerID),
			ProductCode:   strings.TrimSpace(r.ProductID),
			Date:          d,
			Quantity:      qty,
			UnitPrice:     price,
			Subtotal:      float64(qty) * price,
			Status:        strings.TrimSpace(r.Status),
		})
	}

	st.Rows = len(out)
	return out, st
}
