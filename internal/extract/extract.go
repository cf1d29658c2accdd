// Package extract turns the three raw CSV extracts into typed raw rows.
//
// Each extract has a fixed column set. A file that cannot be opened, does not
// parse as CSV, or lacks a required column is an extract failure; no cleaning
// happens here.
package extract

import (
	"context"
	"fmt"
	"io"

	"fleximart/internal/datasource/file"
	"fleximart/internal/domain"
	csvparser "fleximart/internal/parser/csv"
)

// Column sets of the three extracts.
var (
	CustomerColumns = []string{"customer_id", "first_name", "last_name", "email", "phone", "city", "registration_date"}
	ProductColumns  = []string{"product_id", "product_name", "category", "price", "stock_quantity"}
	SaleColumns     = []string{"transaction_id", "customer_id", "product_id", "transaction_date", "quantity", "unit_price", "status"}
)

// Source opens one raw extract. *file.Local satisfies it.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Extracts holds the raw rows of one run.
type Extracts struct {
	Customers []domain.RawCustomer
	Products  []domain.RawProduct
	Sales     []domain.RawSale
}

// Paths names the three extract files.
type Paths struct {
	Customers string
	Products  string
	Sales     string
}

// ReadAll reads the three extracts from local files, in the order
// customers, products, sales.
func ReadAll(ctx context.Context, p Paths) (*Extracts, error) {
	customers, err := Customers(ctx, file.NewLocal(p.Customers))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Customers, err)
	}
	products, err := Products(ctx, file.NewLocal(p.Products))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Products, err)
	}
	sales, err := Sales(ctx, file.NewLocal(p.Sales))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Sales, err)
	}
	return &Extracts{Customers: customers, Products: products, Sales: sales}, nil
}

// readTable opens src, parses it and checks the required columns. The
// source is closed before returning.
func readTable(ctx context.Context, src Source, cols []string) (*csvparser.Table, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	t, err := csvparser.ReadTable(rc)
	if err != nil {
		return nil, err
	}
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	return t, nil
}

// Customers reads customers_raw.csv.
func Customers(ctx context.Context, src Source) ([]domain.RawCustomer, error) {
	t, err := readTable(ctx, src, CustomerColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawCustomer, t.Len())
	for i := range out {
		out[i] = domain.RawCustomer{
			CustomerID:       t.Get(i, "customer_id"),
			FirstName:        t.Get(i, "first_name"),
			LastName:         t.Get(i, "last_name"),
			Email:            t.Get(i, "email"),
			Phone:            t.Get(i, "phone"),
			City:             t.Get(i, "city"),
			RegistrationDate: t.Get(i, "registration_date"),
		}
	}
	return out, nil
}

// Products reads products_raw.csv.
func Products(ctx context.Context, src Source) ([]domain.RawProduct, error) {
	t, err := readTable(ctx, src, ProductColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawProduct, t.Len())
	for i := range out {
		out[i] = domain.RawProduct{
			ProductID:     t.Get(i, "product_id"),
			ProductName:   t.Get(i, "product_name"),
			Category:      t.Get(i, "category"),
			Price:         t.Get(i, "price"),
			StockQuantity: t.Get(i, "stock_quantity"),
		}
	}
	return out, nil
}

// Sales reads sales_raw.csv.
func Sales(ctx context.Context, src Source) ([]domain.RawSale, error) {
	t, err := readTable(ctx, src, SaleColumns)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RawSale, t.Len())
	for i := range out {
		out[i] = domain.RawSale{
			TransactionID:   t.Get(i, "transaction_id"),
			CustomerID:      t.Get(i, "customer_id"),
			ProductID:       t.Get(i, "product_id"),
			TransactionDate: t.Get(i, "transaction_date"),
			Quantity:        t.Get(i, "quantity"),
			UnitPrice:       t.Get(i, "unit_price"),
			Status:          t.Get(i, "status"),
		}
	}
	return out, nil
}
