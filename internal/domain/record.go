// Package domain holds the business objects that move through the
// reconciliation pipeline: the raw extract rows, the cleaned working sets,
// and the rows written to the four destination tables.
package domain

import "time"

// DateLayout is the canonical date layout used for dates written to the
// store and for join keys built from dates.
const DateLayout = "2006-01-02"

// RawCustomer is one row of customers_raw.csv. Every field holds the cell
// exactly as extracted; an empty string means the cell was blank.
type RawCustomer struct {
	CustomerID       string // legacy natural key
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	City             string
	RegistrationDate string
}

// Fields returns the row in extract column order.
func (r RawCustomer) Fields() []string {
	return []string{r.CustomerID, r.FirstName, r.LastName, r.Email, r.Phone, r.City, r.RegistrationDate}
}

// RawProduct is one row of products_raw.csv.
type RawProduct struct {
	ProductID     string // legacy natural key
	ProductName   string
	Category      string
	Price         string
	StockQuantity string
}

// Fields returns the row in extract column order.
func (r RawProduct) Fields() []string {
	return []string{r.ProductID, r.ProductName, r.Category, r.Price, r.StockQuantity}
}

// RawSale is one row of sales_raw.csv. Several rows may share a
// TransactionID; together they form one order.
type RawSale struct {
	TransactionID   string
	CustomerID      string // legacy customer code
	ProductID       string // legacy product code
	TransactionDate string
	Quantity        string
	UnitPrice       string
	Status          string
}

// Fields returns the row in extract column order.
func (r RawSale) Fields() []string {
	return []string{r.TransactionID, r.CustomerID, r.ProductID, r.TransactionDate, r.Quantity, r.UnitPrice, r.Status}
}

// Customer is a cleaned customer. Email is always set and unique within a run.
type Customer struct {
	Code             string
	FirstName        string
	LastName         string
	Email            string
	Phone            *string
	City             string
	RegistrationDate *time.Time
}

// Product is a cleaned product. Price is nil only between cleaning and
// price imputation.
type Product struct {
	Code          string
	Name          string
	Category      string
	Price         *float64
	StockQuantity int64
}

// Sale is a cleaned sale line. Date is always valid and both legacy codes
// are non-blank.
type Sale struct {
	TransactionID string
	CustomerCode  string
	ProductCode   string
	Date          time.Time
	Quantity      int64
	UnitPrice     float64
	Subtotal      float64
	Status        string
}

// Order is one row of the orders table before its surrogate id is known.
type Order struct {
	TransactionID string
	CustomerID    int64
	OrderDate     time.Time
	TotalAmount   float64
	Status        string
}

// OrderItem is one row of the order_items table.
type OrderItem struct {
	OrderID   int64
	ProductID int64
	Quantity  int64
	UnitPrice float64
	Subtotal  float64
}
