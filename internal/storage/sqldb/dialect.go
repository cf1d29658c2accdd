package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"fleximart/internal/domain"
)

// Dialect captures what differs between the database/sql engines.
type Dialect struct {
	Kind   string // storage kind, e.g. "sqlite"
	Driver string // database/sql driver name

	placeholder func(n int) string // n is 1-based
	quote       func(id string) string
	truncate    func(table string) []string
	bind        func(v any) any
	setup       func(ctx context.Context, db *sql.DB) error
	schema      []string
}

// SQLite runs on modernc.org/sqlite. DELETE restarts INTEGER PRIMARY KEY
// numbering once the table is empty, so no reseed is needed.
var SQLite = Dialect{
	Kind:        "sqlite",
	Driver:      "sqlite",
	placeholder: func(int) string { return "?" },
	quote:       doubleQuote,
	truncate: func(table string) []string {
		return []string{"DELETE FROM " + doubleQuote(table)}
	},
	bind: func(v any) any {
		if t, ok := v.(time.Time); ok {
			return t.Format(domain.DateLayout)
		}
		return v
	},
	setup: func(ctx context.Context, db *sql.DB) error {
		// :memory: databases live and die with their connection.
		db.SetMaxOpenConns(1)
		_, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON")
		return err
	},
	schema: []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id INTEGER PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT,
			city TEXT,
			registration_date DATE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id INTEGER PRIMARY KEY,
			product_name TEXT NOT NULL,
			category TEXT NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			stock_quantity INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL REFERENCES customers(customer_id),
			order_date DATE NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status TEXT DEFAULT 'Pending'
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			order_item_id INTEGER PRIMARY KEY,
			order_id INTEGER NOT NULL REFERENCES orders(order_id),
			product_id INTEGER NOT NULL REFERENCES products(product_id),
			quantity INTEGER NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL
		)`,
	},
}

// SQLServer runs on github.com/microsoft/go-mssqldb.
var SQLServer = Dialect{
	Kind:        "sqlserver",
	Driver:      "sqlserver",
	placeholder: func(n int) string { return fmt.Sprintf("@p%d", n) },
	quote:       bracketQuote,
	truncate: func(table string) []string {
		// CHECKIDENT on a never-used table would make the next id 0, so
		// reseed only tables that have issued an identity.
		lit := strings.ReplaceAll(table, "'", "''")
		return []string{
			"DELETE FROM " + bracketQuote(table),
			fmt.Sprintf("IF EXISTS (SELECT 1 FROM sys.identity_columns WHERE object_id = OBJECT_ID(N'%s') AND last_value IS NOT NULL) DBCC CHECKIDENT (N'%s', RESEED, 0)", lit, lit),
		}
	},
	bind:  func(v any) any { return v },
	setup: func(context.Context, *sql.DB) error { return nil },
	schema: []string{
		`IF OBJECT_ID(N'customers', N'U') IS NULL CREATE TABLE customers (
			customer_id INT IDENTITY(1,1) PRIMARY KEY,
			first_name NVARCHAR(50) NOT NULL,
			last_name NVARCHAR(50) NOT NULL,
			email NVARCHAR(100) NOT NULL UNIQUE,
			phone NVARCHAR(20) NULL,
			city NVARCHAR(50) NULL,
			registration_date DATE NULL
		)`,
		`IF OBJECT_ID(N'products', N'U') IS NULL CREATE TABLE products (
			product_id INT IDENTITY(1,1) PRIMARY KEY,
			product_name NVARCHAR(100) NOT NULL,
			category NVARCHAR(50) NOT NULL,
			price DECIMAL(10,2) NOT NULL,
			stock_quantity INT DEFAULT 0
		)`,
		`IF OBJECT_ID(N'orders', N'U') IS NULL CREATE TABLE orders (
			order_id INT IDENTITY(1,1) PRIMARY KEY,
			customer_id INT NOT NULL REFERENCES customers(customer_id),
			order_date DATE NOT NULL,
			total_amount DECIMAL(10,2) NOT NULL,
			status NVARCHAR(20) DEFAULT 'Pending'
		)`,
		`IF OBJECT_ID(N'order_items', N'U') IS NULL CREATE TABLE order_items (
			order_item_id INT IDENTITY(1,1) PRIMARY KEY,
			order_id INT NOT NULL REFERENCES orders(order_id),
			product_id INT NOT NULL REFERENCES products(product_id),
			quantity INT NOT NULL,
			unit_price DECIMAL(10,2) NOT NULL,
			subtotal DECIMAL(10,2) NOT NULL
		)`,
	},
}

func doubleQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

func bracketQuote(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }

// insertSQL builds INSERT INTO <table> (<cols>) VALUES (<placeholders>).
func (d Dialect) insertSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	ph := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = d.quote(c)
		ph[i] = d.placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.quote(table), strings.Join(cols, ", "), strings.Join(ph, ", "))
}

// selectSQL builds SELECT <cols> FROM <table> ORDER BY <first col>.
func (d Dialect) selectSQL(table string, columns []string) string {
	cols := make([]string, len(columns))
	for i, c := range columns {
		cols[i] = d.quote(c)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), d.quote(table), cols[0])
}
