package postgres

// schema creates the destination tables. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		customer_id SERIAL PRIMARY KEY,
		first_name VARCHAR(50) NOT NULL,
		last_name VARCHAR(50) NOT NULL,
		email VARCHAR(100) UNIQUE NOT NULL,
		phone VARCHAR(20),
		city VARCHAR(50),
		registration_date DATE
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		product_id SERIAL PRIMARY KEY,
		product_name VARCHAR(100) NOT NULL,
		category VARCHAR(50) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		stock_quantity INT DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		order_id SERIAL PRIMARY KEY,
		customer_id INT NOT NULL REFERENCES customers(customer_id),
		order_date DATE NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		status VARCHAR(20) DEFAULT 'Pending'
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_item_id SERIAL PRIMARY KEY,
		order_id INT NOT NULL REFERENCES orders(order_id),
		product_id INT NOT NULL REFERENCES products(product_id),
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		subtotal DECIMAL(10,2) NOT NULL
	)`,
}
