package resolve

import (
	"fmt"

	"fleximart/internal/domain"
	"fleximart/internal/normalize"
	"fleximart/internal/storage"
)

// CustomerColumns are the inserted customer columns, in row order.
var CustomerColumns = []string{"first_name", "last_name", "email", "phone", "city", "registration_date"}

// CustomerReadColumns are read back after insert.
var CustomerReadColumns = []string{"customer_id", "email"}

// CustomerRows builds insert rows aligned to CustomerColumns.
func CustomerRows(cs []domain.Customer) [][]any {
	rows := make([][]any, len(cs))
	for i, c := range cs {
		var phone, reg any
		if c.Phone != nil {
			phone = *c.Phone
		}
		if c.RegistrationDate != nil {
			reg = *c.RegistrationDate
		}
		rows[i] = []any{c.FirstName, c.LastName, c.Email, phone, nullable(c.City), reg}
	}
	return rows
}

// Customers joins the stored (customer_id, email) rows to the cleaned
// customers on normalized email and returns legacy code to customer_id.
// It also returns how many customers did not match.
func Customers(cs []domain.Customer, stored [][]any) (KeyMap, int, error) {
	byEmail := make(map[string]int64, len(stored))
	for _, r := range stored {
		id, err := storage.AsInt64(r[0])
		if err != nil {
			return nil, 0, fmt.Errorf("resolve customers: customer_id: %w", err)
		}
		byEmail[normalize.Email(storage.AsString(r[1]))] = id
	}

	m := make(KeyMap, len(cs))
	unresolved := 0
	for _, c := range cs {
		id, ok := byEmail[normalize.Email(c.Email)]
		if !ok {
			unresolved++
			continue
		}
		m[c.Code] = id
	}
	return m, unresolved, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
