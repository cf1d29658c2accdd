package clean

import (
	"strconv"
	"strings"

	"fleximart/internal/domain"
	"fleximart/internal/normalize"
	"fleximart/internal/transformer/builtin"
)

// CustomerStats are the counts produced by Customers.
type CustomerStats struct {
	Read                int // rows in the extract
	DuplicatesRemoved   int // exact duplicate rows dropped
	MissingEmailsFilled int // blank emails replaced by placeholders
	EmailsSuffixed      int // repeated emails rewritten to local+n@domain
	Rows                int // rows after cleaning
}

// Customers cleans the raw customer extract.
//
// Names are trimmed, cities title-cased, phones and registration dates
// normalized. Blank emails are replaced with a placeholder derived from the
// name and legacy code; every other email is lower-cased and trimmed. A
// final ordered pass makes every email unique (see UniqueEmails).
func Customers(raw []domain.RawCustomer) ([]domain.Customer, CustomerStats) {
	st := CustomerStats{Read: len(raw)}

	rows, removed := builtin.DedupExact(raw, domain.RawCustomer.Fields)
	st.DuplicatesRemoved = removed

	out := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		c := domain.Customer{
			Code:      strings.TrimSpace(r.CustomerID),
			FirstName: strings.TrimSpace(r.FirstName),
			LastName:  strings.TrimSpace(r.LastName),
			City:      normalize.Title(r.City),
		}
		if p, ok := normalize.Phone(r.Phone); ok {
			c.Phone = &p
		}
		if d, ok := normalize.ParseMixedDate(r.RegistrationDate); ok {
			c.RegistrationDate = &d
		}
		if isBlank(r.Email) {
			c.Email = normalize.PlaceholderEmail(c.FirstName, c.LastName, c.Code)
			st.MissingEmailsFilled++
		} else {
			c.Email = normalize.Email(r.Email)
		}
		out = append(out, c)
	}

	st.EmailsSuffixed = UniqueEmails(out)
	st.Rows = len(out)
	return out, st
}

// UniqueEmails rewrites, in place and in collection order, every email that
// was already used by an earlier customer to local+n@domain, where n counts
// the repeats of that email starting at 1. A candidate that equals any
// address in the collection, or one already handed out, is skipped by
// increasing n, so the first occurrence of an address is never rewritten.
// It returns the number of emails rewritten. Identical input always yields
// identical output.
func UniqueEmails(customers []domain.Customer) int {
	used := make(map[string]struct{}, len(customers))
	for _, c := range customers {
		used[c.Email] = struct{}{}
	}
	seen := make(map[string]struct{}, len(customers))
	repeats := make(map[string]int)
	rewritten := 0

	for i := range customers {
		e := customers[i].Email
		if _, dup := seen[e]; !dup {
			seen[e] = struct{}{}
			continue
		}
		n := repeats[e]
		var candidate string
		for {
			n++
			candidate = suffixEmail(e, n)
			if _, taken := used[candidate]; !taken {
				break
			}
		}
		repeats[e] = n
		used[candidate] = struct{}{}
		customers[i].Email = candidate
		rewritten++
	}
	return rewritten
}

// suffixEmail inserts +n before the domain. An address without '@' gets the
// suffix appended.
func suffixEmail(email string, n int) string {
	tag := "+" + strconv.Itoa(n)
	local, dom, ok := strings.Cut(email, "@")
	if !ok {
		return email + tag
	}
	return local + tag + "@" + dom
}
