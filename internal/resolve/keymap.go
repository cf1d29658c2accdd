// Package resolve maps legacy natural keys to the surrogate ids the store
// generates.
//
// Surrogate ids are unknown until rows are inserted, so every entity goes
// through two phases: the loader inserts the rows built here, reads the
// generated ids back, and the join functions here recover the legacy key to
// id mapping. Derivation of orders and order items consumes those mappings;
// rows whose references did not resolve are dropped and counted rather than
// failing the run.
package resolve

import (
	"fmt"
	"math"
)

// KeyMap maps a legacy key to its surrogate id. It is partial: a key that
// failed to resolve is simply absent.
type KeyMap map[string]int64

// Lookup returns the surrogate id of key.
func (m KeyMap) Lookup(key string) (int64, bool) {
	id, ok := m[key]
	return id, ok
}

// idQueue hands out the surrogate ids read back for one join key in
// ascending order, so rows inserted with identical join keys pair with ids
// in insertion order.
type idQueue struct {
	ids  []int64
	next int
}

func (q *idQueue) pop() (int64, bool) {
	if q == nil || q.next >= len(q.ids) {
		return 0, false
	}
	id := q.ids[q.next]
	q.next++
	return id, true
}

// cents renders an amount at the two decimal places the store keeps.
func cents(v float64) string { return fmt.Sprintf("%.2f", roundCents(v)) }

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }
