// Package impute fills missing product prices from category and global
// statistics.
package impute

import (
	"sort"

	"fleximart/internal/domain"
)

// Source names where an imputed price came from.
type Source string

const (
	FromCategory Source = "category_median"
	FromOverall  Source = "overall_median"
	FromZero     Source = "zero"
)

// Fill records one imputed price.
type Fill struct {
	Code     string
	Category string
	Value    float64
	Source   Source
}

// Stats summarizes a Prices run.
type Stats struct {
	Filled int
	Fills  []Fill
}

// CountBy returns how many fills came from src.
func (s Stats) CountBy(src Source) int {
	n := 0
	for _, f := range s.Fills {
		if f.Source == src {
			n++
		}
	}
	return n
}

// Prices returns a copy of products in which every nil price is filled with,
// in order of precedence: the median of the known prices in the product's
// category, the median of all known prices, or 0.
//
// Medians ignore missing prices. A category median is undefined exactly when
// every product of that category lacks a price, so the fallback is decided
// per row, and each median is computed only when first needed.
func Prices(products []domain.Product) ([]domain.Product, Stats) {
	out := make([]domain.Product, len(products))
	copy(out, products)

	m := newMedians(products)
	var st Stats
	for i := range out {
		if out[i].Price != nil {
			continue
		}
		v, src := 0.0, FromZero
		if cm, ok := m.category(out[i].Category); ok {
			v, src = cm, FromCategory
		} else if om, ok := m.overall(); ok {
			v, src = om, FromOverall
		}
		price := v
		out[i].Price = &price
		st.Filled++
		st.Fills = append(st.Fills, Fill{Code: out[i].Code, Category: out[i].Category, Value: v, Source: src})
	}
	return out, st
}

// medians lazily computes and memoizes category and overall medians over
// the known prices of the input collection.
type medians struct {
	byCategory map[string][]float64
	all        []float64

	catMemo    map[string]medianResult
	overallRes *medianResult
}

type medianResult struct {
	v  float64
	ok bool
}

func newMedians(products []domain.Product) *medians {
	m := &medians{byCategory: make(map[string][]float64), catMemo: make(map[string]medianResult)}
	for _, p := range products {
		if p.Price == nil {
			continue
		}
		m.byCategory[p.Category] = append(m.byCategory[p.Category], *p.Price)
		m.all = append(m.all, *p.Price)
	}
	return m
}

func (m *medians) category(c string) (float64, bool) {
	if r, ok := m.catMemo[c]; ok {
		return r.v, r.ok
	}
	v, ok := Median(m.byCategory[c])
	m.catMemo[c] = medianResult{v: v, ok: ok}
	return v, ok
}

func (m *medians) overall() (float64, bool) {
	if m.overallRes == nil {
		v, ok := Median(m.all)
		m.overallRes = &medianResult{v: v, ok: ok}
	}
	return m.overallRes.v, m.overallRes.ok
}

// Median returns the median of xs; for an even count it is the mean of the
// two middle values. It reports false for an empty slice. xs is not
// modified.
func Median(xs []float64) (float64, bool) {
	n := len(xs)
	if n == 0 {
		return 0, false
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	if n%2 == 1 {
		return s[n/2], true
	}
	return (s[n/2-1] + s[n/2]) / 2, true
}
