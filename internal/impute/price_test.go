package impute

import (
	"testing"

	"fleximart/internal/domain"
)

func ptr(f float64) *float64 { return &f }

func TestMedian(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     []float64
		want   float64
		wantOK bool
	}{
		{nil, 0, false},
		{[]float64{5}, 5, true},
		{[]float64{300, 200}, 250, true},
		{[]float64{3, 1, 2}, 2, true},
		{[]float64{4, 1, 3, 2}, 2.5, true},
	}
	for _, tc := range tests {
		got, ok := Median(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("Median(%v) = (%v,%v); want (%v,%v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}

	in := []float64{3, 1, 2}
	Median(in)
	if in[0] != 3 || in[1] != 1 {
		t.Fatalf("Median mutated its input: %v", in)
	}
}

// TestPrices checks the category -> overall -> zero precedence.
func TestPrices(t *testing.T) {
	t.Parallel()

	in := []domain.Product{
		{Code: "P1", Category: "Electronics", Price: ptr(200)},
		{Code: "P2", Category: "Electronics", Price: ptr(300)},
		// Category median 250.
		{Code: "P3", Category: "Electronics"},
		// No fashion prices: overall median.
		{Code: "P4", Category: "Fashion"},
		{Code: "P5", Category: "Groceries", Price: ptr(50)},
	}
	out, st := Prices(in)

	if st.Filled != 2 {
		t.Fatalf("filled = %d; want 2", st.Filled)
	}
	if *out[2].Price != 250 {
		t.Fatalf("P3 price = %v; want 250", *out[2].Price)
	}
	if *out[3].Price != 200 {
		t.Fatalf("P4 price = %v; want overall median 200", *out[3].Price)
	}
	if st.CountBy(FromCategory) != 1 || st.CountBy(FromOverall) != 1 || st.CountBy(FromZero) != 0 {
		t.Fatalf("fills = %+v", st.Fills)
	}
	if in[2].Price != nil {
		t.Fatalf("input mutated")
	}
	for _, p := range out {
		if p.Price == nil {
			t.Fatalf("product %s left without a price", p.Code)
		}
	}
}

func TestPrices_AllMissing(t *testing.T) {
	t.Parallel()

	out, st := Prices([]domain.Product{{Code: "P1", Category: "A"}, {Code: "P2", Category: "B"}})
	if st.Filled != 2 || st.CountBy(FromZero) != 2 {
		t.Fatalf("stats = %+v", st)
	}
	for _, p := range out {
		if p.Price == nil || *p.Price != 0 {
			t.Fatalf("product %s price = %v; want 0", p.Code, p.Price)
		}
	}
}

func TestPrices_NoneMissing(t *testing.T) {
	t.Parallel()

	out, st := Prices([]domain.Product{{Code: "P1", Price: ptr(1)}})
	if st.Filled != 0 || len(st.Fills) != 0 || *out[0].Price != 1 {
		t.Fatalf("unexpected fill: %+v", st)
	}
}
