package storage

import (
	"context"
	"testing"
	"time"
)

// fakeStore is a minimal Store implementation for registry tests.
type fakeStore struct{ closed bool }

func (f *fakeStore) Ping(context.Context) error                       { return nil }
func (f *fakeStore) BeginTx(context.Context) (Tx, error)              { return nil, nil }
func (f *fakeStore) CountRows(context.Context, string) (int64, error) { return 0, nil }
func (f *fakeStore) EnsureSchema(context.Context) error               { return nil }
func (f *fakeStore) Close(context.Context) error                      { f.closed = true; return nil }

// TestRegisterAndNew_Success verifies that registering a backend enables
// New() to return the corresponding store.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		return &fakeStore{}, nil
	})

	s, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if s == nil {
		t.Fatalf("New returned nil store")
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage.kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind replaces the
// previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	calls := 0
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		calls += 100
		return &fakeStore{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Store, error) {
		calls++
		return &fakeStore{}, nil
	})
	if _, err := New(context.Background(), Config{Kind: kind}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d; want only the second factory to run", calls)
	}
}

func TestTruncateOrder_ChildrenFirst(t *testing.T) {
	t.Parallel()

	want := []string{"order_items", "orders", "products", "customers"}
	for i, w := range want {
		if TruncateOrder[i] != w {
			t.Fatalf("TruncateOrder = %v; want %v", TruncateOrder, want)
		}
	}
}

func TestValueConversions(t *testing.T) {
	t.Parallel()

	for _, v := range []any{int64(7), int32(7), 7, []byte("7"), "7", float64(7)} {
		if n, err := AsInt64(v); err != nil || n != 7 {
			t.Fatalf("AsInt64(%#v) = (%d,%v)", v, n, err)
		}
	}
	if _, err := AsInt64(true); err == nil {
		t.Fatalf("AsInt64(bool) should fail")
	}

	for _, v := range []any{12.5, float32(12.5), []byte("12.50"), " 12.5 "} {
		if f, err := AsFloat64(v); err != nil || f != 12.5 {
			t.Fatalf("AsFloat64(%#v) = (%v,%v)", v, f, err)
		}
	}

	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	for _, v := range []any{
		"2024-01-15",
		[]byte("2024-01-15"),
		"2024-01-15T00:00:00Z",
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.FixedZone("X", 3600)),
	} {
		if d, err := AsDate(v); err != nil || !d.Equal(want) {
			t.Fatalf("AsDate(%#v) = (%v,%v)", v, d, err)
		}
	}
	if _, err := AsDate("15th Jan"); err == nil {
		t.Fatalf("AsDate(garbage) should fail")
	}

	if AsString(nil) != "" || AsString([]byte("x")) != "x" || AsString(3) != "3" {
		t.Fatalf("AsString conversions wrong")
	}
}
