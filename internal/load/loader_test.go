package load

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleximart/internal/domain"
	"fleximart/internal/storage"
	"fleximart/internal/storage/sqldb"
)

func memoryStore(t *testing.T) storage.Store {
	t.Helper()
	ctx := context.Background()
	s, err := sqldb.Open(ctx, sqldb.SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

func p(v float64) *float64 { return &v }

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleInput() Input {
	return Input{
		Customers: []domain.Customer{
			{Code: "C001", FirstName: "Rahul", LastName: "Sharma", Email: "rahul@x.com", City: "Bangalore"},
			{Code: "C002", FirstName: "Priya", LastName: "Patel", Email: "priya@x.com"},
		},
		Products: []domain.Product{
			{Code: "P001", Name: "Laptop", Category: "Electronics", Price: p(45999), StockQuantity: 5},
			{Code: "P002", Name: "Tea", Category: "Groceries", Price: p(250)},
		},
		Sales: []domain.Sale{
			{TransactionID: "T1", CustomerCode: "C001", ProductCode: "P001", Date: day(15), Quantity: 1, UnitPrice: 45999, Subtotal: 45999, Status: "Completed"},
			{TransactionID: "T1", CustomerCode: "C001", ProductCode: "P002", Date: day(15), Quantity: 2, UnitPrice: 250, Subtotal: 500, Status: "Completed"},
			{TransactionID: "T2", CustomerCode: "C002", ProductCode: "P002", Date: day(16), Quantity: 1, UnitPrice: 250, Subtotal: 250, Status: "Pending"},
			{TransactionID: "T3", CustomerCode: "C404", ProductCode: "P002", Date: day(17), Quantity: 1, UnitPrice: 250, Subtotal: 250, Status: "Pending"},
		},
	}
}

func TestLoader_Run(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memoryStore(t)
	l := &Loader{Store: s, Job: "test"}

	res, err := l.Run(ctx, sampleInput())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := map[string]int64{
		storage.TableCustomers:  2,
		storage.TableProducts:   2,
		storage.TableOrders:     2,
		storage.TableOrderItems: 3,
	}
	for table, n := range want {
		if res.Final[table] != n {
			t.Errorf("final %s = %d, want %d", table, res.Final[table], n)
		}
		if res.Inserted[table] != n {
			t.Errorf("inserted %s = %d, want %d", table, res.Inserted[table], n)
		}
	}
	if res.Orders.DroppedUnresolvedCustomer != 1 || res.Items.DroppedUnresolvedOrder != 1 {
		t.Fatalf("safety nets: orders=%+v items=%+v", res.Orders, res.Items)
	}
	if res.UnresolvedCustomers != 0 || res.UnresolvedOrders != 0 || res.Products.Unresolved != 0 {
		t.Fatalf("unexpected unresolved: %+v", res)
	}
}

func TestLoader_RerunReplacesContents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memoryStore(t)
	l := &Loader{Store: s}

	for i := 0; i < 2; i++ {
		res, err := l.Run(ctx, sampleInput())
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if res.Final[storage.TableCustomers] != 2 || res.Final[storage.TableOrderItems] != 3 {
			t.Fatalf("run %d final = %v", i, res.Final)
		}
	}
}

// failingStore fails CopyInto for one table.
type failingStore struct {
	storage.Store
	table string
}

func (f failingStore) BeginTx(ctx context.Context) (storage.Tx, error) {
	tx, err := f.Store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return failingTx{Tx: tx, table: f.table}, nil
}

type failingTx struct {
	storage.Tx
	table string
}

var errInjected = errors.New("injected failure")

func (f failingTx) CopyInto(ctx context.Context, table string, cols []string, rows [][]any) (int64, error) {
	if table == f.table {
		return 0, errInjected
	}
	return f.Tx.CopyInto(ctx, table, cols, rows)
}

func TestLoader_FailureRollsBackEverything(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := memoryStore(t)

	if _, err := (&Loader{Store: s}).Run(ctx, sampleInput()); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	next := sampleInput()
	next.Customers = next.Customers[:1]
	_, err := (&Loader{Store: failingStore{Store: s, table: storage.TableOrderItems}}).Run(ctx, next)
	if !errors.Is(err, errInjected) {
		t.Fatalf("Run err = %v, want injected failure", err)
	}

	// The truncate and every insert of the failed run are gone.
	for table, want := range map[string]int64{
		storage.TableCustomers:  2,
		storage.TableOrderItems: 3,
	} {
		n, err := s.CountRows(ctx, table)
		if err != nil || n != want {
			t.Fatalf("%s rows = %d (%v), want %d", table, n, err, want)
		}
	}
}

type pingFailStore struct{ storage.Store }

func (pingFailStore) Ping(context.Context) error { return errors.New("unreachable") }

func TestLoader_PingFailureStopsBeforeTx(t *testing.T) {
	t.Parallel()
	_, err := (&Loader{Store: pingFailStore{}}).Run(context.Background(), sampleInput())
	if err == nil {
		t.Fatal("expected ping error")
	}
}
