package sqldb

import (
	"context"
	"strings"
	"testing"
	"time"

	"fleximart/internal/storage"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, SQLite, ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return s
}

var customerCols = []string{"first_name", "last_name", "email", "phone", "city", "registration_date"}

func TestRegistered(t *testing.T) {
	t.Parallel()
	kinds := strings.Join(storage.ListKinds(), ",")
	for _, k := range []string{"sqlite", "sqlserver"} {
		if !strings.Contains(kinds, k) {
			t.Fatalf("kind %q not registered: %s", k, kinds)
		}
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), SQLite, "  "); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestSQLite_CopyReadCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openMemory(t)
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	reg := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{"Rahul", "Sharma", "rahul@x.com", "+91-9876543210", "Bangalore", reg},
		{"Priya", "Patel", "priya@x.com", nil, "Mumbai", nil},
	}
	n, err := tx.CopyInto(ctx, storage.TableCustomers, customerCols, rows)
	if err != nil || n != 2 {
		t.Fatalf("CopyInto = %d, %v", n, err)
	}

	got, err := tx.ReadRows(ctx, storage.TableCustomers, []string{"customer_id", "email", "registration_date", "phone"})
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("rows = %d, want 2", len(got))
	}
	for i, wantEmail := range []string{"rahul@x.com", "priya@x.com"} {
		id, err := storage.AsInt64(got[i][0])
		if err != nil || id != int64(i+1) {
			t.Fatalf("row %d id = %v (%v)", i, got[i][0], err)
		}
		if storage.AsString(got[i][1]) != wantEmail {
			t.Fatalf("row %d email = %v", i, got[i][1])
		}
	}
	d, err := storage.AsDate(got[0][2])
	if err != nil || !d.Equal(reg) {
		t.Fatalf("registration_date = %v (%v)", got[0][2], err)
	}
	if got[1][2] != nil || got[1][3] != nil {
		t.Fatalf("nulls not preserved: %#v", got[1])
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback after commit: %v", err)
	}

	c, err := s.CountRows(ctx, storage.TableCustomers)
	if err != nil || c != 2 {
		t.Fatalf("CountRows = %d, %v", c, err)
	}
}

func TestSQLite_RollbackDiscards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	if _, err := tx.CopyInto(ctx, storage.TableCustomers, customerCols,
		[][]any{{"A", "B", "a@x", nil, "C", nil}}); err != nil {
		t.Fatalf("CopyInto: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("Rollback: %v", err)
	}
	if c, _ := s.CountRows(ctx, storage.TableCustomers); c != 0 {
		t.Fatalf("rows after rollback = %d", c)
	}
}

func TestSQLite_TruncateRestartsIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openMemory(t)

	for run := 0; run < 2; run++ {
		tx, err := s.BeginTx(ctx)
		if err != nil {
			t.Fatalf("BeginTx: %v", err)
		}
		for _, table := range storage.TruncateOrder {
			if err := tx.Truncate(ctx, table); err != nil {
				t.Fatalf("Truncate %s: %v", table, err)
			}
		}
		if _, err := tx.CopyInto(ctx, storage.TableCustomers, customerCols,
			[][]any{{"A", "B", "a@x", nil, "C", nil}}); err != nil {
			t.Fatalf("CopyInto: %v", err)
		}
		got, err := tx.ReadRows(ctx, storage.TableCustomers, []string{"customer_id"})
		if err != nil {
			t.Fatalf("ReadRows: %v", err)
		}
		if id, _ := storage.AsInt64(got[0][0]); id != 1 {
			t.Fatalf("run %d: id = %v, want 1", run, got[0][0])
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("Commit: %v", err)
		}
	}
}

func TestSQLite_ForeignKeysEnforced(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openMemory(t)

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer tx.Rollback(ctx)
	_, err = tx.CopyInto(ctx, storage.TableOrders,
		[]string{"customer_id", "order_date", "total_amount", "status"},
		[][]any{{int64(99), time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 10.0, "Completed"}})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestCopyInto_RowWidthMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openMemory(t)
	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx: %v", err)
	}
	defer tx.Rollback(ctx)
	if _, err := tx.CopyInto(ctx, storage.TableCustomers, customerCols, [][]any{{"A"}}); err == nil {
		t.Fatal("expected row length error")
	}
}

func TestDialectSQL(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"sqlite insert", SQLite.insertSQL("orders", []string{"customer_id", "status"}),
			`INSERT INTO "orders" ("customer_id", "status") VALUES (?, ?)`},
		{"sqlserver insert", SQLServer.insertSQL("orders", []string{"customer_id", "status"}),
			`INSERT INTO [orders] ([customer_id], [status]) VALUES (@p1, @p2)`},
		{"sqlite select", SQLite.selectSQL("products", []string{"product_id", "price"}),
			`SELECT "product_id", "price" FROM "products" ORDER BY "product_id"`},
		{"sqlserver truncate", SQLServer.truncate("orders")[0], `DELETE FROM [orders]`},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("%s:\n got  %s\n want %s", tc.name, tc.got, tc.want)
		}
	}
	if !strings.Contains(SQLServer.truncate("orders")[1], "DBCC CHECKIDENT (N'orders', RESEED, 0)") {
		t.Errorf("sqlserver reseed = %s", SQLServer.truncate("orders")[1])
	}
}
