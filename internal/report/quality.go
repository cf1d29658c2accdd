package report

import (
	"sort"
	"time"

	"fleximart/internal/clean"
	"fleximart/internal/impute"
	"fleximart/internal/load"
	"fleximart/internal/storage"
)

// Title heads every data-quality report.
const Title = "DATA QUALITY REPORT - FlexiMart ETL"

// Run carries everything the data-quality report shows.
type Run struct {
	RunID     string
	Started   time.Time
	Inputs    []Input // files in extract order
	Customers clean.CustomerStats
	Products  clean.ProductStats
	Prices    impute.Stats
	Sales     clean.SaleStats
	Load      load.Result
	SkipTrail string         // path of the skipped-row trail, if written
	Skipped   map[string]int // dropped sale rows per reason
}

// Input is one extract file and its row count.
type Input struct {
	Name string
	Rows int
}

// Quality assembles the data-quality report for a completed run.
func Quality(run Run) *Report {
	r := New(Title)
	r.Header("Run timestamp", run.Started.Format("2006-01-02 15:04:05"))
	r.Header("Run id", run.RunID)

	in := r.Section("Records read")
	for _, f := range run.Inputs {
		in.Stat(f.Name, f.Rows)
	}

	r.Section("Customers cleaning").
		Stat("Duplicate rows removed", run.Customers.DuplicatesRemoved).
		Stat("Missing emails filled", run.Customers.MissingEmailsFilled).
		Stat("Repeated emails suffixed", run.Customers.EmailsSuffixed).
		Stat("Rows after cleaning", run.Customers.Rows)

	r.Section("Products cleaning").
		Stat("Duplicate rows removed", run.Products.DuplicatesRemoved).
		Stat("Missing prices filled", run.Prices.Filled).
		Stat("  from category median", run.Prices.CountBy(impute.FromCategory)).
		Stat("  from overall median", run.Prices.CountBy(impute.FromOverall)).
		Stat("  with 0", run.Prices.CountBy(impute.FromZero)).
		Stat("Missing stock filled with 0", run.Products.MissingStock).
		Stat("Rows after cleaning", run.Products.Rows)

	r.Section("Sales cleaning").
		Stat("Duplicate rows removed", run.Sales.DuplicatesRemoved).
		Stat("Rows dropped (missing customer_id/product_id)", run.Sales.DroppedMissingIDs).
		Stat("Rows dropped (unparsed dates)", run.Sales.DroppedBadDates).
		Stat("Rows after cleaning", run.Sales.Rows)

	ld := r.Section("Load results")
	for _, table := range []string{storage.TableCustomers, storage.TableProducts, storage.TableOrders, storage.TableOrderItems} {
		ld.Stat(table+" loaded", run.Load.Final[table])
	}

	notes := r.Section("Notes")
	notes.Note("Sales rows with missing customer_id/product_id were dropped to satisfy FK constraints.")
	notes.Note("Sales rows with unparseable dates were dropped because orders.order_date is NOT NULL.")
	notes.Note("Dates like 03/12/2024 are read month-first; only a first component above 12 is read day-first.")
	notes.Note("Missing customer emails were generated as placeholders to satisfy NOT NULL + UNIQUE constraint.")
	notes.Note("Missing prices filled using category median (fallback overall median, then 0).")
	notes.Note("Unresolved customers dropped during order load (safety): %d", run.Load.Orders.DroppedUnresolvedCustomer)
	notes.Note("Unresolved orders dropped during item load (safety): %d", run.Load.Items.DroppedUnresolvedOrder)
	notes.Note("Unresolved products dropped during item load (safety): %d", run.Load.Items.DroppedUnresolvedProduct)
	notes.Note("Customers not matched by email on read-back (safety): %d", run.Load.UnresolvedCustomers)
	notes.Note("Orders not matched on read-back (safety): %d", run.Load.UnresolvedOrders)
	if run.Load.Products.Ambiguous > 0 {
		notes.Note("Products sharing name, category and price (ambiguous keys, paired in load order): %d", run.Load.Products.Ambiguous)
	}
	for _, reason := range sortedKeys(run.Skipped) {
		notes.Note("Dropped sale rows (%s): %d", reason, run.Skipped[reason])
	}
	if run.SkipTrail != "" {
		notes.Note("Dropped sale rows written to %s", run.SkipTrail)
	}
	return r
}

func sortedKeys(m map[string]int) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
