// Package pipeline runs one reconciliation: extract, clean, impute, load
// with key resolution, and the data-quality report.
//
// Stages run strictly in sequence on one goroutine. Fatal errors are
// classified with ErrPrecondition, ErrExtract and ErrStore; row-level
// defects are never fatal and surface only as report statistics.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"fleximart/internal/clean"
	"fleximart/internal/datasource/file"
	"fleximart/internal/domain"
	"fleximart/internal/extract"
	"fleximart/internal/impute"
	"fleximart/internal/load"
	"fleximart/internal/metrics"
	"fleximart/internal/report"
	"fleximart/internal/skiplog"
	"fleximart/internal/storage"
)

// Error classes of a failed run.
var (
	ErrPrecondition = errors.New("precondition failed")
	ErrExtract      = errors.New("extract failed")
	ErrStore        = errors.New("store failed")
)

// Stage names used for metrics.
const (
	StageExtract        = "extract"
	StageCleanCustomers = "clean_customers"
	StageCleanProducts  = "clean_products"
	StageImputePrices   = "impute_prices"
	StageCleanSales     = "clean_sales"
	StageLoad           = "load"
	StageReport         = "report"
)

// Options configure one run.
type Options struct {
	Paths      extract.Paths
	ReportPath string
	SkippedDir string // empty disables the skipped-row trail
	InitSchema bool
	Storage    storage.Config
	Job        string
	RunID      string

	// OpenStore defaults to storage.New.
	OpenStore func(ctx context.Context, cfg storage.Config) (storage.Store, error)
	// Now defaults to time.Now.
	Now func() time.Time
}

// CheckInputs verifies that every extract file exists.
func CheckInputs(p extract.Paths) error {
	if err := file.EnsureExist(p.Customers, p.Products, p.Sales); err != nil {
		return fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	return nil
}

// Run executes the pipeline and returns what the report shows. The report
// is written only when the load committed.
func Run(ctx context.Context, opts Options) (*report.Run, error) {
	if opts.OpenStore == nil {
		opts.OpenStore = storage.New
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	run := &report.Run{RunID: opts.RunID, Started: opts.Now()}
	log.Printf("pipeline: start run_id=%s store=%s", opts.RunID, opts.Storage.Kind)

	if err := CheckInputs(opts.Paths); err != nil {
		return nil, err
	}

	var raw *extract.Extracts
	err := metrics.Time(opts.Job, StageExtract, func() error {
		var err error
		raw, err = extract.ReadAll(ctx, opts.Paths)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	run.Inputs = []report.Input{
		{Name: "customers_raw.csv", Rows: len(raw.Customers)},
		{Name: "products_raw.csv", Rows: len(raw.Products)},
		{Name: "sales_raw.csv", Rows: len(raw.Sales)},
	}
	for _, in := range run.Inputs {
		log.Printf("extract: file=%s rows=%d", in.Name, in.Rows)
	}
	metrics.RecordRow(opts.Job, "read_customers", len(raw.Customers))
	metrics.RecordRow(opts.Job, "read_products", len(raw.Products))
	metrics.RecordRow(opts.Job, "read_sales", len(raw.Sales))

	in := cleanStages(opts, raw, run)

	skips, err := skiplog.New(opts.SkippedDir)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := skips.Close(); err != nil {
			log.Printf("skiplog: close error=%v", err)
		}
	}()
	for _, d := range run.Sales.Dropped {
		if err := skips.Add(d.Reason, d.Row.Fields()); err != nil {
			return nil, err
		}
	}

	err = metrics.Time(opts.Job, StageLoad, func() error {
		res, err := loadStore(ctx, opts, in)
		run.Load = res
		return err
	})
	if err != nil {
		log.Printf("loader: error=%v", err)
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	for _, d := range run.Load.Items.Dropped {
		if err := skips.Add(d.Reason, saleFields(d.Sale)); err != nil {
			return nil, err
		}
	}
	metrics.RecordRow(opts.Job, "dropped_unresolved_customer", run.Load.Orders.DroppedUnresolvedCustomer)
	metrics.RecordRow(opts.Job, "dropped_unresolved_order", run.Load.Items.DroppedUnresolvedOrder)
	metrics.RecordRow(opts.Job, "dropped_unresolved_product", run.Load.Items.DroppedUnresolvedProduct)
	metrics.RecordRow(opts.Job, "ambiguous_products", run.Load.Products.Ambiguous)
	run.SkipTrail = skips.Path()
	run.Skipped = make(map[string]int, len(skips.Reasons()))
	for _, reason := range skips.Reasons() {
		run.Skipped[reason] = skips.Count(reason)
		metrics.RecordRow(opts.Job, "skipped_"+reason, skips.Count(reason))
	}

	err = metrics.Time(opts.Job, StageReport, func() error {
		return report.Quality(*run).WriteFile(opts.ReportPath)
	})
	if err != nil {
		return nil, err
	}
	log.Printf("pipeline: done run_id=%s skipped=%d elapsed=%s", opts.RunID, skips.Total(), opts.Now().Sub(run.Started))
	return run, nil
}

// cleanStages runs the cleaning and imputation stages and records their stats
// on run.
func cleanStages(opts Options, raw *extract.Extracts, run *report.Run) load.Input {
	var in load.Input

	_ = metrics.Time(opts.Job, StageCleanCustomers, func() error {
		in.Customers, run.Customers = clean.Customers(raw.Customers)
		return nil
	})
	log.Printf("clean: entity=customers duplicates_removed=%d missing_emails_filled=%d emails_suffixed=%d rows=%d",
		run.Customers.DuplicatesRemoved, run.Customers.MissingEmailsFilled, run.Customers.EmailsSuffixed, run.Customers.Rows)
	metrics.RecordRow(opts.Job, "duplicate_customers", run.Customers.DuplicatesRemoved)
	metrics.RecordRow(opts.Job, "placeholder_emails", run.Customers.MissingEmailsFilled)

	var products []domain.Product
	_ = metrics.Time(opts.Job, StageCleanProducts, func() error {
		products, run.Products = clean.Products(raw.Products)
		return nil
	})
	log.Printf("clean: entity=products duplicates_removed=%d missing_prices=%d missing_stock=%d rows=%d",
		run.Products.DuplicatesRemoved, run.Products.MissingPrices, run.Products.MissingStock, run.Products.Rows)
	metrics.RecordRow(opts.Job, "duplicate_products", run.Products.DuplicatesRemoved)

	_ = metrics.Time(opts.Job, StageImputePrices, func() error {
		in.Products, run.Prices = impute.Prices(products)
		return nil
	})
	for _, f := range run.Prices.Fills {
		log.Printf("impute: product=%s category=%s price=%.2f source=%s", f.Code, f.Category, f.Value, f.Source)
	}
	metrics.RecordRow(opts.Job, "imputed_prices", run.Prices.Filled)

	_ = metrics.Time(opts.Job, StageCleanSales, func() error {
		in.Sales, run.Sales = clean.Sales(raw.Sales)
		return nil
	})
	log.Printf("clean: entity=sales duplicates_removed=%d dropped_missing_ids=%d dropped_bad_dates=%d rows=%d",
		run.Sales.DuplicatesRemoved, run.Sales.DroppedMissingIDs, run.Sales.DroppedBadDates, run.Sales.Rows)
	metrics.RecordRow(opts.Job, "duplicate_sales", run.Sales.DuplicatesRemoved)
	metrics.RecordRow(opts.Job, "dropped_missing_ids", run.Sales.DroppedMissingIDs)
	metrics.RecordRow(opts.Job, "dropped_bad_dates", run.Sales.DroppedBadDates)
	return in
}

// loadStore opens the store, optionally creates the schema, and runs the
// load transaction. The store is closed on every path.
func loadStore(ctx context.Context, opts Options, in load.Input) (load.Result, error) {
	s, err := opts.OpenStore(ctx, opts.Storage)
	if err != nil {
		return load.Result{}, err
	}
	defer func() {
		if err := s.Close(ctx); err != nil {
			log.Printf("storage: close error=%v", err)
		}
	}()
	if opts.InitSchema {
		if err := s.EnsureSchema(ctx); err != nil {
			return load.Result{}, err
		}
	}
	l := &load.Loader{Store: s, Job: opts.Job}
	return l.Run(ctx, in)
}

func saleFields(s domain.Sale) []string {
	return []string{
		s.TransactionID,
		s.CustomerCode,
		s.ProductCode,
		s.Date.Format(domain.DateLayout),
		strconv.FormatInt(s.Quantity, 10),
		strconv.FormatFloat(s.UnitPrice, 'f', -1, 64),
		s.Status,
	}
}
