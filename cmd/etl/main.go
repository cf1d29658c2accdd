// Command etl runs one FlexiMart reconciliation: it loads the three raw
// extracts into the destination store and writes the data-quality report.
//
// main stays tiny; run holds the wiring and takes its side effects through
// Deps so it can be tested without a database or a metrics endpoint.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"fleximart/internal/config"
	"fleximart/internal/extract"
	"fleximart/internal/metrics"
	"fleximart/internal/metrics/datadog"
	"fleximart/internal/metrics/prompush"
	"fleximart/internal/pipeline"
	"fleximart/internal/report"
	"fleximart/internal/runlog"

	// register every storage backend with the storage factory.
	_ "fleximart/internal/storage/all"
)

// Deps holds the boundaries run crosses.
type Deps struct {
	NewRunID       func() string
	OpenLog        func(path, runID string) (func() error, error)
	NewPushgateway func(job, url string) (metrics.Backend, error)
	NewDatadog     func(cfg datadog.Config) (metrics.Backend, error)
	Run            func(ctx context.Context, opts pipeline.Options) (*report.Run, error)
}

func defaultDeps() Deps {
	return Deps{
		NewRunID: uuid.NewString,
		OpenLog:  runlog.Open,
		NewPushgateway: func(job, url string) (metrics.Backend, error) {
			return prompush.NewBackend(job, url)
		},
		NewDatadog: func(cfg datadog.Config) (metrics.Backend, error) {
			return datadog.NewBackend(cfg)
		},
		Run: pipeline.Run,
	}
}

// run validates cfg, opens the run log, installs the metrics backend and
// executes the pipeline (or, with -validate, only checks the inputs).
func run(ctx context.Context, cfg *config.Config, deps Deps) (err error) {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	runID := deps.NewRunID()
	closeLog, err := deps.OpenLog(cfg.LogPath, runID)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	paths := extract.Paths{Customers: cfg.CustomersCSV, Products: cfg.ProductsCSV, Sales: cfg.SalesCSV}
	if cfg.ValidateOnly {
		if err := pipeline.CheckInputs(paths); err != nil {
			return err
		}
		log.Printf("validate: ok store=%s inputs=%v", cfg.StoreKind(), cfg.Inputs())
		return nil
	}

	if err := installMetrics(cfg, deps); err != nil {
		return err
	}
	defer func() {
		if ferr := metrics.Flush(); ferr != nil {
			log.Printf("metrics: flush error=%v", ferr)
		}
	}()

	_, err = deps.Run(ctx, pipeline.Options{
		Paths:      paths,
		ReportPath: cfg.ReportPath,
		SkippedDir: cfg.SkippedDir,
		InitSchema: cfg.InitSchema,
		Storage:    cfg.Storage(),
		Job:        cfg.Job,
		RunID:      runID,
	})
	if err != nil {
		log.Printf("pipeline: failed run_id=%s error=%v", runID, err)
	}
	return err
}

func installMetrics(cfg *config.Config, deps Deps) error {
	var (
		b   metrics.Backend
		err error
	)
	switch cfg.MetricsBackend {
	case config.MetricsPushgateway:
		b, err = deps.NewPushgateway(cfg.Job, cfg.PushgatewayURL)
	case config.MetricsDatadog:
		b, err = deps.NewDatadog(datadog.Config{
			Addr:       cfg.DatadogAddr,
			Namespace:  "fleximart.",
			GlobalTags: []string{"job:" + cfg.Job},
		})
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("metrics backend %s: %w", cfg.MetricsBackend, err)
	}
	metrics.SetBackend(b)
	log.Printf("metrics: backend=%s", cfg.MetricsBackend)
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(context.Background(), cfg, defaultDeps()); err != nil {
		log.Fatal(err)
	}
}
