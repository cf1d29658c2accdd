// Package config holds the process configuration of a reconciliation run.
//
// Every setting is a command-line flag whose default is seeded from an
// environment variable, so `-help` lists every knob. Variables may also come
// from a dotenv file (ENV_FILE, default ".env"); the real environment always
// wins over the file.
//
//	cfg, err := config.Load()
//
// Tests use LoadFromArgs with a private FlagSet and a map-backed getenv.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"fleximart/internal/storage"
)

// Metrics backends.
const (
	MetricsNone        = "none"
	MetricsPushgateway = "pushgateway"
	MetricsDatadog     = "datadog"
)

// Config is the full set of run settings.
type Config struct {
	// Inputs and outputs.
	CustomersCSV string
	ProductsCSV  string
	SalesCSV     string
	ReportPath   string
	LogPath      string
	SkippedDir   string // empty disables the skipped-row trail

	// Destination store. DSN wins over the discrete Postgres parts.
	DBDriver   string // postgres, sqlite or sqlserver (mssql accepted)
	DSN        string
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string
	InitSchema bool // create missing tables before loading

	// Metrics.
	MetricsBackend string
	PushgatewayURL string
	DatadogAddr    string
	Job            string

	// ValidateOnly checks configuration and inputs, then exits.
	ValidateOnly bool
}

// LoadFromArgs defines flags on fs seeded from getenv and parses args.
// Explicit flags override the environment.
func LoadFromArgs(fs *flag.FlagSet, getenv func(string) string, args []string) (*Config, error) {
	cfg := &Config{}

	env := func(k, d string) string {
		if v := getenv(k); v != "" {
			return v
		}
		return d
	}
	boolEnv := func(k string, d bool) bool {
		switch strings.ToLower(getenv(k)) {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
		return d
	}

	fs.StringVar(&cfg.CustomersCSV, "customers_csv", env("CUSTOMERS_CSV", "data/customers_raw.csv"), "Path to the customers extract")
	fs.StringVar(&cfg.ProductsCSV, "products_csv", env("PRODUCTS_CSV", "data/products_raw.csv"), "Path to the products extract")
	fs.StringVar(&cfg.SalesCSV, "sales_csv", env("SALES_CSV", "data/sales_raw.csv"), "Path to the sales extract")
	fs.StringVar(&cfg.ReportPath, "report", env("REPORT_PATH", "data_quality_report.txt"), "Path of the data-quality report")
	fs.StringVar(&cfg.LogPath, "log_file", env("LOG_FILE", "etl.log"), "Append-only run log")
	fs.StringVar(&cfg.SkippedDir, "skipped_dir", getenv("SKIPPED_DIR"), "Directory for the skipped-rows CSV (empty disables)")

	fs.StringVar(&cfg.DBDriver, "db_driver", env("DB_DRIVER", "postgres"), "Store: 'postgres', 'sqlite' or 'sqlserver'")
	fs.StringVar(&cfg.DSN, "dsn", getenv("DB_DSN"), "Full DSN (required for sqlite and sqlserver)")
	fs.StringVar(&cfg.DBUser, "db_user", env("DB_USER", "postgres"), "DB user")
	fs.StringVar(&cfg.DBPassword, "db_password", getenv("DB_PASSWORD"), "DB password")
	fs.StringVar(&cfg.DBHost, "db_host", env("DB_HOST", "localhost"), "DB host")
	fs.StringVar(&cfg.DBPort, "db_port", env("DB_PORT", "5432"), "DB port")
	fs.StringVar(&cfg.DBName, "db_name", env("DB_NAME", "fleximart"), "DB name")
	fs.BoolVar(&cfg.InitSchema, "init_schema", boolEnv("INIT_SCHEMA", false), "Create missing destination tables before loading")

	fs.StringVar(&cfg.MetricsBackend, "metrics_backend", env("METRICS_BACKEND", MetricsNone), "Metrics: 'none', 'pushgateway' or 'datadog'")
	fs.StringVar(&cfg.PushgatewayURL, "pushgateway_url", getenv("PUSHGATEWAY_URL"), "Pushgateway base URL")
	fs.StringVar(&cfg.DatadogAddr, "datadog_addr", env("DD_DOGSTATSD_ADDR", "127.0.0.1:8125"), "DogStatsD address")
	fs.StringVar(&cfg.Job, "job", env("ETL_JOB", "fleximart"), "Job name used in metrics")

	fs.BoolVar(&cfg.ValidateOnly, "validate", false, "Validate configuration and inputs, then exit")

	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses os.Args with the process environment, merged over the dotenv
// file named by ENV_FILE (default ".env"). A missing dotenv file is ignored.
func Load() (*Config, error) {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	dotenv, err := ReadEnvFile(path)
	if err != nil {
		return nil, err
	}
	return LoadFromArgs(flag.CommandLine, Overlay(os.Getenv, dotenv), os.Args[1:])
}

// ReadEnvFile parses a dotenv file. A file that does not exist yields an
// empty map.
func ReadEnvFile(path string) (map[string]string, error) {
	m, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return m, nil
}

// Overlay returns a getenv that consults primary first and falls back to
// file.
func Overlay(primary func(string) string, file map[string]string) func(string) string {
	return func(k string) string {
		if v := primary(k); v != "" {
			return v
		}
		return file[k]
	}
}

// StoreKind returns the storage kind for DBDriver.
func (c *Config) StoreKind() string {
	k := strings.ToLower(strings.TrimSpace(c.DBDriver))
	if k == "mssql" {
		return "sqlserver"
	}
	return k
}

// StorageDSN returns DSN, or for Postgres a URL built from the discrete
// parts when DSN is empty.
func (c *Config) StorageDSN() string {
	if c.DSN != "" || c.StoreKind() != "postgres" {
		return c.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	if c.DBPassword != "" {
		u.User = url.UserPassword(c.DBUser, c.DBPassword)
	} else if c.DBUser != "" {
		u.User = url.User(c.DBUser)
	}
	return u.String()
}

// Storage returns the storage.Config selected by c.
func (c *Config) Storage() storage.Config {
	return storage.Config{Kind: c.StoreKind(), DSN: c.StorageDSN()}
}

// Inputs returns the three extract paths in extract order.
func (c *Config) Inputs() []string { return []string{c.CustomersCSV, c.ProductsCSV, c.SalesCSV} }

// Validate reports every problem with c at once.
func (c *Config) Validate() error {
	var errs []error
	for _, f := range []struct{ name, value string }{
		{"customers_csv", c.CustomersCSV},
		{"products_csv", c.ProductsCSV},
		{"sales_csv", c.SalesCSV},
		{"report", c.ReportPath},
		{"log_file", c.LogPath},
	} {
		if strings.TrimSpace(f.value) == "" {
			errs = append(errs, fmt.Errorf("-%s must not be empty", f.name))
		}
	}

	switch c.StoreKind() {
	case "postgres":
		if c.DSN == "" && (c.DBHost == "" || c.DBName == "") {
			errs = append(errs, errors.New("postgres needs -dsn or -db_host and -db_name"))
		}
	case "sqlite", "sqlserver":
		if c.DSN == "" {
			errs = append(errs, fmt.Errorf("-dsn is required for db_driver=%s", c.StoreKind()))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported -db_driver=%q (registered: %s)", c.DBDriver, strings.Join(storage.ListKinds(), ", ")))
	}

	switch c.MetricsBackend {
	case MetricsNone, "":
	case MetricsPushgateway:
		if c.PushgatewayURL == "" {
			errs = append(errs, errors.New("-pushgateway_url is required for metrics_backend=pushgateway"))
		}
	case MetricsDatadog:
		if c.DatadogAddr == "" {
			errs = append(errs, errors.New("-datadog_addr is required for metrics_backend=datadog"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported -metrics_backend=%q", c.MetricsBackend))
	}
	return errors.Join(errs...)
}
