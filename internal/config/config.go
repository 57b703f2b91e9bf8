package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server     ServerConfig
	MongoDB    MongoDBConfig
	Scheduler  SchedulerConfig
	Webhook    WebhookConfig
	Sheets     SheetsConfig
	Projection ProjectionConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SchedulerConfig holds cron-related settings for the background jobs.
type SchedulerConfig struct {
	ReconciliationCron string
	ReportExportCron   string
	Timezone           string
}

// WebhookConfig contains the optional outbound notification endpoint.
type WebhookConfig struct {
	URL   string
	Token string
}

// SheetsConfig contains configuration required for the report export to
// Google Sheets. Both fields empty disables the export.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// ProjectionConfig tunes the financial projection engine defaults.
type ProjectionConfig struct {
	MonteCarloIterations int
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	iterations, err := getenvInt("MONTE_CARLO_ITERATIONS", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "maricultor"),
		},
		Scheduler: SchedulerConfig{
			ReconciliationCron: getenvWithDefault("RECONCILIATION_CRON_SCHEDULE", "0 2 * * *"),
			ReportExportCron:   getenvWithDefault("REPORT_EXPORT_CRON_SCHEDULE", "0 6 * * 1"),
			Timezone:           getenvWithDefault("TIMEZONE", "America/Lima"),
		},
		Webhook: WebhookConfig{
			URL:   os.Getenv("NOTIFY_WEBHOOK_URL"),
			Token: os.Getenv("NOTIFY_WEBHOOK_TOKEN"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_REPORTS_ID"),
		},
		Projection: ProjectionConfig{
			MonteCarloIterations: iterations,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.MongoDB.URI == "" {
		return errors.New("MONGODB_URI must be provided")
	}
	if c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Scheduler.ReconciliationCron == "" {
		return errors.New("RECONCILIATION_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.ReportExportCron == "" {
		return errors.New("REPORT_EXPORT_CRON_SCHEDULE must be provided")
	}
	if c.Scheduler.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	// Sheets export is opt-in, but a half-configured export is a mistake.
	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_REPORTS_ID must be provided together")
	}

	if c.Projection.MonteCarloIterations <= 0 {
		return errors.New("MONTE_CARLO_ITERATIONS must be positive")
	}

	return nil
}

// SheetsEnabled reports whether the report export is configured.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID != ""
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
