package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

var validate = validator.New()

// Config represents application configuration.
// Nested keys are read as <SECTION>_<KEY> and fall back to <KEY>,
// e.g. DATABASE_DB_HOST or DB_HOST.
type Config struct {
	Data       DataConfig       `envconfig:"DATA"`
	Text       TextConfig       `envconfig:"TEXT"`
	Resources  ResourcesConfig  `envconfig:"RESOURCES"`
	Database   DatabaseConfig   `envconfig:"DATABASE"`
	ClickHouse ClickHouseConfig `envconfig:"CLICKHOUSE"`
	Logging    LoggingConfig    `envconfig:"LOGGING"`
	Report     ReportConfig     `envconfig:"REPORT"`
}

// DataConfig locates the input CSV files
type DataConfig struct {
	StockDir    string   `envconfig:"STOCK_DIR" default:"../data/stock_data/"`
	NewsFile    string   `envconfig:"NEWS_FILE" default:"../data/raw/raw_analyst_ratings.csv"`
	Tickers     []string `envconfig:"TICKERS" default:"AAPL,AMZN,GOOG,META,MSFT,NVDA,TSLA" validate:"dive,required"`
	DropUnnamed bool     `envconfig:"DROP_UNNAMED" default:"true"`
}

// TextConfig represents text statistics parameters
type TextConfig struct {
	TopPublishers     int  `envconfig:"TOP_PUBLISHERS" default:"20"`
	TopWords          int  `envconfig:"TOP_WORDS" default:"20"`
	TrigramFreqFilter int  `envconfig:"TRIGRAM_FREQ_FILTER" default:"20"`
	TrigramTopN       int  `envconfig:"TRIGRAM_TOP_N" default:"50"`
	RemoveStopwords   bool `envconfig:"REMOVE_STOPWORDS" default:"true"`
	RemovePunctuation bool `envconfig:"REMOVE_PUNCTUATION" default:"true"`
	Lowercase         bool `envconfig:"LOWERCASE" default:"true"`
}

// ResourcesConfig represents the language resource cache
type ResourcesConfig struct {
	CacheDir string        `envconfig:"RESOURCES_CACHE_DIR" default:"data/resources"`
	BaseURL  string        `envconfig:"RESOURCES_BASE_URL" default:"https://raw.githubusercontent.com" validate:"omitempty,url"`
	Timeout  time.Duration `envconfig:"RESOURCES_TIMEOUT" default:"30s"`
}

// DatabaseConfig represents database connection parameters
type DatabaseConfig struct {
	Enabled        bool   `envconfig:"DB_ENABLED" default:"false"`
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           int    `envconfig:"DB_PORT" default:"5432" validate:"omitempty,min=1,max=65535"`
	Name           string `envconfig:"DB_NAME" default:"newslens"`
	User           string `envconfig:"DB_USER" default:"newslens"`
	Password       string `envconfig:"DB_PASSWORD"`
	SSLMode        string `envconfig:"DB_SSLMODE" default:"disable" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MigrationsPath string `envconfig:"DB_MIGRATIONS_PATH" default:"./migrations"`
}

// ClickHouseConfig represents ClickHouse connection parameters
type ClickHouseConfig struct {
	Enabled  bool   `envconfig:"CH_ENABLED" default:"false"`
	Host     string `envconfig:"CH_HOST" default:"localhost"`
	Port     int    `envconfig:"CH_PORT" default:"9000" validate:"omitempty,min=1,max=65535"`
	Database string `envconfig:"CH_DATABASE" default:"newslens"`
	User     string `envconfig:"CH_USER" default:"default"`
	Password string `envconfig:"CH_PASSWORD"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info" validate:"omitempty,oneof=debug info warn error"`
	File  string `envconfig:"LOG_FILE"`
}

// ReportConfig represents report output
type ReportConfig struct {
	XLSXPath string `envconfig:"XLSX_PATH" validate:"omitempty,endswith=.xlsx"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Data.StockDir == "" {
		return fmt.Errorf("stock data directory is required")
	}
	if c.Data.NewsFile == "" {
		return fmt.Errorf("news file is required")
	}

	if c.Text.TrigramFreqFilter < 1 {
		return fmt.Errorf("trigram_freq_filter must be at least 1")
	}
	if c.Text.TrigramTopN < 0 {
		return fmt.Errorf("trigram_top_n must not be negative")
	}
	if c.Text.TopWords < 0 || c.Text.TopPublishers < 0 {
		return fmt.Errorf("top_words and top_publishers must not be negative")
	}

	if c.Resources.CacheDir == "" {
		return fmt.Errorf("resources cache directory is required")
	}
	if c.Resources.Timeout <= 0 {
		return fmt.Errorf("resources timeout must be positive")
	}

	if c.Database.Enabled && c.Database.Password == "" {
		return fmt.Errorf("database password is required when database is enabled")
	}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%s: failed on %q rule (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("failed to validate config: %w", err)
	}

	return nil
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// GetDSN returns ClickHouse connection string
func (c *ClickHouseConfig) GetDSN() string {
	return fmt.Sprintf(
		"clickhouse://%s:%s@%s:%d/%s",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}
