package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "../data/stock_data/", cfg.Data.StockDir)
	assert.Equal(t, []string{"AAPL", "AMZN", "GOOG", "META", "MSFT", "NVDA", "TSLA"}, cfg.Data.Tickers)
	assert.True(t, cfg.Data.DropUnnamed)
	assert.Equal(t, 20, cfg.Text.TrigramFreqFilter)
	assert.Equal(t, 50, cfg.Text.TrigramTopN)
	assert.Equal(t, 30*time.Second, cfg.Resources.Timeout)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_TICKERS", "AAPL,TSLA")
	t.Setenv("TEXT_TRIGRAM_FREQ_FILTER", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL", "TSLA"}, cfg.Data.Tickers)
	assert.Equal(t, 5, cfg.Text.TrigramFreqFilter)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Data:      DataConfig{StockDir: "stocks", NewsFile: "news.csv"},
			Text:      TextConfig{TrigramFreqFilter: 20, TrigramTopN: 50},
			Resources: ResourcesConfig{CacheDir: "cache", Timeout: time.Second},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing stock dir", mutate: func(c *Config) { c.Data.StockDir = "" }, wantErr: "stock data directory"},
		{name: "missing news file", mutate: func(c *Config) { c.Data.NewsFile = "" }, wantErr: "news file"},
		{name: "zero freq filter", mutate: func(c *Config) { c.Text.TrigramFreqFilter = 0 }, wantErr: "trigram_freq_filter"},
		{name: "negative top words", mutate: func(c *Config) { c.Text.TopWords = -1 }, wantErr: "top_words"},
		{name: "zero timeout", mutate: func(c *Config) { c.Resources.Timeout = 0 }, wantErr: "timeout"},
		{name: "db without password", mutate: func(c *Config) { c.Database.Enabled = true }, wantErr: "database password"},
		{name: "unknown log level", mutate: func(c *Config) { c.Logging.Level = "verbose" }, wantErr: "Logging.Level"},
		{name: "empty ticker", mutate: func(c *Config) { c.Data.Tickers = []string{"AAPL", ""} }, wantErr: "Data.Tickers[1]"},
		{name: "xlsx extension", mutate: func(c *Config) { c.Report.XLSXPath = "report.csv" }, wantErr: "Report.XLSXPath"},
		{name: "bad sslmode", mutate: func(c *Config) { c.Database.SSLMode = "sometimes" }, wantErr: "Database.SSLMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", db.GetDSN())

	ch := ClickHouseConfig{Host: "ch", Port: 9000, User: "default", Password: "x", Database: "newslens"}
	assert.Equal(t, "clickhouse://default:x@ch:9000/newslens", ch.GetDSN())
}
