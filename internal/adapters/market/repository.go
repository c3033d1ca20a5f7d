package market

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS stock_ohlcv (
		date      Date,
		ticker    LowCardinality(String),
		open      Float64,
		high      Float64,
		low       Float64,
		close     Float64,
		adj_close Float64,
		volume    Int64
	) ENGINE = ReplacingMergeTree
	ORDER BY (ticker, date)
`

// Repository stores daily stock prices in ClickHouse
type Repository struct {
	ch *sqlx.DB
}

// NewRepository creates new market repository
func NewRepository(ch *sqlx.DB) *Repository {
	return &Repository{ch: ch}
}

// EnsureSchema creates the stock_ohlcv table if it does not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.ch.ExecContext(ctx, createTableQuery); err != nil {
		return fmt.Errorf("failed to create stock_ohlcv table: %w", err)
	}
	return nil
}

// SaveRecords saves daily records of one or more tickers in a single batch.
// Re-inserted (ticker, date) rows replace older ones on merge.
func (r *Repository) SaveRecords(ctx context.Context, records []models.StockRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.ch.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO stock_ohlcv (date, ticker, open, high, low, close, adj_close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		_, err = stmt.ExecContext(ctx,
			rec.Date,
			rec.Ticker,
			rec.Open.InexactFloat64(),
			rec.High.InexactFloat64(),
			rec.Low.InexactFloat64(),
			rec.Close.InexactFloat64(),
			rec.AdjClose.InexactFloat64(),
			rec.Volume,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert %s record: %w", rec.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Debug("saved stock records to ClickHouse", zap.Int("count", len(records)))

	return nil
}

// SaveAll saves the records of every ticker
func (r *Repository) SaveAll(ctx context.Context, data map[string][]models.StockRecord) (int, error) {
	total := 0
	for ticker, records := range data {
		if err := r.SaveRecords(ctx, records); err != nil {
			return total, fmt.Errorf("failed to save %s: %w", ticker, err)
		}
		total += len(records)
	}
	return total, nil
}

// GetRecords retrieves a ticker's records between from and to (inclusive),
// oldest first
func (r *Repository) GetRecords(ctx context.Context, ticker string, from, to time.Time) ([]models.StockRecord, error) {
	rows, err := r.ch.QueryxContext(ctx, `
		SELECT date, ticker, open, high, low, close, adj_close, volume
		FROM stock_ohlcv FINAL
		WHERE ticker = ? AND date >= ? AND date <= ?
		ORDER BY date
	`, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock records from ClickHouse: %w", err)
	}
	defer rows.Close()

	records := []models.StockRecord{}
	for rows.Next() {
		var rec models.StockRecord
		var open, high, low, closePrice, adjClose float64

		if err := rows.Scan(&rec.Date, &rec.Ticker, &open, &high, &low, &closePrice, &adjClose, &rec.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan stock record: %w", err)
		}

		rec.Open = models.NewDecimal(open)
		rec.High = models.NewDecimal(high)
		rec.Low = models.NewDecimal(low)
		rec.Close = models.NewDecimal(closePrice)
		rec.AdjClose = models.NewDecimal(adjClose)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetRecordCount returns number of stored records for a ticker
func (r *Repository) GetRecordCount(ctx context.Context, ticker string) (int, error) {
	var count uint64
	err := r.ch.QueryRowxContext(ctx, `
		SELECT count() FROM stock_ohlcv FINAL WHERE ticker = ?
	`, ticker).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count stock records: %w", err)
	}
	return int(count), nil
}
