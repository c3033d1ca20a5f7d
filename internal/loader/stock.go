package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

// Stock CSV column names
const (
	ColDate     = "Date"
	ColOpen     = "Open"
	ColHigh     = "High"
	ColLow      = "Low"
	ColClose    = "Close"
	ColAdjClose = "Adj Close"
	ColVolume   = "Volume"
)

// StockPath returns the CSV path of a ticker under basePath
func StockPath(basePath, ticker string) string {
	return filepath.Join(basePath, ticker+".csv")
}

// LoadStockData loads <ticker>.csv for every ticker under basePath.
// A ticker whose file does not exist is logged and left out of the result;
// any other read or parse error is returned.
func LoadStockData(tickers []string, basePath string) (map[string][]models.StockRecord, error) {
	stockData := make(map[string][]models.StockRecord, len(tickers))

	for _, ticker := range tickers {
		path := StockPath(basePath, ticker)

		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("stock data file not found, skipping ticker",
					zap.String("ticker", ticker),
					zap.String("path", path),
				)
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		frame, err := ReadFrame(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load stock data for %s: %w", ticker, err)
		}

		records, err := StockRecords(ticker, frame)
		if err != nil {
			return nil, fmt.Errorf("failed to parse stock data for %s: %w", ticker, err)
		}

		logger.Debug("loaded stock data",
			zap.String("ticker", ticker),
			zap.Int("rows", len(records)),
		)

		stockData[ticker] = records
	}

	return stockData, nil
}

// StockRecords converts a price frame to typed records. Absent columns leave
// the corresponding fields zero.
func StockRecords(ticker string, frame *models.Frame) ([]models.StockRecord, error) {
	records := make([]models.StockRecord, len(frame.Rows))
	hasDate := frame.HasColumn(ColDate)

	for i := range frame.Rows {
		rec := models.StockRecord{Ticker: ticker}

		if hasDate {
			if v := frame.Cell(i, ColDate); strings.TrimSpace(v) != "" {
				date, err := parseDate(v)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid date %q: %w", i+1, v, err)
				}
				rec.Date = date
			}
		}

		prices := []struct {
			column string
			dst    *decimal.Decimal
		}{
			{ColOpen, &rec.Open},
			{ColHigh, &rec.High},
			{ColLow, &rec.Low},
			{ColClose, &rec.Close},
			{ColAdjClose, &rec.AdjClose},
		}
		for _, p := range prices {
			d, err := parseDecimal(frame.Cell(i, p.column))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, p.column, err)
			}
			*p.dst = d
		}

		volume, err := parseVolume(frame.Cell(i, ColVolume))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid %s: %w", i+1, ColVolume, err)
		}
		rec.Volume = volume

		records[i] = rec
	}

	return records, nil
}

func parseDecimal(v string) (decimal.Decimal, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(v)
}

func parseVolume(v string) (int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
