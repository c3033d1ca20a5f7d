package indicators

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/selivandex/newslens/pkg/models"
)

func TestCalculator_Snapshot(t *testing.T) {
	calc := NewCalculator()

	// Generate sample records (trending up)
	records := generateTestRecords(60, 100, 0.01)

	snap, err := calc.Snapshot(records)
	if err != nil {
		t.Fatalf("Failed to calculate snapshot: %v", err)
	}

	if snap.Ticker != "TEST" {
		t.Errorf("Expected ticker TEST, got %s", snap.Ticker)
	}
	if !snap.AsOf.Equal(records[len(records)-1].Date) {
		t.Errorf("Snapshot should be as of the last record, got %v", snap.AsOf)
	}

	rsi, _ := snap.RSI14.Float64()
	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI should be between 0-100, got %.2f", rsi)
	}

	closePrice, _ := snap.Close.Float64()
	sma, _ := snap.SMA20.Float64()
	if sma <= 0 || sma >= closePrice {
		t.Errorf("SMA20 of an uptrend should sit below the close, got %.2f vs %.2f", sma, closePrice)
	}

	macd, _ := snap.MACD.Float64()
	signal, _ := snap.MACDSignal.Float64()
	hist, _ := snap.MACDHist.Float64()
	if math.Abs(hist-(macd-signal)) > 1e-6 {
		t.Errorf("Histogram should equal MACD minus signal, got %.6f", hist)
	}

	atr, _ := snap.ATR14.Float64()
	if atr <= 0 {
		t.Errorf("ATR should be positive, got %.4f", atr)
	}

	if snap.Trend != "uptrend" {
		t.Errorf("Expected uptrend, got %s", snap.Trend)
	}
}

func TestCalculator_InsufficientData(t *testing.T) {
	calc := NewCalculator()

	// Only 10 records - not enough
	records := generateTestRecords(10, 100, 0.01)

	_, err := calc.Snapshot(records)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculator_ShortHistoryTrendUnknown(t *testing.T) {
	calc := NewCalculator()

	snap, err := calc.Snapshot(generateTestRecords(30, 100, 0.01))
	if err != nil {
		t.Fatalf("Failed to calculate snapshot: %v", err)
	}
	if snap.Trend != "unknown" {
		t.Errorf("Expected unknown trend for short history, got %s", snap.Trend)
	}
}

func TestCalculator_Snapshots(t *testing.T) {
	calc := NewCalculator()

	data := map[string][]models.StockRecord{
		"LONG":  withTicker(generateTestRecords(40, 100, 0.01), "LONG"),
		"SHORT": withTicker(generateTestRecords(5, 100, 0.01), "SHORT"),
	}

	snaps, err := calc.Snapshots(data)
	if err != nil {
		t.Fatalf("Failed to calculate snapshots: %v", err)
	}
	if _, ok := snaps["LONG"]; !ok {
		t.Error("LONG should have a snapshot")
	}
	if _, ok := snaps["SHORT"]; ok {
		t.Error("SHORT should be skipped")
	}
}

func TestCalculator_CalculateRSI(t *testing.T) {
	calc := NewCalculator()

	records := generateTestRecords(30, 100, 0.01)

	rsi, err := calc.CalculateRSI(records)
	if err != nil {
		t.Fatalf("Failed to calculate RSI: %v", err)
	}

	if rsi < 0 || rsi > 100 {
		t.Errorf("RSI should be between 0-100, got %.2f", rsi)
	}
}

func TestCalculator_CalculateSMA(t *testing.T) {
	calc := NewCalculator()

	records := generateTestRecords(5, 100, 0)
	sma, err := calc.CalculateSMA(records, 5)
	if err != nil {
		t.Fatalf("Failed to calculate SMA: %v", err)
	}
	if math.Abs(sma-100) > 1e-9 {
		t.Errorf("SMA of a flat series should be 100, got %.4f", sma)
	}

	if _, err := calc.CalculateSMA(records, 10); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("Expected ErrInsufficientData, got %v", err)
	}
}

func TestCalculator_DetectTrend(t *testing.T) {
	calc := NewCalculator()

	t.Run("uptrend", func(t *testing.T) {
		// Strong uptrend
		records := generateTestRecords(60, 100, 0.02)

		trend, err := calc.DetectTrend(records)
		if err != nil {
			t.Fatalf("Failed to detect trend: %v", err)
		}

		if trend != "uptrend" {
			t.Errorf("Expected uptrend, got %s", trend)
		}
	})

	t.Run("downtrend", func(t *testing.T) {
		// Strong downtrend
		records := generateTestRecords(60, 100, -0.02)

		trend, err := calc.DetectTrend(records)
		if err != nil {
			t.Fatalf("Failed to detect trend: %v", err)
		}

		if trend != "downtrend" {
			t.Errorf("Expected downtrend, got %s", trend)
		}
	})
}

func TestCalculator_CalculateVolatility(t *testing.T) {
	calc := NewCalculator()

	atr, err := calc.CalculateVolatility(generateTestRecords(30, 100, 0.01), 14)
	if err != nil {
		t.Fatalf("Failed to calculate ATR: %v", err)
	}
	if atr <= 0 {
		t.Errorf("ATR should be positive, got %.4f", atr)
	}
}

func TestDailyReturns(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	records := []models.StockRecord{
		{Ticker: "X", Date: day, Close: models.NewDecimal(100)},
		{Ticker: "X", Date: day.AddDate(0, 0, 1), Close: models.NewDecimal(110)},
		{Ticker: "X", Date: day.AddDate(0, 0, 2), Close: models.NewDecimal(99)},
	}

	returns := DailyReturns(records)
	if len(returns) != 2 {
		t.Fatalf("Expected 2 returns, got %d", len(returns))
	}
	if math.Abs(returns[0].Return-0.10) > 1e-9 {
		t.Errorf("Expected 10%% return, got %.6f", returns[0].Return)
	}
	if math.Abs(returns[1].Return-(-0.10)) > 1e-9 {
		t.Errorf("Expected -10%% return, got %.6f", returns[1].Return)
	}
	if !returns[0].Date.Equal(records[1].Date) {
		t.Errorf("Return should be dated on the later record")
	}

	if DailyReturns(records[:1]) != nil {
		t.Error("A single record has no returns")
	}
}

// Helper function to generate test records
func generateTestRecords(count int, startPrice, trend float64) []models.StockRecord {
	records := make([]models.StockRecord, count)
	price := startPrice
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		open := price
		closePrice := price * (1 + trend)
		high := max(open, closePrice) * 1.002
		low := min(open, closePrice) * 0.998

		records[i] = models.StockRecord{
			Ticker:   "TEST",
			Date:     start.AddDate(0, 0, i),
			Open:     models.NewDecimal(open),
			High:     models.NewDecimal(high),
			Low:      models.NewDecimal(low),
			Close:    models.NewDecimal(closePrice),
			AdjClose: models.NewDecimal(closePrice),
			Volume:   int64(1000 + i*10),
		}

		price = closePrice
	}

	return records
}

func withTicker(records []models.StockRecord, ticker string) []models.StockRecord {
	for i := range records {
		records[i].Ticker = ticker
	}
	return records
}
