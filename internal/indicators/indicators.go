package indicators

import (
	"errors"
	"fmt"
	"math"

	"github.com/cinar/indicator"
	"github.com/shopspring/decimal"

	"github.com/selivandex/newslens/pkg/models"
)

// Minimum history lengths
const (
	MinSnapshotRecords = 26 // slow MACD period
	MinTrendRecords    = 50
)

// ErrInsufficientData is returned when a series is shorter than an indicator's period
var ErrInsufficientData = errors.New("insufficient data")

// Calculator calculates technical indicators from daily stock records
type Calculator struct{}

// NewCalculator creates new indicator calculator
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Snapshot calculates the latest indicator values of one ticker's records
func (c *Calculator) Snapshot(records []models.StockRecord) (*models.IndicatorSnapshot, error) {
	if len(records) < MinSnapshotRecords {
		return nil, fmt.Errorf("need at least %d records, got %d: %w", MinSnapshotRecords, len(records), ErrInsufficientData)
	}

	closes, highs, lows := series(records)

	_, rsi14 := indicator.Rsi(closes)
	macdLine, signalLine := indicator.Macd(closes)
	sma20 := indicator.Sma(20, closes)
	ema20 := indicator.Ema(20, closes)
	_, atr14 := indicator.Atr(14, highs, lows, closes)

	if len(rsi14) == 0 || len(macdLine) == 0 || len(sma20) == 0 || len(ema20) == 0 || len(atr14) == 0 {
		return nil, fmt.Errorf("indicator returned no data: %w", ErrInsufficientData)
	}

	macd := last(macdLine)
	signal := last(signalLine)
	latest := records[len(records)-1]

	trend, err := c.DetectTrend(records)
	if err != nil {
		trend = "unknown"
	}

	return &models.IndicatorSnapshot{
		Ticker:     latest.Ticker,
		AsOf:       latest.Date,
		Close:      latest.Close,
		SMA20:      toDecimal(last(sma20)),
		EMA20:      toDecimal(last(ema20)),
		RSI14:      toDecimal(last(rsi14)),
		MACD:       toDecimal(macd),
		MACDSignal: toDecimal(signal),
		MACDHist:   toDecimal(macd - signal),
		ATR14:      toDecimal(last(atr14)),
		Trend:      trend,
	}, nil
}

// Snapshots calculates a snapshot per ticker. Tickers with too little
// history are skipped.
func (c *Calculator) Snapshots(data map[string][]models.StockRecord) (map[string]*models.IndicatorSnapshot, error) {
	result := make(map[string]*models.IndicatorSnapshot, len(data))

	for ticker, records := range data {
		snap, err := c.Snapshot(records)
		if errors.Is(err, ErrInsufficientData) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to calculate indicators for %s: %w", ticker, err)
		}
		result[ticker] = snap
	}

	return result, nil
}

// CalculateRSI calculates the 14-period RSI of the closes
func (c *Calculator) CalculateRSI(records []models.StockRecord) (float64, error) {
	if len(records) < 15 {
		return 0, fmt.Errorf("RSI: %w", ErrInsufficientData)
	}

	_, rsi := indicator.Rsi(models.Closes(records))
	if len(rsi) == 0 {
		return 0, fmt.Errorf("RSI returned no data")
	}
	return last(rsi), nil
}

// CalculateEMA calculates Exponential Moving Average
func (c *Calculator) CalculateEMA(records []models.StockRecord, period int) (float64, error) {
	if len(records) < period {
		return 0, fmt.Errorf("EMA(%d): %w", period, ErrInsufficientData)
	}

	ema := indicator.Ema(period, models.Closes(records))
	if len(ema) == 0 {
		return 0, fmt.Errorf("EMA calculation failed")
	}
	return last(ema), nil
}

// CalculateSMA calculates Simple Moving Average
func (c *Calculator) CalculateSMA(records []models.StockRecord, period int) (float64, error) {
	if len(records) < period {
		return 0, fmt.Errorf("SMA(%d): %w", period, ErrInsufficientData)
	}

	sma := indicator.Sma(period, models.Closes(records))
	if len(sma) == 0 {
		return 0, fmt.Errorf("SMA calculation failed")
	}
	return last(sma), nil
}

// DetectTrend compares the latest close with EMA(20) and EMA(50)
func (c *Calculator) DetectTrend(records []models.StockRecord) (string, error) {
	if len(records) < MinTrendRecords {
		return "unknown", fmt.Errorf("trend: %w", ErrInsufficientData)
	}

	ema20, err := c.CalculateEMA(records, 20)
	if err != nil {
		return "unknown", err
	}

	ema50, err := c.CalculateEMA(records, 50)
	if err != nil {
		return "unknown", err
	}

	currentPrice := models.ToFloat64(records[len(records)-1].Close)

	if currentPrice > ema20 && ema20 > ema50 {
		return "uptrend", nil
	} else if currentPrice < ema20 && ema20 < ema50 {
		return "downtrend", nil
	}

	return "sideways", nil
}

// CalculateVolatility calculates the Average True Range over period
func (c *Calculator) CalculateVolatility(records []models.StockRecord, period int) (float64, error) {
	if len(records) < period+1 {
		return 0, fmt.Errorf("ATR(%d): %w", period, ErrInsufficientData)
	}

	closes, highs, lows := series(records)
	_, atr := indicator.Atr(period, highs, lows, closes)
	if len(atr) == 0 {
		return 0, fmt.Errorf("ATR returned no data")
	}
	return last(atr), nil
}

// DailyReturns returns the close-to-close change of each record against the
// previous one, as a fraction. The first record and records following a zero
// close have no return.
func DailyReturns(records []models.StockRecord) []models.DailyReturn {
	if len(records) < 2 {
		return nil
	}

	returns := make([]models.DailyReturn, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		prev := records[i-1].Close
		if prev.IsZero() {
			continue
		}
		change, _ := records[i].Close.Sub(prev).Div(prev).Float64()
		returns = append(returns, models.DailyReturn{
			Ticker: records[i].Ticker,
			Date:   records[i].Date,
			Return: change,
		})
	}
	return returns
}

func series(records []models.StockRecord) (closes, highs, lows []float64) {
	closes = make([]float64, len(records))
	highs = make([]float64, len(records))
	lows = make([]float64, len(records))

	for i, r := range records {
		closes[i] = models.ToFloat64(r.Close)
		highs[i] = models.ToFloat64(r.High)
		lows[i] = models.ToFloat64(r.Low)
	}
	return closes, highs, lows
}

// toDecimal maps NaN and infinities, which flat price series can produce, to zero
func toDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return models.NewDecimal(v)
}

func last(values []float64) float64 {
	return values[len(values)-1]
}
