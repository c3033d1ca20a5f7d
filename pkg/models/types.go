package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// NewDecimal creates decimal from float64
func NewDecimal(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

// StockRecord represents one daily OHLCV row of a ticker's price history
type StockRecord struct {
	Ticker   string          `json:"ticker" db:"ticker"`
	Date     time.Time       `json:"date" db:"date"`
	Open     decimal.Decimal `json:"open" db:"open"`
	High     decimal.Decimal `json:"high" db:"high"`
	Low      decimal.Decimal `json:"low" db:"low"`
	Close    decimal.Decimal `json:"close" db:"close"`
	AdjClose decimal.Decimal `json:"adj_close" db:"adj_close"`
	Volume   int64           `json:"volume" db:"volume"`
}

// StockKey identifies a StockRecord
type StockKey struct {
	Ticker string
	Date   time.Time
}

// Key returns the (ticker, date) identity of the record
func (r StockRecord) Key() StockKey {
	return StockKey{Ticker: r.Ticker, Date: r.Date}
}

// IndicatorSnapshot holds the latest technical indicator values of a ticker
type IndicatorSnapshot struct {
	Ticker     string          `json:"ticker"`
	AsOf       time.Time       `json:"as_of"`
	Close      decimal.Decimal `json:"close"`
	SMA20      decimal.Decimal `json:"sma_20"`
	EMA20      decimal.Decimal `json:"ema_20"`
	RSI14      decimal.Decimal `json:"rsi_14"`
	MACD       decimal.Decimal `json:"macd"`
	MACDSignal decimal.Decimal `json:"macd_signal"`
	MACDHist   decimal.Decimal `json:"macd_hist"`
	ATR14      decimal.Decimal `json:"atr_14"`
	Trend      string          `json:"trend"` // uptrend, downtrend, sideways
}

// DailyReturn is the close-to-close percentage change of a ticker on a day
type DailyReturn struct {
	Ticker string    `json:"ticker"`
	Date   time.Time `json:"date"`
	Return float64   `json:"return"`
}
