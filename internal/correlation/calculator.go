package correlation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/internal/indicators"
	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

// MinSampleSize is the smallest number of paired days a correlation is reported for
const MinSampleSize = 2

// Pearson computes the Pearson correlation coefficient of two equally long
// series. Zero variance in either series yields zero.
func Pearson(xs, ys []float64) (float64, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return 0, fmt.Errorf("invalid series lengths: %d and %d", len(xs), len(ys))
	}

	n := float64(len(xs))

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var numerator, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		numerator += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, nil
	}

	return numerator / math.Sqrt(varX*varY), nil
}

type dayKey struct {
	ticker string
	day    time.Time
}

// DailySentiment averages headline scores per ticker and UTC calendar day.
// Results are matched to news records by row. Records without a date or
// ticker are ignored. Output is ordered by ticker, then day.
func DailySentiment(news []models.NewsRecord, results []models.SentimentResult) []models.DailySentiment {
	scores := make(map[int]float64, len(results))
	for _, r := range results {
		scores[r.Row] = r.Score
	}

	sums := make(map[dayKey]float64)
	counts := make(map[dayKey]int)
	for _, rec := range news {
		score, ok := scores[rec.Row]
		if !ok || rec.Date.IsZero() || rec.Stock == "" {
			continue
		}
		key := dayKey{ticker: rec.Stock, day: truncateDay(rec.Date)}
		sums[key] += score
		counts[key]++
	}

	daily := make([]models.DailySentiment, 0, len(sums))
	for key, sum := range sums {
		daily = append(daily, models.DailySentiment{
			Ticker:    key.ticker,
			Day:       key.day,
			Mean:      sum / float64(counts[key]),
			Headlines: counts[key],
		})
	}

	sort.Slice(daily, func(i, j int) bool {
		if daily[i].Ticker != daily[j].Ticker {
			return daily[i].Ticker < daily[j].Ticker
		}
		return daily[i].Day.Before(daily[j].Day)
	})

	return daily
}

// SentimentReturns correlates each ticker's daily mean sentiment with its
// same-day return. Tickers with fewer than MinSampleSize paired days are
// skipped. Output is ordered by ticker.
func SentimentReturns(daily []models.DailySentiment, stocks map[string][]models.StockRecord) ([]models.SentimentReturnCorrelation, error) {
	byTicker := make(map[string]map[time.Time]float64)
	for _, d := range daily {
		if byTicker[d.Ticker] == nil {
			byTicker[d.Ticker] = make(map[time.Time]float64)
		}
		byTicker[d.Ticker][d.Day] = d.Mean
	}

	tickers := make([]string, 0, len(byTicker))
	for ticker := range byTicker {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	var out []models.SentimentReturnCorrelation
	for _, ticker := range tickers {
		records, ok := stocks[ticker]
		if !ok {
			continue
		}

		var sentiment, returns []float64
		for _, r := range indicators.DailyReturns(records) {
			mean, ok := byTicker[ticker][truncateDay(r.Date)]
			if !ok {
				continue
			}
			sentiment = append(sentiment, mean)
			returns = append(returns, r.Return)
		}

		if len(sentiment) < MinSampleSize {
			logger.Debug("not enough paired days for correlation",
				zap.String("ticker", ticker),
				zap.Int("pairs", len(sentiment)),
			)
			continue
		}

		corr, err := Pearson(sentiment, returns)
		if err != nil {
			return nil, fmt.Errorf("failed to correlate %s: %w", ticker, err)
		}

		out = append(out, models.SentimentReturnCorrelation{
			Ticker:      ticker,
			Correlation: corr,
			SampleSize:  len(sentiment),
		})
	}

	return out, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
