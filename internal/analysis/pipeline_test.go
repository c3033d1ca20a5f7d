package analysis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/newslens/internal/adapters/config"
	"github.com/selivandex/newslens/internal/sentiment"
	"github.com/selivandex/newslens/internal/textstats"
	"github.com/selivandex/newslens/pkg/models"
)

type fakeRunStore struct {
	run     *models.AnalysisRun
	results int
	err     error
}

func (f *fakeRunStore) CreateRun(ctx context.Context, run *models.AnalysisRun) error {
	f.run = run
	return f.err
}

func (f *fakeRunStore) SaveResults(ctx context.Context, runID uuid.UUID, news []models.NewsRecord, results []models.SentimentResult) (int, error) {
	f.results = len(results)
	return len(results), nil
}

type fakeCorrelationStore struct {
	saved []models.SentimentReturnCorrelation
}

func (f *fakeCorrelationStore) SaveCorrelations(ctx context.Context, runID uuid.UUID, correlations []models.SentimentReturnCorrelation) error {
	f.saved = correlations
	return nil
}

type fakePriceStore struct {
	rows int
}

func (f *fakePriceStore) SaveAll(ctx context.Context, data map[string][]models.StockRecord) (int, error) {
	for _, records := range data {
		f.rows += len(records)
	}
	return f.rows, nil
}

func writeFixtures(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	var stock strings.Builder
	stock.WriteString("Date,Open,High,Low,Close,Adj Close,Volume\n")
	for i := 1; i <= 30; i++ {
		closePrice := 100 + float64(i) + float64(i%3)
		fmt.Fprintf(&stock, "2020-05-%02d,%.2f,%.2f,%.2f,%.2f,%.2f,%d\n",
			i, closePrice-1, closePrice+1, closePrice-2, closePrice, closePrice, 1000+i)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "AAPL.csv"), []byte(stock.String()), 0644))

	news := `,headline,url,publisher,date,stock
0,Apple stock is great today,https://example.com/0,vick@benzinga.com,2020-05-02 09:30:00-04:00,AAPL
1,Apple outlook looks bad,https://example.com/1,Lisa Levin,2020-05-03 10:00:00-04:00,AAPL
2,Apple shares good after earnings,https://example.com/2,Lisa Levin,2020-05-04 11:00:00-04:00,AAPL
3,Markets drift sideways,https://example.com/3,Paul Quintaro,2020-05-04 12:00:00-04:00,TSLA
`
	newsPath := filepath.Join(dir, "news.csv")
	require.NoError(t, os.WriteFile(newsPath, []byte(news), 0644))

	return &config.Config{
		Data: config.DataConfig{
			StockDir:    dir,
			NewsFile:    newsPath,
			Tickers:     []string{"AAPL", "MSFT"},
			DropUnnamed: true,
		},
		Text: config.TextConfig{
			TopPublishers:     10,
			TopWords:          5,
			TrigramFreqFilter: 1,
			TrigramTopN:       3,
		},
	}
}

func newTestPipeline(cfg *config.Config, opts ...Option) *Pipeline {
	analyzer := sentiment.NewAnalyzerWithLexicon(sentiment.Lexicon{"great": 3.1, "good": 1.9, "bad": -2.5})
	tokenizer := textstats.NewTokenizerWithStopwords([]string{"is", "after"}, textstats.DefaultOptions())
	return NewPipeline(cfg, analyzer, tokenizer, opts...)
}

func TestPipeline_Run(t *testing.T) {
	cfg := writeFixtures(t)

	runs := &fakeRunStore{}
	corrs := &fakeCorrelationStore{}
	prices := &fakePriceStore{}
	var info bytes.Buffer

	result, err := newTestPipeline(cfg,
		WithRunStore(runs),
		WithCorrelationStore(corrs),
		WithPriceStore(prices),
		WithInfo(&info),
	).Run(context.Background())
	require.NoError(t, err)

	rep := result.Report
	assert.Equal(t, 4, rep.Headlines)
	assert.Contains(t, result.Stocks, "AAPL")
	assert.NotContains(t, result.Stocks, "MSFT")

	require.NotEmpty(t, rep.Publishers)
	assert.Equal(t, models.PublisherCount{Publisher: "Lisa Levin", Count: 2}, rep.Publishers[0])
	assert.Equal(t, []models.OrganizationCount{{Organization: "benzinga", Count: 1}}, rep.Organizations)
	assert.Equal(t, "benzinga", result.News[0].Organization)

	assert.Equal(t, 4, rep.Sentiment.Total)
	assert.Len(t, result.Sentiment, 4)

	require.NotEmpty(t, rep.Words)
	assert.Equal(t, models.WordCount{Word: "apple", Count: 3}, rep.Words[0])
	assert.LessOrEqual(t, len(rep.Trigrams), 3)

	require.Len(t, rep.Indicators, 1)
	assert.Equal(t, "AAPL", rep.Indicators[0].Ticker)

	require.Len(t, rep.Correlations, 1)
	assert.Equal(t, 3, rep.Correlations[0].SampleSize)

	require.NotNil(t, runs.run)
	assert.Equal(t, rep.RunID, runs.run.ID)
	assert.Equal(t, 4, runs.results)
	assert.Equal(t, rep.Correlations, corrs.saved)
	assert.Equal(t, 30, prices.rows)

	assert.Contains(t, info.String(), "Shape: (4, 5)")
}

func TestPipeline_MissingNewsFile(t *testing.T) {
	cfg := writeFixtures(t)
	cfg.Data.NewsFile = filepath.Join(t.TempDir(), "missing.csv")

	_, err := newTestPipeline(cfg).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPipeline_StoreFailure(t *testing.T) {
	cfg := writeFixtures(t)
	runs := &fakeRunStore{err: errors.New("db down")}

	_, err := newTestPipeline(cfg, WithRunStore(runs)).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
