// Package analysis runs the full exploratory pass over the stock and news
// datasets and assembles the report.
package analysis

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/selivandex/newslens/internal/adapters/config"
	"github.com/selivandex/newslens/internal/correlation"
	"github.com/selivandex/newslens/internal/indicators"
	"github.com/selivandex/newslens/internal/loader"
	"github.com/selivandex/newslens/internal/publisher"
	"github.com/selivandex/newslens/internal/report"
	"github.com/selivandex/newslens/internal/sentiment"
	"github.com/selivandex/newslens/internal/textstats"
	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

// RunStore persists analysis runs and scored headlines
type RunStore interface {
	CreateRun(ctx context.Context, run *models.AnalysisRun) error
	SaveResults(ctx context.Context, runID uuid.UUID, news []models.NewsRecord, results []models.SentimentResult) (int, error)
}

// CorrelationStore persists sentiment/return correlations
type CorrelationStore interface {
	SaveCorrelations(ctx context.Context, runID uuid.UUID, correlations []models.SentimentReturnCorrelation) error
}

// PriceStore persists daily stock records
type PriceStore interface {
	SaveAll(ctx context.Context, data map[string][]models.StockRecord) (int, error)
}

// Result holds the report together with the intermediate data it was built from
type Result struct {
	Report    *report.Report
	Stocks    map[string][]models.StockRecord
	News      []models.NewsRecord
	Sentiment []models.SentimentResult
}

// Pipeline wires the loaders, analyzers and optional stores
type Pipeline struct {
	cfg       *config.Config
	analyzer  *sentiment.Analyzer
	tokenizer *textstats.Tokenizer
	calc      *indicators.Calculator

	runs         RunStore
	correlations CorrelationStore
	prices       PriceStore
	info         io.Writer
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithRunStore persists the run and its scored headlines
func WithRunStore(s RunStore) Option {
	return func(p *Pipeline) { p.runs = s }
}

// WithCorrelationStore persists the computed correlations
func WithCorrelationStore(s CorrelationStore) Option {
	return func(p *Pipeline) { p.correlations = s }
}

// WithPriceStore persists the loaded stock records
func WithPriceStore(s PriceStore) Option {
	return func(p *Pipeline) { p.prices = s }
}

// WithInfo writes a structural summary of the news dataset to w
func WithInfo(w io.Writer) Option {
	return func(p *Pipeline) { p.info = w }
}

// NewPipeline creates new analysis pipeline
func NewPipeline(cfg *config.Config, analyzer *sentiment.Analyzer, tokenizer *textstats.Tokenizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		analyzer:  analyzer,
		tokenizer: tokenizer,
		calc:      indicators.NewCalculator(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads both datasets, analyzes them and builds the report. Stores
// configured on the pipeline are written after the report is built.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	stocks, err := loader.LoadStockData(p.cfg.Data.Tickers, p.cfg.Data.StockDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock data: %w", err)
	}
	logger.Info("stock data loaded", zap.Int("tickers", len(stocks)))

	frame, err := loader.LoadNewsFrame(p.cfg.Data.NewsFile, loader.NewsOptions{DropUnnamed: p.cfg.Data.DropUnnamed})
	if err != nil {
		return nil, fmt.Errorf("failed to load news data: %w", err)
	}
	if p.info != nil {
		if err := loader.DataInfo(p.info, frame); err != nil {
			return nil, fmt.Errorf("failed to write data info: %w", err)
		}
	}

	news, err := loader.NewsRecords(frame)
	if err != nil {
		return nil, fmt.Errorf("failed to read news records: %w", err)
	}
	news = publisher.AddOrganization(news)
	logger.Info("news data loaded", zap.Int("headlines", len(news)))

	results, err := sentiment.AnalyzeRecords(ctx, news, p.analyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze sentiment: %w", err)
	}
	summary := sentiment.Summarize(results)
	logger.Info("sentiment analyzed",
		zap.Int("headlines", summary.Total),
		zap.Float64("mean", summary.Mean),
	)

	headlines := make([]string, len(news))
	for i, rec := range news {
		headlines[i] = rec.Headline
	}
	tokenized, err := p.tokenizer.TokenizeAll(ctx, headlines)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize headlines: %w", err)
	}

	snapshots, err := p.calc.Snapshots(stocks)
	if err != nil {
		return nil, err
	}

	daily := correlation.DailySentiment(news, results)
	correlations, err := correlation.SentimentReturns(daily, stocks)
	if err != nil {
		return nil, fmt.Errorf("failed to correlate sentiment with returns: %w", err)
	}

	text := p.cfg.Text
	rep := report.Build(report.Input{
		NewsFile:      p.cfg.Data.NewsFile,
		Tickers:       p.cfg.Data.Tickers,
		Headlines:     len(news),
		Publishers:    publisher.TopPublishers(news, text.TopPublishers),
		Organizations: topOrganizations(news, text.TopPublishers),
		Sentiment:     summary,
		Words:         textstats.CountTokens(tokenized, text.TopWords),
		Trigrams:      textstats.Trigrams(tokenized, text.TrigramFreqFilter, text.TrigramTopN),
		Lengths:       textstats.HeadlineLengths(news),
		Indicators:    snapshots,
		Correlations:  correlations,
	})

	if err := p.persist(ctx, rep, stocks, news, results); err != nil {
		return nil, err
	}

	return &Result{
		Report:    rep,
		Stocks:    stocks,
		News:      news,
		Sentiment: results,
	}, nil
}

func (p *Pipeline) persist(ctx context.Context, rep *report.Report, stocks map[string][]models.StockRecord, news []models.NewsRecord, results []models.SentimentResult) error {
	if p.runs != nil {
		run := &models.AnalysisRun{
			ID:        rep.RunID,
			NewsFile:  rep.NewsFile,
			Tickers:   rep.Tickers,
			Headlines: rep.Headlines,
			MeanScore: rep.Sentiment.Mean,
			CreatedAt: rep.GeneratedAt,
		}
		if err := p.runs.CreateRun(ctx, run); err != nil {
			return err
		}

		saved, err := p.runs.SaveResults(ctx, rep.RunID, news, results)
		if err != nil {
			return err
		}
		logger.Info("headline sentiment persisted",
			zap.String("run_id", rep.RunID.String()),
			zap.Int("rows", saved),
		)
	}

	if p.correlations != nil {
		if err := p.correlations.SaveCorrelations(ctx, rep.RunID, rep.Correlations); err != nil {
			return err
		}
	}

	if p.prices != nil {
		saved, err := p.prices.SaveAll(ctx, stocks)
		if err != nil {
			return err
		}
		logger.Info("stock records persisted", zap.Int("rows", saved))
	}

	return nil
}

func topOrganizations(news []models.NewsRecord, n int) []models.OrganizationCount {
	orgs := publisher.OrganizationCounts(news)
	if n > 0 && n < len(orgs) {
		orgs = orgs[:n]
	}
	return orgs
}
