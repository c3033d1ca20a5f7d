package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/internal/adapters/config"
	"github.com/selivandex/newslens/internal/adapters/correlation"
	"github.com/selivandex/newslens/internal/adapters/database"
	"github.com/selivandex/newslens/internal/adapters/market"
	"github.com/selivandex/newslens/internal/adapters/news"
	"github.com/selivandex/newslens/internal/analysis"
	"github.com/selivandex/newslens/internal/resources"
	"github.com/selivandex/newslens/internal/sentiment"
	"github.com/selivandex/newslens/internal/textstats"
	"github.com/selivandex/newslens/pkg/logger"
)

type flags struct {
	tickers     string
	stockDir    string
	newsFile    string
	top         int
	trigramFreq int
	trigramTop  int
	xlsx        string
	info        bool
	persist     bool
}

func main() {
	var f flags
	flag.StringVar(&f.tickers, "tickers", "", "Comma-separated tickers (default from DATA_TICKERS)")
	flag.StringVar(&f.stockDir, "stock-dir", "", "Directory with <TICKER>.csv price files")
	flag.StringVar(&f.newsFile, "news", "", "News headlines CSV")
	flag.IntVar(&f.top, "top", -1, "Number of top publishers and words to show")
	flag.IntVar(&f.trigramFreq, "trigram-freq", 0, "Minimum trigram frequency")
	flag.IntVar(&f.trigramTop, "trigram-top", -1, "Number of trigrams to show")
	flag.StringVar(&f.xlsx, "xlsx", "", "Export the report to this .xlsx file")
	flag.BoolVar(&f.info, "info", false, "Print shape, dtypes and statistics of the news dataset")
	flag.BoolVar(&f.persist, "persist", false, "Store results in the configured databases")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, f); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	store := resources.NewStore(cfg.Resources.CacheDir, resources.DefaultFetcher(cfg.Resources.BaseURL, cfg.Resources.Timeout))
	opts := textstats.Options{
		RemoveStopwords:   cfg.Text.RemoveStopwords,
		RemovePunctuation: cfg.Text.RemovePunctuation,
		Lowercase:         cfg.Text.Lowercase,
	}

	var pipelineOpts []analysis.Option
	if f.info {
		pipelineOpts = append(pipelineOpts, analysis.WithInfo(os.Stdout))
	}

	if f.persist || cfg.Database.Enabled || cfg.ClickHouse.Enabled {
		closers, storeOpts, err := initStores(ctx, cfg)
		defer func() {
			for _, c := range closers {
				c.Close()
			}
		}()
		if err != nil {
			return err
		}
		pipelineOpts = append(pipelineOpts, storeOpts...)
	}

	pipeline := analysis.NewPipeline(cfg, sentiment.NewAnalyzer(store), textstats.NewTokenizer(store, opts), pipelineOpts...)

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	if err := result.Report.Print(os.Stdout); err != nil {
		return err
	}

	if cfg.Report.XLSXPath != "" {
		if err := result.Report.WriteXLSX(cfg.Report.XLSXPath); err != nil {
			return err
		}
	}

	return nil
}

func (f flags) apply(cfg *config.Config) {
	if f.tickers != "" {
		cfg.Data.Tickers = strings.Split(f.tickers, ",")
	}
	if f.stockDir != "" {
		cfg.Data.StockDir = f.stockDir
	}
	if f.newsFile != "" {
		cfg.Data.NewsFile = f.newsFile
	}
	if f.top >= 0 {
		cfg.Text.TopPublishers = f.top
		cfg.Text.TopWords = f.top
	}
	if f.trigramFreq > 0 {
		cfg.Text.TrigramFreqFilter = f.trigramFreq
	}
	if f.trigramTop >= 0 {
		cfg.Text.TrigramTopN = f.trigramTop
	}
	if f.xlsx != "" {
		cfg.Report.XLSXPath = f.xlsx
	}
}

// initStores connects the databases enabled in config
func initStores(ctx context.Context, cfg *config.Config) ([]*database.DB, []analysis.Option, error) {
	var closers []*database.DB
	var opts []analysis.Option

	if !cfg.Database.Enabled && !cfg.ClickHouse.Enabled {
		logger.Warn("persistence requested but no database is enabled")
		return nil, nil, nil
	}

	if cfg.Database.Enabled {
		db, err := database.New(&cfg.Database)
		if err != nil {
			return closers, nil, err
		}
		closers = append(closers, db)

		if err := database.RunMigrations(db.Conn(), cfg.Database.MigrationsPath); err != nil {
			return closers, nil, fmt.Errorf("failed to run migrations: %w", err)
		}

		opts = append(opts,
			analysis.WithRunStore(news.NewRepository(db.DB())),
			analysis.WithCorrelationStore(correlation.NewRepository(db.DB())),
		)
	}

	if cfg.ClickHouse.Enabled {
		ch, err := database.NewClickHouse(&cfg.ClickHouse)
		if err != nil {
			return closers, nil, err
		}
		closers = append(closers, ch)

		if err := ch.Health(ctx); err != nil {
			return closers, nil, fmt.Errorf("ClickHouse ping failed: %w", err)
		}

		repo := market.NewRepository(ch.DB())
		if err := repo.EnsureSchema(ctx); err != nil {
			return closers, nil, err
		}
		opts = append(opts, analysis.WithPriceStore(repo))
	}

	logger.Info("persistence enabled",
		zap.Bool("postgres", cfg.Database.Enabled),
		zap.Bool("clickhouse", cfg.ClickHouse.Enabled),
	)

	return closers, opts, nil
}
