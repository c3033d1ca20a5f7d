package news

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

// Repository stores analysis runs and scored headlines in PostgreSQL
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates new news repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// CreateRun inserts an analysis run
func (r *Repository) CreateRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, news_file, tickers, headlines, mean_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`,
		run.ID,
		run.NewsFile,
		pq.Array(run.Tickers),
		run.Headlines,
		run.MeanScore,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}

	return nil
}

// GetRun retrieves an analysis run by id
func (r *Repository) GetRun(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	var tickers pq.StringArray

	err := r.db.QueryRowContext(ctx, `
		SELECT id, news_file, tickers, headlines, mean_score, created_at
		FROM analysis_runs
		WHERE id = $1
	`, id).Scan(&run.ID, &run.NewsFile, &tickers, &run.Headlines, &run.MeanScore, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("analysis run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis run: %w", err)
	}

	run.Tickers = tickers
	return &run, nil
}

// SaveResults stores the sentiment of every headline of a run (upsert by
// run and row). Results are matched to news records by row.
func (r *Repository) SaveResults(ctx context.Context, runID uuid.UUID, news []models.NewsRecord, results []models.SentimentResult) (int, error) {
	if len(results) == 0 {
		return 0, nil
	}

	byRow := make(map[int]models.NewsRecord, len(news))
	for _, rec := range news {
		byRow[rec.Row] = rec
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO headline_sentiment (
			run_id, row_num, headline, publisher, organization, stock,
			published_at, score, category, sentiment_group
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (run_id, row_num) DO UPDATE SET
			score = EXCLUDED.score,
			category = EXCLUDED.category,
			sentiment_group = EXCLUDED.sentiment_group
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	saved := 0
	for _, res := range results {
		rec := byRow[res.Row]

		var publishedAt interface{}
		if !rec.Date.IsZero() {
			publishedAt = rec.Date
		}

		if _, err := stmt.ExecContext(ctx,
			runID,
			res.Row,
			res.Headline,
			rec.Publisher,
			rec.Organization,
			rec.Stock,
			publishedAt,
			res.Score,
			string(res.Category),
			string(res.Group),
		); err != nil {
			return saved, fmt.Errorf("failed to save headline at row %d: %w", res.Row, err)
		}
		saved++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	logger.Debug("saved headline sentiment",
		zap.String("run_id", runID.String()),
		zap.Int("count", saved),
	)

	return saved, nil
}

// GetResults retrieves the scored headlines of a run in row order
func (r *Repository) GetResults(ctx context.Context, runID uuid.UUID) ([]models.SentimentResult, error) {
	results := []models.SentimentResult{}

	err := r.db.SelectContext(ctx, &results, `
		SELECT row_num, headline, score, category, sentiment_group
		FROM headline_sentiment
		WHERE run_id = $1
		ORDER BY row_num
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query headline sentiment: %w", err)
	}

	return results, nil
}

// CategoryCounts returns the number of headlines per category of a run
func (r *Repository) CategoryCounts(ctx context.Context, runID uuid.UUID) (map[models.SentimentCategory]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT category, COUNT(*)
		FROM headline_sentiment
		WHERE run_id = $1
		GROUP BY category
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.SentimentCategory]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[models.SentimentCategory(category)] = count
	}

	return counts, rows.Err()
}
