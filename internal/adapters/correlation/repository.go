package correlation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/selivandex/newslens/pkg/models"
)

// Repository handles database operations for sentiment/return correlations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new correlation repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// SaveCorrelations stores the correlations computed in a run
func (r *Repository) SaveCorrelations(ctx context.Context, runID uuid.UUID, correlations []models.SentimentReturnCorrelation) error {
	if len(correlations) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, corr := range correlations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO sentiment_return_correlations (run_id, ticker, correlation, sample_size, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (run_id, ticker) DO UPDATE SET
				correlation = EXCLUDED.correlation,
				sample_size = EXCLUDED.sample_size
		`, runID, corr.Ticker, corr.Correlation, corr.SampleSize, now)
		if err != nil {
			return fmt.Errorf("failed to save correlation for %s: %w", corr.Ticker, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return nil
}

// GetCorrelations retrieves the correlations of a run ordered by ticker
func (r *Repository) GetCorrelations(ctx context.Context, runID uuid.UUID) ([]models.SentimentReturnCorrelation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ticker, correlation, sample_size
		FROM sentiment_return_correlations
		WHERE run_id = $1
		ORDER BY ticker
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlations: %w", err)
	}
	defer rows.Close()

	var correlations []models.SentimentReturnCorrelation
	for rows.Next() {
		var corr models.SentimentReturnCorrelation
		if err := rows.Scan(&corr.Ticker, &corr.Correlation, &corr.SampleSize); err != nil {
			return nil, fmt.Errorf("failed to scan correlation: %w", err)
		}
		correlations = append(correlations, corr)
	}

	return correlations, rows.Err()
}
