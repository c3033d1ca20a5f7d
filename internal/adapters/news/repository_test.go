package news

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/newslens/internal/adapters/database/dbtest"
	"github.com/selivandex/newslens/pkg/models"
)

func TestRepository_RunLifecycle(t *testing.T) {
	db := dbtest.Postgres(t)
	repo := NewRepository(db.DB())
	ctx := context.Background()

	run := &models.AnalysisRun{
		ID:        uuid.New(),
		NewsFile:  "news.csv",
		Tickers:   []string{"AAPL", "TSLA"},
		Headlines: 2,
		MeanScore: 0.04,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, repo.CreateRun(ctx, run))
	t.Cleanup(func() { dbtest.DeleteRun(t, db, run.ID) })

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Tickers, got.Tickers)
	assert.Equal(t, run.Headlines, got.Headlines)
	assert.True(t, run.CreatedAt.Equal(got.CreatedAt))

	news, results := dbtest.SentimentFixture()
	saved, err := repo.SaveResults(ctx, run.ID, news, results)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	// saving again updates in place
	saved, err = repo.SaveResults(ctx, run.ID, news, results)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	stored, err := repo.GetResults(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, results, stored)

	counts, err := repo.CategoryCounts(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, map[models.SentimentCategory]int{
		models.CategoryPositive: 1,
		models.CategoryNegative: 1,
	}, counts)
}

func TestRepository_GetRunNotFound(t *testing.T) {
	db := dbtest.Postgres(t)
	repo := NewRepository(db.DB())

	_, err := repo.GetRun(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
