package sentiment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/newslens/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		score    float64
		expected models.SentimentCategory
	}{
		{1.0, models.CategoryVeryPositive},
		{0.7, models.CategoryVeryPositive},
		{0.6999, models.CategoryPositive},
		{0.1, models.CategoryPositive},
		{0.0999, models.CategoryNeutral},
		{0.0, models.CategoryNeutral},
		{-0.1, models.CategoryNeutral},
		{-0.1001, models.CategoryNegative},
		{-0.7, models.CategoryNegative},
		{-0.7001, models.CategoryVeryNegative},
		{-1.0, models.CategoryVeryNegative},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.score), "score %v", tt.score)
	}
}

func TestGroupOf(t *testing.T) {
	assert.Equal(t, models.GroupPositive, GroupOf(models.CategoryVeryPositive))
	assert.Equal(t, models.GroupPositive, GroupOf(models.CategoryPositive))
	assert.Equal(t, models.GroupNeutral, GroupOf(models.CategoryNeutral))
	assert.Equal(t, models.GroupNegative, GroupOf(models.CategoryNegative))
	assert.Equal(t, models.GroupNegative, GroupOf(models.CategoryVeryNegative))
}

func TestAnalyzeRecords(t *testing.T) {
	analyzer := NewAnalyzerWithLexicon(testLexicon())
	records := []models.NewsRecord{
		{Row: 0, Headline: "great great great results"},
		{Row: 1, Headline: "quarterly report filed"},
		{Row: 5, Headline: "bad quarter"},
	}

	results, err := AnalyzeRecords(context.Background(), records, analyzer)
	require.NoError(t, err)
	require.Len(t, results, len(records))

	for i, r := range results {
		assert.Equal(t, records[i].Row, r.Row)
		assert.Equal(t, records[i].Headline, r.Headline)
		assert.Equal(t, Classify(r.Score), r.Category)
		assert.Equal(t, GroupOf(r.Category), r.Group)
	}

	assert.Equal(t, models.CategoryVeryPositive, results[0].Category)
	assert.Equal(t, models.GroupPositive, results[0].Group)
	assert.Equal(t, models.CategoryNeutral, results[1].Category)
	assert.Equal(t, models.GroupNegative, results[2].Group)
}

func TestAnalyzeRecords_Empty(t *testing.T) {
	results, err := AnalyzeRecords(context.Background(), nil, NewAnalyzerWithLexicon(testLexicon()))
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarize(t *testing.T) {
	results := []models.SentimentResult{
		{Score: 0.8, Category: models.CategoryVeryPositive, Group: models.GroupPositive},
		{Score: 0.2, Category: models.CategoryPositive, Group: models.GroupPositive},
		{Score: -0.4, Category: models.CategoryNegative, Group: models.GroupNegative},
		{Score: 0.0, Category: models.CategoryNeutral, Group: models.GroupNeutral},
	}

	summary := Summarize(results)
	assert.Equal(t, 4, summary.Total)
	assert.InDelta(t, 0.15, summary.Mean, 1e-9)
	assert.Equal(t, 1, summary.Categories[models.CategoryVeryPositive])
	assert.Equal(t, 0, summary.Categories[models.CategoryVeryNegative])
	assert.Equal(t, 2, summary.Groups[models.GroupPositive])
	assert.Equal(t, models.GroupPositive, summary.OverallGroup())

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Len(t, empty.Categories, len(models.Categories))
	assert.Equal(t, models.GroupNeutral, empty.OverallGroup())
}
