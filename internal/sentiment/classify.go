package sentiment

import (
	"context"
	"fmt"

	"github.com/selivandex/newslens/pkg/models"
)

// Category thresholds, each the closed lower edge of its bucket
const (
	VeryPositiveThreshold = 0.7
	PositiveThreshold     = 0.1
	NeutralThreshold      = -0.1
	NegativeThreshold     = -0.7
)

// Classify maps a compound score to one of five categories
func Classify(score float64) models.SentimentCategory {
	switch {
	case score >= VeryPositiveThreshold:
		return models.CategoryVeryPositive
	case score >= PositiveThreshold:
		return models.CategoryPositive
	case score >= NeutralThreshold:
		return models.CategoryNeutral
	case score >= NegativeThreshold:
		return models.CategoryNegative
	default:
		return models.CategoryVeryNegative
	}
}

// GroupOf merges the very-* tiers into their neighbours
func GroupOf(category models.SentimentCategory) models.SentimentGroup {
	switch category {
	case models.CategoryVeryPositive, models.CategoryPositive:
		return models.GroupPositive
	case models.CategoryVeryNegative, models.CategoryNegative:
		return models.GroupNegative
	default:
		return models.GroupNeutral
	}
}

// AnalyzeRecords scores every headline and returns one result per record,
// in input order.
func AnalyzeRecords(ctx context.Context, records []models.NewsRecord, analyzer *Analyzer) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(records))

	for _, rec := range records {
		score, err := analyzer.Compound(ctx, rec.Headline)
		if err != nil {
			return nil, fmt.Errorf("failed to score headline at row %d: %w", rec.Row, err)
		}

		category := Classify(score)
		results = append(results, models.SentimentResult{
			Headline: rec.Headline,
			Category: category,
			Group:    GroupOf(category),
			Score:    score,
			Row:      rec.Row,
		})
	}

	return results, nil
}

// Summarize counts results per category and group and averages their scores
func Summarize(results []models.SentimentResult) models.SentimentSummary {
	summary := models.SentimentSummary{
		Categories: make(map[models.SentimentCategory]int, len(models.Categories)),
		Groups:     make(map[models.SentimentGroup]int, len(models.Groups)),
	}
	for _, c := range models.Categories {
		summary.Categories[c] = 0
	}
	for _, g := range models.Groups {
		summary.Groups[g] = 0
	}

	var sum float64
	for _, r := range results {
		summary.Categories[r.Category]++
		summary.Groups[r.Group]++
		sum += r.Score
	}

	summary.Total = len(results)
	if summary.Total > 0 {
		summary.Mean = sum / float64(summary.Total)
	}

	return summary
}
