package textstats

import (
	"context"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/selivandex/newslens/pkg/models"
)

// WordFrequencies tokenizes every headline and counts the tokens, most
// frequent first. Ties keep the order in which words were first seen.
// topN <= 0 returns every word.
func WordFrequencies(ctx context.Context, tokenizer *Tokenizer, headlines []string, topN int) ([]models.WordCount, error) {
	tokenized, err := tokenizer.TokenizeAll(ctx, headlines)
	if err != nil {
		return nil, err
	}
	return CountTokens(tokenized, topN), nil
}

// CountTokens counts already tokenized headlines the same way as
// WordFrequencies
func CountTokens(tokenized [][]string, topN int) []models.WordCount {
	counts := make(map[string]int)
	var order []string

	for _, tokens := range tokenized {
		for _, tok := range tokens {
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}

	result := make([]models.WordCount, len(order))
	for i, w := range order {
		result[i] = models.WordCount{Word: w, Count: counts[w]}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if topN > 0 && topN < len(result) {
		result = result[:topN]
	}
	return result
}

// Trigrams ranks contiguous trigrams across all token lists by pointwise
// mutual information. The lists are concatenated first, so a trigram may
// span two headlines. Trigrams seen fewer than freqFilter times are dropped.
// Equal scores are ordered by the trigram tokens. topN <= 0 returns all.
func Trigrams(tokenized [][]string, freqFilter, topN int) []models.ScoredTrigram {
	var words []string
	for _, tokens := range tokenized {
		words = append(words, tokens...)
	}

	unigrams := make(map[string]int, len(words))
	for _, w := range words {
		unigrams[w]++
	}

	trigrams := make(map[models.Trigram]int)
	for i := 0; i+2 < len(words); i++ {
		trigrams[models.Trigram{words[i], words[i+1], words[i+2]}]++
	}

	n := float64(len(words))
	scored := make([]models.ScoredTrigram, 0, len(trigrams))
	for tg, count := range trigrams {
		if count < freqFilter {
			continue
		}
		marginals := float64(unigrams[tg[0]]) * float64(unigrams[tg[1]]) * float64(unigrams[tg[2]])
		scored = append(scored, models.ScoredTrigram{
			Trigram: tg,
			Count:   count,
			PMI:     math.Log2(float64(count)*n*n) - math.Log2(marginals),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].PMI != scored[j].PMI {
			return scored[i].PMI > scored[j].PMI
		}
		return lessTrigram(scored[i].Trigram, scored[j].Trigram)
	})

	if topN > 0 && topN < len(scored) {
		scored = scored[:topN]
	}
	return scored
}

func lessTrigram(a, b models.Trigram) bool {
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

// HeadlineLengths returns the character count of each headline
func HeadlineLengths(records []models.NewsRecord) []models.HeadlineLength {
	lengths := make([]models.HeadlineLength, len(records))
	for i, r := range records {
		lengths[i] = models.HeadlineLength{Row: r.Row, Length: utf8.RuneCountInString(r.Headline)}
	}
	return lengths
}
