package textstats

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selivandex/newslens/internal/resources"
	"github.com/selivandex/newslens/pkg/models"
)

func newTestTokenizer(t *testing.T) *Tokenizer {
	t.Helper()
	store := resources.NewStore(t.TempDir(), resources.EmbeddedFetcher{})
	return NewTokenizer(store, DefaultOptions())
}

func TestTokenizer_Tokens(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "headline", text: "Markets soar to new highs!", expected: []string{"markets", "soar", "new", "highs"}},
		{name: "empty", text: "", expected: []string{}},
		{name: "only stopwords", text: "The and of", expected: []string{}},
		{name: "digits dropped", text: "Apple beats Q3 estimates by 10%", expected: []string{"apple", "beats", "estimates"}},
		{name: "multiple sentences", text: "Stocks fall. Markets rise", expected: []string{"stocks", "fall", "markets", "rise"}},
		{name: "ellipsis", text: "Stocks fall... markets rise", expected: []string{"stocks", "fall", "markets", "rise"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := tokenizer.Tokens(ctx, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tokens)
		})
	}
}

func TestTokenizer_KeepStopwordsAndCase(t *testing.T) {
	tokenizer := NewTokenizerWithStopwords(nil, Options{RemovePunctuation: true})

	tokens, err := tokenizer.Tokens(context.Background(), "Markets soar to new highs!")
	require.NoError(t, err)
	assert.Equal(t, []string{"Markets", "soar", "to", "new", "highs"}, tokens)
}

func TestTokenizer_SentenceFinalWords(t *testing.T) {
	tokenizer := NewTokenizerWithStopwords([]string{"to", "the", "a"}, DefaultOptions())

	tokens, err := tokenizer.Tokens(context.Background(), "Stocks fall. Markets rise")
	require.NoError(t, err)
	assert.Equal(t, []string{"stocks", "fall", "markets", "rise"}, tokens)

	tokens, err = tokenizer.Tokens(context.Background(), "Apple beats. Tesla slips. Amazon holds.")
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "beats", "tesla", "slips", "amazon", "holds"}, tokens)
}

func TestTokenizer_StopwordLoadFailure(t *testing.T) {
	store := resources.NewStore(t.TempDir(), resources.FetcherFunc(func(ctx context.Context, name string) ([]byte, error) {
		return nil, errors.New("offline")
	}))
	tokenizer := NewTokenizer(store, DefaultOptions())

	_, err := tokenizer.Tokens(context.Background(), "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offline")
}

func TestTokenizer_StopwordsFetchedOnce(t *testing.T) {
	calls := 0
	store := resources.NewStore(t.TempDir(), resources.FetcherFunc(func(ctx context.Context, name string) ([]byte, error) {
		calls++
		return []byte("to\nthe\n"), nil
	}))
	tokenizer := NewTokenizer(store, DefaultOptions())
	ctx := context.Background()

	all, err := tokenizer.TokenizeAll(ctx, []string{"Go to the moon", "back to earth"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"go", "moon"}, {"back", "earth"}}, all)
	assert.Equal(t, 1, calls)
}

func TestWordFrequencies(t *testing.T) {
	tokenizer := newTestTokenizer(t)
	headlines := []string{
		"Stocks rally as markets soar",
		"Markets slip while stocks hold",
		"Stocks soar again",
	}

	all, err := WordFrequencies(context.Background(), tokenizer, headlines, 0)
	require.NoError(t, err)

	require.NotEmpty(t, all)
	assert.Equal(t, models.WordCount{Word: "stocks", Count: 3}, all[0])
	assert.Equal(t, models.WordCount{Word: "markets", Count: 2}, all[1])
	assert.Equal(t, models.WordCount{Word: "soar", Count: 2}, all[2])

	total := 0
	for _, h := range headlines {
		tokens, err := tokenizer.Tokens(context.Background(), h)
		require.NoError(t, err)
		total += len(tokens)
	}
	sum := 0
	for _, wc := range all {
		sum += wc.Count
	}
	assert.Equal(t, total, sum)

	top, err := WordFrequencies(context.Background(), tokenizer, headlines, 2)
	require.NoError(t, err)
	assert.Equal(t, all[:2], top)
}

func TestTrigrams(t *testing.T) {
	tokenized := [][]string{
		{"a", "b", "c", "a", "b"},
		{"c", "a", "b", "c"},
	}

	t.Run("frequency floor", func(t *testing.T) {
		got := Trigrams(tokenized, 3, 50)
		require.Len(t, got, 1)
		assert.Equal(t, models.Trigram{"a", "b", "c"}, got[0].Trigram)
		assert.Equal(t, 3, got[0].Count)
		assert.InDelta(t, math.Log2(9), got[0].PMI, 1e-9)
	})

	t.Run("ordering and top n", func(t *testing.T) {
		got := Trigrams(tokenized, 2, 0)
		require.Len(t, got, 3)
		assert.Equal(t, "a b c", got[0].Trigram.String())
		assert.Equal(t, "b c a", got[1].Trigram.String())
		assert.Equal(t, "c a b", got[2].Trigram.String())
		assert.InDelta(t, got[1].PMI, got[2].PMI, 1e-12)

		for _, tg := range got {
			assert.GreaterOrEqual(t, tg.Count, 2)
		}

		top := Trigrams(tokenized, 2, 2)
		assert.Equal(t, got[:2], top)
	})

	t.Run("too few words", func(t *testing.T) {
		assert.Empty(t, Trigrams([][]string{{"a", "b"}}, 1, 10))
		assert.Empty(t, Trigrams(nil, 1, 10))
	})
}

func TestHeadlineLengths(t *testing.T) {
	records := []models.NewsRecord{
		{Row: 0, Headline: "Markets soar"},
		{Row: 3, Headline: ""},
		{Row: 4, Headline: "Café déjà vu"},
	}

	assert.Equal(t, []models.HeadlineLength{
		{Row: 0, Length: 12},
		{Row: 3, Length: 0},
		{Row: 4, Length: 12},
	}, HeadlineLengths(records))
}

func TestCountTokens(t *testing.T) {
	got := CountTokens([][]string{{"b", "a"}, {"a", "c", "b"}, {}}, 0)
	assert.Equal(t, []models.WordCount{
		{Word: "b", Count: 2},
		{Word: "a", Count: 2},
		{Word: "c", Count: 1},
	}, got)

	assert.Empty(t, CountTokens(nil, 5))
}
