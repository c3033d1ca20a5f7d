package sentiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/selivandex/newslens/internal/resources"
)

// Lexicon maps a lowercase token to its mean valence rating
type Lexicon map[string]float64

// ParseLexicon parses lexicon lines of the form
// token TAB mean TAB std TAB raw-ratings. Only the first two fields are used.
func ParseLexicon(lines []string) (Lexicon, error) {
	lex := make(Lexicon, len(lines))

	for i, line := range lines {
		fields := strings.Split(strings.TrimRight(line, "\r\n"), "\t")
		if len(fields) < 2 {
			return nil, fmt.Errorf("lexicon line %d: expected token and valence, got %q", i+1, line)
		}

		valence, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("lexicon line %d: invalid valence %q: %w", i+1, fields[1], err)
		}

		lex[strings.ToLower(fields[0])] = valence
	}

	return lex, nil
}

// LoadLexicon reads the sentiment lexicon from the resource store, fetching
// it on the first miss.
func LoadLexicon(ctx context.Context, store *resources.Store) (Lexicon, error) {
	lines, err := store.Lines(ctx, resources.VaderLexicon)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentiment lexicon: %w", err)
	}

	lex, err := ParseLexicon(lines)
	if err != nil {
		return nil, fmt.Errorf("failed to parse sentiment lexicon: %w", err)
	}

	return lex, nil
}

// buildBoosterWords returns intensity modifiers and their scalar
func buildBoosterWords() map[string]float64 {
	words := map[string]float64{}

	incr := []string{
		"absolutely", "amazingly", "awfully", "completely", "considerable", "considerably",
		"decidedly", "deeply", "effing", "enormous", "enormously", "entirely", "especially",
		"exceptional", "exceptionally", "extreme", "extremely", "fabulously", "flipping",
		"flippin", "frackin", "fracking", "fricking", "frickin", "frigging", "friggin",
		"fully", "fuckin", "fucking", "fuggin", "fugging", "greatly", "hella", "highly",
		"hugely", "incredible", "incredibly", "intensely", "major", "majorly", "more",
		"most", "particularly", "purely", "quite", "really", "remarkably", "so",
		"substantially", "thoroughly", "total", "totally", "tremendous", "tremendously",
		"uber", "unbelievably", "unusually", "utter", "utterly", "very",
	}
	for _, w := range incr {
		words[w] = boostIncrement
	}

	decr := []string{
		"almost", "barely", "hardly", "just enough", "kind of", "kinda", "kindof",
		"kind-of", "less", "little", "marginal", "marginally", "occasional",
		"occasionally", "partly", "scarce", "scarcely", "slight", "slightly",
		"somewhat", "sort of", "sorta", "sortof", "sort-of",
	}
	for _, w := range decr {
		words[w] = boostDecrement
	}

	return words
}

// buildSpecialIdioms returns multi-word phrases whose valence replaces the
// valence of the lexicon word they contain
func buildSpecialIdioms() map[string]float64 {
	return map[string]float64{
		"the shit":      3,
		"the bomb":      3,
		"bad ass":       1.5,
		"badass":        1.5,
		"bus stop":      0,
		"yeah right":    -2,
		"kiss of death": -1.5,
		"to die for":    3,
		"beating heart": 3.1,
		"broken heart":  -2.9,
	}
}

// buildNegations returns words that flip the valence of what follows
func buildNegations() map[string]struct{} {
	list := []string{
		"aint", "arent", "cannot", "cant", "couldnt", "darent", "didnt", "doesnt",
		"ain't", "aren't", "can't", "couldn't", "daren't", "didn't", "doesn't",
		"dont", "hadnt", "hasnt", "havent", "isnt", "mightnt", "mustnt", "neither",
		"don't", "hadn't", "hasn't", "haven't", "isn't", "mightn't", "mustn't",
		"neednt", "needn't", "never", "none", "nope", "nor", "not", "nothing", "nowhere",
		"oughtnt", "shant", "shouldnt", "uhuh", "wasnt", "werent",
		"oughtn't", "shan't", "shouldn't", "uh-uh", "wasn't", "weren't",
		"without", "wont", "wouldnt", "won't", "wouldn't", "rarely", "seldom", "despite",
	}

	words := make(map[string]struct{}, len(list))
	for _, w := range list {
		words[w] = struct{}{}
	}
	return words
}
