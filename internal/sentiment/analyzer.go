package sentiment

import (
	"context"
	"math"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/internal/resources"
	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

const (
	boostIncrement = 0.293
	boostDecrement = -0.293
	capsIncrement  = 0.733
	negationScalar = -0.74

	normalizeAlpha = 15.0

	exclamationWeight = 0.292
	maxExclamations   = 4
	questionWeight    = 0.18
	maxQuestionBoost  = 0.96
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Analyzer scores text with a valence lexicon and the usual heuristics for
// intensity, capitalization, negation, contrast and punctuation.
// The lexicon is loaded from the resource store on first use.
type Analyzer struct {
	store *resources.Store

	mu      sync.Mutex
	lexicon Lexicon

	boosters  map[string]float64
	negations map[string]struct{}
	idioms    map[string]float64
}

// NewAnalyzer creates new analyzer backed by the resource store
func NewAnalyzer(store *resources.Store) *Analyzer {
	return &Analyzer{
		store:     store,
		boosters:  buildBoosterWords(),
		negations: buildNegations(),
		idioms:    buildSpecialIdioms(),
	}
}

// NewAnalyzerWithLexicon creates new analyzer over an already loaded lexicon
func NewAnalyzerWithLexicon(lex Lexicon) *Analyzer {
	a := NewAnalyzer(nil)
	a.lexicon = lex
	return a
}

// Load makes sure the lexicon is available. It is called implicitly by
// PolarityScores; a failed load is retried on the next call.
func (a *Analyzer) Load(ctx context.Context) error {
	_, err := a.ensureLexicon(ctx)
	return err
}

func (a *Analyzer) ensureLexicon(ctx context.Context) (Lexicon, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lexicon != nil {
		return a.lexicon, nil
	}

	lex, err := LoadLexicon(ctx, a.store)
	if err != nil {
		return nil, err
	}

	logger.Debug("sentiment lexicon loaded", zap.Int("entries", len(lex)))
	a.lexicon = lex
	return lex, nil
}

// Compound returns the normalized compound score of text in [-1, 1]
func (a *Analyzer) Compound(ctx context.Context, text string) (float64, error) {
	scores, err := a.PolarityScores(ctx, text)
	if err != nil {
		return 0, err
	}
	return scores.Compound, nil
}

// PolarityScores returns negative, neutral, positive proportions and the
// compound score of text.
func (a *Analyzer) PolarityScores(ctx context.Context, text string) (models.PolarityScores, error) {
	lex, err := a.ensureLexicon(ctx)
	if err != nil {
		return models.PolarityScores{}, err
	}

	words := splitWords(text)
	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	capDiff := allCapDifferential(words)

	sentiments := make([]float64, 0, len(words))
	for i, word := range words {
		if _, ok := a.boosters[lower[i]]; ok {
			sentiments = append(sentiments, 0)
			continue
		}
		if i < len(words)-1 && lower[i] == "kind" && lower[i+1] == "of" {
			sentiments = append(sentiments, 0)
			continue
		}
		sentiments = append(sentiments, a.valence(lex, word, i, words, lower, capDiff))
	}

	butCheck(lower, sentiments)

	return scoreValence(sentiments, text), nil
}

func (a *Analyzer) valence(lex Lexicon, word string, i int, words, lower []string, capDiff bool) float64 {
	base, ok := lex[lower[i]]
	if !ok {
		return 0
	}
	v := base

	// "no" directly before another lexicon word only negates it
	if lower[i] == "no" && i != len(words)-1 {
		if _, next := lex[lower[i+1]]; next {
			v = 0
		}
	}
	if (i > 0 && lower[i-1] == "no") ||
		(i > 1 && lower[i-2] == "no") ||
		(i > 2 && lower[i-3] == "no" && (lower[i-1] == "or" || lower[i-1] == "nor")) {
		v = base * negationScalar
	}

	if capDiff && isUpper(word) {
		if v > 0 {
			v += capsIncrement
		} else {
			v -= capsIncrement
		}
	}

	for start := 0; start < 3; start++ {
		j := i - (start + 1)
		if j < 0 {
			break
		}
		if _, inLex := lex[lower[j]]; inLex {
			continue
		}

		s := a.scalarIncDec(words[j], lower[j], v, capDiff)
		switch {
		case start == 1 && s != 0:
			s *= 0.95
		case start == 2 && s != 0:
			s *= 0.9
		}
		v += s
		v = a.negationCheck(v, lower, start, i)
		if start == 2 {
			v = a.idiomsCheck(v, lower, i)
		}
	}

	return leastCheck(lex, v, lower, i)
}

func (a *Analyzer) scalarIncDec(word, lower string, v float64, capDiff bool) float64 {
	scalar, ok := a.boosters[lower]
	if !ok {
		return 0
	}
	if v < 0 {
		scalar = -scalar
	}
	if capDiff && isUpper(word) {
		if v > 0 {
			scalar += capsIncrement
		} else {
			scalar -= capsIncrement
		}
	}
	return scalar
}

func (a *Analyzer) negated(word string) bool {
	if _, ok := a.negations[word]; ok {
		return true
	}
	return strings.Contains(word, "n't")
}

func (a *Analyzer) negationCheck(v float64, lower []string, start, i int) float64 {
	isSoThis := func(w string) bool { return w == "so" || w == "this" }

	switch start {
	case 0:
		if a.negated(lower[i-1]) {
			v *= negationScalar
		}
	case 1:
		switch {
		case lower[i-2] == "never" && isSoThis(lower[i-1]):
			v *= 1.25
		case lower[i-2] == "without" && lower[i-1] == "doubt":
		case a.negated(lower[i-2]):
			v *= negationScalar
		}
	case 2:
		switch {
		case lower[i-3] == "never" && isSoThis(lower[i-2]), isSoThis(lower[i-1]):
			v *= 1.25
		case lower[i-3] == "without" && (lower[i-2] == "doubt" || lower[i-1] == "doubt"):
		case a.negated(lower[i-3]):
			v *= negationScalar
		}
	}
	return v
}

// idiomsCheck replaces the valence of word i when it ends or starts a known
// idiom, then applies multi-word boosters such as "kind of" preceding it.
// Only called with i >= 3.
func (a *Analyzer) idiomsCheck(v float64, lower []string, i int) float64 {
	join := func(ws ...string) string { return strings.Join(ws, " ") }

	threeTwoOne := join(lower[i-3], lower[i-2], lower[i-1])
	threeTwo := join(lower[i-3], lower[i-2])
	twoOne := join(lower[i-2], lower[i-1])

	preceding := []string{
		join(lower[i-1], lower[i]),
		join(lower[i-2], lower[i-1], lower[i]),
		twoOne,
		threeTwoOne,
		threeTwo,
	}
	for _, seq := range preceding {
		if idiom, ok := a.idioms[seq]; ok {
			v = idiom
			break
		}
	}

	if len(lower)-1 > i {
		if idiom, ok := a.idioms[join(lower[i], lower[i+1])]; ok {
			v = idiom
		}
	}
	if len(lower)-1 > i+1 {
		if idiom, ok := a.idioms[join(lower[i], lower[i+1], lower[i+2])]; ok {
			v = idiom
		}
	}

	for _, gram := range []string{threeTwoOne, threeTwo, twoOne} {
		if scalar, ok := a.boosters[gram]; ok {
			v += scalar
		}
	}
	return v
}

func leastCheck(lex Lexicon, v float64, lower []string, i int) float64 {
	if i > 0 && lower[i-1] == "least" {
		if _, inLex := lex["least"]; inLex {
			return v
		}
		if i > 1 && (lower[i-2] == "at" || lower[i-2] == "very") {
			return v
		}
		v *= negationScalar
	}
	return v
}

// butCheck dampens sentiment before "but" and amplifies it after
func butCheck(lower []string, sentiments []float64) {
	idx := -1
	for i, w := range lower {
		if w == "but" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for i := range sentiments {
		switch {
		case i < idx:
			sentiments[i] *= 0.5
		case i > idx:
			sentiments[i] *= 1.5
		}
	}
}

func scoreValence(sentiments []float64, text string) models.PolarityScores {
	if len(sentiments) == 0 {
		return models.PolarityScores{}
	}

	var sum float64
	for _, s := range sentiments {
		sum += s
	}

	amp := punctuationEmphasis(text)
	if sum > 0 {
		sum += amp
	} else if sum < 0 {
		sum -= amp
	}
	compound := normalize(sum)

	var pos, neg, neu float64
	for _, s := range sentiments {
		switch {
		case s > 0:
			pos += s + 1
		case s < 0:
			neg += s - 1
		default:
			neu++
		}
	}

	if pos > math.Abs(neg) {
		pos += amp
	} else if pos < math.Abs(neg) {
		neg -= amp
	}

	total := pos + math.Abs(neg) + neu
	return models.PolarityScores{
		Negative: round(math.Abs(neg/total), 3),
		Neutral:  round(math.Abs(neu/total), 3),
		Positive: round(math.Abs(pos/total), 3),
		Compound: round(compound, 4),
	}
}

func punctuationEmphasis(text string) float64 {
	exclamations := strings.Count(text, "!")
	if exclamations > maxExclamations {
		exclamations = maxExclamations
	}
	emphasis := float64(exclamations) * exclamationWeight

	questions := strings.Count(text, "?")
	if questions > 1 {
		if questions <= 3 {
			emphasis += float64(questions) * questionWeight
		} else {
			emphasis += maxQuestionBoost
		}
	}
	return emphasis
}

func normalize(score float64) float64 {
	n := score / math.Sqrt(score*score+normalizeAlpha)
	return math.Max(-1, math.Min(1, n))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// splitWords splits on whitespace and strips surrounding punctuation from
// tokens that stay longer than two characters, leaving emoticons intact.
func splitWords(text string) []string {
	fields := strings.Fields(text)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		stripped := strings.Trim(f, punctuation)
		if len(stripped) <= 2 {
			words = append(words, f)
			continue
		}
		words = append(words, stripped)
	}
	return words
}

func allCapDifferential(words []string) bool {
	caps := 0
	for _, w := range words {
		if isUpper(w) {
			caps++
		}
	}
	return caps > 0 && caps < len(words)
}

// isUpper reports whether w has at least one cased letter and no lowercase ones
func isUpper(w string) bool {
	cased := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}
