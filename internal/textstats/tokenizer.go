// Package textstats tokenizes headlines and computes word frequencies,
// collocated trigrams and headline lengths.
package textstats

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/jdkato/prose/tokenize"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/selivandex/newslens/internal/resources"
	"github.com/selivandex/newslens/pkg/logger"
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Options controls token filtering
type Options struct {
	RemoveStopwords   bool
	RemovePunctuation bool
	Lowercase         bool
}

// DefaultOptions enables every filter
func DefaultOptions() Options {
	return Options{
		RemoveStopwords:   true,
		RemovePunctuation: true,
		Lowercase:         true,
	}
}

// Tokenizer splits text into sentences, each sentence into Penn Treebank
// word tokens, and keeps the alphabetic ones. The stopword list is read from the resource store the
// first time it is needed.
type Tokenizer struct {
	store    *resources.Store
	opts     Options
	treebank  *tokenize.TreebankWordTokenizer
	sentences *tokenize.PunktSentenceTokenizer

	mu        sync.RWMutex
	stopwords map[string]bool
}

// NewTokenizer creates new tokenizer
func NewTokenizer(store *resources.Store, opts Options) *Tokenizer {
	return &Tokenizer{
		store:    store,
		opts:     opts,
		treebank:  tokenize.NewTreebankWordTokenizer(),
		sentences: tokenize.NewPunktSentenceTokenizer(),
	}
}

// NewTokenizerWithStopwords creates new tokenizer over a fixed stopword list
func NewTokenizerWithStopwords(stopwords []string, opts Options) *Tokenizer {
	t := NewTokenizer(nil, opts)
	t.stopwords = toSet(stopwords)
	return t
}

func (t *Tokenizer) loadStopwords(ctx context.Context) (map[string]bool, error) {
	t.mu.RLock()
	words := t.stopwords
	t.mu.RUnlock()
	if words != nil {
		return words, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopwords != nil {
		return t.stopwords, nil
	}

	lines, err := t.store.Lines(ctx, resources.EnglishStopwords)
	if err != nil {
		return nil, fmt.Errorf("failed to load stopwords: %w", err)
	}

	t.stopwords = toSet(lines)
	logger.Debug("stopwords loaded", zap.Int("count", len(t.stopwords)))
	return t.stopwords, nil
}

// Tokens returns the cleaned tokens of text. Empty text yields no tokens.
func (t *Tokenizer) Tokens(ctx context.Context, text string) ([]string, error) {
	var stopwords map[string]bool
	if t.opts.RemoveStopwords {
		var err error
		if stopwords, err = t.loadStopwords(ctx); err != nil {
			return nil, err
		}
	}

	var raw []string
	for _, sentence := range t.sentences.Tokenize(norm.NFKC.String(text)) {
		if t.opts.Lowercase {
			sentence = strings.ToLower(sentence)
		}
		raw = append(raw, t.treebank.Tokenize(sentence)...)
	}

	tokens := make([]string, 0, len(raw))
	for _, token := range raw {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if t.opts.RemoveStopwords && stopwords[token] {
			continue
		}
		if t.opts.RemovePunctuation && isPunctuation(token) {
			continue
		}
		if !isAlpha(token) {
			continue
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

// TokenizeAll tokenizes every headline, keeping one token slice per headline
func (t *Tokenizer) TokenizeAll(ctx context.Context, headlines []string) ([][]string, error) {
	out := make([][]string, len(headlines))
	for i, h := range headlines {
		tokens, err := t.Tokens(ctx, h)
		if err != nil {
			return nil, err
		}
		out[i] = tokens
	}
	return out, nil
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w != "" {
			set[w] = true
		}
	}
	return set
}

func isPunctuation(token string) bool {
	return len(token) == 1 && strings.ContainsRune(punctuation, rune(token[0]))
}

// isAlpha reports whether token is non-empty and made of letters only
func isAlpha(token string) bool {
	if token == "" {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
