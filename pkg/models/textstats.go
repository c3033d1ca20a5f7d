package models

import (
	"strings"
)

// WordCount is a token and its frequency
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// Trigram is a contiguous sequence of three tokens
type Trigram [3]string

// String joins the trigram tokens with spaces
func (t Trigram) String() string {
	return strings.Join(t[:], " ")
}

// ScoredTrigram is a trigram ranked by pointwise mutual information
type ScoredTrigram struct {
	Trigram Trigram `json:"trigram"`
	Count   int     `json:"count"`
	PMI     float64 `json:"pmi"`
}
