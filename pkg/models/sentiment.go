package models

// SentimentCategory is the five-way ordinal sentiment bucket
type SentimentCategory string

const (
	CategoryVeryPositive SentimentCategory = "very-positive"
	CategoryPositive     SentimentCategory = "positive"
	CategoryNeutral      SentimentCategory = "neutral"
	CategoryNegative     SentimentCategory = "negative"
	CategoryVeryNegative SentimentCategory = "very-negative"
)

// Categories lists the five categories from most positive to most negative
var Categories = []SentimentCategory{
	CategoryVeryPositive,
	CategoryPositive,
	CategoryNeutral,
	CategoryNegative,
	CategoryVeryNegative,
}

// SentimentGroup is the three-way collapse of SentimentCategory
type SentimentGroup string

const (
	GroupPositive SentimentGroup = "positive"
	GroupNeutral  SentimentGroup = "neutral"
	GroupNegative SentimentGroup = "negative"
)

// Groups lists the three groups from positive to negative
var Groups = []SentimentGroup{GroupPositive, GroupNeutral, GroupNegative}

// PolarityScores is the full lexicon scorer output for a text
type PolarityScores struct {
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Positive float64 `json:"pos"`
	Compound float64 `json:"compound"`
}

// SentimentResult is the sentiment derived from one NewsRecord
type SentimentResult struct {
	Headline string            `json:"headline" db:"headline"`
	Category SentimentCategory `json:"category" db:"category"`
	Group    SentimentGroup    `json:"group" db:"sentiment_group"`
	Score    float64           `json:"score" db:"score"`
	Row      int               `json:"row" db:"row_num"`
}

// SentimentSummary aggregates a set of SentimentResult
type SentimentSummary struct {
	Categories map[SentimentCategory]int `json:"categories"`
	Groups     map[SentimentGroup]int    `json:"groups"`
	Total      int                       `json:"total"`
	Mean       float64                   `json:"mean"`
}

// OverallGroup returns the group of the mean score using the neutral band
func (s *SentimentSummary) OverallGroup() SentimentGroup {
	if s.Mean >= 0.1 {
		return GroupPositive
	} else if s.Mean >= -0.1 {
		return GroupNeutral
	}
	return GroupNegative
}
