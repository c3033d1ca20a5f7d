package models

import "time"

// DailySentiment is the mean compound score of a ticker's headlines on one day
type DailySentiment struct {
	Ticker    string    `json:"ticker"`
	Day       time.Time `json:"day"`
	Mean      float64   `json:"mean"`
	Headlines int       `json:"headlines"`
}

// SentimentReturnCorrelation is the Pearson correlation between a ticker's
// daily mean sentiment and its same-day close-to-close return
type SentimentReturnCorrelation struct {
	Ticker      string  `json:"ticker"`
	Correlation float64 `json:"correlation"`
	SampleSize  int     `json:"sample_size"`
}
