package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisRun identifies one execution of the analysis over a news file
type AnalysisRun struct {
	ID        uuid.UUID `json:"id" db:"id"`
	NewsFile  string    `json:"news_file" db:"news_file"`
	Tickers   []string  `json:"tickers" db:"tickers"`
	Headlines int       `json:"headlines" db:"headlines"`
	MeanScore float64   `json:"mean_score" db:"mean_score"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
