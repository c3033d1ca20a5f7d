package loader

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
	"github.com/selivandex/newslens/pkg/models"
)

// News CSV column names
const (
	ColUnnamedIndex = "Unnamed: 0"
	ColHeadline     = "headline"
	ColURL          = "url"
	ColPublisher    = "publisher"
	ColNewsDate     = "date"
	ColStock        = "stock"
)

// NewsOptions controls how the news CSV is read
type NewsOptions struct {
	// DropUnnamed removes the "Unnamed: 0" index column left by pandas exports
	DropUnnamed bool
}

// DefaultNewsOptions returns the options used by the analysis workflow
func DefaultNewsOptions() NewsOptions {
	return NewsOptions{DropUnnamed: true}
}

// LoadNewsFrame reads the news CSV. When a date column exists its values are
// parsed in mixed layouts and rewritten as RFC 3339 UTC timestamps.
func LoadNewsFrame(path string, opts NewsOptions) (*models.Frame, error) {
	frame, err := ReadFrame(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load news data: %w", err)
	}

	if opts.DropUnnamed {
		frame = frame.DropColumn(ColUnnamedIndex)
	}

	if frame.HasColumn(ColNewsDate) {
		raw := frame.Column(ColNewsDate)
		normalized := make([]string, len(raw))
		for i, v := range raw {
			if strings.TrimSpace(v) == "" {
				continue
			}
			t, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("failed to parse news date at row %d (%q): %w", i+1, v, err)
			}
			normalized[i] = t.Format(time.RFC3339)
		}
		frame = frame.WithColumn(ColNewsDate, normalized)
	}

	rows, cols := frame.Shape()
	logger.Debug("loaded news data",
		zap.String("path", path),
		zap.Int("rows", rows),
		zap.Int("columns", cols),
	)

	return frame, nil
}

// NewsRecords converts a news frame to typed records
func NewsRecords(frame *models.Frame) ([]models.NewsRecord, error) {
	records := make([]models.NewsRecord, len(frame.Rows))

	for i := range frame.Rows {
		rec := models.NewsRecord{
			Row:       i,
			Headline:  frame.Cell(i, ColHeadline),
			URL:       frame.Cell(i, ColURL),
			Publisher: frame.Cell(i, ColPublisher),
			Stock:     frame.Cell(i, ColStock),
		}

		if v := strings.TrimSpace(frame.Cell(i, ColNewsDate)); v != "" {
			date, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid date %q: %w", i+1, v, err)
			}
			rec.Date = date
		}

		records[i] = rec
	}

	return records, nil
}

// LoadNewsData reads the news CSV straight into typed records
func LoadNewsData(path string, opts NewsOptions) ([]models.NewsRecord, error) {
	frame, err := LoadNewsFrame(path, opts)
	if err != nil {
		return nil, err
	}
	return NewsRecords(frame)
}
