// Package report assembles the analysis results into a single summary that
// can be printed as text or exported as an Excel workbook.
package report

import (
	"embed"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/selivandex/newslens/pkg/models"
	"github.com/selivandex/newslens/pkg/templates"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Input is everything produced by one analysis run
type Input struct {
	NewsFile      string
	Tickers       []string
	Headlines     int
	Publishers    []models.PublisherCount
	Organizations []models.OrganizationCount
	Sentiment     models.SentimentSummary
	Words         []models.WordCount
	Trigrams      []models.ScoredTrigram
	Lengths       []models.HeadlineLength
	Indicators    map[string]*models.IndicatorSnapshot
	Correlations  []models.SentimentReturnCorrelation
}

// CountRow is a labelled count with its share of the total
type CountRow struct {
	Label   string
	Count   int
	Percent float64
}

// LengthStats summarizes headline lengths
type LengthStats struct {
	Count int
	Min   int
	Max   int
	Mean  float64
}

// Report is the assembled result of an analysis run
type Report struct {
	RunID       uuid.UUID
	GeneratedAt time.Time
	NewsFile    string
	Tickers     []string
	Headlines   int

	Publishers    []models.PublisherCount
	Organizations []models.OrganizationCount

	Sentiment  models.SentimentSummary
	Overall    models.SentimentGroup
	Categories []CountRow
	Groups     []CountRow

	Words        []models.WordCount
	Trigrams     []models.ScoredTrigram
	Lengths      LengthStats
	Indicators   []models.IndicatorSnapshot
	Correlations []models.SentimentReturnCorrelation
}

// Build assembles a report with a fresh run id
func Build(in Input) *Report {
	r := &Report{
		RunID:         uuid.New(),
		GeneratedAt:   time.Now().UTC(),
		NewsFile:      in.NewsFile,
		Tickers:       in.Tickers,
		Headlines:     in.Headlines,
		Publishers:    in.Publishers,
		Organizations: in.Organizations,
		Sentiment:     in.Sentiment,
		Overall:       in.Sentiment.OverallGroup(),
		Words:         in.Words,
		Trigrams:      in.Trigrams,
		Lengths:       lengthStats(in.Lengths),
		Correlations:  in.Correlations,
	}

	for _, c := range models.Categories {
		r.Categories = append(r.Categories, countRow(string(c), in.Sentiment.Categories[c], in.Sentiment.Total))
	}
	for _, g := range models.Groups {
		r.Groups = append(r.Groups, countRow(string(g), in.Sentiment.Groups[g], in.Sentiment.Total))
	}

	for _, snap := range in.Indicators {
		if snap != nil {
			r.Indicators = append(r.Indicators, *snap)
		}
	}
	sort.Slice(r.Indicators, func(i, j int) bool {
		return r.Indicators[i].Ticker < r.Indicators[j].Ticker
	})

	return r
}

// Print writes a plain-text summary of the report
func (r *Report) Print(w io.Writer) error {
	m, err := templates.NewManager(templateFS, "templates/*.tmpl")
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if err := m.Render(tw, "report", r); err != nil {
		return err
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func countRow(label string, count, total int) CountRow {
	row := CountRow{Label: label, Count: count}
	if total > 0 {
		row.Percent = float64(count) * 100 / float64(total)
	}
	return row
}

func lengthStats(lengths []models.HeadlineLength) LengthStats {
	if len(lengths) == 0 {
		return LengthStats{}
	}

	stats := LengthStats{Count: len(lengths), Min: lengths[0].Length, Max: lengths[0].Length}
	sum := 0
	for _, l := range lengths {
		sum += l.Length
		stats.Min = min(stats.Min, l.Length)
		stats.Max = max(stats.Max, l.Length)
	}
	stats.Mean = float64(sum) / float64(len(lengths))

	return stats
}
