package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/selivandex/newslens/pkg/logger"
)

// Sheet names of the exported workbook
const (
	SheetSummary       = "Summary"
	SheetPublishers    = "Publishers"
	SheetOrganizations = "Organizations"
	SheetSentiment     = "Sentiment"
	SheetWords         = "Words"
	SheetTrigrams      = "Trigrams"
	SheetIndicators    = "Indicators"
	SheetCorrelations  = "Correlations"
)

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteXLSX writes the report as a workbook with one sheet per section
func (r *Report) WriteXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range r.sheets() {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.name, err)
		}

		if err := writeRows(f, s); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	logger.Info("report exported", zap.String("path", path))
	return nil
}

func writeRows(f *excelize.File, s sheet) error {
	all := append([][]interface{}{s.header}, s.rows...)
	for i, row := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", s.name, i+1, err)
		}
	}
	return nil
}

func (r *Report) sheets() []sheet {
	summary := sheet{
		name:   SheetSummary,
		header: []interface{}{"field", "value"},
		rows: [][]interface{}{
			{"run_id", r.RunID.String()},
			{"generated_at", r.GeneratedAt.Format("2006-01-02 15:04:05")},
			{"news_file", r.NewsFile},
			{"tickers", strings.Join(r.Tickers, ",")},
			{"headlines", r.Headlines},
			{"mean_score", r.Sentiment.Mean},
			{"overall", string(r.Overall)},
			{"headline_length_min", r.Lengths.Min},
			{"headline_length_mean", r.Lengths.Mean},
			{"headline_length_max", r.Lengths.Max},
		},
	}

	publishers := sheet{name: SheetPublishers, header: []interface{}{"publisher", "count"}}
	for _, p := range r.Publishers {
		publishers.rows = append(publishers.rows, []interface{}{p.Publisher, p.Count})
	}

	organizations := sheet{name: SheetOrganizations, header: []interface{}{"organization", "count"}}
	for _, o := range r.Organizations {
		organizations.rows = append(organizations.rows, []interface{}{o.Organization, o.Count})
	}

	sentiment := sheet{name: SheetSentiment, header: []interface{}{"kind", "label", "count", "percent"}}
	for _, c := range r.Categories {
		sentiment.rows = append(sentiment.rows, []interface{}{"category", c.Label, c.Count, c.Percent})
	}
	for _, g := range r.Groups {
		sentiment.rows = append(sentiment.rows, []interface{}{"group", g.Label, g.Count, g.Percent})
	}

	words := sheet{name: SheetWords, header: []interface{}{"word", "count"}}
	for _, w := range r.Words {
		words.rows = append(words.rows, []interface{}{w.Word, w.Count})
	}

	trigrams := sheet{name: SheetTrigrams, header: []interface{}{"trigram", "count", "pmi"}}
	for _, t := range r.Trigrams {
		trigrams.rows = append(trigrams.rows, []interface{}{t.Trigram.String(), t.Count, t.PMI})
	}

	indicators := sheet{
		name:   SheetIndicators,
		header: []interface{}{"ticker", "as_of", "close", "sma_20", "ema_20", "rsi_14", "macd", "macd_signal", "macd_hist", "atr_14", "trend"},
	}
	for _, s := range r.Indicators {
		indicators.rows = append(indicators.rows, []interface{}{
			s.Ticker,
			s.AsOf.Format("2006-01-02"),
			s.Close.InexactFloat64(),
			s.SMA20.InexactFloat64(),
			s.EMA20.InexactFloat64(),
			s.RSI14.InexactFloat64(),
			s.MACD.InexactFloat64(),
			s.MACDSignal.InexactFloat64(),
			s.MACDHist.InexactFloat64(),
			s.ATR14.InexactFloat64(),
			s.Trend,
		})
	}

	correlations := sheet{name: SheetCorrelations, header: []interface{}{"ticker", "correlation", "sample_size"}}
	for _, c := range r.Correlations {
		correlations.rows = append(correlations.rows, []interface{}{c.Ticker, c.Correlation, c.SampleSize})
	}

	return []sheet{summary, publishers, organizations, sentiment, words, trigrams, indicators, correlations}
}
