package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/selivandex/newslens/pkg/models"
)

const utf8BOM = "\ufeff"

// ReadFrame reads a CSV file with a header row into a Frame
func ReadFrame(path string) (*models.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	frame, err := ParseFrame(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return frame, nil
}

// ParseFrame parses CSV data with a header row. Blank header cells are named
// "Unnamed: <position>". Short rows are padded; rows wider than the header
// are rejected.
func ParseFrame(r io.Reader) (*models.Frame, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &models.Frame{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}

	frame := &models.Frame{Columns: columns}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(frame.Rows)+1, err)
		}
		if len(rec) > len(columns) {
			return nil, fmt.Errorf("malformed row %d: expected %d fields, saw %d", len(frame.Rows)+1, len(columns), len(rec))
		}

		row := make([]string, len(columns))
		copy(row, rec)
		frame.Rows = append(frame.Rows, row)
	}

	return frame, nil
}

// parseDate parses a date in any common layout. Values without a zone are
// taken as UTC; the result is always in UTC.
func parseDate(value string) (time.Time, error) {
	t, err := dateparse.ParseIn(strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
