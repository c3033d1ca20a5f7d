package loader

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/selivandex/newslens/pkg/models"
)

// Column kinds reported by DataInfo, named after their pandas dtypes
const (
	KindInt      = "int64"
	KindFloat    = "float64"
	KindDatetime = "datetime64"
	KindObject   = "object"
)

// ColumnInfo captures the inferred type and statistics of one column
type ColumnInfo struct {
	Name    string
	Kind    string
	NonNull int
	Missing int

	// Numeric columns only
	Mean, Std, Min, Q25, Median, Q75, Max float64

	// Object columns only
	Unique  int
	Top     string
	TopFreq int
}

// Numeric reports whether the column holds integers or floats
func (c ColumnInfo) Numeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// Info summarizes a frame
type Info struct {
	Rows    int
	Columns []ColumnInfo
}

// Describe infers column kinds and computes summary statistics
func Describe(frame *models.Frame) *Info {
	rows, _ := frame.Shape()
	info := &Info{Rows: rows, Columns: make([]ColumnInfo, len(frame.Columns))}

	for i, name := range frame.Columns {
		info.Columns[i] = describeColumn(name, frame.Column(name))
	}

	return info
}

// DataInfo prints shape, columns, dtypes, missing-value counts and summary
// statistics of a frame.
func DataInfo(w io.Writer, frame *models.Frame) error {
	info := Describe(frame)

	names := make([]string, len(info.Columns))
	for i, c := range info.Columns {
		names[i] = c.Name
	}

	if _, err := fmt.Fprintf(w, "Shape: (%d, %d)\n", info.Rows, len(info.Columns)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nColumns: [%s]\n", quoteJoin(names)); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "\nData types:")
	for _, c := range info.Columns {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Kind)
	}

	fmt.Fprintln(tw, "\nMissing values:")
	for _, c := range info.Columns {
		fmt.Fprintf(tw, "%s\t%d\n", c.Name, c.Missing)
	}

	fmt.Fprintln(tw, "\nBasic statistics:")
	writeStatistics(tw, info)

	return tw.Flush()
}

func writeStatistics(w io.Writer, info *Info) {
	var numeric, object []ColumnInfo
	for _, c := range info.Columns {
		if c.Numeric() {
			numeric = append(numeric, c)
		} else if c.Kind == KindObject {
			object = append(object, c)
		}
	}

	if len(numeric) > 0 {
		fmt.Fprintf(w, "\t%s\n", columnHeader(numeric))
		rows := []struct {
			label string
			value func(c ColumnInfo) float64
		}{
			{"count", func(c ColumnInfo) float64 { return float64(c.NonNull) }},
			{"mean", func(c ColumnInfo) float64 { return c.Mean }},
			{"std", func(c ColumnInfo) float64 { return c.Std }},
			{"min", func(c ColumnInfo) float64 { return c.Min }},
			{"25%", func(c ColumnInfo) float64 { return c.Q25 }},
			{"50%", func(c ColumnInfo) float64 { return c.Median }},
			{"75%", func(c ColumnInfo) float64 { return c.Q75 }},
			{"max", func(c ColumnInfo) float64 { return c.Max }},
		}
		for _, row := range rows {
			cells := make([]string, len(numeric))
			for i, c := range numeric {
				cells[i] = formatStat(row.value(c))
			}
			fmt.Fprintf(w, "%s\t%s\n", row.label, strings.Join(cells, "\t"))
		}
		return
	}

	if len(object) > 0 {
		fmt.Fprintf(w, "\t%s\n", columnHeader(object))
		rows := []struct {
			label string
			value func(c ColumnInfo) string
		}{
			{"count", func(c ColumnInfo) string { return strconv.Itoa(c.NonNull) }},
			{"unique", func(c ColumnInfo) string { return strconv.Itoa(c.Unique) }},
			{"top", func(c ColumnInfo) string { return c.Top }},
			{"freq", func(c ColumnInfo) string { return strconv.Itoa(c.TopFreq) }},
		}
		for _, row := range rows {
			cells := make([]string, len(object))
			for i, c := range object {
				cells[i] = row.value(c)
			}
			fmt.Fprintf(w, "%s\t%s\n", row.label, strings.Join(cells, "\t"))
		}
	}
}

func describeColumn(name string, values []string) ColumnInfo {
	col := ColumnInfo{Name: name}

	var present []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			col.Missing++
			continue
		}
		present = append(present, v)
	}
	col.NonNull = len(present)
	col.Kind = inferKind(present)

	switch col.Kind {
	case KindInt, KindFloat:
		nums := make([]float64, len(present))
		for i, v := range present {
			nums[i], _ = strconv.ParseFloat(v, 64)
		}
		fillNumeric(&col, nums)
	case KindObject:
		fillObject(&col, present)
	}

	return col
}

func inferKind(values []string) string {
	if len(values) == 0 {
		return KindObject
	}

	allInt, allFloat := true, true
	for _, v := range values {
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			allFloat = false
			break
		}
	}
	if allInt {
		return KindInt
	}
	if allFloat {
		return KindFloat
	}

	for _, v := range values {
		if _, err := parseDate(v); err != nil {
			return KindObject
		}
	}
	return KindDatetime
}

func fillNumeric(col *ColumnInfo, nums []float64) {
	if len(nums) == 0 {
		return
	}
	sorted := append([]float64(nil), nums...)
	sort.Float64s(sorted)

	var sum float64
	for _, x := range sorted {
		sum += x
	}
	col.Mean = sum / float64(len(sorted))

	if len(sorted) > 1 {
		var ss float64
		for _, x := range sorted {
			d := x - col.Mean
			ss += d * d
		}
		col.Std = math.Sqrt(ss / float64(len(sorted)-1))
	} else {
		col.Std = math.NaN()
	}

	col.Min = sorted[0]
	col.Max = sorted[len(sorted)-1]
	col.Q25 = quantile(sorted, 0.25)
	col.Median = quantile(sorted, 0.5)
	col.Q75 = quantile(sorted, 0.75)
}

// quantile uses linear interpolation between closest ranks
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

func fillObject(col *ColumnInfo, values []string) {
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
		if counts[v] > col.TopFreq {
			col.TopFreq = counts[v]
			col.Top = v
		}
	}
	col.Unique = len(counts)
}

func columnHeader(cols []ColumnInfo) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, "\t")
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func quoteJoin(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}
