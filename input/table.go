package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"descriptive_stats/stats"
)

var (
	ErrUnreadableCSV    = errors.New("unable to read CSV file")
	ErrNoNumericColumns = errors.New("CSV file has no numeric columns")
	ErrUnknownColumn    = errors.New("unknown column")
	ErrNotNumeric       = errors.New("column is not numeric")
)

// missing cell markers, a subset of the usual dataframe NA spellings
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
}

// Table is a parsed CSV file with a header row.
type Table struct {
	Header  []string
	Records [][]string
}

// ReadCSV reads a header row followed by records.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableCSV, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: missing header row", ErrUnreadableCSV)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	return &Table{Header: header, Records: rows[1:]}, nil
}

// NumericColumns lists, in header order, the columns whose present cells all
// parse as numbers. Columns with no present cell are not numeric.
func (t *Table) NumericColumns() []string {
	var cols []string
	for i, name := range t.Header {
		if _, ok := t.numeric(i); ok {
			cols = append(cols, name)
		}
	}
	return cols
}

// Column returns the present values of a numeric column, missing cells dropped.
func (t *Table) Column(name string) (stats.Sample, error) {
	idx := t.index(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	sample, ok := t.numeric(idx)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotNumeric, name)
	}
	return sample, nil
}

func (t *Table) index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *Table) numeric(idx int) (stats.Sample, bool) {
	sample := make(stats.Sample, 0, len(t.Records))
	for _, rec := range t.Records {
		if idx >= len(rec) {
			continue
		}
		cell := strings.TrimSpace(rec[idx])
		if _, missing := naValues[cell]; missing {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsInf(v, 0) {
			return nil, false
		}
		if math.IsNaN(v) {
			continue
		}
		sample = append(sample, v)
	}
	return sample, len(sample) > 0
}

// SelectColumn returns the named numeric column, or the first numeric column
// when name is empty.
func SelectColumn(t *Table, name string) (Input, error) {
	cols := t.NumericColumns()
	if len(cols) == 0 {
		return Input{}, ErrNoNumericColumns
	}
	if name == "" {
		name = cols[0]
	}
	sample, err := t.Column(name)
	if err != nil {
		return Input{}, err
	}
	return Input{Source: SourceCSV, Column: name, Sample: sample}, nil
}

// CSV reads r and selects column from it.
func CSV(r io.Reader, column string) (Input, error) {
	t, err := ReadCSV(r)
	if err != nil {
		return Input{}, err
	}
	return SelectColumn(t, column)
}
