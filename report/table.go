package report

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"text/tabwriter"

	"descriptive_stats/stats"
)

// Labels in display order.
const (
	LabelMean     = "Mean"
	LabelMedian   = "Median"
	LabelMode     = "Mode"
	LabelVariance = "Variance"
	LabelStdDev   = "Standard Deviation"
	LabelMin      = "Min"
	LabelMax      = "Max"
	LabelRange    = "Range"
	LabelQ1       = "Q1"
	LabelQ3       = "Q3"
	LabelIQR      = "IQR"
)

// Decimals is the display precision of every value in the table.
const Decimals = 4

type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', Decimals, 64)
}

func formatList(vs []float64, format func(float64) string) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = format(v)
	}
	return strings.Join(parts, ", ")
}

// Rows returns the labelled, formatted statistics.
func Rows(res stats.Result) []Row {
	return []Row{
		{LabelMean, formatValue(res.Mean)},
		{LabelMedian, formatValue(res.Median)},
		{LabelMode, formatList(res.Mode, formatValue)},
		{LabelVariance, formatValue(res.Variance)},
		{LabelStdDev, formatValue(res.StdDev)},
		{LabelMin, formatValue(res.Min)},
		{LabelMax, formatValue(res.Max)},
		{LabelRange, formatValue(res.Range)},
		{LabelQ1, formatValue(res.Q1)},
		{LabelQ3, formatValue(res.Q3)},
		{LabelIQR, formatValue(res.IQR)},
	}
}

const tableHeader = "Statistic"

// WriteTable renders the statistics as an aligned two column table.
func WriteTable(w io.Writer, res stats.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\tValue\n", tableHeader)
	for _, r := range Rows(res) {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Value)
	}
	return tw.Flush()
}

var rowPattern = regexp.MustCompile(`^(\S.*?)\s{2,}(\S.*)$`)

// ParseTable reads back a table written by WriteTable. Every label maps to
// its values; only Mode may hold more than one.
func ParseTable(r io.Reader) (map[string][]float64, error) {
	out := make(map[string][]float64)
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), " ")
		if text == "" {
			continue
		}
		m := rowPattern.FindStringSubmatch(text)
		if m == nil {
			return nil, fmt.Errorf("line %d: malformed row %q", line, text)
		}
		if m[1] == tableHeader {
			continue
		}
		var values []float64
		for _, field := range strings.Split(m[2], ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", line, m[1], err)
			}
			values = append(values, v)
		}
		out[m[1]] = values
	}
	return out, scanner.Err()
}
