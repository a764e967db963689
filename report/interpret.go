package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"descriptive_stats/stats"
)

// Notes are shown under every report.
var Notes = []string{
	"Variance and standard deviation use the population formula (N as the divisor).",
	"Mode can hold more than one value when several values share the highest frequency.",
}

var interpretation = template.Must(template.New("interpretation").Funcs(template.FuncMap{
	"f2":    func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"modes": func(vs []float64) string { return formatList(vs, decimalFloat) },
}).Parse(`- Mean ({{f2 .Mean}}): the average of all values.
- Median ({{f2 .Median}}): the middle value of the sorted data.
- Mode ({{modes .Mode}}): the most frequent value(s).
- Standard Deviation ({{f2 .StdDev}}): how far values spread around the mean.
- Range ({{f2 .Range}}): the difference between the maximum and minimum.
- IQR ({{f2 .IQR}}): the interquartile range (Q3-Q1), the spread of the middle 50% of the data.
`))

func shortFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// decimalFloat is the shortest form of v that still reads as a real number:
// "5.0" rather than "5", exponent form outside [1e-4, 1e16).
func decimalFloat(v float64) string {
	if abs := math.Abs(v); v != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Interpretation fills the fixed explanation template with res.
func Interpretation(res stats.Result) (string, error) {
	var b strings.Builder
	if err := interpretation.Execute(&b, res); err != nil {
		return "", fmt.Errorf("render interpretation: %w", err)
	}
	return b.String(), nil
}
