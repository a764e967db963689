package report

import (
	"fmt"
	"io"
	"strings"

	"descriptive_stats/stats"
)

// Document is the complete report of one analysis.
type Document struct {
	Source         string       `json:"source"`
	Column         string       `json:"column,omitempty"`
	Count          int          `json:"count"`
	Data           []float64    `json:"data"`
	Statistics     []Row        `json:"statistics"`
	Interpretation string       `json:"interpretation"`
	Notes          []string     `json:"notes"`
	Histogram      []Bin        `json:"histogram"`
	Boxplot        Box          `json:"boxplot"`
	Result         stats.Result `json:"-"`
}

// NewDocument assembles the report of sample described by res.
func NewDocument(source, column string, sample stats.Sample, res stats.Result) (Document, error) {
	text, err := Interpretation(res)
	if err != nil {
		return Document{}, err
	}
	return Document{
		Source:         source,
		Column:         column,
		Count:          len(sample),
		Data:           append([]float64(nil), sample...),
		Statistics:     Rows(res),
		Interpretation: text,
		Notes:          Notes,
		Histogram:      Histogram(sample, 0),
		Boxplot:        Boxplot(sample, res),
		Result:         res,
	}, nil
}

// WriteText renders d for a terminal: input summary, statistics table,
// interpretation, notes and the text charts of kind.
func (d Document) WriteText(w io.Writer, kind PlotKind) error {
	var b strings.Builder

	b.WriteString("Input data\n")
	if d.Column != "" {
		fmt.Fprintf(&b, "Column: %s\n", d.Column)
	}
	fmt.Fprintf(&b, "Raw data: %s\n", formatList(d.Data, shortFloat))
	fmt.Fprintf(&b, "Data points: %d\n\n", d.Count)

	b.WriteString("Descriptive statistics\n")
	if err := WriteTable(&b, d.Result); err != nil {
		return err
	}

	b.WriteString("\nVisualization\n")
	if err := RenderText(&b, d.Data, d.Result, kind); err != nil {
		return err
	}

	b.WriteString("\nInterpretation\n")
	b.WriteString(d.Interpretation)

	b.WriteString("\nNotes\n")
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "- %s\n", n)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
