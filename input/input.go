package input

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"descriptive_stats/stats"
)

// Source tells where a sample was read from.
type Source string

const (
	SourceManual   Source = "manual"
	SourceCSV      Source = "csv"
	SourceDatabase Source = "database"
)

// DefaultManualData is offered when no data has been entered yet.
const DefaultManualData = "1, 2, 3, 4, 5, 5, 6, 7, 8, 9"

// MinValues is the smallest sample the analysis accepts.
const MinValues = 2

var ErrTooFewValues = fmt.Errorf("%w: at least %d values are required", stats.ErrInvalidSample, MinValues)

// Input is one interaction's data together with where it came from.
type Input struct {
	Source Source
	Column string
	Sample stats.Sample
}

// ParseError reports the first token of manual input that is not a number.
type ParseError struct {
	Token    string
	Position int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid number %q at position %d: only numbers separated by commas or spaces are allowed", e.Token, e.Position)
}

// ParseManual splits text on commas and whitespace and parses every token as
// a float64. A single bad token fails the whole input.
func ParseManual(text string) (stats.Sample, error) {
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	sample := make(stats.Sample, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ParseError{Token: f, Position: i + 1}
		}
		sample = append(sample, v)
	}
	return sample, nil
}

// Manual builds an Input from free text.
func Manual(text string) (Input, error) {
	sample, err := ParseManual(text)
	if err != nil {
		return Input{}, err
	}
	return Input{Source: SourceManual, Sample: sample}, nil
}

// Validate applies the boundary policy before any statistic is computed.
func Validate(sample stats.Sample) error {
	if len(sample) < MinValues {
		return fmt.Errorf("%w, got %d", ErrTooFewValues, len(sample))
	}
	return nil
}

// IsUserError reports whether err came from parsing or validating input, as
// opposed to a failure further down the pipeline.
func IsUserError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe) ||
		errors.Is(err, ErrTooFewValues) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrNotNumeric) ||
		errors.Is(err, ErrNoNumericColumns) ||
		errors.Is(err, ErrUnreadableCSV)
}
