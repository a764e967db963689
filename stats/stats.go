package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	gonumstat "gonum.org/v1/gonum/stat"
)

// Sample is the ordered sequence of values handed to Compute. Compute never
// modifies it.
type Sample []float64

// Result holds the descriptive statistics of one sample. Variance and StdDev
// are population measures (divisor N).
type Result struct {
	Count    int
	Mean     float64
	Median   float64
	Mode     []float64
	Variance float64
	StdDev   float64
	Min      float64
	Max      float64
	Range    float64
	Q1       float64
	Q3       float64
	IQR      float64
}

// Compute returns the descriptive statistics of sample.
func Compute(sample Sample) (Result, error) {
	if err := check(sample); err != nil {
		return Result{}, err
	}

	s := append([]float64(nil), sample...)
	sort.Float64s(s)
	n := len(s)

	min := floats.Min(s)
	max := floats.Max(s)

	mean, variance := meanVariance(s, min, max)
	// rounding in the sum can push the mean of a constant sample just past its bounds
	mean = math.Min(math.Max(mean, min), max)
	if variance < 0 {
		variance = 0
	}

	var median float64
	if n%2 == 1 {
		median = s[n/2]
	} else {
		median = s[n/2-1]/2 + s[n/2]/2
	}

	q1 := Quantile(s, 0.25)
	q3 := Quantile(s, 0.75)

	return Result{
		Count:    n,
		Mean:     mean,
		Median:   median,
		Mode:     modesSorted(s),
		Variance: variance,
		StdDev:   math.Sqrt(variance),
		Min:      min,
		Max:      max,
		Range:    max - min,
		Q1:       q1,
		Q3:       q3,
		IQR:      q3 - q1,
	}, nil
}

// hugeMagnitude is where squaring a value, or summing a few of them, starts
// to leave the float64 range.
const hugeMagnitude = 1e150

// meanVariance is the population mean and variance of s. Samples holding huge
// values are scaled down first so that neither sum overflows.
func meanVariance(s []float64, min, max float64) (float64, float64) {
	scale := math.Max(math.Abs(min), math.Abs(max))
	if scale < hugeMagnitude {
		return gonumstat.PopMeanVariance(s, nil)
	}
	scaled := make([]float64, len(s))
	floats.ScaleTo(scaled, 1/scale, s)
	mean, variance := gonumstat.PopMeanVariance(scaled, nil)
	return mean * scale, variance * scale * scale
}

func check(sample Sample) error {
	if len(sample) == 0 {
		return &InvalidSampleError{Index: -1, Reason: "sample is empty"}
	}
	for i, v := range sample {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidSampleError{Index: i, Reason: "value is not finite"}
		}
	}
	return nil
}

// Quantile returns the p-quantile (0 <= p <= 1) of an ascending slice using
// linear interpolation between closest ranks: rank r = p*(N-1), interpolated
// between s[floor(r)] and s[ceil(r)]. It returns NaN for an empty slice.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	r := p * float64(n-1)
	lo := int(math.Floor(r))
	hi := int(math.Ceil(r))
	if lo == hi {
		return sorted[lo]
	}
	a, b := sorted[lo], sorted[hi]
	if a == b {
		return a
	}
	frac := r - float64(lo)
	// weighted form: b-a can overflow for finite a and b
	q := a*(1-frac) + b*frac
	return math.Min(math.Max(q, a), b)
}

// Modes returns every value of values that occurs with the highest
// frequency, in ascending order. Values are grouped by exact equality.
func Modes(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	return modesSorted(s)
}

func modesSorted(s []float64) []float64 {
	var (
		modes []float64
		best  int
	)
	for i := 0; i < len(s); {
		j := i + 1
		for j < len(s) && s[j] == s[i] {
			j++
		}
		switch count := j - i; {
		case count > best:
			best = count
			modes = append(modes[:0], s[i])
		case count == best:
			modes = append(modes, s[i])
		}
		i = j
	}
	return modes
}
