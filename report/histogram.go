package report

import (
	"math"
	"sort"

	gonumstat "gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"descriptive_stats/stats"
)

const maxBins = 1000

// Bin is one histogram bar covering [Lo, Hi). The last bin also holds Hi.
type Bin struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

// Point is one sample of a density curve.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// AutoBins picks the larger of the Freedman-Diaconis and Sturges bin counts,
// or Sturges alone when the IQR is zero.
func AutoBins(sample stats.Sample) int {
	n := len(sample)
	if n == 0 {
		return 0
	}
	s := sorted(sample)
	if s[0] == s[n-1] {
		return 1
	}

	sturges := int(math.Ceil(math.Log2(float64(n)))) + 1
	q1, q3 := stats.Quantile(s, 0.25), stats.Quantile(s, 0.75)
	if q1 == q3 {
		return sturges
	}
	// halves keep both spreads finite
	halfSpan := s[n-1]/2 - s[0]/2
	halfIQR := q3/2 - q1/2
	fd := math.Ceil(halfSpan / (2 * halfIQR * math.Pow(float64(n), -1.0/3.0)))
	if fd > float64(sturges) {
		return int(math.Min(fd, maxBins))
	}
	return sturges
}

// lerp is the point at fraction t of [lo, hi], finite for any finite bounds.
func lerp(lo, hi, t float64) float64 {
	return lo*(1-t) + hi*t
}

// slot maps v in [lo, hi] onto 0..n-1.
func slot(v, lo, hi float64, n int) int {
	if hi <= lo || n <= 1 {
		return 0
	}
	t := (v/2 - lo/2) / (hi/2 - lo/2)
	i := int(math.Floor(t * float64(n)))
	return max(0, min(i, n-1))
}

// Histogram counts sample into equal-width bins over [min, max]. A bins value
// <= 0 selects AutoBins. A constant sample gets one bin of width 1.
func Histogram(sample stats.Sample, bins int) []Bin {
	if len(sample) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = AutoBins(sample)
	}
	bins = min(bins, maxBins)

	s := sorted(sample)
	lo, hi := s[0], s[len(s)-1]
	if lo == hi {
		return []Bin{{Lo: lo - 0.5, Hi: hi + 0.5, Count: len(s)}}
	}

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lo = lerp(lo, hi, float64(i)/float64(bins))
		out[i].Hi = lerp(lo, hi, float64(i+1)/float64(bins))
	}
	out[0].Lo = lo
	out[bins-1].Hi = hi

	for _, v := range s {
		out[slot(v, lo, hi, bins)].Count++
	}
	return out
}

// KDE evaluates a Gaussian kernel density estimate at points evenly spaced
// over [min, max], scaled to the counts of a histogram with bins of binWidth.
// The bandwidth follows Scott's rule on the sample standard deviation. It
// returns nil when the sample has no spread.
func KDE(sample stats.Sample, points int, binWidth float64) []Point {
	n := len(sample)
	if n < 2 || points < 2 {
		return nil
	}
	sd := gonumstat.StdDev(sample, nil)
	if sd == 0 || math.IsNaN(sd) || math.IsInf(sd, 0) {
		return nil
	}
	h := sd * math.Pow(float64(n), -1.0/5.0)

	s := sorted(sample)
	lo, hi := s[0], s[n-1]
	scale := float64(n) * binWidth

	kernels := make([]distuv.Normal, n)
	for i, v := range s {
		kernels[i] = distuv.Normal{Mu: v, Sigma: h}
	}

	out := make([]Point, points)
	for i := range out {
		x := lerp(lo, hi, float64(i)/float64(points-1))
		var density float64
		for _, k := range kernels {
			density += k.Prob(x)
		}
		out[i] = Point{X: x, Y: density / float64(n) * scale}
	}
	return out
}

func sorted(sample stats.Sample) []float64 {
	s := append([]float64(nil), sample...)
	sort.Float64s(s)
	return s
}
