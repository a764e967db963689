package report

import (
	"descriptive_stats/stats"
)

// whiskerReach is the distance past the box, in IQRs, a whisker may extend.
const whiskerReach = 1.5

// Box is a boxplot of one sample.
type Box struct {
	LowerWhisker float64   `json:"lower_whisker"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

// Boxplot derives a box from res and the raw sample. Whiskers end at the most
// extreme values within 1.5 IQR of the box; anything further is an outlier.
func Boxplot(sample stats.Sample, res stats.Result) Box {
	lowFence := res.Q1 - whiskerReach*res.IQR
	highFence := res.Q3 + whiskerReach*res.IQR

	box := Box{
		LowerWhisker: res.Q1,
		Q1:           res.Q1,
		Median:       res.Median,
		Q3:           res.Q3,
		UpperWhisker: res.Q3,
	}
	for _, v := range sorted(sample) {
		switch {
		case v < lowFence || v > highFence:
			box.Outliers = append(box.Outliers, v)
		case v < box.LowerWhisker:
			box.LowerWhisker = v
		case v > box.UpperWhisker:
			box.UpperWhisker = v
		}
	}
	return box
}
