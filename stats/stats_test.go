package stats_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"descriptive_stats/stats"
)

const tolerance = 1e-9

var _ = Describe("Stats", func() {
	Describe("Compute", func() {
		It("Describes the default sample", func() {
			res, err := stats.Compute(stats.Sample{1, 2, 3, 4, 5, 5, 6, 7, 8, 9})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Count).To(Equal(10))
			Expect(res.Mean).To(Equal(5.0))
			Expect(res.Median).To(Equal(5.0))
			Expect(res.Mode).To(Equal([]float64{5}))
			Expect(res.Variance).To(BeNumerically("~", 6.0, tolerance))
			Expect(res.StdDev).To(BeNumerically("~", 2.449489742783178, tolerance))
			Expect(res.Min).To(Equal(1.0))
			Expect(res.Max).To(Equal(9.0))
			Expect(res.Range).To(Equal(8.0))
			Expect(res.Q1).To(BeNumerically("~", 3.25, tolerance))
			Expect(res.Q3).To(BeNumerically("~", 6.75, tolerance))
			Expect(res.IQR).To(BeNumerically("~", 3.5, tolerance))
		})

		It("Describes a two value sample", func() {
			res, err := stats.Compute(stats.Sample{1, 2})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Mean).To(Equal(1.5))
			Expect(res.Median).To(Equal(1.5))
			Expect(res.Variance).To(BeNumerically("~", 0.25, tolerance))
			Expect(res.StdDev).To(BeNumerically("~", 0.5, tolerance))
			Expect(res.Range).To(Equal(1.0))
			Expect(res.Q1).To(BeNumerically("~", 1.25, tolerance))
			Expect(res.Q3).To(BeNumerically("~", 1.75, tolerance))
			Expect(res.IQR).To(BeNumerically("~", 0.5, tolerance))
			Expect(res.Mode).To(Equal([]float64{1, 2}))
		})

		It("Returns every tied mode", func() {
			res, err := stats.Compute(stats.Sample{3, 2, 3, 2})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Mode).To(Equal([]float64{2, 3}))
		})

		It("Uses the population variance", func() {
			res, err := stats.Compute(stats.Sample{40, 10, 30, 20})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Variance).To(BeNumerically("~", 125.0, tolerance))
			Expect(res.StdDev).To(BeNumerically("~", 11.180339887498949, tolerance))
		})

		It("Does not reorder the caller's sample", func() {
			sample := stats.Sample{9, 1, 5}

			_, err := stats.Compute(sample)

			Expect(err).ToNot(HaveOccurred())
			Expect(sample).To(Equal(stats.Sample{9, 1, 5}))
		})

		It("Keeps the mean of a constant sample inside its bounds", func() {
			res, err := stats.Compute(stats.Sample{0.1, 0.1, 0.1})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Mean).To(Equal(0.1))
			Expect(res.Variance).To(BeNumerically(">=", 0))
			Expect(res.IQR).To(Equal(0.0))
		})

		It("Stays inside the bounds of extreme values", func() {
			res, err := stats.Compute(stats.Sample{-0x1p1023, 0x1p1023})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Q1).To(Equal(-0x1p1022))
			Expect(res.Q3).To(Equal(0x1p1022))
			Expect(res.IQR).To(Equal(0x1p1023))
			Expect(res.Median).To(Equal(0.0))
			Expect(res.Mean).To(Equal(0.0))
			Expect(math.IsInf(res.Variance, 1)).To(BeTrue())
			Expect(math.IsInf(res.Range, 1)).To(BeTrue())

			res, err = stats.Compute(stats.Sample{-1e308, 1e308})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Q1).To(BeNumerically("~", -5e307, 1e293))
			Expect(res.Q3).To(BeNumerically("~", 5e307, 1e293))
			Expect(res.Q1).To(BeNumerically(">=", res.Min))
			Expect(res.Q3).To(BeNumerically("<=", res.Max))

			res, err = stats.Compute(stats.Sample{1e308, 1e308})
			Expect(err).ToNot(HaveOccurred())
			Expect(res.Mean).To(Equal(1e308))
			Expect(res.Median).To(Equal(1e308))
			Expect(res.Variance).To(Equal(0.0))
		})

		It("Accepts a single value", func() {
			res, err := stats.Compute(stats.Sample{4})

			Expect(err).ToNot(HaveOccurred())
			Expect(res.Mean).To(Equal(4.0))
			Expect(res.Q1).To(Equal(4.0))
			Expect(res.Mode).To(Equal([]float64{4}))
		})

		Context("When sample is empty", func() {
			It("Returns InvalidSampleError", func() {
				res, err := stats.Compute(nil)

				Expect(res).To(BeZero())
				Expect(errors.Is(err, stats.ErrInvalidSample)).To(BeTrue())

				var invalid *stats.InvalidSampleError
				Expect(errors.As(err, &invalid)).To(BeTrue())
				Expect(invalid.Index).To(Equal(-1))
			})
		})

		Context("When sample holds a non finite value", func() {
			It("Names the offending index", func() {
				_, err := stats.Compute(stats.Sample{1, 2, math.Inf(1)})

				Expect(err).To(MatchError(stats.ErrInvalidSample))
				Expect(err.Error()).To(ContainSubstring("index 2"))
			})

			It("Rejects NaN", func() {
				_, err := stats.Compute(stats.Sample{math.NaN(), 1})

				Expect(err).To(MatchError(stats.ErrInvalidSample))
			})
		})

		It("Holds its invariants for random samples", func() {
			rng := rand.New(rand.NewSource(42))

			for i := 0; i < 200; i++ {
				sample := make(stats.Sample, 1+rng.Intn(60))
				scale := 1.0
				if i%4 == 0 {
					scale = 1e306
				}
				for j := range sample {
					// coarse values so ties happen
					sample[j] = math.Round(rng.NormFloat64()*20) / 4 * scale
				}

				res, err := stats.Compute(sample)
				Expect(err).ToNot(HaveOccurred())

				Expect(res.Mean).To(And(BeNumerically(">=", res.Min), BeNumerically("<=", res.Max)))
				Expect(res.Median).To(And(BeNumerically(">=", res.Min), BeNumerically("<=", res.Max)))
				Expect(res.Variance).To(BeNumerically(">=", 0))
				Expect(res.StdDev).To(Equal(math.Sqrt(res.Variance)))
				Expect(res.Range).To(Equal(res.Max - res.Min))
				Expect(res.Q1).To(And(BeNumerically(">=", res.Min), BeNumerically("<=", res.Median)))
				Expect(res.Q3).To(And(BeNumerically(">=", res.Median), BeNumerically("<=", res.Max)))
				Expect(res.IQR).To(Equal(res.Q3 - res.Q1))
				Expect(res.IQR).To(BeNumerically(">=", 0))

				counts := map[float64]int{}
				best := 0
				for _, v := range sample {
					counts[v]++
					if counts[v] > best {
						best = counts[v]
					}
				}
				Expect(res.Mode).ToNot(BeEmpty())
				for _, m := range res.Mode {
					Expect(counts[m]).To(Equal(best))
				}
				want := 0
				for _, c := range counts {
					if c == best {
						want++
					}
				}
				Expect(res.Mode).To(HaveLen(want))
			}
		})
	})

	Describe("Quantile", func() {
		DescribeTable("interpolating between closest ranks",
			func(input []float64, p, output float64) {
				Expect(stats.Quantile(input, p)).To(BeNumerically("~", output, tolerance))
			},
			Entry("lower bound", []float64{1, 2, 3}, 0.0, 1.0),
			Entry("upper bound", []float64{1, 2, 3}, 1.0, 3.0),
			Entry("exact rank", []float64{1, 2, 3}, 0.5, 2.0),
			Entry("between ranks", []float64{1, 2, 3, 4}, 0.25, 1.75),
			Entry("single value", []float64{7}, 0.75, 7.0),
			Entry("negative values", []float64{-10, -4, 0, 8}, 0.75, 2.0),
			Entry("extreme magnitudes", []float64{-0x1p1023, 0x1p1023}, 0.25, -0x1p1022),
			Entry("extreme upper quartile", []float64{-0x1p1023, 0x1p1023}, 0.75, 0x1p1022),
		)

		It("Returns NaN for an empty slice", func() {
			Expect(math.IsNaN(stats.Quantile(nil, 0.5))).To(BeTrue())
		})
	})

	Describe("Modes", func() {
		DescribeTable("selecting the most frequent values",
			func(input, output []float64) {
				Expect(stats.Modes(input)).To(Equal(output))
			},
			Entry("empty slice", []float64{}, []float64(nil)),
			Entry("single mode", []float64{1, 5, 5, 2}, []float64{5}),
			Entry("tie", []float64{2, 2, 3, 3}, []float64{2, 3}),
			Entry("all distinct", []float64{3, 1, 2}, []float64{1, 2, 3}),
			Entry("no tolerance between near values", []float64{0.1, 0.1 + 1e-12, 0.1}, []float64{0.1}),
		)
	})
})
