package report

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"descriptive_stats/stats"
)

// PlotKind selects which charts to render.
type PlotKind string

const (
	PlotHistogram PlotKind = "histogram"
	PlotBoxplot   PlotKind = "boxplot"
	PlotBoth      PlotKind = "both"
)

// ParsePlotKind accepts a PlotKind name; empty means PlotHistogram.
func ParsePlotKind(s string) (PlotKind, error) {
	switch k := PlotKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return PlotHistogram, nil
	case PlotHistogram, PlotBoxplot, PlotBoth:
		return k, nil
	default:
		return "", fmt.Errorf("unknown plot kind %q (want histogram, boxplot or both)", s)
	}
}

func (k PlotKind) histogram() bool { return k == PlotHistogram || k == PlotBoth }
func (k PlotKind) boxplot() bool   { return k == PlotBoxplot || k == PlotBoth }

const (
	chartWidth  = 1000
	chartHeight = 600
	kdePoints   = 200
	textWidth   = 50
)

// RenderPNG draws the requested charts of sample to w. Both kinds are laid
// out side by side in one image.
func RenderPNG(w io.Writer, sample stats.Sample, res stats.Result, kind PlotKind) error {
	var charts []chart.Chart
	width := chartWidth
	if kind == PlotBoth {
		width = chartWidth / 2
	}
	if kind.histogram() {
		charts = append(charts, histogramChart(sample, res, width))
	}
	if kind.boxplot() {
		charts = append(charts, boxplotChart(sample, res, width, kind != PlotBoth))
	}
	if len(charts) == 0 {
		return fmt.Errorf("unknown plot kind %q", kind)
	}
	if len(charts) == 1 {
		return charts[0].Render(chart.PNG, w)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, chartWidth, chartHeight))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	for i, c := range charts {
		var buf bytes.Buffer
		if err := c.Render(chart.PNG, &buf); err != nil {
			return fmt.Errorf("render %s: %w", c.Title, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decode %s: %w", c.Title, err)
		}
		offset := image.Pt(i*width, 0)
		draw.Draw(canvas, img.Bounds().Add(offset), img, img.Bounds().Min, draw.Over)
	}
	return png.Encode(w, canvas)
}

// xRange pads [lo, hi] so that a constant sample still has a drawable axis.
func xRange(lo, hi float64) *chart.ContinuousRange {
	pad := math.Max(hi/20-lo/20, 0.5)
	return &chart.ContinuousRange{
		Min: math.Max(lo-pad, -math.MaxFloat64),
		Max: math.Min(hi+pad, math.MaxFloat64),
	}
}

func referenceLine(name string, x, top float64, color drawing.Color, dashed bool) chart.ContinuousSeries {
	style := chart.Style{StrokeColor: color, StrokeWidth: 2}
	if dashed {
		style.StrokeDashArray = []float64{6, 4}
	}
	return chart.ContinuousSeries{
		Name:    name,
		XValues: []float64{x, x},
		YValues: []float64{0, top},
		Style:   style,
	}
}

func histogramChart(sample stats.Sample, res stats.Result, width int) chart.Chart {
	bins := Histogram(sample, 0)

	var xs, ys []float64
	top := 1.0
	for i, b := range bins {
		if i == 0 {
			xs, ys = append(xs, b.Lo), append(ys, 0)
		}
		c := float64(b.Count)
		xs = append(xs, b.Lo, b.Hi)
		ys = append(ys, c, c)
		top = math.Max(top, c)
	}
	if len(bins) > 0 {
		xs, ys = append(xs, bins[len(bins)-1].Hi), append(ys, 0)
	}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "Count",
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(80),
				StrokeWidth: 1,
			},
		},
	}

	if len(bins) > 0 {
		if curve := KDE(sample, kdePoints, bins[0].Hi-bins[0].Lo); len(curve) > 0 {
			kx := make([]float64, len(curve))
			ky := make([]float64, len(curve))
			for i, p := range curve {
				kx[i], ky[i] = p.X, p.Y
				top = math.Max(top, p.Y)
			}
			series = append(series, chart.ContinuousSeries{
				Name:    "KDE",
				XValues: kx,
				YValues: ky,
				Style:   chart.Style{StrokeColor: chart.ColorAlternateGray, StrokeWidth: 2},
			})
		}
	}

	series = append(series,
		referenceLine(fmt.Sprintf("Mean: %.2f", res.Mean), res.Mean, top, chart.ColorRed, true),
		referenceLine(fmt.Sprintf("Median: %.2f", res.Median), res.Median, top, chart.ColorGreen, false),
	)

	lo, hi := res.Min, res.Max
	if len(bins) > 0 {
		lo, hi = bins[0].Lo, bins[len(bins)-1].Hi
	}
	c := chart.Chart{
		Title:  "Histogram with KDE",
		Width:  width,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Value", Range: xRange(lo, hi)},
		YAxis:  chart.YAxis{Name: "Count", Range: &chart.ContinuousRange{Min: 0, Max: top * 1.05}},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

func boxplotChart(sample stats.Sample, res stats.Result, width int, withMean bool) chart.Chart {
	box := Boxplot(sample, res)
	const (
		bottom = 0.3
		top    = 0.7
		middle = 0.5
	)
	line := chart.Style{StrokeColor: chart.ColorBlack, StrokeWidth: 2}

	series := []chart.Series{
		chart.ContinuousSeries{
			Name:    "IQR",
			XValues: []float64{box.Q1, box.Q3, box.Q3, box.Q1, box.Q1},
			YValues: []float64{bottom, bottom, top, top, bottom},
			Style: chart.Style{
				StrokeColor: chart.ColorBlack,
				FillColor:   chart.ColorBlue.WithAlpha(80),
				StrokeWidth: 2,
			},
		},
		chart.ContinuousSeries{
			XValues: []float64{box.Median, box.Median},
			YValues: []float64{bottom, top},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{box.LowerWhisker, box.Q1},
			YValues: []float64{middle, middle},
			Style:   line,
		},
		chart.ContinuousSeries{
			XValues: []float64{box.Q3, box.UpperWhisker},
			YValues: []float64{middle, middle},
			Style:   line,
		},
	}
	if len(box.Outliers) > 0 {
		ys := make([]float64, len(box.Outliers))
		for i := range ys {
			ys[i] = middle
		}
		series = append(series, chart.ContinuousSeries{
			Name:    "Outliers",
			XValues: box.Outliers,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotColor:    chart.ColorBlack,
				DotWidth:    4,
			},
		})
	}
	if withMean {
		series = append(series, referenceLine(fmt.Sprintf("Mean: %.2f", res.Mean), res.Mean, 1, chart.ColorRed, true))
	}

	c := chart.Chart{
		Title:  "Boxplot",
		Width:  width,
		Height: chartHeight,
		XAxis:  chart.XAxis{Name: "Value", Range: xRange(res.Min, res.Max)},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 1},
			Ticks: []chart.Tick{{Value: 0}, {Value: 1}},
		},
		Series: series,
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

// RenderText draws the requested charts with plain characters, for terminals.
func RenderText(w io.Writer, sample stats.Sample, res stats.Result, kind PlotKind) error {
	var b strings.Builder
	if kind.histogram() {
		writeTextHistogram(&b, sample)
	}
	if kind.boxplot() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		writeTextBoxplot(&b, sample, res)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextHistogram(b *strings.Builder, sample stats.Sample) {
	bins := Histogram(sample, 0)
	most := 0
	for _, bin := range bins {
		most = max(most, bin.Count)
	}
	b.WriteString("Histogram\n")
	for i, bin := range bins {
		closing := ")"
		if i == len(bins)-1 {
			closing = "]"
		}
		bar := 0
		if most > 0 {
			bar = int(math.Round(float64(bin.Count) / float64(most) * textWidth))
		}
		fmt.Fprintf(b, "[%10.4f, %10.4f%s %s %d\n", bin.Lo, bin.Hi, closing, strings.Repeat("#", bar), bin.Count)
	}
}

func writeTextBoxplot(b *strings.Builder, sample stats.Sample, res stats.Result) {
	box := Boxplot(sample, res)
	line := []byte(strings.Repeat(" ", textWidth+1))

	pos := func(v float64) int {
		if res.Max == res.Min {
			return textWidth / 2
		}
		return slot(v, res.Min, res.Max, textWidth+1)
	}

	for i := pos(box.LowerWhisker); i <= pos(box.UpperWhisker); i++ {
		line[i] = '-'
	}
	for i := pos(box.Q1); i <= pos(box.Q3); i++ {
		line[i] = '='
	}
	line[pos(box.LowerWhisker)] = '|'
	line[pos(box.UpperWhisker)] = '|'
	line[pos(box.Median)] = 'M'
	for _, o := range box.Outliers {
		line[pos(o)] = 'o'
	}

	b.WriteString("Boxplot\n")
	b.WriteString(strings.TrimRight(string(line), " "))
	fmt.Fprintf(b, "\nmin %.4f  q1 %.4f  median %.4f  q3 %.4f  max %.4f\n", res.Min, box.Q1, box.Median, box.Q3, res.Max)
}
