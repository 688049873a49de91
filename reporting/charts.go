package reporting

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	colorDefault        = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	colorSteelBlue      = color.RGBA{R: 70, G: 130, B: 180, A: 255}
	colorCoral          = color.RGBA{R: 255, G: 127, B: 80, A: 255}
	colorMediumSeaGreen = color.RGBA{R: 60, G: 179, B: 113, A: 255}
	colorPurple         = color.RGBA{R: 128, G: 0, B: 128, A: 255}
	colorSkyBlue        = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	colorFirebrick      = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	colorRed            = color.RGBA{R: 255, A: 255}
)

// chartSpec describes the decoration shared by every chart
type chartSpec struct {
	title  string
	xLabel string
	yLabel string
}

func newPlot(spec chartSpec) *plot.Plot {
	p := plot.New()
	p.Title.Text = spec.title
	p.X.Label.Text = spec.xLabel
	p.Y.Label.Text = spec.yLabel
	return p
}

// barChart draws one bar per label. Horizontal charts list labels on
// the y axis with the first label at the bottom.
func barChart(spec chartSpec, labels []string, values []float64, horizontal bool, fill color.Color) (*plot.Plot, error) {
	p := newPlot(spec)

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return nil, err
	}
	bars.Horizontal = horizontal
	bars.Color = fill
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	if horizontal {
		p.NominalY(labels...)
	} else {
		p.NominalX(labels...)
		if len(labels) > 6 {
			p.X.Tick.Label.Rotation = math.Pi / 4
		}
	}
	return p, nil
}

// histogram bins values into n equal width bins
func histogram(spec chartSpec, values []float64, n int, fill color.Color) (*plot.Plot, *plotter.Histogram, error) {
	p := newPlot(spec)

	h, err := plotter.NewHist(plotter.Values(values), n)
	if err != nil {
		return nil, nil, err
	}
	h.FillColor = fill
	p.Add(h)
	return p, h, nil
}

// addMeanLine marks the mean of values with a dashed vertical line
// spanning the tallest bin of h
func addMeanLine(p *plot.Plot, h *plotter.Histogram, mean float64, legend string) error {
	top := 0.0
	for _, bin := range h.Bins {
		top = math.Max(top, bin.Weight)
	}

	line, err := plotter.NewLine(plotter.XYs{{X: mean, Y: 0}, {X: mean, Y: top}})
	if err != nil {
		return err
	}
	line.LineStyle.Color = colorRed
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}
	p.Add(line)
	p.Legend.Add(legend, line)
	p.Legend.Top = true
	return nil
}

// countPair is one category of a value count
type countPair struct {
	label string
	count int
}

// valueCounts tallies labels, most common first. Ties are ordered by label.
func valueCounts(labels []string) []countPair {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	pairs := make([]countPair, 0, len(counts))
	for l, c := range counts {
		pairs = append(pairs, countPair{label: l, count: c})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].label < pairs[j].label
	})
	return pairs
}

// splitPairs returns the labels and counts of pairs, optionally reversed
// so the most common category is drawn last
func splitPairs(pairs []countPair, reverse bool) ([]string, []float64) {
	labels := make([]string, len(pairs))
	values := make([]float64, len(pairs))
	for i, pair := range pairs {
		k := i
		if reverse {
			k = len(pairs) - 1 - i
		}
		labels[k] = pair.label
		values[k] = float64(pair.count)
	}
	return labels, values
}
