package analysis

import (
	"fmt"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

func saveBar(path, title, xLabel, yLabel string, pairs []Pair) error {
	if len(pairs) == 0 {
		return fmt.Errorf("analysis: no data for %q", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(pairs))
	labels := make([]string, len(pairs))
	for i, pair := range pairs {
		values[i] = pair.Value
		labels[i] = pair.Label
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return p.Save(chartWidth, chartHeight, path)
}

// Series is one named line on a multi-line chart.
type Series struct {
	Name   string
	Points plotter.XYs
}

func saveLines(path, title, xLabel, yLabel string, series []Series, ticks []plot.Tick) error {
	if len(series) == 0 {
		return fmt.Errorf("analysis: no data for %q", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	if len(ticks) > 0 {
		p.X.Tick.Marker = plot.ConstantTicks(ticks)
	}

	for i, s := range series {
		line, err := plotter.NewLine(s.Points)
		if err != nil {
			return err
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		if s.Name != "" {
			p.Legend.Add(s.Name, line)
		}
	}
	p.Legend.Top = true

	return p.Save(chartWidth, chartHeight, path)
}

// pivotGrid adapts a Pivot to gonum/plot's heatmap grid: columns on X,
// rows on Y.
type pivotGrid struct {
	p *Pivot
}

func (g pivotGrid) Dims() (int, int)   { return len(g.p.ColLabels), len(g.p.RowLabels) }
func (g pivotGrid) X(c int) float64    { return float64(c) }
func (g pivotGrid) Y(r int) float64    { return float64(r) }
func (g pivotGrid) Z(c, r int) float64 { return g.p.At(g.p.RowLabels[r], g.p.ColLabels[c]) }

func saveHeatmap(path, title, xLabel, yLabel string, pv *Pivot) error {
	if len(pv.RowLabels) == 0 || len(pv.ColLabels) == 0 {
		return fmt.Errorf("analysis: no data for %q", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	hm := plotter.NewHeatMap(pivotGrid{p: pv}, palette.Heat(16, 1))
	p.Add(hm)

	p.X.Tick.Marker = plot.ConstantTicks(labelTicks(pv.ColLabels))
	p.Y.Tick.Marker = plot.ConstantTicks(labelTicks(pv.RowLabels))
	p.X.Tick.Label.Rotation = 0.6
	p.X.Tick.Label.XAlign = -0.8

	return p.Save(chartWidth, chartHeight, path)
}

func labelTicks(labels []string) []plot.Tick {
	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

func savePie(path, title string, pairs []Pair) error {
	values := make([]chart.Value, 0, len(pairs))
	for _, p := range pairs {
		if p.Value > 0 {
			values = append(values, chart.Value{Value: p.Value, Label: p.Label})
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("analysis: no data for %q", title)
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  640,
		Height: 640,
		Values: values,
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return pie.Render(chart.PNG, f)
}
