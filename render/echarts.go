package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/sonitus/noisefield/field"
)

// HTMLOptions controls the heat-map preview page. Zero fields pick
// sensible defaults.
type HTMLOptions struct {
	Title    string
	Subtitle string
	Width    string
	Height   string
}

// HTML writes a self-contained heat-map preview of the grid. Cells without
// data are left out, so interiors show as gaps, and the visual map
// interpolates the scale colors across the finite range.
func HTML(w io.Writer, g *field.Grid, scale []Stop, o HTMLOptions) error {
	if g == nil || len(g.X) == 0 || len(g.Y) == 0 {
		return errors.New("grid has no cells")
	}
	if !isFinite(g.Min) || !isFinite(g.Max) {
		return errors.New("grid has no finite cells")
	}
	if o.Title == "" {
		o.Title = "Sound pressure field"
	}
	if o.Subtitle == "" {
		o.Subtitle = fmt.Sprintf("cells=%dx%d range=%.1f-%.1f dB", len(g.X), len(g.Y), g.Min, g.Max)
	}
	if o.Width == "" {
		o.Width = "900px"
	}
	if o.Height == "" {
		o.Height = "900px"
	}

	data := make([]opts.HeatMapData, 0, len(g.X)*len(g.Y))
	for r, row := range g.Z {
		for c, v := range row {
			if !isFinite(v) {
				continue
			}
			data = append(data, opts.HeatMapData{Value: [3]interface{}{c, r, math.Round(v*10) / 10}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Theme:     "dark",
			Width:     o.Width,
			Height:    o.Height,
		}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			Name:      "x (m)",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Name:      "z (m)",
			Data:      axisLabels(g.Y),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        float32(g.Min),
			Max:        float32(g.Max),
			InRange:    &opts.VisualMapInRange{Color: rampColors(scale)},
		}),
	)
	hm.SetXAxis(axisLabels(g.X)).AddSeries("Lp (dB)", data)

	if err := hm.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// rampColors flattens a scale into the hex list the visual map
// interpolates evenly. BuildScale output is evenly resampled, so even
// interpolation reproduces the anchored ramp.
func rampColors(scale []Stop) []string {
	if len(scale) == 0 {
		scale = FallbackScale()
	}
	colors := make([]string, len(scale))
	for i, s := range scale {
		colors[i] = s.Color
	}
	return colors
}

// axisLabels formats cell center coordinates for a category axis.
func axisLabels(axis []float64) []string {
	labels := make([]string, len(axis))
	for i, v := range axis {
		labels[i] = strconv.FormatFloat(v, 'f', 1, 64)
	}
	return labels
}
