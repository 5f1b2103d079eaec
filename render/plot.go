package render

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/field"
)

// fieldGrid adapts a Grid to the plotter heat-map interface. Columns follow
// the x axis and rows the plan z axis.
type fieldGrid struct {
	g *field.Grid
}

func (f fieldGrid) Dims() (c, r int)   { return len(f.g.X), len(f.g.Y) }
func (f fieldGrid) Z(c, r int) float64 { return f.g.Z[r][c] }
func (f fieldGrid) X(c int) float64    { return f.g.X[c] }
func (f fieldGrid) Y(r int) float64    { return f.g.Y[r] }

// scalePalette exposes scale stop colors to the plot renderer.
type scalePalette struct {
	colors []color.Color
}

func (p scalePalette) Colors() []color.Color { return p.colors }

// Palette converts a scale into a plot palette. An empty scale falls back
// to FallbackScale.
func Palette(scale []Stop) (palette.Palette, error) {
	if len(scale) == 0 {
		scale = FallbackScale()
	}
	colors := make([]color.Color, len(scale))
	for i, s := range scale {
		c, err := parseHex(s.Color)
		if err != nil {
			return nil, err
		}
		colors[i] = color.RGBA{R: c.r, G: c.g, B: c.b, A: 0xff}
	}
	return scalePalette{colors: colors}, nil
}

// PNG bakes the grid into a heat-map image with the footprint outlined.
// Cells without data stay unfilled.
func PNG(w io.Writer, g *field.Grid, scale []Stop) error {
	if g == nil || len(g.X) == 0 || len(g.Y) == 0 {
		return errors.New("grid has no cells")
	}
	if !isFinite(g.Min) || !isFinite(g.Max) {
		return errors.New("grid has no finite cells")
	}
	pal, err := Palette(scale)
	if err != nil {
		return err
	}

	lo, hi := g.Min, g.Max
	if hi <= lo {
		// A flat field still renders, centered on the single level.
		lo, hi = lo-0.5, hi+0.5
	}

	p := plot.New()
	p.Title.Text = "Sound pressure field"
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "z (m)"

	hm := plotter.NewHeatMap(fieldGrid{g: g}, pal)
	hm.Min, hm.Max = lo, hi
	p.Add(hm)

	if len(g.Poly) >= 3 {
		line, err := outline(g.Poly)
		if err != nil {
			return fmt.Errorf("failed to draw footprint: %w", err)
		}
		p.Add(line)
	}

	wt, err := p.WriterTo(8*vg.Inch, 8*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("failed to render png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// outline closes the perimeter into a drawable loop.
func outline(poly []geometry.Point) (*plotter.Line, error) {
	pts := make(plotter.XYs, 0, len(poly)+1)
	for _, p := range poly {
		pts = append(pts, plotter.XY{X: p.X, Y: p.Z})
	}
	pts = append(pts, pts[0])
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, err
	}
	line.Width = vg.Points(1.5)
	line.Color = color.Black
	return line, nil
}
