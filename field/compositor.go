// Package field composes plan-view sound pressure grids around building
// footprints: a physical base field, per-band energy overlays, a hot-spot
// maximum pass, mask-aware smoothing and interior masking.
package field

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/sonitus/noisefield/algorithms/bands"
	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/propagation"
	"github.com/sonitus/noisefield/algorithms/smoothing"
	"github.com/sonitus/noisefield/algorithms/stats"
	"github.com/sonitus/noisefield/logging"
)

// Compositor runs the staged grid pipeline for one scene. It is immutable
// after New: Compute can be called repeatedly (and concurrently) and always
// produces the same grid for the same configuration.
type Compositor struct {
	cfg     Config
	region  *geometry.Region
	model   *propagation.Model
	gen     *bands.Generator
	facades []facade
	maxLw   float64
	logger  logging.Logger
}

// New validates and normalizes the configuration and preprocesses the
// scene's facades.
func New(cfg Config) (*Compositor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.normalized()
	p := cfg.Params

	model := propagation.NewModel(propagation.Options{
		DBPerMeter:         p.DBPerMeter,
		RoomDirectivity:    p.RoomDirectivity,
		OutdoorDirectivity: p.OutdoorDirectivity,
		AtmosphericLoss:    p.AtmosphericLoss,
	})

	c := &Compositor{
		cfg:    cfg,
		region: geometry.NewRegion(cfg.Perimeter, cfg.Holes),
		model:  model,
		gen:    bands.NewGenerator(model, p.Normalization, p.DotThreshold, p.DirectivityExponent),
		logger: logging.WithFields(logging.Fields{"component": "compositor"}),
	}
	c.facades = c.prepareFacades()
	c.maxLw = maxSuppliedLw(c.facades)
	return c, nil
}

// Config returns the normalized configuration the compositor runs with.
func (c *Compositor) Config() Config {
	return c.cfg
}

// Compute runs the full pipeline: grid axes, base field, base smoothing,
// band overlays, hot-spot pass, overlay smoothing, interior masking,
// capping and the summary. Degenerate scenes come back as an empty grid,
// never as an error; ctx is checked between stages.
func (c *Compositor) Compute(ctx context.Context) (*Grid, error) {
	if c == nil {
		return nil, fmt.Errorf("compositor is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	p := c.cfg.Params
	logger := c.logger.WithFields(logging.Fields{
		"function": "Compute",
		"segments": len(c.facades),
		"workers":  p.Workers,
	})

	if !c.region.Valid() {
		logger.Warn("Perimeter has fewer than 3 usable points, returning empty grid")
		return emptyGrid(c.cfg.Perimeter), nil
	}

	xs, zs := c.axes()
	rows, cols := len(zs), len(xs)
	inside := c.interiorMask(xs, zs)
	logger.Debug("Grid constructed", logging.Fields{
		"rows":      rows,
		"cols":      cols,
		"cell_size": p.AreaSize / float64(cols),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base := c.baseField(xs, zs, inside)
	base = smoothing.NewFilter(p.SmoothPreSize, p.SmoothPreSigma).Apply(base)
	base = smoothing.NewFilter(p.SmoothSize, p.SmoothSigma).Apply(base)
	logger.Debug("Base field smoothed", logging.Fields{
		"pre_size":   p.SmoothPreSize,
		"final_size": p.SmoothSize,
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	energy := c.overlayEnergy(xs, zs, inside)
	combined := combine(base, energy)
	logger.Debug("Band overlay combined", logging.Fields{
		"radiating": c.radiatingCount(),
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if p.HotspotEnabled {
		c.applyHotspots(combined, xs, zs, inside)
		logger.Debug("Hot-spot pass applied")
	}

	combined = smoothing.NewFilter(p.OverlaySmoothSize, p.OverlaySmoothSigma).Apply(combined)

	// Interiors revert to the base field, which is NaN there by
	// construction; overlay energy never shows inside the footprint.
	for r := range combined {
		for col := range combined[r] {
			if inside[r][col] {
				combined[r][col] = base[r][col]
			}
		}
	}

	if isFinite(c.maxLw) {
		for r := range combined {
			for col, v := range combined[r] {
				if v > c.maxLw {
					combined[r][col] = c.maxLw
				}
			}
		}
	}

	min, max := stats.FiniteMinMax(combined)
	grid := &Grid{
		X:    xs,
		Y:    zs,
		Z:    combined,
		Min:  min,
		Max:  max,
		Poly: c.cfg.Perimeter,
	}
	logger.Debug("Field composed", logging.Fields{
		"min": min,
		"max": max,
	})
	return grid, nil
}

// axes builds the cell center coordinates: a square AreaSize extent
// centered on the footprint centroid. CellSize wins over Resolution when
// set; both axes always carry at least 3 cells.
func (c *Compositor) axes() ([]float64, []float64) {
	p := c.cfg.Params
	n := p.Resolution
	if p.CellSize > 0 {
		n = int(math.Round(p.AreaSize / p.CellSize))
	}
	if n < 3 {
		n = 3
	}
	center := c.region.Centroid()
	return axis(center.X, p.AreaSize, n), axis(center.Z, p.AreaSize, n)
}

func axis(center, size float64, n int) []float64 {
	step := size / float64(n)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = center - size/2 + (float64(i)+0.5)*step
	}
	return vals
}

// interiorMask marks cell centers strictly inside the footprint (holes
// excluded).
func (c *Compositor) interiorMask(xs, zs []float64) [][]bool {
	mask := make([][]bool, len(zs))
	for r := range mask {
		mask[r] = make([]bool, len(xs))
	}
	c.parallelRows(len(zs), func(start, end int) {
		for r := start; r < end; r++ {
			for col := range xs {
				mask[r][col] = c.region.Contains(geometry.Point{X: xs[col], Z: zs[r]})
			}
		}
	})
	return mask
}

// baseField evaluates the propagation model against the nearest facade for
// every exterior cell. Interior cells and scenes without facades are NaN.
func (c *Compositor) baseField(xs, zs []float64, inside [][]bool) [][]float64 {
	field := newMatrix(len(zs), len(xs), math.NaN())
	if len(c.facades) == 0 {
		return field
	}
	c.parallelRows(len(zs), func(start, end int) {
		for r := start; r < end; r++ {
			for col := range xs {
				if inside[r][col] {
					continue
				}
				cell := geometry.Point{X: xs[col], Z: zs[r]}
				best := math.Inf(1)
				nearest := 0
				for i := range c.facades {
					d, _ := geometry.DistanceToSegment(cell, c.facades[i].seg)
					if d < best {
						best = d
						nearest = i
					}
				}
				f := c.facades[nearest]
				field[r][col] = c.model.LevelAt(f.baseLw, f.re, best)
			}
		}
	})
	return field
}

// overlayEnergy accumulates the per-band linear energy of every radiating
// facade into one shared matrix. Blue and green always run; yellow and red
// are gated by the facade's configured level.
func (c *Compositor) overlayEnergy(xs, zs []float64, inside [][]bool) [][]float64 {
	p := c.cfg.Params
	energy := newMatrix(len(zs), len(xs), 0)
	target := bands.Target{
		X:      xs,
		Z:      zs,
		Energy: energy,
		Skip:   func(row, col int) bool { return inside[row][col] },
	}
	c.parallelRows(len(zs), func(start, end int) {
		for _, f := range c.facades {
			if !f.radiates() {
				continue
			}
			for _, band := range bands.All() {
				if !bandEnabled(band, f.suppliedLw, p.YellowThreshold, p.RedThreshold) {
					continue
				}
				c.gen.AccumulateRange(target, start, end, f.seg, f.normal, f.suppliedLw, f.re, p.Bands[band])
			}
		}
	})
	return energy
}

func bandEnabled(band bands.Band, lw, yellow, red float64) bool {
	switch band {
	case bands.Yellow:
		return lw >= yellow
	case bands.Red:
		return lw >= red
	default:
		return true
	}
}

func (c *Compositor) radiatingCount() int {
	n := 0
	for _, f := range c.facades {
		if f.radiates() {
			n++
		}
	}
	return n
}

// combine folds the overlay energy into the smoothed base field in the
// energy domain. Cells with no energy at all stay NaN.
func combine(base, energy [][]float64) [][]float64 {
	out := make([][]float64, len(base))
	for r := range base {
		row := make([]float64, len(base[r]))
		for col := range row {
			e := propagation.DBToEnergy(base[r][col]) + energy[r][col]
			row[col] = propagation.EnergyToDB(e)
		}
		out[r] = row
	}
	return out
}

// parallelRows splits [0, rows) across the configured workers. Each row is
// written by exactly one goroutine, so results do not depend on scheduling.
func (c *Compositor) parallelRows(rows int, fn func(start, end int)) {
	workers := c.cfg.Params.Workers
	if workers > rows {
		workers = rows
	}
	if workers <= 1 || rows <= 1 {
		fn(0, rows)
		return
	}
	chunk := (rows + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < rows; start += chunk {
		end := start + chunk
		if end > rows {
			end = rows
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
