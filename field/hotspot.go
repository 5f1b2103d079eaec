package field

import (
	"math"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/kernels"
	"github.com/sonitus/noisefield/algorithms/propagation"
	"github.com/sonitus/noisefield/algorithms/stats"
)

// hotspotMinWeight drops contributions too faint to matter in dB space.
const hotspotMinWeight = 1e-6

// applyHotspots raises the combined field toward a projection-based
// per-facade estimate: each exterior cell takes the maximum over radiating
// facades of a blended linear/log decay, weighted laterally past segment
// ends and tapered at the corners. The edge taper pinches contributions at
// segment corners; with a zero edge fraction the lateral gaussian alone
// fades the stripe past the ends. Cells behind a facade, and facades whose
// outward normal could not be resolved, contribute nothing.
func (c *Compositor) applyHotspots(z [][]float64, xs, zs []float64, inside [][]bool) {
	radiating := make([]facade, 0, len(c.facades))
	for _, f := range c.facades {
		if f.radiates() {
			radiating = append(radiating, f)
		}
	}
	if len(radiating) == 0 {
		return
	}

	c.parallelRows(len(zs), func(start, end int) {
		for r := start; r < end; r++ {
			for col := range xs {
				if inside[r][col] {
					continue
				}
				cell := geometry.Point{X: xs[col], Z: zs[r]}
				best := math.NaN()
				for i := range radiating {
					level, ok := c.hotspotLevel(cell, radiating[i])
					if ok && (math.IsNaN(best) || level > best) {
						best = level
					}
				}
				if !math.IsNaN(best) && (math.IsNaN(z[r][col]) || best > z[r][col]) {
					z[r][col] = best
				}
			}
		}
	})
}

// hotspotLevel evaluates one facade's hot-spot estimate at a cell. The cell
// is projected onto the segment; the blended level decays from the clamped
// foot-point distance and the combined weight converts to a dB adjustment.
func (c *Compositor) hotspotLevel(cell geometry.Point, f facade) (float64, bool) {
	p := c.cfg.Params

	d, t := geometry.DistanceToSegment(cell, f.seg)
	foot := f.seg.PointAt(t)
	if cell.Sub(foot).Dot(f.normal) < 0 {
		return 0, false
	}
	d = math.Max(d, propagation.MinDistance)

	linear := f.suppliedLw - f.re - p.HotspotSlope*d
	logDecay := c.model.LevelAt(f.suppliedLw, f.re, d)
	level := p.HotspotBlend*linear + (1-p.HotspotBlend)*logDecay

	_, along, overshoot := geometry.Decompose(cell, f.seg)
	w := kernels.GaussianWeight(overshoot, p.HotspotSigmaLateral) *
		kernels.EdgeTaper(stats.Clamp(along/f.length, 0, 1), p.HotspotEdgeFraction)
	if w < hotspotMinWeight {
		return 0, false
	}
	return level + 10*math.Log10(w), true
}
