package field

import (
	"math"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/propagation"
	"github.com/sonitus/noisefield/algorithms/sampling"
)

// facade is one preprocessed wall: resolved outward normal, composite
// transmission loss and power levels. suppliedLw is NaN when the scene
// configures nothing for this facade; baseLw always carries a usable value.
type facade struct {
	seg        geometry.Segment
	normal     geometry.Point
	normalOK   bool
	length     float64
	re         float64
	suppliedLw float64
	baseLw     float64
}

// radiates reports whether the facade contributes overlay and hot-spot
// energy: a robustly outward normal and a finite, positive configured level.
func (f facade) radiates() bool {
	return f.normalOK && isFinite(f.suppliedLw) && f.suppliedLw > 0
}

// prepareFacades resolves every usable segment once. Degenerate segments
// are dropped here and never seen by the pipeline stages.
func (c *Compositor) prepareFacades() []facade {
	p := c.cfg.Params
	out := make([]facade, 0, len(c.cfg.Segments))
	for _, seg := range c.cfg.Segments {
		if seg.IsDegenerate() {
			continue
		}
		normal, ok := geometry.OutwardNormal(seg, c.region, p.ProbeOffset)
		lw := c.facadeLevel(seg, normal)

		f := facade{
			seg:        seg,
			normal:     normal,
			normalOK:   ok,
			length:     seg.Length(),
			re:         c.facadeLoss(seg, normal),
			suppliedLw: lw,
			baseLw:     lw,
		}
		if !isFinite(f.baseLw) {
			f.baseLw = p.BaseFallbackLw
		}
		out = append(out, f)
	}
	return out
}

// facadeLevel resolves the configured power level: the level map first
// (exact name, then compass direction), then the interior room conversion
// when enabled. NaN means nothing was configured.
func (c *Compositor) facadeLevel(seg geometry.Segment, normal geometry.Point) float64 {
	p := c.cfg.Params
	lw := sampling.ResolveLevel(seg.Name, normal, c.cfg.Levels, math.NaN())
	if !isFinite(lw) && p.InteriorLevel > 0 && p.AbsorptionArea > 0 {
		lw = propagation.RoomPowerLevel(p.InteriorLevel, p.AbsorptionArea)
	}
	return lw
}

// facadeLoss resolves the composite transmission loss R'e: explicit
// elements for the facade, else the uniform default construction, else a
// single full-facade element (area = length x building height) carrying the
// loss override or the default loss. A NaN composite falls back to the
// default loss.
func (c *Compositor) facadeLoss(seg geometry.Segment, normal geometry.Point) float64 {
	p := c.cfg.Params
	elems := c.cfg.Elements[seg.Name]
	if len(elems) == 0 {
		elems = c.cfg.DefaultElements
	}
	if len(elems) == 0 {
		r := sampling.ResolveLevel(seg.Name, normal, c.cfg.Losses, p.DefaultFacadeLoss)
		elems = []propagation.FacadeElement{{
			Name:             seg.Name,
			Area:             seg.Length() * p.BuildingHeight,
			TransmissionLoss: r,
		}}
	}
	re := propagation.EffectiveLoss(elems)
	if math.IsNaN(re) {
		re = p.DefaultFacadeLoss
	}
	return re
}

// maxSuppliedLw is the cap for finite output cells: the loudest configured
// facade level, NaN when no facade has one.
func maxSuppliedLw(facades []facade) float64 {
	max := math.NaN()
	for _, f := range facades {
		if isFinite(f.suppliedLw) && (math.IsNaN(max) || f.suppliedLw > max) {
			max = f.suppliedLw
		}
	}
	return max
}
