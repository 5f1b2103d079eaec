package bands

import (
	"math"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/kernels"
	"github.com/sonitus/noisefield/algorithms/propagation"
	"github.com/sonitus/noisefield/algorithms/sampling"
)

// DefaultDotThreshold is the frontal gate applied to the cosine between the
// facade normal and the sample-to-cell direction. Slightly negative, so cells
// just around the building corner still pick up some energy.
const DefaultDotThreshold = -0.18

// minWeight is the combined weight below which a sample contribution is
// dropped instead of accumulated.
const minWeight = 1e-12

// Target is the grid a generator writes into. Energy[row][col] accumulates
// linear energy at the cell center (X[col], Z[row]). Skip, when non-nil,
// excludes cells (typically the building interior).
type Target struct {
	X      []float64
	Z      []float64
	Energy [][]float64
	Skip   func(row, col int) bool
}

// Generator accumulates band energy radiated by facade segments into a grid.
// It is stateless apart from its configuration and safe for concurrent use
// as long as callers write disjoint row ranges.
type Generator struct {
	model        *propagation.Model
	mode         Mode
	dotThreshold float64
	dirExponent  float64
}

// NewGenerator creates a generator. A nil model gets default propagation
// options, an unknown mode falls back to PerMeter and non-finite tuning
// values are replaced with their defaults.
func NewGenerator(model *propagation.Model, mode Mode, dotThreshold, dirExponent float64) *Generator {
	if model == nil {
		model = propagation.NewModel(propagation.Options{})
	}
	if !mode.Valid() {
		mode = PerMeter
	}
	if math.IsNaN(dotThreshold) || math.IsInf(dotThreshold, 0) {
		dotThreshold = DefaultDotThreshold
	}
	if math.IsNaN(dirExponent) || math.IsInf(dirExponent, 0) {
		dirExponent = 0
	}
	return &Generator{
		model:        model,
		mode:         mode,
		dotThreshold: dotThreshold,
		dirExponent:  dirExponent,
	}
}

// Mode returns the power split mode the generator was built with.
func (g *Generator) Mode() Mode {
	return g.mode
}

// Model returns the propagation model the generator evaluates levels with.
func (g *Generator) Model() *propagation.Model {
	return g.model
}

// Accumulate adds one facade's band energy across the whole grid.
func (g *Generator) Accumulate(t Target, seg geometry.Segment, normal geometry.Point, lw, re float64, p Params) {
	g.AccumulateRange(t, 0, len(t.Energy), seg, normal, lw, re, p)
}

// AccumulateRange adds one facade's band energy into rows [rowStart, rowEnd).
// The facade is sampled at p.Spacing, the facade power is split across the
// samples per the generator's mode, and each sample radiates through the
// propagation model weighted by the band's anisotropic gaussian, the soft
// distance cap and the frontal directivity gate. Loop order is fixed so
// repeated runs accumulate bit-identical sums.
func (g *Generator) AccumulateRange(t Target, rowStart, rowEnd int, seg geometry.Segment, normal geometry.Point, lw, re float64, p Params) {
	if math.IsNaN(lw) || math.IsInf(lw, 0) || math.IsNaN(re) || math.IsInf(re, 0) {
		return
	}
	if rowStart < 0 {
		rowStart = 0
	}
	if rowEnd > len(t.Energy) {
		rowEnd = len(t.Energy)
	}
	if rowStart >= rowEnd || len(t.X) == 0 {
		return
	}

	samples := sampling.NewSampler(p.Spacing).SampleSegment(seg, normal, lw)
	if len(samples) == 0 {
		return
	}
	tangent, ok := seg.Tangent()
	if !ok {
		return
	}

	// Per-sample levels only differ by the power share, so fold the share
	// into the level up front.
	total := seg.Length()
	adjusted := make([]float64, len(samples))
	for i, src := range samples {
		adjusted[i] = lw + shareOffset(g.mode, src.Span, total, len(samples))
	}

	for row := rowStart; row < rowEnd; row++ {
		for col := range t.X {
			if t.Skip != nil && t.Skip(row, col) {
				continue
			}
			cell := geometry.Point{X: t.X[col], Z: t.Z[row]}
			perp, _, _ := geometry.Decompose(cell, seg)
			dist := math.Abs(perp)

			sum := 0.0
			for i := range samples {
				v := cell.Sub(samples[i].Position)
				d := v.Norm()
				dot := 1.0
				if d >= geometry.MinSegmentLength {
					dot = v.Dot(normal) / d
				}
				if dot < g.dotThreshold {
					continue
				}
				lateral := v.Dot(tangent)
				w := kernels.AnisotropicWeight(perp, lateral, p.SigmaPerp, p.SigmaAlong) *
					kernels.SoftCap(d, p.MaxDistance, p.FalloffScale) *
					propagation.Directivity(dot, g.dirExponent)
				if w < minWeight {
					continue
				}
				sum += propagation.DBToEnergy(g.model.LevelAt(adjusted[i], re, dist)) * w
			}
			t.Energy[row][col] += sum
		}
	}
}
