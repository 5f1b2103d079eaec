package sampling

import (
	"math"

	"github.com/sonitus/noisefield/algorithms/geometry"
)

// DefaultSpacing is the sample spacing (meters) used when a sampler is
// built with an unusable value.
const DefaultSpacing = 1.0

// Source is a point emitter standing in for a stretch of facade. Normal is
// the facade's outward unit normal, Lw the facade power level in dB and Span
// the facade length in meters this sample represents.
type Source struct {
	Position geometry.Point `json:"position"`
	Normal   geometry.Point `json:"normal"`
	Lw       float64        `json:"lw"`
	Span     float64        `json:"span"`
}

// Sampler turns facade segments into rows of point emitters.
type Sampler struct {
	spacing float64
}

// NewSampler creates a sampler with the given spacing in meters. Zero,
// negative or non-finite spacings fall back to DefaultSpacing.
func NewSampler(spacing float64) *Sampler {
	if spacing <= 0 || math.IsNaN(spacing) || math.IsInf(spacing, 0) {
		spacing = DefaultSpacing
	}
	return &Sampler{spacing: spacing}
}

// Spacing returns the sampler's spacing in meters.
func (s *Sampler) Spacing() float64 {
	return s.spacing
}

// SampleSegment emits sources along the segment at sub-segment centers.
// Segments always yield at least one sample unless they are degenerate,
// and samples never sit on the endpoints.
func (s *Sampler) SampleSegment(seg geometry.Segment, normal geometry.Point, lw float64) []Source {
	length := seg.Length()
	if length < geometry.MinSegmentLength {
		return nil
	}

	n := int(length / s.spacing)
	if n < 1 {
		n = 1
	}
	span := length / float64(n)

	sources := make([]Source, n)
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) * span / length
		sources[i] = Source{
			Position: seg.PointAt(t),
			Normal:   normal,
			Lw:       lw,
			Span:     span,
		}
	}
	return sources
}

// ResolveLevel looks up a facade's power level: the exact segment name
// first, then the compass direction of its outward normal, then the
// fallback. Non-finite map entries count as missing.
func ResolveLevel(name string, normal geometry.Point, levels map[string]float64, fallback float64) float64 {
	if v, ok := levels[name]; ok && isFinite(v) {
		return v
	}
	if v, ok := levels[geometry.DirectionKey(normal)]; ok && isFinite(v) {
		return v
	}
	return fallback
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
