package geometry

import (
	"math"

	"github.com/ctessum/geom"
)

// LoopArea returns the signed shoelace area of a closed loop (first point not
// repeated). Counter-clockwise loops have positive area.
func LoopArea(loop []Point) float64 {
	if len(loop) < 3 {
		return 0
	}
	area := 0.0
	for i, p := range loop {
		q := loop[(i+1)%len(loop)]
		area += p.Cross(q)
	}
	return area / 2
}

// Centroid returns the area centroid of a closed loop. Degenerate loops
// (fewer than 3 points or near-zero area) fall back to the vertex mean.
func Centroid(loop []Point) Point {
	if len(loop) == 0 {
		return Point{}
	}
	if len(loop) >= 3 && math.Abs(LoopArea(loop)) > MinSegmentLength {
		c := toRing(loop)
		gc := geom.Polygon{c}.Centroid()
		if !math.IsNaN(gc.X) && !math.IsNaN(gc.Y) {
			return Point{X: gc.X, Z: gc.Y}
		}
	}
	var sum Point
	for _, p := range loop {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(loop)))
}

// Bounds returns the axis-aligned bounding box of the loop.
func Bounds(loop []Point) (min, max Point) {
	if len(loop) == 0 {
		return Point{}, Point{}
	}
	min, max = loop[0], loop[0]
	for _, p := range loop[1:] {
		min.X = math.Min(min.X, p.X)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Region is a building footprint: one outer loop plus optional hole loops
// (courtyards). Containment tests treat hole interiors as outside.
type Region struct {
	outer    []Point
	poly     geom.Polygon
	centroid Point
	valid    bool
}

// NewRegion builds a region from an outer loop and optional holes. Loops with
// fewer than 3 points are ignored; an unusable outer loop yields a region
// that contains nothing.
func NewRegion(outer []Point, holes [][]Point) *Region {
	r := &Region{outer: outer}
	if len(outer) < 3 {
		r.centroid = Centroid(outer)
		return r
	}
	rings := geom.Polygon{toRing(outer)}
	for _, h := range holes {
		if len(h) >= 3 {
			rings = append(rings, toRing(h))
		}
	}
	r.poly = rings
	r.centroid = Centroid(outer)
	r.valid = math.Abs(LoopArea(outer)) > MinSegmentLength
	return r
}

// Valid reports whether the region has a usable outer loop.
func (r *Region) Valid() bool {
	return r != nil && r.valid
}

// Outer returns the outer loop the region was built from.
func (r *Region) Outer() []Point {
	if r == nil {
		return nil
	}
	return r.outer
}

// Centroid returns the area centroid of the outer loop.
func (r *Region) Centroid() Point {
	if r == nil {
		return Point{}
	}
	return r.centroid
}

// Contains reports whether p lies strictly inside the region (inside the
// outer loop and outside every hole). Points on an edge count as outside.
func (r *Region) Contains(p Point) bool {
	if !r.Valid() {
		return false
	}
	return geom.Point{X: p.X, Y: p.Z}.Within(r.poly) == geom.Inside
}

// toRing converts a loop to a geom ring (plan z maps to geographic y).
func toRing(loop []Point) []geom.Point {
	ring := make([]geom.Point, len(loop))
	for i, p := range loop {
		ring[i] = geom.Point{X: p.X, Y: p.Z}
	}
	return ring
}
