package geometry

import (
	"math"
)

// MinSegmentLength is the length (meters) below which a facade segment is
// treated as degenerate and skipped.
const MinSegmentLength = 1e-6

// Point is a location in plan coordinates (meters). +X is east, -Z is north.
type Point struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Z: p.Z + q.Z}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Z: p.Z - q.Z}
}

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Z: p.Z * s}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Z*q.Z
}

// Cross returns the 2D cross product (scalar) of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Z - p.Z*q.X
}

// Norm returns the euclidean length of p as a vector.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Z)
}

// Unit returns p normalized to unit length. The second return is false when
// p is too short to carry a direction.
func (p Point) Unit() (Point, bool) {
	n := p.Norm()
	if n < MinSegmentLength {
		return Point{}, false
	}
	return Point{X: p.X / n, Z: p.Z / n}, true
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Norm()
}

// Segment is a named facade wall in plan view.
type Segment struct {
	Name string `json:"name"`
	P1   Point  `json:"p1"`
	P2   Point  `json:"p2"`
}

// Length returns the segment length in meters.
func (s Segment) Length() float64 {
	return s.P1.Dist(s.P2)
}

// IsDegenerate reports whether the segment is too short to process.
func (s Segment) IsDegenerate() bool {
	return s.Length() < MinSegmentLength
}

// Tangent returns the unit direction from P1 to P2.
func (s Segment) Tangent() (Point, bool) {
	return s.P2.Sub(s.P1).Unit()
}

// Normal returns the segment tangent rotated -90 degrees: (dx, dz) -> (dz, -dx).
// Whether this points away from the building depends on winding; see
// OutwardNormal for the resolved direction.
func (s Segment) Normal() (Point, bool) {
	t, ok := s.Tangent()
	if !ok {
		return Point{}, false
	}
	return Point{X: t.Z, Z: -t.X}, true
}

// Midpoint returns the segment midpoint.
func (s Segment) Midpoint() Point {
	return s.PointAt(0.5)
}

// PointAt returns the point at parameter t along the segment (t=0 -> P1, t=1 -> P2).
func (s Segment) PointAt(t float64) Point {
	return s.P1.Add(s.P2.Sub(s.P1).Scale(t))
}

// DistanceToSegment returns the distance from p to the segment and the
// clamped projection parameter t in [0, 1].
func DistanceToSegment(p Point, s Segment) (float64, float64) {
	d := s.P2.Sub(s.P1)
	lenSq := d.Dot(d)
	if lenSq < MinSegmentLength*MinSegmentLength {
		return p.Dist(s.P1), 0
	}
	t := p.Sub(s.P1).Dot(d) / lenSq
	t = math.Max(0, math.Min(1, t))
	return p.Dist(s.PointAt(t)), t
}

// Decompose splits the offset from segment s to point p into facade-line
// coordinates: perp is the signed distance from the infinite facade line
// (positive on the Normal side), along is the distance from P1 along the
// tangent, and overshoot is how far the projection lands beyond the nearer
// endpoint (zero when it falls inside the segment).
func Decompose(p Point, s Segment) (perp, along, overshoot float64) {
	t, ok := s.Tangent()
	if !ok {
		return p.Dist(s.P1), 0, 0
	}
	n := Point{X: t.Z, Z: -t.X}
	v := p.Sub(s.P1)
	perp = v.Dot(n)
	along = v.Dot(t)
	if along < 0 {
		overshoot = -along
	} else if l := s.Length(); along > l {
		overshoot = along - l
	}
	return perp, along, overshoot
}
