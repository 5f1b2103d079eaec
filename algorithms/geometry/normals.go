package geometry

import (
	"math"
	"strconv"
)

// OutwardNormal resolves the outward-facing unit normal of a facade segment
// against the building region. It starts from the winding-derived Normal and
// checks two probe points offset from the segment midpoint:
//
//   - candidate side inside and opposite side outside: the normal points into
//     the building, so it is flipped;
//   - both probes inside or both outside (thin wings, probe overshoot): the
//     normal is oriented away from the region centroid instead;
//   - the resolved outward probe still lands inside (reentrant courtyard
//     geometry): the segment cannot radiate here and ok is false.
func OutwardNormal(s Segment, region *Region, probe float64) (Point, bool) {
	n, ok := s.Normal()
	if !ok {
		return Point{}, false
	}
	if probe <= 0 {
		probe = MinSegmentLength
	}
	mid := s.Midpoint()

	frontIn := region.Contains(mid.Add(n.Scale(probe)))
	backIn := region.Contains(mid.Sub(n.Scale(probe)))

	switch {
	case frontIn && !backIn:
		n = n.Scale(-1)
	case frontIn == backIn:
		// Ambiguous probes. Fall back to pointing away from the centroid.
		if mid.Sub(region.Centroid()).Dot(n) < 0 {
			n = n.Scale(-1)
		}
	}

	if region.Contains(mid.Add(n.Scale(probe))) {
		return n, false
	}
	return n, true
}

// DirectionKey maps a facade normal to its dominant compass direction.
// The plan convention is +X east, -Z north.
func DirectionKey(normal Point) string {
	if math.Abs(normal.X) >= math.Abs(normal.Z) {
		if normal.X >= 0 {
			return "east"
		}
		return "west"
	}
	if normal.Z >= 0 {
		return "south"
	}
	return "north"
}

// DeriveSegments builds one named segment per perimeter edge, skipping
// degenerate edges. Names are prefix plus the edge index.
func DeriveSegments(outer []Point, prefix string) []Segment {
	if len(outer) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(outer))
	for i := range outer {
		s := Segment{
			Name: prefix + strconv.Itoa(i),
			P1:   outer[i],
			P2:   outer[(i+1)%len(outer)],
		}
		if s.IsDegenerate() {
			continue
		}
		segments = append(segments, s)
	}
	return segments
}
