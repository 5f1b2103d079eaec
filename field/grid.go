package field

import (
	"encoding/json"
	"math"

	"github.com/sonitus/noisefield/algorithms/geometry"
	"github.com/sonitus/noisefield/algorithms/stats"
)

// Grid is the computed sound pressure field. X and Y hold cell center
// coordinates (Y carries the plan z axis under the renderer's name), and
// Z[row][col] is the level in dB at (X[col], Y[row]). NaN cells mean
// "no data", interiors included. Min and Max span the finite cells and are
// NaN when there are none.
type Grid struct {
	X    []float64
	Y    []float64
	Z    [][]float64
	Min  float64
	Max  float64
	Poly []geometry.Point
}

// gridJSON is the wire form: NaN is not valid JSON, so masked cells and an
// undefined range travel as null.
type gridJSON struct {
	X    []float64        `json:"x"`
	Y    []float64        `json:"y"`
	Z    [][]*float64     `json:"z"`
	Min  *float64         `json:"min"`
	Max  *float64         `json:"max"`
	Poly []geometry.Point `json:"poly"`
}

// emptyGrid is the substitution result for degenerate scenes.
func emptyGrid(poly []geometry.Point) *Grid {
	return &Grid{
		X:    []float64{},
		Y:    []float64{},
		Z:    [][]float64{{}},
		Min:  math.NaN(),
		Max:  math.NaN(),
		Poly: poly,
	}
}

// Summary returns finite-cell statistics for the grid.
func (g *Grid) Summary() stats.Summary {
	return stats.Summarize(g.Z)
}

// MarshalJSON emits the renderer contract with null for non-finite cells.
func (g *Grid) MarshalJSON() ([]byte, error) {
	out := gridJSON{
		X:    g.X,
		Y:    g.Y,
		Z:    make([][]*float64, len(g.Z)),
		Min:  jsonNumber(g.Min),
		Max:  jsonNumber(g.Max),
		Poly: g.Poly,
	}
	if out.X == nil {
		out.X = []float64{}
	}
	if out.Y == nil {
		out.Y = []float64{}
	}
	if out.Poly == nil {
		out.Poly = []geometry.Point{}
	}
	for r, row := range g.Z {
		cells := make([]*float64, len(row))
		for c := range row {
			cells[c] = jsonNumber(row[c])
		}
		out.Z[r] = cells
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores null cells to NaN.
func (g *Grid) UnmarshalJSON(data []byte) error {
	var in gridJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	g.X = in.X
	g.Y = in.Y
	g.Min = fromJSONNumber(in.Min)
	g.Max = fromJSONNumber(in.Max)
	g.Poly = in.Poly
	g.Z = make([][]float64, len(in.Z))
	for r, row := range in.Z {
		cells := make([]float64, len(row))
		for c, v := range row {
			cells[c] = fromJSONNumber(v)
		}
		g.Z[r] = cells
	}
	return nil
}

func jsonNumber(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func fromJSONNumber(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// newMatrix allocates a rows x cols matrix filled with fill.
func newMatrix(rows, cols int, fill float64) [][]float64 {
	m := make([][]float64, rows)
	for r := range m {
		row := make([]float64, cols)
		if fill != 0 {
			for c := range row {
				row[c] = fill
			}
		}
		m[r] = row
	}
	return m
}
