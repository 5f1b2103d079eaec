package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Field summaries over dB grids. NaN cells mean "no data" and are skipped
// everywhere; a field with no finite cell summarizes to NaN values.

// Summary describes the finite cells of a field.
type Summary struct {
	Count int     `json:"count"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Mean  float64 `json:"mean"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
}

// Summarize computes finite-aware statistics for a row-major field.
func Summarize(field [][]float64) Summary {
	values := finiteValues(field)
	if len(values) == 0 {
		return Summary{
			Min:  math.NaN(),
			Max:  math.NaN(),
			Mean: math.NaN(),
			P50:  math.NaN(),
			P95:  math.NaN(),
		}
	}
	sort.Float64s(values)
	return Summary{
		Count: len(values),
		Min:   floats.Min(values),
		Max:   floats.Max(values),
		Mean:  stat.Mean(values, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, values, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, values, nil),
	}
}

// FiniteMinMax returns the minimum and maximum over finite cells, or
// (NaN, NaN) when the field has none.
func FiniteMinMax(field [][]float64) (minV, maxV float64) {
	minV, maxV = math.NaN(), math.NaN()
	for _, row := range field {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			if math.IsNaN(minV) || v < minV {
				minV = v
			}
			if math.IsNaN(maxV) || v > maxV {
				maxV = v
			}
		}
	}
	return minV, maxV
}

// finiteValues flattens the finite cells of a field.
func finiteValues(field [][]float64) []float64 {
	var values []float64
	for _, row := range field {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			values = append(values, v)
		}
	}
	return values
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Lerp performs linear interpolation between two values
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
