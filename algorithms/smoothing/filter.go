package smoothing

import (
	"math"

	"github.com/sonitus/noisefield/algorithms/kernels"
)

// Filter applies a mask-aware separable gaussian blur to row-major fields.
// NaN cells are the mask: they stay NaN, and they are excluded from both the
// weighted sum and the normalization denominator of their neighbors, so data
// never bleeds across the mask. Borders clamp to the edge sample.
//
// Fields are assumed rectangular.
type Filter struct {
	size   int
	sigma  float64
	kernel *kernels.Kernel1D
}

// NewFilter creates a smoothing filter. A size below 3 or a non-positive
// sigma yields an identity filter; even sizes are promoted to the next odd
// value. Sigma is used as given, never derived from the size.
func NewFilter(size int, sigma float64) *Filter {
	f := &Filter{size: size, sigma: sigma}
	if f.IsIdentity() {
		return f
	}
	f.kernel = kernels.NewKernel1D(size, sigma)
	f.size = f.kernel.Size()
	return f
}

// IsIdentity reports whether Apply returns the input unchanged.
func (f *Filter) IsIdentity() bool {
	return f.size < 3 || f.sigma <= 0 || math.IsNaN(f.sigma)
}

// Size returns the effective kernel width.
func (f *Filter) Size() int {
	return f.size
}

// Sigma returns the gaussian sigma.
func (f *Filter) Sigma() float64 {
	return f.sigma
}

// Apply smooths the field and returns a new matrix; the input is not
// modified.
func (f *Filter) Apply(field [][]float64) [][]float64 {
	if f.IsIdentity() || len(field) == 0 {
		return Clone(field)
	}
	horizontal := f.pass(field, false)
	return f.pass(horizontal, true)
}

// pass runs one separable direction. vertical=false slides the kernel along
// each row, vertical=true along each column.
func (f *Filter) pass(src [][]float64, vertical bool) [][]float64 {
	rows := len(src)
	cols := len(src[0])
	radius := f.kernel.Radius()

	dst := make([][]float64, rows)
	for r := range src {
		dst[r] = make([]float64, cols)
		for c := range src[r] {
			center := src[r][c]
			if math.IsNaN(center) {
				dst[r][c] = math.NaN()
				continue
			}

			sum := 0.0
			weight := 0.0
			for o := -radius; o <= radius; o++ {
				rr, cc := r, c
				if vertical {
					rr = clampIndex(r+o, rows)
				} else {
					cc = clampIndex(c+o, cols)
				}
				v := src[rr][cc]
				if math.IsNaN(v) {
					continue
				}
				w := f.kernel.At(o)
				sum += w * v
				weight += w
			}
			// The finite center always contributes, so weight > 0.
			dst[r][c] = sum / weight
		}
	}
	return dst
}

// Clone deep-copies a row-major field.
func Clone(field [][]float64) [][]float64 {
	if field == nil {
		return nil
	}
	out := make([][]float64, len(field))
	for i, row := range field {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
