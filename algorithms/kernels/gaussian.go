package kernels

import (
	"math"
)

// GaussianWeight returns exp(-d^2 / 2*sigma^2) for distance d. A sigma of
// zero or less degenerates to an impulse: 1 at d == 0, 0 elsewhere.
func GaussianWeight(d, sigma float64) float64 {
	if sigma <= 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	return math.Exp(-(d * d) / (2 * sigma * sigma))
}

// AnisotropicWeight is the product of two axis-aligned gaussians: perp is the
// offset from the facade line, lateral the offset along it. Narrow sigmaPerp
// with wide sigmaLateral produces the stripe-shaped footprint the band
// overlays use.
func AnisotropicWeight(perp, lateral, sigmaPerp, sigmaLateral float64) float64 {
	return GaussianWeight(perp, sigmaPerp) * GaussianWeight(lateral, sigmaLateral)
}

// SoftCap fades a contribution out beyond maxDist: 1 inside the cap, then an
// exponential tail exp(-(d-maxDist)/scale). A scale of zero or less makes the
// cap hard.
func SoftCap(d, maxDist, scale float64) float64 {
	if d <= maxDist {
		return 1
	}
	if scale <= 0 {
		return 0
	}
	return math.Exp(-(d - maxDist) / scale)
}

// Kernel1D holds precomputed, normalized gaussian coefficients for one
// separable smoothing pass.
type Kernel1D struct {
	size         int
	sigma        float64
	coefficients []float64
}

// NewKernel1D creates a normalized 1D gaussian kernel. Even sizes are
// promoted to the next odd value so the kernel has a center tap; sigma is
// used as given and never derived from the size.
func NewKernel1D(size int, sigma float64) *Kernel1D {
	if size < 1 {
		size = 1
	}
	if size%2 == 0 {
		size++
	}
	k := &Kernel1D{size: size, sigma: sigma}
	k.generate()
	return k
}

// generate fills and normalizes the coefficient table.
func (k *Kernel1D) generate() {
	k.coefficients = make([]float64, k.size)
	radius := k.size / 2

	// The center tap is always 1, so the sum is never zero.
	sum := 0.0
	for i := 0; i < k.size; i++ {
		d := float64(i - radius)
		k.coefficients[i] = GaussianWeight(d, k.sigma)
		sum += k.coefficients[i]
	}
	for i := range k.coefficients {
		k.coefficients[i] /= sum
	}
}

// Size returns the kernel width (always odd).
func (k *Kernel1D) Size() int {
	return k.size
}

// Radius returns the number of taps on each side of the center.
func (k *Kernel1D) Radius() int {
	return k.size / 2
}

// Sigma returns the gaussian sigma the kernel was built with.
func (k *Kernel1D) Sigma() float64 {
	return k.sigma
}

// At returns the coefficient for tap offset o in [-Radius, Radius].
func (k *Kernel1D) At(o int) float64 {
	return k.coefficients[o+k.size/2]
}

// Coefficients returns a copy of the normalized coefficient table.
func (k *Kernel1D) Coefficients() []float64 {
	out := make([]float64, len(k.coefficients))
	copy(out, k.coefficients)
	return out
}
