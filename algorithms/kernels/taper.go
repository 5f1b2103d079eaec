package kernels

import (
	"math"
)

// EdgeTaper is a Tukey-style cosine ramp over the normalized segment
// position t in [0, 1]: 0 at the endpoints, 1 on the plateau. width is the
// tapered fraction per end; 0 disables the taper and 0.5 or more turns the
// whole profile into a cosine arch.
func EdgeTaper(t, width float64) float64 {
	if width <= 0 {
		return 1
	}
	t = math.Max(0, math.Min(1, t))
	if width >= 0.5 {
		return 0.5 * (1 - math.Cos(2*math.Pi*t))
	}
	switch {
	case t < width:
		// Rising cosine taper
		return 0.5 * (1 - math.Cos(math.Pi*t/width))
	case t > 1-width:
		// Falling cosine taper
		return 0.5 * (1 - math.Cos(math.Pi*(1-t)/width))
	default:
		return 1
	}
}
