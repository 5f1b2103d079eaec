package bands

import (
	"fmt"
	"math"
)

// Band identifies one energy overlay of the heat map, from the tight red
// stripe hugging loud facades out to the faint blue wash.
type Band string

const (
	Red    Band = "red"
	Yellow Band = "yellow"
	Green  Band = "green"
	Blue   Band = "blue"
)

// All returns the bands in accumulation order, widest first. The order is
// fixed so that energy sums are reproducible bit for bit.
func All() []Band {
	return []Band{Blue, Green, Yellow, Red}
}

// Valid reports whether b is a known band.
func (b Band) Valid() bool {
	switch b {
	case Red, Yellow, Green, Blue:
		return true
	}
	return false
}

// Mode selects how a facade's radiated power is split across its samples.
type Mode string

const (
	// PerMeter weights each sample by the facade length it represents, so
	// the facade's total power is preserved and equal-Lw facades of
	// different lengths read alike at a distance.
	PerMeter Mode = "per_meter"

	// PerSample splits the power evenly by sample count. With uniform
	// spacing this coincides with PerMeter.
	PerSample Mode = "per_sample"

	// None lets every sample re-emit the full facade power. Brightness then
	// grows with facade length; kept for debugging and legacy tuning.
	None Mode = "none"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	switch m {
	case PerMeter, PerSample, None:
		return true
	}
	return false
}

// ParseMode validates a mode name, defaulting empty to PerMeter.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return PerMeter, nil
	case PerMeter, PerSample, None:
		return Mode(s), nil
	default:
		return PerMeter, fmt.Errorf("unknown normalization mode %q", s)
	}
}

// Params shapes one band's footprint. All values are meters.
type Params struct {
	// SigmaPerp is the gaussian falloff away from the facade line.
	SigmaPerp float64 `json:"sigma_perp"`
	// SigmaAlong is the gaussian falloff along the facade past each sample.
	SigmaAlong float64 `json:"sigma_along"`
	// MaxDistance is where the soft cap starts fading the band out.
	MaxDistance float64 `json:"max_distance"`
	// FalloffScale is the decay length of the soft cap tail.
	FalloffScale float64 `json:"falloff_scale"`
	// Spacing is the facade sample spacing for this band.
	Spacing float64 `json:"spacing"`
}

// DefaultParams returns the band table tuned for street-scale scenes:
// red is narrow and finely sampled, blue wide and coarse.
func DefaultParams() map[Band]Params {
	return map[Band]Params{
		Red:    {SigmaPerp: 0.8, SigmaAlong: 2.5, MaxDistance: 4, FalloffScale: 1.2, Spacing: 0.15},
		Yellow: {SigmaPerp: 2.2, SigmaAlong: 5, MaxDistance: 9, FalloffScale: 2.5, Spacing: 0.5},
		Green:  {SigmaPerp: 4.5, SigmaAlong: 9, MaxDistance: 18, FalloffScale: 4, Spacing: 1.0},
		Blue:   {SigmaPerp: 8, SigmaAlong: 14, MaxDistance: 30, FalloffScale: 6, Spacing: 1.0},
	}
}

// shareOffset returns the dB offset applied to the facade level for one
// sample: 10*log10 of the power share the sample carries.
func shareOffset(mode Mode, span, total float64, count int) float64 {
	switch mode {
	case PerSample:
		return -10 * math.Log10(float64(count))
	case None:
		return 0
	default: // PerMeter
		if total <= 0 {
			return 0
		}
		return 10 * math.Log10(span/total)
	}
}
