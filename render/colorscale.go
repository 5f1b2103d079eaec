// Package render builds presentation artifacts for computed sound fields.
// The color scale pins the band colors to dB thresholds inside the data
// range; the HTML and PNG writers bake a grid into a shareable preview.
package render

import (
	"fmt"
	"math"

	"github.com/sonitus/noisefield/algorithms/stats"
	"github.com/sonitus/noisefield/field"
)

const (
	// scaleSteps is the resample density of a threshold-built ramp.
	scaleSteps = 128

	// minAnchorGap keeps adjacent threshold anchors from collapsing into a
	// hard band edge.
	minAnchorGap = 0.04

	// anchorFloor and anchorCeil soft-clamp threshold anchors away from
	// the range extremes.
	anchorFloor = 0.02
	anchorCeil  = 0.98
)

// A Stop is one entry of a linear color ramp: a normalized position in
// [0, 1] and the hex color at that position.
type Stop struct {
	Pos   float64 `json:"pos"`
	Color string  `json:"color"`
}

// Thresholds carries the dB anchors that pin the band colors onto the data
// range. Entries that are zero or non-finite count as unset.
type Thresholds struct {
	Blue   float64 `json:"blue"`
	Green  float64 `json:"green"`
	Yellow float64 `json:"yellow"`
	Red    float64 `json:"red"`
}

// DefaultThresholds returns the stock dB anchors. Yellow and red match the
// band enable thresholds of field.DefaultParams.
func DefaultThresholds() Thresholds {
	return Thresholds{Blue: 40, Green: 50, Yellow: 55, Red: 70}
}

// ScaleThresholds keys the yellow and red anchors to the band enable
// thresholds of p and keeps the stock blue and green anchors.
func ScaleThresholds(p field.Params) Thresholds {
	t := DefaultThresholds()
	if isFinite(p.YellowThreshold) && p.YellowThreshold > 0 {
		t.Yellow = p.YellowThreshold
	}
	if isFinite(p.RedThreshold) && p.RedThreshold > 0 {
		t.Red = p.RedThreshold
	}
	return t
}

// Anchor colors for the band ramp. Cold and hot bracket the band colors so
// the ramp keeps direction beyond the outermost thresholds.
var (
	colorCold   = rgb{0x0c, 0x1a, 0x3a}
	colorBlue   = rgb{0x2e, 0x6f, 0xdb}
	colorGreen  = rgb{0x3d, 0xbb, 0x6e}
	colorYellow = rgb{0xf4, 0xd0, 0x3f}
	colorRed    = rgb{0xe7, 0x4c, 0x3c}
	colorHot    = rgb{0x7b, 0x24, 0x1c}
)

// fallbackRamp is a thinned viridis.
var fallbackRamp = []string{"#440154", "#3e4989", "#26828e", "#35b779", "#b5de2b", "#fde725"}

type rampAnchor struct {
	pos   float64
	color rgb
}

// BuildScale maps a data range and the band thresholds onto a dense linear
// ramp. Each threshold lands at its normalized position within
// [zMin, zMax], soft-clamped to [0.02, 0.98] and spread to at least 0.04
// from its neighbors, and the anchored ramp is resampled to 128 even
// steps. A degenerate range or a fully unset threshold table yields
// FallbackScale.
func BuildScale(zMin, zMax float64, th Thresholds) []Stop {
	if !isFinite(zMin) || !isFinite(zMax) || zMax <= zMin {
		return FallbackScale()
	}

	span := zMax - zMin
	anchors := []rampAnchor{{pos: 0, color: colorCold}}
	for _, band := range []struct {
		level float64
		color rgb
	}{
		{th.Blue, colorBlue},
		{th.Green, colorGreen},
		{th.Yellow, colorYellow},
		{th.Red, colorRed},
	} {
		if !isFinite(band.level) || band.level == 0 {
			continue
		}
		anchors = append(anchors, rampAnchor{
			pos:   stats.Clamp((band.level-zMin)/span, anchorFloor, anchorCeil),
			color: band.color,
		})
	}
	if len(anchors) == 1 {
		return FallbackScale()
	}

	// Spread colliding anchors rightward, then push back from the right
	// edge so the spread never escapes the clamp.
	for i := 2; i < len(anchors); i++ {
		if anchors[i].pos < anchors[i-1].pos+minAnchorGap {
			anchors[i].pos = anchors[i-1].pos + minAnchorGap
		}
	}
	if last := len(anchors) - 1; anchors[last].pos > anchorCeil {
		anchors[last].pos = anchorCeil
		for i := last - 1; i >= 1; i-- {
			if anchors[i].pos > anchors[i+1].pos-minAnchorGap {
				anchors[i].pos = anchors[i+1].pos - minAnchorGap
			}
		}
	}
	anchors = append(anchors, rampAnchor{pos: 1, color: colorHot})

	out := make([]Stop, scaleSteps)
	seg := 0
	for i := range out {
		pos := float64(i) / float64(scaleSteps-1)
		for seg < len(anchors)-2 && pos > anchors[seg+1].pos {
			seg++
		}
		a, b := anchors[seg], anchors[seg+1]
		frac := 0.0
		if b.pos > a.pos {
			frac = stats.Clamp((pos-a.pos)/(b.pos-a.pos), 0, 1)
		}
		out[i] = Stop{Pos: pos, Color: lerpRGB(a.color, b.color, frac).hex()}
	}
	return out
}

// FallbackScale is the fixed ramp for degenerate inputs, evenly spaced
// over [0, 1].
func FallbackScale() []Stop {
	out := make([]Stop, len(fallbackRamp))
	for i, c := range fallbackRamp {
		out[i] = Stop{Pos: float64(i) / float64(len(fallbackRamp)-1), Color: c}
	}
	return out
}

type rgb struct {
	r, g, b uint8
}

func (c rgb) hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}

// parseHex decodes a "#rrggbb" color.
func parseHex(s string) (rgb, error) {
	var c rgb
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("malformed color %q", s)
	}
	if _, err := fmt.Sscanf(s[1:], "%02x%02x%02x", &c.r, &c.g, &c.b); err != nil {
		return c, fmt.Errorf("malformed color %q", s)
	}
	return c, nil
}

// lerpRGB mixes a and b channel-wise at t in [0, 1].
func lerpRGB(a, b rgb, t float64) rgb {
	return rgb{
		r: uint8(math.Round(stats.Lerp(float64(a.r), float64(b.r), t))),
		g: uint8(math.Round(stats.Lerp(float64(a.g), float64(b.g), t))),
		b: uint8(math.Round(stats.Lerp(float64(a.b), float64(b.b), t))),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
