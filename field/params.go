package field

import (
	"fmt"
	"math"

	"github.com/sonitus/noisefield/algorithms/bands"
)

// Params is the full tuning surface of the compositor. The zero value is
// safe to compute with: structural fields (grid extent, resolution, band
// table, spacings, fallbacks) are filled with the documented defaults by
// normalization, while explicit zeros on behavioral knobs are respected
// (a zero smoothing size disables that pass). DefaultParams is the single
// source of the documented defaults.
type Params struct {
	// Propagation. DBPerMeter is the linear distance loss (default 0.25
	// dB/m), the directivity and atmospheric terms are fixed dB corrections
	// (default 0).
	DBPerMeter         float64 `json:"db_per_meter"`
	RoomDirectivity    float64 `json:"room_directivity"`
	OutdoorDirectivity float64 `json:"outdoor_directivity"`
	AtmosphericLoss    float64 `json:"atmospheric_loss"`

	// DefaultFacadeLoss substitutes a facade's composite transmission loss
	// when no construction elements resolve (default 30 dB). Zero selects
	// the default; model a literally lossless facade with an explicit
	// element of R = 0.
	DefaultFacadeLoss float64 `json:"default_facade_loss"`

	// BaseFallbackLw feeds the base field when a facade has no configured
	// level (default 60 dB). Zero selects the default.
	BaseFallbackLw float64 `json:"base_fallback_lw"`

	// InteriorLevel and AbsorptionArea, when both positive, convert an
	// interior pressure level to facade power for facades missing from the
	// level map (default off).
	InteriorLevel  float64 `json:"interior_level,omitempty"`
	AbsorptionArea float64 `json:"absorption_area,omitempty"`

	// Sampling. SampleSpacing drives the general bands (default 1 m),
	// RedSampleSpacing the red band (default 0.15 m).
	SampleSpacing    float64    `json:"sample_spacing"`
	RedSampleSpacing float64    `json:"red_sample_spacing"`
	Normalization    bands.Mode `json:"normalization"`

	// Overlay shaping. DotThreshold is the frontal cosine gate (default
	// -0.18), DirectivityExponent the optional cosine-power weighting
	// (default 0, off). Bands overrides the per-band footprint table.
	DotThreshold        float64                     `json:"dot_threshold"`
	DirectivityExponent float64                     `json:"directivity_exponent"`
	Bands               map[bands.Band]bands.Params `json:"bands,omitempty"`

	// RedThreshold and YellowThreshold gate the hot bands by resolved
	// facade Lw (defaults 70 and 55 dB).
	RedThreshold    float64 `json:"red_threshold"`
	YellowThreshold float64 `json:"yellow_threshold"`

	// Smoothing passes: pre and final on the base field, overlay on the
	// combined field. Size < 3 or sigma <= 0 disables a pass.
	SmoothPreSize      int     `json:"smooth_pre_size"`
	SmoothPreSigma     float64 `json:"smooth_pre_sigma"`
	SmoothSize         int     `json:"smooth_size"`
	SmoothSigma        float64 `json:"smooth_sigma"`
	OverlaySmoothSize  int     `json:"overlay_smooth_size"`
	OverlaySmoothSigma float64 `json:"overlay_smooth_sigma"`

	// Hot-spot pass. Blend weights the linear decay against the log decay
	// (default 0.35), Slope is the linear decay in dB/m (default 1.8),
	// SigmaLateral the gaussian falloff past segment ends (default 3 m),
	// EdgeFraction the cosine taper width at segment ends (default 0.12).
	HotspotEnabled      bool    `json:"hotspot_enabled"`
	HotspotBlend        float64 `json:"hotspot_blend"`
	HotspotSlope        float64 `json:"hotspot_slope"`
	HotspotSigmaLateral float64 `json:"hotspot_sigma_lateral"`
	HotspotEdgeFraction float64 `json:"hotspot_edge_fraction"`

	// ProbeOffset is the outward-normal probe distance in meters
	// (default 0.3).
	ProbeOffset float64 `json:"probe_offset"`

	// Grid extent and density. AreaSize is the square extent in meters
	// centered on the perimeter centroid (default 100). CellSize, when
	// positive, wins over Resolution (cells per axis, default 72).
	// BuildingHeight derives facade areas (default 10 m).
	AreaSize       float64 `json:"area_size"`
	Resolution     int     `json:"resolution"`
	CellSize       float64 `json:"cell_size,omitempty"`
	BuildingHeight float64 `json:"building_height"`

	// Workers caps row-parallelism; 1 is fully synchronous (default 1).
	Workers int  `json:"workers"`
	Debug   bool `json:"debug"`
}

// DefaultParams returns the documented defaults.
func DefaultParams() Params {
	return Params{
		DBPerMeter:          0.25,
		DefaultFacadeLoss:   30,
		BaseFallbackLw:      60,
		SampleSpacing:       1.0,
		RedSampleSpacing:    0.15,
		Normalization:       bands.PerMeter,
		DotThreshold:        bands.DefaultDotThreshold,
		RedThreshold:        70,
		YellowThreshold:     55,
		SmoothPreSize:       3,
		SmoothPreSigma:      0.8,
		SmoothSize:          5,
		SmoothSigma:         1.2,
		OverlaySmoothSize:   9,
		OverlaySmoothSigma:  2.2,
		HotspotEnabled:      true,
		HotspotBlend:        0.35,
		HotspotSlope:        1.8,
		HotspotSigmaLateral: 3.0,
		HotspotEdgeFraction: 0.12,
		ProbeOffset:         0.3,
		AreaSize:            100,
		Resolution:          72,
		BuildingHeight:      10,
		Workers:             1,
	}
}

// PresetParams returns a named tuning: "default", "crisp" (tight kernels,
// finer red sampling) or "soft" (wide halos, gentler hot spots).
func PresetParams(name string) (Params, error) {
	p := DefaultParams()
	switch name {
	case "", "default":
	case "crisp":
		p.SmoothPreSize = 0
		p.SmoothSize = 3
		p.SmoothSigma = 0.8
		p.OverlaySmoothSize = 5
		p.OverlaySmoothSigma = 1.2
		p.RedSampleSpacing = 0.1
	case "soft":
		p.SmoothSize = 7
		p.SmoothSigma = 1.8
		p.OverlaySmoothSize = 13
		p.OverlaySmoothSigma = 3.5
		p.HotspotBlend = 0.2
		p.HotspotSigmaLateral = 4.5
	default:
		return p, fmt.Errorf("unknown preset %q", name)
	}
	return p, nil
}

// Validate rejects explicitly invalid tuning: negative sizes and distances,
// NaN thresholds, malformed band overrides. Zero values never fail here;
// normalization resolves them.
func (p Params) Validate() error {
	checks := []struct {
		name string
		bad  bool
	}{
		{"area_size", p.AreaSize < 0 || !isFinite(p.AreaSize)},
		{"cell_size", p.CellSize < 0 || !isFinite(p.CellSize)},
		{"resolution", p.Resolution < 0},
		{"building_height", p.BuildingHeight < 0 || !isFinite(p.BuildingHeight)},
		{"workers", p.Workers < 0},
		{"sample_spacing", p.SampleSpacing < 0 || !isFinite(p.SampleSpacing)},
		{"red_sample_spacing", p.RedSampleSpacing < 0 || !isFinite(p.RedSampleSpacing)},
		{"red_threshold", math.IsNaN(p.RedThreshold)},
		{"yellow_threshold", math.IsNaN(p.YellowThreshold)},
		{"dot_threshold", math.IsNaN(p.DotThreshold)},
		{"smooth_pre_size", p.SmoothPreSize < 0},
		{"smooth_size", p.SmoothSize < 0},
		{"overlay_smooth_size", p.OverlaySmoothSize < 0},
		{"smooth_pre_sigma", p.SmoothPreSigma < 0 || math.IsNaN(p.SmoothPreSigma)},
		{"smooth_sigma", p.SmoothSigma < 0 || math.IsNaN(p.SmoothSigma)},
		{"overlay_smooth_sigma", p.OverlaySmoothSigma < 0 || math.IsNaN(p.OverlaySmoothSigma)},
		{"hotspot_blend", math.IsNaN(p.HotspotBlend) || p.HotspotBlend < 0 || p.HotspotBlend > 1},
		{"hotspot_slope", p.HotspotSlope < 0 || math.IsNaN(p.HotspotSlope)},
		{"hotspot_sigma_lateral", p.HotspotSigmaLateral < 0 || math.IsNaN(p.HotspotSigmaLateral)},
		{"hotspot_edge_fraction", p.HotspotEdgeFraction < 0 || math.IsNaN(p.HotspotEdgeFraction)},
		{"probe_offset", p.ProbeOffset < 0 || math.IsNaN(p.ProbeOffset)},
	}
	for _, c := range checks {
		if c.bad {
			return fmt.Errorf("invalid %s", c.name)
		}
	}
	if p.Normalization != "" && !p.Normalization.Valid() {
		return fmt.Errorf("unknown normalization mode %q", p.Normalization)
	}
	for band, bp := range p.Bands {
		if !band.Valid() {
			return fmt.Errorf("unknown band %q", band)
		}
		if bp.SigmaPerp < 0 || bp.SigmaAlong < 0 || bp.MaxDistance < 0 ||
			bp.FalloffScale < 0 || bp.Spacing < 0 {
			return fmt.Errorf("invalid parameters for band %q", band)
		}
	}
	return nil
}

// normalized fills zero structural fields with defaults and repairs
// non-finite leftovers, leaving explicit behavioral zeros alone.
func (p Params) normalized() Params {
	if p.AreaSize == 0 {
		p.AreaSize = 100
	}
	if p.CellSize == 0 && p.Resolution == 0 {
		p.Resolution = 72
	}
	if p.BuildingHeight == 0 {
		p.BuildingHeight = 10
	}
	if p.ProbeOffset == 0 {
		p.ProbeOffset = 0.3
	}
	if p.SampleSpacing == 0 {
		p.SampleSpacing = 1.0
	}
	if p.RedSampleSpacing == 0 {
		p.RedSampleSpacing = 0.15
	}
	if p.DefaultFacadeLoss == 0 {
		p.DefaultFacadeLoss = 30
	}
	if p.BaseFallbackLw == 0 {
		p.BaseFallbackLw = 60
	}
	if p.Workers < 1 {
		p.Workers = 1
	}
	if p.Normalization == "" {
		p.Normalization = bands.PerMeter
	}
	if p.Bands == nil {
		p.Bands = defaultBandTable(p.SampleSpacing, p.RedSampleSpacing)
	} else {
		// Partial overrides keep defaults for the bands they omit.
		table := defaultBandTable(p.SampleSpacing, p.RedSampleSpacing)
		for band, bp := range p.Bands {
			table[band] = bp
		}
		p.Bands = table
	}
	return p
}

// defaultBandTable wires the band footprints to the configured spacings:
// red samples at the fine spacing, blue at the general one.
func defaultBandTable(spacing, redSpacing float64) map[bands.Band]bands.Params {
	table := bands.DefaultParams()
	red := table[bands.Red]
	red.Spacing = redSpacing
	table[bands.Red] = red
	blue := table[bands.Blue]
	blue.Spacing = spacing
	table[bands.Blue] = blue
	return table
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
